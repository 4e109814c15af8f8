package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// trainingGoal pairs the API goal key with its menu label.
type trainingGoal struct {
	key   string
	label string
}

var trainingGoalMenu = []trainingGoal{
	{key: "sit", label: "Sit"},
	{key: "stay", label: "Stay"},
	{key: "come", label: "Come when called"},
	{key: "leash", label: "Loose-leash walking"},
}

type trainingState struct {
	cursor     int
	formActive bool
	inputs     []textinput.Model // breed, age
	inputIndex int

	generating bool
	errMsg     string
	planView   viewport.Model
	hasPlan    bool
}

// planDoneMsg carries the result of a background plan generation.
type planDoneMsg struct {
	content string
	err     error
}

func (m *Model) initTraining() {
	m.training.inputs = []textinput.Model{
		newFormInput("Breed: "),
		newFormInput("Age: "),
	}
	m.training.inputs[1].Placeholder = "e.g. 2 years"
	m.training.planView = viewport.New(0, 0)
}

func (m *Model) layoutTraining(width, bodyHeight int) {
	m.training.planView.Width = width
	m.training.planView.Height = maxInt(1, bodyHeight-len(trainingGoalMenu)-4)
}

func (m *Model) updateTraining(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.training.formActive {
		return m.updateTrainingForm(msg)
	}
	switch msg.String() {
	case "up", "k":
		if m.training.cursor > 0 {
			m.training.cursor--
		}
		return m, nil
	case "down", "j":
		if m.training.cursor < len(trainingGoalMenu)-1 {
			m.training.cursor++
		}
		return m, nil
	case "enter":
		if m.training.generating {
			return m, nil
		}
		if !m.ai.Enabled() {
			m.training.errMsg = "No AI api key configured. Set [ai] api-key in the config file."
			return m, nil
		}
		m.training.formActive = true
		m.training.errMsg = ""
		return m, m.setTrainingIndex(0)
	default:
		var cmd tea.Cmd
		m.training.planView, cmd = m.training.planView.Update(msg)
		return m, cmd
	}
}

func (m *Model) updateTrainingForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.training.formActive = false
		return m, nil
	case tea.KeyEnter:
		m.training.formActive = false
		m.training.generating = true
		goal := trainingGoalMenu[m.training.cursor].key
		breed := strings.TrimSpace(m.training.inputs[0].Value())
		age := strings.TrimSpace(m.training.inputs[1].Value())
		return m, m.generatePlanCmd(goal, breed, age)
	case tea.KeyTab:
		return m, m.setTrainingIndex(m.training.inputIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setTrainingIndex(m.training.inputIndex - 1)
	}
	var cmd tea.Cmd
	m.training.inputs[m.training.inputIndex], cmd = m.training.inputs[m.training.inputIndex].Update(msg)
	return m, cmd
}

func (m *Model) setTrainingIndex(idx int) tea.Cmd {
	count := len(m.training.inputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.training.inputIndex = idx
	var cmd tea.Cmd
	for i := range m.training.inputs {
		if i == idx {
			cmd = m.training.inputs[i].Focus()
		} else {
			m.training.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) generatePlanCmd(goal, breed, age string) tea.Cmd {
	client := m.ai
	width := maxInt(20, m.width-4)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), aiTimeout)
		defer cancel()
		plan, err := client.GenerateTrainingPlan(ctx, goal, breed, age)
		if err != nil {
			return planDoneMsg{err: err}
		}
		lines := []string{fmt.Sprintf("%s - %s", plan.Goal, plan.Duration), ""}
		for _, step := range plan.Steps {
			lines = append(lines, step.Title+" ("+step.Duration+")")
			lines = append(lines, wrapText(step.Description, width))
			lines = append(lines, "")
		}
		return planDoneMsg{content: strings.TrimRight(strings.Join(lines, "\n"), "\n")}
	}
}

func (m *Model) finishPlan(msg planDoneMsg) (tea.Model, tea.Cmd) {
	m.training.generating = false
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Msg("training plan generation failed")
		m.training.errMsg = msg.err.Error()
		return m, nil
	}
	m.training.errMsg = ""
	m.training.hasPlan = true
	m.training.planView.SetContent(msg.content)
	m.training.planView.GotoTop()
	return m, nil
}

func (m *Model) renderTraining(height int) string {
	if m.training.formActive {
		lines := []string{
			cardValueStyle.Render("About your dog (enter to generate, esc to cancel)"),
			"",
		}
		for _, input := range m.training.inputs {
			lines = append(lines, input.View())
		}
		return strings.Join(lines, "\n")
	}

	lines := []string{cardTitleStyle.Render("Training goal:")}
	for i, goal := range trainingGoalMenu {
		if i == m.training.cursor {
			lines = append(lines, selectedStyle.Render("> "+goal.label))
		} else {
			lines = append(lines, "  "+goal.label)
		}
	}
	lines = append(lines, "")
	switch {
	case m.training.generating:
		lines = append(lines, warnStyle.Render("Generating plan..."))
	case m.training.errMsg != "":
		lines = append(lines, errorStyle.Render(truncateLine(m.training.errMsg, m.width)))
	case m.training.hasPlan:
		lines = append(lines, m.training.planView.View())
	default:
		lines = append(lines, headerStyle.Render("Pick a goal and press enter for a weekly plan."))
	}
	return strings.Join(lines, "\n")
}
