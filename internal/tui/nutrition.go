package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/verte-zerg/pawtrail/internal/model"
	"github.com/verte-zerg/pawtrail/internal/stats"
)

type nutritionState struct {
	cursor     int
	formActive bool
	input      textinput.Model
	formError  string
	notice     string
}

func (m *Model) initNutrition() {
	m.nutrition.input = newFormInput("Weight (kg): ")
}

func (m *Model) updateNutrition(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.nutrition.formActive {
		return m.updateWeightForm(msg)
	}
	weights := m.stores.Weights.List(context.Background())
	switch msg.String() {
	case "a":
		m.nutrition.formActive = true
		m.nutrition.formError = ""
		m.nutrition.input.SetValue("")
		return m, m.nutrition.input.Focus()
	case "d":
		if m.nutrition.cursor >= 0 && m.nutrition.cursor < len(weights) {
			if err := m.stores.Weights.Delete(context.Background(), weights[m.nutrition.cursor].ID); err != nil {
				m.nutrition.notice = "Delete failed: " + err.Error()
			} else {
				m.nutrition.notice = "Entry deleted."
			}
		}
		return m, nil
	case "up", "k":
		if m.nutrition.cursor > 0 {
			m.nutrition.cursor--
		}
		return m, nil
	case "down", "j":
		if m.nutrition.cursor < len(weights)-1 {
			m.nutrition.cursor++
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateWeightForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.nutrition.formActive = false
		m.nutrition.formError = ""
		return m, nil
	case tea.KeyEnter:
		weight, err := strconv.ParseFloat(strings.TrimSpace(m.nutrition.input.Value()), 64)
		if err != nil || weight <= 0 {
			m.nutrition.formError = "invalid weight (use kilograms)"
			return m, nil
		}
		entry := model.WeightRecord{ID: uuid.NewString(), Date: time.Now(), Weight: weight}
		if err := m.stores.Weights.Add(context.Background(), entry); err != nil {
			m.nutrition.formError = err.Error()
			return m, nil
		}
		m.nutrition.formActive = false
		m.nutrition.formError = ""
		m.nutrition.notice = "Weight logged."
		return m, nil
	}
	var cmd tea.Cmd
	m.nutrition.input, cmd = m.nutrition.input.Update(msg)
	return m, cmd
}

func (m *Model) renderNutrition(height int) string {
	if m.nutrition.formActive {
		lines := []string{
			cardValueStyle.Render("Log Weight (enter to save, esc to cancel)"),
			"",
			m.nutrition.input.View(),
		}
		if m.nutrition.formError != "" {
			lines = append(lines, "", errorStyle.Render(m.nutrition.formError))
		}
		return strings.Join(lines, "\n")
	}

	weights := m.stores.Weights.List(context.Background())
	if len(weights) == 0 {
		return "No weight entries yet. Press a to log one."
	}

	// Chart oldest first; storage is newest first.
	series := make([]float64, 0, len(weights))
	for i := len(weights) - 1; i >= 0; i-- {
		series = append(series, weights[i].Weight)
	}

	lines := []string{
		cardTitleStyle.Render(fmt.Sprintf("Weight trend (%d entries, latest %.1f kg):", len(weights), weights[0].Weight)),
		tableMutedStyle.Render(stats.Sparkline(series)),
		"",
	}
	if m.nutrition.notice != "" {
		lines = append(lines, noticeStyle.Render(m.nutrition.notice))
	}
	for i, w := range weights {
		line := fmt.Sprintf("%s  %5.1f kg", w.Date.Format("2006-01-02"), w.Weight)
		if i == m.nutrition.cursor {
			lines = append(lines, selectedStyle.Render("> "+line))
		} else {
			lines = append(lines, "  "+line)
		}
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
