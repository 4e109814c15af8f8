package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/verte-zerg/pawtrail/internal/model"
)

const (
	healthView = iota
	healthSymptomInput
	healthRecordForm
)

const aiTimeout = 90 * time.Second

type healthState struct {
	mode   int
	cursor int

	symptomInput textinput.Model
	analyzing    bool
	analysisErr  string
	latest       *model.AnalysisRecord

	recordInputs []textinput.Model
	recordIndex  int
	recordError  string
	notice       string
}

// analysisDoneMsg carries the result of a background symptom analysis.
type analysisDoneMsg struct {
	record model.AnalysisRecord
	err    error
}

func (m *Model) initHealth() {
	m.health.symptomInput = newFormInput("Symptoms: ")
	m.health.symptomInput.Placeholder = "e.g. vomiting since yesterday, low appetite"
	m.health.recordInputs = []textinput.Model{
		newFormInput("Type: "),
		newFormInput("Title: "),
		newFormInput("Details: "),
		newFormInput("Date (YYYY-MM-DD): "),
		newFormInput("Due date (YYYY-MM-DD, optional): "),
	}
	m.health.recordInputs[0].Placeholder = strings.Join(recordTypes(), " / ")
}

func recordTypes() []string {
	return []string{model.RecordVetVisit, model.RecordVaccination, model.RecordMedication}
}

func (m *Model) updateHealth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.health.mode {
	case healthSymptomInput:
		return m.updateSymptomInput(msg)
	case healthRecordForm:
		return m.updateRecordForm(msg)
	}
	records := m.stores.Medical.List(context.Background())
	switch msg.String() {
	case "a":
		if !m.ai.Enabled() {
			m.health.analysisErr = "No AI api key configured. Set [ai] api-key in the config file."
			return m, nil
		}
		m.health.mode = healthSymptomInput
		m.health.analysisErr = ""
		m.health.symptomInput.SetValue("")
		return m, m.health.symptomInput.Focus()
	case "r":
		m.health.mode = healthRecordForm
		m.health.recordError = ""
		for i := range m.health.recordInputs {
			m.health.recordInputs[i].SetValue("")
		}
		m.health.recordInputs[0].SetValue(model.RecordVetVisit)
		m.health.recordInputs[3].SetValue(time.Now().Format("2006-01-02"))
		return m, m.setRecordIndex(0)
	case "d":
		if m.health.cursor >= 0 && m.health.cursor < len(records) {
			if err := m.stores.Medical.Delete(context.Background(), records[m.health.cursor].ID); err != nil {
				m.health.notice = "Delete failed: " + err.Error()
			} else {
				m.health.notice = "Record deleted."
			}
		}
		return m, nil
	case "up", "k":
		if m.health.cursor > 0 {
			m.health.cursor--
		}
		return m, nil
	case "down", "j":
		if m.health.cursor < len(records)-1 {
			m.health.cursor++
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateSymptomInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.health.mode = healthView
		return m, nil
	case tea.KeyEnter:
		symptoms := strings.TrimSpace(m.health.symptomInput.Value())
		if symptoms == "" {
			m.health.analysisErr = "Describe the symptoms first."
			return m, nil
		}
		m.health.mode = healthView
		m.health.analyzing = true
		m.health.analysisErr = ""
		return m, m.analyzeCmd(symptoms)
	}
	var cmd tea.Cmd
	m.health.symptomInput, cmd = m.health.symptomInput.Update(msg)
	return m, cmd
}

func (m *Model) analyzeCmd(symptoms string) tea.Cmd {
	client := m.ai
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), aiTimeout)
		defer cancel()
		analysis, err := client.AnalyzeSymptoms(ctx, symptoms)
		if err != nil {
			return analysisDoneMsg{err: err}
		}
		return analysisDoneMsg{record: model.AnalysisRecord{
			SymptomAnalysis: analysis,
			ID:              uuid.NewString(),
			Date:            time.Now(),
			Symptoms:        symptoms,
		}}
	}
}

func (m *Model) finishAnalysis(msg analysisDoneMsg) (tea.Model, tea.Cmd) {
	m.health.analyzing = false
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Msg("symptom analysis failed")
		m.health.analysisErr = msg.err.Error()
		return m, nil
	}
	record := msg.record
	if err := m.stores.Analyses.Add(context.Background(), record); err != nil {
		m.log.Error().Err(err).Msg("failed to save analysis")
	}
	m.health.latest = &record
	return m, nil
}

func (m *Model) updateRecordForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.health.mode = healthView
		m.health.recordError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyRecordForm(); err != nil {
			m.health.recordError = err.Error()
			return m, nil
		}
		m.health.mode = healthView
		m.health.recordError = ""
		m.health.notice = "Record added."
		return m, nil
	case tea.KeyTab:
		return m, m.setRecordIndex(m.health.recordIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setRecordIndex(m.health.recordIndex - 1)
	}
	var cmd tea.Cmd
	m.health.recordInputs[m.health.recordIndex], cmd = m.health.recordInputs[m.health.recordIndex].Update(msg)
	return m, cmd
}

func (m *Model) setRecordIndex(idx int) tea.Cmd {
	count := len(m.health.recordInputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.health.recordIndex = idx
	var cmd tea.Cmd
	for i := range m.health.recordInputs {
		if i == idx {
			cmd = m.health.recordInputs[i].Focus()
		} else {
			m.health.recordInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyRecordForm() error {
	recordType := strings.TrimSpace(m.health.recordInputs[0].Value())
	valid := false
	for _, t := range recordTypes() {
		if strings.EqualFold(recordType, t) {
			recordType = t
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid type (use %s)", strings.Join(recordTypes(), ", "))
	}
	title := strings.TrimSpace(m.health.recordInputs[1].Value())
	if title == "" {
		return fmt.Errorf("title is required")
	}
	date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(m.health.recordInputs[3].Value()), time.Local)
	if err != nil {
		return fmt.Errorf("invalid date (expected YYYY-MM-DD)")
	}
	var due time.Time
	if raw := strings.TrimSpace(m.health.recordInputs[4].Value()); raw != "" {
		due, err = time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return fmt.Errorf("invalid due date (expected YYYY-MM-DD)")
		}
	}
	return m.stores.Medical.Add(context.Background(), model.MedicalRecord{
		ID:      uuid.NewString(),
		Type:    recordType,
		Date:    date,
		Title:   title,
		Details: strings.TrimSpace(m.health.recordInputs[2].Value()),
		DueDate: due,
	})
}

func (m *Model) renderHealth(height int) string {
	switch m.health.mode {
	case healthSymptomInput:
		return strings.Join([]string{
			cardValueStyle.Render("Symptom Check (enter to analyze, esc to cancel)"),
			"",
			m.health.symptomInput.View(),
			"",
			headerStyle.Render("Educational information only, not a substitute for a veterinarian."),
		}, "\n")
	case healthRecordForm:
		lines := []string{cardValueStyle.Render("Add Medical Record (enter to save, esc to cancel)"), ""}
		for _, input := range m.health.recordInputs {
			lines = append(lines, input.View())
		}
		if m.health.recordError != "" {
			lines = append(lines, "", errorStyle.Render(m.health.recordError))
		}
		return strings.Join(lines, "\n")
	}

	lines := []string{}
	switch {
	case m.health.analyzing:
		lines = append(lines, warnStyle.Render("Analyzing symptoms..."))
	case m.health.analysisErr != "":
		lines = append(lines, errorStyle.Render(truncateLine(m.health.analysisErr, m.width)))
	case m.health.notice != "":
		lines = append(lines, noticeStyle.Render(m.health.notice))
	}
	lines = append(lines, m.renderLatestAnalysis()...)
	lines = append(lines, m.renderAnalysisHistory()...)
	lines = append(lines, m.renderReminders()...)
	lines = append(lines, m.renderMedicalRecords()...)
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderLatestAnalysis() []string {
	latest := m.health.latest
	if latest == nil {
		history := m.stores.Analyses.List(context.Background())
		if len(history) == 0 {
			return []string{headerStyle.Render("No symptom checks yet. Press a to run one."), ""}
		}
		latest = &history[0]
	}
	urgency := latest.Urgency
	style := warnStyle
	if urgency == model.UrgencyImmediate {
		style = urgentStyle
	}
	lines := []string{
		cardTitleStyle.Render(fmt.Sprintf("Last check (%s): %s", latest.Date.Format("2 Jan 15:04"), latest.Symptoms)),
		style.Render(urgency),
	}
	if len(latest.PotentialCauses) > 0 {
		lines = append(lines, cardTitleStyle.Render("Potential causes:"))
		lines = append(lines, bulleted(latest.PotentialCauses, m.width)...)
	}
	if len(latest.RedFlags) > 0 {
		lines = append(lines, cardTitleStyle.Render("Red flags:"))
		lines = append(lines, bulleted(latest.RedFlags, m.width)...)
	}
	if len(latest.ClarifyingQuestions) > 0 {
		lines = append(lines, cardTitleStyle.Render("A vet might ask:"))
		lines = append(lines, bulleted(latest.ClarifyingQuestions, m.width)...)
	}
	return append(lines, "")
}

// renderAnalysisHistory lists earlier symptom checks beyond the one shown
// in full.
func (m *Model) renderAnalysisHistory() []string {
	history := m.stores.Analyses.List(context.Background())
	shown := ""
	if m.health.latest != nil {
		shown = m.health.latest.ID
	} else if len(history) > 0 {
		shown = history[0].ID
	}
	lines := []string{}
	for _, a := range history {
		if a.ID == shown {
			continue
		}
		line := fmt.Sprintf("%s  %s - %s", a.Date.Format("2006-01-02"), a.Symptoms, a.Urgency)
		lines = append(lines, headerStyle.Render(truncateLine(line, m.width-2)))
	}
	if len(lines) == 0 {
		return nil
	}
	return append([]string{cardTitleStyle.Render("Previous checks:")}, append(lines, "")...)
}

// renderReminders lists records whose due date is within 30 days or past.
func (m *Model) renderReminders() []string {
	records := m.stores.Medical.List(context.Background())
	now := time.Now()
	horizon := now.AddDate(0, 0, 30)
	lines := []string{}
	for _, r := range records {
		if r.DueDate.IsZero() || r.DueDate.After(horizon) {
			continue
		}
		label := fmt.Sprintf("%s due %s (%s)", r.Title, r.DueDate.Format("2 Jan"), r.Type)
		if r.DueDate.Before(now) {
			lines = append(lines, urgentStyle.Render("! OVERDUE: "+label))
		} else {
			lines = append(lines, warnStyle.Render("! "+label))
		}
	}
	if len(lines) == 0 {
		return nil
	}
	return append(lines, "")
}

func (m *Model) renderMedicalRecords() []string {
	records := m.stores.Medical.List(context.Background())
	if len(records) == 0 {
		return []string{headerStyle.Render("No medical records. Press r to add one.")}
	}
	lines := []string{cardTitleStyle.Render("Medical records:")}
	for i, r := range records {
		line := fmt.Sprintf("%s  %-12s %s", r.Date.Format("2006-01-02"), r.Type, r.Title)
		if r.Details != "" {
			line += "  - " + r.Details
		}
		line = truncateLine(line, m.width-2)
		if i == m.health.cursor {
			lines = append(lines, selectedStyle.Render("> "+line))
		} else {
			lines = append(lines, "  "+line)
		}
	}
	return lines
}
