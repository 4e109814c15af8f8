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

type journalState struct {
	cursor     int
	formActive bool
	inputs     []textinput.Model // caption, photo path
	inputIndex int
	formError  string
	notice     string
}

func (m *Model) initJournal() {
	m.journal.inputs = []textinput.Model{
		newFormInput("Caption: "),
		newFormInput("Photo path (optional): "),
	}
}

func (m *Model) updateJournal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.journal.formActive {
		return m.updateJournalForm(msg)
	}
	entries := m.stores.Journal.List(context.Background())
	switch msg.String() {
	case "a":
		m.journal.formActive = true
		m.journal.formError = ""
		for i := range m.journal.inputs {
			m.journal.inputs[i].SetValue("")
		}
		return m, m.setJournalIndex(0)
	case "d":
		if m.journal.cursor >= 0 && m.journal.cursor < len(entries) {
			if err := m.stores.Journal.Delete(context.Background(), entries[m.journal.cursor].ID); err != nil {
				m.journal.notice = "Delete failed: " + err.Error()
			} else {
				m.journal.notice = "Memory removed."
			}
		}
		return m, nil
	case "up", "k":
		if m.journal.cursor > 0 {
			m.journal.cursor--
		}
		return m, nil
	case "down", "j":
		if m.journal.cursor < len(entries)-1 {
			m.journal.cursor++
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateJournalForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.journal.formActive = false
		m.journal.formError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyJournalForm(); err != nil {
			m.journal.formError = err.Error()
			return m, nil
		}
		m.journal.formActive = false
		m.journal.formError = ""
		m.journal.notice = "Memory saved."
		return m, nil
	case tea.KeyTab:
		return m, m.setJournalIndex(m.journal.inputIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setJournalIndex(m.journal.inputIndex - 1)
	}
	var cmd tea.Cmd
	m.journal.inputs[m.journal.inputIndex], cmd = m.journal.inputs[m.journal.inputIndex].Update(msg)
	return m, cmd
}

func (m *Model) setJournalIndex(idx int) tea.Cmd {
	count := len(m.journal.inputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.journal.inputIndex = idx
	var cmd tea.Cmd
	for i := range m.journal.inputs {
		if i == idx {
			cmd = m.journal.inputs[i].Focus()
		} else {
			m.journal.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyJournalForm() error {
	caption := strings.TrimSpace(m.journal.inputs[0].Value())
	if caption == "" {
		return fmt.Errorf("caption is required")
	}
	return m.stores.Journal.Add(context.Background(), model.JournalEntry{
		ID:        uuid.NewString(),
		Date:      time.Now(),
		Caption:   caption,
		PhotoPath: strings.TrimSpace(m.journal.inputs[1].Value()),
	})
}

func (m *Model) renderJournal(height int) string {
	if m.journal.formActive {
		lines := []string{cardValueStyle.Render("New Memory (enter to save, esc to cancel)"), ""}
		for _, input := range m.journal.inputs {
			lines = append(lines, input.View())
		}
		if m.journal.formError != "" {
			lines = append(lines, "", errorStyle.Render(m.journal.formError))
		}
		return strings.Join(lines, "\n")
	}

	entries := m.stores.Journal.List(context.Background())
	if len(entries) == 0 {
		return "No memories yet. Press a to capture one."
	}

	width := maxInt(20, m.width-4)
	lines := []string{}
	if m.journal.notice != "" {
		lines = append(lines, noticeStyle.Render(m.journal.notice))
	}
	for i, e := range entries {
		header := e.Date.Format("2 Jan 2006 15:04")
		if e.PhotoPath != "" {
			header += "  " + tableMutedStyle.Render(e.PhotoPath)
		}
		prefix := "  "
		if i == m.journal.cursor {
			prefix = selectedStyle.Render("> ")
		}
		lines = append(lines, prefix+cardTitleStyle.Render(header))
		lines = append(lines, "  "+truncateLine(e.Caption, width))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
