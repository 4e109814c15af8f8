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
)

type lostdogsState struct {
	cursor     int
	formActive bool
	inputs     []textinput.Model // dog name, lat, lng
	inputIndex int
	formError  string
	notice     string
}

func (m *Model) initLostDogs() {
	m.lostdogs.inputs = []textinput.Model{
		newFormInput("Dog name: "),
		newFormInput("Last seen lat: "),
		newFormInput("Last seen lng: "),
	}
}

func (m *Model) updateLostDogs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.lostdogs.formActive {
		return m.updateAlertForm(msg)
	}
	alerts := m.stores.Alerts.List(context.Background())
	switch msg.String() {
	case "a":
		m.lostdogs.formActive = true
		m.lostdogs.formError = ""
		for i := range m.lostdogs.inputs {
			m.lostdogs.inputs[i].SetValue("")
		}
		// Prefill from the live route when one is being tracked.
		if snap := m.session.Snapshot(); len(snap.Route) > 0 {
			last := snap.Route[len(snap.Route)-1]
			m.lostdogs.inputs[1].SetValue(strconv.FormatFloat(last.Lat, 'f', 5, 64))
			m.lostdogs.inputs[2].SetValue(strconv.FormatFloat(last.Lng, 'f', 5, 64))
		}
		return m, m.setAlertIndex(0)
	case "f":
		if m.lostdogs.cursor >= 0 && m.lostdogs.cursor < len(alerts) {
			alert := alerts[m.lostdogs.cursor]
			if alert.Status == model.AlertActive {
				alert.Status = model.AlertFound
			} else {
				alert.Status = model.AlertActive
			}
			if err := m.stores.Alerts.Replace(context.Background(), alert); err != nil {
				m.lostdogs.notice = "Update failed: " + err.Error()
			} else {
				m.lostdogs.notice = fmt.Sprintf("%s marked %s.", alert.DogName, alert.Status)
			}
		}
		return m, nil
	case "d":
		if m.lostdogs.cursor >= 0 && m.lostdogs.cursor < len(alerts) {
			if err := m.stores.Alerts.Delete(context.Background(), alerts[m.lostdogs.cursor].ID); err != nil {
				m.lostdogs.notice = "Delete failed: " + err.Error()
			} else {
				m.lostdogs.notice = "Alert removed."
			}
		}
		return m, nil
	case "up", "k":
		if m.lostdogs.cursor > 0 {
			m.lostdogs.cursor--
		}
		return m, nil
	case "down", "j":
		if m.lostdogs.cursor < len(alerts)-1 {
			m.lostdogs.cursor++
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateAlertForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.lostdogs.formActive = false
		m.lostdogs.formError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyAlertForm(); err != nil {
			m.lostdogs.formError = err.Error()
			return m, nil
		}
		m.lostdogs.formActive = false
		m.lostdogs.formError = ""
		m.lostdogs.notice = "Alert posted."
		return m, nil
	case tea.KeyTab:
		return m, m.setAlertIndex(m.lostdogs.inputIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setAlertIndex(m.lostdogs.inputIndex - 1)
	}
	var cmd tea.Cmd
	m.lostdogs.inputs[m.lostdogs.inputIndex], cmd = m.lostdogs.inputs[m.lostdogs.inputIndex].Update(msg)
	return m, cmd
}

func (m *Model) setAlertIndex(idx int) tea.Cmd {
	count := len(m.lostdogs.inputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.lostdogs.inputIndex = idx
	var cmd tea.Cmd
	for i := range m.lostdogs.inputs {
		if i == idx {
			cmd = m.lostdogs.inputs[i].Focus()
		} else {
			m.lostdogs.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyAlertForm() error {
	name := strings.TrimSpace(m.lostdogs.inputs[0].Value())
	if name == "" {
		return fmt.Errorf("dog name is required")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(m.lostdogs.inputs[1].Value()), 64)
	if err != nil || lat < -90 || lat > 90 {
		return fmt.Errorf("invalid latitude (use decimal degrees)")
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(m.lostdogs.inputs[2].Value()), 64)
	if err != nil || lng < -180 || lng > 180 {
		return fmt.Errorf("invalid longitude (use decimal degrees)")
	}
	return m.stores.Alerts.Add(context.Background(), model.LostDogAlert{
		ID:       uuid.NewString(),
		DogName:  name,
		LastSeen: model.GeoPoint{Lat: lat, Lng: lng},
		Date:     time.Now(),
		Status:   model.AlertActive,
	})
}

func (m *Model) renderLostDogs(height int) string {
	if m.lostdogs.formActive {
		lines := []string{cardValueStyle.Render("Report Lost Dog (enter to post, esc to cancel)"), ""}
		for _, input := range m.lostdogs.inputs {
			lines = append(lines, input.View())
		}
		if m.lostdogs.formError != "" {
			lines = append(lines, "", errorStyle.Render(m.lostdogs.formError))
		}
		return strings.Join(lines, "\n")
	}

	alerts := m.stores.Alerts.List(context.Background())
	if len(alerts) == 0 {
		return "No alerts. Press a to report a lost dog."
	}

	lines := []string{}
	if m.lostdogs.notice != "" {
		lines = append(lines, noticeStyle.Render(m.lostdogs.notice))
	}
	for i, alert := range alerts {
		status := noticeStyle.Render("FOUND")
		if alert.Status == model.AlertActive {
			status = urgentStyle.Render("LOST")
		}
		line := fmt.Sprintf("%s  %s  last seen %.5f, %.5f (%s)",
			status, alert.DogName, alert.LastSeen.Lat, alert.LastSeen.Lng,
			alert.Date.Format("2 Jan 15:04"))
		if i == m.lostdogs.cursor {
			lines = append(lines, selectedStyle.Render("> ")+line)
		} else {
			lines = append(lines, "  "+line)
		}
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
