package tui

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pawtrail/internal/model"
	"github.com/verte-zerg/pawtrail/internal/routemap"
	"github.com/verte-zerg/pawtrail/internal/stats"
	"github.com/verte-zerg/pawtrail/internal/store"
)

const (
	historyList = iota
	historyDetail
	historyEdit
)

type historyState struct {
	mode  int
	walks []model.Walk
	table table.Model

	editID     string
	editInputs []textinput.Model
	editIndex  int
	editError  string
	notice     string
}

func (m *Model) initHistory() {
	columns := []table.Column{
		{Title: "Date", Width: 16},
		{Title: "Duration", Width: 10},
		{Title: "Distance", Width: 10},
		{Title: "Avg Speed", Width: 10},
	}
	t := table.New(table.WithColumns(columns), table.WithHeight(10))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.Padding(0, 1).PaddingLeft(0)
	styles.Selected = styles.Cell.Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	t.SetStyles(styles)
	t.Focus()
	m.history.table = t

	m.history.editInputs = []textinput.Model{
		newFormInput("Duration (sec): "),
		newFormInput("Distance (km): "),
	}
	m.refreshHistory()
}

// refreshHistory reloads walks newest first and rebuilds the table rows.
func (m *Model) refreshHistory() {
	walks := m.stores.Walks.List(context.Background())
	sort.SliceStable(walks, func(i, j int) bool {
		return walks[i].Date.After(walks[j].Date)
	})
	m.history.walks = walks

	rows := make([]table.Row, 0, len(walks))
	for _, w := range walks {
		rows = append(rows, table.Row{
			w.Date.Format("2006-01-02 15:04"),
			stats.FormatDurationShort(w.Duration),
			fmt.Sprintf("%.2f km", w.Distance),
			fmt.Sprintf("%.1f km/h", w.AvgSpeed),
		})
	}
	m.history.table.SetRows(rows)
	if cursor := m.history.table.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		m.history.table.SetCursor(len(rows) - 1)
	}
}

func (m *Model) layoutHistory(width, bodyHeight int) {
	m.history.table.SetWidth(width)
	m.history.table.SetHeight(maxInt(3, bodyHeight-5))
}

func (m *Model) selectedWalk() (model.Walk, bool) {
	idx := m.history.table.Cursor()
	if idx < 0 || idx >= len(m.history.walks) {
		return model.Walk{}, false
	}
	return m.history.walks[idx], true
}

func (m *Model) historyHelp() string {
	switch m.history.mode {
	case historyDetail:
		return "Back: esc  Edit: e  Delete: d"
	default:
		return "View: enter  Edit: e  Delete: d  Nav: up/down"
	}
}

func (m *Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.history.mode == historyEdit {
		return m.updateHistoryEdit(msg)
	}
	switch msg.String() {
	case "esc":
		m.history.mode = historyList
		return m, nil
	case "enter":
		if _, ok := m.selectedWalk(); ok {
			m.history.mode = historyDetail
		}
		return m, nil
	case "e":
		return m.startWalkEdit()
	case "d":
		if w, ok := m.selectedWalk(); ok {
			if err := m.stores.Walks.Delete(context.Background(), w.ID); err != nil {
				m.history.notice = "Delete failed: " + err.Error()
			} else {
				m.history.notice = "Walk deleted."
			}
			m.history.mode = historyList
			m.refreshHistory()
		}
		return m, nil
	}
	if m.history.mode == historyList {
		var cmd tea.Cmd
		m.history.table, cmd = m.history.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) startWalkEdit() (tea.Model, tea.Cmd) {
	w, ok := m.selectedWalk()
	if !ok {
		return m, nil
	}
	m.history.mode = historyEdit
	m.history.editID = w.ID
	m.history.editError = ""
	m.history.editInputs[0].SetValue(strconv.Itoa(w.Duration))
	m.history.editInputs[1].SetValue(strconv.FormatFloat(w.Distance, 'f', 2, 64))
	return m, m.setHistoryEditIndex(0)
}

func (m *Model) updateHistoryEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.history.mode = historyList
		m.history.editError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyWalkEdit(); err != nil {
			m.history.editError = err.Error()
			return m, nil
		}
		m.history.mode = historyList
		m.history.editError = ""
		m.history.notice = "Walk updated."
		m.refreshHistory()
		return m, nil
	case tea.KeyTab:
		return m, m.setHistoryEditIndex(m.history.editIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setHistoryEditIndex(m.history.editIndex - 1)
	}
	var cmd tea.Cmd
	m.history.editInputs[m.history.editIndex], cmd = m.history.editInputs[m.history.editIndex].Update(msg)
	return m, cmd
}

func (m *Model) setHistoryEditIndex(idx int) tea.Cmd {
	count := len(m.history.editInputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.history.editIndex = idx
	var cmd tea.Cmd
	for i := range m.history.editInputs {
		if i == idx {
			cmd = m.history.editInputs[i].Focus()
		} else {
			m.history.editInputs[i].Blur()
		}
	}
	return cmd
}

// applyWalkEdit validates the form and persists the edit. Average speed is
// recomputed by the store so it can never go stale.
func (m *Model) applyWalkEdit() error {
	duration, err := strconv.Atoi(strings.TrimSpace(m.history.editInputs[0].Value()))
	if err != nil || duration < 0 {
		return fmt.Errorf("invalid duration (use whole seconds)")
	}
	distance, err := strconv.ParseFloat(strings.TrimSpace(m.history.editInputs[1].Value()), 64)
	if err != nil || distance < 0 {
		return fmt.Errorf("invalid distance (use kilometers)")
	}
	var target model.Walk
	found := false
	for _, w := range m.history.walks {
		if w.ID == m.history.editID {
			target = w
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("walk no longer exists")
	}
	target.Duration = duration
	target.Distance = distance
	if err := m.stores.Walks.Update(context.Background(), target); err != nil {
		if err == store.ErrNotFound {
			return fmt.Errorf("walk no longer exists")
		}
		return err
	}
	return nil
}

func (m *Model) renderHistory(height int) string {
	switch m.history.mode {
	case historyDetail:
		return m.renderHistoryDetail(height)
	case historyEdit:
		return m.renderHistoryEdit()
	}
	return m.renderHistoryList(height)
}

func (m *Model) renderHistoryList(height int) string {
	if len(m.history.walks) == 0 {
		return "No walks yet. Start one on the Walk tab."
	}
	lifetime := stats.Aggregate(m.history.walks)
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Walks", strconv.Itoa(lifetime.Walks)),
		metricCard("Total Distance", fmt.Sprintf("%.2f km", lifetime.TotalDistanceKm)),
		metricCard("Total Time", stats.FormatDurationShort(lifetime.TotalDurationSec)),
		metricCard("Avg Speed", fmt.Sprintf("%.1f km/h", lifetime.OverallAvgSpeedKmh)),
	)
	lines := []string{cards}
	if m.history.notice != "" {
		lines = append(lines, noticeStyle.Render(m.history.notice))
	}
	lines = append(lines, tableMutedStyle.Render(m.history.table.View()))
	return strings.Join(lines, "\n")
}

func (m *Model) renderHistoryDetail(height int) string {
	w, ok := m.selectedWalk()
	if !ok {
		return "No walk selected."
	}
	header := fmt.Sprintf("%s   %s   %.2f km   %.1f km/h",
		w.Date.Format("Mon, 2 Jan 2006 15:04"),
		stats.FormatDurationShort(w.Duration),
		w.Distance,
		w.AvgSpeed,
	)
	mapHeight := maxInt(mapMinHeight, height-3)
	mapWidth := maxInt(mapMinWidth, m.width-2)
	return cardValueStyle.Render(truncateLine(header, m.width)) + "\n\n" +
		tableMutedStyle.Render(routemap.Render(w.Route, mapWidth, mapHeight))
}

func (m *Model) renderHistoryEdit() string {
	lines := []string{cardValueStyle.Render("Edit Walk (enter to apply, esc to cancel)"), ""}
	for _, input := range m.history.editInputs {
		lines = append(lines, input.View())
	}
	lines = append(lines, "", headerStyle.Render("Average speed is recomputed on save."))
	if m.history.editError != "" {
		lines = append(lines, errorStyle.Render(m.history.editError))
	}
	return strings.Join(lines, "\n")
}
