package tui

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pawtrail/internal/routemap"
	"github.com/verte-zerg/pawtrail/internal/stats"
	"github.com/verte-zerg/pawtrail/internal/walk"
)

const (
	mapMinWidth  = 20
	mapMinHeight = 6
)

func (m *Model) updateWalk(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s", " ":
		m.toggleTracking()
		return m, nil
	case "f":
		m.finishWalk()
		return m, nil
	}
	return m, nil
}

// toggleTracking starts, pauses, or resumes depending on the current
// state. Start failures stay in the snapshot as LastErr and are rendered
// in the banner.
func (m *Model) toggleTracking() {
	m.walkNotice = ""
	switch m.session.Snapshot().State {
	case walk.Idle, walk.Paused:
		if err := m.session.Start(); err != nil {
			m.log.Warn().Err(err).Msg("start tracking failed")
		}
	case walk.Tracking:
		m.session.Pause()
	}
}

func (m *Model) finishWalk() {
	before := m.session.Snapshot().State
	w, ok := m.session.Finish()
	if !ok {
		if before == walk.Tracking || before == walk.Paused {
			m.walkNotice = "Walk discarded: too short to save."
		}
		return
	}
	if err := m.stores.Walks.Add(context.Background(), w); err != nil {
		m.log.Error().Err(err).Msg("failed to save walk")
		m.walkNotice = "Failed to save walk: " + err.Error()
		return
	}
	m.walkNotice = fmt.Sprintf("Walk saved: %.2f km in %s.", w.Distance, stats.FormatDurationShort(w.Duration))
	m.refreshHistory()
}

func (m *Model) walkHelp() string {
	switch m.session.Snapshot().State {
	case walk.Tracking:
		return "Pause: s  Finish: f"
	case walk.Paused:
		return "Resume: s  Finish: f"
	default:
		return "Start: s"
	}
}

func (m *Model) renderWalk(height int) string {
	snap := m.session.Snapshot()

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Duration", stats.FormatClock(int(math.Round(snap.Elapsed)))),
		metricCard("Distance", fmt.Sprintf("%.2f km", snap.Distance)),
		metricCard("Avg Speed", fmt.Sprintf("%.1f km/h", liveAvgSpeed(snap))),
		metricCard("State", strings.ToUpper(snap.State.String())),
	)

	lines := []string{cards}
	if snap.LastErr != nil {
		lines = append(lines, errorStyle.Render(truncateLine("GPS: "+snap.LastErr.Error(), m.width)))
	} else if m.walkNotice != "" {
		lines = append(lines, noticeStyle.Render(truncateLine(m.walkNotice, m.width)))
	}

	used := lipgloss.Height(strings.Join(lines, "\n"))
	mapHeight := maxInt(mapMinHeight, height-used-1)
	mapWidth := maxInt(mapMinWidth, m.width-2)
	lines = append(lines, tableMutedStyle.Render(routemap.Render(snap.Route, mapWidth, mapHeight)))

	return strings.Join(lines, "\n")
}

// liveAvgSpeed mirrors the finalize rounding so the live readout matches
// what would be saved.
func liveAvgSpeed(snap walk.Snapshot) float64 {
	if snap.Elapsed <= 0 {
		return 0
	}
	return math.Round(snap.Distance/(snap.Elapsed/3600)*10) / 10
}
