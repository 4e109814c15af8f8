// Package tui provides the Bubble Tea application.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/pawtrail/internal/ai"
	"github.com/verte-zerg/pawtrail/internal/model"
	"github.com/verte-zerg/pawtrail/internal/store"
	"github.com/verte-zerg/pawtrail/internal/walk"
)

const (
	tabWalk = iota
	tabHistory
	tabHealth
	tabTraining
	tabExpenses
	tabNutrition
	tabCommunity
	tabLostDogs
	tabPlaydates
	tabServices
	tabJournal
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#73D13D"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	urgentStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	warnStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// Stores bundles the persistent collections the UI works with.
type Stores struct {
	Walks    *store.WalkStore
	Expenses *store.Collection[model.Expense]
	Medical  *store.Collection[model.MedicalRecord]
	Analyses *store.Collection[model.AnalysisRecord]
	Weights  *store.Collection[model.WeightRecord]
	Posts    *store.Collection[model.CommunityPost]
	Alerts   *store.Collection[model.LostDogAlert]
	Matches  *store.Collection[model.PlaydateMatch]
	Services *store.Collection[model.DogService]
	Journal  *store.Collection[model.JournalEntry]
}

// Model implements the Bubble Tea application.
type Model struct {
	session *walk.Session
	stores  Stores
	ai      *ai.Client
	log     zerolog.Logger

	tabs      []string
	activeTab int

	width  int
	height int

	walkNotice string

	history   historyState
	health    healthState
	training  trainingState
	expenses  expensesState
	nutrition nutritionState
	community communityState
	lostdogs  lostdogsState
	playdates playdatesState
	services  servicesState
	journal   journalState
}

// tickMsg drives the live walk readout.
type tickMsg time.Time

// NewModel constructs the application model.
func NewModel(session *walk.Session, stores Stores, client *ai.Client, log zerolog.Logger) *Model {
	m := &Model{
		session: session,
		stores:  stores,
		ai:      client,
		log:     log,
		tabs:    []string{"Walk", "History", "Health", "Training", "Expenses", "Nutrition", "Community", "Lost Dogs", "Playdates", "Services", "Journal"},
	}
	m.initHistory()
	m.initHealth()
	m.initTraining()
	m.initExpenses()
	m.initNutrition()
	m.initCommunity()
	m.initLostDogs()
	m.initPlaydates()
	m.initServices()
	m.initJournal()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tickMsg:
		return m, tickCmd()
	case analysisDoneMsg:
		return m.finishAnalysis(msg)
	case planDoneMsg:
		return m.finishPlan(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.session.Close()
			return m, tea.Quit
		}
		if m.inputActive() {
			return m.handleTabKey(msg)
		}
		switch msg.String() {
		case "q":
			m.session.Close()
			return m, tea.Quit
		case "left", "h", "shift+tab":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		default:
			return m.handleTabKey(msg)
		}
	}
	return m, nil
}

// handleTabKey routes a key to the active tab.
func (m *Model) handleTabKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.activeTab {
	case tabWalk:
		return m.updateWalk(msg)
	case tabHistory:
		return m.updateHistory(msg)
	case tabHealth:
		return m.updateHealth(msg)
	case tabTraining:
		return m.updateTraining(msg)
	case tabExpenses:
		return m.updateExpenses(msg)
	case tabNutrition:
		return m.updateNutrition(msg)
	case tabCommunity:
		return m.updateCommunity(msg)
	case tabLostDogs:
		return m.updateLostDogs(msg)
	case tabPlaydates:
		return m.updatePlaydates(msg)
	case tabServices:
		return m.updateServices(msg)
	case tabJournal:
		return m.updateJournal(msg)
	}
	return m, nil
}

// inputActive reports whether a text input owns the keyboard, in which
// case global shortcuts must not fire.
func (m *Model) inputActive() bool {
	switch m.activeTab {
	case tabHistory:
		return m.history.mode == historyEdit
	case tabHealth:
		return m.health.mode == healthSymptomInput || m.health.mode == healthRecordForm
	case tabTraining:
		return m.training.formActive
	case tabExpenses:
		return m.expenses.formActive
	case tabNutrition:
		return m.nutrition.formActive
	case tabCommunity:
		return m.community.formActive
	case tabLostDogs:
		return m.lostdogs.formActive
	case tabPlaydates:
		return m.playdates.view == playdateChat
	case tabServices:
		return m.services.searchActive
	case tabJournal:
		return m.journal.formActive
	}
	return false
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.layoutHistory(m.width, bodyHeight)
	m.layoutTraining(m.width, bodyHeight)
	m.layoutCommunity(m.width, bodyHeight)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabHistory {
		m.refreshHistory()
	}
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return padLines(lipgloss.JoinHorizontal(lipgloss.Top, parts...), m.width)
}

func (m *Model) renderBody(height int) string {
	switch m.activeTab {
	case tabWalk:
		return fitLines(m.renderWalk(height), m.width, height)
	case tabHistory:
		return fitLines(m.renderHistory(height), m.width, height)
	case tabHealth:
		return fitLines(m.renderHealth(height), m.width, height)
	case tabTraining:
		return fitLines(m.renderTraining(height), m.width, height)
	case tabExpenses:
		return fitLines(m.renderExpenses(height), m.width, height)
	case tabNutrition:
		return fitLines(m.renderNutrition(height), m.width, height)
	case tabCommunity:
		return fitLines(m.renderCommunity(height), m.width, height)
	case tabLostDogs:
		return fitLines(m.renderLostDogs(height), m.width, height)
	case tabPlaydates:
		return fitLines(m.renderPlaydates(height), m.width, height)
	case tabServices:
		return fitLines(m.renderServices(height), m.width, height)
	case tabJournal:
		return fitLines(m.renderJournal(height), m.width, height)
	}
	return ""
}

func (m *Model) renderFooter() string {
	help := m.helpLine()
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) helpLine() string {
	if m.inputActive() {
		return "tab/shift+tab: next field  enter: apply  esc: cancel"
	}
	common := "  Tabs: left/right  Quit: q"
	switch m.activeTab {
	case tabWalk:
		return m.walkHelp() + common
	case tabHistory:
		return m.historyHelp() + common
	case tabHealth:
		return "Analyze: a  Add record: r  Delete: d  Nav: up/down" + common
	case tabTraining:
		return "Generate: enter  Goal: up/down  Scroll: pgup/pgdn" + common
	case tabExpenses:
		return "Add: a  Delete: d  Nav: up/down" + common
	case tabNutrition:
		return "Add: a  Delete: d  Nav: up/down" + common
	case tabCommunity:
		return "Post: a  Scroll: up/down" + common
	case tabLostDogs:
		return "Report: a  Toggle found: f  Nav: up/down" + common
	case tabPlaydates:
		return m.playdatesHelp() + common
	case tabServices:
		return "Search: /  Clear: esc  Nav: up/down" + common
	case tabJournal:
		return "Add: a  Delete: d  Nav: up/down" + common
	}
	return strings.TrimPrefix(common, "  ")
}

func newFormInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func metricCard(label, value string) string {
	content := cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value)
	return cardStyle.Render(content)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// truncateLine clips a line to a display width, not a rune count, so wide
// runes do not overflow the column they are measured against.
func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width-3, "") + "..."
}
