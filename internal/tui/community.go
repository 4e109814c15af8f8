package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/verte-zerg/pawtrail/internal/model"
)

type communityState struct {
	formActive bool
	inputs     []textinput.Model // author, text
	inputIndex int
	formError  string
	feed       viewport.Model
	feedStale  bool
}

func (m *Model) initCommunity() {
	m.community.inputs = []textinput.Model{
		newFormInput("Name: "),
		newFormInput("Post: "),
	}
	m.community.feed = viewport.New(0, 0)
	m.community.feedStale = true
}

func (m *Model) layoutCommunity(width, bodyHeight int) {
	m.community.feed.Width = width
	m.community.feed.Height = maxInt(1, bodyHeight)
	m.community.feedStale = true
}

func (m *Model) updateCommunity(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.community.formActive {
		return m.updateCommunityForm(msg)
	}
	switch msg.String() {
	case "a":
		m.community.formActive = true
		m.community.formError = ""
		m.community.inputs[1].SetValue("")
		return m, m.setCommunityIndex(0)
	default:
		var cmd tea.Cmd
		m.community.feed, cmd = m.community.feed.Update(msg)
		return m, cmd
	}
}

func (m *Model) updateCommunityForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.community.formActive = false
		m.community.formError = ""
		return m, nil
	case tea.KeyEnter:
		author := strings.TrimSpace(m.community.inputs[0].Value())
		text := strings.TrimSpace(m.community.inputs[1].Value())
		if author == "" || text == "" {
			m.community.formError = "name and post are both required"
			return m, nil
		}
		post := model.CommunityPost{ID: uuid.NewString(), Author: author, Date: time.Now(), Text: text}
		if err := m.stores.Posts.Add(context.Background(), post); err != nil {
			m.community.formError = err.Error()
			return m, nil
		}
		m.community.formActive = false
		m.community.formError = ""
		m.community.feedStale = true
		return m, nil
	case tea.KeyTab:
		return m, m.setCommunityIndex(m.community.inputIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setCommunityIndex(m.community.inputIndex - 1)
	}
	var cmd tea.Cmd
	m.community.inputs[m.community.inputIndex], cmd = m.community.inputs[m.community.inputIndex].Update(msg)
	return m, cmd
}

func (m *Model) setCommunityIndex(idx int) tea.Cmd {
	count := len(m.community.inputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.community.inputIndex = idx
	var cmd tea.Cmd
	for i := range m.community.inputs {
		if i == idx {
			cmd = m.community.inputs[i].Focus()
		} else {
			m.community.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) renderCommunity(height int) string {
	if m.community.formActive {
		lines := []string{cardValueStyle.Render("New Post (enter to publish, esc to cancel)"), ""}
		for _, input := range m.community.inputs {
			lines = append(lines, input.View())
		}
		if m.community.formError != "" {
			lines = append(lines, "", errorStyle.Render(m.community.formError))
		}
		return strings.Join(lines, "\n")
	}

	if m.community.feedStale {
		m.community.feed.SetContent(m.renderFeed())
		m.community.feedStale = false
	}
	return m.community.feed.View()
}

func (m *Model) renderFeed() string {
	posts := m.stores.Posts.List(context.Background())
	if len(posts) == 0 {
		return "No posts yet. Press a to write one."
	}
	width := maxInt(20, m.width-2)
	lines := []string{}
	for _, p := range posts {
		header := fmt.Sprintf("%s  %s", p.Author, p.Date.Format("2 Jan 15:04"))
		lines = append(lines, cardTitleStyle.Render(truncateLine(header, width)))
		lines = append(lines, wrapText(p.Text, width))
		lines = append(lines, "")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
