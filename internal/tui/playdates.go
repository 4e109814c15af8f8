package tui

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/verte-zerg/pawtrail/internal/model"
)

// Playdate sub-views.
const (
	playdateFind = iota
	playdateMatches
	playdateChat
)

// matchChance is the probability that a liked dog likes back.
const matchChance = 0.7

// chatReply is the canned response from the other owner.
const chatReply = "That sounds great! What time works?"

// candidateProfiles is the local candidate deck. Profiles are not
// persisted; the deck resets on every app start.
var candidateProfiles = []model.PlaydateProfile{
	{ID: "1", DogName: "Buddy", Breed: "Golden Retriever", Age: 3, Size: model.SizeLarge, Temperament: []string{model.TemperamentFriendly, model.TemperamentCalm}, PlayStyle: model.PlayStyleGentle, OwnerName: "Alex"},
	{ID: "2", DogName: "Lucy", Breed: "Poodle", Age: 2, Size: model.SizeMedium, Temperament: []string{model.TemperamentEnergetic}, PlayStyle: model.PlayStyleChaser, OwnerName: "Mia"},
	{ID: "3", DogName: "Max", Breed: "Beagle", Age: 5, Size: model.SizeMedium, Temperament: []string{model.TemperamentCalm}, PlayStyle: model.PlayStyleWrestler, OwnerName: "Sam"},
	{ID: "4", DogName: "Daisy", Breed: "French Bulldog", Age: 1, Size: model.SizeSmall, Temperament: []string{model.TemperamentEnergetic, model.TemperamentFriendly}, PlayStyle: model.PlayStyleChaser, OwnerName: "Chloe"},
	{ID: "5", DogName: "Rocky", Breed: "German Shepherd", Age: 4, Size: model.SizeLarge, Temperament: []string{model.TemperamentProtective, model.TemperamentCalm}, PlayStyle: model.PlayStyleGentle, OwnerName: "Tom"},
	{ID: "6", DogName: "Molly", Breed: "Corgi", Age: 2, Size: model.SizeSmall, Temperament: []string{model.TemperamentFriendly, model.TemperamentEnergetic}, PlayStyle: model.PlayStyleChaser, OwnerName: "Emily"},
	{ID: "7", DogName: "Charlie", Breed: "Labrador", Age: 6, Size: model.SizeLarge, Temperament: []string{model.TemperamentFriendly}, PlayStyle: model.PlayStyleGentle, OwnerName: "Jack"},
	{ID: "8", DogName: "Lola", Breed: "Boxer", Age: 3, Size: model.SizeLarge, Temperament: []string{model.TemperamentEnergetic}, PlayStyle: model.PlayStyleWrestler, OwnerName: "Sophie"},
}

type playdatesState struct {
	view      int
	deck      []model.PlaydateProfile
	rng       *rand.Rand
	notice    string
	cursor    int
	chatID    string
	chatInput textinput.Model
}

func (m *Model) initPlaydates() {
	m.playdates.deck = append([]model.PlaydateProfile(nil), candidateProfiles...)
	m.playdates.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	m.playdates.chatInput = newFormInput("Message: ")
}

func (m *Model) updatePlaydates(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.playdates.view {
	case playdateFind:
		return m.updatePlaydateFind(msg)
	case playdateMatches:
		return m.updatePlaydateMatches(msg)
	case playdateChat:
		return m.updatePlaydateChat(msg)
	}
	return m, nil
}

func (m *Model) updatePlaydateFind(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		m.likeCurrent(m.playdates.rng.Float64() < matchChance)
		return m, nil
	case "n":
		if len(m.playdates.deck) > 0 {
			m.playdates.notice = ""
			m.playdates.deck = m.playdates.deck[1:]
		}
		return m, nil
	case "m":
		m.playdates.view = playdateMatches
		m.playdates.cursor = 0
		return m, nil
	}
	return m, nil
}

// likeCurrent pops the top profile off the deck and records a match when
// the other side liked back.
func (m *Model) likeCurrent(likedBack bool) {
	if len(m.playdates.deck) == 0 {
		return
	}
	p := m.playdates.deck[0]
	m.playdates.deck = m.playdates.deck[1:]
	if !likedBack {
		m.playdates.notice = ""
		return
	}
	if err := m.recordMatch(p); err != nil {
		m.playdates.notice = "Match failed to save: " + err.Error()
		return
	}
	m.playdates.notice = fmt.Sprintf("It's a match with %s!", p.DogName)
}

// recordMatch persists a new match unless the same profile was already
// matched on a previous run of the deck.
func (m *Model) recordMatch(p model.PlaydateProfile) error {
	id := "match_" + p.ID
	for _, match := range m.stores.Matches.List(context.Background()) {
		if match.ID == id {
			return nil
		}
	}
	return m.stores.Matches.Add(context.Background(), model.PlaydateMatch{
		ID:      id,
		Profile: p,
		Date:    time.Now(),
	})
}

func (m *Model) updatePlaydateMatches(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	matches := m.stores.Matches.List(context.Background())
	switch msg.String() {
	case "esc":
		m.playdates.view = playdateFind
		return m, nil
	case "up", "k":
		if m.playdates.cursor > 0 {
			m.playdates.cursor--
		}
		return m, nil
	case "down", "j":
		if m.playdates.cursor < len(matches)-1 {
			m.playdates.cursor++
		}
		return m, nil
	case "enter":
		if m.playdates.cursor >= 0 && m.playdates.cursor < len(matches) {
			m.playdates.view = playdateChat
			m.playdates.chatID = matches[m.playdates.cursor].ID
			m.playdates.chatInput.SetValue("")
			return m, m.playdates.chatInput.Focus()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) updatePlaydateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.playdates.view = playdateMatches
		m.playdates.chatInput.Blur()
		return m, nil
	case tea.KeyEnter:
		text := strings.TrimSpace(m.playdates.chatInput.Value())
		if text == "" {
			return m, nil
		}
		if err := m.sendChat(m.playdates.chatID, text); err != nil {
			m.playdates.notice = "Send failed: " + err.Error()
			return m, nil
		}
		m.playdates.chatInput.SetValue("")
		return m, nil
	}
	var cmd tea.Cmd
	m.playdates.chatInput, cmd = m.playdates.chatInput.Update(msg)
	return m, cmd
}

// sendChat appends the outgoing message and the other owner's reply to the
// match and persists both.
func (m *Model) sendChat(matchID, text string) error {
	for _, match := range m.stores.Matches.List(context.Background()) {
		if match.ID != matchID {
			continue
		}
		now := time.Now()
		match.Messages = append(match.Messages,
			model.ChatMessage{ID: uuid.NewString(), Text: text, Sender: model.SenderMe, Date: now},
			model.ChatMessage{ID: uuid.NewString(), Text: chatReply, Sender: model.SenderThem, Date: now},
		)
		return m.stores.Matches.Replace(context.Background(), match)
	}
	return fmt.Errorf("match not found")
}

func (m *Model) playdatesHelp() string {
	switch m.playdates.view {
	case playdateMatches:
		return "Chat: enter  Back: esc  Nav: up/down"
	default:
		return "Like: y  Pass: n  Matches: m"
	}
}

func (m *Model) renderPlaydates(height int) string {
	switch m.playdates.view {
	case playdateMatches:
		return m.renderPlaydateMatches(height)
	case playdateChat:
		return m.renderPlaydateChat(height)
	}
	return m.renderPlaydateFind()
}

func (m *Model) renderPlaydateFind() string {
	lines := []string{}
	if m.playdates.notice != "" {
		lines = append(lines, noticeStyle.Render(m.playdates.notice), "")
	}
	if len(m.playdates.deck) == 0 {
		lines = append(lines, "No more dogs nearby. Press m to see your matches.")
		return strings.Join(lines, "\n")
	}
	p := m.playdates.deck[0]
	card := strings.Join([]string{
		cardValueStyle.Render(fmt.Sprintf("%s, %d", p.DogName, p.Age)),
		fmt.Sprintf("%s  %s", p.Breed, p.Size),
		cardTitleStyle.Render("Temperament: ") + strings.Join(p.Temperament, ", "),
		cardTitleStyle.Render("Play style:  ") + p.PlayStyle,
		cardTitleStyle.Render("Owner:       ") + p.OwnerName,
	}, "\n")
	lines = append(lines, cardStyle.Render(card), "",
		headerStyle.Render(fmt.Sprintf("%d more nearby", len(m.playdates.deck)-1)))
	return strings.Join(lines, "\n")
}

func (m *Model) renderPlaydateMatches(height int) string {
	matches := m.stores.Matches.List(context.Background())
	if len(matches) == 0 {
		return "No matches yet. Go back with esc and press y on a dog you like."
	}
	lines := []string{cardValueStyle.Render("Matches"), ""}
	for i, match := range matches {
		last := "Say hi!"
		if n := len(match.Messages); n > 0 {
			last = match.Messages[n-1].Text
		}
		line := fmt.Sprintf("%s (%s)  %s", match.Profile.DogName, match.Profile.Breed,
			tableMutedStyle.Render(truncateLine(last, maxInt(10, m.width-30))))
		if i == m.playdates.cursor {
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

func (m *Model) renderPlaydateChat(height int) string {
	var match model.PlaydateMatch
	found := false
	for _, candidate := range m.stores.Matches.List(context.Background()) {
		if candidate.ID == m.playdates.chatID {
			match = candidate
			found = true
			break
		}
	}
	if !found {
		return "Match no longer exists. Press esc to go back."
	}
	width := maxInt(20, m.width-2)
	lines := []string{cardValueStyle.Render("Chat with " + match.Profile.OwnerName + " (" + match.Profile.DogName + ")"), ""}
	if len(match.Messages) == 0 {
		lines = append(lines, headerStyle.Render("No messages yet. Say hi!"))
	}
	for _, msg := range match.Messages {
		who := match.Profile.OwnerName
		if msg.Sender == model.SenderMe {
			who = "You"
		}
		lines = append(lines, cardTitleStyle.Render(who+":")+" "+truncateLine(msg.Text, width))
	}
	// The input stays pinned to the last body row.
	for len(lines) < height-1 {
		lines = append(lines, "")
	}
	if len(lines) > height-1 {
		lines = lines[len(lines)-(height-1):]
	}
	lines = append(lines, m.playdates.chatInput.View())
	return strings.Join(lines, "\n")
}
