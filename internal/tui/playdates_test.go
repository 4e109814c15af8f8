package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/pawtrail/internal/ai"
	"github.com/verte-zerg/pawtrail/internal/location"
	"github.com/verte-zerg/pawtrail/internal/model"
	"github.com/verte-zerg/pawtrail/internal/store"
	"github.com/verte-zerg/pawtrail/internal/walk"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if cerr := st.Close(); cerr != nil {
			t.Errorf("Close failed: %v", cerr)
		}
	})
	log := zerolog.Nop()
	stores := Stores{
		Walks:    store.NewWalkStore(st, log),
		Expenses: store.NewExpenseStore(st, log),
		Medical:  store.NewMedicalStore(st, log),
		Analyses: store.NewAnalysisStore(st, log),
		Weights:  store.NewWeightStore(st, log),
		Posts:    store.NewPostStore(st, log),
		Alerts:   store.NewAlertStore(st, log),
		Matches:  store.NewMatchStore(st, log),
		Services: store.NewServiceStore(st, log),
		Journal:  store.NewJournalStore(st, log),
	}
	session := walk.NewSession(walk.SystemClock{}, location.NewSimulator(model.GeoPoint{}, time.Second, 1), log)
	t.Cleanup(session.Close)
	return NewModel(session, stores, ai.NewClient("", "", log), log)
}

func TestLikeConsumesDeckAndRecordsMatch(t *testing.T) {
	m := newTestModel(t)
	deckSize := len(m.playdates.deck)
	top := m.playdates.deck[0]

	m.likeCurrent(true)
	if len(m.playdates.deck) != deckSize-1 {
		t.Fatalf("expected deck to shrink to %d, got %d", deckSize-1, len(m.playdates.deck))
	}
	matches := m.stores.Matches.List(context.Background())
	if len(matches) != 1 {
		t.Fatalf("expected 1 stored match, got %d", len(matches))
	}
	if matches[0].ID != "match_"+top.ID {
		t.Fatalf("unexpected match id %q", matches[0].ID)
	}
	if matches[0].Profile.DogName != top.DogName {
		t.Fatalf("expected match with %s, got %s", top.DogName, matches[0].Profile.DogName)
	}
	if m.playdates.notice == "" {
		t.Fatal("expected a match notice")
	}
}

func TestLikeWithoutLikeBackMatchesNothing(t *testing.T) {
	m := newTestModel(t)
	for len(m.playdates.deck) > 0 {
		m.likeCurrent(false)
	}
	if got := m.stores.Matches.List(context.Background()); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}

func TestRecordMatchIsIdempotent(t *testing.T) {
	m := newTestModel(t)
	p := candidateProfiles[0]
	if err := m.recordMatch(p); err != nil {
		t.Fatalf("recordMatch failed: %v", err)
	}
	if err := m.recordMatch(p); err != nil {
		t.Fatalf("repeat recordMatch failed: %v", err)
	}
	if got := m.stores.Matches.List(context.Background()); len(got) != 1 {
		t.Fatalf("expected 1 match after duplicate like, got %d", len(got))
	}
}

func TestSendChatAppendsReply(t *testing.T) {
	m := newTestModel(t)
	if err := m.recordMatch(candidateProfiles[1]); err != nil {
		t.Fatalf("recordMatch failed: %v", err)
	}
	matchID := "match_" + candidateProfiles[1].ID

	if err := m.sendChat(matchID, "Park at noon?"); err != nil {
		t.Fatalf("sendChat failed: %v", err)
	}
	matches := m.stores.Matches.List(context.Background())
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	msgs := matches[0].Messages
	if len(msgs) != 2 {
		t.Fatalf("expected outgoing message plus reply, got %d messages", len(msgs))
	}
	if msgs[0].Sender != model.SenderMe || msgs[0].Text != "Park at noon?" {
		t.Fatalf("unexpected first message: %+v", msgs[0])
	}
	if msgs[1].Sender != model.SenderThem || msgs[1].Text != chatReply {
		t.Fatalf("unexpected reply: %+v", msgs[1])
	}
}

func TestSendChatUnknownMatch(t *testing.T) {
	m := newTestModel(t)
	if err := m.sendChat("match_missing", "hello"); err == nil {
		t.Fatal("expected an error for an unknown match")
	}
}
