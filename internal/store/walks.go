package store

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/pawtrail/internal/model"
)

// Collection keys.
const (
	walksKey    = "walks"
	expensesKey = "expenses"
	medicalKey  = "medical-records"
	analysesKey = "symptom-analyses"
	weightsKey  = "weight-records"
	postsKey    = "community-posts"
	alertsKey   = "lostdog-alerts"
	matchesKey  = "playdate-matches"
	servicesKey = "services"
	journalKey  = "journal"
)

// WalkStore persists the completed walk collection.
type WalkStore struct {
	c *Collection[model.Walk]
}

// NewWalkStore creates the walk collection store.
func NewWalkStore(s *Store, log zerolog.Logger) *WalkStore {
	return &WalkStore{
		c: NewCollection(s, walksKey, func(w model.Walk) string { return w.ID }, log),
	}
}

// List returns all stored walks. Corrupt storage degrades to an empty
// collection.
func (ws *WalkStore) List(ctx context.Context) []model.Walk {
	return ws.c.List(ctx)
}

// Add prepends a new walk and persists immediately.
func (ws *WalkStore) Add(ctx context.Context, w model.Walk) error {
	return ws.c.Add(ctx, w)
}

// Update replaces the walk with a matching id, recomputing the derived
// average speed so a post-hoc edit of duration or distance never leaves it
// stale. Returns ErrNotFound for unknown ids.
func (ws *WalkStore) Update(ctx context.Context, w model.Walk) error {
	w.AvgSpeed = AvgSpeedKmh(w.Distance, w.Duration)
	return ws.c.Replace(ctx, w)
}

// Delete removes the walk with the given id; idempotent.
func (ws *WalkStore) Delete(ctx context.Context, id string) error {
	return ws.c.Delete(ctx, id)
}

// AvgSpeedKmh derives the average speed in km/h, rounded to 1 dp, from a
// distance in km and a duration in seconds.
func AvgSpeedKmh(distanceKm float64, durationSec int) float64 {
	if durationSec <= 0 {
		return 0
	}
	return math.Round(distanceKm/(float64(durationSec)/3600)*10) / 10
}

// NewExpenseStore creates the expense collection store.
func NewExpenseStore(s *Store, log zerolog.Logger) *Collection[model.Expense] {
	return NewCollection(s, expensesKey, func(e model.Expense) string { return e.ID }, log)
}

// NewMedicalStore creates the medical record collection store.
func NewMedicalStore(s *Store, log zerolog.Logger) *Collection[model.MedicalRecord] {
	return NewCollection(s, medicalKey, func(r model.MedicalRecord) string { return r.ID }, log)
}

// NewAnalysisStore creates the symptom-analysis history store.
func NewAnalysisStore(s *Store, log zerolog.Logger) *Collection[model.AnalysisRecord] {
	return NewCollection(s, analysesKey, func(a model.AnalysisRecord) string { return a.ID }, log)
}

// NewWeightStore creates the weight record collection store.
func NewWeightStore(s *Store, log zerolog.Logger) *Collection[model.WeightRecord] {
	return NewCollection(s, weightsKey, func(r model.WeightRecord) string { return r.ID }, log)
}

// NewPostStore creates the community post collection store.
func NewPostStore(s *Store, log zerolog.Logger) *Collection[model.CommunityPost] {
	return NewCollection(s, postsKey, func(p model.CommunityPost) string { return p.ID }, log)
}

// NewAlertStore creates the lost-dog alert collection store.
func NewAlertStore(s *Store, log zerolog.Logger) *Collection[model.LostDogAlert] {
	return NewCollection(s, alertsKey, func(a model.LostDogAlert) string { return a.ID }, log)
}

// NewMatchStore creates the playdate match collection store.
func NewMatchStore(s *Store, log zerolog.Logger) *Collection[model.PlaydateMatch] {
	return NewCollection(s, matchesKey, func(m model.PlaydateMatch) string { return m.ID }, log)
}

// NewServiceStore creates the services directory store.
func NewServiceStore(s *Store, log zerolog.Logger) *Collection[model.DogService] {
	return NewCollection(s, servicesKey, func(d model.DogService) string { return d.ID }, log)
}

// NewJournalStore creates the journal entry collection store.
func NewJournalStore(s *Store, log zerolog.Logger) *Collection[model.JournalEntry] {
	return NewCollection(s, journalKey, func(e model.JournalEntry) string { return e.ID }, log)
}
