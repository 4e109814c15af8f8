package tui

import (
	"context"
	"testing"

	"github.com/verte-zerg/pawtrail/internal/model"
)

func TestFilterServices(t *testing.T) {
	services := []model.DogService{
		{ID: "1", Name: "Happy Paws Vet Clinic", Type: model.ServiceVet},
		{ID: "2", Name: "Golden Gate Park Dog Run", Type: model.ServicePark},
		{ID: "3", Name: "Ocean Beach Dog Park", Type: model.ServicePark},
	}

	if got := filterServices(services, ""); len(got) != 3 {
		t.Fatalf("empty query must keep everything, got %d", len(got))
	}
	if got := filterServices(services, "  "); len(got) != 3 {
		t.Fatalf("blank query must keep everything, got %d", len(got))
	}

	// Type match is case-insensitive.
	if got := filterServices(services, "PARK"); len(got) != 2 {
		t.Fatalf("expected 2 parks, got %d", len(got))
	}
	// Name match too.
	if got := filterServices(services, "ocean"); len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("expected only the ocean park, got %+v", got)
	}
	if got := filterServices(services, "boarding"); len(got) != 0 {
		t.Fatalf("expected no hits, got %d", len(got))
	}
}

func TestSeedServicesOnlyWhenEmpty(t *testing.T) {
	m := newTestModel(t)
	ctx := context.Background()

	// NewModel seeds an empty directory.
	seeded := m.stores.Services.List(ctx)
	if len(seeded) != len(defaultServices) {
		t.Fatalf("expected %d seeded services, got %d", len(defaultServices), len(seeded))
	}
	if seeded[0].Name != defaultServices[0].Name {
		t.Fatalf("seed order lost, first entry is %q", seeded[0].Name)
	}

	// A user-modified directory is left alone.
	if err := m.stores.Services.Delete(ctx, seeded[0].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	m.seedServices(ctx)
	if got := m.stores.Services.List(ctx); len(got) != len(defaultServices)-1 {
		t.Fatalf("reseeding must not touch a populated directory, got %d entries", len(got))
	}
}

func TestApplyJournalFormRequiresCaption(t *testing.T) {
	m := newTestModel(t)
	if err := m.applyJournalForm(); err == nil {
		t.Fatal("expected an error for an empty caption")
	}

	m.journal.inputs[0].SetValue("First trip to the beach")
	m.journal.inputs[1].SetValue("~/photos/beach.jpg")
	if err := m.applyJournalForm(); err != nil {
		t.Fatalf("applyJournalForm failed: %v", err)
	}
	entries := m.stores.Journal.List(context.Background())
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Caption != "First trip to the beach" || entries[0].PhotoPath != "~/photos/beach.jpg" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}
