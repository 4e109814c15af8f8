package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pawtrail/internal/geo"
	"github.com/verte-zerg/pawtrail/internal/model"
)

// defaultServices seeds the directory on first run.
var defaultServices = []model.DogService{
	{ID: "1", Name: "Happy Paws Vet Clinic", Type: model.ServiceVet, Location: model.GeoPoint{Lat: 37.780, Lng: -122.430}, Rating: 4.8},
	{ID: "2", Name: "Golden Gate Park Dog Run", Type: model.ServicePark, Location: model.GeoPoint{Lat: 37.770, Lng: -122.460}, Rating: 4.5},
	{ID: "3", Name: "SF Pet Groomers", Type: model.ServiceGroomer, Location: model.GeoPoint{Lat: 37.760, Lng: -122.420}, Rating: 4.9},
	{ID: "4", Name: "City Pups Training Academy", Type: model.ServiceTrainer, Location: model.GeoPoint{Lat: 37.790, Lng: -122.410}, Rating: 4.7},
	{ID: "5", Name: "The Dog House Boarding", Type: model.ServiceBoarding, Location: model.GeoPoint{Lat: 37.750, Lng: -122.440}, Rating: 4.6},
	{ID: "6", Name: "Ocean Beach Dog Park", Type: model.ServicePark, Location: model.GeoPoint{Lat: 37.760, Lng: -122.505}, Rating: 4.8},
}

type servicesState struct {
	cursor       int
	searchActive bool
	search       textinput.Model
}

func (m *Model) initServices() {
	m.services.search = newFormInput("Search: ")
	m.seedServices(context.Background())
}

// seedServices fills an empty directory with the default entries. An
// already populated (or user-modified) directory is left alone.
func (m *Model) seedServices(ctx context.Context) {
	if len(m.stores.Services.List(ctx)) > 0 {
		return
	}
	// Add prepends, so seed in reverse to keep the default order.
	for i := len(defaultServices) - 1; i >= 0; i-- {
		if err := m.stores.Services.Add(ctx, defaultServices[i]); err != nil {
			m.log.Warn().Err(err).Msg("seeding services directory failed")
			return
		}
	}
}

// filterServices keeps the services whose name or type contains the query,
// case-insensitively. An empty query keeps everything.
func filterServices(services []model.DogService, query string) []model.DogService {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return services
	}
	out := make([]model.DogService, 0, len(services))
	for _, s := range services {
		if strings.Contains(strings.ToLower(s.Name), query) ||
			strings.Contains(strings.ToLower(s.Type), query) {
			out = append(out, s)
		}
	}
	return out
}

func (m *Model) updateServices(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.services.searchActive {
		switch msg.Type {
		case tea.KeyEsc:
			m.services.searchActive = false
			m.services.search.Blur()
			m.services.search.SetValue("")
			m.services.cursor = 0
			return m, nil
		case tea.KeyEnter:
			m.services.searchActive = false
			m.services.search.Blur()
			m.services.cursor = 0
			return m, nil
		}
		var cmd tea.Cmd
		m.services.search, cmd = m.services.search.Update(msg)
		return m, cmd
	}

	visible := filterServices(m.stores.Services.List(context.Background()), m.services.search.Value())
	switch msg.String() {
	case "/":
		m.services.searchActive = true
		return m, m.services.search.Focus()
	case "esc":
		m.services.search.SetValue("")
		m.services.cursor = 0
		return m, nil
	case "up", "k":
		if m.services.cursor > 0 {
			m.services.cursor--
		}
		return m, nil
	case "down", "j":
		if m.services.cursor < len(visible)-1 {
			m.services.cursor++
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) renderServices(height int) string {
	lines := []string{m.services.search.View(), ""}

	// Distances come from the live walk stream; without a fix there is
	// nothing to measure from.
	var here *model.GeoPoint
	if snap := m.session.Snapshot(); len(snap.Route) > 0 {
		last := snap.Route[len(snap.Route)-1]
		here = &last
	} else {
		lines = append(lines, warnStyle.Render("Could not get your location. Distances cannot be calculated."), "")
	}

	visible := filterServices(m.stores.Services.List(context.Background()), m.services.search.Value())
	if len(visible) == 0 {
		lines = append(lines, "No services found matching your search.")
		return strings.Join(lines, "\n")
	}
	for i, s := range visible {
		line := fmt.Sprintf("%-26s %-9s %.1f★", s.Name, s.Type, s.Rating)
		if here != nil {
			line += fmt.Sprintf("  %.1f km away", geo.HaversineKm(*here, s.Location))
		}
		if i == m.services.cursor {
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
