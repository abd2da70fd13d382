package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Navigation step kinds. A "navigate" step loads a URL directly; a "click"
// step drives a page control (RTC tile, operator filter, apply button).
const (
	StepNavigate = "navigate"
	StepClick    = "click"
)

// NavStep is one waypoint on the way to a route's listing page.
type NavStep struct {
	Kind     string `json:"kind"`
	URL      string `json:"url,omitempty"`
	Selector string `json:"selector,omitempty"`
}

// Selectors identifies the pieces of one listing item. All values have
// working defaults for the current page markup; the route file may override
// them when the markup drifts.
type Selectors struct {
	Item      string `json:"item"`
	Operator  string `json:"operator"`
	BusType   string `json:"bus_type"`
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
	Duration  string `json:"duration"`
	Fare      string `json:"fare"`
	Seats     string `json:"seats"`
	Rating    string `json:"rating"`
	NextDay   string `json:"next_day"`
}

// DefaultSelectors returns the selector set for the current listing markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Item:      "li.bus-item",
		Operator:  ".travels",
		BusType:   ".bus-type",
		Departure: ".dp-time",
		Arrival:   ".bp-time",
		Duration:  ".dur",
		Fare:      ".fare",
		Seats:     ".seat-left",
		Rating:    ".rating-sec",
		NextDay:   ".next-day-dp-lbl",
	}
}

// Route describes one scrape target: identity, the listing URL, the UI
// waypoints that reach it, and the travel date the query is issued for.
type Route struct {
	Name          string    `json:"name"`
	Link          string    `json:"link"`
	ReferenceDate string    `json:"reference_date"`
	Steps         []NavStep `json:"steps"`
	Selectors     Selectors `json:"selectors"`
}

// ParseReferenceDate returns the route's travel date. Format is YYYY-MM-DD.
func (r *Route) ParseReferenceDate() (time.Time, error) {
	d, err := time.Parse("2006-01-02", r.ReferenceDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("route %q: bad reference_date %q: %w", r.Name, r.ReferenceDate, err)
	}
	return d, nil
}

// LoadRoutes reads the route file and validates each entry. Missing selector
// overrides fall back to the defaults.
func LoadRoutes(path string) ([]Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routes file: %w", err)
	}

	var routes []Route
	if err := json.Unmarshal(data, &routes); err != nil {
		return nil, fmt.Errorf("parse routes file %s: %w", path, err)
	}

	defaults := DefaultSelectors()
	for i := range routes {
		r := &routes[i]
		if r.Name == "" || r.Link == "" {
			return nil, fmt.Errorf("routes file %s: entry %d missing name or link", path, i)
		}
		if _, err := r.ParseReferenceDate(); err != nil {
			return nil, err
		}
		mergeSelectors(&r.Selectors, defaults)
		for j, step := range r.Steps {
			switch step.Kind {
			case StepNavigate:
				if step.URL == "" {
					return nil, fmt.Errorf("route %q: step %d: navigate without url", r.Name, j)
				}
			case StepClick:
				if step.Selector == "" {
					return nil, fmt.Errorf("route %q: step %d: click without selector", r.Name, j)
				}
			default:
				return nil, fmt.Errorf("route %q: step %d: unknown kind %q", r.Name, j, step.Kind)
			}
		}
	}
	return routes, nil
}

func mergeSelectors(s *Selectors, defaults Selectors) {
	if s.Item == "" {
		s.Item = defaults.Item
	}
	if s.Operator == "" {
		s.Operator = defaults.Operator
	}
	if s.BusType == "" {
		s.BusType = defaults.BusType
	}
	if s.Departure == "" {
		s.Departure = defaults.Departure
	}
	if s.Arrival == "" {
		s.Arrival = defaults.Arrival
	}
	if s.Duration == "" {
		s.Duration = defaults.Duration
	}
	if s.Fare == "" {
		s.Fare = defaults.Fare
	}
	if s.Seats == "" {
		s.Seats = defaults.Seats
	}
	if s.Rating == "" {
		s.Rating = defaults.Rating
	}
	if s.NextDay == "" {
		s.NextDay = defaults.NextDay
	}
}
