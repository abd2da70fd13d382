package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sree-9523/RedBus/models"
)

// unratedLabel is the page's sentinel for an operator without ratings yet.
const unratedLabel = "New"

var (
	// currencyRegexp strips a currency-code or symbol prefix from fare text.
	currencyRegexp = regexp.MustCompile(`(?i)^(inr|rs\.?|₹)\s*`)
	// leadingFloatRegexp captures the leading decimal token of "4.5 stars".
	leadingFloatRegexp = regexp.MustCompile(`^-?\d+(?:\.\d+)?`)
	// leadingIntRegexp captures the leading integer of "12 seats available".
	leadingIntRegexp = regexp.MustCompile(`^-?\d+`)
)

// ValidationError rejects one raw trip during normalization. Rejections are
// counted by the orchestrator and never abort the run.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Normalizer converts raw scraped text into typed TripRecords, resolving
// day-rollover arrivals and the unrated sentinel.
type Normalizer struct {
	log zerolog.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(log zerolog.Logger) *Normalizer {
	return &Normalizer{log: log}
}

// Normalize validates raw and produces a record anchored to referenceDate,
// the travel date the route query was issued for. An arrival flagged as
// next-day lands on referenceDate + 1.
func (n *Normalizer) Normalize(raw *models.RawTrip, referenceDate time.Time, routeName, routeLink string) (*models.TripRecord, error) {
	departureAt, err := combineClock(referenceDate, raw.DepartureText)
	if err != nil {
		return nil, &ValidationError{Field: "time", Reason: fmt.Sprintf("departure %q: %v", raw.DepartureText, err)}
	}

	arrivalDate := referenceDate
	if raw.ArrivesNextDay {
		arrivalDate = referenceDate.AddDate(0, 0, 1)
		n.log.Debug().Str("operator", raw.Operator).Msg("arrival rolls over to the next day")
	}
	arrivalAt, err := combineClock(arrivalDate, raw.ArrivalText)
	if err != nil {
		return nil, &ValidationError{Field: "time", Reason: fmt.Sprintf("arrival %q: %v", raw.ArrivalText, err)}
	}

	if arrivalAt.Before(departureAt) {
		return nil, &ValidationError{
			Field:  "ordering",
			Reason: fmt.Sprintf("arrival %s before departure %s", arrivalAt.Format("2006-01-02 15:04"), departureAt.Format("2006-01-02 15:04")),
		}
	}

	price, err := parseFare(raw.FareText)
	if err != nil {
		return nil, &ValidationError{Field: "fare", Reason: err.Error()}
	}

	seats, err := parseSeats(raw.SeatsText)
	if err != nil {
		return nil, &ValidationError{Field: "seats", Reason: err.Error()}
	}

	rating, err := parseRating(raw.RatingText)
	if err != nil {
		return nil, &ValidationError{Field: "rating", Reason: err.Error()}
	}

	return &models.TripRecord{
		RouteName:      routeName,
		RouteLink:      routeLink,
		Operator:       raw.Operator,
		BusType:        raw.BusType,
		DepartureAt:    departureAt,
		Duration:       raw.Duration,
		ArrivalAt:      arrivalAt,
		StarRating:     rating,
		Price:          price,
		SeatsAvailable: seats,
	}, nil
}

// combineClock anchors an HH:MM clock reading to a calendar date.
func combineClock(date time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, fmt.Errorf("not an HH:MM clock reading")
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, date.Location()), nil
}

// parseFare strips the currency prefix ("INR 850") and parses the remainder
// as a non-negative decimal.
func parseFare(raw string) (float64, error) {
	cleaned := currencyRegexp.ReplaceAllString(strings.TrimSpace(raw), "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("fare %q is not numeric", raw)
	}
	if price < 0 {
		return 0, fmt.Errorf("fare %q is negative", raw)
	}
	return price, nil
}

// parseSeats takes the leading integer of "12 seats available". Zero seats
// is a valid boundary, not a rejection.
func parseSeats(raw string) (int, error) {
	match := leadingIntRegexp.FindString(strings.TrimSpace(raw))
	if match == "" {
		return 0, fmt.Errorf("seats %q has no leading number", raw)
	}
	seats, err := strconv.Atoi(match)
	if err != nil {
		return 0, fmt.Errorf("seats %q is not numeric", raw)
	}
	if seats < 0 {
		return 0, fmt.Errorf("seats %q is negative", raw)
	}
	return seats, nil
}

// parseRating takes the leading decimal of "4.5 stars". Absent text or the
// unrated label resolves to the 0.0 sentinel rather than failing; so does
// any other non-numeric label. A numeric rating outside [0, 5] is rejected.
func parseRating(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, unratedLabel) {
		return 0, nil
	}
	match := leadingFloatRegexp.FindString(raw)
	if match == "" {
		return 0, nil
	}
	rating, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, nil
	}
	if rating < 0 || rating > 5 {
		return 0, fmt.Errorf("rating %q outside 0.0-5.0", raw)
	}
	return rating, nil
}
