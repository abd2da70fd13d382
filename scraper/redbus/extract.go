package redbus

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sree-9523/RedBus/config"
	"github.com/sree-9523/RedBus/models"
)

// ExtractionError reports a listing item missing a required field. The item
// is skipped and counted; it never aborts the run.
type ExtractionError struct {
	Field string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("listing item missing required field %q", e.Field)
}

// extractItem reads one listing item's raw fields from its outerHTML
// snapshot. Rating and the next-day marker are optional; everything else is
// required.
func extractItem(html string, sel config.Selectors) (*models.RawTrip, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse item markup: %w", err)
	}

	raw := &models.RawTrip{}

	required := []struct {
		selector string
		field    string
		dest     *string
	}{
		{sel.Operator, "operator", &raw.Operator},
		{sel.BusType, "bus_type", &raw.BusType},
		{sel.Departure, "departure", &raw.DepartureText},
		{sel.Arrival, "arrival", &raw.ArrivalText},
		{sel.Duration, "duration", &raw.Duration},
		{sel.Fare, "fare", &raw.FareText},
		{sel.Seats, "seats", &raw.SeatsText},
	}
	for _, f := range required {
		text, err := requiredText(doc, f.selector, f.field)
		if err != nil {
			return nil, err
		}
		*f.dest = text
	}

	// Rating is optional: a missing element becomes the unrated sentinel
	// downstream.
	raw.RatingText = strings.TrimSpace(doc.Find(sel.Rating).First().Text())

	// A populated next-day label flags a trip that crosses midnight.
	nextDay := doc.Find(sel.NextDay).First()
	raw.ArrivesNextDay = nextDay.Length() > 0 && strings.TrimSpace(nextDay.Text()) != ""

	return raw, nil
}

func requiredText(doc *goquery.Document, selector, field string) (string, error) {
	node := doc.Find(selector).First()
	if node.Length() == 0 {
		return "", &ExtractionError{Field: field}
	}
	text := strings.TrimSpace(node.Text())
	if text == "" {
		return "", &ExtractionError{Field: field}
	}
	return text, nil
}
