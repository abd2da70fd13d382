package redbus

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sree-9523/RedBus/browser"
	"github.com/sree-9523/RedBus/config"
	"github.com/sree-9523/RedBus/models"
	"github.com/sree-9523/RedBus/services"
	"github.com/sree-9523/RedBus/storage"
)

// runState tracks where a run is in its lifecycle. Navigation and loading
// failures abort the run; per-item failures keep it in extracting.
type runState int

const (
	stateNotStarted runState = iota
	stateNavigating
	stateLoading
	stateExtracting
	stateDone
	stateAborted
)

func (s runState) String() string {
	switch s {
	case stateNavigating:
		return "navigating"
	case stateLoading:
		return "loading"
	case stateExtracting:
		return "extracting"
	case stateDone:
		return "done"
	case stateAborted:
		return "aborted"
	default:
		return "not-started"
	}
}

// Scraper runs the extraction pipeline for one route: drive the navigation
// waypoints, expand the lazy-loaded listing, then extract, normalize and
// persist every item in page order.
type Scraper struct {
	route      config.Route
	session    browser.Session
	retrier    *browser.Retrier
	loader     *browser.Loader
	normalizer *services.Normalizer
	store      storage.RouteWriter
	log        zerolog.Logger
	state      runState
}

// New creates a ready-to-use Scraper for one route. The session is
// exclusively owned by this scraper for the run's duration.
func New(cfg *config.Config, route config.Route, session browser.Session, store storage.RouteWriter, log zerolog.Logger) *Scraper {
	log = log.With().Str("route", route.Name).Logger()
	return &Scraper{
		route:   route,
		session: session,
		retrier: &browser.Retrier{
			MaxAttempts: cfg.MaxClickAttempts,
			Settle:      cfg.SettleDelay(),
			PerAttempt:  cfg.ClickTimeout(),
			Log:         log,
		},
		loader: &browser.Loader{
			Settle:    cfg.ScrollSettle(),
			MaxRounds: cfg.MaxScrollRounds,
			Log:       log,
		},
		normalizer: services.NewNormalizer(log),
		store:      store,
		log:        log,
	}
}

// Run executes one pipeline run to completion or abort. The summary is
// always returned, also on abort, so a partial run is never silent. A
// cancelled context is honored between items: the in-flight item finishes
// or is skipped whole.
func (s *Scraper) Run(ctx context.Context) (*models.RunSummary, error) {
	referenceDate, err := s.route.ParseReferenceDate()
	if err != nil {
		return nil, err
	}

	summary := &models.RunSummary{RouteName: s.route.Name, StartedAt: time.Now()}
	defer func() { summary.FinishedAt = time.Now() }()

	s.setState(stateNavigating)
	if err := s.navigate(ctx); err != nil {
		s.setState(stateAborted)
		return summary, fmt.Errorf("navigation: %w", err)
	}

	s.setState(stateLoading)
	rounds, err := s.loader.LoadAll(ctx, s.session.ContentExtent, s.session.ScrollToBottom)
	if err != nil {
		s.setState(stateAborted)
		return summary, fmt.Errorf("pagination: %w", err)
	}

	items, err := s.session.ItemsHTML(ctx, s.route.Selectors.Item)
	if err != nil {
		s.setState(stateAborted)
		return summary, fmt.Errorf("enumerate listing items: %w", err)
	}
	s.log.Info().Int("items", len(items)).Int("scroll_rounds", rounds).Msg("listing loaded")

	s.setState(stateExtracting)
	for i, html := range items {
		if ctx.Err() != nil {
			s.setState(stateAborted)
			return summary, ctx.Err()
		}
		s.processItem(ctx, i, html, referenceDate, summary)
	}

	s.setState(stateDone)
	s.log.Info().
		Int("extracted", summary.Extracted).
		Int("rejected", summary.Rejected).
		Int("inserted", summary.Inserted).
		Int("insert_failed", summary.InsertFailed).
		Msg("run complete")
	return summary, nil
}

// navigate walks the route's waypoints and lands on the listing page.
// Any failure here is fatal: there is no partial result without a loaded
// item list.
func (s *Scraper) navigate(ctx context.Context) error {
	for i, step := range s.route.Steps {
		switch step.Kind {
		case config.StepNavigate:
			s.log.Debug().Int("step", i).Str("url", step.URL).Msg("navigate")
			if err := s.session.Navigate(ctx, step.URL); err != nil {
				return fmt.Errorf("step %d: navigate %s: %w", i, step.URL, err)
			}
		case config.StepClick:
			s.log.Debug().Int("step", i).Str("selector", step.Selector).Msg("click")
			if err := s.retrier.Click(ctx, s.session, step.Selector); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		}
	}
	return s.session.Navigate(ctx, s.route.Link)
}

// processItem takes one item snapshot through extract, normalize and insert.
// Every failure is contained: counted, logged, next item.
func (s *Scraper) processItem(ctx context.Context, index int, html string, referenceDate time.Time, summary *models.RunSummary) {
	raw, err := extractItem(html, s.route.Selectors)
	if err != nil {
		summary.RecordFailure(index, models.StageExtract, err)
		s.log.Warn().Int("item", index).Err(err).Msg("item skipped")
		return
	}
	summary.Extracted++

	record, err := s.normalizer.Normalize(raw, referenceDate, s.route.Name, s.route.Link)
	if err != nil {
		summary.RecordFailure(index, models.StageNormalize, err)
		s.log.Warn().Int("item", index).Str("operator", raw.Operator).Err(err).Msg("record rejected")
		return
	}

	if err := s.store.InsertRoute(ctx, record); err != nil {
		summary.RecordFailure(index, models.StageInsert, err)
		s.log.Warn().Int("item", index).Str("operator", record.Operator).Err(err).Msg("insert failed")
		return
	}
	summary.Inserted++
}

func (s *Scraper) setState(next runState) {
	s.log.Debug().Stringer("from", s.state).Stringer("to", next).Msg("state")
	s.state = next
}
