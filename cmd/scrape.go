package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sree-9523/RedBus/browser"
	"github.com/sree-9523/RedBus/config"
	"github.com/sree-9523/RedBus/logger"
	"github.com/sree-9523/RedBus/scraper/redbus"
	"github.com/sree-9523/RedBus/storage"
)

var scrapeRoute *string

func init() {
	scrapeRoute = scrapeCmd.Flags().String("route", "", "Scrape only the named route from the routes file (default: all).")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--route <name>]",
	Short: "Runs the extraction pipeline for the configured routes and stores records in PostgreSQL.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScrape(cmd.Context())
	},
}

// runScrape returns instead of exiting so deferred teardown (browser
// process, connection pool) always runs; the non-zero exit happens in the
// caller.
func runScrape(ctx context.Context) error {
	log := logger.New()
	cfg := config.Load(log)

	routes, err := config.LoadRoutes(cfg.RoutesFile)
	if err != nil {
		return fmt.Errorf("load routes file: %w", err)
	}
	if *scrapeRoute != "" {
		routes = filterRoutes(routes, *scrapeRoute)
		if len(routes) == 0 {
			return fmt.Errorf("route %q not found in routes file", *scrapeRoute)
		}
	}

	store, err := storage.NewPostgresStore(cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect to PostgreSQL: %w", err)
	}
	defer store.Close()

	session, err := browser.NewChromeSession(cfg)
	if err != nil {
		return fmt.Errorf("start browser session: %w", err)
	}
	defer session.Close()

	// An interrupt stops between items, never mid-item.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	failed := false
	for _, route := range routes {
		scraper := redbus.New(cfg, route, session, store, logger.For(log, "scraper"))
		summary, err := scraper.Run(ctx)
		if err != nil {
			failed = true
			log.Error().Str("route", route.Name).Err(err).Msg("run aborted")
		}
		if summary != nil {
			log.Info().
				Str("route", summary.RouteName).
				Int("extracted", summary.Extracted).
				Int("normalized", summary.Normalized()).
				Int("rejected", summary.Rejected).
				Int("inserted", summary.Inserted).
				Int("insert_failed", summary.InsertFailed).
				Dur("took", summary.FinishedAt.Sub(summary.StartedAt)).
				Msg("run summary")
			for _, f := range summary.Failures {
				log.Warn().Int("item", f.Index).Str("stage", f.Stage).Str("cause", f.Cause).Msg("item lost")
			}
		}
		if ctx.Err() != nil {
			break
		}
	}

	if failed {
		return errors.New("one or more route runs aborted")
	}
	return nil
}

func filterRoutes(routes []config.Route, name string) []config.Route {
	var out []config.Route
	for _, r := range routes {
		if r.Name == name {
			out = append(out, r)
		}
	}
	return out
}
