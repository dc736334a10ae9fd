package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pi5dash/evescan/internal/app"
	"github.com/pi5dash/evescan/internal/config"
	"github.com/pi5dash/evescan/internal/models"
)

const (
	appName = "evescan"
	version = "v1.2.0"

	runTimeout = 30 * time.Minute
)

// newRootCommand builds the CLI. The scan and universe-refresh actions are
// injected so the command wiring stays testable without live providers.
func newRootCommand(
	runScan func(context.Context, config.Config) (*models.Report, error),
	runUpdate func(context.Context, config.Config) error,
) *cobra.Command {
	var updateUniverse bool

	cmd := &cobra.Command{
		Use:     appName,
		Short:   "Evening options research scanner",
		Version: version,
		Long: `evescan scans a universe of retail-popular US equities every evening,
scores each ticker on earnings proximity, volume, momentum, RSI, and
options pricing, enriches the top candidates with AI sentiment, and
writes a dashboard-ready report plus a running research journal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
			defer cancel()

			if updateUniverse {
				if err := runUpdate(ctx, cfg); err != nil {
					return fmt.Errorf("universe update failed: %w", err)
				}
				fmt.Println("✅ Universe updated")
				return nil
			}

			rep, err := runScan(ctx, cfg)
			if err != nil {
				return fmt.Errorf("research run failed: %w", err)
			}

			fmt.Printf("✅ Scan completed: %d opportunities from %d tickers, saved to %s\n",
				rep.Summary.OpportunitiesFound, rep.Summary.TotalScanned, cfg.ReportPath())
			return nil
		},
	}

	cmd.Flags().BoolVar(&updateUniverse, "update-universe", false,
		"Refresh the ticker universe from the broker instead of scanning")

	return cmd
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	rootCmd := newRootCommand(
		func(ctx context.Context, cfg config.Config) (*models.Report, error) {
			return app.New(cfg).Run(ctx)
		},
		app.UpdateUniverse,
	)
	rootCmd.SetContext(context.Background())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
