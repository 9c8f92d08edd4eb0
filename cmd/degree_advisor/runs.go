package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jonathan/degree-advisor/internal/db"
	"github.com/jonathan/degree-advisor/internal/observability"
	"github.com/jonathan/degree-advisor/internal/types"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List saved advisor runs or show one run's recommendations",
	Long:  "Lists the most recent saved runs of a track, or with --run-id prints the stored recommendations of a single run.",
	RunE:  runRuns,
}

var (
	runsDatabaseURL string
	runsTrackID     string
	runsRunID       string
	runsLimit       int
	runsPretty      bool
)

func init() {
	runsCmd.Flags().StringVar(&runsDatabaseURL, "db-url", "", "Database URL (defaults to DATABASE_URL)")
	runsCmd.Flags().StringVarP(&runsTrackID, "track", "t", "", "Track whose runs should be listed")
	runsCmd.Flags().StringVar(&runsRunID, "run-id", "", "Show the recommendations of one run")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list")
	runsCmd.Flags().BoolVar(&runsPretty, "pretty", false, "Print a human-readable summary")

	rootCmd.AddCommand(runsCmd)
}

func runRuns(_ *cobra.Command, _ []string) error {
	if runsRunID == "" && runsTrackID == "" {
		return fmt.Errorf("must provide either --track or --run-id")
	}

	databaseURL := resolveDatabaseURL(runsDatabaseURL)
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL required (set the environment variable or use --db-url)")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if runsRunID == "" {
		runs, err := database.ListRuns(ctx, runsTrackID, runsLimit)
		if err != nil {
			return err
		}
		if runsPretty {
			for _, r := range runs {
				_, _ = fmt.Fprintf(os.Stdout, "%s  %s  %-8s  %s\n", r.ID, r.TrackID, r.TargetTerm, r.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		}
		return writeOutput("", runs, "")
	}

	runID, err := uuid.Parse(runsRunID)
	if err != nil {
		return fmt.Errorf("invalid run-id: %w", err)
	}
	run, err := database.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run not found: %s", runID)
	}

	content, err := database.GetRunRecommendations(ctx, runID)
	if err != nil {
		return err
	}
	var set types.RecommendationSet
	if err := json.Unmarshal(content, &set); err != nil {
		return fmt.Errorf("failed to unmarshal stored recommendations: %w", err)
	}

	if runsPretty {
		_, _ = fmt.Fprintf(os.Stdout, "Run %s: %s, %s\n", run.ID, run.TrackID, run.TargetTerm)
		observability.NewPrinter(os.Stdout).PrintRecommendations(&set)
		return nil
	}
	return writeOutput("", &set, "")
}
