package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/degree-advisor/internal/advisor"
	"github.com/jonathan/degree-advisor/internal/db"
	"github.com/jonathan/degree-advisor/internal/observability"
	"github.com/jonathan/degree-advisor/internal/schemas"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend courses for the next term",
	Long:  "Runs allocation, eligibility and ranking for a student and writes the ranked RecommendationSet JSON. With --tracks, the student is evaluated against several tracks in parallel.",
	RunE:  runRecommend,
}

var (
	recommendSource  sourceFlags
	recommendStudent studentFlags
	recommendTracks  []string
	recommendCount   int
	recommendOutput  string
	recommendPretty  bool
	recommendSave    bool
)

func init() {
	recommendSource.register(recommendCmd)
	recommendStudent.register(recommendCmd, true)
	recommendCmd.Flags().StringSliceVar(&recommendTracks, "tracks", nil, "Evaluate several tracks at once (comma-separated)")
	recommendCmd.Flags().IntVarP(&recommendCount, "count", "n", 0, "Number of recommendations (defaults to the policy's recommendation_count)")
	recommendCmd.Flags().StringVarP(&recommendOutput, "out", "o", "", "Path to output JSON file (stdout when omitted)")
	recommendCmd.Flags().BoolVar(&recommendPretty, "pretty", false, "Print a human-readable summary")
	recommendCmd.Flags().BoolVar(&recommendSave, "save", false, "Save the run to the database (requires --db-url or DATABASE_URL)")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	if len(recommendTracks) > 0 && recommendSource.trackID == "" {
		recommendSource.trackID = recommendTracks[0]
	}
	policy, c, err := recommendSource.load(ctx)
	if err != nil {
		return err
	}
	req, err := recommendStudent.request(policy.TrackID)
	if err != nil {
		return err
	}
	req.Count = recommendCount

	opts := advisor.Options{
		Logger: logger,
		OnProgress: func(e advisor.ProgressEvent) {
			logger.Debug(e.Message, zap.String("step", e.Step), zap.String("run_id", e.RunID))
		},
	}
	if recommendSave {
		databaseURL := resolveDatabaseURL(recommendSource.databaseURL)
		if databaseURL == "" {
			return fmt.Errorf("DATABASE_URL required when using --save")
		}
		database, err := db.Connect(ctx, databaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		opts.Store = database
	}

	a := advisor.New(c, policy, opts)

	if len(recommendTracks) > 1 {
		if recommendSource.catalogPath == "" {
			// A database snapshot only carries the buckets of one track
			return fmt.Errorf("--tracks with more than one track requires --catalog")
		}
		results, err := a.RunTracks(ctx, req, recommendTracks)
		if err != nil {
			return err
		}
		if recommendPretty {
			printer := observability.NewPrinter(os.Stdout)
			for _, r := range results {
				_, _ = fmt.Fprintf(os.Stdout, "\nTrack %s (%s)\n", r.TrackID, r.TargetTerm)
				printer.PrintAllocation(r.Allocation)
				printer.PrintRecommendations(r.Recommendations)
			}
			if recommendOutput == "" {
				return nil
			}
		}
		return writeOutput(recommendOutput, results, "")
	}

	result, err := a.Run(ctx, req)
	if err != nil {
		return err
	}

	if recommendPretty {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintAllocation(result.Allocation)
		printer.PrintRecommendations(result.Recommendations)
		if recommendSave {
			_, _ = fmt.Fprintf(os.Stdout, "Saved run %s\n", result.RunID)
		}
		if recommendOutput == "" {
			return nil
		}
	}
	return writeOutput(recommendOutput, result.Recommendations, schemas.RecommendationSet)
}
