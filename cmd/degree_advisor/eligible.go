package main

import (
	"context"
	"os"

	"github.com/jonathan/degree-advisor/internal/advisor"
	"github.com/jonathan/degree-advisor/internal/observability"
	"github.com/jonathan/degree-advisor/internal/schemas"
	"github.com/spf13/cobra"
)

var eligibleCmd = &cobra.Command{
	Use:   "eligible",
	Short: "List courses a student can take in a term",
	Long:  "Lists every catalog course the student is eligible for in the target term, ordered by requirement priority, with prerequisite checks, soft warnings and manual-review flags.",
	RunE:  runEligible,
}

var (
	eligibleSource  sourceFlags
	eligibleStudent studentFlags
	eligibleOutput  string
	eligiblePretty  bool
)

func init() {
	eligibleSource.register(eligibleCmd)
	eligibleStudent.register(eligibleCmd, true)
	eligibleCmd.Flags().StringVarP(&eligibleOutput, "out", "o", "", "Path to output candidates JSON file (stdout when omitted)")
	eligibleCmd.Flags().BoolVar(&eligiblePretty, "pretty", false, "Print a human-readable summary")

	rootCmd.AddCommand(eligibleCmd)
}

func runEligible(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	policy, c, err := eligibleSource.load(ctx)
	if err != nil {
		return err
	}
	req, err := eligibleStudent.request(policy.TrackID)
	if err != nil {
		return err
	}

	result, err := advisor.New(c, policy, advisor.Options{Logger: logger}).Run(ctx, req)
	if err != nil {
		return err
	}

	if eligiblePretty {
		observability.NewPrinter(os.Stdout).PrintCandidates(result.Candidates)
		if eligibleOutput == "" {
			return nil
		}
	}
	return writeOutput(eligibleOutput, result.Candidates, schemas.Candidates)
}
