package main

import (
	"context"
	"os"

	"github.com/jonathan/degree-advisor/internal/allocation"
	"github.com/jonathan/degree-advisor/internal/observability"
	"github.com/jonathan/degree-advisor/internal/parsing"
	"github.com/jonathan/degree-advisor/internal/schemas"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Allocate completed courses to requirement buckets",
	Long:  "Deterministically assigns a student's completed courses to the requirement buckets of a track, double-counting only between buckets that allow it, and writes an AllocationResult JSON.",
	RunE:  runAllocate,
}

var (
	allocateSource  sourceFlags
	allocateStudent studentFlags
	allocateOutput  string
	allocatePretty  bool
)

func init() {
	allocateSource.register(allocateCmd)
	allocateStudent.register(allocateCmd, false)
	allocateCmd.Flags().StringVarP(&allocateOutput, "out", "o", "", "Path to output AllocationResult JSON file (stdout when omitted)")
	allocateCmd.Flags().BoolVar(&allocatePretty, "pretty", false, "Print a human-readable summary")

	rootCmd.AddCommand(allocateCmd)
}

func runAllocate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	policy, c, err := allocateSource.load(ctx)
	if err != nil {
		return err
	}
	req, err := allocateStudent.request(policy.TrackID)
	if err != nil {
		return err
	}

	result := allocation.Allocate(policy, allocation.Input{
		Completed:  parsing.NormalizeCourseCodes(req.Completed),
		InProgress: parsing.NormalizeCourseCodes(req.InProgress),
		Catalog:    c,
	})
	logger.Debug("allocation complete",
		zap.String("track_id", policy.TrackID),
		zap.Int("buckets", len(result.Buckets)),
		zap.Int("unallocated", len(result.Unallocated)))

	if allocatePretty {
		observability.NewPrinter(os.Stdout).PrintAllocation(result)
		if allocateOutput == "" {
			return nil
		}
	}
	return writeOutput(allocateOutput, result, schemas.AllocationResult)
}
