package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/degree-advisor/internal/parsing"
	"github.com/jonathan/degree-advisor/internal/prereq"
	"github.com/spf13/cobra"
)

var unlocksCmd = &cobra.Command{
	Use:   "unlocks",
	Short: "Show the courses a course is a direct prerequisite for",
	Long:  "Builds the reverse-prerequisite index of the catalog and lists the courses that name the given course as a direct prerequisite, with their prerequisite chain depth.",
	RunE:  runUnlocks,
}

var (
	unlocksSource sourceFlags
	unlocksCourse string
	unlocksLimit  int
	unlocksOutput string
)

// unlocksOutputJSON is the JSON shape written by the unlocks command
type unlocksOutputJSON struct {
	CourseCode string   `json:"course_code"`
	Unlocks    []string `json:"unlocks"`
	ChainDepth int      `json:"chain_depth"`
}

func init() {
	unlocksSource.register(unlocksCmd)
	unlocksCmd.Flags().StringVar(&unlocksCourse, "course", "", "Course code to look up (required)")
	unlocksCmd.Flags().IntVar(&unlocksLimit, "limit", 0, "Maximum number of courses to list (0 lists all)")
	unlocksCmd.Flags().StringVarP(&unlocksOutput, "out", "o", "", "Path to output JSON file (stdout when omitted)")

	if err := unlocksCmd.MarkFlagRequired("course"); err != nil {
		panic(fmt.Sprintf("failed to mark course flag as required: %v", err))
	}

	rootCmd.AddCommand(unlocksCmd)
}

func runUnlocks(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	policy, err := unlocksSource.loadPolicy()
	if err != nil {
		return err
	}
	c, err := unlocksSource.loadCatalog(ctx, policy)
	if err != nil {
		return err
	}

	code := parsing.NormalizeCourseCode(unlocksCourse)
	if _, ok := c.CourseByCode()[code]; !ok {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: %s is not in the catalog\n", code)
	}

	parsed := parsing.ParseAll(c.Courses)
	out := unlocksOutputJSON{
		CourseCode: code,
		Unlocks:    prereq.BuildIndex(parsed).DirectUnlocks(code, unlocksLimit),
		ChainDepth: prereq.ChainDepth(code, parsed),
	}
	return writeOutput(unlocksOutput, out, "")
}
