package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/degree-advisor/internal/catalog"
	"github.com/jonathan/degree-advisor/internal/observability"
	"github.com/jonathan/degree-advisor/internal/parsing"
	"github.com/jonathan/degree-advisor/internal/types"
	"github.com/spf13/cobra"
)

var parsePrereqCmd = &cobra.Command{
	Use:   "parse-prereq [text]",
	Short: "Parse a prerequisite string into its structured form",
	Long:  "Parse a raw catalog prerequisite string, or the prerequisite of a catalog course, into a structured expression. Text that cannot be decided automatically is reported as unsupported.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParsePrereq,
}

var (
	parsePrereqCourse  string
	parsePrereqCatalog string
	parsePrereqOutput  string
	parsePrereqPretty  bool
)

func init() {
	parsePrereqCmd.Flags().StringVar(&parsePrereqCourse, "course", "", "Course code whose prerequisite should be parsed (requires --catalog)")
	parsePrereqCmd.Flags().StringVarP(&parsePrereqCatalog, "catalog", "c", "", "Path to catalog JSON or YAML file")
	parsePrereqCmd.Flags().StringVarP(&parsePrereqOutput, "out", "o", "", "Path to output JSON file (stdout when omitted)")
	parsePrereqCmd.Flags().BoolVar(&parsePrereqPretty, "pretty", false, "Print a human-readable summary instead of JSON")

	rootCmd.AddCommand(parsePrereqCmd)
}

func runParsePrereq(_ *cobra.Command, args []string) error {
	raw, err := resolvePrereqText(args)
	if err != nil {
		return err
	}

	parsed := parsing.ParsePrereq(raw)
	logger.Debug("parsed prerequisite")

	if parsePrereqPretty {
		observability.NewPrinter(os.Stdout).PrintPrereq(raw, parsed)
		return nil
	}
	return writeOutput(parsePrereqOutput, parsed, "")
}

func resolvePrereqText(args []string) (string, error) {
	if len(args) == 1 && parsePrereqCourse != "" {
		return "", fmt.Errorf("cannot use a text argument with --course")
	}
	if len(args) == 1 {
		return args[0], nil
	}
	if parsePrereqCourse == "" {
		return "", fmt.Errorf("must provide either prerequisite text or --course")
	}
	if parsePrereqCatalog == "" {
		return "", fmt.Errorf("--catalog is required with --course")
	}

	c, err := catalog.LoadCatalog(parsePrereqCatalog, logger, catalog.Options{})
	if err != nil {
		return "", fmt.Errorf("failed to load catalog: %w", err)
	}
	return courseField(c, parsePrereqCourse, func(course *types.Course) string { return course.PrereqHard })
}

func courseField(c *types.Catalog, code string, field func(*types.Course) string) (string, error) {
	course, ok := c.CourseByCode()[parsing.NormalizeCourseCode(code)]
	if !ok {
		return "", fmt.Errorf("course not found in catalog: %s", strings.TrimSpace(code))
	}
	return field(course), nil
}
