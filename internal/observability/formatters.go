// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/degree-advisor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// PrintPrereq outputs a raw prerequisite string next to its parsed form.
func (p *Printer) PrintPrereq(raw string, parsed types.Prereq) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Raw:   %s\n", raw))
	sb.WriteString(fmt.Sprintf("Type:  %s\n", parsed.Kind))

	switch parsed.Kind {
	case types.PrereqSingle:
		sb.WriteString(fmt.Sprintf("Course: %s", parsed.Course))
	case types.PrereqOr:
		sb.WriteString(fmt.Sprintf("Any of: %s", strings.Join(parsed.Courses, ", ")))
	case types.PrereqChooseN:
		sb.WriteString(fmt.Sprintf("%d of: %s", parsed.Count, strings.Join(parsed.Courses, ", ")))
	case types.PrereqAnd:
		sb.WriteString("All of:")
		for _, clause := range parsed.Clauses {
			if clause.Kind == types.PrereqOr {
				sb.WriteString(fmt.Sprintf("\n  • one of %s", strings.Join(clause.Courses, ", ")))
			} else {
				sb.WriteString(fmt.Sprintf("\n  • %s", clause.Course))
			}
		}
	case types.PrereqUnsupported:
		sb.WriteString("⚠ needs manual review")
	default:
		sb.WriteString("No prerequisite")
	}

	p.printBox("PARSED PREREQUISITE", sb.String())
}

// PrintAllocation outputs each bucket's progress and the double-counted courses.
func (p *Printer) PrintAllocation(result *types.AllocationResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Track: %s\n\n", result.TrackID))

	for _, b := range result.Buckets {
		mark := "○"
		if b.Satisfied {
			mark = "●"
		}
		label := b.Label
		if label == "" {
			label = b.BucketID
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, label))

		switch b.TargetKind {
		case types.TargetCount:
			sb.WriteString(fmt.Sprintf("    %d/%d courses", b.SlotsUsed, b.Target))
		case types.TargetCredits:
			sb.WriteString(fmt.Sprintf("    %d/%d credits", b.CreditsApplied, b.Target))
		default:
			sb.WriteString("    no target")
		}
		if len(b.InProgressApplied) > 0 {
			sb.WriteString(fmt.Sprintf(", %d in progress", len(b.InProgressApplied)))
		}
		sb.WriteString("\n")
		if len(b.CompletedApplied) > 0 {
			sb.WriteString(fmt.Sprintf("    [%s]\n", strings.Join(b.CompletedApplied, ", ")))
		}
	}

	if len(result.DoubleCounted) > 0 {
		sb.WriteString("\nDouble-counted:\n")
		for _, dc := range result.DoubleCounted {
			sb.WriteString(fmt.Sprintf("  • %s → %s\n", dc.CourseCode, strings.Join(dc.Buckets, " + ")))
		}
	}
	if len(result.Unallocated) > 0 {
		sb.WriteString(fmt.Sprintf("\nNot counted: %s\n", strings.Join(result.Unallocated, ", ")))
	}
	for _, note := range result.Notes {
		sb.WriteString(fmt.Sprintf("\nNote: %s", note))
	}

	p.printBox("REQUIREMENT ALLOCATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidates outputs the top eligible courses with their bucket and flags.
func (p *Printer) PrintCandidates(candidates []types.EligibleCourseCandidate) {
	if len(candidates) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Eligible courses: %d\n\n", len(candidates)))

	count := min(len(candidates), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := candidates[i]
		sb.WriteString(fmt.Sprintf("• %s", c.CourseCode))
		if c.PrimaryBucket != "" {
			sb.WriteString(fmt.Sprintf("  [%s]", strings.Join(c.FillsBuckets, ", ")))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("  %s\n", c.PrereqCheck))
		if flags := candidateFlags(c); flags != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", flags))
		}
	}

	if len(candidates) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more courses", len(candidates)-maxItemsToShow))
	}

	p.printBox("ELIGIBLE COURSES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendations outputs the ranked recommendations and the courses
// left for manual review.
func (p *Printer) PrintRecommendations(set *types.RecommendationSet) {
	if set == nil {
		return
	}

	var sb strings.Builder
	if len(set.Recommendations) == 0 {
		sb.WriteString("No courses to recommend\n")
	}
	for i, r := range set.Recommendations {
		sb.WriteString(fmt.Sprintf("#%d  %s", r.Rank, r.CourseCode))
		if r.CourseName != "" {
			sb.WriteString(fmt.Sprintf("  %s", r.CourseName))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("    Fills: %s (score %d)\n", strings.Join(r.FillsBuckets, ", "), r.MultiBucketScore))

		tags := []string{}
		if r.Bridge {
			tags = append(tags, "★bridge")
		}
		if r.Demoted {
			tags = append(tags, "↓"+strings.Join(r.SoftWarnings, ","))
		}
		if flags := candidateFlags(r.EligibleCourseCandidate); flags != "" {
			tags = append(tags, flags)
		}
		if len(tags) > 0 {
			sb.WriteString(fmt.Sprintf("    %s\n", strings.Join(tags, " ")))
		}
		if len(r.Unlocks) > 0 {
			sb.WriteString(fmt.Sprintf("    Unlocks: %s\n", strings.Join(r.Unlocks, ", ")))
		}
		if i < len(set.Recommendations)-1 {
			sb.WriteString("\n")
		}
	}

	if len(set.ManualReview) > 0 {
		sb.WriteString(fmt.Sprintf("\nManual review: %s\n", strings.Join(set.ManualReview, ", ")))
	}

	p.printBox("RECOMMENDED COURSES", strings.TrimSuffix(sb.String(), "\n"))
	p.PrintBlockingWarnings(set.BlockingWarnings)
}

// PrintBlockingWarnings outputs required courses that block many electives.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintBlockingWarnings(warnings []string) {
	if len(warnings) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO BLOCKING PREREQUISITES")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	for i, w := range warnings {
		sb.WriteString(fmt.Sprintf("⚠ %s", w))
		if i < len(warnings)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("BLOCKING PREREQUISITES", sb.String())
}

func candidateFlags(c types.EligibleCourseCandidate) string {
	flags := []string{}
	if c.ManualReview {
		flags = append(flags, "⚠manual-review")
	}
	if c.LowConfidence {
		flags = append(flags, "?low-confidence")
	}
	if c.StandingLabel != "" {
		flags = append(flags, c.StandingLabel+"+")
	}
	return strings.Join(flags, " ")
}
