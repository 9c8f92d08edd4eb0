package main

import (
	"fmt"
	"os"

	"github.com/jonathan/degree-advisor/internal/advisor"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// studentFlags describe one student's history, either inline or from a file
type studentFlags struct {
	studentPath string
	completed   []string
	inProgress  []string
	term        string
}

func (s *studentFlags) register(cmd *cobra.Command, withTerm bool) {
	cmd.Flags().StringVarP(&s.studentPath, "student", "s", "", "Path to a JSON or YAML student file (completed, in_progress, target_term)")
	cmd.Flags().StringSliceVar(&s.completed, "completed", nil, "Completed course codes (comma-separated)")
	cmd.Flags().StringSliceVar(&s.inProgress, "in-progress", nil, "In-progress course codes (comma-separated)")
	if withTerm {
		cmd.Flags().StringVar(&s.term, "term", "", "Target term: Fall, Spring or Summer")
	}
}

// request builds an advisor request. Inline flags are appended to the
// file's lists and the term flag overrides the file's term.
func (s *studentFlags) request(trackID string) (advisor.Request, error) {
	var req advisor.Request
	if s.studentPath != "" {
		content, err := os.ReadFile(s.studentPath)
		if err != nil {
			return advisor.Request{}, fmt.Errorf("failed to read student file %s: %w", s.studentPath, err)
		}
		// YAML is a superset of JSON, so one decoder serves both
		if err := yaml.Unmarshal(content, &req); err != nil {
			return advisor.Request{}, fmt.Errorf("failed to parse student file: %w", err)
		}
	}

	req.Completed = append(req.Completed, s.completed...)
	req.InProgress = append(req.InProgress, s.inProgress...)
	if s.term != "" {
		req.TargetTerm = s.term
	}
	if trackID != "" {
		req.TrackID = trackID
	}
	return req, nil
}
