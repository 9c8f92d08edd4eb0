package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/degree-advisor/internal/catalog"
	"github.com/jonathan/degree-advisor/internal/config"
	"github.com/jonathan/degree-advisor/internal/db"
	"github.com/jonathan/degree-advisor/internal/schemas"
	"github.com/jonathan/degree-advisor/internal/types"
	"github.com/spf13/cobra"
)

// sourceFlags selects where the catalog and policy come from. Every
// evaluating command registers the same set.
type sourceFlags struct {
	catalogPath string
	policyPath  string
	databaseURL string
	trackID     string
	strict      bool
}

func (s *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.catalogPath, "catalog", "c", "", "Path to catalog JSON or YAML file")
	cmd.Flags().StringVarP(&s.policyPath, "policy", "p", "", "Path to policy JSON or YAML file (defaults apply when omitted)")
	cmd.Flags().StringVar(&s.databaseURL, "db-url", "", "Database URL to load the catalog from instead of --catalog")
	cmd.Flags().StringVarP(&s.trackID, "track", "t", "", "Track identifier (overrides the policy's track_id)")
	cmd.Flags().BoolVar(&s.strict, "strict", false, "Reject buckets that set both needed_count and needed_credits")
}

// loadPolicy reads the policy file when given and fills unset values from
// the defaults. The track flag wins over the file.
func (s *sourceFlags) loadPolicy() (config.Policy, error) {
	policy := config.Default()
	if s.policyPath != "" {
		loaded, err := config.LoadPolicy(s.policyPath)
		if err != nil {
			return config.Policy{}, err
		}
		policy = loaded.MergeWithDefaults(config.Default())
	}
	if s.trackID != "" {
		policy = policy.WithTrack(s.trackID)
	}
	if s.strict {
		policy.StrictBucketTargets = true
	}
	return policy, nil
}

// loadCatalog reads the catalog from a file, or from the database when no
// file is given.
func (s *sourceFlags) loadCatalog(ctx context.Context, policy config.Policy) (*types.Catalog, error) {
	if s.catalogPath != "" {
		return catalog.LoadCatalog(s.catalogPath, logger, catalog.Options{StrictBucketTargets: policy.StrictBucketTargets})
	}

	databaseURL := resolveDatabaseURL(s.databaseURL)
	if databaseURL == "" {
		return nil, fmt.Errorf("must provide either --catalog or --db-url (or set DATABASE_URL)")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	loaded, err := database.LoadCatalog(ctx, policy.TrackID)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from database: %w", err)
	}
	if _, err := catalog.Normalize(loaded, logger, catalog.Options{StrictBucketTargets: policy.StrictBucketTargets}); err != nil {
		return nil, err
	}
	return loaded, nil
}

// load returns a validated policy and the catalog for its track.
func (s *sourceFlags) load(ctx context.Context) (config.Policy, *types.Catalog, error) {
	policy, err := s.loadPolicy()
	if err != nil {
		return config.Policy{}, nil, err
	}
	if err := policy.Validate(); err != nil {
		return config.Policy{}, nil, err
	}
	c, err := s.loadCatalog(ctx, policy)
	if err != nil {
		return config.Policy{}, nil, err
	}
	return policy, c, nil
}

func resolveDatabaseURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("DATABASE_URL")
}

// writeOutput marshals v as indented JSON to path, or to stdout when path is
// empty, then checks it against the named schema. A schema mismatch is
// reported as a warning and never fails the command.
func writeOutput(path string, v interface{}, schemaName string) error {
	jsonOutput, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if path == "" {
		if _, err := fmt.Fprintln(os.Stdout, string(jsonOutput)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		outputDir := filepath.Dir(path)
		if outputDir != "" && outputDir != "." {
			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
			}
		}
		if err := os.WriteFile(path, jsonOutput, 0644); err != nil {
			return fmt.Errorf("failed to write output file %s: %w", path, err)
		}
	}

	if schemaName == "" {
		return nil
	}
	if err := schemas.Validate(schemaName, jsonOutput); err != nil {
		var schemaLoadErr *schemas.SchemaLoadError
		if errors.As(err, &schemaLoadErr) {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate output against schema (schema loading failed): %v\n", err)
		} else {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: Output validation failed: %v\n", err)
		}
	}
	return nil
}
