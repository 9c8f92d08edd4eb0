// Package catalog loads reference tables (courses, buckets, mappings and
// equivalencies) from JSON or YAML files and cleans them before use.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/degree-advisor/internal/schemas"
	"github.com/jonathan/degree-advisor/internal/types"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Options controls how strictly catalog rows are checked
type Options struct {
	// StrictBucketTargets rejects buckets that set both needed_count and needed_credits
	StrictBucketTargets bool
}

// LoadCatalog loads a catalog from a JSON or YAML file (chosen by extension)
// and normalizes it. JSON files are checked against the catalog schema first.
func LoadCatalog(path string, logger *zap.Logger, opts Options) (*types.Catalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			Message: fmt.Sprintf("failed to read file %s", path),
			Cause:   err,
		}
	}

	format := strings.ToLower(filepath.Ext(path))
	if format != ".yaml" && format != ".yml" {
		if err := schemas.Validate(schemas.Catalog, content); err != nil {
			return nil, &LoadError{
				Message: "schema validation failed",
				Cause:   err,
			}
		}
	}

	catalog, err := Decode(content, format)
	if err != nil {
		return nil, err
	}

	if _, err := Normalize(catalog, logger, opts); err != nil {
		return nil, err
	}
	return catalog, nil
}

// Decode unmarshals catalog content. format is a file extension; ".yaml" and
// ".yml" select YAML, anything else JSON.
func Decode(content []byte, format string) (*types.Catalog, error) {
	var catalog types.Catalog
	switch strings.ToLower(format) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &catalog); err != nil {
			return nil, &LoadError{
				Message: "failed to unmarshal YAML",
				Cause:   err,
			}
		}
	default:
		if err := json.Unmarshal(content, &catalog); err != nil {
			return nil, &LoadError{
				Message: "failed to unmarshal JSON",
				Cause:   err,
			}
		}
	}
	return &catalog, nil
}
