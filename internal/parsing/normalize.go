// Package parsing turns raw catalog text into structured values: canonical course
// codes, parsed prerequisite expressions, soft-requirement tags and term labels.
package parsing

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/degree-advisor/internal/types"
)

// courseCodePattern matches a department prefix, a 4-digit number and an optional trailing letter
var courseCodePattern = regexp.MustCompile(`^([A-Za-z]{2,5})\s*[-_]?\s*(\d{4})([A-Za-z]?)$`)

// termAliases maps lowercase term spellings to canonical term labels
var termAliases = map[string]string{
	"fall":   types.TermFall,
	"autumn": types.TermFall,
	"spring": types.TermSpring,
	"summer": types.TermSummer,
}

// NormalizeCourseCode normalizes a course code to "DEPT NNNN" form with an
// optional trailing letter. Returns the trimmed input when it is not a course code.
func NormalizeCourseCode(code string) string {
	trimmed := strings.Trim(strings.TrimSpace(code), ".,")
	matches := courseCodePattern.FindStringSubmatch(trimmed)
	if matches == nil {
		return trimmed
	}
	return strings.ToUpper(matches[1]) + " " + matches[2] + strings.ToUpper(matches[3])
}

// IsCourseCode reports whether the token normalizes to a canonical course code.
func IsCourseCode(token string) bool {
	return courseCodePattern.MatchString(strings.Trim(strings.TrimSpace(token), ".,"))
}

// NormalizeCourseCodes normalizes a list of codes, dropping empties and
// duplicates while preserving the first occurrence order.
func NormalizeCourseCodes(codes []string) []string {
	normalized := make([]string, 0, len(codes))
	seen := make(map[string]bool)
	for _, code := range codes {
		n := NormalizeCourseCode(code)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		normalized = append(normalized, n)
	}
	return normalized
}

// NormalizeTerm maps a term label to one of Fall, Spring or Summer.
func NormalizeTerm(term string) (string, error) {
	canonical, ok := termAliases[strings.ToLower(strings.TrimSpace(term))]
	if !ok {
		return "", &ValidationError{Field: "target_term", Message: "must be one of Fall, Spring, Summer, got " + term}
	}
	return canonical, nil
}

// ParseSoftTags splits a semicolon-delimited soft-requirement string into
// snake_case tags, deduplicated and sorted.
func ParseSoftTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}

	seen := make(map[string]bool)
	tags := make([]string, 0)
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == ',' }) {
		tag := strings.ToLower(strings.TrimSpace(part))
		tag = strings.Join(strings.FieldsFunc(tag, func(r rune) bool { return r == ' ' || r == '-' }), "_")
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	sort.Strings(tags)
	return tags
}
