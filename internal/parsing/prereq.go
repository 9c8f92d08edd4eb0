package parsing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/degree-advisor/internal/types"
)

var (
	parenClausePattern = regexp.MustCompile(`\([^()]*\)`)
	orPattern          = regexp.MustCompile(`(?i)\s+or\s+`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
	chooseNPattern     = regexp.MustCompile(`(?i)^(\d+|one|two|three|four|five)\s+(?:courses?\s+)?(?:from|of)\s*:?\s*(.+)$`)
	codeInTextPattern  = regexp.MustCompile(`[A-Za-z]{2,5}\s*[-_]?\s*\d{4}`)
	countPhrasePattern = regexp.MustCompile(`(?i)\b(?:from|of)\b|:`)
)

// emptyPrereqValues are the spellings of "no prerequisite"
var emptyPrereqValues = map[string]bool{
	"":            true,
	"none":        true,
	"none listed": true,
	"n/a":         true,
}

// unsupportedSignals are phrases that make a prerequisite undecidable from course history alone
var unsupportedSignals = []string{
	"permission",
	"concurrent",
	"minimum grade",
	"standing",
	"instructor",
	"co-req",
	"coreq",
	"admitted",
	"enrollment",
	"consent",
	"placement",
}

// countWords maps spelled-out counts used in "choose N" phrasing
var countWords = map[string]int{
	"one":   1,
	"two":   2,
	"three": 3,
	"four":  4,
	"five":  5,
}

// ParsePrereq parses a raw catalog prerequisite string. It never fails:
// anything it cannot decide becomes an unsupported expression carrying the raw text.
func ParsePrereq(raw string) types.Prereq {
	text := collapseWhitespace(raw)
	if emptyPrereqValues[strings.ToLower(text)] {
		return types.NoPrereq()
	}

	if strings.ContainsAny(text, "()") {
		stripped, ok := stripAnnotations(text)
		if !ok {
			return types.UnsupportedPrereq(raw)
		}
		parsed := ParsePrereq(stripped)
		if parsed.IsUnsupported() {
			return types.UnsupportedPrereq(raw)
		}
		return parsed
	}

	lower := strings.ToLower(text)
	for _, signal := range unsupportedSignals {
		if strings.Contains(lower, signal) {
			return types.UnsupportedPrereq(raw)
		}
	}

	if matches := chooseNPattern.FindStringSubmatch(text); matches != nil {
		return parseChooseN(raw, matches[1], matches[2])
	}
	// Count wording the choose-N form did not accept ("six courses from:",
	// "Choose two from:") must not degrade into an any-of list.
	if countPhrasePattern.MatchString(text) {
		return types.UnsupportedPrereq(raw)
	}

	if strings.Contains(text, ";") {
		clauses := make([]types.Prereq, 0)
		for _, part := range strings.Split(text, ";") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			clause, ok := parseClause(part)
			if !ok {
				return types.UnsupportedPrereq(raw)
			}
			clauses = append(clauses, clause)
		}
		if len(clauses) == 0 {
			return types.UnsupportedPrereq(raw)
		}
		return types.AndPrereq(clauses...)
	}

	clause, ok := parseClause(text)
	if !ok {
		return types.UnsupportedPrereq(raw)
	}
	return clause
}

// parseClause parses one " or " list or a single code. It reports false when
// any member is not a course code.
func parseClause(text string) (types.Prereq, bool) {
	if orPattern.MatchString(text) {
		members, ok := splitCodes(text)
		if !ok || len(members) == 0 {
			return types.Prereq{}, false
		}
		return types.OrPrereq(members...), true
	}
	if !isCodeToken(text) {
		return types.Prereq{}, false
	}
	return types.SinglePrereq(NormalizeCourseCode(text)), true
}

// ParseAll parses the hard prerequisite of every course, keyed by course code.
func ParseAll(courses []types.Course) map[string]types.Prereq {
	parsed := make(map[string]types.Prereq, len(courses))
	for _, c := range courses {
		parsed[c.CourseCode] = ParsePrereq(c.PrereqHard)
	}
	return parsed
}

// ParseAllConcurrent parses the explicit concurrent-enrollment prerequisite of
// every course that declares one, keyed by course code.
func ParseAllConcurrent(courses []types.Course) map[string]types.Prereq {
	parsed := make(map[string]types.Prereq)
	for _, c := range courses {
		p := ParsePrereq(c.PrereqConcurrent)
		if !p.IsNone() {
			parsed[c.CourseCode] = p
		}
	}
	return parsed
}

// parseChooseN builds an n-of expression, rejecting counts the options cannot meet.
func parseChooseN(raw, countText, optionsText string) types.Prereq {
	count, ok := countWords[strings.ToLower(countText)]
	if !ok {
		n, err := strconv.Atoi(countText)
		if err != nil {
			return types.UnsupportedPrereq(raw)
		}
		count = n
	}

	options, ok := splitCodes(optionsText)
	if !ok || count <= 0 || count > len(options) {
		return types.UnsupportedPrereq(raw)
	}
	return types.ChooseNPrereq(count, options...)
}

// stripAnnotations removes parenthetical clauses that carry no course codes.
// It reports false when a clause groups course codes or the parentheses are
// unbalanced, since removing either would change the rule.
func stripAnnotations(text string) (string, bool) {
	for {
		clauses := parenClausePattern.FindAllString(text, -1)
		if len(clauses) == 0 {
			break
		}
		for _, clause := range clauses {
			if codeInTextPattern.MatchString(clause) {
				return "", false
			}
		}
		text = parenClausePattern.ReplaceAllString(text, " ")
	}

	if strings.ContainsAny(text, "()") {
		return "", false
	}

	cleaned := strings.Trim(collapseWhitespace(text), " ,;")
	if cleaned == "" {
		return "", false
	}
	return cleaned, true
}

// splitCodes splits an " or "/comma separated list into normalized codes.
// It reports false when a member is not a course code.
func splitCodes(text string) ([]string, bool) {
	codes := make([]string, 0)
	for _, part := range orPattern.Split(text, -1) {
		for _, token := range strings.Split(part, ",") {
			token = strings.TrimSpace(token)
			if token == "" || strings.EqualFold(token, "or") {
				continue
			}
			if !isCodeToken(token) {
				return nil, false
			}
			codes = append(codes, NormalizeCourseCode(token))
		}
	}
	return codes, true
}

// isCodeToken accepts canonical course codes and opaque single-word codes.
// Phrases, dangling connectors and labelled text are rejected.
func isCodeToken(token string) bool {
	if IsCourseCode(token) {
		return true
	}
	lower := strings.ToLower(strings.Trim(strings.TrimSpace(token), ".,"))
	if lower == "" || lower == "or" || lower == "and" {
		return false
	}
	return !strings.ContainsAny(lower, " :")
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
