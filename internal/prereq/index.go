package prereq

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/degree-advisor/internal/types"
)

// Index maps each course to the courses that list it as a direct prerequisite
type Index struct {
	dependents map[string][]string
}

// BuildIndex inverts parsed prerequisites into a prerequisite -> dependents map.
// Only single, and, or expressions are inverted; choose_n is ambiguous about
// which member unlocks the course and unsupported text has nothing resolved.
func BuildIndex(parsed map[string]types.Prereq) *Index {
	sets := make(map[string]map[string]bool)

	for course, p := range parsed {
		switch p.Kind {
		case types.PrereqSingle, types.PrereqAnd, types.PrereqOr:
		default:
			continue
		}
		for _, code := range p.Codes() {
			if code == course {
				continue
			}
			if sets[code] == nil {
				sets[code] = make(map[string]bool)
			}
			sets[code][course] = true
		}
	}

	dependents := make(map[string][]string, len(sets))
	for code, set := range sets {
		list := make([]string, 0, len(set))
		for dep := range set {
			list = append(list, dep)
		}
		sort.Strings(list)
		dependents[code] = list
	}

	return &Index{dependents: dependents}
}

// DirectUnlocks returns up to limit courses that list code as a direct prerequisite,
// sorted by course code. A non-positive limit returns all of them.
func (ix *Index) DirectUnlocks(code string, limit int) []string {
	deps := ix.dependents[code]
	if limit > 0 && len(deps) > limit {
		deps = deps[:limit]
	}
	return append([]string{}, deps...)
}

// Unlocks reports whether target lists code as a direct prerequisite.
func (ix *Index) Unlocks(code, target string) bool {
	deps := ix.dependents[code]
	i := sort.SearchStrings(deps, target)
	return i < len(deps) && deps[i] == target
}

// BlockingWarnings returns an advisory line for every still-incomplete required
// course that directly blocks at least threshold unmet courses of the elective pool.
func (ix *Index) BlockingWarnings(
	required []string,
	electivePool []string,
	completed map[string]bool,
	inProgress map[string]bool,
	threshold int,
) []string {
	if threshold < 1 {
		threshold = 1
	}

	pool := CodeSet(electivePool)
	warnings := make([]string, 0)
	seen := make(map[string]bool)

	for _, code := range required {
		if seen[code] || completed[code] || inProgress[code] {
			continue
		}
		seen[code] = true

		blocked := make([]string, 0)
		for _, dep := range ix.dependents[code] {
			if pool[dep] && !completed[dep] && !inProgress[dep] {
				blocked = append(blocked, dep)
			}
		}

		if len(blocked) >= threshold {
			warnings = append(warnings, fmt.Sprintf(
				"%s is still required and blocks %d elective options: %s",
				code, len(blocked), strings.Join(blocked, ", ")))
		}
	}

	return warnings
}

// ChainDepth returns the length of the longest prerequisite chain below code.
// A course already on the current path contributes no further depth, so
// cyclic catalogs terminate.
func ChainDepth(code string, parsed map[string]types.Prereq) int {
	return NewDepthCache(parsed).Depth(code)
}

// DepthCache memoizes ChainDepth over one set of parsed prerequisites. Only
// depths whose walk never reached a course already on the path are stored,
// since those are the only ones independent of how the course was reached.
// A DepthCache is not safe for concurrent use.
type DepthCache struct {
	parsed map[string]types.Prereq
	depths map[string]int
}

// NewDepthCache returns an empty cache over parsed.
func NewDepthCache(parsed map[string]types.Prereq) *DepthCache {
	return &DepthCache{parsed: parsed, depths: make(map[string]int)}
}

// Depth returns ChainDepth(code, parsed), reusing earlier results.
func (c *DepthCache) Depth(code string) int {
	depth, _ := c.walk(code, make(map[string]bool))
	return depth
}

// walk returns the depth below code and whether any course on the path cut
// the search short.
func (c *DepthCache) walk(code string, onPath map[string]bool) (int, bool) {
	if onPath[code] {
		return 0, true
	}
	if depth, ok := c.depths[code]; ok {
		return depth, false
	}
	p, ok := c.parsed[code]
	if !ok {
		return 0, false
	}
	codes := p.Codes()
	if len(codes) == 0 {
		c.depths[code] = 0
		return 0, false
	}

	onPath[code] = true
	defer delete(onPath, code)

	best, cut := 0, false
	for _, prereq := range codes {
		if onPath[prereq] {
			cut = true
			continue
		}
		depth, subCut := c.walk(prereq, onPath)
		if subCut {
			cut = true
		}
		if depth+1 > best {
			best = depth + 1
		}
	}
	if !cut {
		c.depths[code] = best
	}
	return best, cut
}
