package prereq

import (
	"testing"

	"github.com/jonathan/degree-advisor/internal/parsing"
	"github.com/jonathan/degree-advisor/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestSatisfied(t *testing.T) {
	have := CodeSet([]string{"FINA 3001", "ECON 1102", "INSY 4051"})

	tests := []struct {
		name     string
		prereq   types.Prereq
		expected bool
	}{
		{"none", types.NoPrereq(), true},
		{"zero value", types.Prereq{}, true},
		{"single present", types.SinglePrereq("FINA 3001"), true},
		{"single missing", types.SinglePrereq("FINA 4020"), false},
		{"or one present", types.OrPrereq("ECON 1101", "ECON 1102"), true},
		{"or none present", types.OrPrereq("ECON 1101", "ECON 1103"), false},
		{"and all present", types.AndPrereq(types.SinglePrereq("FINA 3001"), types.OrPrereq("ECON 1101", "ECON 1102")), true},
		{"and one missing", types.AndPrereq(types.SinglePrereq("FINA 4020"), types.OrPrereq("ECON 1101", "ECON 1102")), false},
		{"choose met", types.ChooseNPrereq(1, "INSY 4051", "INSY 4052"), true},
		{"choose unmet", types.ChooseNPrereq(2, "INSY 4051", "INSY 4052", "INSY 4053"), false},
		{"unsupported", types.UnsupportedPrereq("instructor permission"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Satisfied(tt.prereq, have))
		})
	}
}

func TestSatisfied_UnsupportedIgnoresHistory(t *testing.T) {
	p := types.UnsupportedPrereq("instructor permission")
	assert.False(t, Satisfied(p, CodeSet([]string{"FINA 3001"})))
	assert.False(t, Satisfied(p, map[string]bool{"instructor permission": true}))
	assert.False(t, Satisfied(p, nil))
}

func TestSatisfied_InvalidExpressionPanics(t *testing.T) {
	bad := types.Prereq{Kind: types.PrereqChooseN, Count: 0, Courses: []string{"A 1000"}}
	assert.Panics(t, func() { Satisfied(bad, nil) })

	assert.Panics(t, func() { Satisfied(types.Prereq{Kind: "xor"}, nil) })
}

func TestSatisfied_Monotonic(t *testing.T) {
	exprs := []types.Prereq{
		parsing.ParsePrereq("FINA 3001"),
		parsing.ParsePrereq("ECON 1101 or ECON 1102"),
		parsing.ParsePrereq("ACCO 1030 or ACCO 1031; FINA 3001"),
		parsing.ParsePrereq("Two courses from: INSY 4051 or INSY 4052 or INSY 4053"),
		parsing.ParsePrereq("none"),
	}
	universe := []string{"FINA 3001", "ECON 1101", "ECON 1102", "ACCO 1030", "ACCO 1031", "INSY 4051", "INSY 4052", "INSY 4053"}

	// Grow the satisfied set one code at a time; once satisfied, an expression stays satisfied.
	for _, expr := range exprs {
		set := make(map[string]bool)
		was := Satisfied(expr, set)
		for _, code := range universe {
			set[code] = true
			now := Satisfied(expr, set)
			if was {
				assert.True(t, now, "expression %+v lost satisfaction after adding %s", expr, code)
			}
			was = now
		}
		assert.True(t, was, "expression %+v should be satisfied by the full universe", expr)
	}
}

func TestRenderCheck(t *testing.T) {
	completed := CodeSet([]string{"FINA 3001"})
	inProgress := CodeSet([]string{"ECON 1101"})

	tests := []struct {
		name     string
		prereq   types.Prereq
		expected string
	}{
		{"none", types.NoPrereq(), "none"},
		{"completed", types.SinglePrereq("FINA 3001"), "FINA 3001 ✓"},
		{"in progress", types.SinglePrereq("ECON 1101"), "ECON 1101 ✓ (in progress)"},
		{"missing", types.SinglePrereq("FINA 4020"), "FINA 4020 ✗"},
		{"or", types.OrPrereq("ECON 1101", "ECON 1102"), "ECON 1101 ✓ (in progress) or ECON 1102 ✗"},
		{"and", types.AndPrereq(types.SinglePrereq("FINA 3001"), types.OrPrereq("ECON 1101", "ECON 1102")),
			"FINA 3001 ✓; (ECON 1101 ✓ (in progress) or ECON 1102 ✗)"},
		{"choose", types.ChooseNPrereq(2, "FINA 3001", "FINA 4020"), "2 of: FINA 3001 ✓, FINA 4020 ✗"},
		{"unsupported", types.UnsupportedPrereq("Instructor permission"), "manual review: Instructor permission"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RenderCheck(tt.prereq, completed, inProgress))
		})
	}
}
