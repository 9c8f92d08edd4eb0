package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrPrereq_SingleMemberCollapses(t *testing.T) {
	p := OrPrereq("FINA 3001")
	assert.Equal(t, PrereqSingle, p.Kind)
	assert.Equal(t, "FINA 3001", p.Course)
}

func TestAndPrereq_SingleClauseCollapses(t *testing.T) {
	p := AndPrereq(OrPrereq("ACCO 1030", "ACCO 1031"))
	assert.Equal(t, PrereqOr, p.Kind)
	assert.Equal(t, []string{"ACCO 1030", "ACCO 1031"}, p.Courses)
}

func TestChooseNPrereq(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		p := ChooseNPrereq(2, "INSY 4051", "INSY 4052", "INSY 4053")
		assert.Equal(t, PrereqChooseN, p.Kind)
		assert.Equal(t, 2, p.Count)
		assert.NoError(t, p.Validate())
	})

	t.Run("one of one collapses", func(t *testing.T) {
		p := ChooseNPrereq(1, "INSY 4051")
		assert.Equal(t, SinglePrereq("INSY 4051"), p)
	})

	t.Run("zero count panics", func(t *testing.T) {
		assert.Panics(t, func() { ChooseNPrereq(0, "INSY 4051") })
	})

	t.Run("count above options panics", func(t *testing.T) {
		assert.Panics(t, func() { ChooseNPrereq(3, "INSY 4051", "INSY 4052") })
	})
}

func TestPrereq_Codes(t *testing.T) {
	p := AndPrereq(SinglePrereq("FINA 3001"), OrPrereq("ECON 1101", "ECON 1102"))
	assert.Equal(t, []string{"FINA 3001", "ECON 1101", "ECON 1102"}, p.Codes())
	assert.Nil(t, NoPrereq().Codes())
	assert.Nil(t, UnsupportedPrereq("instructor permission").Codes())
}

func TestPrereq_Validate(t *testing.T) {
	tests := []struct {
		name    string
		prereq  Prereq
		wantErr bool
	}{
		{"none", NoPrereq(), false},
		{"zero value", Prereq{}, false},
		{"single", SinglePrereq("FINA 3001"), false},
		{"single without course", Prereq{Kind: PrereqSingle}, true},
		{"or with one member", Prereq{Kind: PrereqOr, Courses: []string{"A"}}, true},
		{"choose_n zero", Prereq{Kind: PrereqChooseN, Count: 0, Courses: []string{"A", "B"}}, true},
		{"and with nested and", Prereq{Kind: PrereqAnd, Clauses: []Prereq{
			SinglePrereq("A"),
			{Kind: PrereqAnd, Clauses: []Prereq{SinglePrereq("B"), SinglePrereq("C")}},
		}}, true},
		{"unsupported", UnsupportedPrereq("x"), false},
		{"unknown kind", Prereq{Kind: "xor"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.prereq.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPrereq_JSONShape(t *testing.T) {
	p := AndPrereq(SinglePrereq("FINA 3001"), OrPrereq("ECON 1101", "ECON 1102"))

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "and",
		"clauses": [
			{"type": "single", "course": "FINA 3001"},
			{"type": "or", "courses": ["ECON 1101", "ECON 1102"]}
		]
	}`, string(data))
}
