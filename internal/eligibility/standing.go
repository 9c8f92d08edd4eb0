package eligibility

// Class-standing levels used by min_standing
const (
	StandingFreshman  = 1
	StandingSophomore = 2
	StandingJunior    = 3
	StandingSenior    = 4
)

var standingLabels = map[int]string{
	StandingFreshman:  "Freshman",
	StandingSophomore: "Sophomore",
	StandingJunior:    "Junior",
	StandingSenior:    "Senior",
}

// InferStanding derives a minimum class standing from a course level:
// 1xxx and 2xxx courses are open to freshmen, 3xxx to sophomores, 4xxx to
// juniors and anything higher to seniors. Returns 0 for an unknown level.
func InferStanding(level int) int {
	switch {
	case level <= 0:
		return 0
	case level < 3000:
		return StandingFreshman
	case level < 4000:
		return StandingSophomore
	case level < 5000:
		return StandingJunior
	default:
		return StandingSenior
	}
}

// StandingLabel returns the display name of a standing level, or "" when unknown.
func StandingLabel(standing int) string {
	return standingLabels[standing]
}
