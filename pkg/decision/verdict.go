package decision

// Verdict represents the engine's answer to a declared intent to act.
type Verdict string

const (
	// VerdictAllow permits the action to proceed.
	VerdictAllow Verdict = "ALLOW"

	// VerdictPause suspends the action pending resolution (e.g. human approval).
	VerdictPause Verdict = "PAUSE"

	// VerdictBlock rejects the action outright.
	VerdictBlock Verdict = "BLOCK"

	// VerdictObserve records the action without gating it.
	VerdictObserve Verdict = "OBSERVE"
)

// precedence is the fixed total order used to reduce multiple matched
// verdicts to one: BLOCK > PAUSE > ALLOW > OBSERVE.
var precedence = map[Verdict]int{
	VerdictBlock:   3,
	VerdictPause:   2,
	VerdictAllow:   1,
	VerdictObserve: 0,
}

// Valid returns true if v is one of the four known verdicts.
func (v Verdict) Valid() bool {
	_, ok := precedence[v]
	return ok
}

// Precedence returns the verdict's rank in the fixed precedence order.
// Unknown verdicts rank below OBSERVE.
func (v Verdict) Precedence() int {
	if p, ok := precedence[v]; ok {
		return p
	}
	return -1
}

// ResolveVerdicts reduces a set of matched verdicts to a single final
// verdict by taking the maximum under the fixed precedence order.
// An empty set resolves to ALLOW: no policy objected, so the action
// is permitted by default.
func ResolveVerdicts(matched []Verdict) Verdict {
	if len(matched) == 0 {
		return VerdictAllow
	}

	final := matched[0]
	for _, v := range matched[1:] {
		if v.Precedence() > final.Precedence() {
			final = v
		}
	}
	return final
}

// AllVerdicts returns every known verdict, ordered by descending precedence.
func AllVerdicts() []Verdict {
	return []Verdict{VerdictBlock, VerdictPause, VerdictAllow, VerdictObserve}
}
