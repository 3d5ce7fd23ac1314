package match

// Evidence maps a condition's signal name to the raw value the comparison
// used. A nil entry records that the signal was absent when evaluated.
type Evidence map[string]*float64

// PersonaMatch is one persona's evaluation result. Produced fresh per
// evaluation call; the assignment layer summarizes it into the persisted
// record.
type PersonaMatch struct {
	PersonaID string
	Matched   bool
	Evidence  Evidence
	// MatchedConditions holds a human-readable description of every
	// condition that evaluated true. Informational only: nothing downstream
	// branches on it.
	MatchedConditions []string
}
