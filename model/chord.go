package model

// TargetChord is the reference pattern the player is asked to reproduce.
// Frets is indexed low E to high E; -1 = muted, 0 = open, n>0 = fret n.
type TargetChord struct {
	Name            string `json:"name"`
	Frets           []int  `json:"frets"`
	StringsToStrike []int  `json:"strings_to_strike"`
}

// ShouldStrike reports whether string s is expected to sound.
func (t TargetChord) ShouldStrike(s int) bool {
	for _, idx := range t.StringsToStrike {
		if idx == s {
			return true
		}
	}
	return false
}
