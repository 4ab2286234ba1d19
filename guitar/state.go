package guitar

import "github.com/sprenkle/WinGuitar/constants"

const notStruck = -1

// State is the live snapshot of the controller: which fret is held on each
// string and which strings have sounded since the last clear. The decoder
// guarantees in-range string indices, but every mutator still bound-checks
// and silently drops bad input rather than panicking on a hostile payload.
//
// State itself is not synchronized; the session serializes all access.
type State struct {
	pressed [constants.NumStrings]int
	struck  [constants.NumStrings]int // fret at strike time, notStruck if silent
}

func NewState() *State {
	s := &State{}
	s.ClearAll()
	return s
}

func inRange(s int) bool {
	return s >= 0 && s < constants.NumStrings
}

// PressFret records a fret sensor going down on string s.
func (g *State) PressFret(s, fret int) {
	if inRange(s) && fret >= 0 {
		g.pressed[s] = fret
	}
}

// ReleaseFret records the fret sensor lifting. The stored fret always goes
// back to open; the fret argument is only kept for symmetry with PressFret.
func (g *State) ReleaseFret(s, fret int) {
	if inRange(s) && fret >= 0 {
		g.pressed[s] = 0
	}
}

// StrikeString records string s sounding, and the fret it sounded at.
func (g *State) StrikeString(s, fret int) {
	if inRange(s) {
		g.struck[s] = fret
	}
}

// ReleaseString is intentionally a no-op: struck means "did this string
// sound during the current strum window", not "is it still ringing".
// Strikes only go away via ClearStrings/ClearAll.
func (g *State) ReleaseString(s int) {}

// ClearStrings resets strike state only, used after each verification cycle.
func (g *State) ClearStrings() {
	for i := range g.struck {
		g.struck[i] = notStruck
	}
}

// ClearAll resets both fret and strike state, used when the target changes.
func (g *State) ClearAll() {
	for i := range g.pressed {
		g.pressed[i] = 0
	}
	g.ClearStrings()
}

func (g *State) IsStringStruck(s int) bool {
	return inRange(s) && g.struck[s] != notStruck
}

// StruckFret returns the fret string s was struck at, and whether it was
// struck at all.
func (g *State) StruckFret(s int) (int, bool) {
	if !g.IsStringStruck(s) {
		return 0, false
	}
	return g.struck[s], true
}

func (g *State) FretPressed(s int) int {
	if !inRange(s) {
		return 0
	}
	return g.pressed[s]
}
