package guitar

import (
	"fmt"

	"github.com/sprenkle/WinGuitar/constants"
)

// Tuning is the open-string MIDI pitch per string, low to high.
type Tuning [constants.NumStrings]int

func StandardTuning() Tuning {
	return constants.StandardTuning
}

// FretFor converts a MIDI note heard on string s into a fret position.
// Out-of-range strings map to fret 0 so a garbled status byte can never
// index past the table.
func (t Tuning) FretFor(s, note int) int {
	if s < 0 || s >= constants.NumStrings {
		return 0
	}
	return note - t[s]
}

// NoteFor is the inverse mapping: the MIDI pitch of string s at fret f.
func (t Tuning) NoteFor(s, fret int) int {
	if s < 0 || s >= constants.NumStrings {
		return 0
	}
	return t[s] + fret
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchName renders a MIDI pitch like "E2" or "A#3".
func PitchName(pitch int) string {
	if pitch < 0 {
		return fmt.Sprintf("?\"%d\"", pitch)
	}
	return fmt.Sprintf("%s%d", noteNames[pitch%12], (pitch/12)-1)
}
