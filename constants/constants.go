package constants

import (
	"os"
	"time"
)

// String 0 is the low E everywhere in this module; the only place the
// device's high-to-low numbering appears is inside the BLE decoder.
const NumStrings = 6

const MaxFret = 12

// Fret value in a chord shape meaning "do not play this string".
const MutedFret = -1

// StandardTuning is the open-string MIDI pitch per string, low to high:
// E2(40) A2(45) D3(50) G3(55) B3(59) E4(64).
var StandardTuning = [NumStrings]int{40, 45, 50, 55, 59, 64}

// DebounceWindow is how long the strings must stay quiet after the last
// strike before a strum counts as finished.
const DebounceWindow = 250 * time.Millisecond

func GetChordsPath() string {
	path := os.Getenv("CHORDS_PATH")
	if path != "" {
		return path
	}
	return "./custom_chords.json"
}
