// Package verify compares a target chord against the live guitar state.
package verify

import (
	"fmt"

	"github.com/sprenkle/WinGuitar/constants"
	"github.com/sprenkle/WinGuitar/guitar"
	"github.com/sprenkle/WinGuitar/model"
)

// Result is the full verdict for one verification pass. FretsMatched and
// StringsMatched are independent axes: a chord can be fretted right but
// strummed wrong, and vice versa. Errors holds at most one diagnostic per
// string, keyed by string index; matching strings have no entry.
type Result struct {
	FretsMatched   bool
	StringsMatched bool
	Errors         map[int]string
}

// OK reports whether the chord was fully correct on both axes.
func (r Result) OK() bool {
	return r.FretsMatched && r.StringsMatched
}

// Verify checks state against target, one string at a time. A target with a
// missing or wrong-sized fret array never matches. Both target and state use
// canonical ordering (string 0 = low E), so the comparison is index-aligned
// with no reversals.
func Verify(target model.TargetChord, state *guitar.State) Result {
	res := Result{Errors: make(map[int]string)}

	if len(target.Frets) != constants.NumStrings {
		return res
	}

	res.FretsMatched = true
	res.StringsMatched = true

	for s := 0; s < constants.NumStrings; s++ {
		want := target.Frets[s]
		pressed := state.FretPressed(s)
		struck := state.IsStringStruck(s)

		switch {
		case want == constants.MutedFret:
			// Muted: must not sound, held fret is irrelevant.
			if struck {
				res.StringsMatched = false
				res.Errors[s] = fmt.Sprintf("string %d should not be struck", s)
			}

		case want == 0:
			// Open: struck exactly when the chord expects it to sound.
			expect := target.ShouldStrike(s)
			if struck != expect {
				res.StringsMatched = false
				if expect {
					res.Errors[s] = fmt.Sprintf("string %d should be struck (open)", s)
				} else {
					res.Errors[s] = fmt.Sprintf("string %d should not be struck", s)
				}
			}

		default:
			if pressed != want {
				res.FretsMatched = false
				res.Errors[s] = fmt.Sprintf("string %d should be on fret %d, got %d", s, want, pressed)
			}
			if target.ShouldStrike(s) && !struck {
				res.StringsMatched = false
				if _, dup := res.Errors[s]; !dup {
					res.Errors[s] = fmt.Sprintf("string %d should be struck", s)
				}
			}
		}
	}

	return res
}
