package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sprenkle/WinGuitar/guitar"
	"github.com/sprenkle/WinGuitar/library"
	"github.com/sprenkle/WinGuitar/model"
)

func stateWith(pressed []int, struck []int) *guitar.State {
	st := guitar.NewState()
	for s, fret := range pressed {
		if fret > 0 {
			st.PressFret(s, fret)
		}
	}
	for _, s := range struck {
		st.StrikeString(s, st.FretPressed(s))
	}
	return st
}

func TestEmptyTargetNeverMatches(t *testing.T) {
	st := stateWith([]int{0, 2, 2, 1, 0, 0}, []int{0, 1, 2, 3, 4, 5})

	assert := assert.New(t)
	res := Verify(model.TargetChord{}, st)
	assert.False(res.FretsMatched)
	assert.False(res.StringsMatched)
	assert.False(res.OK())
}

func TestWrongSizedFretArrayNeverMatches(t *testing.T) {
	st := guitar.NewState()
	res := Verify(model.TargetChord{Name: "bad", Frets: []int{0, 2, 2}}, st)
	assert.False(t, res.OK())
}

func TestOpenEMajorFullMatch(t *testing.T) {
	target := library.NewTarget("E", []int{0, 2, 2, 1, 0, 0})
	st := stateWith([]int{0, 2, 2, 1, 0, 0}, []int{0, 1, 2, 3, 4, 5})

	assert := assert.New(t)
	res := Verify(target, st)
	assert.True(res.FretsMatched)
	assert.True(res.StringsMatched)
	assert.True(res.OK())
	assert.Empty(res.Errors)
}

func TestWrongFretReported(t *testing.T) {
	target := library.NewTarget("E", []int{0, 2, 2, 1, 0, 0})
	// String 3 struck open instead of fretted at 1.
	st := stateWith([]int{0, 2, 2, 0, 0, 0}, []int{0, 1, 2, 3, 4, 5})

	assert := assert.New(t)
	res := Verify(target, st)
	assert.False(res.FretsMatched)
	assert.True(res.StringsMatched)
	assert.Equal("string 3 should be on fret 1, got 0", res.Errors[3])
}

func TestMutedStringStruck(t *testing.T) {
	target := library.NewTarget("Am-shape", []int{-1, 0, 2, 2, 1, 0})
	st := stateWith([]int{0, 0, 2, 2, 1, 0}, []int{0, 1, 2, 3, 4, 5})

	assert := assert.New(t)
	res := Verify(target, st)
	assert.True(res.FretsMatched)
	assert.False(res.StringsMatched)
	assert.Equal("string 0 should not be struck", res.Errors[0])
}

func TestMutedStringIgnoresHeldFret(t *testing.T) {
	// A muted string matches whatever fret is held, as long as it stays
	// silent.
	target := library.NewTarget("D", []int{2, 2, 2, 0, -1, -1})
	for _, fret := range []int{0, 1, 5, 12} {
		st := stateWith([]int{2, 2, 2, 0, fret, fret}, []int{0, 1, 2, 3})
		res := Verify(target, st)
		assert.True(t, res.OK(), "held fret %d on muted strings", fret)
	}
}

func TestOpenStringMustBeStruck(t *testing.T) {
	target := library.NewTarget("Em", []int{0, 2, 2, 0, 0, 0})
	// String 5 never sounded.
	st := stateWith([]int{0, 2, 2, 0, 0, 0}, []int{0, 1, 2, 3, 4})

	assert := assert.New(t)
	res := Verify(target, st)
	assert.True(res.FretsMatched)
	assert.False(res.StringsMatched)
	assert.Equal("string 5 should be struck (open)", res.Errors[5])
}

func TestFrettedStringMustBeStruck(t *testing.T) {
	target := library.NewTarget("E", []int{0, 2, 2, 1, 0, 0})
	// Fretting is perfect but string 1 never sounded.
	st := stateWith([]int{0, 2, 2, 1, 0, 0}, []int{0, 2, 3, 4, 5})

	assert := assert.New(t)
	res := Verify(target, st)
	assert.True(res.FretsMatched)
	assert.False(res.StringsMatched)
	assert.Equal("string 1 should be struck", res.Errors[1])
}

func TestAxesAreIndependent(t *testing.T) {
	target := library.NewTarget("E", []int{0, 2, 2, 1, 0, 0})
	// Wrong fret on string 1 and string 4 silent: both axes fail, one
	// diagnostic each.
	st := stateWith([]int{0, 3, 2, 1, 0, 0}, []int{0, 1, 2, 3, 5})

	assert := assert.New(t)
	res := Verify(target, st)
	assert.False(res.FretsMatched)
	assert.False(res.StringsMatched)
	assert.Len(res.Errors, 2)
}

func TestAtMostOneDiagnosticPerString(t *testing.T) {
	target := library.NewTarget("E", []int{0, 2, 2, 1, 0, 0})
	// String 1 has the wrong fret and was not struck: the fret mismatch
	// wins.
	st := stateWith([]int{0, 3, 2, 1, 0, 0}, []int{0, 2, 3, 4, 5})

	res := Verify(target, st)
	assert.Equal(t, "string 1 should be on fret 2, got 3", res.Errors[1])
}
