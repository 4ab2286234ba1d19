package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprenkle/WinGuitar/blemidi"
	"github.com/sprenkle/WinGuitar/library"
	"github.com/sprenkle/WinGuitar/model"
	"github.com/sprenkle/WinGuitar/verify"
)

const testWindow = 40 * time.Millisecond

// recorder collects callback invocations without calling back into the
// session.
type recorder struct {
	mu       sync.Mutex
	results  []verify.Result
	advanced []string
	complete bool
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnResult: func(_ model.TargetChord, res verify.Result) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.results = append(r.results, res)
		},
		OnAdvance: func(next model.TargetChord) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.advanced = append(r.advanced, next.Name)
		},
		OnComplete: func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.complete = true
		},
	}
}

func (r *recorder) advancedNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.advanced...)
}

func (r *recorder) resultCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

func (r *recorder) lastResult() (verify.Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.results) == 0 {
		return verify.Result{}, false
	}
	return r.results[len(r.results)-1], true
}

func (r *recorder) isComplete() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.complete
}

// playChord applies the fret presses and strikes for a shape, low E first.
func playChord(s *Session, frets []int) {
	for str, fret := range frets {
		if fret > 0 {
			s.Apply(blemidi.Event{Kind: blemidi.FretPress, String: str, Fret: fret})
		}
	}
	for str, fret := range frets {
		if fret >= 0 {
			s.Apply(blemidi.Event{Kind: blemidi.Strike, String: str, Fret: fret})
		}
	}
}

func TestCorrectChordAdvancesQueue(t *testing.T) {
	rec := &recorder{}
	chords := []model.TargetChord{
		library.NewTarget("E", []int{0, 2, 2, 1, 0, 0}),
		library.NewTarget("A", []int{0, 0, 2, 2, 2, 0}),
	}
	s := New(chords, WithWindow(testWindow), WithCallbacks(rec.callbacks()))

	playChord(s, []int{0, 2, 2, 1, 0, 0})

	require.Eventually(t, func() bool { return len(rec.advancedNames()) == 1 },
		time.Second, 5*time.Millisecond)

	res, _ := rec.lastResult()
	assert := assert.New(t)
	assert.True(res.OK())
	assert.Equal([]string{"A"}, rec.advancedNames())

	current, ok := s.Current()
	assert.True(ok)
	assert.Equal("A", current.Name)
}

func TestWrongChordKeepsTargetAndClearsStrikes(t *testing.T) {
	rec := &recorder{}
	chords := []model.TargetChord{library.NewTarget("E", []int{0, 2, 2, 1, 0, 0})}
	s := New(chords, WithWindow(testWindow), WithCallbacks(rec.callbacks()))

	// Fret string 3 wrong.
	playChord(s, []int{0, 2, 2, 0, 0, 0})

	require.Eventually(t, func() bool { return rec.resultCount() == 1 },
		time.Second, 5*time.Millisecond)

	res, _ := rec.lastResult()
	assert := assert.New(t)
	assert.False(res.OK())
	assert.False(res.FretsMatched)
	assert.Empty(rec.advancedNames())

	current, ok := s.Current()
	assert.True(ok)
	assert.Equal("E", current.Name)

	// The strum window reset: fixing the fret and strumming again now
	// passes, which also shows held frets survived the failed pass.
	s.Apply(blemidi.Event{Kind: blemidi.FretPress, String: 3, Fret: 1})
	for str := 0; str < 6; str++ {
		s.Apply(blemidi.Event{Kind: blemidi.Strike, String: str, Fret: 0})
	}

	require.Eventually(t, func() bool { return rec.isComplete() },
		time.Second, 5*time.Millisecond)
	res, _ = rec.lastResult()
	assert.True(res.OK())
	assert.Equal(2, rec.resultCount())
}

func TestStrikesCollapseIntoOneVerification(t *testing.T) {
	rec := &recorder{}
	chords := []model.TargetChord{library.NewTarget("Em", []int{0, 2, 2, 0, 0, 0})}
	s := New(chords, WithWindow(testWindow), WithCallbacks(rec.callbacks()))

	// Six strikes inside one window must produce exactly one pass: each
	// strike cancels and restarts the timer rather than stacking timers.
	for str := 0; str < 6; str++ {
		s.Apply(blemidi.Event{Kind: blemidi.Strike, String: str, Fret: 0})
		time.Sleep(testWindow / 4)
	}

	require.Eventually(t, func() bool { return rec.resultCount() >= 1 },
		time.Second, 5*time.Millisecond)
	time.Sleep(2 * testWindow)
	assert.Equal(t, 1, rec.resultCount())
}

func TestSkipInvalidatesPendingTimer(t *testing.T) {
	rec := &recorder{}
	chords := []model.TargetChord{
		library.NewTarget("E", []int{0, 2, 2, 1, 0, 0}),
		library.NewTarget("A", []int{0, 0, 2, 2, 2, 0}),
	}
	s := New(chords, WithWindow(testWindow), WithCallbacks(rec.callbacks()))

	// Arm the timer against E, then switch targets before it fires. The
	// stale timer must not verify against the new target.
	s.Apply(blemidi.Event{Kind: blemidi.Strike, String: 0, Fret: 0})
	s.Skip()

	time.Sleep(3 * testWindow)
	assert := assert.New(t)
	assert.Equal(0, rec.resultCount())

	current, ok := s.Current()
	assert.True(ok)
	assert.Equal("A", current.Name)
}

func TestResetInvalidatesPendingTimer(t *testing.T) {
	rec := &recorder{}
	chords := []model.TargetChord{library.NewTarget("E", []int{0, 2, 2, 1, 0, 0})}
	s := New(chords, WithWindow(testWindow), WithCallbacks(rec.callbacks()))

	s.Apply(blemidi.Event{Kind: blemidi.Strike, String: 0, Fret: 0})
	s.Reset()

	time.Sleep(3 * testWindow)
	assert.Equal(t, 0, rec.resultCount())
	assert.False(t, s.Done())
}

func TestHandlePayloadAppliesEventsInOrder(t *testing.T) {
	rec := &recorder{}
	chords := []model.TargetChord{library.NewTarget("one-string", []int{-1, -1, -1, -1, -1, 2})}
	s := New(chords, WithWindow(testWindow), WithCallbacks(rec.callbacks()))

	// Fret press on string 5 (CC channel 5), then a strike on the same
	// string (note channel 0 inverts to 5), in one notification.
	s.HandlePayload([]byte{
		0x00, 0x00,
		0xB5, 0x01, 2,
		0x90, 66, 100,
	})

	require.Eventually(t, func() bool { return s.Done() },
		time.Second, 5*time.Millisecond)
	res, ok := rec.lastResult()
	require.True(t, ok)
	assert.True(t, res.OK())
}

func TestEmptyQueueStartsDone(t *testing.T) {
	s := New(nil)
	assert := assert.New(t)
	assert.True(s.Done())
	_, ok := s.Current()
	assert.False(ok)

	// Events on a finished session are ignored.
	s.Apply(blemidi.Event{Kind: blemidi.Strike, String: 0, Fret: 0})
}
