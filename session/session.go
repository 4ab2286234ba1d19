// Package session sequences target chords and decides when a strum is
// finished. Decoded events mutate the guitar state; each strike restarts a
// quiescence timer, and only when the strings have been quiet for the full
// window does verification run against the current target.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"

	"github.com/sprenkle/WinGuitar/blemidi"
	"github.com/sprenkle/WinGuitar/constants"
	"github.com/sprenkle/WinGuitar/guitar"
	"github.com/sprenkle/WinGuitar/model"
	"github.com/sprenkle/WinGuitar/verify"
)

// Callbacks are invoked with the session lock held, so they must not call
// back into the session. All fields are optional.
type Callbacks struct {
	// OnResult fires after every verification pass.
	OnResult func(target model.TargetChord, res verify.Result)
	// OnAdvance fires when a chord was fully matched and the next target
	// became active.
	OnAdvance func(next model.TargetChord)
	// OnComplete fires once when the last chord in the queue is matched.
	OnComplete func()
}

type Option func(*Session)

// WithWindow overrides the default 250 ms quiescence window.
func WithWindow(d time.Duration) Option {
	return func(s *Session) { s.window = d }
}

func WithTuning(t guitar.Tuning) Option {
	return func(s *Session) { s.decoder = blemidi.NewDecoder(t) }
}

func WithCallbacks(cb Callbacks) Option {
	return func(s *Session) { s.callbacks = cb }
}

// Session owns the guitar state for one practice run. All event application
// and verification is serialized by one mutex, so payloads may arrive from
// any goroutine (BLE notification thread, MIDI listener, tests).
type Session struct {
	ID uuid.UUID

	mu        sync.Mutex
	state     *guitar.State
	decoder   *blemidi.Decoder
	queue     []model.TargetChord
	current   int
	done      bool
	callbacks Callbacks

	window    time.Duration
	debounced func(func())

	// gen invalidates in-flight quiescence timers: it bumps every time the
	// active target changes, and a fired timer that captured a stale gen
	// is ignored.
	gen int
}

func New(chords []model.TargetChord, opts ...Option) *Session {
	s := &Session{
		ID:      uuid.New(),
		state:   guitar.NewState(),
		decoder: blemidi.NewDecoder(guitar.StandardTuning()),
		queue:   chords,
		window:  constants.DebounceWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.debounced = debounce.New(s.window)
	s.done = len(chords) == 0
	return s
}

// Current returns the active target chord, if the session is not finished.
func (s *Session) Current() (model.TargetChord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return model.TargetChord{}, false
	}
	return s.queue[s.current], true
}

// Done reports whether every chord in the queue has been matched.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// HandlePayload decodes one BLE notification and applies its events in
// payload order. Safe to call from the notification goroutine.
func (s *Session) HandlePayload(payload []byte) {
	events, reason := s.decoder.Decode(payload)
	if reason == blemidi.Truncated {
		slog.Debug("payload truncated mid-message", "decoded", len(events), "len", len(payload))
	}
	for _, ev := range events {
		s.Apply(ev)
	}
}

// Apply feeds one decoded event into the guitar state. A strike restarts
// the quiescence timer; any other event leaves it alone.
func (s *Session) Apply(ev blemidi.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}

	switch ev.Kind {
	case blemidi.FretPress:
		s.state.PressFret(ev.String, ev.Fret)
	case blemidi.FretRelease:
		s.state.ReleaseFret(ev.String, ev.Fret)
	case blemidi.Strike:
		s.state.StrikeString(ev.String, ev.Fret)
		gen := s.gen
		s.debounced(func() { s.strumFinished(gen) })
	case blemidi.Release:
		s.state.ReleaseString(ev.String)
	}
}

// strumFinished runs when the strings have been quiet for the full window.
// A stale gen means the target changed after this timer was armed, so the
// pass is abandoned.
func (s *Session) strumFinished(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done || gen != s.gen {
		return
	}

	target := s.queue[s.current]
	res := verify.Verify(target, s.state)
	slog.Debug("strum verified",
		"session", s.ID,
		"chord", target.Name,
		"frets_matched", res.FretsMatched,
		"strings_matched", res.StringsMatched,
	)
	if s.callbacks.OnResult != nil {
		s.callbacks.OnResult(target, res)
	}

	if !res.OK() {
		// Keep the held frets; only the strum window resets.
		s.state.ClearStrings()
		return
	}

	s.advanceLocked()
}

// Skip abandons the current target and moves to the next chord.
func (s *Session) Skip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.advanceLocked()
}

// Reset clears all guitar state and invalidates any pending quiescence
// timer without advancing the queue.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.state.ClearAll()
}

func (s *Session) advanceLocked() {
	s.gen++
	s.state.ClearAll()
	s.current++
	if s.current >= len(s.queue) {
		s.done = true
		slog.Info("practice session complete", "session", s.ID, "chords", len(s.queue))
		if s.callbacks.OnComplete != nil {
			s.callbacks.OnComplete()
		}
		return
	}
	next := s.queue[s.current]
	slog.Info("next chord", "session", s.ID, "chord", next.Name)
	if s.callbacks.OnAdvance != nil {
		s.callbacks.OnAdvance(next)
	}
}
