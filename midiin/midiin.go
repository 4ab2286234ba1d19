// Package midiin feeds the practice session from a standard MIDI input
// port instead of the BLE path. Plain MIDI carries no string identity, so
// each pitch is assigned to the first string that can play it within the
// fret range, and note-off releases whatever position the note-on claimed.
package midiin

import (
	"fmt"
	"log/slog"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver

	"github.com/sprenkle/WinGuitar/blemidi"
	"github.com/sprenkle/WinGuitar/constants"
	"github.com/sprenkle/WinGuitar/guitar"
)

type position struct{ str, fret int }

// Listener translates live MIDI messages into guitar events.
type Listener struct {
	tuning guitar.Tuning
	apply  func(blemidi.Event)

	mu        sync.Mutex
	positions map[uint8]position // pitch -> claimed position
	stop      func()
}

func NewListener(tuning guitar.Tuning, apply func(blemidi.Event)) *Listener {
	return &Listener{
		tuning:    tuning,
		apply:     apply,
		positions: make(map[uint8]position),
	}
}

// positionFor picks the first string that can play pitch within the fret
// range, lowest string first.
func (l *Listener) positionFor(pitch int) (position, bool) {
	for s := 0; s < constants.NumStrings; s++ {
		fret := l.tuning.FretFor(s, pitch)
		if fret >= 0 && fret <= constants.MaxFret {
			return position{str: s, fret: fret}, true
		}
	}
	return position{}, false
}

// Start opens the named input port (or the first available port when name
// is empty) and listens until Stop is called.
func (l *Listener) Start(portName string) error {
	in, err := findPort(portName)
	if err != nil {
		return err
	}

	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			l.noteOn(key)
		case msg.GetNoteEnd(&ch, &key):
			l.noteOff(key)
		default:
			// ignore
		}
	})
	if err != nil {
		return fmt.Errorf("listen to %q: %w", in.String(), err)
	}
	l.stop = stop
	slog.Info("listening on MIDI port", "port", in.String())
	return nil
}

func (l *Listener) Stop() {
	if l.stop != nil {
		l.stop()
	}
}

func (l *Listener) noteOn(key uint8) {
	pos, ok := l.positionFor(int(key))
	if !ok {
		slog.Warn("pitch has no playable position", "pitch", guitar.PitchName(int(key)))
		return
	}
	l.mu.Lock()
	l.positions[key] = pos
	l.mu.Unlock()

	if pos.fret > 0 {
		l.apply(blemidi.Event{Kind: blemidi.FretPress, String: pos.str, Fret: pos.fret})
	}
	l.apply(blemidi.Event{Kind: blemidi.Strike, String: pos.str, Fret: pos.fret})
}

func (l *Listener) noteOff(key uint8) {
	l.mu.Lock()
	pos, ok := l.positions[key]
	delete(l.positions, key)
	l.mu.Unlock()
	if !ok {
		return
	}

	if pos.fret > 0 {
		l.apply(blemidi.Event{Kind: blemidi.FretRelease, String: pos.str, Fret: pos.fret})
	}
	l.apply(blemidi.Event{Kind: blemidi.Release, String: pos.str})
}

func findPort(name string) (drivers.In, error) {
	if name == "" {
		in, err := midi.InPort(0)
		if err != nil {
			return nil, fmt.Errorf("no MIDI inputs available: %w", err)
		}
		return in, nil
	}
	in, err := midi.FindInPort(name)
	if err != nil {
		return nil, fmt.Errorf("MIDI port %q not found: %w", name, err)
	}
	return in, nil
}
