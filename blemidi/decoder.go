// Package blemidi decodes the BLE-MIDI notification payloads sent by the
// Aeroband guitar controller into typed guitar events. A payload is a 2-byte
// transport header followed by a run of MIDI-like messages; the channel
// nibble of each status byte carries a string index instead of a channel.
package blemidi

import (
	"fmt"

	"github.com/sprenkle/WinGuitar/guitar"
)

type Kind int

const (
	Strike Kind = iota
	Release
	FretPress
	FretRelease
)

func (k Kind) String() string {
	switch k {
	case Strike:
		return "strike"
	case Release:
		return "release"
	case FretPress:
		return "fret-press"
	case FretRelease:
		return "fret-release"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is one decoded guitar action. String is in canonical order
// (0 = low E). Fret is meaningful for Strike, FretPress and FretRelease.
type Event struct {
	Kind   Kind
	String int
	Fret   int
}

// Format renders an event for logs and the inspect command.
func (e Event) Format() string {
	if e.Kind == Release {
		return fmt.Sprintf("%v string=%d", e.Kind, e.String)
	}
	return fmt.Sprintf("%v string=%d fret=%d", e.Kind, e.String, e.Fret)
}

// StopReason says why a decode pass ended: it either consumed the whole
// buffer or hit a message whose declared length ran past the end. Neither
// is an error; truncation just means the tail was lost in transport.
type StopReason int

const (
	EndOfBuffer StopReason = iota
	Truncated
)

func (r StopReason) String() string {
	if r == Truncated {
		return "truncated"
	}
	return "end-of-buffer"
}

// MIDI status commands (top nibble of the status byte).
const (
	cmdNoteOff         = 0x80
	cmdNoteOn          = 0x90
	cmdAftertouch      = 0xA0
	cmdControlChange   = 0xB0
	cmdProgramChange   = 0xC0
	cmdChannelPressure = 0xD0
	cmdSystem          = 0xF0
)

const headerLen = 2

// Decoder turns one notification payload into events. It is stateless
// across calls apart from the tuning table, so one decoder can serve any
// number of payloads from any goroutine that serializes the calls.
type Decoder struct {
	tuning guitar.Tuning
}

func NewDecoder(tuning guitar.Tuning) *Decoder {
	return &Decoder{tuning: tuning}
}

// Decode scans one payload and returns the events it held, in payload
// order. Malformed input never produces an error: unknown status bytes are
// skipped one at a time and a truncated message ends the scan, returning
// whatever was already decoded.
func (d *Decoder) Decode(payload []byte) ([]Event, StopReason) {
	var events []Event

	if len(payload) < 3 {
		return events, EndOfBuffer
	}

	i := headerLen
	for i < len(payload) {
		status := payload[i]
		command := status & 0xF0
		nibble := int(status & 0x0F)

		switch command {
		case cmdSystem:
			i++

		case cmdNoteOff, cmdNoteOn, cmdAftertouch, cmdControlChange:
			if i+2 >= len(payload) {
				return events, Truncated
			}
			data1 := payload[i+1]
			data2 := payload[i+2]

			// The device numbers strings high-to-low on note commands but
			// low-to-high on control change. This is the one place the
			// inversion happens; everything downstream is low E = 0.
			str := 5 - nibble
			if command == cmdControlChange {
				str = nibble
			}

			switch command {
			case cmdNoteOn:
				if data2 > 0 {
					events = append(events, Event{
						Kind:   Strike,
						String: str,
						Fret:   d.tuning.FretFor(str, int(data1)),
					})
				} else {
					// Note On with velocity 0 is Note Off.
					events = append(events, Event{Kind: Release, String: str})
				}
			case cmdNoteOff:
				events = append(events, Event{Kind: Release, String: str})
			case cmdControlChange:
				kind := FretRelease
				if data1&0x01 == 1 {
					kind = FretPress
				}
				events = append(events, Event{Kind: kind, String: str, Fret: int(data2)})
			case cmdAftertouch:
				// accepted but carries nothing we use
			}
			i += 3

		case cmdProgramChange, cmdChannelPressure:
			if i+1 >= len(payload) {
				return events, Truncated
			}
			i += 2

		default:
			// Unknown status byte; resync one byte at a time.
			i++
		}
	}

	return events, EndOfBuffer
}
