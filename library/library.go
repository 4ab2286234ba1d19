// Package library loads named practice collections of chords from a JSON
// file and resolves each chord name against the shape table.
package library

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/sprenkle/WinGuitar/constants"
	"github.com/sprenkle/WinGuitar/model"
	"github.com/sprenkle/WinGuitar/util"
)

// collectionEntry is one element of the collections file, which encodes
// each collection as a two-element array: ["name", ["E", "A", ...]].
type collectionEntry struct {
	Name   string
	Chords []string
}

func (c *collectionEntry) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("collection entry must be a [name, chords] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &c.Name); err != nil {
		return fmt.Errorf("collection name: %w", err)
	}
	if err := json.Unmarshal(pair[1], &c.Chords); err != nil {
		return fmt.Errorf("collection %q chords: %w", c.Name, err)
	}
	return nil
}

// NewTarget builds a TargetChord from a shape, deriving strings_to_strike
// as every string the shape does not mute.
func NewTarget(name string, frets []int) model.TargetChord {
	var strike []int
	for i, fret := range frets {
		if fret != constants.MutedFret {
			strike = append(strike, i)
		}
	}
	return model.TargetChord{Name: name, Frets: frets, StringsToStrike: strike}
}

// Library holds the chord shape table and the named collections built
// against it.
type Library struct {
	Shapes      map[string][]int
	Collections map[string][]model.TargetChord
}

// Load reads a collections file and resolves it against the built-in shape
// table. Collections referencing unknown chord names keep their known
// chords; a collection with no known chords at all is dropped.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read collections file: %w", err)
	}

	var entries []collectionEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse collections file: %w", err)
	}

	lib := &Library{
		Shapes:      DefaultShapes(),
		Collections: make(map[string][]model.TargetChord),
	}

	for _, entry := range entries {
		var chords []model.TargetChord
		var missing []string
		for _, name := range entry.Chords {
			frets, ok := lib.Shapes[name]
			if !ok {
				missing = append(missing, name)
				continue
			}
			chords = append(chords, NewTarget(name, frets))
		}
		if len(chords) == 0 {
			slog.Warn("collection has no known chords, dropping", "collection", entry.Name, "requested", entry.Chords)
			continue
		}
		if len(missing) > 0 {
			slog.Warn("collection missing chord shapes", "collection", entry.Name, "missing", missing)
		}
		lib.Collections[entry.Name] = chords
	}

	slog.Info("loaded practice library",
		"collections", len(lib.Collections),
		"shapes", len(lib.Shapes),
	)
	return lib, nil
}

func (l *Library) Collection(name string) ([]model.TargetChord, bool) {
	chords, ok := l.Collections[name]
	return chords, ok
}

// CollectionNames returns the collection names in sorted order.
func (l *Library) CollectionNames() []string {
	return util.SortedKeys(l.Collections)
}

// Chord looks a single chord up by name across the shape table.
func (l *Library) Chord(name string) (model.TargetChord, bool) {
	frets, ok := l.Shapes[name]
	if !ok {
		return model.TargetChord{}, false
	}
	return NewTarget(name, frets), true
}

// TotalChords counts distinct chord names across all collections.
func (l *Library) TotalChords() int {
	seen := make(map[string]bool)
	for _, chords := range l.Collections {
		for _, c := range chords {
			seen[c.Name] = true
		}
	}
	return len(seen)
}
