// Package progression builds ordered chord sequences in a key, either from
// Roman-numeral patterns, explicit degree lists or a seeded random walk.
package progression

import (
	"errors"
	"fmt"

	"github.com/Conceptual-Machines/note-gen/internal/theory"
)

var (
	ErrInvalidIndex   = errors.New("progression index out of range")
	ErrInvalidPattern = errors.New("invalid progression pattern")
)

// ChordProgression is an ordered list of chords in a key. Numerals holds the
// Roman numeral each chord came from, or "" when it was added directly.
type ChordProgression struct {
	Name     string
	Scale    theory.Scale
	Chords   []theory.Chord
	Numerals []string
}

func New(name string, scale theory.Scale) *ChordProgression {
	return &ChordProgression{Name: name, Scale: scale}
}

// Add appends chord with the numeral it was derived from.
func (p *ChordProgression) Add(chord theory.Chord, numeral string) {
	p.Chords = append(p.Chords, chord)
	p.Numerals = append(p.Numerals, numeral)
}

func (p *ChordProgression) Len() int {
	return len(p.Chords)
}

// At returns the chord at 0-based position i.
func (p *ChordProgression) At(i int) (theory.Chord, error) {
	if i < 0 || i >= len(p.Chords) {
		return theory.Chord{}, fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidIndex, i, len(p.Chords))
	}
	return p.Chords[i], nil
}

// Transpose moves the key and every chord by semitones. Numerals are
// relative to the key and carry over unchanged.
func (p *ChordProgression) Transpose(semitones int) (*ChordProgression, error) {
	scale, err := p.Scale.Transpose(semitones)
	if err != nil {
		return nil, fmt.Errorf("transpose key: %w", err)
	}

	out := &ChordProgression{
		Name:     p.Name,
		Scale:    scale,
		Chords:   make([]theory.Chord, len(p.Chords)),
		Numerals: append([]string(nil), p.Numerals...),
	}
	for i, c := range p.Chords {
		moved, err := c.Transpose(semitones)
		if err != nil {
			return nil, fmt.Errorf("transpose chord %d (%s): %w", i, c, err)
		}
		out.Chords[i] = moved
	}
	return out, nil
}

// Notes returns the voiced notes of each chord in order.
func (p *ChordProgression) Notes() [][]theory.Note {
	out := make([][]theory.Note, len(p.Chords))
	for i, c := range p.Chords {
		out[i] = c.Voicing()
	}
	return out
}

// Symbols returns chord symbols such as "G7" or "Am/C".
func (p *ChordProgression) Symbols() []string {
	out := make([]string, len(p.Chords))
	for i, c := range p.Chords {
		out[i] = c.Symbol()
	}
	return out
}

func (p *ChordProgression) Records() []theory.ChordRecord {
	out := make([]theory.ChordRecord, len(p.Chords))
	for i, c := range p.Chords {
		out[i] = c.ToRecord()
	}
	return out
}

func (p *ChordProgression) String() string {
	return fmt.Sprintf("%s in %s: %v", p.Name, p.Scale, p.Symbols())
}
