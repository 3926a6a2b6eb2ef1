package theory

import (
	"fmt"
	"strings"
)

// SpellingPolicy selects how black keys are spelled when a pitch is created
// from a MIDI number without a letter in mind.
type SpellingPolicy int

const (
	PreferSharps SpellingPolicy = iota
	PreferFlats
)

func (p SpellingPolicy) String() string {
	if p == PreferFlats {
		return "flats"
	}
	return "sharps"
}

// ParseSpellingPolicy accepts "sharps"/"sharp"/"#" and "flats"/"flat"/"b".
// An empty string selects PreferSharps.
func ParseSpellingPolicy(s string) (SpellingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sharps", "sharp", "#":
		return PreferSharps, nil
	case "flats", "flat", "b":
		return PreferFlats, nil
	default:
		return PreferSharps, fmt.Errorf("%w: unknown spelling preference %q", ErrInvalidNote, s)
	}
}

// PolicyForAccidental returns the policy implied by a preceding accidental.
func PolicyForAccidental(a Accidental) SpellingPolicy {
	if a.Offset() < 0 {
		return PreferFlats
	}
	return PreferSharps
}

// spellWithLetter spells midi using the given natural letter, returning false
// when that would need more than two accidentals.
func spellWithLetter(letter string, midi int) (Note, bool) {
	natural := letterSemitones[letter]
	offset := mod(midi-natural, semitonesPerOctave)
	if offset >= semitonesPerOctave/2 {
		offset -= semitonesPerOctave
	}

	acc, ok := accidentalForOffset(offset)
	if !ok {
		return Note{}, false
	}

	octave := (midi-natural-offset)/semitonesPerOctave - 1
	if octave < MinOctave || octave > MaxOctave {
		return Note{}, false
	}
	return newNote(letter, acc, octave), true
}

// lowered returns n one semitone down, keeping the letter when possible so a
// flattened degree reads as a flat (E -> Eb, F# -> F, Bb -> Bbb).
func lowered(n Note) (Note, error) {
	target := n.MIDI() - 1
	if target < MinMIDI {
		return Note{}, fmt.Errorf("%w: cannot lower %s below MIDI %d", ErrInvalidMIDINumber, n, MinMIDI)
	}
	if out, ok := spellWithLetter(n.letter, target); ok {
		return n.carry(out), nil
	}
	return n.TransposeWithPolicy(-1, PreferFlats)
}
