package theory

import (
	"fmt"
	"strings"
)

// ParseChordSymbol parses symbols like "C", "Em", "Bbmaj7", "F#ø7" or "Am/C"
// with the root placed in octave. A slash bass must be a chord tone and
// selects the matching inversion.
func ParseChordSymbol(symbol string, octave int) (Chord, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return Chord{}, fmt.Errorf("%w: empty chord symbol", ErrInvalidChord)
	}

	base, bass, hasBass := strings.Cut(symbol, "/")
	base = strings.TrimSpace(base)
	bass = strings.TrimSpace(bass)

	rootName, suffix := splitRoot(base)
	if rootName == "" {
		return Chord{}, fmt.Errorf("%w: chord symbol %q has no root", ErrInvalidChord, symbol)
	}
	root, err := NewNote(rootName[:1], Accidental(rootName[1:]), octave)
	if err != nil {
		return Chord{}, fmt.Errorf("chord symbol %q: %w", symbol, err)
	}

	quality := ChordMajor
	if suffix != "" {
		quality, err = ParseChordQuality(suffix)
		if err != nil {
			return Chord{}, fmt.Errorf("chord symbol %q: %w", symbol, err)
		}
	}

	spelling := WithSpelling(PolicyForAccidental(root.accidental))
	chord, err := BuildChord(root, quality, 0, spelling)
	if err != nil {
		return Chord{}, err
	}
	if !hasBass {
		return chord, nil
	}

	bassNote, err := ParseNote(bass)
	if err != nil {
		return Chord{}, fmt.Errorf("chord symbol %q bass: %w", symbol, err)
	}
	for i, n := range chord.notes {
		if n.PitchClass() == bassNote.PitchClass() {
			return BuildChord(root, quality, i, spelling)
		}
	}
	return Chord{}, fmt.Errorf("%w: bass %s is not a tone of %s", ErrInvalidChord, bass, base)
}

// splitRoot separates a leading note name (letter plus up to two accidentals)
// from the quality suffix.
func splitRoot(s string) (string, string) {
	if s == "" {
		return "", ""
	}
	if _, ok := letterSemitones[strings.ToUpper(s[:1])]; !ok {
		return "", s
	}
	i := 1
	for i < len(s) && i < 3 && (s[i] == '#' || s[i] == 'b') {
		i++
	}
	return strings.ToUpper(s[:1]) + s[1:i], s[i:]
}
