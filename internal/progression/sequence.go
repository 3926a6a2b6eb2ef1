package progression

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Conceptual-Machines/note-gen/internal/theory"
)

// MaxPatternLength caps the offsets in one note pattern.
const MaxPatternLength = 64

var ErrInvalidNotePattern = errors.New("invalid note pattern")

// PatternMode says what a NotePattern's offsets count.
type PatternMode string

const (
	// ModeScale offsets walk the key's scale from the chord root's degree.
	ModeScale PatternMode = "scale"
	// ModeInterval offsets are semitones above the chord root.
	ModeInterval PatternMode = "interval"
	// ModeChordTone offsets index the chord's tones, wrapping up an octave
	// past the last one.
	ModeChordTone PatternMode = "chord_tone"
)

// Direction orders a pattern's offsets over each chord.
type Direction string

const (
	DirectionUp          Direction = "up"
	DirectionDown        Direction = "down"
	DirectionAlternating Direction = "alternating"
)

// NotePattern is a short figure played over every chord of a progression.
// Zero Duration and Velocity mean the note defaults.
type NotePattern struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Offsets     []int       `json:"offsets"`
	Mode        PatternMode `json:"mode"`
	Direction   Direction   `json:"direction"`
	Duration    float64     `json:"duration,omitempty"`
	Velocity    int         `json:"velocity,omitempty"`
}

var notePatterns = []NotePattern{
	{Name: "arpeggio", Description: "Chord tones up to the octave", Offsets: []int{0, 1, 2, 3}, Mode: ModeChordTone, Direction: DirectionUp},
	{Name: "broken_chord", Description: "Chord tones rising then falling", Offsets: []int{0, 1, 2, 3}, Mode: ModeChordTone, Direction: DirectionAlternating},
	{Name: "ascending_scale", Description: "Scale run up an octave from the chord root", Offsets: []int{0, 1, 2, 3, 4, 5, 6, 7}, Mode: ModeScale, Direction: DirectionUp},
	{Name: "descending_scale", Description: "Scale run down from the octave above the chord root", Offsets: []int{0, 1, 2, 3, 4, 5, 6, 7}, Mode: ModeScale, Direction: DirectionDown},
	{Name: "triad_arpeggio", Description: "Major triad arpeggio", Offsets: []int{0, 4, 7, 12}, Mode: ModeInterval, Direction: DirectionUp},
	{Name: "minor_triad", Description: "Minor triad", Offsets: []int{0, 3, 7}, Mode: ModeInterval, Direction: DirectionUp},
	{Name: "pentatonic", Description: "Major pentatonic figure", Offsets: []int{0, 2, 4, 7, 9}, Mode: ModeInterval, Direction: DirectionUp},
}

// NotePatterns lists the named note patterns in a stable order.
func NotePatterns() []NotePattern {
	out := make([]NotePattern, len(notePatterns))
	for i, p := range notePatterns {
		p.Offsets = slices.Clone(p.Offsets)
		out[i] = p
	}
	return out
}

// LookupNotePattern finds a named note pattern, ignoring case.
func LookupNotePattern(name string) (NotePattern, error) {
	for _, p := range notePatterns {
		if strings.EqualFold(p.Name, name) {
			p.Offsets = slices.Clone(p.Offsets)
			return p, nil
		}
	}
	return NotePattern{}, fmt.Errorf("%w: unknown pattern %q", ErrInvalidNotePattern, name)
}

// Validate fills in the default direction and checks the rest.
func (p *NotePattern) Validate() error {
	if p.Direction == "" {
		p.Direction = DirectionUp
	}
	switch {
	case len(p.Offsets) == 0:
		return fmt.Errorf("%w: %q has no offsets", ErrInvalidNotePattern, p.Name)
	case len(p.Offsets) > MaxPatternLength:
		return fmt.Errorf("%w: %d offsets exceeds the limit of %d", ErrInvalidNotePattern, len(p.Offsets), MaxPatternLength)
	case p.Duration < 0:
		return fmt.Errorf("%w: duration %v is negative", ErrInvalidNotePattern, p.Duration)
	case p.Velocity < 0 || p.Velocity > theory.MaxVelocity:
		return fmt.Errorf("%w: velocity %d outside [0,%d]", ErrInvalidNotePattern, p.Velocity, theory.MaxVelocity)
	}
	switch p.Mode {
	case ModeScale, ModeInterval, ModeChordTone:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidNotePattern, p.Mode)
	}
	switch p.Direction {
	case DirectionUp, DirectionDown, DirectionAlternating:
	default:
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidNotePattern, p.Direction)
	}
	return nil
}

// offsetsFor returns the offsets in the order they are played over chord i.
func (p NotePattern) offsetsFor(i int) []int {
	offsets := slices.Clone(p.Offsets)
	if p.Direction == DirectionDown || (p.Direction == DirectionAlternating && i%2 == 1) {
		slices.Reverse(offsets)
	}
	return offsets
}

// NoteSequence is a note pattern played over a progression. Chords holds the
// progression index each note was drawn from.
type NoteSequence struct {
	Pattern NotePattern
	Scale   theory.Scale
	Notes   []theory.Note
	Chords  []int
}

// GenerateSequence plays pattern over every chord of prog in order. Notes
// that belong to the current chord keep the chord's spelling; the rest are
// spelled by the progression's key.
func GenerateSequence(prog *ChordProgression, pattern NotePattern) (*NoteSequence, error) {
	if err := pattern.Validate(); err != nil {
		return nil, err
	}
	if prog.Len() == 0 {
		return nil, fmt.Errorf("%w: progression has no chords", ErrInvalidPattern)
	}

	seq := &NoteSequence{
		Pattern: pattern,
		Scale:   prog.Scale,
		Notes:   make([]theory.Note, 0, prog.Len()*len(pattern.Offsets)),
		Chords:  make([]int, 0, prog.Len()*len(pattern.Offsets)),
	}
	for i, chord := range prog.Chords {
		for _, offset := range pattern.offsetsFor(i) {
			n, err := resolveStep(prog.Scale, chord, pattern.Mode, offset)
			if err != nil {
				return nil, fmt.Errorf("chord %d (%s) offset %d: %w", i, chord.Symbol(), offset, err)
			}
			if n, err = pattern.apply(n); err != nil {
				return nil, err
			}
			seq.Notes = append(seq.Notes, n)
			seq.Chords = append(seq.Chords, i)
		}
	}
	return seq, nil
}

func resolveStep(scale theory.Scale, chord theory.Chord, mode PatternMode, offset int) (theory.Note, error) {
	root := chord.Root()
	switch mode {
	case ModeInterval:
		return spellStep(scale, chord, root.MIDI()+offset)
	case ModeChordTone:
		tones := chord.Notes()
		idx, octaves := wrap(offset, len(tones))
		tone := tones[idx]
		return theory.NewNote(tone.Letter(), tone.Accidental(), tone.Octave()+octaves)
	default:
		return spellStep(scale, chord, root.MIDI()+scaleDistance(scale, root, offset))
	}
}

// spellStep spells a chord tone the way the chord does and anything else
// the way the key does.
func spellStep(scale theory.Scale, chord theory.Chord, midi int) (theory.Note, error) {
	for _, tone := range chord.Notes() {
		if diff := midi - tone.MIDI(); diff%12 == 0 {
			return theory.NewNote(tone.Letter(), tone.Accidental(), tone.Octave()+diff/12)
		}
	}
	return scale.Spell(midi)
}

// scaleDistance is the number of semitones covered by walking offset scale
// steps up from root. A root outside the key walks the key's step pattern as
// if the scale started on it.
func scaleDistance(scale theory.Scale, root theory.Note, offset int) int {
	count := scale.DegreeCount()
	notes := scale.Notes()[:count]

	start := 0
	if degree, ok := scale.DegreeOf(root); ok {
		start = degree - 1
	}
	idx, octaves := wrap(start+offset, count)
	return notes[idx].MIDI() + 12*octaves - notes[start].MIDI()
}

func (p NotePattern) apply(n theory.Note) (theory.Note, error) {
	var err error
	if p.Duration > 0 {
		if n, err = n.WithDuration(p.Duration); err != nil {
			return theory.Note{}, err
		}
	}
	if p.Velocity > 0 {
		if n, err = n.WithVelocity(p.Velocity); err != nil {
			return theory.Note{}, err
		}
	}
	return n, nil
}

// wrap splits i into an index in [0,n) and the whole turns taken, rounding
// toward negative infinity.
func wrap(i, n int) (int, int) {
	turns := i / n
	idx := i % n
	if idx < 0 {
		idx += n
		turns--
	}
	return idx, turns
}

func (s *NoteSequence) Len() int {
	return len(s.Notes)
}

// ForChord returns the notes played over chord i.
func (s *NoteSequence) ForChord(i int) []theory.Note {
	var out []theory.Note
	for j, c := range s.Chords {
		if c == i {
			out = append(out, s.Notes[j])
		}
	}
	return out
}

func (s *NoteSequence) MIDINumbers() []int {
	out := make([]int, len(s.Notes))
	for i, n := range s.Notes {
		out[i] = n.MIDI()
	}
	return out
}

func (s *NoteSequence) Records() []theory.NoteRecord {
	out := make([]theory.NoteRecord, len(s.Notes))
	for i, n := range s.Notes {
		out[i] = n.ToRecord()
	}
	return out
}
