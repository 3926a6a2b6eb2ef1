package theory

import (
	"fmt"
	"slices"
)

// Chord is a root, a quality and an inversion. Notes holds the close voicing
// with the root first; Voicing applies the inversion.
type Chord struct {
	root      Note
	quality   ChordQuality
	inversion int
	notes     []Note
	voiced    []Note
	policy    SpellingPolicy
}

// ChordOption configures chord construction.
type ChordOption func(*chordOptions)

type chordOptions struct {
	policy SpellingPolicy
}

// WithSpelling sets how generated chord tones spell black keys. The root
// always keeps its own spelling.
func WithSpelling(policy SpellingPolicy) ChordOption {
	return func(o *chordOptions) {
		o.policy = policy
	}
}

// BuildChord generates the chord tones of quality above root.
func BuildChord(root Note, quality ChordQuality, inversion int, opts ...ChordOption) (Chord, error) {
	var o chordOptions
	for _, opt := range opts {
		opt(&o)
	}

	intervals, ok := chordIntervals[quality]
	if !ok {
		return Chord{}, fmt.Errorf("%w: %q", ErrUnknownChordQuality, string(quality))
	}
	if inversion < 0 {
		return Chord{}, fmt.Errorf("%w: %d is negative", ErrInvalidInversion, inversion)
	}

	notes := make([]Note, len(intervals))
	for i, iv := range intervals {
		if iv == 0 {
			notes[i] = root
			continue
		}
		n, err := FromMIDIWithPolicy(root.MIDI()+iv, o.policy)
		if err != nil {
			return Chord{}, fmt.Errorf("build %s%s: %w", root, quality.Symbol(), err)
		}
		notes[i] = n
	}

	return assembleChord(root, quality, inversion, notes, o.policy)
}

// stackedChordTones spells each tone of quality on the letter its chord
// degree sits on above root, so a diminished seventh on B ends in Ab and a
// minor ninth on G carries Bb. Tones needing more than two accidentals go to
// fallback.
func stackedChordTones(root Note, quality ChordQuality, fallback func(midi int) (Note, error)) ([]Note, error) {
	intervals, ok := chordIntervals[quality]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChordQuality, string(quality))
	}

	notes := make([]Note, len(intervals))
	for i, iv := range intervals {
		if iv == 0 {
			notes[i] = root
			continue
		}
		midi := root.MIDI() + iv
		letter := letterCycle[(letterIndex(root.letter)+chordToneStep(quality, iv))%len(letterCycle)]
		if n, ok := spellWithLetter(letter, midi); ok {
			notes[i] = n
			continue
		}
		n, err := fallback(midi)
		if err != nil {
			return nil, fmt.Errorf("build %s%s: %w", root, quality.Symbol(), err)
		}
		notes[i] = n
	}
	return notes, nil
}

// chordToneStep is the number of letters between the root and a chord tone
// interval semitones above it.
func chordToneStep(quality ChordQuality, interval int) int {
	switch mod(interval, semitonesPerOctave) {
	case 0:
		return 0
	case 1, 2:
		return 1
	case 3, 4:
		return 2
	case 5:
		return 3
	case 6, 7, 8:
		return 4
	case 9:
		if quality == ChordDiminished7 {
			return 6
		}
		return 5
	default:
		return 6
	}
}

// NewChordFromNotes builds a chord from an explicit close voicing instead of
// generating it. The note count must match the quality.
func NewChordFromNotes(root Note, quality ChordQuality, inversion int, notes []Note) (Chord, error) {
	if !quality.Valid() {
		return Chord{}, fmt.Errorf("%w: %q", ErrUnknownChordQuality, string(quality))
	}
	if inversion < 0 {
		return Chord{}, fmt.Errorf("%w: %d is negative", ErrInvalidInversion, inversion)
	}
	if len(notes) != quality.NoteCount() {
		return Chord{}, fmt.Errorf("%w: %s needs %d notes, got %d", ErrInvalidChord, quality, quality.NoteCount(), len(notes))
	}
	return assembleChord(root, quality, inversion, slices.Clone(notes), PolicyForAccidental(root.accidental))
}

// ChordBase is a bare root with optional intervals and quality.
type ChordBase struct {
	Root      Note
	Intervals []int
	Quality   ChordQuality
}

// FromBase turns a ChordBase into a Chord. A missing quality is inferred from
// the intervals when they match a known pattern and is major otherwise.
func FromBase(base ChordBase, opts ...ChordOption) (Chord, error) {
	quality := base.Quality
	if quality == "" {
		quality = ChordMajor
		if q, ok := QualityForIntervals(base.Intervals); ok {
			quality = q
		}
	}
	if len(base.Intervals) > 0 && quality.Valid() && !slices.Equal(base.Intervals, chordIntervals[quality]) {
		return Chord{}, fmt.Errorf("%w: intervals %v do not form a %s chord", ErrInvalidChord, base.Intervals, quality)
	}
	return BuildChord(base.Root, quality, 0, opts...)
}

func assembleChord(root Note, quality ChordQuality, inversion int, notes []Note, policy SpellingPolicy) (Chord, error) {
	k := inversion % len(notes)
	voiced := make([]Note, 0, len(notes))
	voiced = append(voiced, notes[k:]...)
	for _, n := range notes[:k] {
		up, err := NewNote(n.letter, n.accidental, n.octave+1)
		if err != nil {
			return Chord{}, fmt.Errorf("%w: inversion %d lifts %s out of range", ErrInvalidMIDINumber, inversion, n)
		}
		voiced = append(voiced, n.carry(up))
	}

	return Chord{
		root:      root,
		quality:   quality,
		inversion: inversion,
		notes:     notes,
		voiced:    voiced,
		policy:    policy,
	}, nil
}

func (c Chord) Root() Note            { return c.root }
func (c Chord) Quality() ChordQuality { return c.quality }
func (c Chord) Inversion() int        { return c.inversion }

// Notes returns the close voicing before inversion.
func (c Chord) Notes() []Note {
	return slices.Clone(c.notes)
}

// Voicing returns the notes after inversion, lowest first.
func (c Chord) Voicing() []Note {
	return slices.Clone(c.voiced)
}

// Bass is the lowest note after inversion.
func (c Chord) Bass() Note {
	if len(c.voiced) == 0 {
		return Note{}
	}
	return c.voiced[0]
}

// IsInversion reports whether the bass differs from the root.
func (c Chord) IsInversion() bool {
	return c.root.MIDI() != c.Bass().MIDI()
}

// Intervals returns the quality's semitone offsets.
func (c Chord) Intervals() []int {
	return slices.Clone(chordIntervals[c.quality])
}

// MIDINumbers returns the voiced notes as MIDI numbers.
func (c Chord) MIDINumbers() []int {
	out := make([]int, len(c.voiced))
	for i, n := range c.voiced {
		out[i] = n.MIDI()
	}
	return out
}

// Transpose shifts the root and every note, keeping quality and inversion.
func (c Chord) Transpose(semitones int) (Chord, error) {
	root, err := c.root.TransposeWithPolicy(semitones, c.policy)
	if err != nil {
		return Chord{}, err
	}
	notes := make([]Note, len(c.notes))
	for i, n := range c.notes {
		if i == 0 && n.SameSpelling(c.root) {
			notes[i] = root
			continue
		}
		shifted, err := n.TransposeWithPolicy(semitones, c.policy)
		if err != nil {
			return Chord{}, err
		}
		notes[i] = shifted
	}
	return assembleChord(root, c.quality, c.inversion, notes, c.policy)
}

// Equal compares root pitch and quality; voicing and inversion are ignored.
func (c Chord) Equal(other Chord) bool {
	return c.quality == other.quality && c.root.MIDI() == other.root.MIDI()
}

// Symbol renders the chord as e.g. "Cmaj7" or "Am/C".
func (c Chord) Symbol() string {
	s := c.root.Name() + c.quality.Symbol()
	if c.IsInversion() {
		s += "/" + c.Bass().Name()
	}
	return s
}

func (c Chord) String() string {
	return c.Symbol()
}

// ToNote resolves the chord to its root.
func (c Chord) ToNote() (Note, error) {
	return c.root, nil
}

func (Chord) isPitch() {}
