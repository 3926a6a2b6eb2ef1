package theory

import (
	"fmt"
)

// Scale is an ordered run of spelled notes starting on root. Closed scales end
// with the root one octave up.
type Scale struct {
	root           Note
	quality        ScaleQuality
	notes          []Note
	closed         bool
	closeAugmented bool
}

// ScaleOption configures BuildScale.
type ScaleOption func(*scaleOptions)

type scaleOptions struct {
	closeAugmented bool
}

// CloseAugmented appends the octave root to augmented scales, which are left
// open by default.
func CloseAugmented() ScaleOption {
	return func(o *scaleOptions) {
		o.closeAugmented = true
	}
}

// BuildScale spells every degree of quality starting at root. Known keys use
// their conventional spelling; other heptatonic scales take one letter per
// degree; the rest fall back to MIDI spelling in the root's accidental
// direction.
func BuildScale(root Note, quality ScaleQuality, opts ...ScaleOption) (Scale, error) {
	var o scaleOptions
	for _, opt := range opts {
		opt(&o)
	}

	intervals, ok := scaleIntervals[quality]
	if !ok {
		return Scale{}, fmt.Errorf("%w: %q", ErrUnknownScaleQuality, string(quality))
	}

	pairs, hasTable := lookupSpelling(quality, root.Name())
	policy := PolicyForAccidental(root.accidental)
	rootMIDI := root.MIDI()

	notes := make([]Note, 0, len(intervals)+1)
	notes = append(notes, root)
	for i := 1; i < len(intervals); i++ {
		midi := rootMIDI + intervals[i]
		if midi > MaxMIDI {
			return Scale{}, fmt.Errorf("%w: %s %s degree %d reaches %d", ErrInvalidMIDINumber, root, quality, i+1, midi)
		}

		var (
			n   Note
			err error
		)
		switch {
		case hasTable:
			n, err = spellFromTable(pairs[i], midi)
		case quality.IsHeptatonic():
			n, err = walkSpelling(root, i, midi, policy)
		default:
			n, err = FromMIDIWithPolicy(midi, policy)
		}
		if err != nil {
			return Scale{}, fmt.Errorf("build %s %s: %w", root, quality, err)
		}
		notes = append(notes, n)
	}

	closed := quality != ScaleAugmented || o.closeAugmented
	if closed {
		top, err := NewNote(root.letter, root.accidental, root.octave+1)
		if err != nil {
			return Scale{}, fmt.Errorf("%w: %s %s cannot close at the octave", ErrInvalidMIDINumber, root, quality)
		}
		notes = append(notes, top)
	}

	return Scale{
		root:           root,
		quality:        quality,
		notes:          notes,
		closed:         closed,
		closeAugmented: o.closeAugmented,
	}, nil
}

func spellFromTable(name spelledName, midi int) (Note, error) {
	n, ok := spellWithLetter(name.letter, midi)
	if !ok || n.accidental != name.accidental {
		return Note{}, fmt.Errorf("spelling %s%s does not match MIDI %d", name.letter, name.accidental, midi)
	}
	return n, nil
}

// walkSpelling spells degree step of a heptatonic scale on the letter that
// many steps above the root. When that letter needs more than two
// accidentals the closest neighbouring letter is used, sharps winning ties.
func walkSpelling(root Note, step, midi int, policy SpellingPolicy) (Note, error) {
	letter := letterCycle[(letterIndex(root.letter)+step)%len(letterCycle)]
	if n, ok := spellWithLetter(letter, midi); ok {
		return n, nil
	}

	var (
		best  Note
		found bool
	)
	for _, candidate := range []string{prevLetter(letter), nextLetter(letter)} {
		n, ok := spellWithLetter(candidate, midi)
		if !ok {
			continue
		}
		if !found || betterSpelling(n, best) {
			best, found = n, true
		}
	}
	if found {
		return best, nil
	}
	return FromMIDIWithPolicy(midi, policy)
}

func betterSpelling(a, b Note) bool {
	da, db := abs(a.accidental.Offset()), abs(b.accidental.Offset())
	if da != db {
		return da < db
	}
	return a.accidental.Offset() > b.accidental.Offset()
}

func (s Scale) Root() Note             { return s.root }
func (s Scale) Quality() ScaleQuality { return s.quality }

// IsClosed reports whether the last note is the octave root.
func (s Scale) IsClosed() bool { return s.closed }

// Notes returns a copy of the full note sequence.
func (s Scale) Notes() []Note {
	return append([]Note(nil), s.notes...)
}

// Len is the number of notes including the octave root when closed.
func (s Scale) Len() int { return len(s.notes) }

// DegreeCount is the number of distinct degrees.
func (s Scale) DegreeCount() int {
	if s.closed {
		return len(s.notes) - 1
	}
	return len(s.notes)
}

// Degree returns the note at 1-based degree n. Degrees past the top wrap
// around to the bottom of the scale.
func (s Scale) Degree(n int) (Note, error) {
	if n < 1 {
		return Note{}, fmt.Errorf("%w: degree %d must be at least 1", ErrInvalidDegree, n)
	}
	count := s.DegreeCount()
	if count == 0 {
		return Note{}, fmt.Errorf("%w: empty scale", ErrInvalidDegree)
	}
	return s.notes[(n-1)%count], nil
}

// ScaleDegree pairs Degree(n) with its number.
func (s Scale) ScaleDegree(n int) (ScaleDegree, error) {
	note, err := s.Degree(n)
	if err != nil {
		return ScaleDegree{}, err
	}
	return ScaleDegree{Degree: n, Note: note}, nil
}

// ScaleDegrees lists every distinct degree, 1-based.
func (s Scale) ScaleDegrees() []ScaleDegree {
	count := s.DegreeCount()
	out := make([]ScaleDegree, count)
	for i := 0; i < count; i++ {
		out[i] = ScaleDegree{Degree: i + 1, Note: s.notes[i]}
	}
	return out
}

// DegreeOf returns the 1-based degree whose pitch class matches note.
func (s Scale) DegreeOf(note Note) (int, bool) {
	pc := note.PitchClass()
	for i := 0; i < s.DegreeCount(); i++ {
		if s.notes[i].PitchClass() == pc {
			return i + 1, true
		}
	}
	return 0, false
}

// Contains reports whether note's pitch class belongs to the scale.
func (s Scale) Contains(note Note) bool {
	_, ok := s.DegreeOf(note)
	return ok
}

// SpellingPolicy prefers flats when the key itself is spelled with flats.
func (s Scale) SpellingPolicy() SpellingPolicy {
	for _, n := range s.notes {
		if n.accidental.Offset() < 0 {
			return PreferFlats
		}
	}
	return PreferSharps
}

// Spell returns midi spelled as the scale spells that pitch class, or with
// the key's accidental preference when the pitch is outside the scale.
func (s Scale) Spell(midi int) (Note, error) {
	if midi < MinMIDI || midi > MaxMIDI {
		return Note{}, fmt.Errorf("%w: %d outside [%d,%d]", ErrInvalidMIDINumber, midi, MinMIDI, MaxMIDI)
	}
	pc := mod(midi, semitonesPerOctave)
	for i := 0; i < s.DegreeCount(); i++ {
		if s.notes[i].PitchClass() != pc {
			continue
		}
		if n, ok := spellWithLetter(s.notes[i].letter, midi); ok {
			return n, nil
		}
	}
	return FromMIDIWithPolicy(midi, s.SpellingPolicy())
}

// Transpose rebuilds the scale on a shifted root. A black-key root is spelled
// the way that has a key table, then the way with fewer accidentals, ties
// keeping the current key's accidental direction.
func (s Scale) Transpose(semitones int) (Scale, error) {
	var opts []ScaleOption
	if s.closeAugmented {
		opts = append(opts, CloseAugmented())
	}

	current := s.SpellingPolicy()
	other := PreferFlats
	if current == PreferFlats {
		other = PreferSharps
	}

	var (
		best     Scale
		found    bool
		firstErr error
	)
	for _, policy := range []SpellingPolicy{current, other} {
		root, err := s.root.TransposeWithPolicy(semitones, policy)
		if err != nil {
			return Scale{}, err
		}
		if found && root.SameSpelling(best.root) {
			continue
		}
		candidate, err := BuildScale(root, s.quality, opts...)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if !found || preferredKey(candidate, best) {
			best, found = candidate, true
		}
	}
	if !found {
		return Scale{}, firstErr
	}
	return best, nil
}

func preferredKey(a, b Scale) bool {
	_, tableA := lookupSpelling(a.quality, a.root.Name())
	_, tableB := lookupSpelling(b.quality, b.root.Name())
	if tableA != tableB {
		return tableA
	}
	return a.accidentalCount() < b.accidentalCount()
}

func (s Scale) accidentalCount() int {
	count := 0
	for i := 0; i < s.DegreeCount(); i++ {
		count += abs(s.notes[i].accidental.Offset())
	}
	return count
}

// Equal compares root pitch and quality.
func (s Scale) Equal(other Scale) bool {
	return s.quality == other.quality && s.root.Equal(other.root)
}

func (s Scale) String() string {
	return s.root.String() + " " + string(s.quality)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
