package theory

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// Accidental is the spelling modifier applied to a natural letter.
type Accidental string

const (
	Natural     Accidental = ""
	Sharp       Accidental = "#"
	Flat        Accidental = "b"
	DoubleSharp Accidental = "##"
	DoubleFlat  Accidental = "bb"
)

var accidentalOffsets = map[Accidental]int{
	DoubleFlat:  -2,
	Flat:        -1,
	Natural:     0,
	Sharp:       1,
	DoubleSharp: 2,
}

// Offset returns the semitone shift of the accidental.
func (a Accidental) Offset() int {
	return accidentalOffsets[a]
}

// Valid reports whether a is one of the recognized accidentals.
func (a Accidental) Valid() bool {
	_, ok := accidentalOffsets[a]
	return ok
}

func accidentalForOffset(offset int) (Accidental, bool) {
	for acc, off := range accidentalOffsets {
		if off == offset {
			return acc, true
		}
	}
	return Natural, false
}

const (
	MinMIDI         = 0
	MaxMIDI         = 127
	MinOctave       = -2
	MaxOctave       = 9
	DefaultOctave   = 4
	DefaultDuration = 1.0
	DefaultVelocity = 64
	MaxVelocity     = 127

	semitonesPerOctave = 12
)

// Semitone offset of each natural letter above C.
var letterSemitones = map[string]int{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
}

// Natural letters in scale order, used for letter-walk spelling.
var letterCycle = []string{"C", "D", "E", "F", "G", "A", "B"}

// Natural letter for each pitch class, empty for black keys.
var naturalNames = [semitonesPerOctave]string{
	"C", "", "D", "", "E", "F", "", "G", "", "A", "", "B",
}

// Note is a single spelled pitch. The zero value is not a valid note; use
// NewNote, ParseNote or FromMIDI.
type Note struct {
	letter     string
	accidental Accidental
	octave     int
	duration   float64
	velocity   int
}

// NewNote builds a note from its spelling. The letter is case-insensitive.
func NewNote(letter string, accidental Accidental, octave int) (Note, error) {
	letter = strings.ToUpper(letter)
	if _, ok := letterSemitones[letter]; !ok {
		return Note{}, fmt.Errorf("%w: letter %q is not in A-G", ErrInvalidNote, letter)
	}
	if !accidental.Valid() {
		return Note{}, fmt.Errorf("%w: unrecognized accidental %q", ErrInvalidNote, accidental)
	}
	if octave < MinOctave || octave > MaxOctave {
		return Note{}, fmt.Errorf("%w: octave %d outside [%d,%d]", ErrInvalidNote, octave, MinOctave, MaxOctave)
	}

	n := newNote(letter, accidental, octave)
	if midi := n.MIDI(); midi < MinMIDI || midi > MaxMIDI {
		return Note{}, fmt.Errorf("%w: %s has MIDI number %d outside [%d,%d]", ErrInvalidNote, n, midi, MinMIDI, MaxMIDI)
	}
	return n, nil
}

// newNote skips validation; callers guarantee the spelling is in range.
func newNote(letter string, accidental Accidental, octave int) Note {
	return Note{
		letter:     letter,
		accidental: accidental,
		octave:     octave,
		duration:   DefaultDuration,
		velocity:   DefaultVelocity,
	}
}

// ParseNote parses tokens such as "C#4", "bb3", "Eb" or "F##-1". The octave
// defaults to DefaultOctave when omitted.
func ParseNote(s string) (Note, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Note{}, fmt.Errorf("%w: empty note string", ErrInvalidNote)
	}

	letter := strings.ToUpper(s[:1])
	if _, ok := letterSemitones[letter]; !ok {
		return Note{}, fmt.Errorf("%w: %q does not start with a letter A-G", ErrInvalidNote, s)
	}

	i := 1
	for i < len(s) && (s[i] == '#' || s[i] == 'b') {
		i++
	}
	accidental := Accidental(s[1:i])
	if !accidental.Valid() {
		return Note{}, fmt.Errorf("%w: unrecognized accidental %q in %q", ErrInvalidNote, accidental, s)
	}

	octave := DefaultOctave
	if rest := s[i:]; rest != "" {
		parsed, err := strconv.Atoi(rest)
		if err != nil {
			return Note{}, fmt.Errorf("%w: unparseable octave %q in %q", ErrInvalidNote, rest, s)
		}
		octave = parsed
	}

	return NewNote(letter, accidental, octave)
}

// FromMIDI returns the canonical spelling of a MIDI number: the natural
// letter when one matches, otherwise the letter below with a sharp.
func FromMIDI(midi int) (Note, error) {
	return FromMIDIWithPolicy(midi, PreferSharps)
}

// FromMIDIWithPolicy spells a MIDI number using the given accidental
// preference for black keys.
func FromMIDIWithPolicy(midi int, policy SpellingPolicy) (Note, error) {
	if midi < MinMIDI || midi > MaxMIDI {
		return Note{}, fmt.Errorf("%w: %d outside [%d,%d]", ErrInvalidMIDINumber, midi, MinMIDI, MaxMIDI)
	}

	pc := midi % semitonesPerOctave
	octave := midi/semitonesPerOctave - 1

	if name := naturalNames[pc]; name != "" {
		return newNote(name, Natural, octave), nil
	}
	if policy == PreferFlats {
		return newNote(naturalNames[pc+1], Flat, octave), nil
	}
	return newNote(naturalNames[pc-1], Sharp, octave), nil
}

func (n Note) Letter() string         { return n.letter }
func (n Note) Accidental() Accidental { return n.accidental }
func (n Note) Octave() int            { return n.octave }
func (n Note) Duration() float64      { return n.duration }
func (n Note) Velocity() int          { return n.velocity }

// Name is the spelling without octave, e.g. "C#".
func (n Note) Name() string {
	return n.letter + string(n.accidental)
}

func (n Note) String() string {
	return n.Name() + strconv.Itoa(n.octave)
}

// MIDI returns the MIDI number. Validated constructors keep it in [0,127].
func (n Note) MIDI() int {
	return (n.octave+1)*semitonesPerOctave + letterSemitones[n.letter] + n.accidental.Offset()
}

// PitchClass returns the MIDI number modulo 12.
func (n Note) PitchClass() int {
	return mod(n.MIDI(), semitonesPerOctave)
}

// WithDuration returns a copy of n with the given duration in beats.
func (n Note) WithDuration(duration float64) (Note, error) {
	if duration <= 0 {
		return Note{}, fmt.Errorf("%w: duration %v must be positive", ErrInvalidNote, duration)
	}
	n.duration = duration
	return n, nil
}

// WithVelocity returns a copy of n with the given velocity.
func (n Note) WithVelocity(velocity int) (Note, error) {
	if velocity < 0 || velocity > MaxVelocity {
		return Note{}, fmt.Errorf("%w: velocity %d outside [0,%d]", ErrInvalidNote, velocity, MaxVelocity)
	}
	n.velocity = velocity
	return n, nil
}

// Transpose shifts the note and respells the result canonically. Duration and
// velocity carry over.
func (n Note) Transpose(semitones int) (Note, error) {
	return n.TransposeWithPolicy(semitones, PreferSharps)
}

// TransposeWithPolicy shifts the note and spells the result with policy.
func (n Note) TransposeWithPolicy(semitones int, policy SpellingPolicy) (Note, error) {
	out, err := FromMIDIWithPolicy(n.MIDI()+semitones, policy)
	if err != nil {
		return Note{}, fmt.Errorf("transpose %s by %d: %w", n, semitones, err)
	}
	return n.carry(out), nil
}

// Enharmonic returns the alternate spelling at the same pitch. Naturals are
// returned unchanged; double accidentals collapse to the canonical spelling.
func (n Note) Enharmonic() Note {
	var out Note
	switch n.accidental {
	case Natural:
		return n
	case Sharp:
		switch n.letter {
		case "E":
			out = newNote("F", Natural, n.octave)
		case "B":
			out = newNote("C", Natural, n.octave+1)
		default:
			out = newNote(nextLetter(n.letter), Flat, n.octave)
		}
	case Flat:
		switch n.letter {
		case "F":
			out = newNote("E", Natural, n.octave)
		case "C":
			out = newNote("B", Natural, n.octave-1)
		default:
			out = newNote(prevLetter(n.letter), Sharp, n.octave)
		}
	default:
		canonical, err := FromMIDI(n.MIDI())
		if err != nil {
			return n
		}
		out = canonical
	}
	return n.carry(out)
}

// Equal compares pitch only, so C#4 equals Db4.
func (n Note) Equal(other Note) bool {
	return n.MIDI() == other.MIDI()
}

// SameSpelling compares letter, accidental and octave.
func (n Note) SameSpelling(other Note) bool {
	return n.letter == other.letter && n.accidental == other.accidental && n.octave == other.octave
}

// Compare orders notes by MIDI number.
func (n Note) Compare(other Note) int {
	return cmp.Compare(n.MIDI(), other.MIDI())
}

func (n Note) Less(other Note) bool {
	return n.Compare(other) < 0
}

// ToNote implements Pitch.
func (n Note) ToNote() (Note, error) {
	return n, nil
}

func (Note) isPitch() {}

// carry copies performance attributes from n onto a respelled note.
func (n Note) carry(out Note) Note {
	out.duration = n.duration
	out.velocity = n.velocity
	return out
}

func letterIndex(letter string) int {
	for i, l := range letterCycle {
		if l == letter {
			return i
		}
	}
	return -1
}

func nextLetter(letter string) string {
	return letterCycle[(letterIndex(letter)+1)%len(letterCycle)]
}

func prevLetter(letter string) string {
	return letterCycle[(letterIndex(letter)+len(letterCycle)-1)%len(letterCycle)]
}

func mod(a, m int) int {
	return ((a % m) + m) % m
}
