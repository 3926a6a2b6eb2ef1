package progression

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Conceptual-Machines/note-gen/internal/theory"
)

const (
	DefaultMaxLength   = 32
	seventhProbability = 0.3
)

// Pattern is a named Roman-numeral sequence.
type Pattern struct {
	Name     string   `json:"name"`
	Alias    string   `json:"alias,omitempty"`
	Numerals []string `json:"numerals"`
}

var patterns = []Pattern{
	{Name: "I-IV-V-I", Numerals: []string{"I", "IV", "V", "I"}},
	{Name: "I-V-vi-IV", Alias: "pop", Numerals: []string{"I", "V", "vi", "IV"}},
	{Name: "ii-V-I", Alias: "jazz", Numerals: []string{"ii7", "V7", "Imaj7"}},
	{Name: "I-vi-IV-V", Alias: "doo-wop", Numerals: []string{"I", "vi", "IV", "V"}},
	{Name: "I-IV-I-V", Alias: "blues", Numerals: []string{"I7", "IV7", "I7", "V7"}},
	{Name: "I-V-vi-iii-IV-I-IV-V", Alias: "canon", Numerals: []string{"I", "V", "vi", "iii", "IV", "I", "IV", "V"}},
	{Name: "i-iv-v-i", Numerals: []string{"i", "iv", "v", "i"}},
	{Name: "i-VI-III-VII", Alias: "epic", Numerals: []string{"i", "VI", "III", "VII"}},
}

var (
	majorKeyQualities = []theory.ChordQuality{
		theory.ChordMajor, theory.ChordMinor, theory.ChordMinor, theory.ChordMajor,
		theory.ChordMajor, theory.ChordMinor, theory.ChordDiminished,
	}
	minorKeyQualities = []theory.ChordQuality{
		theory.ChordMinor, theory.ChordDiminished, theory.ChordMajor, theory.ChordMinor,
		theory.ChordMinor, theory.ChordMajor, theory.ChordMajor,
	}
)

// Patterns lists the named patterns in a stable order.
func Patterns() []Pattern {
	out := make([]Pattern, len(patterns))
	copy(out, patterns)
	return out
}

func lookupPattern(name string) (Pattern, bool) {
	for _, p := range patterns {
		if strings.EqualFold(p.Name, name) || (p.Alias != "" && strings.EqualFold(p.Alias, name)) {
			return p, true
		}
	}
	return Pattern{}, false
}

// Generator builds progressions in a fixed key.
type Generator struct {
	scale     theory.Scale
	rng       *rand.Rand
	maxLength int
}

type Option func(*Generator)

// WithSeed makes Random reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithMaxLength caps the number of chords any single call may produce.
func WithMaxLength(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxLength = n
		}
	}
}

func NewGenerator(scale theory.Scale, opts ...Option) *Generator {
	g := &Generator{scale: scale, maxLength: DefaultMaxLength}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		seed := uint64(time.Now().UnixNano())
		g.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return g
}

func (g *Generator) Scale() theory.Scale { return g.scale }

// FromPattern builds one of the named patterns, matched by name or alias.
func (g *Generator) FromPattern(name string) (*ChordProgression, error) {
	p, ok := lookupPattern(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown pattern %q", ErrInvalidPattern, name)
	}
	prog, err := g.FromNumerals(p.Numerals)
	if err != nil {
		return nil, err
	}
	prog.Name = p.Name
	return prog, nil
}

// FromString splits s on dashes, commas or whitespace and builds the result.
func (g *Generator) FromString(s string) (*ChordProgression, error) {
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	prog, err := g.FromNumerals(tokens)
	if err != nil {
		return nil, err
	}
	prog.Name = strings.Join(tokens, "-")
	return prog, nil
}

// FromNumerals resolves each Roman numeral against the generator's key.
func (g *Generator) FromNumerals(tokens []string) (*ChordProgression, error) {
	if err := g.checkLength(len(tokens)); err != nil {
		return nil, err
	}

	prog := New(strings.Join(tokens, "-"), g.scale)
	for i, tok := range tokens {
		rn, err := theory.NewRomanNumeral(tok, g.scale)
		if err != nil {
			return nil, fmt.Errorf("numeral %d: %w", i, err)
		}
		chord, err := rn.Chord()
		if err != nil {
			return nil, fmt.Errorf("numeral %d (%s): %w", i, tok, err)
		}
		prog.Add(chord, tok)
	}
	return prog, nil
}

// Custom builds chords on explicit 1-based degrees. A nil qualities slice
// picks the diatonic triad for each degree.
func (g *Generator) Custom(degrees []int, qualities []theory.ChordQuality) (*ChordProgression, error) {
	if err := g.checkLength(len(degrees)); err != nil {
		return nil, err
	}
	if qualities != nil && len(qualities) != len(degrees) {
		return nil, fmt.Errorf("%w: %d degrees but %d qualities", ErrInvalidPattern, len(degrees), len(qualities))
	}

	prog := New("custom", g.scale)
	for i, d := range degrees {
		if d < 1 || d > g.scale.DegreeCount() {
			return nil, fmt.Errorf("%w: degree %d at position %d, scale has %d", theory.ErrInvalidDegree, d, i, g.scale.DegreeCount())
		}
		q := g.diatonicQuality(d)
		if qualities != nil {
			q = qualities[i]
		}
		chord, err := g.chordOn(d, q)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		prog.Add(chord, NumeralFor(d, q))
	}
	return prog, nil
}

// Random draws length chords, always opening on the tonic. Each chord is
// the diatonic triad on a uniformly chosen degree, upgraded to its seventh
// some of the time.
func (g *Generator) Random(length int) (*ChordProgression, error) {
	if err := g.checkLength(length); err != nil {
		return nil, err
	}

	prog := New("random", g.scale)
	count := g.scale.DegreeCount()
	for i := 0; i < length; i++ {
		degree := 1
		if i > 0 {
			degree = g.rng.IntN(count) + 1
		}
		q := g.diatonicQuality(degree)
		if g.rng.Float64() < seventhProbability {
			q = seventhOf(q, degree)
		}
		chord, err := g.chordOn(degree, q)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		prog.Add(chord, NumeralFor(degree, q))
	}
	return prog, nil
}

func (g *Generator) checkLength(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: progression needs at least one chord", ErrInvalidPattern)
	}
	if n > g.maxLength {
		return fmt.Errorf("%w: %d chords exceeds the limit of %d", ErrInvalidPattern, n, g.maxLength)
	}
	return nil
}

func (g *Generator) chordOn(degree int, q theory.ChordQuality) (theory.Chord, error) {
	root, err := g.scale.Degree(degree)
	if err != nil {
		return theory.Chord{}, err
	}
	return theory.BuildChord(root, q, 0, theory.WithSpelling(g.scale.SpellingPolicy()))
}

func (g *Generator) diatonicQuality(degree int) theory.ChordQuality {
	table := majorKeyQualities
	if g.scale.Quality().IsMinor() {
		table = minorKeyQualities
	}
	return table[(degree-1)%len(table)]
}

func seventhOf(q theory.ChordQuality, degree int) theory.ChordQuality {
	switch q {
	case theory.ChordMajor:
		if degree == 5 {
			return theory.ChordDominant7
		}
		return theory.ChordMajor7
	case theory.ChordMinor:
		return theory.ChordMinor7
	case theory.ChordDiminished:
		return theory.ChordHalfDiminished7
	case theory.ChordAugmented:
		return theory.ChordAugmented7
	}
	return q
}

var romanBases = []string{"I", "II", "III", "IV", "V", "VI", "VII"}

var numeralSuffixes = map[theory.ChordQuality]struct {
	suffix string
	lower  bool
}{
	theory.ChordMajor:           {"", false},
	theory.ChordMinor:           {"", true},
	theory.ChordDiminished:      {"°", true},
	theory.ChordAugmented:       {"+", false},
	theory.ChordMajor7:          {"maj7", false},
	theory.ChordMinor7:          {"7", true},
	theory.ChordDominant7:       {"7", false},
	theory.ChordDiminished7:     {"°7", true},
	theory.ChordHalfDiminished7: {"ø7", true},
	theory.ChordAugmented7:      {"+7", false},
	theory.ChordMajor9:          {"9", false},
	theory.ChordMinor9:          {"9", true},
	theory.ChordMajor11:         {"11", false},
	theory.ChordMinor11:         {"11", true},
	theory.ChordSus2:            {"sus2", false},
	theory.ChordSus4:            {"sus4", false},
	theory.ChordSevenSus2:       {"7sus2", false},
	theory.ChordSevenSus4:       {"7sus4", false},
}

// NumeralFor renders degree and quality as a Roman numeral. Qualities with
// no numeral spelling fall back to the chord symbol in parentheses, e.g.
// "V(9)".
func NumeralFor(degree int, q theory.ChordQuality) string {
	if degree < 1 || degree > len(romanBases) {
		return fmt.Sprintf("%d%s", degree, q.Symbol())
	}
	base := romanBases[degree-1]
	s, ok := numeralSuffixes[q]
	if !ok {
		return base + "(" + q.Symbol() + ")"
	}
	if s.lower {
		base = strings.ToLower(base)
	}
	return base + s.suffix
}
