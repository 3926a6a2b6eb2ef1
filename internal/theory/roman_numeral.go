package theory

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var romanPattern = regexp.MustCompile(
	`^(b?)(VII|VI|V|IV|III|II|I|vii|vi|v|iv|iii|ii|i|[1-7]|one|two|three|four|five|six|seven)(.*)$`,
)

var wordToRoman = map[string]string{
	"one": "I", "two": "II", "three": "III", "four": "IV", "five": "V", "six": "VI", "seven": "VII",
}

var digitToRoman = map[string]string{
	"1": "I", "2": "II", "3": "III", "4": "IV", "5": "V", "6": "VI", "7": "VII",
}

var romanToDegree = map[string]int{
	"I": 1, "II": 2, "III": 3, "IV": 4, "V": 5, "VI": 6, "VII": 7,
}

// romanModifiers is scanned in order, so longer tokens come first.
var romanModifiers = []struct {
	token string
	apply func(*RomanNumeral)
}{
	{"maj11", func(r *RomanNumeral) { r.eleventh = true }},
	{"maj9", func(r *RomanNumeral) { r.ninth = true }},
	{"maj7", func(r *RomanNumeral) { r.seventh, r.majorSeventh = true, true }},
	{"min7", func(r *RomanNumeral) { r.seventh, r.major = true, false }},
	{"dim7", func(r *RomanNumeral) { r.diminished, r.seventh = true, true }},
	{"sus2", func(r *RomanNumeral) { r.sus = 2 }},
	{"sus4", func(r *RomanNumeral) { r.sus = 4 }},
	{"dim", func(r *RomanNumeral) { r.diminished = true }},
	{"aug", func(r *RomanNumeral) { r.augmented = true }},
	{"min", func(r *RomanNumeral) { r.major = false }},
	{"maj", func(r *RomanNumeral) { r.major = true }},
	{"11", func(r *RomanNumeral) { r.eleventh = true }},
	{"9", func(r *RomanNumeral) { r.ninth = true }},
	{"7", func(r *RomanNumeral) { r.seventh = true }},
	{"ø", func(r *RomanNumeral) { r.halfDiminished = true }},
	{"°", func(r *RomanNumeral) { r.diminished = true }},
	{"o", func(r *RomanNumeral) { r.diminished = true }},
	{"+", func(r *RomanNumeral) { r.augmented = true }},
}

// RomanNumeral is a parsed scale-degree chord label such as "bVII7" or
// "V/V". Parsing does not need a scale; Note and Chord do.
type RomanNumeral struct {
	numeral        string
	base           string
	degree         int
	major          bool
	diminished     bool
	augmented      bool
	halfDiminished bool
	seventh        bool
	ninth          bool
	eleventh       bool
	majorSeventh   bool
	sus            int
	inversion      int
	flattened      bool
	secondary      *RomanNumeral
	scale          *Scale
}

// ParseRomanNumeral parses a token without binding it to a scale.
func ParseRomanNumeral(token string) (RomanNumeral, error) {
	token = strings.TrimSpace(token)
	m := romanPattern.FindStringSubmatch(token)
	if m == nil {
		return RomanNumeral{}, fmt.Errorf("%w: %q", ErrInvalidRomanNumeral, token)
	}

	canonical, major := canonicalRoman(m[2])
	degree, ok := romanToDegree[canonical]
	if !ok {
		return RomanNumeral{}, fmt.Errorf("%w: %q maps to no degree", ErrInvalidRomanNumeral, token)
	}

	r := RomanNumeral{
		numeral:   token,
		base:      canonical,
		degree:    degree,
		major:     major,
		flattened: m[1] == "b",
	}
	if err := r.applyModifiers(m[3]); err != nil {
		return RomanNumeral{}, fmt.Errorf("%q: %w", token, err)
	}

	if r.diminished || r.halfDiminished {
		r.major = false
	}
	if r.augmented {
		r.major = true
	}
	return r, nil
}

// NewRomanNumeral parses token and binds it to scale.
func NewRomanNumeral(token string, scale Scale) (RomanNumeral, error) {
	r, err := ParseRomanNumeral(token)
	if err != nil {
		return RomanNumeral{}, err
	}
	return r.Bind(scale), nil
}

// canonicalRoman returns the upper-case numeral and whether the base was
// written in the major (upper-case) family. Digits and words count as major.
func canonicalRoman(base string) (string, bool) {
	if roman, ok := wordToRoman[base]; ok {
		return roman, true
	}
	if roman, ok := digitToRoman[base]; ok {
		return roman, true
	}
	upper := strings.ToUpper(base)
	return upper, base == upper
}

func (r *RomanNumeral) applyModifiers(mods string) error {
	for mods != "" {
		if rest, ok := strings.CutPrefix(mods, "/"); ok {
			return r.applySlash(rest)
		}

		matched := false
		for _, m := range romanModifiers {
			if strings.HasPrefix(mods, m.token) {
				m.apply(r)
				mods = mods[len(m.token):]
				matched = true
				break
			}
		}
		if !matched {
			return fmt.Errorf("%w: unrecognized modifier %q", ErrInvalidRomanNumeral, mods)
		}
	}
	return nil
}

// applySlash handles "/<digit>" inversions and "/<numeral>" secondary targets.
func (r *RomanNumeral) applySlash(rest string) error {
	if n, err := strconv.Atoi(rest); err == nil {
		if n < 0 {
			return fmt.Errorf("%w: negative inversion %q", ErrInvalidRomanNumeral, rest)
		}
		r.inversion = n
		return nil
	}

	target, err := ParseRomanNumeral(rest)
	if err != nil {
		return fmt.Errorf("secondary target: %w", err)
	}
	if target.secondary != nil {
		return fmt.Errorf("%w: nested secondary %q", ErrInvalidRomanNumeral, rest)
	}
	r.secondary = &target
	return nil
}

// Bind returns a copy of r resolved against scale.
func (r RomanNumeral) Bind(scale Scale) RomanNumeral {
	r.scale = &scale
	return r
}

// Quality derives the chord quality from the parsed flags. Diminished,
// half-diminished and augmented markers win, then eleventh, ninth, an explicit
// maj7, suspensions and plain sevenths, falling back to the case of the
// numeral.
func (r RomanNumeral) Quality() ChordQuality {
	switch {
	case r.diminished:
		if r.seventh {
			return ChordDiminished7
		}
		return ChordDiminished
	case r.halfDiminished:
		return ChordHalfDiminished7
	case r.augmented:
		if r.seventh {
			return ChordAugmented7
		}
		return ChordAugmented
	case r.eleventh:
		if r.major {
			return ChordMajor11
		}
		return ChordMinor11
	case r.ninth:
		if r.major {
			return ChordMajor9
		}
		return ChordMinor9
	case r.majorSeventh:
		return ChordMajor7
	case r.sus == 4:
		if r.seventh {
			return ChordSevenSus4
		}
		return ChordSus4
	case r.sus == 2:
		if r.seventh {
			return ChordSevenSus2
		}
		return ChordSus2
	case r.seventh:
		if r.major {
			return ChordDominant7
		}
		return ChordMinor7
	case r.major:
		return ChordMajor
	default:
		return ChordMinor
	}
}

// Note resolves the numeral's root against the bound scale. Secondary
// numerals first tonicize their target: a major scale for an upper-case
// target, harmonic minor otherwise.
func (r RomanNumeral) Note() (Note, error) {
	if r.scale == nil {
		return Note{}, fmt.Errorf("%w: %q", ErrMissingScale, r.numeral)
	}

	scale := *r.scale
	if r.secondary != nil {
		target, err := r.secondary.Bind(scale).Note()
		if err != nil {
			return Note{}, err
		}
		quality := ScaleMajor
		if !r.secondary.major {
			quality = ScaleHarmonicMinor
		}
		scale, err = BuildScale(target, quality)
		if err != nil {
			return Note{}, err
		}
	}

	if r.degree > scale.DegreeCount() {
		return Note{}, fmt.Errorf("%w: degree %d exceeds %d degrees of %s", ErrInvalidDegree, r.degree, scale.DegreeCount(), scale)
	}
	note, err := scale.Degree(r.degree)
	if err != nil {
		return Note{}, err
	}
	return ScaleDegree{Degree: r.degree, Note: note, Flattened: r.flattened}.ToNote()
}

// Chord builds the full chord on Note. Chord tones are spelled by stacking
// letters above the root; a tone that cannot take its letter is spelled by
// the bound scale, or with flats under a flattened numeral.
func (r RomanNumeral) Chord() (Chord, error) {
	root, err := r.Note()
	if err != nil {
		return Chord{}, err
	}

	quality := r.Quality()
	policy := r.scale.SpellingPolicy()
	fallback := r.scale.Spell
	if r.flattened {
		policy = PreferFlats
		fallback = func(midi int) (Note, error) {
			return FromMIDIWithPolicy(midi, PreferFlats)
		}
	}

	notes, err := stackedChordTones(root, quality, fallback)
	if err != nil {
		return Chord{}, err
	}
	if r.inversion < 0 {
		return Chord{}, fmt.Errorf("%w: %d is negative", ErrInvalidInversion, r.inversion)
	}
	return assembleChord(root, quality, r.inversion, notes, policy)
}

func (r RomanNumeral) Numeral() string        { return r.numeral }
func (r RomanNumeral) Degree() int            { return r.degree }
func (r RomanNumeral) IsMajor() bool          { return r.major }
func (r RomanNumeral) IsDiminished() bool     { return r.diminished }
func (r RomanNumeral) IsAugmented() bool      { return r.augmented }
func (r RomanNumeral) IsHalfDiminished() bool { return r.halfDiminished }
func (r RomanNumeral) HasSeventh() bool       { return r.seventh }
func (r RomanNumeral) HasNinth() bool         { return r.ninth }
func (r RomanNumeral) HasEleventh() bool      { return r.eleventh }
func (r RomanNumeral) Inversion() int         { return r.inversion }
func (r RomanNumeral) IsFlattened() bool      { return r.flattened }

// Secondary returns the tonicized target of a numeral like "V/V".
func (r RomanNumeral) Secondary() (RomanNumeral, bool) {
	if r.secondary == nil {
		return RomanNumeral{}, false
	}
	return *r.secondary, true
}

// Scale returns the bound scale, if any.
func (r RomanNumeral) Scale() (Scale, bool) {
	if r.scale == nil {
		return Scale{}, false
	}
	return *r.scale, true
}

// String renders the numeral canonically; parsing the result yields the same
// degree, quality and inversion.
func (r RomanNumeral) String() string {
	var b strings.Builder
	if r.flattened {
		b.WriteString("b")
	}
	if r.major {
		b.WriteString(r.base)
	} else {
		b.WriteString(strings.ToLower(r.base))
	}

	switch {
	case r.diminished:
		b.WriteString("°")
	case r.halfDiminished:
		b.WriteString("ø")
	case r.augmented:
		b.WriteString("+")
	}

	switch {
	case r.eleventh:
		b.WriteString("11")
	case r.ninth:
		b.WriteString("9")
	case r.majorSeventh:
		b.WriteString("maj7")
	case r.seventh:
		b.WriteString("7")
	}
	if r.sus != 0 {
		b.WriteString("sus" + strconv.Itoa(r.sus))
	}

	if r.inversion > 0 {
		b.WriteString("/" + strconv.Itoa(r.inversion))
	}
	if r.secondary != nil {
		b.WriteString("/" + r.secondary.String())
	}
	return b.String()
}
