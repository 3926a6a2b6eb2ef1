package theory

import (
	"fmt"
	"sort"
	"strings"
)

// ScaleQuality identifies a scale's interval pattern.
type ScaleQuality string

const (
	ScaleMajor           ScaleQuality = "major"
	ScaleMinor           ScaleQuality = "minor"
	ScaleHarmonicMinor   ScaleQuality = "harmonic_minor"
	ScaleMelodicMinor    ScaleQuality = "melodic_minor"
	ScaleDorian          ScaleQuality = "dorian"
	ScalePhrygian        ScaleQuality = "phrygian"
	ScaleLydian          ScaleQuality = "lydian"
	ScaleMixolydian      ScaleQuality = "mixolydian"
	ScaleLocrian         ScaleQuality = "locrian"
	ScaleWholeTone       ScaleQuality = "whole_tone"
	ScaleChromatic       ScaleQuality = "chromatic"
	ScaleAugmented       ScaleQuality = "augmented"
	ScaleDiminished      ScaleQuality = "diminished"
	ScalePentatonicMajor ScaleQuality = "pentatonic_major"
	ScalePentatonicMinor ScaleQuality = "pentatonic_minor"
	ScaleBlues           ScaleQuality = "blues"
)

// Semitone offsets from the root, excluding the octave.
var scaleIntervals = map[ScaleQuality][]int{
	ScaleMajor:           {0, 2, 4, 5, 7, 9, 11},
	ScaleMinor:           {0, 2, 3, 5, 7, 8, 10},
	ScaleHarmonicMinor:   {0, 2, 3, 5, 7, 8, 11},
	ScaleMelodicMinor:    {0, 2, 3, 5, 7, 9, 11},
	ScaleDorian:          {0, 2, 3, 5, 7, 9, 10},
	ScalePhrygian:        {0, 1, 3, 5, 7, 8, 10},
	ScaleLydian:          {0, 2, 4, 6, 7, 9, 11},
	ScaleMixolydian:      {0, 2, 4, 5, 7, 9, 10},
	ScaleLocrian:         {0, 1, 3, 5, 6, 8, 10},
	ScaleWholeTone:       {0, 2, 4, 6, 8, 10},
	ScaleChromatic:       {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	ScaleAugmented:       {0, 3, 4, 7, 8, 11},
	ScaleDiminished:      {0, 2, 3, 5, 6, 8, 9, 11},
	ScalePentatonicMajor: {0, 2, 4, 7, 9},
	ScalePentatonicMinor: {0, 3, 5, 7, 10},
	ScaleBlues:           {0, 3, 5, 6, 7, 10},
}

var scaleQualityAliases = map[string]ScaleQuality{
	"natural_minor": ScaleMinor,
	"aeolian":       ScaleMinor,
	"ionian":        ScaleMajor,
	"octatonic":     ScaleDiminished,
}

// Conventional spellings keyed by quality then root name. Each entry lists
// one name per interval in scaleIntervals order.
var scaleSpellings = map[ScaleQuality]map[string]string{
	ScaleMajor: {
		"C":  "C D E F G A B",
		"G":  "G A B C D E F#",
		"D":  "D E F# G A B C#",
		"A":  "A B C# D E F# G#",
		"E":  "E F# G# A B C# D#",
		"B":  "B C# D# E F# G# A#",
		"F#": "F# G# A# B C# D# E#",
		"C#": "C# D# E# F# G# A# B#",
		"G#": "G# A# B# C# D# E# F##",
		"F":  "F G A Bb C D E",
		"Bb": "Bb C D Eb F G A",
		"Eb": "Eb F G Ab Bb C D",
		"Ab": "Ab Bb C Db Eb F G",
		"Db": "Db Eb F Gb Ab Bb C",
		"Gb": "Gb Ab Bb Cb Db Eb F",
		"Cb": "Cb Db Eb Fb Gb Ab Bb",
	},
	ScaleMinor: {
		"A":  "A B C D E F G",
		"E":  "E F# G A B C D",
		"B":  "B C# D E F# G A",
		"F#": "F# G# A B C# D E",
		"C#": "C# D# E F# G# A B",
		"G#": "G# A# B C# D# E F#",
		"D#": "D# E# F# G# A# B C#",
		"D":  "D E F G A Bb C",
		"G":  "G A Bb C D Eb F",
		"C":  "C D Eb F G Ab Bb",
		"F":  "F G Ab Bb C Db Eb",
		"Bb": "Bb C Db Eb F Gb Ab",
		"Eb": "Eb F Gb Ab Bb Cb Db",
		"Ab": "Ab Bb Cb Db Eb Fb Gb",
	},
	ScaleHarmonicMinor: {
		"A":  "A B C D E F G#",
		"E":  "E F# G A B C D#",
		"B":  "B C# D E F# G A#",
		"F#": "F# G# A B C# D E#",
		"C#": "C# D# E F# G# A B#",
		"G#": "G# A# B C# D# E F##",
		"D":  "D E F G A Bb C#",
		"G":  "G A Bb C D Eb F#",
		"C":  "C D Eb F G Ab B",
		"F":  "F G Ab Bb C Db E",
		"Bb": "Bb C Db Eb F Gb A",
		"Eb": "Eb F Gb Ab Bb Cb D",
	},
	ScaleMelodicMinor: {
		"A":  "A B C D E F# G#",
		"E":  "E F# G A B C# D#",
		"B":  "B C# D E F# G# A#",
		"F#": "F# G# A B C# D# E#",
		"D":  "D E F G A B C#",
		"G":  "G A Bb C D E F#",
		"C":  "C D Eb F G A B",
		"F":  "F G Ab Bb C D E",
		"Bb": "Bb C Db Eb F G A",
	},
	ScaleMixolydian: {
		"C":  "C D E F G A Bb",
		"G":  "G A B C D E F",
		"D":  "D E F# G A B C",
		"A":  "A B C# D E F# G",
		"E":  "E F# G# A B C# D",
		"F":  "F G A Bb C D Eb",
		"Bb": "Bb C D Eb F G Ab",
	},
	ScaleWholeTone: {
		"C":  "C D E F# G# A#",
		"Db": "Db Eb F G A B",
		"D":  "D E F# G# A# C",
	},
	ScaleChromatic: {
		"C": "C C# D D# E F F# G G# A A# B",
		"F": "F Gb G Ab A Bb B C Db D Eb E",
	},
	ScaleAugmented: {
		"C": "C D# E G Ab B",
	},
	ScaleDiminished: {
		"C": "C D Eb F Gb Ab A B",
	},
}

// parsedSpellings holds scaleSpellings split into (letter, accidental) pairs.
var parsedSpellings = mustParseSpellings(scaleSpellings)

type spelledName struct {
	letter     string
	accidental Accidental
}

func mustParseSpellings(tables map[ScaleQuality]map[string]string) map[ScaleQuality]map[string][]spelledName {
	out := make(map[ScaleQuality]map[string][]spelledName, len(tables))
	for quality, roots := range tables {
		out[quality] = make(map[string][]spelledName, len(roots))
		for root, names := range roots {
			fields := strings.Fields(names)
			if len(fields) != len(scaleIntervals[quality]) {
				panic(fmt.Sprintf("theory: %s %s spelling has %d names, want %d", root, quality, len(fields), len(scaleIntervals[quality])))
			}
			pairs := make([]spelledName, len(fields))
			for i, name := range fields {
				acc := Accidental(name[1:])
				if _, ok := letterSemitones[name[:1]]; !ok || !acc.Valid() {
					panic(fmt.Sprintf("theory: bad spelling %q in %s %s", name, root, quality))
				}
				pairs[i] = spelledName{letter: name[:1], accidental: acc}
			}
			out[quality][root] = pairs
		}
	}
	return out
}

// ParseScaleQuality resolves a quality identifier or alias, case-insensitively.
func ParseScaleQuality(s string) (ScaleQuality, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if alias, ok := scaleQualityAliases[key]; ok {
		return alias, nil
	}
	q := ScaleQuality(key)
	if _, ok := scaleIntervals[q]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownScaleQuality, s)
	}
	return q, nil
}

// Intervals returns a copy of the quality's semitone offsets.
func (q ScaleQuality) Intervals() ([]int, error) {
	intervals, ok := scaleIntervals[q]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScaleQuality, string(q))
	}
	return append([]int(nil), intervals...), nil
}

// IsHeptatonic reports whether the quality has seven degrees and can be
// spelled one letter per step.
func (q ScaleQuality) IsHeptatonic() bool {
	return len(scaleIntervals[q]) == len(letterCycle)
}

// IsMinor reports whether the quality has a minor third above the root.
func (q ScaleQuality) IsMinor() bool {
	intervals := scaleIntervals[q]
	for _, iv := range intervals {
		if iv == 4 {
			return false
		}
	}
	for _, iv := range intervals {
		if iv == 3 {
			return true
		}
	}
	return false
}

// ScaleQualities lists every known quality in sorted order.
func ScaleQualities() []ScaleQuality {
	out := make([]ScaleQuality, 0, len(scaleIntervals))
	for q := range scaleIntervals {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func lookupSpelling(quality ScaleQuality, rootName string) ([]spelledName, bool) {
	roots, ok := parsedSpellings[quality]
	if !ok {
		return nil, false
	}
	pairs, ok := roots[rootName]
	return pairs, ok
}
