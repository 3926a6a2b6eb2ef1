package theory

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// ChordQuality identifies a chord's interval pattern.
type ChordQuality string

const (
	ChordMajor           ChordQuality = "major"
	ChordMinor           ChordQuality = "minor"
	ChordDiminished      ChordQuality = "diminished"
	ChordAugmented       ChordQuality = "augmented"
	ChordMajor7          ChordQuality = "major7"
	ChordMinor7          ChordQuality = "minor7"
	ChordDominant7       ChordQuality = "dominant7"
	ChordDiminished7     ChordQuality = "diminished7"
	ChordHalfDiminished7 ChordQuality = "half-diminished7"
	ChordAugmented7      ChordQuality = "augmented7"
	ChordMajor9          ChordQuality = "major9"
	ChordMinor9          ChordQuality = "minor9"
	ChordDominant9       ChordQuality = "dominant9"
	ChordMajor11         ChordQuality = "major11"
	ChordMinor11         ChordQuality = "minor11"
	ChordDominant11      ChordQuality = "dominant11"
	ChordSus2            ChordQuality = "sus2"
	ChordSus4            ChordQuality = "sus4"
	ChordSevenSus2       ChordQuality = "7sus2"
	ChordSevenSus4       ChordQuality = "7sus4"
	ChordPower           ChordQuality = "power"
	ChordMajor6          ChordQuality = "major6"
	ChordMinor6          ChordQuality = "minor6"
)

var chordIntervals = map[ChordQuality][]int{
	ChordMajor:           {0, 4, 7},
	ChordMinor:           {0, 3, 7},
	ChordDiminished:      {0, 3, 6},
	ChordAugmented:       {0, 4, 8},
	ChordMajor7:          {0, 4, 7, 11},
	ChordMinor7:          {0, 3, 7, 10},
	ChordDominant7:       {0, 4, 7, 10},
	ChordDiminished7:     {0, 3, 6, 9},
	ChordHalfDiminished7: {0, 3, 6, 10},
	ChordAugmented7:      {0, 4, 8, 10},
	ChordMajor9:          {0, 4, 7, 11, 14},
	ChordMinor9:          {0, 3, 7, 10, 14},
	ChordDominant9:       {0, 4, 7, 10, 14},
	ChordMajor11:         {0, 4, 7, 11, 14, 17},
	ChordMinor11:         {0, 3, 7, 10, 14, 17},
	ChordDominant11:      {0, 4, 7, 10, 14, 17},
	ChordSus2:            {0, 2, 7},
	ChordSus4:            {0, 5, 7},
	ChordSevenSus2:       {0, 2, 7, 10},
	ChordSevenSus4:       {0, 5, 7, 10},
	ChordPower:           {0, 7},
	ChordMajor6:          {0, 4, 7, 9},
	ChordMinor6:          {0, 3, 7, 9},
}

// Suffix written after the root in a chord symbol.
var chordSymbols = map[ChordQuality]string{
	ChordMajor:           "",
	ChordMinor:           "m",
	ChordDiminished:      "dim",
	ChordAugmented:       "aug",
	ChordMajor7:          "maj7",
	ChordMinor7:          "m7",
	ChordDominant7:       "7",
	ChordDiminished7:     "dim7",
	ChordHalfDiminished7: "ø7",
	ChordAugmented7:      "aug7",
	ChordMajor9:          "maj9",
	ChordMinor9:          "m9",
	ChordDominant9:       "9",
	ChordMajor11:         "maj11",
	ChordMinor11:         "m11",
	ChordDominant11:      "11",
	ChordSus2:            "sus2",
	ChordSus4:            "sus4",
	ChordSevenSus2:       "7sus2",
	ChordSevenSus4:       "7sus4",
	ChordPower:           "5",
	ChordMajor6:          "6",
	ChordMinor6:          "m6",
}

// Case-sensitive spellings accepted besides the canonical names and symbols.
var chordQualityAliases = map[string]ChordQuality{
	"M":                  ChordMajor,
	"maj":                ChordMajor,
	"min":                ChordMinor,
	"-":                  ChordMinor,
	"o":                  ChordDiminished,
	"°":                  ChordDiminished,
	"+":                  ChordAugmented,
	"M7":                 ChordMajor7,
	"Δ7":                 ChordMajor7,
	"min7":               ChordMinor7,
	"-7":                 ChordMinor7,
	"dom7":               ChordDominant7,
	"o7":                 ChordDiminished7,
	"°7":                 ChordDiminished7,
	"m7b5":               ChordHalfDiminished7,
	"ø":                  ChordHalfDiminished7,
	"half_diminished7":   ChordHalfDiminished7,
	"half_diminished":    ChordHalfDiminished7,
	"half-diminished":    ChordHalfDiminished7,
	"+7":                 ChordAugmented7,
	"min9":               ChordMinor9,
	"min11":              ChordMinor11,
	"seven_sus2":         ChordSevenSus2,
	"seven_sus4":         ChordSevenSus4,
	"major_seventh":      ChordMajor7,
	"minor_seventh":      ChordMinor7,
	"dominant_seventh":   ChordDominant7,
	"diminished_seventh": ChordDiminished7,
	"augmented_seventh":  ChordAugmented7,
	"major_sixth":        ChordMajor6,
	"minor_sixth":        ChordMinor6,
}

// ParseChordQuality resolves a canonical name, symbol suffix or alias. Exact
// matches are tried first so that "M" and "m" stay distinct.
func ParseChordQuality(s string) (ChordQuality, error) {
	key := strings.TrimSpace(s)
	if key == "" {
		return "", fmt.Errorf("%w: empty quality", ErrUnknownChordQuality)
	}
	if q, ok := lookupChordQuality(key); ok {
		return q, nil
	}
	if q, ok := lookupChordQuality(strings.ToLower(key)); ok {
		return q, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChordQuality, s)
}

func lookupChordQuality(key string) (ChordQuality, bool) {
	if _, ok := chordIntervals[ChordQuality(key)]; ok {
		return ChordQuality(key), true
	}
	if q, ok := chordQualityAliases[key]; ok {
		return q, true
	}
	for q, symbol := range chordSymbols {
		if symbol != "" && symbol == key {
			return q, true
		}
	}
	return "", false
}

// Valid reports whether q is in the interval table.
func (q ChordQuality) Valid() bool {
	_, ok := chordIntervals[q]
	return ok
}

// Intervals returns a copy of the quality's semitone offsets from the root.
func (q ChordQuality) Intervals() ([]int, error) {
	intervals, ok := chordIntervals[q]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChordQuality, string(q))
	}
	return append([]int(nil), intervals...), nil
}

// NoteCount is the number of chord tones, zero for unknown qualities.
func (q ChordQuality) NoteCount() int {
	return len(chordIntervals[q])
}

// Symbol is the suffix written after the root, e.g. "maj7".
func (q ChordQuality) Symbol() string {
	return chordSymbols[q]
}

// ChordQualities lists every known quality in sorted order.
func ChordQualities() []ChordQuality {
	out := make([]ChordQuality, 0, len(chordIntervals))
	for q := range chordIntervals {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// QualityForIntervals finds the quality whose interval list equals intervals.
func QualityForIntervals(intervals []int) (ChordQuality, bool) {
	for _, q := range ChordQualities() {
		if slices.Equal(chordIntervals[q], intervals) {
			return q, true
		}
	}
	return "", false
}
