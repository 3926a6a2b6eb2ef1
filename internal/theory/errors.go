package theory

import "errors"

// Sentinel errors returned by the theory package. Constructors wrap them with
// context via fmt.Errorf, so callers should match with errors.Is.
var (
	ErrInvalidNote         = errors.New("invalid note")
	ErrInvalidMIDINumber   = errors.New("invalid MIDI number")
	ErrUnknownScaleQuality = errors.New("unknown scale quality")
	ErrUnknownChordQuality = errors.New("unknown chord quality")
	ErrInvalidDegree       = errors.New("invalid scale degree")
	ErrInvalidRomanNumeral = errors.New("invalid roman numeral")
	ErrMissingScale        = errors.New("roman numeral has no bound scale")
	ErrInvalidInversion    = errors.New("invalid inversion")
	ErrInvalidChord        = errors.New("invalid chord")
)

// IsInputError reports whether err was caused by invalid caller input rather
// than an internal failure.
func IsInputError(err error) bool {
	for _, target := range []error{
		ErrInvalidNote,
		ErrInvalidMIDINumber,
		ErrUnknownScaleQuality,
		ErrUnknownChordQuality,
		ErrInvalidDegree,
		ErrInvalidRomanNumeral,
		ErrMissingScale,
		ErrInvalidInversion,
		ErrInvalidChord,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
