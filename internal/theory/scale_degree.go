package theory

import (
	"fmt"
	"strconv"
)

// ScaleDegree is a 1-based degree number with the note it resolves to.
type ScaleDegree struct {
	Degree    int
	Note      Note
	Flattened bool
}

// NewScaleDegree validates the degree number.
func NewScaleDegree(degree int, note Note, flattened bool) (ScaleDegree, error) {
	if degree < 1 {
		return ScaleDegree{}, fmt.Errorf("%w: degree %d must be at least 1", ErrInvalidDegree, degree)
	}
	return ScaleDegree{Degree: degree, Note: note, Flattened: flattened}, nil
}

// ToNote returns the degree's note, a semitone lower when flattened. The
// flattened pitch keeps its letter where possible, so E becomes Eb and F#
// becomes F.
func (d ScaleDegree) ToNote() (Note, error) {
	if d.Degree < 1 {
		return Note{}, fmt.Errorf("%w: degree %d must be at least 1", ErrInvalidDegree, d.Degree)
	}
	if !d.Flattened {
		return d.Note, nil
	}
	return lowered(d.Note)
}

func (ScaleDegree) isPitch() {}

func (d ScaleDegree) String() string {
	prefix := ""
	if d.Flattened {
		prefix = "b"
	}
	return prefix + strconv.Itoa(d.Degree) + ":" + d.Note.String()
}
