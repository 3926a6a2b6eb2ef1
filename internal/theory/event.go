package theory

import "fmt"

// Pitch is a musical event that resolves to a single note: a Note, a
// ScaleDegree or a Chord (its root). The set is closed.
type Pitch interface {
	ToNote() (Note, error)
	isPitch()
}

var (
	_ Pitch = Note{}
	_ Pitch = ScaleDegree{}
	_ Pitch = Chord{}
)

// ResolvePitches resolves each event in order, stopping at the first failure.
func ResolvePitches(events []Pitch) ([]Note, error) {
	out := make([]Note, 0, len(events))
	for i, ev := range events {
		n, err := ev.ToNote()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// PitchKind names the variant of p for serialization and logging.
func PitchKind(p Pitch) string {
	switch p.(type) {
	case Note:
		return "note"
	case ScaleDegree:
		return "scale_degree"
	case Chord:
		return "chord"
	default:
		return "unknown"
	}
}
