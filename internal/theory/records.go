package theory

import "fmt"

// NoteRecord is the flat serialized form of a Note. MIDINumber is derived
// and only checked on the way back in.
type NoteRecord struct {
	Letter     string  `json:"letter"`
	Accidental string  `json:"accidental"`
	Octave     int     `json:"octave"`
	Duration   float64 `json:"duration"`
	Velocity   int     `json:"velocity"`
	MIDINumber int     `json:"midi_number"`
}

// ScaleRecord is the serialized form of a Scale.
type ScaleRecord struct {
	Root    NoteRecord   `json:"root"`
	Quality string       `json:"quality"`
	Notes   []NoteRecord `json:"notes"`
	Closed  bool         `json:"closed"`
}

// ChordRecord is the serialized form of a Chord. Notes is the close voicing.
type ChordRecord struct {
	Root      NoteRecord   `json:"root"`
	Quality   string       `json:"quality"`
	Inversion int          `json:"inversion"`
	Notes     []NoteRecord `json:"notes"`
	Bass      NoteRecord   `json:"bass"`
	Symbol    string       `json:"symbol"`
}

// RomanNumeralRecord is the serialized form of a RomanNumeral.
type RomanNumeralRecord struct {
	Numeral   string       `json:"numeral"`
	Degree    int          `json:"degree"`
	Quality   string       `json:"quality"`
	Inversion int          `json:"inversion"`
	Flattened bool         `json:"flattened"`
	Scale     *ScaleRecord `json:"scale,omitempty"`
}

func (n Note) ToRecord() NoteRecord {
	return NoteRecord{
		Letter:     n.letter,
		Accidental: string(n.accidental),
		Octave:     n.octave,
		Duration:   n.duration,
		Velocity:   n.velocity,
		MIDINumber: n.MIDI(),
	}
}

// NoteFromRecord rebuilds a Note. A zero duration or velocity means the
// default.
func NoteFromRecord(r NoteRecord) (Note, error) {
	n, err := NewNote(r.Letter, Accidental(r.Accidental), r.Octave)
	if err != nil {
		return Note{}, err
	}
	if r.MIDINumber != 0 && r.MIDINumber != n.MIDI() {
		return Note{}, fmt.Errorf("%w: record says MIDI %d but %s is %d", ErrInvalidNote, r.MIDINumber, n, n.MIDI())
	}
	if r.Duration != 0 {
		if n, err = n.WithDuration(r.Duration); err != nil {
			return Note{}, err
		}
	}
	if r.Velocity != 0 {
		return n.WithVelocity(r.Velocity)
	}
	return n, nil
}

func notesToRecords(notes []Note) []NoteRecord {
	out := make([]NoteRecord, len(notes))
	for i, n := range notes {
		out[i] = n.ToRecord()
	}
	return out
}

func notesFromRecords(records []NoteRecord) ([]Note, error) {
	out := make([]Note, len(records))
	for i, r := range records {
		n, err := NoteFromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("note %d: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}

func (s Scale) ToRecord() ScaleRecord {
	return ScaleRecord{
		Root:    s.root.ToRecord(),
		Quality: string(s.quality),
		Notes:   notesToRecords(s.notes),
		Closed:  s.closed,
	}
}

// ScaleFromRecord rebuilds a Scale from its root and quality; the note list
// is regenerated.
func ScaleFromRecord(r ScaleRecord) (Scale, error) {
	root, err := NoteFromRecord(r.Root)
	if err != nil {
		return Scale{}, fmt.Errorf("scale root: %w", err)
	}
	quality, err := ParseScaleQuality(r.Quality)
	if err != nil {
		return Scale{}, err
	}
	var opts []ScaleOption
	if quality == ScaleAugmented && r.Closed {
		opts = append(opts, CloseAugmented())
	}
	return BuildScale(root, quality, opts...)
}

func (c Chord) ToRecord() ChordRecord {
	return ChordRecord{
		Root:      c.root.ToRecord(),
		Quality:   string(c.quality),
		Inversion: c.inversion,
		Notes:     notesToRecords(c.notes),
		Bass:      c.Bass().ToRecord(),
		Symbol:    c.Symbol(),
	}
}

// ChordFromRecord rebuilds a Chord, keeping the recorded voicing when present.
func ChordFromRecord(r ChordRecord) (Chord, error) {
	root, err := NoteFromRecord(r.Root)
	if err != nil {
		return Chord{}, fmt.Errorf("chord root: %w", err)
	}
	quality, err := ParseChordQuality(r.Quality)
	if err != nil {
		return Chord{}, err
	}
	if len(r.Notes) == 0 {
		return BuildChord(root, quality, r.Inversion)
	}
	notes, err := notesFromRecords(r.Notes)
	if err != nil {
		return Chord{}, fmt.Errorf("chord notes: %w", err)
	}
	return NewChordFromNotes(root, quality, r.Inversion, notes)
}

func (r RomanNumeral) ToRecord() RomanNumeralRecord {
	rec := RomanNumeralRecord{
		Numeral:   r.numeral,
		Degree:    r.degree,
		Quality:   string(r.Quality()),
		Inversion: r.inversion,
		Flattened: r.flattened,
	}
	if r.scale != nil {
		s := r.scale.ToRecord()
		rec.Scale = &s
	}
	return rec
}

// RomanNumeralFromRecord reparses the numeral and rebinds its scale.
func RomanNumeralFromRecord(rec RomanNumeralRecord) (RomanNumeral, error) {
	r, err := ParseRomanNumeral(rec.Numeral)
	if err != nil {
		return RomanNumeral{}, err
	}
	if rec.Scale == nil {
		return r, nil
	}
	scale, err := ScaleFromRecord(*rec.Scale)
	if err != nil {
		return RomanNumeral{}, err
	}
	return r.Bind(scale), nil
}
