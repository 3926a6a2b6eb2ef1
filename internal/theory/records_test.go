package theory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteRecordRoundTrip(t *testing.T) {
	n := mustNote(t, "F#3")
	n, err := n.WithVelocity(100)
	require.NoError(t, err)
	n, err = n.WithDuration(0.5)
	require.NoError(t, err)

	rec := n.ToRecord()
	assert.Equal(t, "F", rec.Letter)
	assert.Equal(t, "#", rec.Accidental)
	assert.Equal(t, 54, rec.MIDINumber)

	back, err := NoteFromRecord(rec)
	require.NoError(t, err)
	assert.True(t, n.SameSpelling(back))
	assert.Equal(t, 100, back.Velocity())
	assert.Equal(t, 0.5, back.Duration())
}

func TestNoteFromRecordDefaultsAndErrors(t *testing.T) {
	n, err := NoteFromRecord(NoteRecord{Letter: "A", Octave: 4, Velocity: DefaultVelocity})
	require.NoError(t, err)
	assert.Equal(t, DefaultDuration, n.Duration())

	n, err = NoteFromRecord(NoteRecord{Letter: "A", Octave: 4})
	require.NoError(t, err)
	assert.Equal(t, DefaultVelocity, n.Velocity(), "zero velocity means the default")
	assert.Equal(t, DefaultDuration, n.Duration())

	_, err = NoteFromRecord(NoteRecord{Letter: "A", Octave: 4, Velocity: 64, MIDINumber: 70})
	assert.ErrorIs(t, err, ErrInvalidNote)

	_, err = NoteFromRecord(NoteRecord{Letter: "Z", Octave: 4, Velocity: 64})
	assert.ErrorIs(t, err, ErrInvalidNote)
}

func TestNoteRecordJSON(t *testing.T) {
	data, err := json.Marshal(mustNote(t, "Bb3").ToRecord())
	require.NoError(t, err)
	assert.JSONEq(t, `{"letter":"B","accidental":"b","octave":3,"duration":1,"velocity":64,"midi_number":58}`, string(data))
}

func TestScaleRecordRoundTrip(t *testing.T) {
	for _, quality := range []ScaleQuality{ScaleMajor, ScaleHarmonicMinor, ScaleBlues, ScaleAugmented} {
		s := mustScale(t, "Eb4", quality)
		back, err := ScaleFromRecord(s.ToRecord())
		require.NoError(t, err, string(quality))
		assert.True(t, s.Equal(back), string(quality))
		assert.Equal(t, spellings(s.Notes()), spellings(back.Notes()), string(quality))
	}

	closed, err := BuildScale(mustNote(t, "C4"), ScaleAugmented, CloseAugmented())
	require.NoError(t, err)
	back, err := ScaleFromRecord(closed.ToRecord())
	require.NoError(t, err)
	assert.True(t, back.IsClosed())

	_, err = ScaleFromRecord(ScaleRecord{Root: NoteRecord{Letter: "C", Octave: 4, Velocity: 64}, Quality: "bebop"})
	assert.ErrorIs(t, err, ErrUnknownScaleQuality)
}

func TestChordRecordRoundTrip(t *testing.T) {
	c, err := BuildChord(mustNote(t, "A3"), ChordMinor7, 1, WithSpelling(PreferFlats))
	require.NoError(t, err)

	rec := c.ToRecord()
	assert.Equal(t, "Am7/C", rec.Symbol)
	assert.Equal(t, 60, rec.Bass.MIDINumber)

	back, err := ChordFromRecord(rec)
	require.NoError(t, err)
	assert.True(t, c.Equal(back))
	assert.Equal(t, 1, back.Inversion())
	assert.Equal(t, midiNumbers(c.Voicing()), midiNumbers(back.Voicing()))

	rec.Notes = nil
	rebuilt, err := ChordFromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, midiNumbers(c.Notes()), midiNumbers(rebuilt.Notes()))
}

func TestRomanNumeralRecordRoundTrip(t *testing.T) {
	r, err := NewRomanNumeral("bVII7", mustScale(t, "D4", ScaleMajor))
	require.NoError(t, err)

	rec := r.ToRecord()
	assert.Equal(t, 7, rec.Degree)
	assert.Equal(t, string(ChordDominant7), rec.Quality)
	assert.True(t, rec.Flattened)
	require.NotNil(t, rec.Scale)

	back, err := RomanNumeralFromRecord(rec)
	require.NoError(t, err)
	want, err := r.Note()
	require.NoError(t, err)
	got, err := back.Note()
	require.NoError(t, err)
	assert.True(t, want.SameSpelling(got))
	assert.Equal(t, "C5", got.String())

	unbound, err := ParseRomanNumeral("ii")
	require.NoError(t, err)
	urec := unbound.ToRecord()
	assert.Nil(t, urec.Scale)
	_, err = RomanNumeralFromRecord(urec)
	require.NoError(t, err)
}
