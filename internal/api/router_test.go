package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Conceptual-Machines/note-gen/internal/api/handlers"
	"github.com/Conceptual-Machines/note-gen/internal/config"
	"github.com/Conceptual-Machines/note-gen/internal/models"
	"github.com/Conceptual-Machines/note-gen/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepo is an in-memory ProgressionRepository
type memoryRepo struct {
	mu   sync.Mutex
	rows map[string]models.Progression
	tick time.Time
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[string]models.Progression{}, tick: time.Unix(1700000000, 0)}
}

func (r *memoryRepo) Create(_ context.Context, p *models.Progression) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := p.BeforeCreate(nil); err != nil {
		return err
	}
	r.tick = r.tick.Add(time.Second)
	p.CreatedAt = r.tick
	p.UpdatedAt = r.tick
	r.rows[p.ID] = *p
	return nil
}

func (r *memoryRepo) Get(_ context.Context, id string) (*models.Progression, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", services.ErrProgressionNotFound, id)
	}
	return &p, nil
}

func (r *memoryRepo) List(_ context.Context, limit int) ([]models.Progression, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Progression, 0, len(r.rows))
	for _, p := range r.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit = services.ClampLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return fmt.Errorf("%w: %s", services.ErrProgressionNotFound, id)
	}
	delete(r.rows, id)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:          "test",
		AuthMode:             "none",
		CORSAllowedOrigins:   []string{"*"},
		DefaultOctave:        4,
		MaxProgressionLength: 32,
	}
}

func setupTestRouter(cfg *config.Config, repo services.ProgressionRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRouter(cfg, repo, nil, "test")
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthAndMetrics(t *testing.T) {
	router := setupTestRouter(testConfig(), nil)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[map[string]interface{}](t, w)
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "disabled", health["persistence"].(map[string]interface{})["status"])

	w = doJSON(t, router, http.MethodGet, "/api/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	m := decode[handlers.MetricsResponse](t, w)
	assert.Equal(t, "test", m.Version)
	assert.EqualValues(t, 16, m.API["scale_qualities"])
}

func TestNoteRoutes(t *testing.T) {
	router := setupTestRouter(testConfig(), nil)

	w := doJSON(t, router, http.MethodGet, "/api/v1/notes/Eb", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	note := decode[handlers.NoteResponse](t, w)
	assert.Equal(t, "Eb4", note.Name)
	assert.Equal(t, 63, note.Note.MIDINumber)
	assert.Equal(t, "D", note.Enharmonic.Letter)
	assert.Equal(t, "#", note.Enharmonic.Accidental)

	w = doJSON(t, router, http.MethodGet, "/api/v1/notes/F%234", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "F#4", decode[handlers.NoteResponse](t, w).Name)

	w = doJSON(t, router, http.MethodGet, "/api/v1/notes/H4", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid input", decode[map[string]string](t, w)["error"])
}

func TestNoteFromMIDIRoute(t *testing.T) {
	router := setupTestRouter(testConfig(), nil)

	tests := []struct {
		path   string
		status int
		name   string
	}{
		{"/api/v1/notes/midi/61", http.StatusOK, "C#4"},
		{"/api/v1/notes/midi/61?spelling=flats", http.StatusOK, "Db4"},
		{"/api/v1/notes/midi/0", http.StatusOK, "C-1"},
		{"/api/v1/notes/midi/128", http.StatusBadRequest, ""},
		{"/api/v1/notes/midi/abc", http.StatusBadRequest, ""},
		{"/api/v1/notes/midi/60?spelling=weird", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := doJSON(t, router, http.MethodGet, tt.path, nil)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.name, decode[handlers.NoteResponse](t, w).Name)
			}
		})
	}
}

func TestTransposeNoteRoute(t *testing.T) {
	router := setupTestRouter(testConfig(), nil)

	tests := []struct {
		body map[string]interface{}
		want string
	}{
		{map[string]interface{}{"note": "Bb3", "semitones": 2}, "C4"},
		{map[string]interface{}{"note": "Eb4", "semitones": 3}, "Gb4"},
		{map[string]interface{}{"note": "E4", "semitones": 2}, "F#4"},
		{map[string]interface{}{"note": "E4", "semitones": 2, "spelling": "flats"}, "Gb4"},
		{map[string]interface{}{"note": "C4", "semitones": -12}, "C3"},
	}

	for _, tt := range tests {
		w := doJSON(t, router, http.MethodPost, "/api/v1/notes/transpose", tt.body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, tt.want, decode[handlers.TransposeNoteResponse](t, w).To.Name, tt.body)
	}

	w := doJSON(t, router, http.MethodPost, "/api/v1/notes/transpose", map[string]interface{}{"note": "G9", "semitones": 12})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/notes/transpose", map[string]interface{}{"semitones": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decode[map[string]string](t, w)["error"])
}

func TestScaleRoutes(t *testing.T) {
	router := setupTestRouter(testConfig(), nil)

	w := doJSON(t, router, http.MethodGet, "/api/v1/scales/qualities", nil)
	require.Equal(t, http.StatusOK, w.Code)
	qualities := decode[map[string][]handlers.ScaleQualityInfo](t, w)["qualities"]
	assert.Len(t, qualities, 16)

	w = doJSON(t, router, http.MethodPost, "/api/v1/scales", map[string]interface{}{"root": "D", "quality": "major"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	scale := decode[handlers.ScaleResponse](t, w)
	assert.Equal(t, []string{"D4", "E4", "F#4", "G4", "A4", "B4", "C#5", "D5"}, scale.Names)
	assert.Len(t, scale.Degrees, 7)
	assert.Equal(t, "sharps", scale.Spelling)
	assert.True(t, scale.Scale.Closed)

	w = doJSON(t, router, http.MethodPost, "/api/v1/scales", map[string]interface{}{"root": "C4", "quality": "augmented", "close_augmented": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[handlers.ScaleResponse](t, w).Names, 7)

	w = doJSON(t, router, http.MethodPost, "/api/v1/scales", map[string]interface{}{"root": "C4", "quality": "bebop"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChordRoutes(t *testing.T) {
	router := setupTestRouter(testConfig(), nil)

	w := doJSON(t, router, http.MethodGet, "/api/v1/chords/qualities", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]handlers.ChordQualityInfo](t, w)["qualities"], 23)

	tests := []struct {
		name   string
		body   map[string]interface{}
		midi   []int
		symbol string
	}{
		{"root and quality", map[string]interface{}{"root": "C4", "quality": "maj7"}, []int{60, 64, 67, 71}, "Cmaj7"},
		{"inversion", map[string]interface{}{"root": "C4", "quality": "major", "inversion": 1}, []int{64, 67, 72}, "C/E"},
		{"flat root spells flats", map[string]interface{}{"root": "Bb3", "quality": "m7"}, []int{58, 61, 65, 68}, "Bbm7"},
		{"symbol", map[string]interface{}{"symbol": "Am/C"}, []int{72, 76, 81}, "Am/C"},
		{"symbol with octave", map[string]interface{}{"symbol": "G7", "octave": 3}, []int{55, 59, 62, 65}, "G7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/v1/chords", tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			chord := decode[handlers.ChordResponse](t, w)
			assert.Equal(t, tt.midi, chord.MIDI)
			assert.Equal(t, tt.symbol, chord.Chord.Symbol)
		})
	}

	for _, body := range []map[string]interface{}{
		{},
		{"root": "C4", "quality": "mystery"},
		{"root": "C4", "inversion": -1},
		{"symbol": "C/D"},
	} {
		w := doJSON(t, router, http.MethodPost, "/api/v1/chords", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestTransposeChordRoute(t *testing.T) {
	router := setupTestRouter(testConfig(), nil)

	w := doJSON(t, router, http.MethodPost, "/api/v1/chords/transpose", map[string]interface{}{
		"root": "C4", "quality": "minor", "inversion": 1, "semitones": 2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[handlers.TransposeChordResponse](t, w)
	assert.Equal(t, []int{65, 69, 74}, resp.To.MIDI)
	assert.Equal(t, 1, resp.To.Chord.Inversion)
	assert.Equal(t, "minor", resp.To.Chord.Quality)

	w = doJSON(t, router, http.MethodPost, "/api/v1/chords/transpose", map[string]interface{}{
		"root": "C4", "semitones": 100,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRomanRoute(t *testing.T) {
	router := setupTestRouter(testConfig(), nil)

	w := doJSON(t, router, http.MethodPost, "/api/v1/roman", map[string]interface{}{"numeral": "V7", "key": "C"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[handlers.RomanResponse](t, w)
	assert.Equal(t, 5, resp.Degree)
	assert.Equal(t, "dominant7", resp.Quality)
	assert.True(t, resp.Seventh)
	require.NotNil(t, resp.Note)
	assert.Equal(t, 67, resp.Note.MIDINumber)
	require.NotNil(t, resp.Chord)
	assert.Equal(t, []int{67, 71, 74, 77}, resp.Chord.MIDI)

	w = doJSON(t, router, http.MethodPost, "/api/v1/roman", map[string]interface{}{"numeral": "bVI", "key": "C4"})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[handlers.RomanResponse](t, w)
	assert.True(t, resp.Flattened)
	assert.Equal(t, "A", resp.Note.Letter)
	assert.Equal(t, "b", resp.Note.Accidental)

	w = doJSON(t, router, http.MethodPost, "/api/v1/roman", map[string]interface{}{"numeral": "IImin7"})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[handlers.RomanResponse](t, w)
	assert.Equal(t, "ii7", resp.Canonical)
	assert.Equal(t, "minor7", resp.Quality)
	assert.Nil(t, resp.Note)
	assert.Nil(t, resp.Chord)

	w = doJSON(t, router, http.MethodPost, "/api/v1/roman", map[string]interface{}{"numeral": "V/V", "key": "C"})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[handlers.RomanResponse](t, w)
	assert.Equal(t, "V", resp.Secondary)
	assert.Equal(t, 74, resp.Note.MIDINumber)

	w = doJSON(t, router, http.MethodPost, "/api/v1/roman", map[string]interface{}{"numeral": "VIII", "key": "C"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/roman", map[string]interface{}{"numeral": "vi", "key": "C", "scale_quality": "pentatonic_major"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateProgressionRoute(t *testing.T) {
	router := setupTestRouter(testConfig(), nil)

	tests := []struct {
		name    string
		body    map[string]interface{}
		source  string
		symbols []string
	}{
		{"pattern", map[string]interface{}{"key": "C", "pattern": "I-IV-V-I"}, "pattern", []string{"C", "F", "G", "C"}},
		{"pattern alias", map[string]interface{}{"key": "G", "pattern": "pop"}, "pattern", []string{"G", "D", "Em", "C"}},
		{"numerals list", map[string]interface{}{"key": "F", "numerals": []string{"ii7", "V7", "Imaj7"}}, "numerals", []string{"Gm7", "C7", "Fmaj7"}},
		{"numerals string", map[string]interface{}{"key": "C", "progression": "I-vi-IV-V"}, "numerals", []string{"C", "Am", "F", "G"}},
		{"degrees", map[string]interface{}{"key": "A3", "scale_quality": "minor", "degrees": []int{1, 4, 5}}, "custom", []string{"Am", "Dm", "Em"}},
		{"degrees with qualities", map[string]interface{}{"key": "C", "degrees": []int{2, 5}, "qualities": []string{"m7", "7"}}, "custom", []string{"Dm7", "G7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/v1/progressions/generate", tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			resp := decode[handlers.ProgressionResponse](t, w)
			assert.Equal(t, tt.source, resp.Source)
			assert.Equal(t, tt.symbols, resp.Symbols)
			assert.Len(t, resp.Chords, len(tt.symbols))
			assert.Empty(t, resp.ID)
		})
	}
}

func TestGenerateRandomProgressionIsSeeded(t *testing.T) {
	router := setupTestRouter(testConfig(), nil)
	body := map[string]interface{}{"key": "E", "scale_quality": "minor", "random_length": 12, "seed": 99}

	first := decode[handlers.ProgressionResponse](t, doJSON(t, router, http.MethodPost, "/api/v1/progressions/generate", body))
	second := decode[handlers.ProgressionResponse](t, doJSON(t, router, http.MethodPost, "/api/v1/progressions/generate", body))

	assert.Len(t, first.Symbols, 12)
	assert.Equal(t, first.Symbols, second.Symbols)
	assert.Equal(t, "E", first.Chords[0].Chord.Root.Letter)
}

func TestGenerateProgressionErrors(t *testing.T) {
	cfg := testConfig()
	cfg.MaxProgressionLength = 8
	router := setupTestRouter(cfg, nil)

	for _, body := range []map[string]interface{}{
		{"key": "C"},
		{"key": "C", "pattern": "I-IV-V-I", "random_length": 4},
		{"key": "C", "pattern": "nope"},
		{"key": "C", "random_length": 9},
		{"key": "C", "degrees": []int{1, 9}},
		{"key": "C", "degrees": []int{1, 4}, "qualities": []string{"major"}},
		{"key": "C", "numerals": []string{"I", "X"}},
		{"key": "Q", "pattern": "I-IV-V-I"},
	} {
		w := doJSON(t, router, http.MethodPost, "/api/v1/progressions/generate", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestGenerateSequence(t *testing.T) {
	router := setupTestRouter(testConfig(), nil)

	tests := []struct {
		name  string
		body  map[string]interface{}
		notes []int
		mode  string
	}{
		{
			"named pattern",
			map[string]interface{}{"key": "C", "progression": "I-IV", "note_pattern": "arpeggio"},
			[]int{60, 64, 67, 72, 65, 69, 72, 77},
			"chord_tone",
		},
		{
			"named pattern with direction override",
			map[string]interface{}{"key": "C", "pattern": "I-IV-V-I", "note_pattern": "arpeggio", "direction": "down"},
			[]int{72, 67, 64, 60, 77, 72, 69, 65, 79, 74, 71, 67, 72, 67, 64, 60},
			"chord_tone",
		},
		{
			"inline offsets default to scale steps",
			map[string]interface{}{"key": "G", "degrees": []int{1, 5}, "offsets": []int{0, 2, 4}},
			[]int{67, 71, 74, 74, 78, 81},
			"scale",
		},
		{
			"inline interval offsets",
			map[string]interface{}{"key": "A", "scale_quality": "minor", "numerals": []string{"i"}, "offsets": []int{0, 3, 7}, "mode": "interval"},
			[]int{69, 72, 76},
			"interval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/v1/sequences/generate", tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			resp := decode[handlers.SequenceResponse](t, w)
			assert.Equal(t, tt.notes, resp.MIDINumbers)
			assert.Len(t, resp.Notes, len(tt.notes))
			assert.Len(t, resp.ChordIndex, len(tt.notes))
			assert.Equal(t, tt.mode, string(resp.Pattern.Mode))
			assert.NotEmpty(t, resp.Progression.Symbols)
		})
	}
}

func TestGenerateSequenceSpelling(t *testing.T) {
	router := setupTestRouter(testConfig(), nil)

	w := doJSON(t, router, http.MethodPost, "/api/v1/sequences/generate", map[string]interface{}{
		"key": "F", "progression": "ii", "note_pattern": "ascending_scale", "velocity": 90, "duration": 0.5,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[handlers.SequenceResponse](t, w)

	names := make([]string, len(resp.Notes))
	for i, n := range resp.Notes {
		names[i] = n.Letter + n.Accidental + fmt.Sprint(n.Octave)
		assert.Equal(t, 90, n.Velocity)
		assert.Equal(t, 0.5, n.Duration)
	}
	assert.Equal(t, []string{"G4", "A4", "Bb4", "C5", "D5", "E5", "F5", "G5"}, names)
}

func TestGenerateSequenceErrors(t *testing.T) {
	router := setupTestRouter(testConfig(), nil)

	for _, body := range []map[string]interface{}{
		{"key": "C", "progression": "I-IV"},
		{"key": "C", "progression": "I-IV", "note_pattern": "nope"},
		{"key": "C", "progression": "I-IV", "note_pattern": "arpeggio", "offsets": []int{0, 1}},
		{"key": "C", "progression": "I-IV", "offsets": []int{0, 1}, "mode": "zigzag"},
		{"key": "C", "progression": "I-IV", "offsets": []int{0}, "direction": "sideways"},
		{"key": "C", "progression": "I-IV", "note_pattern": "arpeggio", "velocity": 300},
		{"key": "C", "note_pattern": "arpeggio"},
		{"key": "C", "progression": "I-X", "note_pattern": "arpeggio"},
		{"key": "C", "progression": "I", "offsets": []int{101}, "mode": "interval"},
	} {
		w := doJSON(t, router, http.MethodPost, "/api/v1/sequences/generate", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	w := doJSON(t, router, http.MethodPost, "/api/v1/sequences/generate", map[string]interface{}{"note_pattern": "arpeggio"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "key is required")
}

func TestListNotePatterns(t *testing.T) {
	router := setupTestRouter(testConfig(), nil)

	w := doJSON(t, router, http.MethodGet, "/api/v1/sequences/patterns", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Patterns []struct {
			Name string `json:"name"`
			Mode string `json:"mode"`
		} `json:"patterns"`
	}](t, w)
	require.NotEmpty(t, resp.Patterns)
	assert.Equal(t, "arpeggio", resp.Patterns[0].Name)
	assert.Equal(t, "chord_tone", resp.Patterns[0].Mode)
}

func TestProgressionCRUDRequiresPersistence(t *testing.T) {
	router := setupTestRouter(testConfig(), nil)

	w := doJSON(t, router, http.MethodGet, "/api/v1/progressions", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/progressions/patterns", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "I-V-vi-iii-IV-I-IV-V")
}

func TestProgressionCRUD(t *testing.T) {
	repo := newMemoryRepo()
	router := setupTestRouter(testConfig(), repo)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Contains(t, w.Body.String(), `"status":"enabled"`)

	w = doJSON(t, router, http.MethodPost, "/api/v1/progressions", map[string]interface{}{
		"name": "turnaround", "key": "Bb3", "progression": "I-vi-ii-V7",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[handlers.ProgressionResponse](t, w)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "turnaround", created.Name)
	assert.Equal(t, []string{"Bb", "Gm", "Cm", "F7"}, created.Symbols)

	w = doJSON(t, router, http.MethodPost, "/api/v1/progressions", map[string]interface{}{"key": "C", "pattern": "blues"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/progressions?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Progressions []handlers.ProgressionResponse `json:"progressions"`
		Count        int                            `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, "I-IV-I-V", list.Progressions[0].Name)

	w = doJSON(t, router, http.MethodGet, "/api/v1/progressions?limit=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/progressions/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decode[handlers.ProgressionResponse](t, w)
	assert.Equal(t, created.Symbols, fetched.Symbols)
	assert.Equal(t, "numerals", fetched.Source)
	assert.NotNil(t, fetched.CreatedAt)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/progressions/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/progressions/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/progressions/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGatewayMode(t *testing.T) {
	cfg := testConfig()
	cfg.AuthMode = "gateway"
	router := setupTestRouter(cfg, nil)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/scales/qualities", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scales/qualities", nil)
	req.Header.Set("X-User-ID", "42")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGatewayDeleteRequiresAdmin(t *testing.T) {
	cfg := testConfig()
	cfg.AuthMode = "gateway"
	repo := newMemoryRepo()
	router := setupTestRouter(cfg, repo)

	send := func(method, path, role string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", "42")
		req.Header.Set("X-User-Role", role)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := send(http.MethodPost, "/api/v1/progressions", "user", map[string]interface{}{"key": "C", "pattern": "jazz"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[handlers.ProgressionResponse](t, w).ID

	w = send(http.MethodDelete, "/api/v1/progressions/"+id, "user", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = send(http.MethodDelete, "/api/v1/progressions/"+id, "admin", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	router := setupTestRouter(testConfig(), nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/scales", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
