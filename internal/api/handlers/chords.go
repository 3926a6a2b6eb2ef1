package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Conceptual-Machines/note-gen/internal/logger"
	"github.com/Conceptual-Machines/note-gen/internal/theory"
	"github.com/gin-gonic/gin"
)

type ChordQualityInfo struct {
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	Intervals []int  `json:"intervals"`
}

// ListChordQualities returns every chord quality with its symbol suffix
func (h *TheoryHandler) ListChordQualities(c *gin.Context) {
	qualities := theory.ChordQualities()
	out := make([]ChordQualityInfo, 0, len(qualities))
	for _, q := range qualities {
		intervals, _ := q.Intervals()
		out = append(out, ChordQualityInfo{
			Name:      string(q),
			Symbol:    q.Symbol(),
			Intervals: intervals,
		})
	}

	c.JSON(http.StatusOK, gin.H{"qualities": out})
}

// ChordRequest names a chord either by root and quality or by symbol
type ChordRequest struct {
	Root      string `json:"root"`
	Quality   string `json:"quality"`
	Inversion int    `json:"inversion"`
	Spelling  string `json:"spelling"`

	Symbol string `json:"symbol"`
	Octave *int   `json:"octave"`

	Semitones int `json:"semitones"` // transpose only
}

type ChordResponse struct {
	Chord   theory.ChordRecord  `json:"chord"`
	Voicing []theory.NoteRecord `json:"voicing"`
	MIDI    []int               `json:"midi"`
}

func newChordResponse(chord theory.Chord) ChordResponse {
	return ChordResponse{
		Chord:   chord.ToRecord(),
		Voicing: noteRecords(chord.Voicing()),
		MIDI:    chord.MIDINumbers(),
	}
}

// BuildChord builds a chord from {root, quality, inversion} or {symbol, octave}
func (h *TheoryHandler) BuildChord(c *gin.Context) {
	var req ChordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	start := time.Now()
	chord, err := h.resolveChord(req)
	h.track(c.Request.Context(), "chord.build", start, err, logger.Fields{"root": req.Root, "quality": req.Quality, "symbol": req.Symbol})
	if err != nil {
		respondError(c, h.cloudwatch, "chord.build", err)
		return
	}

	c.JSON(http.StatusOK, newChordResponse(chord))
}

type TransposeChordResponse struct {
	From      ChordResponse `json:"from"`
	To        ChordResponse `json:"to"`
	Semitones int           `json:"semitones"`
}

// TransposeChord shifts a chord, keeping its quality and inversion
func (h *TheoryHandler) TransposeChord(c *gin.Context) {
	var req ChordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	start := time.Now()
	from, err := h.resolveChord(req)
	var to theory.Chord
	if err == nil {
		to, err = from.Transpose(req.Semitones)
	}
	h.track(c.Request.Context(), "chord.transpose", start, err, logger.Fields{"semitones": req.Semitones})
	if err != nil {
		respondError(c, h.cloudwatch, "chord.transpose", err)
		return
	}

	c.JSON(http.StatusOK, TransposeChordResponse{
		From:      newChordResponse(from),
		To:        newChordResponse(to),
		Semitones: req.Semitones,
	})
}

func (h *TheoryHandler) resolveChord(req ChordRequest) (theory.Chord, error) {
	if req.Symbol != "" {
		octave := h.cfg.DefaultOctave
		if req.Octave != nil {
			octave = *req.Octave
		}
		return theory.ParseChordSymbol(req.Symbol, octave)
	}

	if req.Root == "" {
		return theory.Chord{}, fmt.Errorf("%w: either root or symbol is required", theory.ErrInvalidChord)
	}
	root, err := parseNoteToken(req.Root, h.cfg.DefaultOctave)
	if err != nil {
		return theory.Chord{}, err
	}

	quality := theory.ChordMajor
	if req.Quality != "" {
		if quality, err = theory.ParseChordQuality(req.Quality); err != nil {
			return theory.Chord{}, err
		}
	}

	policy := theory.PolicyForAccidental(root.Accidental())
	if req.Spelling != "" {
		if policy, err = theory.ParseSpellingPolicy(req.Spelling); err != nil {
			return theory.Chord{}, err
		}
	}

	return theory.BuildChord(root, quality, req.Inversion, theory.WithSpelling(policy))
}
