package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Conceptual-Machines/note-gen/internal/logger"
	"github.com/Conceptual-Machines/note-gen/internal/theory"
	"github.com/gin-gonic/gin"
)

type NoteResponse struct {
	Note       theory.NoteRecord `json:"note"`
	Name       string            `json:"name"`
	PitchClass int               `json:"pitch_class"`
	Enharmonic theory.NoteRecord `json:"enharmonic"`
}

func newNoteResponse(n theory.Note) NoteResponse {
	return NoteResponse{
		Note:       n.ToRecord(),
		Name:       n.String(),
		PitchClass: n.PitchClass(),
		Enharmonic: n.Enharmonic().ToRecord(),
	}
}

// GetNote parses a note token such as "C#4" or "Eb"
func (h *TheoryHandler) GetNote(c *gin.Context) {
	start := time.Now()
	n, err := parseNoteToken(c.Param("note"), h.cfg.DefaultOctave)
	h.track(c.Request.Context(), "note.parse", start, err, logger.Fields{"note": c.Param("note")})
	if err != nil {
		respondError(c, h.cloudwatch, "note.parse", err)
		return
	}

	c.JSON(http.StatusOK, newNoteResponse(n))
}

// GetNoteFromMIDI spells a MIDI number; ?spelling=flats prefers flats
func (h *TheoryHandler) GetNoteFromMIDI(c *gin.Context) {
	start := time.Now()
	n, err := h.noteFromMIDI(c.Param("number"), c.Query("spelling"))
	h.track(c.Request.Context(), "note.from_midi", start, err, logger.Fields{"midi": c.Param("number")})
	if err != nil {
		respondError(c, h.cloudwatch, "note.from_midi", err)
		return
	}

	c.JSON(http.StatusOK, newNoteResponse(n))
}

func (h *TheoryHandler) noteFromMIDI(number, spelling string) (theory.Note, error) {
	midi, err := strconv.Atoi(number)
	if err != nil {
		return theory.Note{}, fmt.Errorf("%w: %q is not a number", theory.ErrInvalidMIDINumber, number)
	}
	policy, err := theory.ParseSpellingPolicy(spelling)
	if err != nil {
		return theory.Note{}, err
	}
	return theory.FromMIDIWithPolicy(midi, policy)
}

type TransposeNoteRequest struct {
	Note      string `json:"note" binding:"required"`
	Semitones int    `json:"semitones"`
	Spelling  string `json:"spelling"`
}

type TransposeNoteResponse struct {
	From      NoteResponse `json:"from"`
	To        NoteResponse `json:"to"`
	Semitones int          `json:"semitones"`
}

// TransposeNote shifts a note by semitones. Without an explicit spelling the
// result follows the source note's accidental direction.
func (h *TheoryHandler) TransposeNote(c *gin.Context) {
	var req TransposeNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	start := time.Now()
	from, to, err := h.transposeNote(req)
	h.track(c.Request.Context(), "note.transpose", start, err, logger.Fields{"note": req.Note, "semitones": req.Semitones})
	if err != nil {
		respondError(c, h.cloudwatch, "note.transpose", err)
		return
	}

	c.JSON(http.StatusOK, TransposeNoteResponse{
		From:      newNoteResponse(from),
		To:        newNoteResponse(to),
		Semitones: req.Semitones,
	})
}

func (h *TheoryHandler) transposeNote(req TransposeNoteRequest) (theory.Note, theory.Note, error) {
	from, err := parseNoteToken(req.Note, h.cfg.DefaultOctave)
	if err != nil {
		return theory.Note{}, theory.Note{}, err
	}
	policy := theory.PolicyForAccidental(from.Accidental())
	if req.Spelling != "" {
		if policy, err = theory.ParseSpellingPolicy(req.Spelling); err != nil {
			return theory.Note{}, theory.Note{}, err
		}
	}
	to, err := from.TransposeWithPolicy(req.Semitones, policy)
	if err != nil {
		return theory.Note{}, theory.Note{}, err
	}
	return from, to, nil
}
