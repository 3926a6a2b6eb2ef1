package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Conceptual-Machines/note-gen/internal/logger"
	"github.com/Conceptual-Machines/note-gen/internal/progression"
	"github.com/Conceptual-Machines/note-gen/internal/theory"
	"github.com/gin-gonic/gin"
)

// SequenceRequest generates a progression the same way GenerateRequest does
// and plays a note pattern over it. NotePattern names a built-in pattern;
// otherwise Offsets and Mode describe one inline.
type SequenceRequest struct {
	GenerateRequest
	NotePattern string  `json:"note_pattern"`
	Offsets     []int   `json:"offsets"`
	Mode        string  `json:"mode"`
	Direction   string  `json:"direction"`
	Duration    float64 `json:"duration"`
	Velocity    int     `json:"velocity"`
}

type SequenceResponse struct {
	Progression ProgressionResponse     `json:"progression"`
	Pattern     progression.NotePattern `json:"pattern"`
	Notes       []theory.NoteRecord     `json:"notes"`
	MIDINumbers []int                   `json:"midi_numbers"`
	ChordIndex  []int                   `json:"chord_index"`
}

// ListNotePatterns returns the built-in note patterns
func (h *ProgressionHandler) ListNotePatterns(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"patterns": progression.NotePatterns()})
}

// GenerateSequence builds a progression and renders a note pattern over it
func (h *ProgressionHandler) GenerateSequence(c *gin.Context) {
	var req SequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	pattern, err := notePatternFor(req)
	if err != nil {
		respondError(c, h.cloudwatch, "sequence.generate", err)
		return
	}

	prog, source, err := h.generateTracked(c, req.GenerateRequest)
	if err != nil {
		respondError(c, h.cloudwatch, "sequence.generate", err)
		return
	}

	start := time.Now()
	seq, err := progression.GenerateSequence(prog, pattern)
	duration := time.Since(start)

	ctx := c.Request.Context()
	h.sentryMetrics.RecordTheoryOperation(ctx, "sequence.generate", duration, err == nil)
	if err != nil {
		respondError(c, h.cloudwatch, "sequence.generate", err)
		return
	}
	logger.LogTheoryOperation(ctx, "sequence.generate", duration, logger.Fields{
		"key":     req.Key,
		"pattern": seq.Pattern.Name,
		"notes":   seq.Len(),
	})

	c.JSON(http.StatusOK, SequenceResponse{
		Progression: newProgressionResponse(prog, source),
		Pattern:     seq.Pattern,
		Notes:       seq.Records(),
		MIDINumbers: seq.MIDINumbers(),
		ChordIndex:  seq.Chords,
	})
}

// notePatternFor resolves the named or inline pattern; the request-level
// duration and velocity override the pattern's own.
func notePatternFor(req SequenceRequest) (progression.NotePattern, error) {
	var pattern progression.NotePattern
	switch {
	case req.NotePattern != "" && len(req.Offsets) > 0:
		return pattern, fmt.Errorf("%w: give note_pattern or offsets, not both", progression.ErrInvalidNotePattern)
	case req.NotePattern != "":
		var err error
		if pattern, err = progression.LookupNotePattern(req.NotePattern); err != nil {
			return pattern, err
		}
		if req.Direction != "" {
			pattern.Direction = progression.Direction(req.Direction)
		}
	case len(req.Offsets) > 0:
		pattern = progression.NotePattern{
			Name:      "custom",
			Offsets:   req.Offsets,
			Mode:      progression.PatternMode(req.Mode),
			Direction: progression.Direction(req.Direction),
		}
		if pattern.Mode == "" {
			pattern.Mode = progression.ModeScale
		}
	default:
		return pattern, fmt.Errorf("%w: note_pattern or offsets is required", progression.ErrInvalidNotePattern)
	}

	if req.Duration != 0 {
		pattern.Duration = req.Duration
	}
	if req.Velocity != 0 {
		pattern.Velocity = req.Velocity
	}
	if err := pattern.Validate(); err != nil {
		return progression.NotePattern{}, err
	}
	return pattern, nil
}
