package handlers

import (
	"net/http"
	"time"

	"github.com/Conceptual-Machines/note-gen/internal/logger"
	"github.com/Conceptual-Machines/note-gen/internal/theory"
	"github.com/gin-gonic/gin"
)

// RomanRequest analyses a numeral, optionally against a key
type RomanRequest struct {
	Numeral      string `json:"numeral" binding:"required"`
	Key          string `json:"key"`
	ScaleQuality string `json:"scale_quality"`
}

type RomanResponse struct {
	Numeral        string                    `json:"numeral"`
	Canonical      string                    `json:"canonical"`
	Degree         int                       `json:"degree"`
	Quality        string                    `json:"quality"`
	Inversion      int                       `json:"inversion"`
	Major          bool                      `json:"major"`
	Diminished     bool                      `json:"diminished"`
	HalfDiminished bool                      `json:"half_diminished"`
	Augmented      bool                      `json:"augmented"`
	Seventh        bool                      `json:"seventh"`
	Ninth          bool                      `json:"ninth"`
	Eleventh       bool                      `json:"eleventh"`
	Flattened      bool                      `json:"flattened"`
	Secondary      string                    `json:"secondary,omitempty"`
	Record         theory.RomanNumeralRecord `json:"record"`
	Note           *theory.NoteRecord        `json:"note,omitempty"`
	Chord          *ChordResponse            `json:"chord,omitempty"`
}

// AnalyzeRoman parses a numeral and, when a key is given, resolves its root
// note and chord.
func (h *TheoryHandler) AnalyzeRoman(c *gin.Context) {
	var req RomanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	start := time.Now()
	resp, err := h.analyzeRoman(req)
	h.track(c.Request.Context(), "roman.analyze", start, err, logger.Fields{"numeral": req.Numeral, "key": req.Key})
	if err != nil {
		respondError(c, h.cloudwatch, "roman.analyze", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *TheoryHandler) analyzeRoman(req RomanRequest) (RomanResponse, error) {
	rn, err := theory.ParseRomanNumeral(req.Numeral)
	if err != nil {
		return RomanResponse{}, err
	}

	if req.Key != "" {
		scale, err := buildScale(req.Key, req.ScaleQuality, h.cfg.DefaultOctave, false)
		if err != nil {
			return RomanResponse{}, err
		}
		rn = rn.Bind(scale)
	}

	resp := RomanResponse{
		Numeral:        rn.Numeral(),
		Canonical:      rn.String(),
		Degree:         rn.Degree(),
		Quality:        string(rn.Quality()),
		Inversion:      rn.Inversion(),
		Major:          rn.IsMajor(),
		Diminished:     rn.IsDiminished(),
		HalfDiminished: rn.IsHalfDiminished(),
		Augmented:      rn.IsAugmented(),
		Seventh:        rn.HasSeventh(),
		Ninth:          rn.HasNinth(),
		Eleventh:       rn.HasEleventh(),
		Flattened:      rn.IsFlattened(),
		Record:         rn.ToRecord(),
	}
	if sec, ok := rn.Secondary(); ok {
		resp.Secondary = sec.String()
	}

	if _, bound := rn.Scale(); !bound {
		return resp, nil
	}

	note, err := rn.Note()
	if err != nil {
		return RomanResponse{}, err
	}
	chord, err := rn.Chord()
	if err != nil {
		return RomanResponse{}, err
	}
	rec := note.ToRecord()
	chordResp := newChordResponse(chord)
	resp.Note = &rec
	resp.Chord = &chordResp
	return resp, nil
}
