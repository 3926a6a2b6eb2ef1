package handlers

import (
	"net/http"
	"time"

	"github.com/Conceptual-Machines/note-gen/internal/logger"
	"github.com/Conceptual-Machines/note-gen/internal/theory"
	"github.com/gin-gonic/gin"
)

type ScaleQualityInfo struct {
	Name       string `json:"name"`
	Intervals  []int  `json:"intervals"`
	Heptatonic bool   `json:"heptatonic"`
}

// ListScaleQualities returns every supported scale quality with its intervals
func (h *TheoryHandler) ListScaleQualities(c *gin.Context) {
	qualities := theory.ScaleQualities()
	out := make([]ScaleQualityInfo, 0, len(qualities))
	for _, q := range qualities {
		intervals, _ := q.Intervals()
		out = append(out, ScaleQualityInfo{
			Name:       string(q),
			Intervals:  intervals,
			Heptatonic: q.IsHeptatonic(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"qualities": out})
}

type ScaleRequest struct {
	Root           string `json:"root" binding:"required"`
	Quality        string `json:"quality"`
	CloseAugmented bool   `json:"close_augmented"`
}

type ScaleDegreeInfo struct {
	Degree int               `json:"degree"`
	Note   theory.NoteRecord `json:"note"`
}

type ScaleResponse struct {
	Scale    theory.ScaleRecord `json:"scale"`
	Names    []string           `json:"names"`
	Degrees  []ScaleDegreeInfo  `json:"degrees"`
	Spelling string             `json:"spelling"`
}

// BuildScale generates the notes of a scale from its root and quality
func (h *TheoryHandler) BuildScale(c *gin.Context) {
	var req ScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	start := time.Now()
	scale, err := buildScale(req.Root, req.Quality, h.cfg.DefaultOctave, req.CloseAugmented)
	h.track(c.Request.Context(), "scale.build", start, err, logger.Fields{"root": req.Root, "quality": req.Quality})
	if err != nil {
		respondError(c, h.cloudwatch, "scale.build", err)
		return
	}

	c.JSON(http.StatusOK, newScaleResponse(scale))
}

func newScaleResponse(scale theory.Scale) ScaleResponse {
	names := make([]string, 0, scale.Len())
	for _, n := range scale.Notes() {
		names = append(names, n.String())
	}

	degrees := make([]ScaleDegreeInfo, 0, scale.DegreeCount())
	for _, d := range scale.ScaleDegrees() {
		degrees = append(degrees, ScaleDegreeInfo{Degree: d.Degree, Note: d.Note.ToRecord()})
	}

	return ScaleResponse{
		Scale:    scale.ToRecord(),
		Names:    names,
		Degrees:  degrees,
		Spelling: scale.SpellingPolicy().String(),
	}
}
