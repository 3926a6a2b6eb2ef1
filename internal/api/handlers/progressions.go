package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Conceptual-Machines/note-gen/internal/config"
	"github.com/Conceptual-Machines/note-gen/internal/logger"
	"github.com/Conceptual-Machines/note-gen/internal/metrics"
	"github.com/Conceptual-Machines/note-gen/internal/models"
	"github.com/Conceptual-Machines/note-gen/internal/progression"
	"github.com/Conceptual-Machines/note-gen/internal/services"
	"github.com/Conceptual-Machines/note-gen/internal/theory"
	"github.com/gin-gonic/gin"
)

const (
	sourcePattern  = "pattern"
	sourceNumerals = "numerals"
	sourceCustom   = "custom"
	sourceRandom   = "random"
)

type ProgressionHandler struct {
	cfg           *config.Config
	repo          services.ProgressionRepository
	cloudwatch    *metrics.Client
	sentryMetrics *metrics.SentryMetrics
}

// NewProgressionHandler builds the handler; repo may be nil when persistence
// is disabled, in which case only Generate and ListPatterns are routed.
func NewProgressionHandler(cfg *config.Config, repo services.ProgressionRepository, cloudwatch *metrics.Client) *ProgressionHandler {
	return &ProgressionHandler{
		cfg:           cfg,
		repo:          repo,
		cloudwatch:    cloudwatch,
		sentryMetrics: metrics.NewSentryMetrics(),
	}
}

// GenerateRequest selects exactly one source: a named pattern, numerals
// (as a list or a "I-IV-V" string), degrees with optional qualities, or a
// random length.
type GenerateRequest struct {
	Name         string   `json:"name"`
	Key          string   `json:"key" binding:"required"`
	ScaleQuality string   `json:"scale_quality"`
	Pattern      string   `json:"pattern"`
	Numerals     []string `json:"numerals"`
	Progression  string   `json:"progression"`
	Degrees      []int    `json:"degrees"`
	Qualities    []string `json:"qualities"`
	RandomLength int      `json:"random_length"`
	Seed         *uint64  `json:"seed"`
}

type ProgressionResponse struct {
	ID           string          `json:"id,omitempty"`
	Name         string          `json:"name"`
	Key          string          `json:"key"`
	ScaleQuality string          `json:"scale_quality"`
	Source       string          `json:"source,omitempty"`
	Numerals     []string        `json:"numerals"`
	Symbols      []string        `json:"symbols"`
	Chords       []ChordResponse `json:"chords"`
	CreatedAt    *time.Time      `json:"created_at,omitempty"`
}

func newProgressionResponse(prog *progression.ChordProgression, source string) ProgressionResponse {
	chords := make([]ChordResponse, len(prog.Chords))
	for i, c := range prog.Chords {
		chords[i] = newChordResponse(c)
	}
	return ProgressionResponse{
		Name:         prog.Name,
		Key:          prog.Scale.Root().String(),
		ScaleQuality: string(prog.Scale.Quality()),
		Source:       source,
		Numerals:     prog.Numerals,
		Symbols:      prog.Symbols(),
		Chords:       chords,
	}
}

func newStoredResponse(row *models.Progression) (ProgressionResponse, error) {
	prog, err := row.ToChordProgression()
	if err != nil {
		return ProgressionResponse{}, err
	}
	resp := newProgressionResponse(prog, row.Source)
	resp.ID = row.ID
	created := row.CreatedAt
	resp.CreatedAt = &created
	return resp, nil
}

// ListPatterns returns the named progression patterns
func (h *ProgressionHandler) ListPatterns(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"patterns": progression.Patterns()})
}

// Generate builds a progression without storing it
func (h *ProgressionHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	prog, source, err := h.generateTracked(c, req)
	if err != nil {
		respondError(c, h.cloudwatch, "progression.generate", err)
		return
	}
	h.cloudwatch.RecordProgressionGenerated(source, prog.Len(), false)

	c.JSON(http.StatusOK, newProgressionResponse(prog, source))
}

// Create generates a progression and stores it
func (h *ProgressionHandler) Create(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	prog, source, err := h.generateTracked(c, req)
	if err != nil {
		respondError(c, h.cloudwatch, "progression.generate", err)
		return
	}

	row := models.NewProgression(prog, source)
	if err := h.repo.Create(c.Request.Context(), row); err != nil {
		respondError(c, h.cloudwatch, "progression.create", err)
		return
	}
	h.cloudwatch.RecordProgressionGenerated(source, prog.Len(), true)

	fields := logger.WithContext(c)
	fields["progression_id"] = row.ID
	fields["chords"] = prog.Len()
	logger.Info("Progression stored", fields)

	resp := newProgressionResponse(prog, source)
	resp.ID = row.ID
	created := row.CreatedAt
	resp.CreatedAt = &created
	c.JSON(http.StatusCreated, resp)
}

// List returns stored progressions, newest first; ?limit= caps the page
func (h *ProgressionHandler) List(c *gin.Context) {
	limit := services.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit", "details": err.Error()})
			return
		}
		limit = parsed
	}

	rows, err := h.repo.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.cloudwatch, "progression.list", err)
		return
	}

	out := make([]ProgressionResponse, 0, len(rows))
	for i := range rows {
		resp, err := newStoredResponse(&rows[i])
		if err != nil {
			respondError(c, h.cloudwatch, "progression.list", err)
			return
		}
		out = append(out, resp)
	}

	c.JSON(http.StatusOK, gin.H{"progressions": out, "count": len(out)})
}

func (h *ProgressionHandler) Get(c *gin.Context) {
	row, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.cloudwatch, "progression.get", err)
		return
	}

	resp, err := newStoredResponse(row)
	if err != nil {
		respondError(c, h.cloudwatch, "progression.get", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProgressionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.cloudwatch, "progression.delete", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Progression deleted", "id": id})
}

func (h *ProgressionHandler) generateTracked(c *gin.Context, req GenerateRequest) (*progression.ChordProgression, string, error) {
	start := time.Now()
	prog, source, err := h.generate(req)
	duration := time.Since(start)

	ctx := c.Request.Context()
	h.sentryMetrics.RecordTheoryOperation(ctx, "progression.generate", duration, err == nil)
	if err != nil {
		return nil, "", err
	}

	h.sentryMetrics.RecordProgressionGenerated(ctx, source, prog.Len())
	logger.LogTheoryOperation(ctx, "progression.generate", duration, logger.Fields{
		"key":    req.Key,
		"source": source,
		"chords": prog.Len(),
	})
	return prog, source, nil
}

func (h *ProgressionHandler) generate(req GenerateRequest) (*progression.ChordProgression, string, error) {
	source, err := requestSource(req)
	if err != nil {
		return nil, "", err
	}

	scale, err := buildScale(req.Key, req.ScaleQuality, h.cfg.DefaultOctave, false)
	if err != nil {
		return nil, "", err
	}

	opts := []progression.Option{progression.WithMaxLength(h.cfg.MaxProgressionLength)}
	if req.Seed != nil {
		opts = append(opts, progression.WithSeed(*req.Seed))
	}
	gen := progression.NewGenerator(scale, opts...)

	var prog *progression.ChordProgression
	switch source {
	case sourcePattern:
		prog, err = gen.FromPattern(req.Pattern)
	case sourceNumerals:
		if req.Progression != "" {
			prog, err = gen.FromString(req.Progression)
		} else {
			prog, err = gen.FromNumerals(req.Numerals)
		}
	case sourceCustom:
		var qualities []theory.ChordQuality
		if qualities, err = parseQualities(req.Qualities); err == nil {
			prog, err = gen.Custom(req.Degrees, qualities)
		}
	case sourceRandom:
		prog, err = gen.Random(req.RandomLength)
	}
	if err != nil {
		return nil, "", err
	}

	if req.Name != "" {
		prog.Name = req.Name
	}
	return prog, source, nil
}

// requestSource checks that exactly one generation source is set
func requestSource(req GenerateRequest) (string, error) {
	var sources []string
	if req.Pattern != "" {
		sources = append(sources, sourcePattern)
	}
	if len(req.Numerals) > 0 || req.Progression != "" {
		sources = append(sources, sourceNumerals)
	}
	if len(req.Degrees) > 0 {
		sources = append(sources, sourceCustom)
	}
	if req.RandomLength != 0 {
		sources = append(sources, sourceRandom)
	}

	switch {
	case len(sources) == 0:
		return "", fmt.Errorf("%w: one of pattern, numerals, progression, degrees or random_length is required", progression.ErrInvalidPattern)
	case len(sources) > 1:
		return "", fmt.Errorf("%w: conflicting sources %v", progression.ErrInvalidPattern, sources)
	case len(req.Numerals) > 0 && req.Progression != "":
		return "", fmt.Errorf("%w: give numerals as a list or a string, not both", progression.ErrInvalidPattern)
	}
	return sources[0], nil
}

func parseQualities(names []string) ([]theory.ChordQuality, error) {
	if names == nil {
		return nil, nil
	}
	out := make([]theory.ChordQuality, len(names))
	for i, name := range names {
		q, err := theory.ParseChordQuality(name)
		if err != nil {
			return nil, err
		}
		out[i] = q
	}
	return out, nil
}
