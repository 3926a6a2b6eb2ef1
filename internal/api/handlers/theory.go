package handlers

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/Conceptual-Machines/note-gen/internal/config"
	"github.com/Conceptual-Machines/note-gen/internal/logger"
	"github.com/Conceptual-Machines/note-gen/internal/metrics"
	"github.com/Conceptual-Machines/note-gen/internal/theory"
)

// TheoryHandler serves the stateless note, scale, chord and roman numeral
// endpoints.
type TheoryHandler struct {
	cfg           *config.Config
	cloudwatch    *metrics.Client
	sentryMetrics *metrics.SentryMetrics
}

func NewTheoryHandler(cfg *config.Config, cloudwatch *metrics.Client) *TheoryHandler {
	return &TheoryHandler{
		cfg:           cfg,
		cloudwatch:    cloudwatch,
		sentryMetrics: metrics.NewSentryMetrics(),
	}
}

// track records the duration and outcome of one theory operation
func (h *TheoryHandler) track(ctx context.Context, operation string, start time.Time, err error, fields logger.Fields) {
	duration := time.Since(start)
	h.sentryMetrics.RecordTheoryOperation(ctx, operation, duration, err == nil)
	if err == nil {
		logger.LogTheoryOperation(ctx, operation, duration, fields)
	}
}

// parseNoteToken parses a note, placing it in the configured default octave
// when the token does not name one.
func parseNoteToken(token string, defaultOctave int) (theory.Note, error) {
	token = strings.TrimSpace(token)
	if token != "" && !unicode.IsDigit(rune(token[len(token)-1])) {
		n, err := theory.ParseNote(token)
		if err != nil {
			return theory.Note{}, err
		}
		return theory.NewNote(n.Letter(), n.Accidental(), defaultOctave)
	}
	return theory.ParseNote(token)
}

// buildScale resolves a key token and quality name into a scale
func buildScale(key, quality string, defaultOctave int, closeAugmented bool) (theory.Scale, error) {
	root, err := parseNoteToken(key, defaultOctave)
	if err != nil {
		return theory.Scale{}, err
	}
	if quality == "" {
		quality = string(theory.ScaleMajor)
	}
	q, err := theory.ParseScaleQuality(quality)
	if err != nil {
		return theory.Scale{}, err
	}

	var opts []theory.ScaleOption
	if closeAugmented {
		opts = append(opts, theory.CloseAugmented())
	}
	return theory.BuildScale(root, q, opts...)
}

func noteRecords(notes []theory.Note) []theory.NoteRecord {
	out := make([]theory.NoteRecord, len(notes))
	for i, n := range notes {
		out[i] = n.ToRecord()
	}
	return out
}
