package handlers

import (
	"errors"
	"net/http"

	"github.com/Conceptual-Machines/note-gen/internal/logger"
	"github.com/Conceptual-Machines/note-gen/internal/metrics"
	"github.com/Conceptual-Machines/note-gen/internal/progression"
	"github.com/Conceptual-Machines/note-gen/internal/services"
	"github.com/Conceptual-Machines/note-gen/internal/theory"
	"github.com/gin-gonic/gin"
)

// statusForError maps the error taxonomy onto HTTP status codes
func statusForError(err error) int {
	switch {
	case theory.IsInputError(err),
		errors.Is(err, progression.ErrInvalidPattern),
		errors.Is(err, progression.ErrInvalidIndex),
		errors.Is(err, progression.ErrInvalidNotePattern):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrProgressionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body and logs it at a level matching its status
func respondError(c *gin.Context, cw *metrics.Client, operation string, err error) {
	status := statusForError(err)
	fields := logger.WithContext(c)
	fields["operation"] = operation
	fields["status_code"] = status

	var message string
	switch status {
	case http.StatusBadRequest:
		message = "Invalid input"
		logger.Warn(operation+" rejected: "+err.Error(), fields)
		cw.RecordTheoryError(operation)
	case http.StatusNotFound:
		message = "Not found"
	default:
		message = "Internal server error"
		logger.Error(operation+" failed", err, fields)
	}

	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

// bindError reports a malformed request body
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
}
