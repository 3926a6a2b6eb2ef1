package logger

import (
	"bytes"
	"errors"
	"log"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	flags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return &buf
}

func TestFormatFieldsSortsKeys(t *testing.T) {
	got := formatFields(Fields{
		"scale":       "C4 major",
		"duration_ms": int64(3),
		"chords":      4,
		"ratio":       0.5,
	})
	assert.Equal(t, "{chords=4, duration_ms=3, ratio=0.50, scale=C4 major}", got)
	assert.Equal(t, "", formatFields(nil))
}

func TestLevels(t *testing.T) {
	buf := captureLog(t)

	Info("built scale", Fields{"quality": "major"})
	Warn("slow request", nil)
	Debug("cache miss", Fields{"key": "C4"})
	Error("generation failed", errors.New("boom"), Fields{"operation": "progression"})

	out := buf.String()
	assert.Contains(t, out, "[INFO] built scale {quality=major}")
	assert.Contains(t, out, "[WARN] slow request")
	assert.Contains(t, out, "[DEBUG] cache miss {key=C4}")
	assert.Contains(t, out, "[ERROR] generation failed: boom {operation=progression}")
}

func TestWithContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/notes/C4", nil)
	c.Set("request_id", "req-1")
	c.Set("user_id_str", "anonymous")

	fields := WithContext(c)
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/v1/notes/C4", fields["path"])
	assert.Equal(t, "anonymous", fields["user_id"])
}
