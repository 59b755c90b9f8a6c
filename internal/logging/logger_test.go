package logging_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"landval/internal/logging"
)

func TestFromZap_RecordsModuleAndDetails(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := logging.FromZap(zap.New(core))

	log.Info("session", "token validated", map[string]any{"user": "asha"})
	log.Error("predict", "submission failed", map[string]any{"error": errors.New("boom")})

	entries := logs.All()
	require.Len(t, entries, 2)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "session", ctx["module"])
	assert.Equal(t, map[string]any{"user": "asha"}, ctx["details"])

	assert.Equal(t, "submission failed", entries[1].Message)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestNewZapLogger_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "landval.log")
	log := logging.NewZapLogger(logging.Options{FilePath: path})

	log.Debug("options", "loaded", nil)
	_ = log.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(b))
	assert.Contains(t, line, `"module":"options"`)
	assert.Contains(t, line, `"message":"loaded"`)
	assert.Contains(t, line, `"level":"DEBUG"`)
}
