package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Options{Level: "warn", Format: "json", Writer: &buf})
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Str("date", "2025-05-20").Msg("fetch failed")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "2025-05-20", entry["date"])
	assert.Equal(t, "fetch failed", entry["message"])
}

func TestSetupRejectsBadOptions(t *testing.T) {
	_, err := Setup(Options{Level: "loud", Format: "json"})
	assert.Error(t, err)

	_, err = Setup(Options{Level: "info", Format: "xml"})
	assert.Error(t, err)

	assert.NoError(t, DefaultOptions().Validate())
}

func TestOpenFile(t *testing.T) {
	w, err := OpenFile("")
	require.NoError(t, err)
	_, err = w.Write([]byte("discarded"))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "timeblock.log")
	w, err = OpenFile(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("line\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data))
}
