package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestTee_WritesJSONToSink(t *testing.T) {
	var buf bytes.Buffer
	logger := Tee(zap.NewNop(), zapcore.AddSync(&buf), false)

	logger.Info("orders polled", zap.Int("count", 3))
	logger.Debug("hidden")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "orders polled", entry["msg"])
	assert.EqualValues(t, 3, entry["count"])
}

func TestTee_NilSinkReturnsBase(t *testing.T) {
	base := zap.NewNop()
	assert.Same(t, base, Tee(base, nil, true))
}

func TestOpenSink(t *testing.T) {
	file, err := OpenSink("")
	require.NoError(t, err)
	assert.Nil(t, file)

	path := filepath.Join(t.TempDir(), "logs", "admin.log")
	file, err = OpenSink(path)
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.NoError(t, file.Close())
}
