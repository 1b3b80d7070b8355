package xlog_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/idealloc/xlog"
)

func TestNew_NonFileWriterEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := xlog.New(&buf, zerolog.InfoLevel)
	logger.Info().Str("stage", "boxing").Msg("started")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "started", decoded["message"])
	require.Equal(t, "boxing", decoded["stage"])
}

func TestNew_RespectsLevelFloor(t *testing.T) {
	var buf bytes.Buffer
	logger := xlog.New(&buf, zerolog.WarnLevel)
	logger.Debug().Msg("should be dropped")
	require.Empty(t, buf.Bytes())

	logger.Warn().Msg("should pass")
	require.NotEmpty(t, buf.Bytes())
}

func TestSetLevel_AdjustsPackageLogger(t *testing.T) {
	xlog.SetLevel(zerolog.ErrorLevel)
	defer xlog.SetLevel(zerolog.InfoLevel)
	require.Equal(t, zerolog.ErrorLevel, xlog.L.GetLevel())
}
