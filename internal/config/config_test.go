package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/scandec/internal/scanner"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.Formats)
	assert.Empty(t, cfg.AssetsDir)
	assert.Equal(t, OutputText, cfg.Output.Format)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(10), cfg.Server.MaxUploadMB)

	require.NoError(t, cfg.Validate())
}

func TestValidateLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "trace"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestValidateFormats(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Formats = []string{"qr", "nope"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")

	cfg.Formats = []string{"qr", "ean13", "maxicode"}
	require.NoError(t, cfg.Validate())
}

func TestValidateOutputFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Format = "xml"
	require.Error(t, cfg.Validate())
}

func TestValidateServer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.MaxUploadMB = -1
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.TimeoutSec = 0
	require.Error(t, cfg.Validate())
}

func TestSymbologies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Formats = []string{"qr", "code128"}
	syms, err := cfg.Symbologies()
	require.NoError(t, err)
	assert.Equal(t, []scanner.Symbology{scanner.SymbologyQRCode, scanner.SymbologyCode128}, syms)
}
