package server

import (
	"errors"

	"github.com/MeKo-Tech/scandec/internal/scanner"
)

// Server exposes barcode decoding over HTTP.
type Server struct {
	decoder     scanner.Decoder
	corsOrigin  string
	maxUploadMB int64
	timeoutSec  int
}

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	CORSOrigin  string
	MaxUploadMB int64
	TimeoutSec  int
}

// Response types for API endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// FormatInfo describes one supported symbology and its engine tag.
type FormatInfo struct {
	Name      string `json:"name"`
	EngineTag string `json:"engine_tag"`
}

// FormatsResponse lists the symbologies the decode endpoint accepts.
type FormatsResponse struct {
	Formats []FormatInfo `json:"formats"`
}

// DecodeResponse carries a successful decode result.
type DecodeResponse struct {
	Text       string  `json:"text"`
	Format     string  `json:"format"`
	Engine     string  `json:"engine"`
	DurationMS float64 `json:"duration_ms"`
}

// ErrorResponse carries an API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewServer creates a server around an existing decoder.
func NewServer(cfg Config, dec scanner.Decoder) (*Server, error) {
	if dec == nil {
		return nil, errors.New("server: decoder is required")
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 10
	}
	return &Server{
		decoder:     dec,
		corsOrigin:  cfg.CORSOrigin,
		maxUploadMB: cfg.MaxUploadMB,
		timeoutSec:  cfg.TimeoutSec,
	}, nil
}
