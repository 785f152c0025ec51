package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "golang.org/x/image/bmp"

	"github.com/MeKo-Tech/scandec/internal/decoder"
	"github.com/MeKo-Tech/scandec/internal/scanner"
	"github.com/MeKo-Tech/scandec/internal/version"
)

// Handler returns the server's HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.corsMiddleware(s.loggingMiddleware(s.healthHandler)))
	mux.HandleFunc("/formats", s.corsMiddleware(s.loggingMiddleware(s.formatsHandler)))
	mux.HandleFunc("/decode", s.corsMiddleware(s.loggingMiddleware(s.decodeHandler)))
	mux.HandleFunc("/scan", s.scanWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	v, _, _ := version.Info()
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: v,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// formatsHandler lists the symbologies the decoder supports.
func (s *Server) formatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	supported := decoder.SupportedFormats()
	resp := FormatsResponse{Formats: make([]FormatInfo, 0, len(supported))}
	for _, sym := range supported {
		tag, _ := decoder.EngineTag(sym)
		resp.Formats = append(resp.Formats, FormatInfo{Name: sym.String(), EngineTag: tag})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// decodeHandler processes an uploaded image and returns the decode result.
func (s *Server) decodeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	img, err := s.parseImageRequest(w, r)
	if err != nil {
		decodeRequestsTotal.WithLabelValues("error").Inc()
		return // error already written
	}

	start := time.Now()
	res, err := s.decoder.Decode(r.Context(), img)
	duration := time.Since(start)
	decodeDuration.WithLabelValues("http").Observe(duration.Seconds())

	if err != nil {
		s.writeDecodeError(w, err)
		return
	}

	decodeRequestsTotal.WithLabelValues("success").Inc()
	s.writeJSON(w, http.StatusOK, DecodeResponse{
		Text:       res.Text,
		Format:     res.Format.String(),
		Engine:     res.Debug.Engine,
		DurationMS: float64(duration.Microseconds()) / 1000.0,
	})
}

// writeDecodeError maps decode failures onto HTTP statuses: "nothing found"
// is a client-visible 404, an unmapped engine tag is a server fault.
func (s *Server) writeDecodeError(w http.ResponseWriter, err error) {
	var consistency *scanner.ConsistencyError
	switch {
	case errors.Is(err, scanner.ErrNotFound):
		decodeRequestsTotal.WithLabelValues("not_found").Inc()
		s.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: scanner.ErrNotFound.Error()})
	case errors.As(err, &consistency):
		decodeRequestsTotal.WithLabelValues("error").Inc()
		slog.Error("decoder/engine mismatch", "tag", consistency.Tag)
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: consistency.Error()})
	default:
		decodeRequestsTotal.WithLabelValues("error").Inc()
		s.writeJSON(w, http.StatusInternalServerError,
			ErrorResponse{Error: fmt.Sprintf("decode failed: %v", err)})
	}
}

func (s *Server) parseImageRequest(w http.ResponseWriter, r *http.Request) (image.Image, error) {
	maxBytes := s.maxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "failed to parse form data"})
		return nil, err
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "no image file provided"})
		return nil, err
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxBytes {
		s.writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "file too large"})
		return nil, errors.New("file too large")
	}
	uploadSizeBytes.Observe(float64(header.Size))

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to read image data"})
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "unsupported or corrupt image"})
		return nil, err
	}
	return img, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
