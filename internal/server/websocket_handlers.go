package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MeKo-Tech/scandec/internal/scanner"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow any origin; deployments should front this with their own
		// origin policy.
		return true
	},
}

// ScanResponse is one message per streamed frame.
type ScanResponse struct {
	Status string `json:"status"` // "found", "not_found", "error"
	Text   string `json:"text,omitempty"`
	Format string `json:"format,omitempty"`
	Error  string `json:"error,omitempty"`
}

// scanWebSocketHandler upgrades the connection and decodes binary image
// frames as the client streams them, answering one JSON message per frame.
func (s *Server) scanWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("websocket scan connection established", "remote_addr", r.RemoteAddr)
	s.handleScanConnection(r, conn)
}

func (s *Server) handleScanConnection(r *http.Request, conn *websocket.Conn) {
	const readTimeout = 60 * time.Second

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	// Keepalive pings; the goroutine exits once the connection errors.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
					return
				}
			}
		}
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket read error", "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		if msgType != websocket.BinaryMessage {
			s.writeScanMessage(conn, ScanResponse{Status: "error", Error: "expected binary image frame"})
			continue
		}
		s.writeScanMessage(conn, s.decodeFrame(r, data))
	}
}

func (s *Server) decodeFrame(r *http.Request, data []byte) ScanResponse {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return ScanResponse{Status: "error", Error: "unsupported or corrupt image"}
	}

	start := time.Now()
	res, err := s.decoder.Decode(r.Context(), img)
	decodeDuration.WithLabelValues("websocket").Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, scanner.ErrNotFound):
		decodeRequestsTotal.WithLabelValues("not_found").Inc()
		return ScanResponse{Status: "not_found"}
	case err != nil:
		decodeRequestsTotal.WithLabelValues("error").Inc()
		return ScanResponse{Status: "error", Error: err.Error()}
	default:
		decodeRequestsTotal.WithLabelValues("success").Inc()
		return ScanResponse{Status: "found", Text: res.Text, Format: res.Format.String()}
	}
}

func (s *Server) writeScanMessage(conn *websocket.Conn, resp ScanResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		slog.Error("failed to marshal scan response", "error", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		slog.Debug("websocket write error", "error", err)
	}
}
