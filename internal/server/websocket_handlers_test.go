package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialScan(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/scan"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readScanResponse(t *testing.T, conn *websocket.Conn) ScanResponse {
	t.Helper()
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var resp ScanResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp
}

func TestScanWebSocketFound(t *testing.T) {
	conn := dialScan(t, newTestServer(t))

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, qrPNG(t, "ws-frame")))
	resp := readScanResponse(t, conn)
	assert.Equal(t, "found", resp.Status)
	assert.Equal(t, "ws-frame", resp.Text)
	assert.Equal(t, "qr", resp.Format)
}

func TestScanWebSocketNotFound(t *testing.T) {
	conn := dialScan(t, newTestServer(t))

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, blankPNG(t)))
	resp := readScanResponse(t, conn)
	assert.Equal(t, "not_found", resp.Status)
	assert.Empty(t, resp.Text)
}

func TestScanWebSocketRejectsTextFrames(t *testing.T) {
	conn := dialScan(t, newTestServer(t))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))
	resp := readScanResponse(t, conn)
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "binary")
}
