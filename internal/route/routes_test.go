package route

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"posecam/internal/config"
	"posecam/internal/logger"
	ws "posecam/internal/service/websocket"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticStats map[string]any

func (s staticStats) StatsSnapshot() any { return map[string]any(s) }

func newTestServer(t *testing.T, token string) (*httptest.Server, *ws.HubService, *logger.Logger) {
	t.Helper()

	log, err := logger.NewLogger(&config.Config{LogDirectory: t.TempDir()})
	require.NoError(t, err)

	hub := ws.NewHubService(log)
	go hub.Run()

	server := httptest.NewServer(SetupRoutes(&config.Config{ViewerToken: token}, log, hub, staticStats{"state": "running"}))
	t.Cleanup(func() {
		server.Close()
		hub.Stop()
		log.Close()
	})
	return server, hub, log
}

func TestStatsEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t, "")

	resp, err := http.Get(server.URL + "/api/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "running", body["state"])
}

func TestTokenRequired(t *testing.T) {
	server, _, _ := newTestServer(t, "s3cret")

	tests := []struct {
		name   string
		url    string
		header string
		want   int
	}{
		{"missing", "/api/stats", "", http.StatusUnauthorized},
		{"wrong query", "/api/stats?token=nope", "", http.StatusUnauthorized},
		{"query", "/api/stats?token=s3cret", "", http.StatusOK},
		{"bearer", "/api/stats", "Bearer s3cret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, server.URL+tt.url, nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestLogsEndpoints(t *testing.T) {
	server, _, log := newTestServer(t, "")
	log.Warning("frame skipped")

	resp, err := http.Get(server.URL + "/logs/warning")
	require.NoError(t, err)
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, buf.String(), "frame skipped")

	resp, err = http.Post(server.URL+"/logs/warning/clear", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	data, err := os.ReadFile(filepath.Join(log.Directory(), "warning.log"))
	require.NoError(t, err)
	assert.Empty(t, data)

	resp, err = http.Get(server.URL + "/logs/debug")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestViewerReceivesPublishedMessages(t *testing.T) {
	server, hub, _ := newTestServer(t, "")

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/view"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.GetClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.True(t, hub.Publish([]byte(`{"frame":1}`)))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"frame":1}`, string(message))
}
