package notification

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/inazon/ai-task-notify/internal/message"
)

func init() {
	color.NoColor = true
}

// recordedRequest is one request captured by a webhookServer.
type recordedRequest struct {
	Method      string
	Path        string
	RawQuery    string
	ContentType string
	Body        map[string]any
}

// webhookServer is an httptest server that records every request and
// replies with a fixed status and body.
type webhookServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
}

func newWebhookServer(t *testing.T, status int, reply string) *webhookServer {
	t.Helper()
	ws := &webhookServer{}
	ws.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var body map[string]any
		_ = json.Unmarshal(raw, &body)

		ws.mu.Lock()
		ws.requests = append(ws.requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			RawQuery:    r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		})
		ws.mu.Unlock()

		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(ws.Close)
	return ws
}

func (ws *webhookServer) Requests() []recordedRequest {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return append([]recordedRequest(nil), ws.requests...)
}

var testMessage = message.Message{
	ID:      "6f1c2a52-0000-4000-8000-000000000001",
	Title:   "🤖 Claude Code 任务完成",
	Content: "**时间**: 2026-03-04 05:06:07\n**工作目录**: /w",
}
