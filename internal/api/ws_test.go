package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestStreamJobLogs_ReplaysAndCloses(t *testing.T) {
	s, h := newTestServer(t)
	ts := httptest.NewServer(h)
	defer ts.Close()

	job := s.Jobs.Create("bulk-import", "customer_context")
	job.AppendLog("Scanning definitions: 2 files")
	job.AppendLog("  CREATED: a.yaml")
	job.AppendLog("  FAIL: b.yaml: name is required")
	job.Complete()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws/jobs/" + job.ID + "/logs"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var lines []string
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			closeErr, ok := err.(*websocket.CloseError)
			if !ok || closeErr.Code != websocket.CloseNormalClosure {
				t.Fatalf("stream ended with %v, want normal closure", err)
			}
			if closeErr.Text != "completed" {
				t.Errorf("close reason = %q, want completed", closeErr.Text)
			}
			break
		}
		lines = append(lines, string(msg))
	}
	if len(lines) != 3 || lines[1] != "  CREATED: a.yaml" {
		t.Errorf("streamed lines = %v", lines)
	}
}

func TestStreamJobLogs_UnknownJob(t *testing.T) {
	_, h := newTestServer(t)
	ts := httptest.NewServer(h)
	defer ts.Close()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws/jobs/nonexistent/logs"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("dial should fail for an unknown job")
	}
	if resp == nil || resp.StatusCode != 404 {
		t.Errorf("handshake response = %v, want 404", resp)
	}
}
