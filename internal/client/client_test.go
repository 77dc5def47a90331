package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/geck-tools/geck/internal/models"
	"github.com/geck-tools/geck/internal/query"
	"github.com/geck-tools/geck/internal/validate"
)

func validateDraft(name, email string) validate.UserDraft {
	return validate.UserDraft{Name: name, Email: email, Password: "hunter22", ConfirmPassword: "hunter22"}
}

func newTestClient(ts *httptest.Server) *Client {
	return New(ts.URL, "")
}

func contextList(names ...string) []*models.CustomerContext {
	out := make([]*models.CustomerContext, len(names))
	for i, n := range names {
		out[i] = &models.CustomerContext{ID: n + "-id", Name: n}
	}
	return out
}

func TestRefresh_ReplacesSnapshot(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(contextList("acme-prod", "globex"))
	}))
	defer ts.Close()

	c := newTestClient(ts)
	if err := c.Contexts.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	snapshot := c.Contexts.Snapshot()
	if len(snapshot) != 2 || snapshot[0].Name != "acme-prod" {
		t.Errorf("snapshot = %v", snapshot)
	}
	if c.Contexts.Loading() {
		t.Error("loading flag must be cleared after Refresh")
	}
	if c.Contexts.LastErr() != nil {
		t.Errorf("LastErr = %v, want nil", c.Contexts.LastErr())
	}
}

func TestRefresh_FailureKeepsStaleSnapshot(t *testing.T) {
	fail := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"gone"}`))
			return
		}
		json.NewEncoder(w).Encode(contextList("acme-prod"))
	}))
	defer ts.Close()

	c := newTestClient(ts)
	if err := c.Contexts.Refresh(context.Background()); err != nil {
		t.Fatalf("first Refresh returned error: %v", err)
	}

	fail = true
	if err := c.Contexts.Refresh(context.Background()); err == nil {
		t.Fatal("second Refresh should fail")
	}
	// Previous collection stays visible, error is recorded, loading cleared
	snapshot := c.Contexts.Snapshot()
	if len(snapshot) != 1 || snapshot[0].Name != "acme-prod" {
		t.Errorf("stale snapshot = %v, want the previous collection", snapshot)
	}
	if c.Contexts.LastErr() == nil {
		t.Error("LastErr should be recorded")
	}
	if c.Contexts.Loading() {
		t.Error("loading flag must be cleared after a failed Refresh")
	}
}

func TestRefresh_StaleResponseDiscarded(t *testing.T) {
	firstArrived := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	var mu sync.Mutex
	reqNum := 0

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		reqNum++
		n := reqNum
		mu.Unlock()
		if n == 1 {
			once.Do(func() { close(firstArrived) })
			<-release // slow response carrying old data
			json.NewEncoder(w).Encode(contextList("old"))
			return
		}
		json.NewEncoder(w).Encode(contextList("new"))
	}))
	defer ts.Close()

	c := newTestClient(ts)
	done := make(chan error, 1)
	go func() { done <- c.Contexts.Refresh(context.Background()) }()
	<-firstArrived

	// A newer refresh starts and completes while the first is stalled.
	if err := c.Contexts.Refresh(context.Background()); err != nil {
		t.Fatalf("second Refresh returned error: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Refresh returned error: %v", err)
	}

	// Latest-request-wins: the slow old response must not have won.
	snapshot := c.Contexts.Snapshot()
	if len(snapshot) != 1 || snapshot[0].Name != "new" {
		t.Errorf("snapshot = %v, want [new]", snapshot)
	}
}

func TestView_FiltersLocally(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]*models.CustomerContext{
			{Name: "a", Industry: "Travel"},
			{Name: "b", Industry: "Finance"},
			{Name: "c", Industry: "Travel"},
		})
	}))
	defer ts.Close()

	c := newTestClient(ts)
	c.Contexts.Refresh(context.Background())

	got := c.Contexts.View(query.State{Search: "travel"})
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "c" {
		t.Errorf("View(travel) = %v", got)
	}
	// View never mutates the snapshot
	if len(c.Contexts.Snapshot()) != 3 {
		t.Error("View must not shrink the snapshot")
	}
}

func TestDuplicate_PrecheckBlocksNetworkCall(t *testing.T) {
	var mu sync.Mutex
	posts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "POST" {
			mu.Lock()
			posts++
			mu.Unlock()
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte("{}"))
			return
		}
		json.NewEncoder(w).Encode(contextList("x", "y"))
	}))
	defer ts.Close()

	c := newTestClient(ts)
	c.Contexts.Refresh(context.Background())

	// Existing name: rejected client-side, no POST issued
	if err := c.Contexts.Duplicate(context.Background(), "x-id", "x"); err == nil {
		t.Error("Duplicate with existing name should fail")
	}
	// Too short
	if err := c.Contexts.Duplicate(context.Background(), "x-id", "ab"); err == nil {
		t.Error("Duplicate with short name should fail")
	}
	mu.Lock()
	if posts != 0 {
		t.Errorf("pre-check failures issued %d POSTs, want 0", posts)
	}
	mu.Unlock()

	// Fresh name is dispatched
	if err := c.Contexts.Duplicate(context.Background(), "x-id", "zzz"); err != nil {
		t.Fatalf("Duplicate returned error: %v", err)
	}
	mu.Lock()
	if posts != 1 {
		t.Errorf("valid duplicate issued %d POSTs, want 1", posts)
	}
	mu.Unlock()
}

func TestRemove_NotFoundLeavesSnapshot(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "DELETE" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"context not found"}`))
			return
		}
		json.NewEncoder(w).Encode(contextList("acme-prod"))
	}))
	defer ts.Close()

	c := newTestClient(ts)
	c.Contexts.Refresh(context.Background())

	err := c.Contexts.Remove(context.Background(), "nonexistent")
	if err == nil {
		t.Fatal("Remove of unknown id should fail")
	}
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("error = %v, want APIError 404", err)
	}
	if len(c.Contexts.Snapshot()) != 1 {
		t.Error("failed Remove must leave the snapshot unchanged")
	}
}

func TestToggleUserActive_SelfRefused(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("[]"))
	}))
	defer ts.Close()

	c := New(ts.URL, "me-id")
	if err := c.ToggleUserActive(context.Background(), "me-id"); err == nil {
		t.Error("toggling yourself should fail")
	}
	if requests != 0 {
		t.Errorf("self toggle issued %d requests, want 0", requests)
	}
}

func TestCreateUser_ValidationShortCircuits(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("[]"))
	}))
	defer ts.Close()

	c := newTestClient(ts)
	errs, err := c.CreateUser(context.Background(), validateDraft("", "not-an-email"))
	if err != nil {
		t.Fatalf("CreateUser returned transport error: %v", err)
	}
	if errs["name"] == "" || errs["email"] == "" {
		t.Errorf("field errors = %v", errs)
	}
	if requests != 0 {
		t.Errorf("invalid draft issued %d requests, want 0", requests)
	}
}

func TestImportFile_SynthesizesResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "POST" {
			var req struct {
				Filename string `json:"filename"`
				Content  string `json:"content"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			if req.Filename != "foo.yaml" || req.Content == "" {
				t.Errorf("upload = %+v", req)
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "action": "updated"})
			return
		}
		w.Write([]byte("[]"))
	}))
	defer ts.Close()

	path := filepath.Join(t.TempDir(), "foo.yaml")
	os.WriteFile(path, []byte("kind: customer_context\nname: foo\n"), 0o644)

	c := newTestClient(ts)
	result, err := c.Contexts.ImportFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ImportFile returned error: %v", err)
	}
	s := result.Summary
	if s.Total != 1 || s.Imported != 0 || s.Updated != 1 || s.Failed != 0 || s.Skipped != 0 {
		t.Errorf("summary = %+v, want {1 0 1 0 0}", s)
	}
	if got := result.Details[models.OutcomeUpdated]; len(got) != 1 || got[0] != "foo.yaml" {
		t.Errorf("details.updated = %v, want [foo.yaml]", got)
	}
}

func TestImportBulk_RefreshOnlyOnSuccess(t *testing.T) {
	var mu sync.Mutex
	gets := 0
	succeed := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "GET" {
			mu.Lock()
			gets++
			mu.Unlock()
			w.Write([]byte("[]"))
			return
		}
		if succeed {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"summary": models.ImportSummary{Total: 1, Imported: 1},
				"details": map[string][]string{"imported": {"a.yaml"}},
				"job_id":  "job-1",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "definitions dir missing"})
	}))
	defer ts.Close()

	c := newTestClient(ts)

	if _, _, err := c.Contexts.ImportBulk(context.Background()); err == nil {
		t.Fatal("failed bulk import should return an error")
	}
	mu.Lock()
	if gets != 0 {
		t.Errorf("failed bulk import triggered %d refreshes, want 0", gets)
	}
	mu.Unlock()

	succeed = true
	result, jobID, err := c.Contexts.ImportBulk(context.Background())
	if err != nil {
		t.Fatalf("ImportBulk returned error: %v", err)
	}
	if result.Summary.Imported != 1 {
		t.Errorf("summary = %+v", result.Summary)
	}
	if jobID != "job-1" {
		t.Errorf("jobID = %q, want job-1", jobID)
	}
	mu.Lock()
	if gets != 1 {
		t.Errorf("successful bulk import triggered %d refreshes, want 1", gets)
	}
	mu.Unlock()
}

func TestFollowJobLogs(t *testing.T) {
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/jobs/job-1/logs" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte("Scanning definitions: 2 files"))
		conn.WriteMessage(websocket.TextMessage, []byte("  CREATED: a.yaml"))
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "completed"))
	}))
	defer ts.Close()

	c := newTestClient(ts)
	var lines []string
	err := c.FollowJobLogs(context.Background(), "job-1", func(l string) { lines = append(lines, l) })
	if err != nil {
		t.Fatalf("FollowJobLogs returned error: %v", err)
	}
	if len(lines) != 2 || lines[1] != "  CREATED: a.yaml" {
		t.Errorf("lines = %v", lines)
	}

	// Unknown job: handshake is refused with a 404
	if err := c.FollowJobLogs(context.Background(), "nope", func(string) {}); err == nil {
		t.Error("expected an error for a refused handshake")
	}
}

func TestRefresh_RetriesServerErrors(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		n := attempts
		mu.Unlock()
		if n == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(contextList("acme-prod"))
	}))
	defer ts.Close()

	c := newTestClient(ts)
	c.Contexts.RetryMaxElapsed = 5 * time.Second
	if err := c.Contexts.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh should retry past a 502, got %v", err)
	}
	mu.Lock()
	if attempts < 2 {
		t.Errorf("attempts = %d, want at least 2", attempts)
	}
	mu.Unlock()
	if len(c.Contexts.Snapshot()) != 1 {
		t.Error("snapshot not installed after retry")
	}
}
