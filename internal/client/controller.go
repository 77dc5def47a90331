package client

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/geck-tools/geck/internal/models"
	"github.com/geck-tools/geck/internal/query"
	"github.com/geck-tools/geck/internal/validate"
)

// Controller owns the fetched collection for one resource type: it refreshes
// it from the server, exposes filtered views over the local snapshot, and
// dispatches mutations that are always followed by a refresh (the server
// list stays the single source of truth, no local patching).
type Controller[T query.Searchable] struct {
	t      *Transport
	path   string // e.g. "/api/contexts"
	kind   string // definition kind key, e.g. "customer_context"
	nameOf func(T) string

	// RetryMaxElapsed bounds refresh retries; zero means the 15s default.
	RetryMaxElapsed time.Duration

	mu      sync.Mutex
	gen     uint64
	loading bool
	items   []T
	lastErr error
}

// NewController creates a controller for one resource endpoint.
func NewController[T query.Searchable](t *Transport, path, kind string, nameOf func(T) string) *Controller[T] {
	return &Controller[T]{t: t, path: path, kind: kind, nameOf: nameOf}
}

// Refresh fetches the full collection, replacing the snapshot wholesale.
// Responses are generation-stamped: when refreshes overlap, only the most
// recently started one may install its result, so a slow stale response can
// never overwrite a newer snapshot. On failure the previous snapshot stays
// visible and the error is recorded.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.loading = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if gen == c.gen {
			c.loading = false
		}
		c.mu.Unlock()
	}()

	var items []T
	fetch := func() error {
		items = nil
		err := c.t.do(ctx, "GET", c.path+"/", nil, &items)
		if err != nil && !IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 15 * time.Second
	if c.RetryMaxElapsed > 0 {
		bo.MaxElapsedTime = c.RetryMaxElapsed
	}
	err := backoff.Retry(fetch, backoff.WithContext(bo, ctx))

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// A newer refresh superseded this one; discard whatever we got.
		return nil
	}
	if err != nil {
		c.lastErr = fmt.Errorf("loading %s: %w", c.kind, err)
		return c.lastErr
	}
	c.items = items
	c.lastErr = nil
	return nil
}

// Snapshot returns a copy of the current collection in server order.
func (c *Controller[T]) Snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// View applies the filter state to the local snapshot. Pure: the snapshot
// is never mutated, and equal inputs always yield the same ordered result.
func (c *Controller[T]) View(s query.State) []T {
	return query.Apply(c.Snapshot(), s)
}

// Loading reports whether a refresh is in flight.
func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// LastErr returns the error of the most recent failed refresh, or nil.
func (c *Controller[T]) LastErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Names returns the names of all resources in the snapshot.
func (c *Controller[T]) Names() []string {
	snapshot := c.Snapshot()
	names := make([]string, len(snapshot))
	for i, item := range snapshot {
		names[i] = c.nameOf(item)
	}
	return names
}

// Create posts a new resource and refreshes on success.
func (c *Controller[T]) Create(ctx context.Context, item T) error {
	if err := c.t.do(ctx, "POST", c.path+"/", item, nil); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// Update replaces a resource's fields and refreshes on success.
func (c *Controller[T]) Update(ctx context.Context, id string, item T) error {
	if err := c.t.do(ctx, "PUT", c.path+"/"+id, item, nil); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// Remove deletes a resource by ID and refreshes on success. Confirmation is
// the caller's concern. On failure the snapshot is left untouched.
func (c *Controller[T]) Remove(ctx context.Context, id string) error {
	if err := c.t.do(ctx, "DELETE", c.path+"/"+id, nil, nil); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// Duplicate copies a resource under a new name. The name is pre-checked
// against the local snapshot before any network call; the server remains
// authoritative and may still reject.
func (c *Controller[T]) Duplicate(ctx context.Context, id, newName string) error {
	if err := validate.DuplicateName(newName, c.Names()); err != nil {
		return err
	}
	payload := map[string]string{"name": newName}
	if err := c.t.do(ctx, "POST", c.path+"/"+id+"/duplicate", payload, nil); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// Export downloads a resource's definition-file text, returning the
// server-suggested filename and the content.
func (c *Controller[T]) Export(ctx context.Context, id string) (string, []byte, error) {
	body, header, err := c.t.doRaw(ctx, "GET", c.path+"/"+id+"/export", nil)
	if err != nil {
		return "", nil, err
	}
	filename := c.kind + ".yaml"
	if _, params, err := mime.ParseMediaType(header.Get("Content-Disposition")); err == nil {
		if f := params["filename"]; f != "" {
			filename = f
		}
	}
	return filename, body, nil
}

// ImportFile reads a local definition file and uploads its raw content.
// The server's single action is synthesized into an ImportResult so single
// and bulk imports display identically.
func (c *Controller[T]) ImportFile(ctx context.Context, path string) (*models.ImportResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	payload := map[string]string{
		"filename": filepath.Base(path),
		"content":  string(content),
	}
	var resp struct {
		Success bool   `json:"success"`
		Action  string `json:"action"`
	}
	if err := c.t.do(ctx, "POST", c.path+"/import/file", payload, &resp); err != nil {
		return nil, err
	}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return models.SingleFileResult(resp.Action, filepath.Base(path)), nil
}

// ImportBulk asks the server to scan its definitions directory, returning
// the result and the ID of the job that recorded the run (its log can be
// replayed over the websocket endpoint). The collection is refreshed only
// when the server reports success.
func (c *Controller[T]) ImportBulk(ctx context.Context) (*models.ImportResult, string, error) {
	var resp struct {
		Success bool                 `json:"success"`
		Summary models.ImportSummary `json:"summary"`
		Details map[string][]string  `json:"details"`
		Error   string               `json:"error"`
		JobID   string               `json:"job_id"`
	}
	if err := c.t.do(ctx, "POST", c.path+"/import/bulk", nil, &resp); err != nil {
		return nil, "", err
	}
	if !resp.Success {
		return nil, resp.JobID, fmt.Errorf("bulk import failed: %s", resp.Error)
	}
	if err := c.Refresh(ctx); err != nil {
		return nil, resp.JobID, err
	}
	return &models.ImportResult{Summary: resp.Summary, Details: resp.Details}, resp.JobID, nil
}
