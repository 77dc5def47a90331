package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/geck-tools/geck/internal/importer"
	"github.com/geck-tools/geck/internal/models"
	"github.com/geck-tools/geck/internal/validate"
)

// Client bundles one controller per resource type over a shared transport.
type Client struct {
	Transport *Transport
	Contexts  *Controller[*models.CustomerContext]
	Programs  *Controller[*models.ProgramConfig]
	Users     *Controller[*models.User]
}

// New creates a client for a geckd base URL. actingUser is the operator's
// user ID and may be empty for anonymous use.
func New(baseURL, actingUser string) *Client {
	t := NewTransport(strings.TrimRight(baseURL, "/"), actingUser)
	return &Client{
		Transport: t,
		Contexts: NewController(t, "/api/contexts", importer.KindContext,
			func(c *models.CustomerContext) string { return c.Name }),
		Programs: NewController(t, "/api/programs", importer.KindProgram,
			func(p *models.ProgramConfig) string { return p.Name }),
		Users: NewController(t, "/api/users", importer.KindUser,
			func(u *models.User) string { return u.Name }),
	}
}

// userPayload is the user create/edit request body.
type userPayload struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role,omitempty"`
	Password        string `json:"password,omitempty"`
	ConfirmPassword string `json:"confirm_password,omitempty"`
}

// CreateUser validates the draft client-side and, when clean, posts it.
// Validation failures are returned as a field→message map with no network
// call made.
func (c *Client) CreateUser(ctx context.Context, draft validate.UserDraft) (map[string]string, error) {
	if errs := validate.UserCreate(draft); len(errs) > 0 {
		return errs, nil
	}
	payload := userPayload{
		Name:            draft.Name,
		Email:           draft.Email,
		Role:            draft.Role,
		Password:        draft.Password,
		ConfirmPassword: draft.ConfirmPassword,
	}
	if err := c.Transport.do(ctx, "POST", "/api/users/", payload, nil); err != nil {
		return nil, err
	}
	return nil, c.Users.Refresh(ctx)
}

// UpdateUser validates the draft in edit mode (no password rules) and puts it.
func (c *Client) UpdateUser(ctx context.Context, id string, draft validate.UserDraft) (map[string]string, error) {
	if errs := validate.UserEdit(draft); len(errs) > 0 {
		return errs, nil
	}
	payload := userPayload{Name: draft.Name, Email: draft.Email, Role: draft.Role}
	if err := c.Transport.do(ctx, "PUT", "/api/users/"+id, payload, nil); err != nil {
		return nil, err
	}
	return nil, c.Users.Refresh(ctx)
}

// ToggleUserActive flips a user's active flag. Acting on yourself is
// refused before any network call, mirroring the server-side guard.
func (c *Client) ToggleUserActive(ctx context.Context, id string) error {
	if c.Transport.actingUser != "" && c.Transport.actingUser == id {
		return fmt.Errorf("you cannot change your own active status")
	}
	if err := c.Transport.do(ctx, "POST", "/api/users/"+id+"/toggle-active", nil, nil); err != nil {
		return err
	}
	return c.Users.Refresh(ctx)
}

// FollowJobLogs replays a job's log over the websocket endpoint, calling fn
// for each line. It returns nil once the server sends a normal close, which
// it does after the job has finished and every line was delivered.
func (c *Client) FollowJobLogs(ctx context.Context, jobID string, fn func(string)) error {
	wsURL := strings.Replace(c.Transport.baseURL, "http", "ws", 1) + "/ws/jobs/" + jobID + "/logs"
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return fmt.Errorf("job %s not found", jobID)
		}
		return fmt.Errorf("connecting to job log stream: %w", err)
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("reading job log stream: %w", err)
		}
		fn(string(msg))
	}
}
