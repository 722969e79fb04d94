package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/courseforge/courseforge/internal/domain"
)

// Config holds the connection parameters for one Canvas course.
type Config struct {
	BaseURL  string
	Token    string
	CourseID string
	Timeout  time.Duration
}

// Client issues create/update calls against the Canvas REST API for one
// course. Implementations must be safe for concurrent use.
type Client interface {
	// Create posts a new entity and returns the remote-assigned ID.
	Create(ctx context.Context, e *domain.Entity) (string, error)

	// Update rewrites an already-created entity in place.
	Update(ctx context.Context, e *domain.Entity, remoteID string) error

	// Ping verifies the API is reachable and the credentials are
	// accepted before any batch is attempted.
	Ping(ctx context.Context) error
}

// kindPaths maps entity kinds to their course-scoped REST collection.
var kindPaths = map[domain.EntityKind]string{
	domain.KindModule:     "modules",
	domain.KindAssignment: "assignments",
	domain.KindQuiz:       "quizzes",
	domain.KindPage:       "pages",
	domain.KindDiscussion: "discussion_topics",
	domain.KindBadge:      "badges",
	domain.KindOutcome:    "outcomes",
}

// kindWrappers maps entity kinds to the body envelope key Canvas expects.
var kindWrappers = map[domain.EntityKind]string{
	domain.KindModule:     "module",
	domain.KindAssignment: "assignment",
	domain.KindQuiz:       "quiz",
	domain.KindPage:       "wiki_page",
	domain.KindDiscussion: "",
	domain.KindBadge:      "badge",
	domain.KindOutcome:    "outcome",
}

type httpClient struct {
	cfg  Config
	http *http.Client
}

// New creates a Client that talks to a Canvas instance over HTTP.
func New(cfg Config) Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

// createResponse is the slice of the Canvas response we care about.
type createResponse struct {
	ID json.Number `json:"id"`
}

func (c *httpClient) Create(ctx context.Context, e *domain.Entity) (string, error) {
	url := fmt.Sprintf("%s/api/v1/courses/%s/%s", c.cfg.BaseURL, c.cfg.CourseID, kindPaths[e.Kind])
	body, err := c.do(ctx, http.MethodPost, url, e)
	if err != nil {
		return "", err
	}

	var resp createResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decoding create response for %s: %w", e.LocalID, err)
	}
	if resp.ID.String() == "" {
		return "", fmt.Errorf("create response for %s carried no id", e.LocalID)
	}
	return resp.ID.String(), nil
}

func (c *httpClient) Update(ctx context.Context, e *domain.Entity, remoteID string) error {
	url := fmt.Sprintf("%s/api/v1/courses/%s/%s/%s", c.cfg.BaseURL, c.cfg.CourseID, kindPaths[e.Kind], remoteID)
	_, err := c.do(ctx, http.MethodPut, url, e)
	return err
}

func (c *httpClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	url := fmt.Sprintf("%s/api/v1/courses/%s", c.cfg.BaseURL, c.cfg.CourseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *httpClient) do(ctx context.Context, method, url string, e *domain.Entity) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	data, err := wireBody(e)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}
	return body, nil
}

// wireBody serializes an entity's payload the way the Canvas API wants
// it: most kinds nest their fields under a kind-specific envelope key.
func wireBody(e *domain.Entity) ([]byte, error) {
	wrapper := kindWrappers[e.Kind]
	var doc any = e.Payload
	if wrapper != "" {
		doc = map[string]any{wrapper: e.Payload}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s %s: %w", e.Kind, e.LocalID, err)
	}
	return data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
