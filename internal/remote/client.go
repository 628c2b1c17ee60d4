package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/maheshrc27/scheduling-dashboard/internal/models"
	"github.com/maheshrc27/scheduling-dashboard/internal/transfer"
	"github.com/maheshrc27/scheduling-dashboard/pkg/utils"
)

const (
	defaultPageSize = 100
	// bounds a misbehaving server that ignores limit
	maxPages = 1000
)

// ItemLister fetches the full post collection.
type ItemLister interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
}

// Rescheduler moves one post to a new instant. The returned post is nil when the
// server only acknowledges the request.
type Rescheduler interface {
	Reschedule(ctx context.Context, postID string, at time.Time, traceID string) (*models.Post, error)
}

type Options struct {
	BaseURL    string
	Token      string
	Location   *time.Location
	HTTPClient *http.Client
	MaxRetries int
	RetryDelay time.Duration
	PageSize   int
}

type Client struct {
	baseURL string
	token   string
	loc     *time.Location
	http     *http.Client
	list     failsafe.Executor[*http.Response]
	pageSize int
}

func NewClient(opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 200 * time.Millisecond
	}

	//nolint:bodyclose // failed attempts close their own bodies
	policy := retrypolicy.NewBuilder[*http.Response]().
		WithBackoff(opts.RetryDelay, 10*opts.RetryDelay).
		WithMaxRetries(opts.MaxRetries).
		WithJitterFactor(0.1).
		HandleIf(shouldRetry).
		ReturnLastFailure().
		Build()

	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		token:    opts.Token,
		loc:      opts.Location,
		http:     opts.HTTPClient,
		list:     failsafe.With[*http.Response](policy),
		pageSize: opts.PageSize,
	}
}

func shouldRetry(_ *http.Response, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return true
}

// ListPosts pages through the whole collection until a short page comes back.
func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	for page := 0; page < maxPages; page++ {
		wire, err := c.listPage(ctx, page*c.pageSize)
		if err != nil {
			return nil, err
		}
		for _, w := range wire {
			post, err := w.toModel(c.loc)
			if err != nil {
				slog.Warn("skipping undecodable post", "id", string(w.ID), "error", err)
				continue
			}
			if err := post.Validate(); err != nil {
				slog.Warn("post violates schedule invariant", "error", err)
			}
			posts = append(posts, post)
		}
		if len(wire) < c.pageSize {
			return posts, nil
		}
	}
	slog.Warn("post listing stopped at page cap", "pages", maxPages, "posts", len(posts))
	return posts, nil
}

func (c *Client) listPage(ctx context.Context, skip int) ([]postPayload, error) {
	endpoint := fmt.Sprintf("%s/posts/posts?skip=%d&limit=%d", c.baseURL, skip, c.pageSize)

	resp, err := c.list.WithContext(ctx).Get(func() (*http.Response, error) {
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			defer resp.Body.Close()
			return nil, decodeAPIError(resp)
		}
		return resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer resp.Body.Close()

	var wire []postPayload
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	return wire, nil
}

func (c *Client) Reschedule(ctx context.Context, postID string, at time.Time, traceID string) (*models.Post, error) {
	body, err := json.Marshal(transfer.ScheduleRequest{ScheduledAt: at.Format(time.RFC3339)})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/posts/posts/%s/schedule", c.baseURL, url.PathEscape(postID))
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reschedule post %s: %w", postID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read reschedule response: %w", err)
	}

	var wire postPayload
	if err := json.Unmarshal(raw, &wire); err != nil || len(wire.ID) == 0 {
		// acknowledgement body such as {"status": "scheduled", "trace_id": ...}
		return nil, nil
	}
	post, err := wire.toModel(c.loc)
	if err != nil {
		return nil, nil
	}
	return &post, nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

type postPayload struct {
	ID          json.RawMessage `json:"id"`
	Content     string          `json:"content"`
	Platform    string          `json:"platform"`
	MediaURL    *string         `json:"media_url"`
	ScheduledAt *string         `json:"scheduled_at"`
	Status      string          `json:"status"`
}

func (w postPayload) toModel(loc *time.Location) (models.Post, error) {
	id := strings.Trim(strings.TrimSpace(string(w.ID)), `"`)
	if id == "" || id == "null" {
		return models.Post{}, fmt.Errorf("post has no id")
	}

	post := models.Post{
		ID:       id,
		Content:  w.Content,
		Platform: w.Platform,
		Status:   w.Status,
	}
	if post.Status == "" {
		post.Status = models.PostStatusScheduled
	}
	if w.MediaURL != nil {
		post.MediaURL = *w.MediaURL
	}
	if w.ScheduledAt != nil && *w.ScheduledAt != "" {
		at, err := utils.ParseTimestamp(*w.ScheduledAt, loc)
		if err != nil {
			return models.Post{}, err
		}
		post.ScheduledAt = &at
	}
	return post, nil
}
