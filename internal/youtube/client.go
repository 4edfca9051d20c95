// internal/youtube/client.go
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// Page size caps imposed by the Data API.
const (
	maxCommentsPerPage = 100
	maxSearchPerPage   = 50
	maxStatsPerRequest = 50
)

var (
	// ErrQuota is returned when the API rejects the key or the daily
	// quota is spent.
	ErrQuota = errors.New("youtube: quota exceeded or key rejected")
	// ErrNotFound is returned for videos and channels that do not exist.
	ErrNotFound = errors.New("youtube: not found")
)

// Client is a minimal YouTube Data API v3 client covering the read
// endpoints the scanner needs.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a client authenticated with the given API key.
func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// VideoStats is the per-video statistics subset used to rank search
// results.
type VideoStats struct {
	CommentCount int64
	PublishedAt  time.Time
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// get performs one API request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	u, _ := url.Parse(c.baseURL + "/" + endpoint)
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Commentwatch/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return c.apiError(endpoint, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) apiError(endpoint string, status int, body []byte) error {
	var envelope apiErrorResponse
	message := http.StatusText(status)
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		message = envelope.Error.Message
	}

	switch status {
	case http.StatusForbidden, http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w: %s", endpoint, ErrQuota, message)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w: %s", endpoint, ErrNotFound, message)
	}
	return fmt.Errorf("YouTube API error on %s (status %d): %s", endpoint, status, message)
}

// normalizeText converts the API's HTML comment rendering to plain
// text. Anchors come out as "[label](url)", so a link stays visible to
// the spam filter even when its label hides the target.
func normalizeText(html string) string {
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return html
	}
	return md
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
