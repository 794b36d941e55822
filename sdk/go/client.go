package gomedicsdk

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal GoMedic view API client.
type Client struct {
	BaseURL    string
	BasePath   string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:  baseURL,
		BasePath: "/v0",
		Timeout:  10 * time.Second,
	}
}

type Person struct {
	ID         string   `json:"id"`
	Kind       string   `json:"kind"`
	Name       string   `json:"name"`
	Phone      string   `json:"phone"`
	Department string   `json:"department,omitempty"`
	Age        int      `json:"age,omitempty"`
	Gender     string   `json:"gender,omitempty"`
	BloodType  string   `json:"blood_type,omitempty"`
	Conditions []string `json:"medical_conditions,omitempty"`
}

type Activity struct {
	ID          string `json:"id"`
	Start       string `json:"start_time"`
	End         string `json:"end_time"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Status struct {
	Version    uint64 `json:"version"`
	Persons    int    `json:"persons"`
	Activities int    `json:"activities"`
}

// Event represents a command log entry.
type Event struct {
	ID           int64          `json:"id"`
	TS           string         `json:"ts"`
	Type         string         `json:"type"`
	InvocationID string         `json:"invocation_id"`
	Command      string         `json:"command"`
	Outcome      string         `json:"outcome"`
	Message      string         `json:"message"`
	Payload      map[string]any `json:"payload"`
}

// PaginatedEvents wraps list responses with cursors.
type PaginatedEvents struct {
	Items      []Event `json:"items"`
	NextCursor string  `json:"next_cursor"`
}

// Change is one message of the change stream.
type Change struct {
	Version    uint64     `json:"version"`
	Persons    []Person   `json:"persons"`
	Activities []Activity `json:"activities"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

func (c *Client) Status(ctx context.Context) (Status, error) {
	var resp Status
	err := c.do(ctx, "status", &resp)
	return resp, err
}

// Persons lists persons; kind and q are optional filters.
func (c *Client) Persons(ctx context.Context, kind, q string) ([]Person, error) {
	v := url.Values{}
	if kind != "" {
		v.Set("kind", kind)
	}
	if q != "" {
		v.Set("q", q)
	}
	var resp []Person
	err := c.do(ctx, withQuery("persons", v), &resp)
	return resp, err
}

func (c *Client) Person(ctx context.Context, id string) (Person, error) {
	var resp Person
	err := c.do(ctx, "persons/"+url.PathEscape(id), &resp)
	return resp, err
}

// Activities lists activities sorted by "id" or "start".
func (c *Client) Activities(ctx context.Context, sort string) ([]Activity, error) {
	v := url.Values{}
	if sort != "" {
		v.Set("sort", sort)
	}
	var resp []Activity
	err := c.do(ctx, withQuery("activities", v), &resp)
	return resp, err
}

func (c *Client) Activity(ctx context.Context, id string) (Activity, error) {
	var resp Activity
	err := c.do(ctx, "activities/"+url.PathEscape(id), &resp)
	return resp, err
}

func (c *Client) Events(ctx context.Context, limit int) ([]Event, error) {
	page, err := c.EventsPage(ctx, limit, "")
	return page.Items, err
}

// EventsPage returns a paginated event listing.
func (c *Client) EventsPage(ctx context.Context, limit int, cursor string) (PaginatedEvents, error) {
	v := url.Values{}
	if limit > 0 {
		v.Set("limit", fmt.Sprint(limit))
	}
	if cursor != "" {
		v.Set("cursor", cursor)
	}
	var resp PaginatedEvents
	err := c.do(ctx, withQuery("events", v), &resp)
	return resp, err
}

// Watch reads the change stream and calls fn for every change until ctx ends, the server
// closes the stream or fn returns an error.
func (c *Client) Watch(ctx context.Context, fn func(Change) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("changes"), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	hc := c.HTTPClient
	if hc == nil {
		// streaming must not be cut by the request timeout
		hc = &http.Client{}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 8*1024*1024)
	var data bytes.Buffer
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		case line == "" && data.Len() > 0:
			var ch Change
			if err := json.Unmarshal(data.Bytes(), &ch); err != nil {
				return fmt.Errorf("decode change: %w", err)
			}
			data.Reset()
			if err := fn(ch); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, context.Canceled) && ctx.Err() == nil {
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, endpoint string, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(endpoint), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) url(endpoint string) string {
	base := strings.TrimRight(c.BaseURL, "/")
	if p := strings.Trim(c.BasePath, "/"); p != "" {
		base += "/" + p
	}
	return base + "/" + strings.TrimLeft(endpoint, "/")
}

func withQuery(endpoint string, v url.Values) string {
	if len(v) == 0 {
		return endpoint
	}
	return endpoint + "?" + v.Encode()
}
