package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// API defines the surface the console needs from the playout engine.
// *Client implements it; tests substitute fakes.
type API interface {
	FetchStatus(ctx context.Context) (*StatusResponse, error)
	FetchMeters(ctx context.Context) (MeterSample, error)
	Reorder(ctx context.Context, order []uuid.UUID) error
	Remove(ctx context.Context, index int) error
	Insert(ctx context.Context, after int, item InsertItem) error
	Transport(ctx context.Context, action string) error
	SendOffer(ctx context.Context, sdp string) (string, error)
	SendCandidate(ctx context.Context, candidate string) error
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// ErrNotJSON marks a 2xx response whose content type is not JSON. A
// reverse proxy serving an error page with HTTP 200 must be treated as
// a transport failure, never as a valid empty snapshot.
var ErrNotJSON = errors.New("response is not JSON")

// StatusError reports a non-2xx engine response.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("engine %s returned status %d", e.Path, e.Code)
}

// Transport actions accepted by the engine.
const (
	ActionSkip   = "skip"
	ActionDump   = "dump"
	ActionReload = "reload"
)

// Client talks to the StudioCommand engine HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultEngineBind = "127.0.0.1:3000"
	defaultUserAgent  = "console/0.1"
	requestTimeout    = 5 * time.Second
)

// NewClient builds a Client using the provided engine host:port value.
func NewClient(engineBind string) (*Client, error) {
	base, err := parseBaseURL(engineBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchStatus retrieves the authoritative playout snapshot.
func (c *Client) FetchStatus(ctx context.Context) (*StatusResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload StatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/status", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchMeters retrieves one raw meter sample. This is the fast-poll
// fallback path; the WebRTC data channel is preferred when live.
func (c *Client) FetchMeters(ctx context.Context) (MeterSample, error) {
	if c == nil {
		return MeterSample{}, fmt.Errorf("client is nil")
	}
	var payload MeterSample
	if err := c.do(ctx, http.MethodGet, "/api/v1/meters", nil, &payload); err != nil {
		return MeterSample{}, err
	}
	return payload, nil
}

// Reorder submits the complete upcoming-id sequence. The protocol is
// strict whole-list: the engine rejects partial updates.
func (c *Client) Reorder(ctx context.Context, order []uuid.UUID) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	body := struct {
		Order []uuid.UUID `json:"order"`
	}{Order: order}
	return c.do(ctx, http.MethodPost, "/api/v1/queue/reorder", body, nil)
}

// Remove deletes the upcoming item at the given log index. The engine
// rejects index 0: the playing head cannot be removed this way.
func (c *Client) Remove(ctx context.Context, index int) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	body := struct {
		Index int `json:"index"`
	}{Index: index}
	return c.do(ctx, http.MethodPost, "/api/v1/queue/remove", body, nil)
}

// Insert asks the engine to place a new cart after the given log index.
func (c *Client) Insert(ctx context.Context, after int, item InsertItem) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	body := struct {
		After int        `json:"after"`
		Item  InsertItem `json:"item"`
	}{After: after, Item: item}
	return c.do(ctx, http.MethodPost, "/api/v1/queue/insert", body, nil)
}

// Transport fires a bodyless transport action (skip, dump, reload).
func (c *Client) Transport(ctx context.Context, action string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	switch action {
	case ActionSkip, ActionDump, ActionReload:
	default:
		return fmt.Errorf("unknown transport action %q", action)
	}
	return c.do(ctx, http.MethodPost, "/api/v1/transport/"+action, nil, nil)
}

// SendOffer posts a local SDP offer and returns the engine's answer SDP.
func (c *Client) SendOffer(ctx context.Context, sdp string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	body := struct {
		SDP  string `json:"sdp"`
		Type string `json:"type"`
	}{SDP: sdp, Type: "offer"}
	var answer struct {
		SDP  string `json:"sdp"`
		Type string `json:"type"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/webrtc/offer", body, &answer); err != nil {
		return "", err
	}
	if answer.Type != "answer" || answer.SDP == "" {
		return "", fmt.Errorf("engine returned %q instead of an answer", answer.Type)
	}
	return answer.SDP, nil
}

// SendCandidate streams one locally gathered ICE candidate to the
// engine (trickle ICE).
func (c *Client) SendCandidate(ctx context.Context, candidate string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	body := struct {
		Candidate string `json:"candidate"`
	}{Candidate: candidate}
	return c.do(ctx, http.MethodPost, "/api/v1/webrtc/candidate", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Path: path, Code: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	if err := requireJSON(resp); err != nil {
		return err
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func requireJSON(resp *http.Response) error {
	ct := resp.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return fmt.Errorf("%w: content type %q", ErrNotJSON, ct)
	}
	if mediaType != "application/json" && !strings.HasSuffix(mediaType, "+json") {
		return fmt.Errorf("%w: content type %q", ErrNotJSON, ct)
	}
	return nil
}

func parseBaseURL(engineBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(engineBind)
	if trimmed == "" {
		trimmed = defaultEngineBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse engine_bind %q: %w", engineBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
