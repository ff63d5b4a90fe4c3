package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/teslashibe/go-avatar/internal/httpc"
	"github.com/teslashibe/go-avatar/pkg/animator"
)

// Client talks to a dashboard's JSON API.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for the dashboard at baseURL
// (e.g. "http://localhost:8080"). A nil hc uses the shared httpc client.
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = httpc.Client
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *Client) url(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return c.base + "/api/" + strings.Join(escaped, "/")
}

// Avatars lists every avatar snapshot.
func (c *Client) Avatars(ctx context.Context) ([]animator.Snapshot, error) {
	var out struct {
		Avatars []animator.Snapshot `json:"avatars"`
	}
	if err := httpc.DoJSON(ctx, c.http, http.MethodGet, c.url("avatars"), nil, &out); err != nil {
		return nil, err
	}
	return out.Avatars, nil
}

// TriggerResult is the outcome of an expression request.
type TriggerResult struct {
	Avatar    string `json:"avatar"`
	Clip      string `json:"clip"`
	Timestamp int64  `json:"timestamp"`
	Triggered bool   `json:"triggered"`
}

// Trigger requests an expression. A zero timestamp lets the server use now.
func (c *Client) Trigger(ctx context.Context, avatar, clip string, timestamp int64) (TriggerResult, error) {
	var out TriggerResult
	in := ExpressionRequest{Clip: clip, Timestamp: timestamp}
	err := httpc.DoJSON(ctx, c.http, http.MethodPost, c.url("avatars", avatar, "expressions"), in, &out)
	return out, err
}

// Equip registers a catalog emote on an avatar.
func (c *Client) Equip(ctx context.Context, avatar, clip string) error {
	return httpc.DoJSON(ctx, c.http, http.MethodPost, c.url("avatars", avatar, "emotes", clip), nil, nil)
}

// Unequip removes an emote from an avatar.
func (c *Client) Unequip(ctx context.Context, avatar, clip string) error {
	return httpc.DoJSON(ctx, c.http, http.MethodDelete, c.url("avatars", avatar, "emotes", clip), nil, nil)
}

// Emotes lists the catalog.
func (c *Client) Emotes(ctx context.Context) ([]string, error) {
	var out struct {
		Emotes []string `json:"emotes"`
	}
	if err := httpc.DoJSON(ctx, c.http, http.MethodGet, c.url("emotes"), nil, &out); err != nil {
		return nil, err
	}
	return out.Emotes, nil
}
