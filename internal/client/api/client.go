// Package api is the typed HTTP client for the birthday wall server. Every
// call attaches the bearer credential when one is set; read calls are
// retried once on transport failure, write calls never are.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/client/config"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
)

type Client struct {
	baseURL string
	token   string

	// api is for ordinary JSON calls, upload for binary PUTs which move
	// real data and get a much longer timeout.
	api    *http.Client
	upload *http.Client
}

func New(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.ServerBaseURL, "/"),
		api:     &http.Client{Timeout: cfg.RequestTimeout},
		upload:  &http.Client{Timeout: cfg.UploadTimeout},
	}
}

// SetToken installs the bearer credential used on subsequent calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// errorBody matches the server's uniform error payload.
type errorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// apiError maps an HTTP status back onto the shared error sentinels so the
// rest of the client can use errors.Is exactly like server code does.
func apiError(status int, body errorBody) error {
	var base error
	switch status {
	case http.StatusNotFound:
		base = common.ErrNotFound
	case http.StatusUnauthorized:
		base = common.ErrUnauthorized
	case http.StatusForbidden:
		base = common.ErrPermissionDenied
	case http.StatusConflict:
		base = common.ErrWallImmutable
	case http.StatusUnprocessableEntity:
		base = common.ErrOutOfWindow
	case http.StatusBadRequest:
		base = common.ErrValidation
	case http.StatusBadGateway:
		base = common.ErrAttachFailed
	default:
		base = common.ErrInternal
	}
	if body.Reason != "" {
		return fmt.Errorf("%w: %s (%s)", base, body.Error, body.Reason)
	}
	if body.Error != "" {
		return fmt.Errorf("%w: %s", base, body.Error)
	}
	return base
}

// do performs one JSON request. A non-nil out receives the decoded 2xx body.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var payload io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.api.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var body errorBody
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return apiError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// get performs a GET, retrying exactly once on transport failure. GETs are
// idempotent so the retry is safe; writes never retry.
func (c *Client) get(ctx context.Context, path string, out any) error {
	err := c.do(ctx, http.MethodGet, path, nil, out)
	if err == nil || ctx.Err() != nil {
		return err
	}
	if errors.Is(err, common.ErrTransport) {
		return c.do(ctx, http.MethodGet, path, nil, out)
	}
	return err
}
