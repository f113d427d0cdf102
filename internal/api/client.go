// Package api is the single chokepoint for outbound HTTP calls to the task
// server. It attaches the session's bearer token, unwraps the server's JSON
// envelope, and maps failures onto a small error taxonomy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// Client wraps an HTTP client bound to one server and one (optional) token.
type Client struct {
	base string
	hc   *http.Client
}

// New creates a client for the given server address. If token is non-empty,
// every request carries it as an Authorization: Bearer header.
func New(baseURL, token string) *Client {
	hc := &http.Client{}
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		hc = oauth2.NewClient(context.Background(), src)
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   hc,
	}
}

// envelope is the server's JSON response wrapper:
// { "success": true, "data": ... } or
// { "success": false, "error": { "code": ..., "message": ... } }.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *errorBody      `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Do issues a JSON request and decodes the envelope's data into out.
// body may be nil for requests without a payload; out may be nil when the
// caller does not need the response data.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: err}
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	if err := checkStatus(resp.StatusCode, data); err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || !env.Success {
		return &TransportError{Op: op, Err: errors.New("malformed response envelope")}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &TransportError{Op: op, Err: err}
	}
	return nil
}

// Raw issues a GET and returns the response body verbatim, bypassing the JSON
// envelope. Used for binary endpoints (export downloads).
func (c *Client) Raw(ctx context.Context, path string) ([]byte, error) {
	op := "GET " + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	if err := checkStatus(resp.StatusCode, data); err != nil {
		return nil, err
	}
	return data, nil
}

// checkStatus maps a non-success HTTP status to a typed error. The error
// envelope is best-effort: a malformed body falls back to the status text.
func checkStatus(status int, data []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	if status == http.StatusUnauthorized {
		return ErrUnauthenticated
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Error != nil && env.Error.Message != "" {
		return &RequestError{
			StatusCode: status,
			Code:       env.Error.Code,
			Message:    env.Error.Message,
		}
	}
	return &RequestError{StatusCode: status, Message: http.StatusText(status)}
}
