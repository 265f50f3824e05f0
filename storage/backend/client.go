// Package backend is the credentialed REST client of the FYP backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/user"
)

// Client sends requests to the backend and classifies its failures.
//
// Credentials come from the request context (user.ContextWithCookie) when present,
// otherwise from the client's own cookie jar.
type Client struct {
	baseURL    string
	cookieName string
	rest       *rest.Client
}

type Option func(*Client) error

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		c.rest.HTTPClient = hc
		return nil
	}
}

// WithSessionCookie seeds a cookie jar with the session cookie.
// Only single-user processes (the CLI) may use this.
func WithSessionCookie(value string) Option {
	return func(c *Client) error {
		if value == "" {
			return nil
		}
		jar, err := cookiejar.New(nil)
		if err != nil {
			return errors.Wrap(err, "creating cookie jar")
		}
		u, err := url.Parse(c.baseURL)
		if err != nil {
			return errors.Wrap(err, "parsing backend url")
		}
		jar.SetCookies(u, []*http.Cookie{{Name: c.cookieName, Value: value, Path: "/"}})
		c.rest.HTTPClient.Jar = jar
		return nil
	}
}

func NewClient(conf core.BackendConfig, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    conf.BaseURL,
		cookieName: conf.SessionCookieName,
		rest:       &rest.Client{HTTPClient: &http.Client{Timeout: conf.Timeout}},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	res, err := c.send(ctx, rest.Get, path, nil, nil)
	if err != nil {
		return err
	}
	return decode(res, rest.Get, path, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	var data []byte
	if body != nil {
		var err error
		if data, err = json.Marshal(body); err != nil {
			return errors.Wrapf(err, "encoding %s body", path)
		}
	}
	res, err := c.send(ctx, rest.Post, path, data, nil)
	if err != nil {
		return err
	}
	return decode(res, rest.Post, path, out)
}

// postRaw posts a JSON body and returns the raw response.
func (c *Client) postRaw(ctx context.Context, path string, body interface{}) (*rest.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s body", path)
	}
	return c.send(ctx, rest.Post, path, data, map[string]string{"Accept": "*/*"})
}

func (c *Client) send(ctx context.Context, method rest.Method, path string, body []byte, headers map[string]string) (*rest.Response, error) {
	req := rest.Request{
		Method:  method,
		BaseURL: c.baseURL + path,
		Headers: map[string]string{
			"Accept":       "application/json",
			"X-Request-ID": uuid.New().String(),
		},
		Body: body,
	}
	for k, v := range headers {
		req.Headers[k] = v
	}
	if cookie := user.CookieFromContext(ctx); cookie != nil {
		req.Headers["Cookie"] = (&http.Cookie{Name: c.cookieName, Value: cookie.Value}).String()
	}

	res, err := c.rest.SendWithContext(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrapf(ctx.Err(), "%s %s", method, path)
		}
		return nil, &core.RequestError{Method: string(method), Path: path, Err: err}
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized, res.StatusCode == http.StatusForbidden:
		return nil, errors.Wrapf(core.ErrAuthExpired, "%s %s", method, path)
	case res.StatusCode < 200, res.StatusCode > 299:
		return nil, &core.RequestError{
			Method:     string(method),
			Path:       path,
			StatusCode: res.StatusCode,
			Message:    errorMessage(res.Body),
		}
	}
	return res, nil
}

// decode unmarshals a JSON response into out. An empty body leaves out untouched.
func decode(res *rest.Response, method rest.Method, path string, out interface{}) error {
	if out == nil || len(bytes.TrimSpace([]byte(res.Body))) == 0 {
		return nil
	}
	if err := json.Unmarshal([]byte(res.Body), out); err != nil {
		return &core.RequestError{
			Method:     string(method),
			Path:       path,
			StatusCode: res.StatusCode,
			Message:    "invalid response body",
			Err:        err,
		}
	}
	return nil
}

// errorMessage extracts {"error": "..."} or {"message": "..."} from a failure body.
func errorMessage(body string) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

func header(res *rest.Response, key string) string {
	for k, vs := range res.Headers {
		if http.CanonicalHeaderKey(k) == http.CanonicalHeaderKey(key) && len(vs) > 0 {
			return vs[0]
		}
	}
	return ""
}

// attachmentName reads the filename of a Content-Disposition header.
func attachmentName(res *rest.Response) string {
	_, params, err := mime.ParseMediaType(header(res, "Content-Disposition"))
	if err != nil {
		return ""
	}
	return params["filename"]
}
