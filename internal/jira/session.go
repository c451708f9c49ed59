// Package jira talks to the issue tracker's REST API: it authenticates a
// session, encodes queries and issue creations, and normalizes the issues
// that come back.
package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	jira "github.com/andygrunwald/go-jira"

	"github.com/danielolaszy/ob/internal/apperr"
	"github.com/danielolaszy/ob/internal/logging"
)

const (
	sessionPath = "rest/auth/1/session"
	contentType = "application/json; charset=utf-8"
)

// Session is an authenticated connection to the tracker. It is built once per
// invocation and is read-only afterwards, so it may be shared between goroutines.
type Session struct {
	client  *jira.Client
	baseURL *url.URL
	cookie  *http.Cookie // nil in basic auth mode
}

// Response is a tracker response read in full.
type Response struct {
	StatusCode int
	Body       []byte
	// Err is set when the status was not 2xx. It is a *jira.Error when the
	// body carried the tracker's error format.
	Err error
}

type sessionOptions struct {
	httpClient *http.Client
	basicAuth  bool
}

// SessionOption configures NewSession.
type SessionOption func(*sessionOptions)

// WithHTTPClient sets the HTTP client used for every round trip.
func WithHTTPClient(c *http.Client) SessionOption {
	return func(o *sessionOptions) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithBasicAuth skips the login handshake and sends the credential as an
// Authorization: Basic header on every request.
func WithBasicAuth() SessionOption {
	return func(o *sessionOptions) {
		o.basicAuth = true
	}
}

// NewSession decodes token, logs in to the tracker at baseURL and returns a
// session carrying the resulting cookie. There is no retry and no
// unauthenticated fallback: if the login fails, no session exists.
func NewSession(ctx context.Context, token, baseURL string, opts ...SessionOption) (*Session, error) {
	o := sessionOptions{httpClient: &http.Client{}}
	for _, opt := range opts {
		opt(&o)
	}

	username, password, err := DecodeCredential(token)
	if err != nil {
		return nil, err
	}

	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, apperr.E(apperr.KindInvalidConfig, "parse tracker url", err)
	}

	httpClient := o.httpClient
	mode := "session"
	if o.basicAuth {
		tp := jira.BasicAuthTransport{
			Username:  username,
			Password:  password,
			Transport: o.httpClient.Transport,
		}
		httpClient = tp.Client()
		mode = "basic"
	}

	client, err := jira.NewClient(httpClient, base.String())
	if err != nil {
		return nil, apperr.E(apperr.KindInvalidConfig, "create tracker client", err)
	}

	logging.Debug("creating tracker session",
		"url", base.String(),
		"username", username,
		"auth", logging.MaskSensitive(token),
		"mode", mode)

	s := &Session{client: client, baseURL: base}
	if o.basicAuth {
		return s, nil
	}
	if err := s.login(ctx, username, password); err != nil {
		return nil, err
	}
	return s, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%q is not an absolute url", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

// login exchanges the credential for a session cookie.
func (s *Session) login(ctx context.Context, username, password string) error {
	const op = "login"

	req, err := s.newRequest(ctx, http.MethodPost, sessionPath, AuthRequest{Username: username, Password: password})
	if err != nil {
		return apperr.E(apperr.KindAuth, op, err)
	}

	resp, err := s.Send(req)
	if err != nil {
		return apperr.E(apperr.KindAuth, op, err)
	}
	if resp.Err != nil {
		return &apperr.Error{Kind: apperr.KindAuth, Op: op, Body: string(resp.Body), Err: statusError(resp)}
	}

	var auth AuthResponse
	if err := json.Unmarshal(resp.Body, &auth); err != nil {
		return &apperr.Error{Kind: apperr.KindAuth, Op: op, Body: string(resp.Body), Err: fmt.Errorf("decode session: %w", err)}
	}
	if auth.Session.Name == "" {
		return &apperr.Error{Kind: apperr.KindAuth, Op: op, Body: string(resp.Body), Err: errors.New("response did not contain a session cookie")}
	}

	s.cookie = &http.Cookie{Name: auth.Session.Name, Value: auth.Session.Value}
	logging.Debug("session established", "cookie", auth.Session.Name)
	return nil
}

// BaseURL returns the tracker root, always ending in "/".
func (s *Session) BaseURL() string {
	return s.baseURL.String()
}

// Get returns a pending GET request for path, resolved against the base URL.
func (s *Session) Get(ctx context.Context, path string) (*http.Request, error) {
	return s.newRequest(ctx, http.MethodGet, path, nil)
}

// Post returns a pending POST request for path with body encoded as JSON.
func (s *Session) Post(ctx context.Context, path string, body any) (*http.Request, error) {
	return s.newRequest(ctx, http.MethodPost, path, body)
}

func (s *Session) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	req, err := s.client.NewRequestWithContext(ctx, method, path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	return req, nil
}

// Send performs exactly one round trip and reads the whole body. Only a
// failure to get or read a response is returned as an error; a non-2xx status
// is reported through Response.Err.
func (s *Session) Send(req *http.Request) (*Response, error) {
	op := req.Method + " " + req.URL.Path
	logging.Debug("sending request", "method", req.Method, "url", req.URL.String())

	resp, err := s.client.Do(req, nil)
	if resp == nil {
		if err == nil {
			err = errors.New("no response")
		}
		return nil, apperr.E(apperr.KindTransport, op, err)
	}
	defer resp.Body.Close() // nolint:errcheck

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, apperr.E(apperr.KindTransport, op, fmt.Errorf("read response: %w", readErr))
	}

	logging.Debug("received response", "url", req.URL.String(), "status", resp.StatusCode, "bytes", len(body))

	out := &Response{StatusCode: resp.StatusCode, Body: body}
	if err != nil {
		out.Err = trackerError(err, body)
	}
	return out, nil
}

// StatusError is a non-2xx response, described by its status code and the
// tracker's own error messages. Err keeps the underlying status error.
type StatusError struct {
	StatusCode int
	Messages   []string
	Err        error
}

func (e *StatusError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// statusError describes resp, which must carry a status error.
func statusError(resp *Response) *StatusError {
	out := &StatusError{StatusCode: resp.StatusCode, Err: resp.Err}

	var jerr *jira.Error
	if errors.As(resp.Err, &jerr) {
		out.Messages = append(out.Messages, jerr.ErrorMessages...)
		fields := make([]string, 0, len(jerr.Errors))
		for field := range jerr.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			out.Messages = append(out.Messages, field+": "+jerr.Errors[field])
		}
	}
	return out
}

// trackerError attaches the tracker's error messages, when the body has them,
// to a status error.
func trackerError(statusErr error, body []byte) error {
	jerr := &jira.Error{HTTPError: statusErr}
	if err := json.Unmarshal(body, jerr); err != nil {
		return statusErr
	}
	if len(jerr.ErrorMessages) == 0 && len(jerr.Errors) == 0 {
		return statusErr
	}
	return jerr
}
