package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

const (
	sessionCookie   = "session_id"
	requestIDHeader = "X-Request-ID"
)

// CredentialSource yields the current session credential, "" when logged out.
type CredentialSource interface {
	Credential() string
}

// Navigator lets the gateway send the user back to the auth entry point.
type Navigator interface {
	OnAuthPage() bool
	GoToAuth()
}

// Gateway performs authenticated requests against the backend.
type Gateway struct {
	baseURL *url.URL
	client  *http.Client
	creds   CredentialSource
	nav     Navigator
	logger  *slog.Logger
	newID   func() string
	timeout time.Duration
}

type Option func(*Gateway)

// WithTimeout bounds every request, including reading the body. Zero means
// no limit.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

func WithNavigator(nav Navigator) Option {
	return func(g *Gateway) { g.nav = nav }
}

func WithCredentials(src CredentialSource) Option {
	return func(g *Gateway) { g.creds = src }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

func NewGateway(baseURL string, opts ...Option) (*Gateway, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: base url must be http or https, got %q", baseURL)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("api: cookie jar: %w", err)
	}
	g := &Gateway{
		baseURL: u,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(g)
	}
	g.client = &http.Client{Jar: jar, Timeout: g.timeout}
	return g, nil
}

// UseCredentials attaches the credential source after construction.
func (g *Gateway) UseCredentials(src CredentialSource) { g.creds = src }

// UseNavigator attaches the navigator after construction.
func (g *Gateway) UseNavigator(nav Navigator) { g.nav = nav }

func (g *Gateway) BaseURL() string { return g.baseURL.String() }

type requestOptions struct {
	redirectOnUnauthorized bool
}

type RequestOption func(*requestOptions)

// RedirectOnUnauthorized asks the gateway to navigate to the auth entry when
// the server answers 401, unless the user is already there.
func RedirectOnUnauthorized() RequestOption {
	return func(o *requestOptions) { o.redirectOnUnauthorized = true }
}

func (g *Gateway) endpoint(path string, query url.Values) *url.URL {
	u := *g.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return &u
}

// Do sends the request with the session credential attached. The caller owns
// the response body. Transport failures are returned as *Error with KindNetwork.
func (g *Gateway) Do(ctx context.Context, method, path string, query url.Values, body any, opts ...RequestOption) (*http.Response, error) {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}
	op := method + " " + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	target := g.endpoint(path, query)
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := g.newID()
	req.Header.Set(requestIDHeader, requestID)
	g.attachCredential(req, target)

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("request failed", "method", method, "path", path, "request_id", requestID, "err", err)
		return nil, networkError(op, err)
	}
	g.logger.Debug("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode == http.StatusUnauthorized && ro.redirectOnUnauthorized && g.nav != nil && !g.nav.OnAuthPage() {
		g.logger.Info("credential rejected, returning to auth", "path", path, "request_id", requestID)
		g.nav.GoToAuth()
	}
	return resp, nil
}

func (g *Gateway) attachCredential(req *http.Request, target *url.URL) {
	if g.creds == nil {
		return
	}
	cred := g.creds.Credential()
	if cred == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+cred)
	if g.client.Jar != nil {
		for _, c := range g.client.Jar.Cookies(target) {
			if c.Name == sessionCookie {
				return
			}
		}
	}
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: cred})
}

// call runs a JSON round trip. Any status outside want is turned into *Error.
// out may be nil when the body is ignored.
func (g *Gateway) call(ctx context.Context, method, path string, query url.Values, body, out any, want []int, opts ...RequestOption) error {
	resp, err := g.Do(ctx, method, path, query, body, opts...)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	op := method + " " + path
	if !statusIn(resp.StatusCode, want) {
		return errorFromResponse(op, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return &Error{Op: op, Kind: KindServer, Status: resp.StatusCode, Detail: "empty response body"}
		}
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

var (
	ok2xx     = []int{http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent}
	okNoBody  = []int{http.StatusNoContent}
	okCreated = []int{http.StatusOK, http.StatusCreated}
)

func statusIn(status int, want []int) bool {
	for _, w := range want {
		if status == w {
			return true
		}
	}
	return false
}
