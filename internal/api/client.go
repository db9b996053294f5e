package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/storedash/storedash-cli/internal/validation"
)

const DefaultTimeout = 30 * time.Second

// Service selects which backend a request is sent to.
type Service int

const (
	// Commerce serves products, categories, orders, taxes, delivery charges
	// and the account profile.
	Commerce Service = iota
	// Portfolio serves the portfolio summary.
	Portfolio
)

func (s Service) String() string {
	if s == Portfolio {
		return "portfolio"
	}
	return "commerce"
}

// TokenResolver returns the first non-empty token stored under keys.
type TokenResolver interface {
	Resolve(keys ...string) (string, bool)
}

// Client is the storefront dashboard API client. It holds no per-request
// state; tokens are resolved on every call, so one client is safe to share
// between goroutines.
type Client struct {
	BaseURL      string
	PortfolioURL string
	Tokens       TokenResolver
	HTTP         *http.Client
	UserAgent    string

	skipURLValidation bool // internal flag for testing only
	validateMu        sync.Mutex
	validated         map[string]bool
}

// Compile-time interface implementation checks
var (
	_ Requester    = (*Client)(nil)
	_ PathResolver = (*Client)(nil)
	_ HTTPExecutor = (*Client)(nil)
)

var validateBaseURL = validation.ValidateBaseURL

// New creates a client for the two backends. An empty portfolioURL falls back
// to baseURL.
func New(baseURL, portfolioURL string, tokens TokenResolver) *Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12
	transport.TLSClientConfig.InsecureSkipVerify = false

	// Allow localhost URLs when STOREDASH_TESTING=1 is set (for integration tests)
	skipValidation := os.Getenv("STOREDASH_TESTING") == "1"

	return &Client{
		BaseURL:           strings.TrimRight(baseURL, "/"),
		PortfolioURL:      strings.TrimRight(portfolioURL, "/"),
		Tokens:            tokens,
		skipURLValidation: skipValidation,
		HTTP: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
		},
	}
}

// newTestClient creates a client with URL validation disabled for testing
func newTestClient(baseURL string, tokens TokenResolver) *Client {
	c := New(baseURL, baseURL, tokens)
	c.skipURLValidation = true
	return c
}

func (c *Client) base(service Service) string {
	if service == Portfolio && c.PortfolioURL != "" {
		return c.PortfolioURL
	}
	return c.BaseURL
}

// endpoint joins a backend base URL and a path.
func (c *Client) endpoint(service Service, path string) string {
	if path != "" && path[0] != '/' {
		path = "/" + path
	}
	return c.base(service) + path
}

// URL returns the absolute URL for path on the given backend.
func (c *Client) URL(service Service, path string) string {
	return c.endpoint(service, path)
}

func (c *Client) ensureBaseURLValidated(base string) error {
	if c.skipURLValidation {
		return nil
	}

	c.validateMu.Lock()
	defer c.validateMu.Unlock()

	if c.validated[base] {
		return nil
	}

	if err := validateBaseURL(base); err != nil {
		return fmt.Errorf("URL validation failed: %w", err)
	}

	if c.validated == nil {
		c.validated = make(map[string]bool)
	}
	c.validated[base] = true
	return nil
}

// request describes one call. op is a short verb phrase ("fetch taxes") used
// in error messages.
type request struct {
	op          string
	service     Service
	method      string
	path        string
	tokenKeys   []string
	// encode builds the body. It runs only after a token was found, so an
	// unusable payload never hides a missing token.
	encode func() ([]byte, string, error)
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// send resolves a token, performs the request once and classifies the
// outcome. Non-2xx responses come back as *APIError; the body of a 2xx
// response is returned unparsed.
func (c *Client) send(ctx context.Context, req request) (*response, error) {
	var token string
	if c.Tokens != nil {
		token, _ = c.Tokens.Resolve(req.tokenKeys...)
	}
	if token == "" {
		return nil, &AuthMissingError{Op: req.op, Keys: req.tokenKeys}
	}

	var body []byte
	var contentType string
	if req.encode != nil {
		var err error
		if body, contentType, err = req.encode(); err != nil {
			return nil, fmt.Errorf("failed to %s: %w", req.op, err)
		}
	}

	base := c.base(req.service)
	if err := c.ensureBaseURLValidated(base); err != nil {
		return nil, err
	}
	url := c.endpoint(req.service, req.path)

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if c.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.UserAgent)
	}

	logger := zerolog.Ctx(ctx)
	start := time.Now()

	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		logger.Debug().Err(err).Str("method", req.method).Str("url", url).Msg("request failed")
		return nil, &TransportError{Op: req.op, Method: req.method, URL: url, Err: err}
	}
	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, &TransportError{Op: req.op, Method: req.method, URL: url, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	logger.Debug().
		Str("method", req.method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Int("bytes", len(respBody)).
		Msg("request complete")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(req.op, resp.StatusCode, respBody, requestIDFromHeader(resp.Header))
	}
	return &response{status: resp.StatusCode, header: resp.Header, body: respBody}, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// decode parses a 2xx body into out, after copying alias identifiers onto
// "id" within field. 204 No Content decodes to the zero value.
func decode(op string, resp *response, field string, aliases []string, out any) error {
	trimmed := bytes.TrimSpace(resp.body)
	if len(trimmed) == 0 && resp.status == http.StatusNoContent {
		return nil
	}
	if !json.Valid(trimmed) {
		return &MalformedResponseError{Op: op, StatusCode: resp.status, Body: snippet(trimmed)}
	}
	body, err := canonicalizeEnvelope(trimmed, field, aliases)
	if err != nil {
		return &MalformedResponseError{Op: op, StatusCode: resp.status, Body: snippet(trimmed), Err: err}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			err = fmt.Errorf("unexpected type for %q: %w", typeErr.Field, err)
		}
		return &MalformedResponseError{Op: op, StatusCode: resp.status, Body: snippet(trimmed), Err: err}
	}
	return nil
}

func snippet(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

func requestIDFromHeader(header http.Header) string {
	if header == nil {
		return ""
	}
	if id := header.Get("X-Request-Id"); id != "" {
		return id
	}
	return header.Get("X-Correlation-Id")
}
