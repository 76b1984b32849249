// Package client talks to the remote form service: it registers identities
// and retrieves the schema assigned to an identity.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/schema"
	"github.com/goliatone/go-formwizard/pkg/session"
)

const (
	// DefaultTimeout bounds every request when no timeout is configured.
	DefaultTimeout = 15 * time.Second

	createUserPath = "/create-user"
	getFormPath    = "/get-form"

	maxBodyBytes = 4 << 20

	msgRegisterFailed = "Failed to create user"
	msgRegistered     = "User created successfully"
	msgFetchFailed    = "Failed to fetch form"
)

var (
	// ErrBaseURL is returned when the client has no usable base URL.
	ErrBaseURL = errors.New("client: base url is required")
	// ErrStatus wraps non-2xx responses from the form service.
	ErrStatus = errors.New("client: unexpected status")
)

// Client is an HTTP client for the form service. It implements
// session.Registrar and wizard.Fetcher.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// New returns a client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrBaseURL, u.Scheme)
	}

	c := &Client{
		base:    u,
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.logger = c.logger.With("component", "client")
	return c, nil
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.base.String() }

type message struct {
	Message string `json:"message"`
}

// Register posts the identity to the create-user endpoint. Service
// rejections are reported through RegisterResult; only transport failures
// return an error.
func (c *Client) Register(ctx context.Context, s session.Session) (session.RegisterResult, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return session.RegisterResult{}, err
	}

	status, data, err := c.do(ctx, http.MethodPost, c.endpoint(createUserPath, nil), body)
	if err != nil {
		c.logger.Warn("create user request failed", "error", err)
		return session.RegisterResult{}, err
	}

	var reply message
	_ = json.Unmarshal(data, &reply)
	if !success(status) {
		msg := reply.Message
		if msg == "" {
			msg = msgRegisterFailed
		}
		c.logger.Info("create user rejected", "status", status, "message", msg)
		return session.RegisterResult{Success: false, Message: msg}, nil
	}
	if reply.Message == "" {
		reply.Message = msgRegistered
	}
	return session.RegisterResult{Success: true, Message: reply.Message}, nil
}

// FetchSchema retrieves the form assigned to identity.
func (c *Client) FetchSchema(ctx context.Context, identity string) (model.FormSchema, error) {
	query := url.Values{"rollNumber": []string{identity}}
	status, data, err := c.do(ctx, http.MethodGet, c.endpoint(getFormPath, query), nil)
	if err != nil {
		return model.FormSchema{}, err
	}
	if !success(status) {
		var reply message
		_ = json.Unmarshal(data, &reply)
		if reply.Message == "" {
			reply.Message = msgFetchFailed
		}
		return model.FormSchema{}, fmt.Errorf("%w: %d: %s", ErrStatus, status, reply.Message)
	}

	form, err := schema.Decode(data)
	if err != nil {
		return model.FormSchema{}, fmt.Errorf("client: get form: %w", err)
	}
	c.logger.Debug("form fetched", "identity", identity, "sections", len(form.Sections))
	return form, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, method, target string, body []byte) (int, []byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("client: %s %s: %w", method, target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("client: read body: %w", err)
	}
	return resp.StatusCode, data, nil
}

func success(status int) bool {
	return status >= 200 && status < 300
}
