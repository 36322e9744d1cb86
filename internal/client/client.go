package client

import (
	"strings"
	"sync"
	"time"

	"github.com/atlanticproxy/atlantic/internal/common"
	"github.com/atlanticproxy/atlantic/internal/config"
	"github.com/atlanticproxy/atlantic/internal/sessions"
	"github.com/atlanticproxy/atlantic/internal/stream"
	"github.com/go-resty/resty/v2"
)

const DefaultTimeout = 30 * time.Second

// UnauthorizedHandler is invoked after a 401 response has cleared the
// session.
type UnauthorizedHandler func()

// Client talks to the AtlanticProxy backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	resty   *resty.Client
	session *sessions.Session

	mu             sync.RWMutex
	onUnauthorized UnauthorizedHandler

	streamOptions []stream.Option
}

type Option func(*Client)

func WithSession(session *sessions.Session) Option {
	return func(c *Client) {
		if session != nil {
			c.session = session
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.resty.SetTimeout(timeout)
		}
	}
}

func WithUnauthorizedHandler(handler UnauthorizedHandler) Option {
	return func(c *Client) {
		c.onUnauthorized = handler
	}
}

// WithStreamOptions are applied to every status subscription.
func WithStreamOptions(opts ...stream.Option) Option {
	return func(c *Client) {
		c.streamOptions = append(c.streamOptions, opts...)
	}
}

func NewClient(baseURL string, opts ...Option) *Client {

	if len(baseURL) == 0 {
		baseURL = config.DefaultAPIEndpoint
	}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		resty: resty.New().
			SetTimeout(DefaultTimeout).
			SetHeader("User-Agent", common.GetUserAgent()).
			SetHeader("X-Client", common.GetClientIdentifier().String()),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.session == nil {
		c.session = sessions.NewSession(sessions.NewMemoryStore())
	}

	return c
}

// NewClientFromConfig wires timeouts and stream settings from cfg.
func NewClientFromConfig(cfg *config.Config, session *sessions.Session, opts ...Option) *Client {

	base := []Option{
		WithSession(session),
		WithTimeout(cfg.GetTimeout()),
		WithStreamOptions(
			stream.WithHeartbeat(cfg.GetHeartbeatInterval()),
			stream.WithReconnectDelay(cfg.GetReconnectDelay()),
			stream.WithMaxReconnects(cfg.GetMaxReconnects()),
		),
	}

	c := NewClient(cfg.GetAPIEndpoint(), append(base, opts...)...)

	if len(cfg.API.Token) > 0 {
		c.session.UseToken(cfg.API.Token)
	}

	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Session() *sessions.Session {
	return c.session
}

func (c *Client) SetUnauthorizedHandler(handler UnauthorizedHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = handler
}

// SetToken adopts an externally supplied token and persists it.
func (c *Client) SetToken(token string) error {
	return c.session.SetToken(token)
}

func (c *Client) IsAuthenticated() bool {
	return c.session.IsAuthenticated()
}

func (c *Client) unauthorizedHandler() UnauthorizedHandler {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.onUnauthorized
}
