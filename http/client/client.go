package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/http/flash"
	"github.com/xy-planning-network/outpost/logger"
	"github.com/xy-planning-network/outpost/spritecache"
	"golang.org/x/time/rate"
)

const (
	DefaultInvalidationWindow = 5 * time.Second
	DefaultTimeout            = 30 * time.Second
)

const (
	ForbiddenMsg      = "Access denied: you lack the role this action requires."
	ServerErrMsg      = "A server error occurred. Please try again later."
	SessionExpiredMsg = "Session expired, please log in again."
	UnauthorizedMsg   = "You need to log in."
	UnknownErrMsg     = "Unknown error."
	UnreachableMsg    = "Server unreachable."
)

// A SessionStore holds the operator's credentials.
type SessionStore interface {
	Token() string
	Login(ctx context.Context, pseudo, token string) error
	Clear(ctx context.Context) error
}

// A Notifier shows the operator a notice.
type Notifier func(ctx context.Context, f flash.Flash) error

// A Client calls the API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  logger.Logger
	notify  Notifier
	now     func() time.Time
	session SessionStore
	sprites *spritecache.Cache
	window  time.Duration

	// one token per window: the session expired notice
	invalidation *rate.Limiter

	Auth    *AuthService
	Players *PlayersService
	Roles   *RolesService
	Routes  *RoutesService
	Sprites *SpritesService
}

// An Option configures a Client when calling New.
type Option func(*Client)

// WithClock sets the clock invalidation windows are measured with.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithHTTPClient sets the *http.Client requests go through.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithInvalidationWindow sets how long after one session expired notice the next is suppressed.
func WithInvalidationWindow(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.window = d
		}
	}
}

// WithLogger sets the logger.Logger failures are reported to.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithNotifier overrides flash.Notify as the way failures are shown to the operator.
func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		if n != nil {
			c.notify = n
		}
	}
}

// WithSpriteCache sets the cache sprite images are kept in.
func WithSpriteCache(sc *spritecache.Cache) Option {
	return func(c *Client) {
		if sc != nil {
			c.sprites = sc
		}
	}
}

// New constructs a Client calling the API at baseURL with the credentials in store.
func New(baseURL string, store SessionStore, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: API base URL %q", outpost.ErrBadConfig, baseURL)
	}

	if store == nil {
		return nil, fmt.Errorf("%w: nil SessionStore", outpost.ErrBadConfig)
	}

	u.Path = strings.TrimSuffix(u.Path, "/")
	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: DefaultTimeout},
		notify:  flash.Notify,
		now:     time.Now,
		session: store,
		window:  DefaultInvalidationWindow,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logger.New()
	}

	if c.sprites == nil {
		c.sprites = spritecache.New()
	}

	c.invalidation = rate.NewLimiter(rate.Every(c.window), 1)
	c.Auth = &AuthService{c}
	c.Players = &PlayersService{c}
	c.Roles = &RolesService{c}
	c.Routes = &RoutesService{c}
	c.Sprites = &SpritesService{c}

	return c, nil
}

// newRequest constructs a request to path, relative to the base URL,
// encoding body as JSON unless it is an io.Reader.
func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var (
		r           io.Reader
		contentType string
	)

	switch b := body.(type) {
	case nil:
	case io.Reader:
		r = b
	default:
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(b); err != nil {
			return nil, fmt.Errorf("%w: %s", outpost.ErrNotValid, err)
		}
		r = buf
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", outpost.ErrNotValid, err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// do sends req and decodes the "data" of a successful response into v, if v is not nil.
func (c *Client) do(req *http.Request, v any) error {
	res, err := c.send(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if v == nil {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return c.fail(req.Context(), &Error{Status: res.StatusCode, Message: err.Error(), kind: ErrUnexpected})
	}

	if err := json.Unmarshal(env.Data, v); err != nil {
		return c.fail(req.Context(), &Error{Status: res.StatusCode, Message: err.Error(), kind: ErrUnexpected})
	}

	return nil
}

// send sends req, returning the response only if it succeeded.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	res, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}

		return nil, c.fail(req.Context(), &Error{Message: err.Error(), kind: ErrNetwork})
	}

	if res.StatusCode < http.StatusBadRequest {
		return res, nil
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
	var problem struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &problem); err != nil {
		problem.Message = strings.TrimSpace(string(raw))
	}

	return nil, c.fail(req.Context(), &Error{
		Status:  res.StatusCode,
		Code:    problem.Error,
		Message: problem.Message,
		kind:    classify(res.StatusCode, problem.Error),
	})
}

// fail notifies the operator of e and returns it.
func (c *Client) fail(ctx context.Context, e *Error) error {
	var msg string
	switch e.kind {
	case ErrNetwork:
		msg = UnreachableMsg
	case ErrSessionInvalid:
		if err := c.session.Clear(ctx); err != nil {
			c.logger.Error("failed clearing invalid session", &logger.LogContext{Error: err})
		}

		if !c.invalidation.AllowN(c.now(), 1) {
			return e
		}
		msg = SessionExpiredMsg
	case ErrUnauthorized:
		msg = UnauthorizedMsg
	case ErrForbidden:
		msg = ForbiddenMsg
		if e.Message != "" {
			msg = e.Message
		}
	case ErrServer:
		msg = ServerErrMsg
	default:
		msg = UnknownErrMsg
		if e.Message != "" {
			msg = e.Message
		}
	}

	if err := c.notify(ctx, flash.Error(msg)); err != nil && !errors.Is(err, flash.ErrNoSession) {
		c.logger.Warn("failed notifying operator", &logger.LogContext{Error: err, Data: map[string]any{"msg": msg}})
	}

	return e
}
