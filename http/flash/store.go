package flash

import (
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/boj/redistore"
	gorilla "github.com/gorilla/sessions"
	"github.com/xy-planning-network/outpost"
)

const (
	defaultMaxAge = 3600
	defaultName   = "outpost-flash"
)

// The Storer retrieves the Session belonging to an *http.Request.
type Storer interface {
	GetSession(r *http.Request) (Session, error)
}

// A Service wraps a gorilla.Store holding flash Sessions.
//
// Service implements Storer.
type Service struct {
	ak     []byte
	ek     []byte
	env    outpost.Environment
	maxAge int
	name   string
	store  gorilla.Store
}

// A Config provides the values every Service requires.
type Config struct {
	Env outpost.Environment

	// The name of the cookie Sessions are kept under.
	SessionName string

	// Hex-encoded keys.
	AuthKey    string
	EncryptKey string
}

// NewService constructs a Service storing Sessions in cookies,
// unless an Option such as WithRedis says otherwise.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	if err := cfg.Env.Valid(); err != nil {
		return nil, err
	}

	gob.Register(Flash{})

	s := &Service{env: cfg.Env, maxAge: defaultMaxAge, name: cfg.SessionName}
	if s.name == "" {
		s.name = defaultName
	}

	var err error
	s.ak, err = hex.DecodeString(cfg.AuthKey)
	if err != nil || len(s.ak) == 0 {
		return nil, fmt.Errorf("%w: authentication key is not valid", outpost.ErrBadConfig)
	}

	s.ek, err = hex.DecodeString(cfg.EncryptKey)
	if err != nil {
		return nil, fmt.Errorf("%w: encryption key is not valid: %s", outpost.ErrBadConfig, err)
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("%w: %s", outpost.ErrBadConfig, err)
		}
	}

	if s.store == nil {
		if err := WithCookie()(s); err != nil {
			return nil, fmt.Errorf("%w: %s", outpost.ErrBadConfig, err)
		}
	}

	return s, nil
}

// GetSession retrieves the Session for the *http.Request or creates a new one.
func (s *Service) GetSession(r *http.Request) (Session, error) {
	sess, err := s.store.Get(r, s.name)
	return Session{s: sess}, err
}

func (s *Service) secure() bool { return !(s.env.IsDevelopment() || s.env.IsTesting()) }

// An Option configures a *Service, returning an error if unable to.
type Option func(*Service) error

// WithCookie keeps Sessions in cookies.
func WithCookie() Option {
	return func(s *Service) error {
		var c *gorilla.CookieStore
		if len(s.ek) > 0 {
			c = gorilla.NewCookieStore(s.ak, s.ek)
		} else {
			c = gorilla.NewCookieStore(s.ak)
		}

		c.Options.Secure = s.secure()
		c.Options.HttpOnly = true
		c.MaxAge(s.maxAge)
		s.store = c
		return nil
	}
}

// WithMaxAge sets the time-to-live of a Session in seconds.
// Call before WithCookie or WithRedis.
func WithMaxAge(secs int) Option {
	return func(s *Service) error {
		s.maxAge = secs
		return nil
	}
}

// WithRedis keeps Sessions in the Redis server at uri.
func WithRedis(uri, pass string) Option {
	return func(s *Service) error {
		keys := [][]byte{s.ak}
		if len(s.ek) > 0 {
			keys = append(keys, s.ek)
		}

		r, err := redistore.NewRediStore(10, "tcp", uri, pass, keys...)
		if err != nil {
			return fmt.Errorf("failed initializing Redis: %s", err)
		}

		r.Options.Secure = s.secure()
		r.Options.HttpOnly = true
		r.SetMaxAge(s.maxAge)
		s.store = r
		return nil
	}
}
