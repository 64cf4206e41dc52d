package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/xy-planning-network/outpost"
)

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = 24 * time.Hour

// Service is an implementation of the TokenService interface defined in this package.
type Service struct {
	key    []byte
	now    func() time.Time
	parser *jwt.Parser
	ttl    time.Duration
}

// A ServiceOpt configures a Service.
type ServiceOpt func(*Service)

// WithClock sets the clock tokens are issued against.
func WithClock(now func() time.Time) ServiceOpt {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTTL sets how long issued tokens stay valid.
func WithTTL(ttl time.Duration) ServiceOpt {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewService constructs a Service signing tokens with jwtKey.
func NewService(jwtKey string, opts ...ServiceOpt) (*Service, error) {
	if jwtKey == "" {
		return nil, fmt.Errorf(`%w: jwt key cannot be ""`, outpost.ErrBadConfig)
	}

	s := &Service{
		key:    []byte(jwtKey),
		now:    time.Now,
		parser: &jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}},
		ttl:    DefaultTTL,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}
