// Package adminsession issues and verifies the signed tokens carried in the
// admin panel's session cookie.
package adminsession

import (
	"errors"
	"net/http"
	"time"

	"github.com/dakshh-official/dakshh-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the admin session cookie.
const CookieName = "admin_session"

// Claims holds the admin session token payload.
type Claims struct {
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	Master      bool     `json:"master,omitempty"`
	jwt.RegisteredClaims
}

// Authority signs and verifies HS256 admin session tokens.
type Authority struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures an Authority.
type Option func(*Authority)

// WithClock overrides the time source. Used by tests to control expiry.
func WithClock(now func() time.Time) Option {
	return func(a *Authority) { a.now = now }
}

func NewAuthority(secret string, ttl time.Duration, opts ...Option) *Authority {
	a := &Authority{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Sign produces a signed token for the given session.
func (a *Authority) Sign(s *domain.AdminSession) (string, error) {
	now := a.now()
	claims := Claims{
		Email:       s.Email,
		Role:        s.Role,
		Permissions: s.Permissions,
		Master:      s.Master,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.AdminID,
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Verify validates a token and returns the embedded session. Tampered or
// expired tokens are rejected.
func (a *Authority) Verify(tokenStr string) (*domain.AdminSession, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Subject == "" || claims.Role == "" {
		return nil, errors.New("incomplete token claims")
	}
	return &domain.AdminSession{
		AdminID:     claims.Subject,
		Email:       claims.Email,
		Role:        claims.Role,
		Permissions: claims.Permissions,
		Master:      claims.Master,
	}, nil
}

// NewCookie wraps a signed token in the session cookie.
func (a *Authority) NewCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(a.ttl / time.Second),
	}
}

// ClearCookie returns an expired session cookie.
func (a *Authority) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	}
}

// MasterSession is the session issued through the master-key gate: highest
// privilege, full capability set, explicit master flag.
func MasterSession() *domain.AdminSession {
	return &domain.AdminSession{
		AdminID:     "master",
		Email:       "master",
		Role:        domain.RoleMaster,
		Permissions: domain.AllCapabilities,
		Master:      true,
	}
}
