// Package token issues and verifies the signed credentials used by the API:
// access/refresh tokens and the single-purpose verification/reset codes that
// are mailed to users. All state lives in the signed claims; nothing is stored
// server side.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretLength is the minimum HMAC key size accepted by NewService.
const MinSecretLength = 32

var (
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrInvalidToken     = errors.New("token is invalid")
	ErrWeakSecret       = fmt.Errorf("token secret must be at least %d bytes", MinSecretLength)
)

// Type distinguishes access from refresh tokens.
type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

const sessionAudience = "sauvini-api"

// Claims represents JWT session claims.
type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType Type   `json:"token_type"`
	jwt.RegisteredClaims
}

// Subject is the identity a token is minted for.
type Subject struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// Pair is the result of a login or refresh.
type Pair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

type Config struct {
	Secret           string
	Issuer           string
	AccessExpiry     time.Duration
	RefreshExpiry    time.Duration
	VerifyCodeExpiry time.Duration
	ResetCodeExpiry  time.Duration
}

// Service defines token operations.
type Service interface {
	Issue(sub Subject) (*Pair, error)
	Verify(tokenString string, want Type) (*Claims, error)
	IssueCode(sub Subject, purpose Purpose, fingerprint string) (string, time.Time, error)
	VerifyCode(code string, purpose Purpose) (*CodeClaims, error)
	AccessExpiry() time.Duration
	RefreshExpiry() time.Duration
}

type Option func(*service)

// WithClock overrides time.Now for issuing and validating.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

type service struct {
	secret []byte
	cfg    Config
	now    func() time.Time
}

// NewService creates a token Service. Zero expiries fall back to the defaults
// (15m access, 7d refresh, 60m codes).
func NewService(cfg Config, opts ...Option) (Service, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if cfg.AccessExpiry <= 0 {
		cfg.AccessExpiry = 15 * time.Minute
	}
	if cfg.RefreshExpiry <= 0 {
		cfg.RefreshExpiry = 7 * 24 * time.Hour
	}
	if cfg.VerifyCodeExpiry <= 0 {
		cfg.VerifyCodeExpiry = time.Hour
	}
	if cfg.ResetCodeExpiry <= 0 {
		cfg.ResetCodeExpiry = time.Hour
	}

	s := &service{
		secret: []byte(cfg.Secret),
		cfg:    cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *service) AccessExpiry() time.Duration {
	return s.cfg.AccessExpiry
}

func (s *service) RefreshExpiry() time.Duration {
	return s.cfg.RefreshExpiry
}

func (s *service) Issue(sub Subject) (*Pair, error) {
	now := s.now().UTC()

	access, accessExp, err := s.sign(sub, TypeAccess, now, s.cfg.AccessExpiry)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, refreshExp, err := s.sign(sub, TypeRefresh, now, s.cfg.RefreshExpiry)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &Pair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *service) sign(sub Subject, typ Type, now time.Time, ttl time.Duration) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims := Claims{
		UserID:    sub.UserID.String(),
		Email:     sub.Email,
		Role:      sub.Role,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   sub.UserID.String(),
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{sessionAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	// NumericDate has second precision
	return signed, claims.ExpiresAt.Time, nil
}

func (s *service) Verify(tokenString string, want Type) (*Claims, error) {
	claims := &Claims{}
	if err := s.parse(tokenString, claims, sessionAudience); err != nil {
		return nil, err
	}
	if claims.TokenType != want {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrInvalidToken, want, claims.TokenType)
	}
	if _, err := uuid.Parse(claims.UserID); err != nil || claims.Role == "" {
		return nil, fmt.Errorf("%w: missing identity claims", ErrInvalidToken)
	}
	return claims, nil
}

func (s *service) parse(tokenString string, claims jwt.Claims, audience string) error {
	parserOpts := []jwt.ParserOption{
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.cfg.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// checked here rather than with jwt.WithValidMethods so a foreign alg
		// surfaces as an unverifiable token, not a bad signature
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	}, parserOpts...)

	switch {
	case err == nil && token.Valid:
		return nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case err != nil:
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	default:
		return ErrInvalidToken
	}
}
