package token

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Purpose scopes a mailed code to a single flow.
type Purpose string

const (
	PurposeVerify Purpose = "verify"
	PurposeReset  Purpose = "reset"
)

func (p Purpose) audience() string {
	return "sauvini-" + string(p)
}

// CodeClaims are carried by verification and password reset codes.
type CodeClaims struct {
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	Purpose     Purpose `json:"purpose"`
	Fingerprint string  `json:"fp,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the subject as a uuid.
func (c *CodeClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

func (s *service) codeExpiry(purpose Purpose) (time.Duration, error) {
	switch purpose {
	case PurposeVerify:
		return s.cfg.VerifyCodeExpiry, nil
	case PurposeReset:
		return s.cfg.ResetCodeExpiry, nil
	default:
		return 0, fmt.Errorf("unknown code purpose %q", purpose)
	}
}

func (s *service) IssueCode(sub Subject, purpose Purpose, fingerprint string) (string, time.Time, error) {
	ttl, err := s.codeExpiry(purpose)
	if err != nil {
		return "", time.Time{}, err
	}

	now := s.now().UTC()
	claims := CodeClaims{
		Email:       sub.Email,
		Role:        sub.Role,
		Purpose:     purpose,
		Fingerprint: fingerprint,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   sub.UserID.String(),
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{purpose.audience()},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s code: %w", purpose, err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

func (s *service) VerifyCode(code string, purpose Purpose) (*CodeClaims, error) {
	if _, err := s.codeExpiry(purpose); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims := &CodeClaims{}
	if err := s.parse(code, claims, purpose.audience()); err != nil {
		return nil, err
	}
	if claims.Purpose != purpose {
		return nil, fmt.Errorf("%w: code issued for %q", ErrInvalidToken, claims.Purpose)
	}
	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return claims, nil
}

// Fingerprint derives a short, non-reversible marker of a secret such as a
// password hash. Reset codes embed it so that they stop validating once the
// password they were issued against has changed.
func Fingerprint(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:8])
}

// FingerprintMatches compares fingerprints in constant time.
func FingerprintMatches(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
