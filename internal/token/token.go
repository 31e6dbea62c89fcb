package token

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jeswinthayil/Lostandfound/internal/domain"
)

const defaultTTL = 24 * time.Hour

// Claims is the JWT payload: standard claims plus the user's role.
// The subject is the user's email.
type Claims struct {
	jwt.RegisteredClaims
	Role domain.Role `json:"role"`
}

// Service issues and verifies HS256-signed bearer credentials.
// It holds no server-side state; revocation lives elsewhere.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(secret []byte) *Service {
	return &Service{secret: secret, ttl: defaultTTL, now: time.Now}
}

// NewServiceAt is NewService with an injected clock, for expiry tests.
func NewServiceAt(secret []byte, now func() time.Time) *Service {
	return &Service{secret: secret, ttl: defaultTTL, now: now}
}

// Issue signs a credential for subject with the given role.
// Expiry is always issuance time plus 24h.
func (s *Service) Issue(subject string, role domain.Role) (string, error) {
	now := s.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Role: role,
	})
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify reports whether raw is a well-formed, correctly signed,
// unexpired credential. It fails closed: any parse problem is false.
func (s *Service) Verify(raw string) bool {
	_, err := s.parse(raw)
	return err == nil
}

// Claims returns the subject and role embedded in raw. The credential
// is verified implicitly; domain.ErrTokenInvalid on any failure.
func (s *Service) Claims(raw string) (string, domain.Role, error) {
	claims, err := s.parse(raw)
	if err != nil {
		return "", "", domain.ErrTokenInvalid
	}
	return claims.Subject, claims.Role, nil
}

// Expiry returns the expiration time of raw, needed to size the
// revocation entry on logout. The signature must check out but an
// already-elapsed expiry is still returned, so callers can observe a
// non-positive remaining TTL.
func (s *Service) Expiry(raw string) (time.Time, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, s.keyFunc, jwt.WithoutClaimsValidation())
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, domain.ErrTokenInvalid
	}
	return claims.ExpiresAt.Time, nil
}

func (s *Service) parse(raw string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(raw, claims, s.keyFunc, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !t.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, errors.New("missing claims")
	}
	return claims, nil
}

func (s *Service) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	return s.secret, nil
}

// ID derives the revocation-store identifier for a raw credential.
// Raw tokens are never persisted, only this hash.
func ID(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
