// Package token issues and validates the HMAC-signed bearer tokens that back
// every authenticated request. Tokens are stateless: nothing is persisted, and
// the only exit from validity is expiry.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/scribehub/identity-api/internal/core/domain"
)

// Claims is the payload embedded in access tokens. Subject carries the
// principal's email.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer mints signed access tokens with a fixed TTL.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	method jwt.SigningMethod
}

// NewIssuer builds an Issuer. An empty secret or a non-HMAC algorithm is a
// configuration error and must abort startup.
func NewIssuer(secret string, ttl time.Duration, algorithm string) (*Issuer, error) {
	method, err := hmacMethod(secret, algorithm)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, method: method}, nil
}

// Issue returns a signed compact token for the given principal identity.
func (i *Issuer) Issue(email, role string, now time.Time) (string, error) {
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
}

// TTL exposes the configured token lifetime.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Validator verifies token signature and expiry and extracts claims. It never
// touches the store.
type Validator struct {
	secret []byte
	method jwt.SigningMethod
}

// NewValidator builds a Validator for the same secret/algorithm pair the
// Issuer uses.
func NewValidator(secret, algorithm string) (*Validator, error) {
	method, err := hmacMethod(secret, algorithm)
	if err != nil {
		return nil, err
	}
	return &Validator{secret: []byte(secret), method: method}, nil
}

// Validate parses raw and returns its claims. A bad signature, malformed
// structure, or an exp not strictly in the future all yield
// domain.ErrInvalidCredentials; a missing subject yields
// domain.ErrMissingSubject.
func (v *Validator) Validate(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{v.method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidCredentials
	}
	if claims.Subject == "" {
		return nil, domain.ErrMissingSubject
	}
	return claims, nil
}

func hmacMethod(secret, algorithm string) (jwt.SigningMethod, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret must not be empty")
	}
	if algorithm == "" {
		algorithm = "HS256"
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("token: unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("token: algorithm %q is not HMAC", algorithm)
	}
	return method, nil
}
