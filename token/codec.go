// Package token encodes and decodes the signed bearer tokens issued by
// gatekit. Access and refresh tokens are HS256 compact JWTs signed with
// independent secrets, so a leaked secret for one trust domain cannot be
// used to forge tokens for the other.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Type discriminates the two token trust domains.
type Type string

const (
	// TypeAccess marks short-lived tokens that authorize individual requests.
	TypeAccess Type = "access"
	// TypeRefresh marks long-lived tokens used solely to obtain new access tokens.
	TypeRefresh Type = "refresh"
)

var (
	// ErrMalformed is returned when a token string cannot be parsed.
	ErrMalformed = errors.New("malformed token")
	// ErrBadSignature is returned when a token signature does not verify
	// against any secret configured for the expected type.
	ErrBadSignature = errors.New("bad token signature")
	// ErrExpired is returned when a token's expiry is at or before now.
	ErrExpired = errors.New("token expired")
	// ErrWrongType is returned when a token of one type is presented where
	// the other type is required.
	ErrWrongType = errors.New("wrong token type")
)

// Claims is the semantic payload carried inside a signed token. The
// registered claims contribute the subject (username), token ID, expiry,
// and issued-at timestamp.
type Claims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Config holds the secrets and validation parameters for a Codec.
//
// PreviousAccessSecrets and PreviousRefreshSecrets are retired signing
// secrets still accepted during verification, newest first. They enable
// zero-downtime secret rotation without changing the decode contract.
type Config struct {
	AccessSecret           []byte
	RefreshSecret          []byte
	PreviousAccessSecrets  [][]byte
	PreviousRefreshSecrets [][]byte

	Issuer       string
	Leeway       time.Duration
	MaxFutureIAT time.Duration

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// Codec signs and verifies tokens. A Codec is immutable after creation and
// safe for concurrent use.
type Codec struct {
	config Config
	now    func() time.Time
}

// NewCodec validates cfg and returns a ready Codec.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.AccessSecret) == 0 {
		return nil, errors.New("access secret is required")
	}
	if len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("refresh secret is required")
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.MaxFutureIAT == 0 {
		cfg.MaxFutureIAT = 10 * time.Minute
	}
	if cfg.MaxFutureIAT < 0 || cfg.MaxFutureIAT > 24*time.Hour {
		return nil, errors.New("invalid MaxFutureIAT configuration")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Codec{config: cfg, now: now}, nil
}

// Issue mints a signed token of the given type for subject, expiring after
// ttl. Every minted token carries a unique ID (jti) that the revocation
// registry uses as its key.
func (c *Codec) Issue(subject string, typ Type, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("empty subject")
	}

	now := c.now()
	claims := Claims{
		TokenType: string(typ),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if c.config.Issuer != "" {
		claims.Issuer = c.config.Issuer
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(c.signSecret(typ))
}

// Decode verifies tokenStr against the secrets for the expected type and
// returns its claims. It fails with ErrMalformed, ErrBadSignature,
// ErrWrongType, or ErrExpired, checked in that order. Decode never mutates
// state; it is a pure function of the token, the clock, and the secret set.
func (c *Codec) Decode(tokenStr string, want Type) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	}
	if c.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(c.config.Leeway))
	}
	if c.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(c.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return c.verifyKeys(want), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			// The token may simply belong to the other trust domain.
			// Classify by its declared type so that a refresh token
			// presented on the access path reports the type mismatch
			// rather than a forged signature.
			if typ, ok := c.peekType(tokenStr); ok && typ != string(want) {
				return nil, ErrWrongType
			}
			return nil, ErrBadSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			if claims, ok := parsedClaims(parsed); ok && claims.TokenType != string(want) {
				return nil, ErrWrongType
			}
			return nil, ErrExpired
		default:
			return nil, ErrMalformed
		}
	}

	claims, ok := parsedClaims(parsed)
	if !ok {
		return nil, ErrMalformed
	}
	if claims.TokenType != string(want) {
		return nil, ErrWrongType
	}
	if claims.ExpiresAt == nil || claims.Subject == "" {
		return nil, ErrMalformed
	}
	if claims.IssuedAt != nil && c.config.MaxFutureIAT > 0 {
		if claims.IssuedAt.Time.After(c.now().Add(c.config.MaxFutureIAT)) {
			return nil, ErrMalformed
		}
	}

	return claims, nil
}

func (c *Codec) signSecret(typ Type) []byte {
	if typ == TypeRefresh {
		return c.config.RefreshSecret
	}
	return c.config.AccessSecret
}

func (c *Codec) verifyKeys(typ Type) jwt.VerificationKeySet {
	var previous [][]byte
	if typ == TypeRefresh {
		previous = c.config.PreviousRefreshSecrets
	} else {
		previous = c.config.PreviousAccessSecrets
	}

	keys := make([]jwt.VerificationKey, 0, len(previous)+1)
	keys = append(keys, c.signSecret(typ))
	for _, secret := range previous {
		keys = append(keys, secret)
	}

	return jwt.VerificationKeySet{Keys: keys}
}

// peekType reads the declared token type without verifying the signature.
// Used only to pick the right error kind; never to accept a token.
func (c *Codec) peekType(tokenStr string) (string, bool) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return "", false
	}
	return claims.TokenType, true
}

func parsedClaims(parsed *jwt.Token) (*Claims, bool) {
	if parsed == nil {
		return nil, false
	}
	claims, ok := parsed.Claims.(*Claims)
	return claims, ok
}
