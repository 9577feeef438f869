// Package session issues and verifies the stateless session token and binds
// it to the HTTP cookie that carries it between browser and API.
//
// A token is an HS256-signed JWT whose subject is the user id and whose
// "role" claim is the role at issuance time. Nothing is stored server side:
// a role change only reaches the client with the next issued token.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-storefront/internal/model"
)

const DefaultTTL = 30 * 24 * time.Hour

var (
	// ErrExpired means the signature checked out but the token is past its expiry.
	ErrExpired = errors.New("session token expired")
	// ErrInvalid covers everything else: bad signature, malformed token,
	// unexpected algorithm, unknown role or a codec without a secret.
	ErrInvalid = errors.New("session token invalid")
)

var errMissingSecret = errors.New("session secret is required")

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type CodecOption func(*Codec)

// WithClock replaces time.Now for both issuing and verifying.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.now = now
	}
}

func NewCodec(secret string, ttl time.Duration, opts ...CodecOption) (*Codec, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Codec) TTL() time.Duration {
	return c.ttl
}

func (c *Codec) Encode(identity model.Identity) (string, error) {
	if c == nil || len(c.secret) == 0 {
		return "", errMissingSecret
	}
	if identity.UserID == "" || !identity.Role.Valid() {
		return "", fmt.Errorf("encode session token: incomplete identity")
	}

	now := c.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return signed, nil
}

// Decode returns ErrExpired or ErrInvalid on failure, nothing else.
func (c *Codec) Decode(tokenString string) (model.Identity, error) {
	if c == nil || len(c.secret) == 0 {
		return model.Identity{}, ErrInvalid
	}

	var parsed claims
	token, err := jwt.ParseWithClaims(tokenString, &parsed, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		// jwt checks the signature before the claims, so an expired error
		// implies the token was signed with our secret.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Identity{}, ErrExpired
		}
		return model.Identity{}, ErrInvalid
	}
	if !token.Valid {
		return model.Identity{}, ErrInvalid
	}

	role, ok := model.ParseRole(parsed.Role)
	if !ok || parsed.Subject == "" {
		return model.Identity{}, ErrInvalid
	}

	return model.Identity{UserID: parsed.Subject, Role: role}, nil
}
