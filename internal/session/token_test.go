package session

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"go-storefront/internal/model"
)

type fakeClock struct {
	at time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.at
}

func newTestCodec(t *testing.T, secret string, ttl time.Duration, clock *fakeClock) *Codec {
	t.Helper()

	codec, err := NewCodec(secret, ttl, WithClock(clock.Now))
	require.NoError(t, err)
	return codec
}

func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{at: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec := newTestCodec(t, "s3cret", time.Hour, clock)

	for _, role := range model.Roles {
		identity := model.Identity{UserID: "0b6c0d1e-8f3a-4c55-9d35-7a2b1f0e9c11", Role: role}

		token, err := codec.Encode(identity)
		require.NoError(t, err)

		decoded, err := codec.Decode(token)
		require.NoError(t, err)
		require.Equal(t, identity, decoded)
	}
}

func TestCodecExpiry(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{at: issuedAt}
	ttl := 30 * 24 * time.Hour
	codec := newTestCodec(t, "s3cret", ttl, clock)

	token, err := codec.Encode(model.Identity{UserID: "u-1", Role: model.RoleUser})
	require.NoError(t, err)

	clock.at = issuedAt.Add(ttl - time.Minute)
	_, err = codec.Decode(token)
	require.NoError(t, err)

	clock.at = issuedAt.Add(ttl + time.Minute)
	_, err = codec.Decode(token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestCodecRejectsForeignSecret(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{at: time.Now()}
	issuer := newTestCodec(t, "secret-a", time.Hour, clock)
	verifier := newTestCodec(t, "secret-b", time.Hour, clock)

	token, err := issuer.Encode(model.Identity{UserID: "u-1", Role: model.RoleAdmin})
	require.NoError(t, err)

	_, err = verifier.Decode(token)
	require.ErrorIs(t, err, ErrInvalid)

	t.Run("even once expired", func(t *testing.T) {
		clock.at = clock.at.Add(2 * time.Hour)
		_, err := verifier.Decode(token)
		require.ErrorIs(t, err, ErrInvalid)
	})
}

func TestCodecRejectsMalformed(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, "s3cret", time.Hour, &fakeClock{at: time.Now()})

	for _, raw := range []string{"", "not-a-token", "a.b.c", strings.Repeat("x", 512)} {
		_, err := codec.Decode(raw)
		require.ErrorIs(t, err, ErrInvalid, raw)
	}
}

func TestCodecRejectsUnexpectedClaims(t *testing.T) {
	t.Parallel()

	now := time.Now()
	codec := newTestCodec(t, "s3cret", time.Hour, &fakeClock{at: now})

	sign := func(t *testing.T, method jwt.SigningMethod, key any, c jwt.MapClaims) string {
		t.Helper()
		signed, err := jwt.NewWithClaims(method, c).SignedString(key)
		require.NoError(t, err)
		return signed
	}
	exp := now.Add(time.Hour).Unix()

	t.Run("unknown role", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, []byte("s3cret"), jwt.MapClaims{"sub": "u-1", "role": "superuser", "exp": exp})
		_, err := codec.Decode(token)
		require.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("missing subject", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, []byte("s3cret"), jwt.MapClaims{"role": "admin", "exp": exp})
		_, err := codec.Decode(token)
		require.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("missing expiry", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, []byte("s3cret"), jwt.MapClaims{"sub": "u-1", "role": "admin"})
		_, err := codec.Decode(token)
		require.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("other hmac algorithm", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS512, []byte("s3cret"), jwt.MapClaims{"sub": "u-1", "role": "admin", "exp": exp})
		_, err := codec.Decode(token)
		require.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("unsigned", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"sub": "u-1", "role": "admin", "exp": exp})
		_, err := codec.Decode(token)
		require.ErrorIs(t, err, ErrInvalid)
	})
}

func TestNewCodecRequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewCodec("  ", time.Hour)
	require.Error(t, err)

	var zero *Codec
	_, err = zero.Decode("anything")
	require.ErrorIs(t, err, ErrInvalid)
}

func TestEncodeRejectsIncompleteIdentity(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, "s3cret", time.Hour, &fakeClock{at: time.Now()})

	_, err := codec.Encode(model.Identity{Role: model.RoleUser})
	require.Error(t, err)

	_, err = codec.Encode(model.Identity{UserID: "u-1", Role: "root"})
	require.Error(t, err)
}
