package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenCodec issues and verifies the stateless access tokens used as bearer
// credentials. Tokens are HS256-signed JWTs carrying the subject (the user's
// email) and an absolute expiry; validity is determined purely by signature
// and expiry, with no server-side session record.
type TokenCodec struct {
	secret     []byte
	defaultTTL time.Duration
	clock      func() time.Time
}

// NewTokenCodec constructs a codec bound to the process-wide signing secret
// and the default token lifetime.
func NewTokenCodec(secret []byte, defaultTTL time.Duration) *TokenCodec {
	return &TokenCodec{
		secret:     secret,
		defaultTTL: defaultTTL,
		clock:      time.Now,
	}
}

// Encode signs an access token for the given subject. A non-positive ttl
// falls back to the codec's configured default.
func (c *TokenCodec) Encode(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	now := c.clock()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies a token string and returns its subject. It is total over
// the input space: a bad signature, a substituted signing algorithm, a passed
// expiry, a missing subject, or a structurally malformed string all yield
// ok == false rather than an error.
func (c *TokenCodec) Decode(tokenString string) (subject string, ok bool) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, isHMAC := t.Method.(*jwt.SigningMethodHMAC); !isHMAC {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired(), jwt.WithTimeFunc(c.clock))
	if err != nil || !token.Valid {
		return "", false
	}
	if claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
