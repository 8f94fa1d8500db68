package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec([]byte("test-secret"), 30*time.Minute)

	token, err := codec.Encode("u1@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	subject, ok := codec.Decode(token)
	if !ok {
		t.Fatal("expected fresh token to decode")
	}
	if subject != "u1@example.com" {
		t.Fatalf("subject mismatch: got %q", subject)
	}
}

func TestEncodeUsesDefaultTTL(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec([]byte("test-secret"), time.Hour)

	token, err := codec.Encode("u1@example.com", 0)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if _, ok := codec.Decode(token); !ok {
		t.Fatal("token minted with default ttl must decode")
	}
}

func TestDecodeExpiredToken(t *testing.T) {
	t.Parallel()

	past := NewTokenCodec([]byte("test-secret"), time.Hour)
	past.clock = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := past.Encode("u1@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	codec := NewTokenCodec([]byte("test-secret"), time.Hour)
	if _, ok := codec.Decode(token); ok {
		t.Fatal("expired token must decode to absent even with a valid signature")
	}
}

func TestDecodeWrongSecret(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec([]byte("right-secret"), time.Hour)
	token, err := codec.Encode("u1@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	other := NewTokenCodec([]byte("other-secret"), time.Hour)
	if _, ok := other.Decode(token); ok {
		t.Fatal("token signed with a different key must decode to absent")
	}
}

func TestDecodeRejectsSubstitutedAlgorithm(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec([]byte("test-secret"), time.Hour)

	claims := jwt.RegisteredClaims{
		Subject:   "u1@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign HS512: %v", err)
	}
	if _, ok := codec.Decode(hs512); ok {
		t.Fatal("token signed with a non-pinned algorithm must decode to absent")
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, ok := codec.Decode(unsigned); ok {
		t.Fatal("unsigned token must decode to absent")
	}
}

func TestDecodeMalformedInput(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec([]byte("test-secret"), time.Hour)
	for _, input := range []string{"", "garbage", "a.b", "a.b.c.d", "eyJhbGciOiJIUzI1NiJ9..sig"} {
		if _, ok := codec.Decode(input); ok {
			t.Fatalf("malformed input %q must decode to absent", input)
		}
	}
}

func TestDecodeEmptySubject(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec([]byte("test-secret"), time.Hour)
	token, err := codec.Encode("", time.Hour)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if _, ok := codec.Decode(token); ok {
		t.Fatal("token without a usable subject must decode to absent")
	}
}
