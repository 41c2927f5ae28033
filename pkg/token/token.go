package token

import (
	"errors"
	"fmt"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const rolesClaim = "roles"

var (
	ErrMissingSecret    = errors.New("token: missing signing secret")
	ErrInvalidTTL       = errors.New("token: ttl must be positive")
	ErrMalformed        = errors.New("token: malformed")
	ErrInvalidSignature = errors.New("token: invalid signature")
	ErrExpired          = errors.New("token: expired")
)

// Claims is the decoded, verified content of a token.
type Claims struct {
	Subject   string
	Roles     []string
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec issues and parses HMAC-signed tokens. The signing secret is fixed at
// construction and shared process-wide; Codec is safe for concurrent use.
type Codec struct {
	key []byte
	now func() time.Time
}

func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Codec{key: []byte(secret), now: time.Now}, nil
}

// Issue signs a token for subject carrying the given roles. All timestamps
// are Unix seconds; expiry is exactly issued-at + ttl.
func (c *Codec) Issue(subject string, ttl time.Duration, roles []string) (string, error) {
	if ttl <= 0 {
		return "", ErrInvalidTTL
	}
	now := c.now().UTC()
	tok := jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, jwtgo.MapClaims{
		"sub":      subject,
		rolesClaim: roles,
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	})
	return tok.SignedString(c.key)
}

// Parse verifies signature and expiry and returns the claims. Failures map to
// ErrMalformed, ErrInvalidSignature or ErrExpired; revocation is out of scope.
func (c *Codec) Parse(raw string) (Claims, error) {
	tok, err := jwtgo.Parse(raw, func(t *jwtgo.Token) (any, error) {
		if _, ok := t.Method.(*jwtgo.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return c.key, nil
	}, jwtgo.WithTimeFunc(func() time.Time { return c.now() }))
	if err != nil {
		return Claims{}, classify(err)
	}
	mc, ok := tok.Claims.(jwtgo.MapClaims)
	if !ok {
		return Claims{}, ErrMalformed
	}
	return claimsFromMap(mc), nil
}

// Valid reports whether the token's signature verifies and it has not
// expired. It never consults the revocation store.
func (c *Codec) Valid(raw string) bool {
	_, err := c.Parse(raw)
	return err == nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwtgo.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwtgo.ErrTokenSignatureInvalid), errors.Is(err, ErrInvalidSignature):
		return ErrInvalidSignature
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
