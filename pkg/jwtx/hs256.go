package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer is our interface for anything that can sign session tokens.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)

	// Issue builds session claims for the subject/role pair and signs them.
	Issue(subject, role string) (string, error)
}

// Verifier validates a token string and gives you back the claims if it's
// legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrNoSecret    = errors.New("jwtx: empty signing secret")
)

// HS256 signs and verifies session tokens with a single process-wide HMAC
// secret. The secret is handed in at construction and never rotated at
// runtime; issue a new one by restarting the service.
type HS256 struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewHS256 constructs a combined Signer/Verifier from the given secret.
func NewHS256(secret []byte, issuer string, ttl time.Duration) (*HS256, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	return &HS256{secret: secret, issuer: issuer, ttl: ttl}, nil
}

func (h *HS256) Alg() string { return jwt.SigningMethodHS256.Alg() }

// TTL reports the configured token lifetime.
func (h *HS256) TTL() time.Duration { return h.ttl }

// Sign takes the claims and turns them into a signed compact JWT string.
func (h *HS256) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(h.secret)
}

// Issue builds claims for the given subject/role and signs them in one step.
func (h *HS256) Issue(subject, role string) (string, error) {
	claims := NewSessionClaims(subject, role, h.issuer, h.ttl, time.Now().UTC())
	return h.Sign(claims)
}

// Verify parses and validates a compact token string. Failures come in two
// distinct kinds: ErrExpired for a well-formed but stale token, and
// ErrMalformed/ErrInvalidSig/ErrAlgMismatch for everything else.
func (h *HS256) Verify(tokenString string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAlgMismatch
		}
		return h.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return Claims{}, ErrNotYetValid
		case errors.Is(err, ErrAlgMismatch):
			return Claims{}, ErrAlgMismatch
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return Claims{}, ErrInvalidSig
		default:
			return Claims{}, ErrMalformed
		}
	}

	if !token.Valid {
		return Claims{}, ErrInvalidSig
	}

	if err := claims.ValidateIssuer(h.issuer); err != nil {
		return Claims{}, err
	}

	return claims, nil
}
