package utils // package utils provides helper functions for session token creation and hashing

import (
	"errors"
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// SessionToken represents a signed HS256 JWT proving prior authentication,
// along with its expiry.  The Token field contains the serialized JWT; Exp
// stores the UTC expiration time.  The token is sent in the Authorization
// header on every protected request.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// ErrTokenExpired is returned by VerifySessionToken when the token's exp
// claim is in the past.  Callers surface it as a distinct 401 message for
// diagnostics; all other verification failures are reported generically.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenInvalid is returned by VerifySessionToken for any failure other
// than expiry: bad signature, malformed token, missing subject claim.
var ErrTokenInvalid = errors.New("invalid token")

// NewSessionToken builds and signs an HS256 JWT bound to a user.  It takes
// the signing secret, the user ID, and a TTL.  The JWT carries standard
// claims: subject (sub), expiration (exp) and issued at (iat).
func NewSessionToken(secret string, userID uint64, ttl time.Duration) (SessionToken, error) {
	exp := time.Now().UTC().Add(ttl)
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// VerifySessionToken parses a serialized session token and returns the user
// ID from its subject claim.  It distinguishes expiry from every other
// failure so the auth gate can report "token expired" separately.
func VerifySessionToken(secret, raw string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenInvalid
	}
	if !tok.Valid {
		return 0, ErrTokenInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrTokenInvalid
	}
	// JWT numeric values decode as float64.
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, ErrTokenInvalid
	}
	return uint64(sub), nil
}
