package utils // package utils provides helpers for minting owner access tokens

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken is a signed HS256 JWT and its expiry.  Production tokens come
// from the portal's identity service; these are for local development and
// tests against a shared JWT_SECRET.
type AccessToken struct {
	Token string    `json:"access_token"`
	Exp   time.Time `json:"expires_at"`
}

// NewAccessToken signs a token for subjectID with the given role.  The
// subject is encoded as a decimal string as RFC 7519 requires.
func NewAccessToken(secret string, subjectID uint64, role string, ttl time.Duration) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(subjectID, 10),
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewOwnerToken is NewAccessToken with the OWNER role.
func NewOwnerToken(secret string, ownerID uint64, ttl time.Duration) (AccessToken, error) {
	return NewAccessToken(secret, ownerID, "OWNER", ttl)
}
