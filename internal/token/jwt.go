// Package token signs the access tokens attached to users at creation time.
package token

import "github.com/golang-jwt/jwt/v5"

// JWTSigner issues HS256-signed tokens carrying the fixed claim set
// {id, email, role}. Tokens carry no expiry: they are stored on the user
// record and stay valid for the lifetime of the account.
type JWTSigner struct {
	secret []byte
}

func NewJWTSigner(secret string) *JWTSigner {
	return &JWTSigner{secret: []byte(secret)}
}

func (s *JWTSigner) Sign(id int64, email, role string) (string, error) {
	claims := jwt.MapClaims{
		"id":    id,
		"email": email,
		"role":  role,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}
