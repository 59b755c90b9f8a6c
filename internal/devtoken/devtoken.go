// Package devtoken issues and verifies the unsigned identity tokens that
// stand in for a real identity provider's credential during development.
//
// The client CLI uses Issue for `google-login --dev-email`; the development
// server uses Verify on /google-login. Neither is safe outside development.
package devtoken

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the iss claim of dev ID tokens.
const Issuer = "landval-dev-idp"

// Identity is what a verified dev ID token asserts.
type Identity struct {
	Email string
	Name  string
}

// Issue builds an unsigned ID token for email, valid for ttl.
func Issue(email, name string, ttl time.Duration) string {
	claims := jwt.MapClaims{
		"iss":   Issuer,
		"email": email,
		"exp":   time.Now().Add(ttl).Unix(),
	}
	if name != "" {
		claims["name"] = name
	}
	raw, _ := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	return raw
}

// Verify checks issuer and expiry of raw against now and returns its
// identity. A missing name defaults to the local part of the email.
func Verify(raw string, now func() time.Time) (Identity, error) {
	if now == nil {
		now = time.Now
	}
	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return jwt.UnsafeAllowNoneSignatureType, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodNone.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(now),
	)
	if err != nil || !token.Valid {
		return Identity{}, errors.Join(errors.New("invalid id token"), err)
	}
	claims, _ := token.Claims.(jwt.MapClaims)
	email, _ := claims["email"].(string)
	if email == "" {
		return Identity{}, errors.New("id token has no email")
	}
	name, _ := claims["name"].(string)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	return Identity{Email: email, Name: name}, nil
}
