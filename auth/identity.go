// Package auth carries the signed-in user's identity. Sign-in itself happens
// elsewhere; this service only verifies the tokens it is handed.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoIdentity = errors.New("no signed-in user")

// Identity is the profile of the signed-in user.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoUrl"`
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.UID == "" {
		return Identity{}, ErrNoIdentity
	}
	return id, nil
}

// Claims is the JWT payload; the subject is the user's uid.
type Claims struct {
	DisplayName string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhotoURL    string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 identity tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	return &Tokens{secret: secret, ttl: ttl}
}

func (t *Tokens) Issue(id Identity) (string, error) {
	now := time.Now()
	claims := &Claims{
		DisplayName: id.DisplayName,
		Email:       id.Email,
		PhotoURL:    id.PhotoURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *Tokens) Parse(tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, fmt.Errorf("unauthorized: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return Identity{}, fmt.Errorf("unauthorized: %w", ErrNoIdentity)
	}
	return Identity{
		UID:         claims.Subject,
		DisplayName: claims.DisplayName,
		Email:       claims.Email,
		PhotoURL:    claims.PhotoURL,
	}, nil
}
