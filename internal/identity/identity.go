// Package identity signs the user in and yields the stable user id that
// scopes their item collection.
package identity

import (
	"context"
	"errors"
)

var (
	// ErrInvalidToken indicates a token that fails signature, expiry or
	// claim validation.
	ErrInvalidToken = errors.New("invalid sign-in token")

	// ErrSecretRequired indicates a token was configured without a secret
	// to verify it with.
	ErrSecretRequired = errors.New("auth secret is required to verify a token")
)

// User is a signed-in identity.
type User struct {
	ID        string
	Anonymous bool
}

// Provider signs the user in.
type Provider interface {
	SignIn(ctx context.Context) (User, error)
}

// NewProvider returns a token provider when token is set and an anonymous
// provider persisting its id at anonPath otherwise.
func NewProvider(token, secret, anonPath string) Provider {
	if token != "" {
		return &TokenProvider{Token: token, Secret: secret}
	}
	return &AnonymousProvider{Path: anonPath}
}
