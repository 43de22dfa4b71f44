package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenProvider signs in with an HS256 JWT whose subject is the user id.
type TokenProvider struct {
	Token  string
	Secret string
}

func (p *TokenProvider) SignIn(ctx context.Context) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	if p.Secret == "" {
		return User{}, ErrSecretRequired
	}
	subject, err := ParseToken(p.Token, p.Secret)
	if err != nil {
		return User{}, err
	}
	return User{ID: subject}, nil
}

// IssueToken creates a signed token for userID. A zero ttl issues a token
// without expiry.
func IssueToken(userID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  userID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ParseToken validates tokenStr and returns its subject.
func ParseToken(tokenStr, secret string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}
