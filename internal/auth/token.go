package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/carson-networks/tx-ledger/internal/ledger"
)

const tokenIssuer = "tx-ledger"

// TokenAuthority mints and verifies HS256 bearer tokens whose subject is
// the caller identity.
type TokenAuthority struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenAuthority(secret string, ttl time.Duration) (*TokenAuthority, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	return &TokenAuthority{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Mint issues a token for identity.
func (a *TokenAuthority) Mint(identity ledger.Identity) (string, error) {
	if identity.IsZero() {
		return "", fmt.Errorf("%w: cannot mint a token for the zero identity", ledger.ErrInvalidIdentifier)
	}

	now := a.now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   identity.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Parse verifies tokenString and returns the identity in its subject.
func (a *TokenAuthority) Parse(tokenString string) (ledger.Identity, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ledger.ErrUnauthenticated, err)
	}

	identity, err := ledger.ParseIdentity(claims.Subject)
	if err != nil {
		return "", fmt.Errorf("%w: token subject: %v", ledger.ErrUnauthenticated, err)
	}
	if identity.IsZero() {
		return "", fmt.Errorf("%w: token subject is the zero identity", ledger.ErrUnauthenticated)
	}
	return identity, nil
}
