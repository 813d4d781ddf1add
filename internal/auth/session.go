// Package auth issues and verifies the guest session tokens that carry a
// player's stable identity across reconnects.
package auth

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// privateKey and publicKey sign and verify session tokens.
var (
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey

	// tokenExpireSec is how many seconds until token expiration (0 => never).
	tokenExpireSec int
)

// parseTokenExpireTime reads TOKEN_EXPIRE_TIME and sets tokenExpireSec.
func parseTokenExpireTime() error {
	duration := os.Getenv("TOKEN_EXPIRE_TIME")
	if duration == "never" || duration == "0" || duration == "" {
		tokenExpireSec = 0
		return nil
	}
	d, err := time.ParseDuration(duration)
	if err != nil {
		return fmt.Errorf("failed to parse token expire time: %w", err)
	}
	tokenExpireSec = int(d.Seconds())
	return nil
}

// Init generates a fresh ed25519 key pair at runtime. Sessions do not
// survive a server restart, matching the memory-resident room state.
func Init() error {
	var err error
	publicKey, privateKey, err = ed25519.GenerateKey(nil)
	if err != nil {
		return fmt.Errorf("failed to generate ed25519 key pair: %w", err)
	}
	return parseTokenExpireTime()
}

// NewSessionToken mints a signed token whose "sub" claim is a fresh stable
// identity for a guest player.
func NewSessionToken() (uuid.UUID, string, error) {
	identity := uuid.New()
	token, err := CreateJWT(identity.String())
	return identity, token, err
}

// CreateJWT creates a signed token with "sub" = identity.
func CreateJWT(identity string) (string, error) {
	claims := jwt.MapClaims{
		"sub": identity,
	}
	if tokenExpireSec > 0 {
		claims["exp"] = time.Now().Add(time.Duration(tokenExpireSec) * time.Second).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(privateKey)
}

// AuthenticateJWT verifies a token string and returns the identity it
// carries.
func AuthenticateJWT(tokenString string) (uuid.UUID, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("jwt parse error: %w", err)
	}
	if !t.Valid {
		return uuid.Nil, fmt.Errorf("invalid token")
	}
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid jwt claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("missing sub in jwt")
	}
	identity, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("malformed identity in jwt: %w", err)
	}
	return identity, nil
}
