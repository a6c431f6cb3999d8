package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidToken is returned when a token fails signature, format or
// expiry checks.
var ErrInvalidToken = errors.New("invalid or expired token")

// Credentials issues and verifies passwords and signed bearer tokens.
// It performs pure computation only; no I/O.
type Credentials struct {
	secret []byte
	ttl    time.Duration
}

// NewCredentials creates a Credentials helper signing with the given secret.
// ttl is the lifetime of access tokens.
func NewCredentials(secret string, ttl time.Duration) *Credentials {
	return &Credentials{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// HashPassword hashes a plaintext password with bcrypt.
func (c *Credentials) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether the plaintext password matches the hash.
func (c *Credentials) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CreateAccessToken issues an HS256 token whose subject is the username.
func (c *Credentials) CreateAccessToken(username string) (string, error) {
	return c.createToken(username, c.ttl)
}

// CreateEmailToken issues a token whose subject is an email address, used
// for email verification and password-reset links.
func (c *Credentials) CreateEmailToken(email string, ttl time.Duration) (string, error) {
	return c.createToken(email, ttl)
}

func (c *Credentials) createToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns its claims.
func (c *Credentials) Parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Subject validates a token and returns its subject claim.
func (c *Credentials) Subject(tokenString string) (string, error) {
	claims, err := c.Parse(tokenString)
	if err != nil {
		return "", err
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
