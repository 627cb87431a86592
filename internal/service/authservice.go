package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"stockdata-api/internal/config"
)

// ErrInvalidCredentials is returned on a failed login.
var ErrInvalidCredentials = errors.New("auth: invalid username or password")

// ErrInvalidToken is returned when a token fails verification.
var ErrInvalidToken = errors.New("auth: invalid token")

// AuthService issues and verifies stateless HS256 tokens against a static
// credential store from configuration. When no users are configured a
// default admin account is available so a fresh deployment stays reachable.
type AuthService struct {
	secret []byte
	expire time.Duration
	users  map[string]string // username -> sha256(password) hex
}

// NewAuthService builds the service from configuration.
func NewAuthService(cfg config.AuthConf) *AuthService {
	users := make(map[string]string, len(cfg.Users))
	for _, u := range cfg.Users {
		users[u.Username] = hashPassword(u.Password)
	}
	if len(users) == 0 {
		users["admin"] = hashPassword("admin123")
	}
	expire := time.Duration(cfg.ExpireMinutes) * time.Minute
	if expire <= 0 {
		expire = time.Hour
	}
	return &AuthService{
		secret: []byte(cfg.Secret),
		expire: expire,
		users:  users,
	}
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Login checks the credentials and returns a signed token and its expiry.
func (s *AuthService) Login(username, password string) (string, time.Time, error) {
	stored, ok := s.users[username]
	if !ok {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(hashPassword(password))) != 1 {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := time.Now()
	expiresAt := now.Add(s.expire)
	// "username" is duplicated from "sub" because go-zero's JWT middleware
	// drops the registered claims when populating the request context.
	claims := jwt.MapClaims{
		"sub":      username,
		"username": username,
		"iat":      now.Unix(),
		"exp":      expiresAt.Unix(),
		"jti":      uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses the token and returns its subject.
func (s *AuthService) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
