package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const accessTokenDuration = 12 * time.Hour

// AuthService authenticates the dashboard operator and issues session
// tokens. There is a single principal, configured by environment.
type AuthService struct {
	username  string
	passHash  []byte
	jwtSecret []byte
}

// NewAuthService hashes the configured password up front so every login
// attempt pays the same comparison cost.
func NewAuthService(username, password, jwtSecret string) (*AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash dashboard password: %w", err)
	}
	return &AuthService{
		username:  username,
		passHash:  hash,
		jwtSecret: []byte(jwtSecret),
	}, nil
}

// Login checks the dashboard credentials and returns a signed access token
// and its lifetime in seconds.
func (s *AuthService) Login(username, password string) (string, int, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passHash, []byte(password))
	if !userOK || passErr != nil {
		return "", 0, ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  s.username,
		"role": "dashboard",
		"iat":  now.Unix(),
		"exp":  now.Add(accessTokenDuration).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}
	return token, int(accessTokenDuration.Seconds()), nil
}
