package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"videoqc/internal/domain"
	"videoqc/internal/port"
)

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("expired token")
	ErrInvalidCreds    = errors.New("invalid credentials")
	ErrUserExists      = errors.New("user already exists")
	ErrWeakPassword    = errors.New("password does not meet requirements")
	ErrInvalidUsername = errors.New("invalid username")
)

const sessionDuration = 7 * 24 * time.Hour

func validateUsername(username string) error {
	if len(username) < 3 || len(username) > 50 {
		return ErrInvalidUsername
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return ErrInvalidUsername
		}
	}
	return nil
}

func validatePasswordStrength(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// AuthService manages the single admin account: first-run setup, login
// and HMAC-signed session tokens.
type AuthService struct {
	users  port.UserStore
	secret []byte
}

func NewAuthService(users port.UserStore, secret string) *AuthService {
	return &AuthService{users: users, secret: []byte(secret)}
}

// NeedsSetup reports whether no account exists yet.
func (s *AuthService) NeedsSetup() (bool, error) {
	has, err := s.users.HasUser()
	if err != nil {
		return false, err
	}
	return !has, nil
}

// Setup creates the admin account. It refuses to run twice.
func (s *AuthService) Setup(username, password string) error {
	has, err := s.users.HasUser()
	if err != nil {
		return err
	}
	if has {
		return ErrUserExists
	}
	if err := validateUsername(username); err != nil {
		return err
	}
	if err := validatePasswordStrength(password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.CreateUser(username, string(hash))
}

// Login verifies credentials and returns a session token.
func (s *AuthService) Login(username, password string) (string, error) {
	user, err := s.users.GetUser(username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrInvalidCreds
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCreds
	}

	return s.generateToken(user.ID, time.Now().Add(sessionDuration)), nil
}

// ValidateToken checks signature and expiry and returns the user ID.
func (s *AuthService) ValidateToken(token string) (int64, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	expiry, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	expected := s.sign(parts[0] + "." + parts[1])
	if !hmac.Equal([]byte(parts[2]), []byte(expected)) {
		return 0, ErrInvalidToken
	}

	if time.Now().Unix() > expiry {
		return 0, ErrExpiredToken
	}

	if _, err := s.users.GetUserByID(userID); err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

func (s *AuthService) generateToken(userID int64, expiry time.Time) string {
	payload := fmt.Sprintf("%d.%d", userID, expiry.Unix())
	return payload + "." + s.sign(payload)
}

func (s *AuthService) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
