package services

import (
	"errors"
	"time"

	"bizdir/internal/repos"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = errors.New("invalid phone or password")

type AuthService struct {
	Users  *repos.UserRepo
	Secret []byte
	TTL    time.Duration
}

func NewAuthService(users *repos.UserRepo, secret string) *AuthService {
	return &AuthService{Users: users, Secret: []byte(secret), TTL: 24 * time.Hour}
}

type claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Login verifies phone+password and issues a signed token.
func (s *AuthService) Login(phone, password string) (string, error) {
	u, err := s.Users.ByPhone(phone)
	if err != nil {
		return "", ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", ErrBadCreds
	}

	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
		UserID: u.ID,
	})
	return tok.SignedString(s.Secret)
}

// VerifyToken parses a token and returns the owning user id.
func (s *AuthService) VerifyToken(token string) (string, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.Secret, nil
	})
	if err != nil || !parsed.Valid || c.UserID == "" {
		return "", ErrBadCreds
	}
	return c.UserID, nil
}
