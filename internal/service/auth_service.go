package service

import (
	"errors"
	"fmt"
	"time"

	"followership/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthConfig configures admin login and token signing
type AuthConfig struct {
	JWTSecret     string
	AdminUsername string
	// AdminPasswordHash takes precedence over AdminPassword when both are set
	AdminPasswordHash string
	AdminPassword     string
	AdminTokenTTL     time.Duration
	SessionTokenTTL   time.Duration
}

// AuthService handles admin and respondent session authentication
type AuthService struct {
	adminUsername string
	adminHash     []byte
	jwtSecret     []byte
	adminTTL      time.Duration
	sessionTTL    time.Duration
	now           func() time.Time
}

// NewAuthService creates a new auth service. A plain admin password is
// hashed once at startup so login always goes through bcrypt.
func NewAuthService(cfg AuthConfig) (*AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}

	var hash []byte
	switch {
	case cfg.AdminPasswordHash != "":
		hash = []byte(cfg.AdminPasswordHash)
		if _, err := bcrypt.Cost(hash); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
	case cfg.AdminPassword != "":
		h, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		hash = h
	}

	if cfg.AdminTokenTTL <= 0 {
		cfg.AdminTokenTTL = 12 * time.Hour
	}
	if cfg.SessionTokenTTL <= 0 {
		cfg.SessionTokenTTL = 24 * time.Hour
	}

	return &AuthService{
		adminUsername: cfg.AdminUsername,
		adminHash:     hash,
		jwtSecret:     []byte(cfg.JWTSecret),
		adminTTL:      cfg.AdminTokenTTL,
		sessionTTL:    cfg.SessionTokenTTL,
		now:           time.Now,
	}, nil
}

// Login validates admin credentials and returns a token with an expiry
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if s.adminHash == nil || username != s.adminUsername {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.adminHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(s.adminTTL)
	claims := &model.AdminClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:     tokenString,
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

// ValidateAdminToken validates an admin JWT and returns claims
func (s *AuthService) ValidateAdminToken(tokenString string) (*model.AdminClaims, error) {
	claims := &model.AdminClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Subject != "admin" || claims.Username == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateSessionToken creates a token that only grants access to one session
func (s *AuthService) GenerateSessionToken(sessionID string) (string, error) {
	now := s.now()
	claims := &model.SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "session",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateSessionToken validates a session JWT and returns claims
func (s *AuthService) ValidateSessionToken(tokenString string) (*model.SessionClaims, error) {
	claims := &model.SessionClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Subject != "session" || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
