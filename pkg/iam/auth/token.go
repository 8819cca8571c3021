package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the access token payload
type Claims struct {
	UserID    string   `json:"user_id"`
	CompanyID string   `json:"company_id,omitempty"`
	Role      string   `json:"role"`
	Email     string   `json:"email,omitempty"`
	Scopes    []string `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}

// Subject describes who a token is issued to
type Subject struct {
	UserID    kernel.UserID
	CompanyID kernel.CompanyID
	Role      kernel.Role
	Email     kernel.Email
	Scopes    []string
}

// TokenService issues and validates access tokens
type TokenService interface {
	GenerateAccessToken(sub Subject) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

type Config struct {
	SecretKey      string
	Issuer         string
	AccessTokenTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		Issuer:         "bolsa",
		AccessTokenTTL: 24 * time.Hour,
	}
}

type JWTService struct {
	cfg Config
	now func() time.Time
}

var _ TokenService = (*JWTService)(nil)

func NewJWTService(cfg Config) *JWTService {
	return &JWTService{cfg: cfg, now: time.Now}
}

func (s *JWTService) GenerateAccessToken(sub Subject) (string, error) {
	if sub.UserID.IsEmpty() {
		return "", errors.New("token subject has no user id")
	}
	now := s.now()
	claims := Claims{
		UserID:    sub.UserID.String(),
		CompanyID: sub.CompanyID.String(),
		Role:      sub.Role.String(),
		Email:     sub.Email.String(),
		Scopes:    sub.Scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   sub.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return []byte(s.cfg.SecretKey), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrInvalidToken().WithCause(err)
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken().WithDetail("reason", "missing user_id")
	}
	return claims, nil
}
