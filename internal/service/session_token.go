package service

import (
	"errors"
	"fmt"
	"time"

	"brand-plan/internal/dto"
	"brand-plan/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const sessionTokenIssuer = "brand-plan"

var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionTokenService issues and validates the bearer tokens that bind a
// client to its session.
type SessionTokenService interface {
	Issue(sessionID string) (token string, expiresAt time.Time, err error)
	Validate(token string) (*dto.SessionClaims, error)
}

type sessionTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionTokenService creates a HS256 token service.
func NewSessionTokenService(secret string, ttl time.Duration) (SessionTokenService, error) {
	if secret == "" {
		return nil, errors.New("session token secret cannot be empty")
	}
	if ttl <= 0 {
		return nil, errors.New("session token ttl must be positive")
	}
	return &sessionTokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (s *sessionTokenService) Issue(sessionID string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := dto.SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionTokenIssuer,
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, expiresAt, nil
}

func (s *sessionTokenService) Validate(tokenString string) (*dto.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(sessionTokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Debug("Session token expired", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	}

	claims, ok := token.Claims.(*dto.SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidSessionToken
	}
	return claims, nil
}
