package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccessToken  = "access"
	RefreshToken = "refresh"

	DefaultAccessTokenDuration  = time.Hour
	DefaultRefreshTokenDuration = 7 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (h *AuthHandler) accessTTL() time.Duration {
	if h.cfg.AccessTokenTTL > 0 {
		return h.cfg.AccessTokenTTL
	}
	return DefaultAccessTokenDuration
}

func (h *AuthHandler) refreshTTL() time.Duration {
	if h.cfg.RefreshTokenTTL > 0 {
		return h.cfg.RefreshTokenTTL
	}
	return DefaultRefreshTokenDuration
}

// GenerateToken issues an access token for userID.
func (h *AuthHandler) GenerateToken(userID uint) (string, error) {
	return h.sign(userID, AccessToken, h.accessTTL())
}

func (h *AuthHandler) GenerateRefreshToken(userID uint) (string, error) {
	return h.sign(userID, RefreshToken, h.refreshTTL())
}

func (h *AuthHandler) GenerateTokenPair(userID uint) (TokenPair, error) {
	access, err := h.GenerateToken(userID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := h.GenerateRefreshToken(userID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (h *AuthHandler) sign(userID uint, tokenType string, ttl time.Duration) (string, error) {
	now := h.now()
	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// ParseToken validates signature, expiry and type of tokenString.
func (h *AuthHandler) ParseToken(tokenString, tokenType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(h.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.TokenType != tokenType || claims.UserID == 0 || claims.ID == "" {
		return nil, fmt.Errorf("%w: expected %s token", ErrInvalidToken, tokenType)
	}
	return claims, nil
}
