package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenPair хранит пару access/refresh токенов.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Claims - клеймы обоих токенов. Роль выбирает таблицу пользователя.
type Claims struct {
	Role vo.Role `json:"role"`
	Type string  `json:"typ"`
	jwt.RegisteredClaims
}

// TokenManager отвечает за выпуск и проверку JWT.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenManager создаёт менеджер токенов.
func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// GeneratePair выпускает новую пару токенов для actor.
func (m *TokenManager) GeneratePair(actor vo.Actor) (*TokenPair, error) {
	now := m.now()

	access, err := m.sign(actor, tokenTypeAccess, now, m.accessTTL, m.accessSecret)
	if err != nil {
		return nil, err
	}
	refresh, err := m.sign(actor, tokenTypeRefresh, now, m.refreshTTL, m.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.accessTTL.Seconds()),
	}, nil
}

// ParseAccess извлекает actor из access токена.
func (m *TokenManager) ParseAccess(token string) (vo.Actor, error) {
	return m.parse(token, tokenTypeAccess, m.accessSecret)
}

// ParseRefresh проверяет refresh токен.
func (m *TokenManager) ParseRefresh(token string) (vo.Actor, error) {
	return m.parse(token, tokenTypeRefresh, m.refreshSecret)
}

func (m *TokenManager) sign(actor vo.Actor, typ string, now time.Time, ttl time.Duration, secret []byte) (string, error) {
	claims := Claims{
		Role: actor.Role,
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("token: sign %s: %w", typ, err)
	}
	return signed, nil
}

func (m *TokenManager) parse(token, typ string, secret []byte) (vo.Actor, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return vo.Actor{}, err
	}
	if !parsed.Valid || claims.Type != typ || !claims.Role.IsValid() {
		return vo.Actor{}, jwt.ErrTokenInvalidClaims
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return vo.Actor{}, errors.Join(jwt.ErrTokenInvalidClaims, err)
	}
	return vo.Actor{ID: id, Role: claims.Role}, nil
}
