package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fleet_battle/internal/app/ds"
)

var jwtKey []byte

// InitJWT задаёт ключ подписи (из конфига JWT_KEY).
func InitJWT(key string) {
	jwtKey = []byte(key)
}

// GenerateJWT создаёт токен
func GenerateJWT(playerID int, role string, ttl time.Duration) (string, error) {
	if len(jwtKey) == 0 {
		return "", errors.New("jwt key is empty")
	}
	now := time.Now()
	claims := &ds.JWTClaims{
		PlayerID: playerID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// ParseJWT проверяет и возвращает Claims
func ParseJWT(tokenStr string) (*ds.JWTClaims, error) {
	claims := &ds.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
