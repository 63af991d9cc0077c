package ds

import (
	"github.com/golang-jwt/jwt/v5"
)

type JWTClaims struct {
	jwt.RegisteredClaims
	PlayerID int    `json:"player_id"`
	Role     string `json:"role"`
}
