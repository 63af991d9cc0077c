package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fleet_battle/internal/app/utils"
)

// TokenStore holds the one live JWT per player.
type TokenStore interface {
	GetJWTToken(ctx context.Context, playerID int) (string, error)
}

// AuthMiddleware - проверка JWT из куки или header, сохранение player_id/role в контексте
func AuthMiddleware(tokens TokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("jwt")
		if err != nil || tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid authorization header"})
				return
			}
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
		}

		claims, err := utils.ParseJWT(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		// после logout токена в Redis уже нет
		stored, err := tokens.GetJWTToken(c.Request.Context(), claims.PlayerID)
		if err != nil || stored != tokenStr {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token expired or invalid"})
			return
		}

		c.Set("player_id", claims.PlayerID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
