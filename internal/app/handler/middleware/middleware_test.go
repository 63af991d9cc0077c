package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"fleet_battle/internal/app/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type tokenStore map[int]string

func (s tokenStore) GetJWTToken(_ context.Context, playerID int) (string, error) {
	tok, ok := s[playerID]
	if !ok {
		return "", errors.New("redis: nil")
	}
	return tok, nil
}

func authRouter(tokens TokenStore) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"player_id": c.GetInt("player_id"), "role": c.GetString("role")})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	utils.InitJWT("test-key")
	live, err := utils.GenerateJWT(5, "player", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	revoked, _ := utils.GenerateJWT(6, "player", time.Hour)
	expired, _ := utils.GenerateJWT(5, "player", -time.Hour)
	r := authRouter(tokenStore{5: live})

	tests := []struct {
		name   string
		header string
		cookie string
		code   int
	}{
		{"bearer", "Bearer " + live, "", http.StatusOK},
		{"cookie", "", live, http.StatusOK},
		{"no credentials", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + live, "", http.StatusUnauthorized},
		{"garbage", "Bearer not.a.jwt", "", http.StatusUnauthorized},
		{"logged out", "Bearer " + revoked, "", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "jwt", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.code {
				t.Errorf("code = %d, want %d (%s)", w.Code, tt.code, w.Body)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(1, 2)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("burst of 2 not allowed")
	}
	if l.Allow("a") {
		t.Error("third request in the same instant allowed")
	}
	if !l.Allow("b") {
		t.Error("keys share a bucket")
	}

	clock = clock.Add(time.Second)
	if !l.Allow("a") {
		t.Error("token not refilled after 1s")
	}

	clock = clock.Add(2 * idleLimiter)
	l.Allow("c")
	if _, ok := l.visitors["a"]; ok {
		t.Error("idle limiter not evicted")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	l := NewRateLimiter(0.001, 1)
	r := gin.New()
	r.POST("/fight", func(c *gin.Context) { c.Set("player_id", 3) }, l.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 2)
	for range 2 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/fight", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}
	if _, ok := l.visitors["player:3"]; !ok {
		t.Error("limiter not keyed by player")
	}
}
