package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet_battle/internal/app/ds"
)

type UserHandler struct {
	Repository interface {
		RegisterPlayer(ctx context.Context, login, password, race string, now time.Time) (ds.Player, error)
		LoginPlayer(ctx context.Context, login, password string, now time.Time) (string, *ds.Player, error)
		LogoutPlayer(ctx context.Context, playerID int) error
		GetPlayerByID(ctx context.Context, playerID int) (*ds.Player, error)
	}
	// CookieTTL is the lifetime of the jwt cookie set on login.
	CookieTTL time.Duration
	Now       func() time.Time
}

type credentials struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registration struct {
	credentials
	Race string `json:"race" binding:"required"`
}

func (h *UserHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// @Summary Register a new player
// @Description Register a player with login, password and race
// @Tags users
// @Accept json
// @Produce json
// @Param player body object{login=string,password=string,race=string} true "Player info"
// @Success 201 {object} object "data: registered player"
// @Failure 400 {object} object "error: message"
// @Failure 409 {object} object "error: login taken"
// @Router /api/users/register [post]
func (h *UserHandler) RegisterPlayerAPI(c *gin.Context) {
	var req registration
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	player, err := h.Repository.RegisterPlayer(c.Request.Context(), req.Login, req.Password, req.Race, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": player})
}

// @Summary Login player
// @Description Authenticate, settle decay for the absence and return a JWT
// @Tags users
// @Accept json
// @Produce json
// @Param credentials body object{login=string,password=string} true "Credentials"
// @Success 200 {object} object "message: string, data: {token: string, player: ds.Player}"
// @Failure 400 {object} object "error: message"
// @Failure 401 {object} object "error: message"
// @Router /api/users/login [post]
func (h *UserHandler) LoginPlayerAPI(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, player, err := h.Repository.LoginPlayer(c.Request.Context(), req.Login, req.Password, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.SetCookie("jwt", token, int(h.CookieTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data": gin.H{
			"token":  token,
			"player": player,
		},
	})
}

// @Summary Logout player
// @Description Revoke the stored JWT and clear the cookie
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object "message: string"
// @Failure 401 {object} object "error: message"
// @Router /api/users/logout [post]
func (h *UserHandler) LogoutPlayerAPI(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	if err := h.Repository.LogoutPlayer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.SetCookie("jwt", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// @Summary Get player profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ds.Player
// @Failure 401 {object} object "error: message"
// @Router /api/users/profile [get]
func (h *UserHandler) GetProfileAPI(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	player, err := h.Repository.GetPlayerByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}
