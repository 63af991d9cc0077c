package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fleet_battle/internal/app/ds"
	"fleet_battle/internal/app/replay"
	"fleet_battle/internal/app/service"
)

const (
	defaultBattlePage = 20
	maxBattlePage     = 100
)

type BattleHandler struct {
	Service interface {
		FightPvE(ctx context.Context, playerID, formationID int) (*service.Outcome, error)
		FightPvP(ctx context.Context, playerID, formationID, opponentID int) (*service.Outcome, error)
	}
	Repository interface {
		GetBattles(ctx context.Context, playerID, limit int) ([]ds.Battle, error)
		GetBattle(ctx context.Context, playerID int, battleID string) (ds.Battle, error)
		GetReplay(ctx context.Context, objectName string) ([]byte, error)
	}
}

type fightRequest struct {
	FormationID int `json:"formation_id" binding:"required"`
	OpponentID  int `json:"opponent_id"`
}

// @Summary Fight a generated fleet
// @Description Resolves a battle against bots of matching power and settles it
// @Tags battles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param fight body object{formation_id=int} true "Formation"
// @Success 200 {object} service.Outcome
// @Failure 400 {object} object "error: message"
// @Failure 409 {object} object "error: fleet is busy, retry"
// @Failure 429 {object} object "error: message"
// @Router /api/battles/pve [post]
func (h *BattleHandler) FightPvEAPI(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	var req fightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := h.Service.FightPvE(c.Request.Context(), id, req.FormationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Fight another player
// @Description The opponent's fleet is a read-only snapshot; only the caller is settled
// @Tags battles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param fight body object{formation_id=int,opponent_id=int} true "Formation and opponent"
// @Success 200 {object} service.Outcome
// @Failure 400 {object} object "error: message"
// @Failure 404 {object} object "error: message"
// @Failure 409 {object} object "error: fleet is busy, retry"
// @Router /api/battles/pvp [post]
func (h *BattleHandler) FightPvPAPI(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	var req fightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.OpponentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "opponent_id is required"})
		return
	}
	out, err := h.Service.FightPvP(c.Request.Context(), id, req.FormationID, req.OpponentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Battle history
// @Tags battles
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size, at most 100"
// @Success 200 {object} object "data: []ds.Battle, count: int"
// @Router /api/battles [get]
func (h *BattleHandler) GetBattlesAPI(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	limit := defaultBattlePage
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = min(n, maxBattlePage)
	}
	battles, err := h.Repository.GetBattles(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  battles,
		"count": len(battles),
	})
}

// @Summary Get one battle with its log
// @Description verified is false when the stored log no longer matches its checksum
// @Tags battles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Battle ID"
// @Success 200 {object} object "data: ds.Battle, verified: bool"
// @Failure 404 {object} object "error: message"
// @Router /api/battles/{id} [get]
func (h *BattleHandler) GetBattleAPI(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	b, err := h.Repository.GetBattle(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":     b,
		"verified": replay.Verify(b.Log, b.Checksum),
	})
}

// @Summary Download the archived replay
// @Description lz4-compressed JSON with both fleets, the seed and the result
// @Tags battles
// @Produce application/x-lz4
// @Security BearerAuth
// @Param id path string true "Battle ID"
// @Success 200 {file} binary
// @Failure 404 {object} object "error: message"
// @Router /api/battles/{id}/replay [get]
func (h *BattleHandler) GetReplayAPI(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	b, err := h.Repository.GetBattle(ctx, id, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := h.Repository.GetReplay(ctx, b.ReplayObject)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+b.BattleID+".json.lz4")
	c.Data(http.StatusOK, replay.ContentType, data)
}
