package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet_battle/internal/app/combat"
	"fleet_battle/internal/app/ds"
)

type ShipHandler struct {
	Repository interface {
		GetShips(ctx context.Context, playerID int, now time.Time) ([]ds.Ship, error)
		GetShip(ctx context.Context, playerID, shipID int, now time.Time) (ds.Ship, error)
		BuildShip(ctx context.Context, playerID int, ship ds.Ship, now time.Time) (ds.Ship, error)
		EquipModule(ctx context.Context, playerID, shipID int, m combat.Module, now time.Time) (ds.Ship, error)
	}
	Rules *combat.Ruleset
	Now   func() time.Time
}

type buildRequest struct {
	Name   string `json:"name"`
	Class  string `json:"class" binding:"required"`
	Tier   int    `json:"tier"`
	Race   string `json:"race"`
	Weapon string `json:"weapon"`
}

type moduleRequest struct {
	Type string `json:"type" binding:"required"`
	Tier int    `json:"tier" binding:"required"`
}

func (h *ShipHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// @Summary List own ships
// @Description Ships with regeneration applied up to now
// @Tags ships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object "data: []ds.Ship, count: int"
// @Router /api/ships [get]
func (h *ShipHandler) GetShipsAPI(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	ships, err := h.Repository.GetShips(c.Request.Context(), id, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  ships,
		"count": len(ships),
	})
}

// @Summary Get one ship
// @Tags ships
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ship ID"
// @Success 200 {object} object "data: ds.Ship, stats: combat.Stats, max_hp: int"
// @Failure 404 {object} object "error: message"
// @Router /api/ships/{id} [get]
func (h *ShipHandler) GetShipAPI(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	shipID, ok := intParam(c, "id")
	if !ok {
		return
	}
	ship, err := h.Repository.GetShip(c.Request.Context(), id, shipID, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	stats, err := h.Rules.ShipStats(ship.Combat())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":   ship,
		"stats":  stats,
		"max_hp": combat.MaxHP(stats),
	})
}

// @Summary Build a ship
// @Description New ship at full HP. Race defaults to the player's race, tier to 1
// @Tags ships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ship body buildRequest true "Ship"
// @Success 201 {object} object "data: ds.Ship"
// @Failure 400 {object} object "error: message"
// @Router /api/ships [post]
func (h *ShipHandler) BuildShipAPI(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	var req buildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ship, err := h.Repository.BuildShip(c.Request.Context(), id, ds.Ship{
		Name:   req.Name,
		Class:  req.Class,
		Tier:   req.Tier,
		Race:   req.Race,
		Weapon: req.Weapon,
	}, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": ship})
}

// @Summary Equip a module
// @Description Installs a module; current HP rises by the max HP the module adds
// @Tags ships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ship ID"
// @Param module body moduleRequest true "Module"
// @Success 200 {object} object "data: ds.Ship"
// @Failure 400 {object} object "error: message"
// @Failure 404 {object} object "error: message"
// @Router /api/ships/{id}/modules [post]
func (h *ShipHandler) EquipModuleAPI(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	shipID, ok := intParam(c, "id")
	if !ok {
		return
	}
	var req moduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m := combat.Module{Type: combat.ModuleType(req.Type), Tier: req.Tier}
	// неизвестный модуль молча дал бы нулевой бонус
	if _, known := h.Rules.Modules[combat.ModuleKey{Type: m.Type, Tier: m.Tier}]; !known {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown module"})
		return
	}
	ship, err := h.Repository.EquipModule(c.Request.Context(), id, shipID, m, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ship})
}
