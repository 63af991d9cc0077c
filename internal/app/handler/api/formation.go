package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet_battle/internal/app/ds"
)

type FormationHandler struct {
	Repository interface {
		GetFormations(ctx context.Context, playerID int) ([]ds.Formation, error)
		GetFormation(ctx context.Context, playerID, formationID int) (ds.Formation, error)
		CreateFormation(ctx context.Context, playerID int, name string) (ds.Formation, error)
		AssignSlot(ctx context.Context, playerID, formationID, slot, shipID int) error
		ClearSlot(ctx context.Context, playerID, formationID, slot int) error
		ExpandFormation(ctx context.Context, playerID, formationID int) (ds.Formation, error)
	}
}

// @Summary List formations
// @Tags formations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object "data: []ds.Formation, count: int"
// @Router /api/formations [get]
func (h *FormationHandler) GetFormationsAPI(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	formations, err := h.Repository.GetFormations(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  formations,
		"count": len(formations),
	})
}

// @Summary Create a formation
// @Description New formation with the minimum number of slots
// @Tags formations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param formation body object{name=string} true "Formation"
// @Success 201 {object} object "data: ds.Formation"
// @Router /api/formations [post]
func (h *FormationHandler) CreateFormationAPI(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := h.Repository.CreateFormation(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": f})
}

// @Summary Buy one more slot
// @Description Costs 250 credits per slot the formation already has
// @Tags formations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Formation ID"
// @Success 200 {object} object "data: ds.Formation"
// @Failure 409 {object} object "error: formation full or not enough credits"
// @Router /api/formations/{id}/expand [post]
func (h *FormationHandler) ExpandFormationAPI(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	formationID, ok := intParam(c, "id")
	if !ok {
		return
	}
	f, err := h.Repository.ExpandFormation(c.Request.Context(), id, formationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": f})
}

// @Summary Put a ship into a slot
// @Description A ship placed in another slot is moved
// @Tags formations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Formation ID"
// @Param slot path int true "Slot index"
// @Param ship body object{ship_id=int} true "Ship"
// @Success 200 {object} object "data: ds.Formation"
// @Failure 400 {object} object "error: message"
// @Failure 409 {object} object "error: message"
// @Router /api/formations/{id}/slots/{slot} [put]
func (h *FormationHandler) AssignSlotAPI(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	formationID, ok := intParam(c, "id")
	if !ok {
		return
	}
	slot, ok := intParam(c, "slot")
	if !ok {
		return
	}
	var req struct {
		ShipID int `json:"ship_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	if err := h.Repository.AssignSlot(ctx, id, formationID, slot, req.ShipID); err != nil {
		respondError(c, err)
		return
	}
	f, err := h.Repository.GetFormation(ctx, id, formationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": f})
}

// @Summary Empty a slot
// @Tags formations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Formation ID"
// @Param slot path int true "Slot index"
// @Success 200 {object} object "message: string"
// @Router /api/formations/{id}/slots/{slot} [delete]
func (h *FormationHandler) ClearSlotAPI(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	formationID, ok := intParam(c, "id")
	if !ok {
		return
	}
	slot, ok := intParam(c, "slot")
	if !ok {
		return
	}
	if err := h.Repository.ClearSlot(c.Request.Context(), id, formationID, slot); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot cleared"})
}
