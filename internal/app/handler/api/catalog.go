package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet_battle/internal/app/bots"
	"fleet_battle/internal/app/combat"
)

type CatalogHandler struct {
	Rules *combat.Ruleset
	Bots  map[int][]bots.Template
}

// @Summary Combat tables
// @Description Races, classes, weapons, modules and bot templates of the active ruleset
// @Tags catalog
// @Produce json
// @Success 200 {object} object "ruleset: combat.Ruleset, modules: []combat.ModuleEntry, bots: object"
// @Router /api/catalog [get]
func (h *CatalogHandler) GetCatalogAPI(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ruleset": h.Rules,
		"modules": h.Rules.ModuleEntries(),
		"bots":    h.Bots,
	})
}
