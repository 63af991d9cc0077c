package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fleet_battle/internal/app/combat"
	"fleet_battle/internal/app/repository"
	"fleet_battle/internal/app/service"
)

// statusOf maps domain errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case combat.IsInvalidInput(err),
		errors.Is(err, repository.ErrUnknownRace),
		errors.Is(err, repository.ErrBadSlot),
		errors.Is(err, service.ErrSelfMatch):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrRetry),
		errors.Is(err, repository.ErrStale),
		errors.Is(err, repository.ErrFleetBusy),
		errors.Is(err, repository.ErrSlotTaken),
		errors.Is(err, repository.ErrLoginTaken),
		errors.Is(err, repository.ErrFormationFull),
		errors.Is(err, repository.ErrNotEnoughCredits):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(code, gin.H{"error": "internal error"})
		return
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

// playerID достаёт id игрока, положенный AuthMiddleware.
func playerID(c *gin.Context) (int, bool) {
	id := c.GetInt("player_id")
	if id <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return id, true
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return v, true
}
