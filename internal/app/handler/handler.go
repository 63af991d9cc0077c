package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"fleet_battle/internal/app/bots"
	"fleet_battle/internal/app/config"
	"fleet_battle/internal/app/handler/api"
	"fleet_battle/internal/app/handler/middleware"
	"fleet_battle/internal/app/repository"
	"fleet_battle/internal/app/service"
)

type Handler struct {
	Repository          *repository.Repository
	UserAPIHandler      *api.UserHandler
	ShipAPIHandler      *api.ShipHandler
	FormationAPIHandler *api.FormationHandler
	BattleAPIHandler    *api.BattleHandler
	CatalogAPIHandler   *api.CatalogHandler
	BattleLimiter       *middleware.RateLimiter
}

func NewHandler(rep *repository.Repository, svc *service.BattleService, conf *config.Config) *Handler {
	now := func() time.Time { return time.Now().UTC() }
	return &Handler{
		Repository:          rep,
		UserAPIHandler:      &api.UserHandler{Repository: rep, CookieTTL: conf.JwtTTL, Now: now},
		ShipAPIHandler:      &api.ShipHandler{Repository: rep, Rules: svc.Rules(), Now: now},
		FormationAPIHandler: &api.FormationHandler{Repository: rep},
		BattleAPIHandler:    &api.BattleHandler{Service: svc, Repository: rep},
		CatalogAPIHandler:   &api.CatalogHandler{Rules: svc.Rules(), Bots: bots.Catalog},
		BattleLimiter:       middleware.NewRateLimiter(conf.RateLimit.RPS, conf.RateLimit.Burst),
	}
}

func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(middleware.RequestLogger())

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/catalog", h.CatalogAPIHandler.GetCatalogAPI)

		// Домен пользователя
		apiGroup.POST("/users/register", h.UserAPIHandler.RegisterPlayerAPI)
		apiGroup.POST("/users/login", h.UserAPIHandler.LoginPlayerAPI)

		authGroup := apiGroup.Group("/", middleware.AuthMiddleware(h.Repository))
		{
			authGroup.GET("/users/profile", h.UserAPIHandler.GetProfileAPI)
			authGroup.POST("/users/logout", h.UserAPIHandler.LogoutPlayerAPI)

			// Домен кораблей
			authGroup.GET("/ships", h.ShipAPIHandler.GetShipsAPI)
			authGroup.GET("/ships/:id", h.ShipAPIHandler.GetShipAPI)
			authGroup.POST("/ships", h.ShipAPIHandler.BuildShipAPI)
			authGroup.POST("/ships/:id/modules", h.ShipAPIHandler.EquipModuleAPI)

			// Домен формаций
			authGroup.GET("/formations", h.FormationAPIHandler.GetFormationsAPI)
			authGroup.POST("/formations", h.FormationAPIHandler.CreateFormationAPI)
			authGroup.POST("/formations/:id/expand", h.FormationAPIHandler.ExpandFormationAPI)
			authGroup.PUT("/formations/:id/slots/:slot", h.FormationAPIHandler.AssignSlotAPI)
			authGroup.DELETE("/formations/:id/slots/:slot", h.FormationAPIHandler.ClearSlotAPI)

			// Домен боёв
			authGroup.GET("/battles", h.BattleAPIHandler.GetBattlesAPI)
			authGroup.GET("/battles/:id", h.BattleAPIHandler.GetBattleAPI)
			authGroup.GET("/battles/:id/replay", h.BattleAPIHandler.GetReplayAPI)
			fights := authGroup.Group("/battles", h.BattleLimiter.Middleware())
			{
				fights.POST("/pve", h.BattleAPIHandler.FightPvEAPI)
				fights.POST("/pvp", h.BattleAPIHandler.FightPvPAPI)
			}
		}
	}
}
