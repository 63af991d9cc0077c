package main

// go run cmd/fleet_battle/main.go

import (
	"fleet_battle/internal/app/combat"
	"fleet_battle/internal/app/config"
	"fleet_battle/internal/app/dsn"
	"fleet_battle/internal/app/handler"
	"fleet_battle/internal/app/pkg"
	"fleet_battle/internal/app/repository"
	"fleet_battle/internal/app/service"
	"fleet_battle/internal/app/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	_ "fleet_battle/docs" // Swagger docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Fleet Battle API
// @version 1.0
// @description Fleet combat resolution, ship management and battle history.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	conf, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("error loading config: %v", err)
	}

	rules, err := combat.Lookup(conf.Combat.Ruleset)
	if err != nil {
		logrus.Fatalf("error selecting ruleset: %v", err)
	}
	logrus.Infof("combat ruleset: %s", rules.Name)
	if conf.Combat.RoundCap > rules.RoundCap {
		logrus.Warnf("Combat.RoundCap %d is above the %s cap, using %d", conf.Combat.RoundCap, rules.Name, rules.RoundCap)
	}

	utils.InitJWT(conf.JwtKey)

	rep, err := repository.New(dsn.FromEnv(), conf, rules)
	if err != nil {
		logrus.Fatalf("error initializing repository: %v", err)
	}
	defer func() {
		if err := rep.Close(); err != nil {
			logrus.Errorf("close repository: %v", err)
		}
	}()

	svc := service.New(rep, rules, conf.Combat)
	hand := handler.NewHandler(rep, svc, conf)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	application := pkg.NewApp(conf, router, hand)
	application.RunApp()
}
