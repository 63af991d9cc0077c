package main

import (
	"fleet_battle/internal/app/config"
	"fleet_battle/internal/app/ds"
	"fleet_battle/internal/app/dsn"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if _, err := config.NewConfig(); err != nil {
		logrus.Fatalf("error loading config: %v", err)
	}

	db, err := gorm.Open(postgres.Open(dsn.FromEnv()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("error connecting to database: %v", err)
	}

	// Порядок миграций: игроки, корабли, модули, формации, слоты, бои
	models := []struct {
		name  string
		model any
	}{
		{"players", &ds.Player{}},
		{"ships", &ds.Ship{}},
		{"ship_modules", &ds.ShipModule{}},
		{"formations", &ds.Formation{}},
		{"formation_slots", &ds.FormationSlot{}},
		{"battles", &ds.Battle{}},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			logrus.Fatalf("error migrating %s: %v", m.name, err)
		}
	}

	logrus.Info("Database migration completed")
}
