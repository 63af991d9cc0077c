package ds

import (
	"time"

	"gorm.io/datatypes"
)

// @Schema(description="Settled battle with its log")
type Battle struct {
	BattleID    string `gorm:"primaryKey;column:battle_id;type:uuid" json:"battle_id"`
	PlayerID    int    `gorm:"column:player_id;index;not null" json:"player_id"`
	OpponentID  int    `gorm:"column:opponent_id" json:"opponent_id,omitempty"` // 0 для PvE
	FormationID int    `gorm:"column:formation_id" json:"formation_id"`
	Mode        string `gorm:"column:mode;not null" json:"mode"`
	Ruleset     string `gorm:"column:ruleset;not null" json:"ruleset"`
	Winner      string `gorm:"column:winner;not null" json:"winner"`
	Rounds      int    `gorm:"column:rounds" json:"rounds"`
	Reward      int    `gorm:"column:reward" json:"reward"`
	Experience  int    `gorm:"column:experience" json:"experience"`
	// Log is the full combat.Result as JSON.
	Log          datatypes.JSON `gorm:"column:log" json:"log"`
	Checksum     string         `gorm:"column:checksum" json:"checksum"`
	ReplayObject string         `gorm:"column:replay_object" json:"replay_object,omitempty"`
	CreatedAt    time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (Battle) TableName() string {
	return "battles"
}

// ShipUpdate is the post-battle state of one persisted ship. LoadedUpdate is
// the last_update seen when the fleet was loaded; the write fails if the row
// moved on since.
type ShipUpdate struct {
	ShipID          int
	CurrentHP       int
	ExperienceDelta int
	LastUpdate      time.Time
	LoadedUpdate    time.Time
}

// Settlement is everything a battle writes. It is committed all at once.
type Settlement struct {
	Battle  Battle
	Credits int
	Ships   []ShipUpdate
}
