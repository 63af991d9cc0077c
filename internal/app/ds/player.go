package ds

import "time"

// @Schema(description="Player account owning ships and formations")
type Player struct {
	PlayerID  int       `gorm:"primaryKey;column:player_id" json:"player_id"`
	Login     string    `gorm:"column:login;uniqueIndex:idx_players_login;not null" json:"login"`
	Password  string    `gorm:"column:password;not null" json:"-"`
	Race      string    `gorm:"column:race;not null" json:"race"`
	Role      string    `gorm:"column:role" json:"role"`
	Credits   int       `gorm:"column:credits;not null;default:0" json:"credits"`
	LastLogin time.Time `gorm:"column:last_login" json:"last_login"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Player) TableName() string {
	return "players"
}
