package ds

import "time"

const (
	MinFormationSlots = 3
	MaxFormationSlots = 5
)

// @Schema(description="Ordered set of combat slots")
type Formation struct {
	FormationID int             `gorm:"primaryKey;column:formation_id" json:"formation_id"`
	PlayerID    int             `gorm:"column:player_id;index;not null" json:"player_id"`
	Name        string          `gorm:"column:name" json:"name"`
	Capacity    int             `gorm:"column:capacity;not null;default:3" json:"capacity"`
	Slots       []FormationSlot `gorm:"foreignKey:FormationID;references:FormationID" json:"slots"`
	CreatedAt   time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (Formation) TableName() string {
	return "formations"
}

// FormationSlot puts one ship into one slot. The unique index on ship_id keeps
// a ship in at most one slot across all formations.
type FormationSlot struct {
	FormationID int  `gorm:"primaryKey;column:formation_id" json:"-"`
	Slot        int  `gorm:"primaryKey;column:slot" json:"slot"`
	ShipID      int  `gorm:"column:ship_id;uniqueIndex:idx_formation_slots_ship_id;not null" json:"ship_id"`
	Ship        Ship `gorm:"foreignKey:ShipID;references:ShipID" json:"ship"`
}

func (FormationSlot) TableName() string {
	return "formation_slots"
}
