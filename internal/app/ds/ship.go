package ds

import (
	"strconv"
	"time"

	"fleet_battle/internal/app/combat"
)

// @Schema(description="Combat ship owned by a player")
type Ship struct {
	ShipID   int    `gorm:"primaryKey;column:ship_id" json:"ship_id"`
	PlayerID int    `gorm:"column:player_id;index;not null" json:"player_id"`
	Name     string `gorm:"column:name" json:"name"`
	Class    string `gorm:"column:class;not null" json:"class"`
	Tier     int    `gorm:"column:tier;not null;default:1" json:"tier"`
	Race     string `gorm:"column:race;not null" json:"race"`
	// пустое значение - основное оружие расы
	Weapon     string `gorm:"column:weapon" json:"weapon,omitempty"`
	CurrentHP  int    `gorm:"column:current_hp;not null" json:"current_hp"`
	Experience int    `gorm:"column:experience;not null;default:0" json:"experience"`
	// LastUpdate is when CurrentHP was last written; regeneration runs from here.
	LastUpdate   time.Time    `gorm:"column:last_update" json:"last_update"`
	DecayCharged int          `gorm:"column:decay_charged;not null;default:0" json:"-"`
	Modules      []ShipModule `gorm:"foreignKey:ShipID;references:ShipID" json:"modules"`
	CreatedAt    time.Time    `gorm:"column:created_at" json:"created_at"`
}

func (Ship) TableName() string {
	return "ships"
}

type ShipModule struct {
	ShipModuleID int    `gorm:"primaryKey;column:ship_module_id" json:"-"`
	ShipID       int    `gorm:"column:ship_id;index;not null" json:"-"`
	Type         string `gorm:"column:type;not null" json:"type"`
	Tier         int    `gorm:"column:tier;not null" json:"tier"`
}

func (ShipModule) TableName() string {
	return "ship_modules"
}

// Combat converts the stored ship into the engine's form.
func (s Ship) Combat() combat.Ship {
	mods := make([]combat.Module, 0, len(s.Modules))
	for _, m := range s.Modules {
		mods = append(mods, combat.Module{Type: combat.ModuleType(m.Type), Tier: m.Tier})
	}
	return combat.Ship{
		ID:        strconv.Itoa(s.ShipID),
		OwnerID:   s.PlayerID,
		Name:      s.Name,
		Class:     combat.ShipClass(s.Class),
		Tier:      s.Tier,
		Race:      combat.Race(s.Race),
		Weapon:    s.Weapon,
		Modules:   mods,
		CurrentHP: s.CurrentHP,
	}
}

// Fleet returns the formation's ships in slot order.
func (f Formation) Fleet() combat.Fleet {
	fleet := combat.Fleet{OwnerID: f.PlayerID}
	for _, slot := range f.Slots {
		fleet.Ships = append(fleet.Ships, slot.Ship.Combat())
	}
	return fleet
}
