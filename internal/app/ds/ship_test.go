package ds

import (
	"testing"

	"fleet_battle/internal/app/combat"
)

func TestShipCombat(t *testing.T) {
	s := Ship{
		ShipID:    42,
		PlayerID:  7,
		Name:      "Vigil",
		Class:     "cruiser",
		Tier:      2,
		Race:      "protoss",
		CurrentHP: 300,
		Modules:   []ShipModule{{Type: "engine", Tier: 1}, {Type: "armor_plating", Tier: 3}},
	}
	got := s.Combat()
	if got.ID != "42" || got.OwnerID != 7 || got.Class != combat.ClassCruiser || got.Race != combat.RaceProtoss {
		t.Errorf("Combat() = %+v", got)
	}
	if len(got.Modules) != 2 || got.Modules[1] != (combat.Module{Type: combat.ModuleArmorPlating, Tier: 3}) {
		t.Errorf("modules = %+v", got.Modules)
	}
	if _, err := combat.CosmicFleet.ShipStats(got); err != nil {
		t.Errorf("converted ship rejected: %v", err)
	}
}

func TestFormationFleetKeepsSlotOrder(t *testing.T) {
	f := Formation{PlayerID: 7, Slots: []FormationSlot{
		{Slot: 0, Ship: Ship{ShipID: 3}},
		{Slot: 1, Ship: Ship{ShipID: 1}},
		{Slot: 2, Ship: Ship{ShipID: 2}},
	}}
	fleet := f.Fleet()
	if fleet.OwnerID != 7 || len(fleet.Ships) != 3 {
		t.Fatalf("Fleet() = %+v", fleet)
	}
	for i, want := range []string{"3", "1", "2"} {
		if fleet.Ships[i].ID != want {
			t.Errorf("slot %d holds %s, want %s", i, fleet.Ships[i].ID, want)
		}
	}
}
