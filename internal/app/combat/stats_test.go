package combat

import (
	"errors"
	"math"
	"testing"
)

func TestShipStats(t *testing.T) {
	tests := []struct {
		name    string
		ship    Ship
		want    Stats
		wantMax int
	}{
		{
			name:    "terran frigate",
			ship:    Ship{ID: "1", Class: ClassFrigate, Tier: 1, Race: RaceTerran},
			want:    Stats{HP: 300, Attack: 60, Defense: 36, Shield: 18, Speed: 120},
			wantMax: 300,
		},
		{
			name:    "module added before race multiplier",
			ship:    Ship{ID: "2", Class: ClassFrigate, Tier: 1, Race: RaceTerran, Modules: []Module{{ModuleArmorPlating, 2}}},
			want:    Stats{HP: 300, Attack: 60, Defense: 60, Shield: 18, Speed: 120},
			wantMax: 300,
		},
		{
			name:    "hull module scaled by race hp bonus",
			ship:    Ship{ID: "3", Class: ClassFrigate, Tier: 1, Race: RaceZerg, Modules: []Module{{ModuleHullReinforcement, 1}}},
			want:    Stats{HP: 385, Attack: 60, Defense: 30, Shield: 20, Speed: 120},
			wantMax: 385,
		},
		{
			name: "unknown modules contribute nothing",
			ship: Ship{ID: "4", Class: ClassFrigate, Tier: 1, Race: RaceTerran, Modules: []Module{
				{Type: "warp_core", Tier: 1},
				{Type: ModuleArmorPlating, Tier: 9},
			}},
			want:    Stats{HP: 300, Attack: 60, Defense: 36, Shield: 18, Speed: 120},
			wantMax: 300,
		},
		{
			name:    "tier multiplier",
			ship:    Ship{ID: "5", Class: ClassDestroyer, Tier: 3, Race: RaceProtoss},
			want:    Stats{HP: 675, Attack: 120, Defense: 67.5, Shield: 54, Speed: 150},
			wantMax: 675,
		},
	}
	for _, tt := range tests {
		got, err := CosmicFleet.ShipStats(tt.ship)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if !closeStats(got, tt.want) {
			t.Errorf("%s: got %+v, want %+v", tt.name, got, tt.want)
		}
		if MaxHP(got) != tt.wantMax {
			t.Errorf("%s: MaxHP = %d, want %d", tt.name, MaxHP(got), tt.wantMax)
		}
	}
}

func TestShipStatsRejectsMalformedShips(t *testing.T) {
	bad := []Ship{
		{ID: "race", Class: ClassFrigate, Tier: 1, Race: "klingon"},
		{ID: "tier", Class: ClassFrigate, Tier: 4, Race: RaceTerran},
		{ID: "class", Class: "dreadnought", Tier: 1, Race: RaceTerran},
	}
	for _, s := range bad {
		if _, err := CosmicFleet.ShipStats(s); !errors.Is(err, ErrInvalidShip) {
			t.Errorf("ShipStats(%s) err = %v, want ErrInvalidShip", s.ID, err)
		}
	}
}

func TestShipStatsUsesBaseOverride(t *testing.T) {
	base := Stats{HP: 1000, Attack: 10, Speed: 5}
	s := Ship{ID: "bot", Class: "pirate_hulk", Tier: 1, Race: RaceZerg, Base: &base}
	got, err := CosmicFleet.ShipStats(s)
	if err != nil {
		t.Fatal(err)
	}
	if MaxHP(got) != 1100 {
		t.Errorf("MaxHP = %d, want 1100", MaxHP(got))
	}
}

func TestEquipRaisesCurrentAndMax(t *testing.T) {
	s := Ship{ID: "1", Class: ClassFrigate, Tier: 1, Race: RaceTerran, CurrentHP: 150}
	if err := CosmicFleet.Equip(&s, Module{ModuleShieldGenerator, 1}); err != nil {
		t.Fatal(err)
	}
	if s.CurrentHP != 170 {
		t.Errorf("CurrentHP = %d, want 170", s.CurrentHP)
	}
	stats, _ := CosmicFleet.ShipStats(s)
	if MaxHP(stats) != 320 {
		t.Errorf("MaxHP = %d, want 320", MaxHP(stats))
	}

	// Unknown modules are accepted and change nothing.
	if err := CosmicFleet.Equip(&s, Module{Type: "mystery", Tier: 1}); err != nil {
		t.Fatal(err)
	}
	if s.CurrentHP != 170 {
		t.Errorf("CurrentHP after unknown module = %d, want 170", s.CurrentHP)
	}
}

func TestRulesetLookup(t *testing.T) {
	for _, name := range []string{RulesetCosmicFleet, RulesetGalacticEmpire} {
		r, err := Lookup(name)
		if err != nil || r.Name != name {
			t.Errorf("Lookup(%q) = %v, %v", name, r, err)
		}
	}
	if _, err := Lookup("space_chess"); err == nil {
		t.Error("Lookup of unknown ruleset succeeded")
	}
	// Variants must not share mutable tables.
	if CosmicFleet.Weapons["laser"].BaseDamage == GalacticEmpire.Weapons["laser"].BaseDamage {
		t.Error("galactic_empire laser shares cosmic_fleet value")
	}
	for race, p := range CosmicFleet.Races {
		if _, ok := CosmicFleet.Weapon(p.PrimaryWeapon); !ok {
			t.Errorf("race %s primary weapon %q missing", race, p.PrimaryWeapon)
		}
	}
	if got := CosmicFleet.Modifier(ClassFrigate, "no_such_weapon"); got != 1.0 {
		t.Errorf("default modifier = %v, want 1.0", got)
	}
}

func TestParseTiebreak(t *testing.T) {
	tests := []struct {
		in   string
		want Tiebreak
		ok   bool
	}{
		{"", "", true},
		{"remaining_hp", TiebreakRemainingHP, true},
		{"damage_dealt", TiebreakDamageDealt, true},
		{"Remaining_HP", "", false},
		{"coin_flip", "", false},
	}
	for _, tt := range tests {
		got, err := ParseTiebreak(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseTiebreak(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func closeStats(a, b Stats) bool {
	const eps = 1e-6
	return math.Abs(a.HP-b.HP) < eps &&
		math.Abs(a.Attack-b.Attack) < eps &&
		math.Abs(a.Defense-b.Defense) < eps &&
		math.Abs(a.Shield-b.Shield) < eps &&
		math.Abs(a.Speed-b.Speed) < eps
}
