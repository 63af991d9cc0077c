package bots

import "fleet_battle/internal/app/combat"

// Template is one enemy archetype. Stats are pre-scaling; the provider
// rescales the whole fleet to the player's power.
type Template struct {
	Name       string           `json:"name"`
	Tier       int              `json:"tier"`
	Class      combat.ShipClass `json:"class"`
	Race       combat.Race      `json:"race"`
	Weapon     string           `json:"weapon"`
	Health     float64          `json:"health"`
	Damage     float64          `json:"damage"`
	Defense    float64          `json:"defense"`
	Shield     float64          `json:"shield"`
	Speed      float64          `json:"speed"`
	Reward     int              `json:"reward"`
	Experience int              `json:"experience"`
}

func (t Template) base() combat.Stats {
	return combat.Stats{HP: t.Health, Attack: t.Damage, Defense: t.Defense, Shield: t.Shield, Speed: t.Speed}
}

// Catalog lists the templates per tier.
var Catalog = map[int][]Template{
	1: {
		{Name: "Pirate Skiff", Tier: 1, Class: combat.ClassDrone, Race: combat.RaceTerran, Weapon: "gatling",
			Health: 160, Damage: 45, Defense: 10, Shield: 5, Speed: 150, Reward: 5, Experience: 8},
		{Name: "Brood Scout", Tier: 1, Class: combat.ClassFrigate, Race: combat.RaceZerg, Weapon: "acid_spitter",
			Health: 280, Damage: 55, Defense: 25, Shield: 15, Speed: 125, Reward: 8, Experience: 12},
		{Name: "Raider Cutter", Tier: 1, Class: combat.ClassFrigate, Race: combat.RaceXerj, Weapon: "laser",
			Health: 310, Damage: 60, Defense: 30, Shield: 20, Speed: 115, Reward: 9, Experience: 13},
	},
	2: {
		{Name: "Corsair Destroyer", Tier: 2, Class: combat.ClassDestroyer, Race: combat.RaceTerran, Weapon: "railgun",
			Health: 560, Damage: 95, Defense: 60, Shield: 35, Speed: 100, Reward: 18, Experience: 25},
		{Name: "Hive Cruiser", Tier: 2, Class: combat.ClassCruiser, Race: combat.RaceZerg, Weapon: "acid_spitter",
			Health: 820, Damage: 105, Defense: 85, Shield: 40, Speed: 80, Reward: 22, Experience: 30},
		{Name: "Void Lancer", Tier: 2, Class: combat.ClassDestroyer, Race: combat.RaceProtoss, Weapon: "ion_cannon",
			Health: 520, Damage: 100, Defense: 50, Shield: 60, Speed: 105, Reward: 20, Experience: 27},
	},
	3: {
		{Name: "Dread Hulk", Tier: 3, Class: combat.ClassBattleship, Race: combat.RaceTerran, Weapon: "railgun",
			Health: 1500, Damage: 170, Defense: 150, Shield: 90, Speed: 50, Reward: 45, Experience: 60},
		{Name: "Swarm Mother", Tier: 3, Class: combat.ClassCarrier, Race: combat.RaceZerg, Weapon: "plasma_torpedo",
			Health: 1250, Damage: 110, Defense: 110, Shield: 120, Speed: 60, Reward: 40, Experience: 55},
		{Name: "Xerj Reaver", Tier: 3, Class: combat.ClassCruiser, Race: combat.RaceXerj, Weapon: "plasma_torpedo",
			Health: 1000, Damage: 140, Defense: 100, Shield: 70, Speed: 85, Reward: 42, Experience: 58},
	},
}
