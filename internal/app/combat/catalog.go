package combat

import "time"

const (
	MinTier = 1
	MaxTier = 3
)

const (
	RulesetCosmicFleet    = "cosmic_fleet"
	RulesetGalacticEmpire = "galactic_empire"
)

var (
	CosmicFleet    = register(cosmicFleet())
	GalacticEmpire = register(galacticEmpire())
)

func cosmicFleet() *Ruleset {
	return &Ruleset{
		Name: RulesetCosmicFleet,
		Races: map[Race]RaceProfile{
			RaceTerran: {
				Race:          RaceTerran,
				Bonus:         Stats{HP: 1, Attack: 1, Defense: 1.2, Shield: 0.9, Speed: 1},
				PrimaryWeapon: "railgun",
				Ability:       Ability{Kind: AbilityDoubleShot, Chance: 0.10},
			},
			RaceProtoss: {
				Race:          RaceProtoss,
				Bonus:         Stats{HP: 1, Attack: 1, Defense: 0.9, Shield: 1.2, Speed: 1},
				PrimaryWeapon: "ion_cannon",
				Ability:       Ability{Kind: AbilityPhaseShift, Chance: 0.10},
			},
			RaceZerg: {
				Race:          RaceZerg,
				Bonus:         Stats{HP: 1.1, Attack: 1, Defense: 1, Shield: 1, Speed: 1},
				PrimaryWeapon: "acid_spitter",
				Ability:       Ability{Kind: AbilityFrenzy, Chance: 0.05, Magnitude: 3},
				FullRegen:     3 * time.Hour,
				DecayPerDay:   10,
			},
			RaceXerj: {
				Race:          RaceXerj,
				Bonus:         Stats{HP: 1, Attack: 1.1, Defense: 0.95, Shield: 1, Speed: 1},
				PrimaryWeapon: "plasma_torpedo",
				Ability:       Ability{Kind: AbilityLeech, Chance: 0.15, Magnitude: 0.2},
			},
		},
		Classes: map[ShipClass]Stats{
			ClassFrigate:    {HP: 300, Attack: 60, Defense: 30, Shield: 20, Speed: 120},
			ClassDestroyer:  {HP: 450, Attack: 80, Defense: 50, Shield: 30, Speed: 100},
			ClassCruiser:    {HP: 700, Attack: 100, Defense: 80, Shield: 50, Speed: 80},
			ClassBattleship: {HP: 1100, Attack: 140, Defense: 120, Shield: 80, Speed: 50},
			ClassDrone:      {HP: 150, Attack: 40, Defense: 10, Shield: 10, Speed: 160},
			ClassCarrier:    {HP: 900, Attack: 70, Defense: 90, Shield: 100, Speed: 60},
		},
		TierMultipliers: map[int]float64{1: 1.0, 2: 1.25, 3: 1.5},
		Weapons: map[string]Weapon{
			"laser": {
				Name: "laser", BaseDamage: 40, Accuracy: 0.90, Effect: EffectEnergy,
			},
			"plasma_torpedo": {
				Name: "plasma_torpedo", BaseDamage: 55, Accuracy: 0.80, Cooldown: 1,
				Effect: EffectSplash, AOEPercent: 0.3,
			},
			"railgun": {
				Name: "railgun", BaseDamage: 50, Accuracy: 0.85, Effect: EffectArmorPenetration,
				Penetration: 0.4,
			},
			"gatling": {
				Name: "gatling", BaseDamage: 30, Accuracy: 0.95, Effect: EffectRapidFireCrit,
				CritChance: 0.25, CritMultiplier: 2,
			},
			"ion_cannon": {
				Name: "ion_cannon", BaseDamage: 45, Accuracy: 0.95, Effect: EffectVersatileShield,
				ShieldBypass: 0.5,
			},
			"acid_spitter": {
				Name: "acid_spitter", BaseDamage: 35, Accuracy: 0.90, Effect: EffectCorrosion,
				DotDamage: 8, DotTurns: 3,
			},
		},
		Modules: map[ModuleKey]Stats{
			{ModuleArmorPlating, 1}: {Defense: 10},
			{ModuleArmorPlating, 2}: {Defense: 20},
			{ModuleArmorPlating, 3}: {Defense: 35},

			{ModuleShieldGenerator, 1}: {Shield: 10, HP: 20},
			{ModuleShieldGenerator, 2}: {Shield: 20, HP: 40},
			{ModuleShieldGenerator, 3}: {Shield: 35, HP: 70},

			{ModuleEngine, 1}: {Speed: 10},
			{ModuleEngine, 2}: {Speed: 20},
			{ModuleEngine, 3}: {Speed: 30},

			{ModuleWeaponAmplifier, 1}: {Attack: 10},
			{ModuleWeaponAmplifier, 2}: {Attack: 20},
			{ModuleWeaponAmplifier, 3}: {Attack: 35},

			{ModuleHullReinforcement, 1}: {HP: 50},
			{ModuleHullReinforcement, 2}: {HP: 100},
			{ModuleHullReinforcement, 3}: {HP: 175},
		},
		// Torpedoes punish big hulls, small hulls slip them.
		Modifiers: map[ModifierKey]float64{
			{ClassBattleship, "plasma_torpedo"}: 1.3,
			{ClassCarrier, "plasma_torpedo"}:    1.25,
			{ClassCruiser, "plasma_torpedo"}:    1.2,
			{ClassFrigate, "plasma_torpedo"}:    0.8,
			{ClassDrone, "plasma_torpedo"}:      0.7,

			{ClassDrone, "gatling"}:      1.3,
			{ClassFrigate, "gatling"}:    1.2,
			{ClassBattleship, "gatling"}: 0.8,

			{ClassBattleship, "railgun"}: 1.2,
			{ClassCruiser, "railgun"}:    1.15,
			{ClassDrone, "railgun"}:      0.9,

			{ClassDrone, "laser"}: 1.1,

			{ClassCarrier, "ion_cannon"}: 1.2,
		},
		PowerWeights:      Stats{HP: 1, Attack: 3, Defense: 1.5, Shield: 1.5, Speed: 0.5},
		RewardDivisor:     10,
		ExperienceDivisor: 20,
		Bonuses: RewardBonuses{
			Perfect:    1.5,
			Fast:       1.2,
			FastRounds: 3,
			FirstWin:   2,
		},
		LossExperienceFraction: 0.3,
		RoundCap:               50,
		Tiebreak:               TiebreakRemainingHP,
	}
}

// galacticEmpire shares the algorithm and catalog shape with Cosmic Fleet but
// rebalances weapons and rewards.
func galacticEmpire() *Ruleset {
	r := cosmicFleet()
	r.Name = RulesetGalacticEmpire

	r.Classes[ClassFrigate] = Stats{HP: 320, Attack: 55, Defense: 35, Shield: 25, Speed: 115}
	r.Classes[ClassBattleship] = Stats{HP: 1200, Attack: 150, Defense: 110, Shield: 90, Speed: 45}

	laser := r.Weapons["laser"]
	laser.BaseDamage = 45
	r.Weapons["laser"] = laser

	gatling := r.Weapons["gatling"]
	gatling.CritChance = 0.2
	gatling.CritMultiplier = 2.5
	r.Weapons["gatling"] = gatling

	torpedo := r.Weapons["plasma_torpedo"]
	torpedo.AOEPercent = 0.25
	r.Weapons["plasma_torpedo"] = torpedo

	r.PowerWeights = Stats{HP: 0.8, Attack: 2.5, Defense: 1.2, Shield: 1.2, Speed: 0.6}
	r.ExperienceDivisor = 25
	r.Tiebreak = TiebreakDamageDealt
	return r
}
