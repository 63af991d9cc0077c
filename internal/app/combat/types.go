package combat

import "time"

type Race string

const (
	RaceTerran  Race = "terran"
	RaceZerg    Race = "zerg"
	RaceProtoss Race = "protoss"
	RaceXerj    Race = "xerj"
)

type ShipClass string

const (
	ClassFrigate    ShipClass = "frigate"
	ClassDestroyer  ShipClass = "destroyer"
	ClassCruiser    ShipClass = "cruiser"
	ClassBattleship ShipClass = "battleship"
	ClassDrone      ShipClass = "drone"
	ClassCarrier    ShipClass = "carrier"
)

// Effect is the special-effect tag of a weapon.
type Effect string

const (
	EffectEnergy           Effect = "energy"
	EffectSplash           Effect = "splash"
	EffectArmorPenetration Effect = "armor_penetration"
	EffectRapidFireCrit    Effect = "rapid_fire_critical"
	EffectVersatileShield  Effect = "versatile_shield"
	EffectCorrosion        Effect = "corrosion"
)

type AbilityKind string

const (
	AbilityNone       AbilityKind = ""
	AbilityDoubleShot AbilityKind = "double_shot"
	AbilityPhaseShift AbilityKind = "phase_shift"
	AbilityFrenzy     AbilityKind = "frenzy"
	AbilityLeech      AbilityKind = "leech"
)

type ModuleType string

const (
	ModuleArmorPlating      ModuleType = "armor_plating"
	ModuleShieldGenerator   ModuleType = "shield_generator"
	ModuleEngine            ModuleType = "engine"
	ModuleWeaponAmplifier   ModuleType = "weapon_amplifier"
	ModuleHullReinforcement ModuleType = "hull_reinforcement"
)

// Stats holds the five combat stats. It doubles as a multiplier set for race
// bonuses and as a weight set for fleet power.
type Stats struct {
	HP      float64 `json:"hp"`
	Attack  float64 `json:"attack"`
	Defense float64 `json:"defense"`
	Shield  float64 `json:"shield"`
	Speed   float64 `json:"speed"`
}

func (s Stats) Add(o Stats) Stats {
	return Stats{
		HP:      s.HP + o.HP,
		Attack:  s.Attack + o.Attack,
		Defense: s.Defense + o.Defense,
		Shield:  s.Shield + o.Shield,
		Speed:   s.Speed + o.Speed,
	}
}

// Mul multiplies component-wise.
func (s Stats) Mul(o Stats) Stats {
	return Stats{
		HP:      s.HP * o.HP,
		Attack:  s.Attack * o.Attack,
		Defense: s.Defense * o.Defense,
		Shield:  s.Shield * o.Shield,
		Speed:   s.Speed * o.Speed,
	}
}

func (s Stats) Scale(f float64) Stats {
	return s.Mul(Stats{HP: f, Attack: f, Defense: f, Shield: f, Speed: f})
}

// Dot is the weighted sum of s by w.
func (s Stats) Dot(w Stats) float64 {
	return s.HP*w.HP + s.Attack*w.Attack + s.Defense*w.Defense + s.Shield*w.Shield + s.Speed*w.Speed
}

type Module struct {
	Type ModuleType `json:"type"`
	Tier int        `json:"tier"`
}

type ModuleKey struct {
	Type ModuleType
	Tier int
}

// ModifierKey indexes the class effectiveness table.
type ModifierKey struct {
	Class  ShipClass
	Weapon string
}

type Weapon struct {
	Name           string  `json:"name"`
	BaseDamage     float64 `json:"base_damage"`
	Accuracy       float64 `json:"accuracy"`
	Cooldown       int     `json:"cooldown"`
	Effect         Effect  `json:"effect"`
	CritChance     float64 `json:"crit_chance,omitempty"`
	CritMultiplier float64 `json:"crit_multiplier,omitempty"`
	Penetration    float64 `json:"penetration,omitempty"`
	AOEPercent     float64 `json:"aoe_percent,omitempty"`
	ShieldBypass   float64 `json:"shield_bypass,omitempty"`
	DotDamage      int     `json:"dot_damage,omitempty"`
	DotTurns       int     `json:"dot_turns,omitempty"`
}

type Ability struct {
	Kind      AbilityKind `json:"kind"`
	Chance    float64     `json:"chance"`
	Magnitude float64     `json:"magnitude,omitempty"`
}

type RaceProfile struct {
	Race          Race          `json:"race"`
	Bonus         Stats         `json:"bonus"`
	PrimaryWeapon string        `json:"primary_weapon"`
	Ability       Ability       `json:"ability"`
	FullRegen     time.Duration `json:"full_regen"`
	DecayPerDay   int           `json:"decay_per_day,omitempty"`
}

// Ship is one combat unit as handed to the engine by the fleet loader.
// CurrentHP must already reflect regeneration.
type Ship struct {
	ID      string    `json:"id"`
	OwnerID int       `json:"owner_id"`
	Name    string    `json:"name"`
	Class   ShipClass `json:"class"`
	Tier    int       `json:"tier"`
	Race    Race      `json:"race"`
	// Weapon overrides the race primary weapon when set.
	Weapon    string   `json:"weapon,omitempty"`
	Modules   []Module `json:"modules,omitempty"`
	CurrentHP int      `json:"current_hp"`
	// Base replaces the class table entry; synthetic opponents use it.
	Base *Stats `json:"base,omitempty"`
	// Experience granted to whoever destroys this ship. Zero derives it from power.
	Experience int `json:"experience,omitempty"`
}

// Fleet is an ordered slot list. Slot order drives the firing rotation.
type Fleet struct {
	OwnerID int    `json:"owner_id"`
	Ships   []Ship `json:"ships"`
}
