package combat

import (
	"fmt"
	"time"
)

// DefaultFullRegen is how long an idle ship takes to close its whole HP gap.
const DefaultFullRegen = 6 * time.Hour

// Tiebreak decides a battle that hits the round cap.
type Tiebreak string

const (
	TiebreakRemainingHP Tiebreak = "remaining_hp"
	TiebreakDamageDealt Tiebreak = "damage_dealt"
)

// ParseTiebreak accepts a known policy name. Empty means "use the ruleset's".
func ParseTiebreak(name string) (Tiebreak, error) {
	switch t := Tiebreak(name); t {
	case "", TiebreakRemainingHP, TiebreakDamageDealt:
		return t, nil
	}
	return "", fmt.Errorf("unknown tiebreak %q", name)
}

// RewardBonuses are the independent multipliers applied to a won battle.
type RewardBonuses struct {
	Perfect    float64 `json:"perfect"`
	Fast       float64 `json:"fast"`
	FastRounds int     `json:"fast_rounds"`
	FirstWin   float64 `json:"first_win"`
}

// Ruleset is one game variant's full set of combat tables. Rulesets are built
// once at package init and must be treated as read-only.
type Ruleset struct {
	Name            string                  `json:"name"`
	Races           map[Race]RaceProfile    `json:"races"`
	Classes         map[ShipClass]Stats     `json:"classes"`
	TierMultipliers map[int]float64         `json:"tier_multipliers"`
	Weapons         map[string]Weapon       `json:"weapons"`
	Modules         map[ModuleKey]Stats     `json:"-"`
	Modifiers       map[ModifierKey]float64 `json:"-"`

	PowerWeights           Stats         `json:"power_weights"`
	RewardDivisor          float64       `json:"reward_divisor"`
	ExperienceDivisor      float64       `json:"experience_divisor"`
	Bonuses                RewardBonuses `json:"bonuses"`
	LossExperienceFraction float64       `json:"loss_experience_fraction"`
	RoundCap               int           `json:"round_cap"`
	Tiebreak               Tiebreak      `json:"tiebreak"`
}

func (r *Ruleset) Race(race Race) (RaceProfile, bool) {
	p, ok := r.Races[race]
	return p, ok
}

func (r *Ruleset) Weapon(name string) (Weapon, bool) {
	w, ok := r.Weapons[name]
	return w, ok
}

// ModuleBonus returns the flat bonus of a module. Unknown type/tier pairs
// contribute nothing.
func (r *Ruleset) ModuleBonus(m Module) Stats {
	return r.Modules[ModuleKey{Type: m.Type, Tier: m.Tier}]
}

// Modifier returns the class effectiveness multiplier, 1.0 when absent.
func (r *Ruleset) Modifier(class ShipClass, weapon string) float64 {
	if m, ok := r.Modifiers[ModifierKey{Class: class, Weapon: weapon}]; ok {
		return m
	}
	return 1.0
}

// FullRegenDuration returns the race regeneration duration.
func (p RaceProfile) FullRegenDuration() time.Duration {
	if p.FullRegen > 0 {
		return p.FullRegen
	}
	return DefaultFullRegen
}

// Power is the weighted sum used for rewards and opponent scaling.
func (r *Ruleset) Power(s Stats) float64 {
	return s.Dot(r.PowerWeights)
}

// FleetPower sums the resolved power of every ship in the fleet.
func (r *Ruleset) FleetPower(f Fleet) (float64, error) {
	total := 0.0
	for _, ship := range f.Ships {
		stats, err := r.ShipStats(ship)
		if err != nil {
			return 0, err
		}
		total += r.Power(stats)
	}
	return total, nil
}

// ModuleEntry is the flattened form of the module table for API output.
type ModuleEntry struct {
	Type  ModuleType `json:"type"`
	Tier  int        `json:"tier"`
	Bonus Stats      `json:"bonus"`
}

func (r *Ruleset) ModuleEntries() []ModuleEntry {
	var out []ModuleEntry
	for _, t := range moduleOrder {
		for tier := 1; tier <= MaxTier; tier++ {
			if b, ok := r.Modules[ModuleKey{Type: t, Tier: tier}]; ok {
				out = append(out, ModuleEntry{Type: t, Tier: tier, Bonus: b})
			}
		}
	}
	return out
}

var moduleOrder = []ModuleType{
	ModuleArmorPlating,
	ModuleShieldGenerator,
	ModuleEngine,
	ModuleWeaponAmplifier,
	ModuleHullReinforcement,
}

var rulesets = map[string]*Ruleset{}

func register(r *Ruleset) *Ruleset {
	rulesets[r.Name] = r
	return r
}

// Lookup returns a registered ruleset by name.
func Lookup(name string) (*Ruleset, error) {
	r, ok := rulesets[name]
	if !ok {
		return nil, fmt.Errorf("unknown ruleset %q", name)
	}
	return r, nil
}
