package combat

import (
	"fmt"
	"math"
)

// ResolveStats merges class base stats with tier, modules and race.
// Order: base × tier, then flat module bonuses, then race multipliers.
func (r *Ruleset) ResolveStats(base Stats, tier int, modules []Module, race RaceProfile) Stats {
	mult, ok := r.TierMultipliers[tier]
	if !ok {
		mult = 1.0
	}
	stats := base.Scale(mult)
	for _, m := range modules {
		stats = stats.Add(r.ModuleBonus(m))
	}
	return stats.Mul(race.Bonus)
}

// ShipStats validates a ship and returns its final combat stats.
func (r *Ruleset) ShipStats(s Ship) (Stats, error) {
	race, ok := r.Race(s.Race)
	if !ok {
		return Stats{}, fmt.Errorf("%w: ship %s has unknown race %q", ErrInvalidShip, s.ID, s.Race)
	}
	if s.Tier < MinTier || s.Tier > MaxTier {
		return Stats{}, fmt.Errorf("%w: ship %s has tier %d", ErrInvalidShip, s.ID, s.Tier)
	}
	base, ok := r.Classes[s.Class]
	if s.Base != nil {
		base, ok = *s.Base, true
	}
	if !ok {
		return Stats{}, fmt.Errorf("%w: ship %s has unknown class %q", ErrInvalidShip, s.ID, s.Class)
	}
	return r.ResolveStats(base, s.Tier, s.Modules, race), nil
}

// MaxHP is the integral max HP of a resolved stat set.
func MaxHP(s Stats) int {
	return int(math.Round(s.HP))
}

// Equip adds a module to the ship and raises current HP by whatever the
// module added to max HP, so the HP ratio never drops on upgrade.
func (r *Ruleset) Equip(s *Ship, m Module) error {
	before, err := r.ShipStats(*s)
	if err != nil {
		return err
	}
	s.Modules = append(s.Modules, m)
	after, err := r.ShipStats(*s)
	if err != nil {
		return err
	}
	if delta := MaxHP(after) - MaxHP(before); delta > 0 {
		s.CurrentHP += delta
	}
	if limit := MaxHP(after); s.CurrentHP > limit {
		s.CurrentHP = limit
	}
	return nil
}
