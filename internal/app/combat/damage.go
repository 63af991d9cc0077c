package combat

import (
	"fmt"
	"math"
)

// Rand is the random source of a battle. *rand.Rand from math/rand/v2
// satisfies it; a seeded one makes a battle replayable.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

const (
	attackFactor     = 0.5
	speedEvasion     = 1000.0
	minHitChance     = 0.10
	maxHitChance     = 0.99
	defenseFactor    = 0.3
	minDamageShare   = 0.2
	defaultCritMulti = 2.0
)

// Hit is one resolved attack from the calculator.
type Hit struct {
	Damage int
	Missed bool
	Crit   bool
}

// Calculator runs the damage pipeline.
type Calculator struct {
	Rules *Ruleset
	Rand  Rand
}

func BaseDamage(w Weapon, attack float64) float64 {
	return w.BaseDamage + attackFactor*attack
}

func HitChance(accuracy, defenderSpeed float64) float64 {
	return clamp(accuracy-defenderSpeed/speedEvasion, minHitChance, maxHitChance)
}

// EffectiveDefense is armor plus the part of the shield the weapon does not
// bypass, reduced by the weapon's penetration.
func EffectiveDefense(def Stats, w Weapon) float64 {
	d := def.Defense + def.Shield*(1-w.ShieldBypass)
	d *= 1 - w.Penetration
	return math.Max(d, 0)
}

// Mitigate applies defense. At least 20% of the raw damage always lands.
func Mitigate(damage, defense float64) float64 {
	return math.Max(damage-defense*defenseFactor, damage*minDamageShare)
}

// SplashDamage is what every secondary target takes from a splash hit.
func SplashDamage(primary int, aoePercent float64) int {
	if primary <= 0 || aoePercent <= 0 {
		return 0
	}
	return int(math.Floor(float64(primary) * aoePercent))
}

// Resolve runs one attack through the pipeline. A miss returns zero damage
// with no modifiers applied.
func (c Calculator) Resolve(att, def *Combatant) (Hit, error) {
	w := att.Weapon
	dmg := BaseDamage(w, att.Stats.Attack)
	if w.Effect == EffectEnergy {
		dmg *= 0.5 + 0.5*att.hpRatio()
	}

	if c.Rand.Float64() >= HitChance(w.Accuracy, def.Stats.Speed) {
		return Hit{Missed: true}, nil
	}

	var hit Hit
	if w.CritChance > 0 && c.Rand.Float64() < w.CritChance {
		multi := w.CritMultiplier
		if multi <= 0 {
			multi = defaultCritMulti
		}
		dmg *= multi
		hit.Crit = true
	}

	dmg = Mitigate(dmg, EffectiveDefense(def.Stats, w))
	dmg *= c.Rules.Modifier(def.Class, w.Name)

	if math.IsNaN(dmg) || math.IsInf(dmg, 0) {
		return Hit{}, fmt.Errorf("%w: %s -> %s", ErrNumeric, att.ID, def.ID)
	}
	hit.Damage = max(0, int(math.Floor(dmg)))
	return hit, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
