package bots

import (
	"fmt"
	"math"

	"fleet_battle/internal/app/combat"
)

// DefaultVariance is the half-width of the power roll around the player's power.
const DefaultVariance = 0.05

// Encounter is a generated PvE opponent.
type Encounter struct {
	Tier        int
	Fleet       combat.Fleet
	TargetPower float64
	// Bounty is the summed template reward, paid only on a win.
	Bounty int
}

// Provider builds synthetic opponents for PvE battles.
type Provider struct {
	Rules    *combat.Ruleset
	Catalog  map[int][]Template
	Variance float64
}

func NewProvider(r *combat.Ruleset) *Provider {
	return &Provider{Rules: r, Catalog: Catalog, Variance: DefaultVariance}
}

// Generate returns a fleet of the same size as player whose aggregate power
// equals the player's power times a uniform roll in [1-Variance, 1+Variance].
func (p *Provider) Generate(player combat.Fleet, rng combat.Rand) (*Encounter, error) {
	if len(player.Ships) == 0 {
		return nil, combat.ErrEmptyFleet
	}
	power, err := p.Rules.FleetPower(player)
	if err != nil {
		return nil, fmt.Errorf("player fleet: %w", err)
	}

	tier := averageTier(player.Ships)
	templates := p.Catalog[tier]
	if len(templates) == 0 {
		return nil, fmt.Errorf("no bot templates for tier %d", tier)
	}

	enc := &Encounter{Tier: tier}
	ships := make([]combat.Ship, len(player.Ships))
	raw := 0.0
	for i := range ships {
		t := templates[rng.IntN(len(templates))]
		base := t.base()
		ships[i] = combat.Ship{
			ID:         fmt.Sprintf("bot-%d", i+1),
			Name:       t.Name,
			Class:      t.Class,
			Tier:       tier,
			Race:       t.Race,
			Weapon:     t.Weapon,
			Base:       &base,
			Experience: t.Experience,
		}
		stats, err := p.Rules.ShipStats(ships[i])
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", t.Name, err)
		}
		raw += p.Rules.Power(stats)
		enc.Bounty += t.Reward
	}
	if raw <= 0 {
		return nil, fmt.Errorf("bot templates for tier %d have no power", tier)
	}

	roll := 1 - p.Variance + 2*p.Variance*rng.Float64()
	enc.TargetPower = power * roll
	k := enc.TargetPower / raw

	// Stats resolve linearly from the base, so scaling every base by k
	// scales fleet power by k.
	for i := range ships {
		scaled := ships[i].Base.Scale(k)
		ships[i].Base = &scaled
		stats, err := p.Rules.ShipStats(ships[i])
		if err != nil {
			return nil, err
		}
		ships[i].CurrentHP = combat.MaxHP(stats)
	}
	enc.Fleet = combat.Fleet{Ships: ships}
	return enc, nil
}

func averageTier(ships []combat.Ship) int {
	sum := 0
	for _, s := range ships {
		sum += s.Tier
	}
	t := int(math.Round(float64(sum) / float64(len(ships))))
	return min(max(t, combat.MinTier), combat.MaxTier)
}
