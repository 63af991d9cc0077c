package combat

import "math"

const (
	BonusPerfect  = "perfect"
	BonusFast     = "fast"
	BonusFirstWin = "first_win_of_day"
)

// settle computes reward and experience from a finished battle.
func (e *Engine) settle(res *Result, sides [2][]*Combatant, ctx Context) {
	r := e.Rules
	res.PlayerPower = r.sidePower(sides[SidePlayer])
	res.OpponentPower = r.sidePower(sides[SideOpponent])

	winXP := 0
	for _, c := range sides[SideOpponent] {
		if c.StartHP > 0 {
			winXP += r.experienceValue(c)
		}
	}

	if res.Winner == WinnerPlayer {
		reward := res.PlayerPower / r.RewardDivisor
		if !lostAny(sides[SidePlayer]) {
			reward *= r.Bonuses.Perfect
			res.Bonuses = append(res.Bonuses, BonusPerfect)
		}
		if res.Rounds < r.Bonuses.FastRounds {
			reward *= r.Bonuses.Fast
			res.Bonuses = append(res.Bonuses, BonusFast)
		}
		if ctx.FirstWinOfDay {
			reward *= r.Bonuses.FirstWin
			res.Bonuses = append(res.Bonuses, BonusFirstWin)
		}
		res.Reward = nonNegative(reward)
		res.Experience = winXP
	} else {
		res.Experience = nonNegative(float64(winXP) * r.LossExperienceFraction)
	}

	res.ShipXP = splitExperience(res.Experience, sides[SidePlayer])
	for i := range res.Ships {
		res.Ships[i].Experience = res.ShipXP[res.Ships[i].ID]
	}
}

// experienceValue is what destroying c is worth: its template value if set,
// otherwise derived from its power.
func (r *Ruleset) experienceValue(c *Combatant) int {
	if c.Experience > 0 {
		return c.Experience
	}
	if r.ExperienceDivisor <= 0 {
		return 0
	}
	return nonNegative(r.Power(c.Stats) / r.ExperienceDivisor)
}

// sidePower sums the power of ships that entered the battle alive.
func (r *Ruleset) sidePower(ships []*Combatant) float64 {
	total := 0.0
	for _, c := range ships {
		if c.StartHP > 0 {
			total += r.Power(c.Stats)
		}
	}
	return total
}

// lostAny reports whether a ship that entered the battle alive was destroyed.
func lostAny(ships []*Combatant) bool {
	for _, c := range ships {
		if c.StartHP > 0 && !c.Alive() {
			return true
		}
	}
	return false
}

// splitExperience divides xp evenly across the ships that entered the battle
// alive; the remainder goes to the lowest slots.
func splitExperience(xp int, ships []*Combatant) map[string]int {
	out := make(map[string]int, len(ships))
	var crew []*Combatant
	for _, c := range ships {
		out[c.ID] = 0
		if c.StartHP > 0 {
			crew = append(crew, c)
		}
	}
	if len(crew) == 0 || xp <= 0 {
		return out
	}
	share, rest := xp/len(crew), xp%len(crew)
	for i, c := range crew {
		out[c.ID] = share
		if i < rest {
			out[c.ID]++
		}
	}
	return out
}

func nonNegative(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	return int(math.Floor(v))
}
