package combat

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// RegenState is the persisted slice of a ship needed to derive its current HP.
type RegenState struct {
	CurrentHP  int       `json:"current_hp"`
	MaxHP      int       `json:"max_hp"`
	LastUpdate time.Time `json:"last_update"`
	// LastLogin of the owner; zero disables decay.
	LastLogin time.Time `json:"last_login"`
	// DecayCharged counts the missed days already subtracted since LastLogin.
	DecayCharged int `json:"decay_charged"`
}

// Regenerate derives current HP at now. Regeneration is applied first and
// login decay second, both against the same now. The result carries
// LastUpdate = now; calling it again with the same now is a no-op.
func Regenerate(s RegenState, race RaceProfile, now time.Time) RegenState {
	out := s
	if out.CurrentHP < 0 {
		out.CurrentHP = 0
	}
	if out.CurrentHP > out.MaxHP {
		out.CurrentHP = out.MaxHP
	}

	elapsed := now.Sub(s.LastUpdate)
	if elapsed < 0 || s.LastUpdate.IsZero() {
		elapsed = 0
	}
	missing := out.MaxHP - out.CurrentHP
	if missing > 0 && elapsed > 0 {
		restore := int(math.Floor(float64(missing) * elapsed.Seconds() / race.FullRegenDuration().Seconds()))
		out.CurrentHP = min(out.MaxHP, out.CurrentHP+restore)
	}

	if race.DecayPerDay > 0 && !s.LastLogin.IsZero() {
		days := int(now.Sub(s.LastLogin) / day)
		if due := days - 1 - s.DecayCharged; due > 0 {
			out.CurrentHP = max(0, out.CurrentHP-race.DecayPerDay*due)
			out.DecayCharged += due
		}
	}

	if now.After(s.LastUpdate) {
		out.LastUpdate = now
	}
	return out
}
