package combat

import (
	"errors"
	"fmt"
)

type State string

const (
	StatePending State = "pending"
	StateActive  State = "active"
	StateSettled State = "settled"
)

type Winner string

const (
	WinnerPlayer   Winner = "player"
	WinnerOpponent Winner = "opponent"
	WinnerDraw     Winner = "draw"
)

type Mode string

const (
	ModePvE Mode = "pve"
	ModePvP Mode = "pvp"
)

type ActionKind string

const (
	ActionAttack    ActionKind = "attack"
	ActionSplash    ActionKind = "splash"
	ActionCorrosion ActionKind = "corrosion"
)

// Action is one line of the battle log.
type Action struct {
	Round       int         `json:"round"`
	Kind        ActionKind  `json:"kind"`
	AttackerID  string      `json:"attacker_id"`
	TargetID    string      `json:"target_id"`
	Damage      int         `json:"damage"`
	Crit        bool        `json:"crit,omitempty"`
	Missed      bool        `json:"missed,omitempty"`
	Kill        bool        `json:"kill,omitempty"`
	RemainingHP int         `json:"remaining_hp"`
	Ability     AbilityKind `json:"ability,omitempty"`
}

// Context carries per-battle inputs the engine does not own.
type Context struct {
	Mode Mode
	// FirstWinOfDay is tracked by the caller.
	FirstWinOfDay bool
	Rand          Rand
	// RoundCap lowers the ruleset cap when set; Tiebreak replaces the ruleset policy.
	RoundCap int
	Tiebreak Tiebreak
}

// ShipResult is the end-of-battle snapshot of one ship.
type ShipResult struct {
	ID          string    `json:"id"`
	OwnerID     int       `json:"owner_id"`
	Name        string    `json:"name,omitempty"`
	Class       ShipClass `json:"class"`
	Side        string    `json:"side"`
	Slot        int       `json:"slot"`
	MaxHP       int       `json:"max_hp"`
	StartHP     int       `json:"start_hp"`
	FinalHP     int       `json:"final_hp"`
	Destroyed   bool      `json:"destroyed"`
	DamageDealt int       `json:"damage_dealt"`
	Experience  int       `json:"experience"`
}

// Result is the settled outcome of one battle.
type Result struct {
	Mode          Mode           `json:"mode"`
	State         State          `json:"state"`
	Winner        Winner         `json:"winner"`
	Rounds        int            `json:"rounds"`
	CappedOut     bool           `json:"capped_out"`
	Log           []Action       `json:"log"`
	Ships         []ShipResult   `json:"ships"`
	FinalHP       map[string]int `json:"final_hp"`
	PlayerPower   float64        `json:"player_power"`
	OpponentPower float64        `json:"opponent_power"`
	Reward        int            `json:"reward"`
	Experience    int            `json:"experience"`
	ShipXP        map[string]int `json:"ship_experience"`
	Bonuses       []string       `json:"bonuses,omitempty"`
}

// Engine resolves battles under one ruleset. It holds no mutable state and
// is safe for concurrent use.
type Engine struct {
	Rules *Ruleset
}

func NewEngine(r *Ruleset) *Engine {
	return &Engine{Rules: r}
}

type battle struct {
	rules    *Ruleset
	calc     Calculator
	rng      Rand
	state    State
	round    int
	sides    [2][]*Combatant
	next     [2]int
	log      []Action
	tiebreak Tiebreak
	roundCap int
}

// ResolveBattle runs a battle to completion and settles it. Invalid fleets
// are rejected before the first round; no partial result is returned.
func (e *Engine) ResolveBattle(player, opponent Fleet, ctx Context) (*Result, error) {
	if ctx.Rand == nil {
		return nil, errors.New("combat: nil random source")
	}
	b := &battle{
		rules:    e.Rules,
		calc:     Calculator{Rules: e.Rules, Rand: ctx.Rand},
		rng:      ctx.Rand,
		state:    StatePending,
		roundCap: e.Rules.RoundCap,
		tiebreak: e.Rules.Tiebreak,
	}
	// the ruleset cap is a ceiling, an override may only shorten battles
	if ctx.RoundCap > 0 && ctx.RoundCap < b.roundCap {
		b.roundCap = ctx.RoundCap
	}
	if ctx.Tiebreak != "" {
		t, err := ParseTiebreak(string(ctx.Tiebreak))
		if err != nil {
			return nil, fmt.Errorf("combat: %w", err)
		}
		b.tiebreak = t
	}

	var err error
	if b.sides[SidePlayer], err = e.enlist(player, SidePlayer); err != nil {
		return nil, fmt.Errorf("player fleet: %w", err)
	}
	if b.sides[SideOpponent], err = e.enlist(opponent, SideOpponent); err != nil {
		return nil, fmt.Errorf("opponent fleet: %w", err)
	}

	winner, err := b.run()
	if err != nil {
		return nil, err
	}
	res := b.result(winner)
	res.Mode = ctx.Mode
	e.settle(res, b.sides, ctx)
	return res, nil
}

func (e *Engine) enlist(f Fleet, side Side) ([]*Combatant, error) {
	if len(f.Ships) == 0 {
		return nil, ErrEmptyFleet
	}
	out := make([]*Combatant, 0, len(f.Ships))
	alive := false
	for i, s := range f.Ships {
		c, err := e.Rules.NewCombatant(s, side, i)
		if err != nil {
			return nil, err
		}
		alive = alive || c.Alive()
		out = append(out, c)
	}
	if !alive {
		return nil, ErrFleetDestroyed
	}
	return out, nil
}

func (b *battle) run() (Winner, error) {
	b.state = StateActive
	for b.round = 1; b.round <= b.roundCap; b.round++ {
		b.tickCorrosion()
		if w, done := b.decided(); done {
			return w, nil
		}

		var actors [2]*Combatant
		actors[SidePlayer] = b.pick(SidePlayer)
		actors[SideOpponent] = b.pick(SideOpponent)

		for _, side := range initiative(actors) {
			a := actors[side]
			if a != nil && a.Alive() {
				if err := b.attack(a); err != nil {
					return "", err
				}
				a.cooldown = a.Weapon.Cooldown
			}
			if w, done := b.decided(); done {
				return w, nil
			}
		}
		b.coolDown(actors)
	}
	b.round = b.roundCap
	return b.tiebreaker(), nil
}

// initiative orders the two sides for a round. The faster active ship goes
// first; equal speed goes to the player. A side with nothing ready goes last.
func initiative(actors [2]*Combatant) [2]Side {
	p, o := actors[SidePlayer], actors[SideOpponent]
	if p == nil && o != nil {
		return [2]Side{SideOpponent, SidePlayer}
	}
	if p != nil && o != nil && o.Stats.Speed > p.Stats.Speed {
		return [2]Side{SideOpponent, SidePlayer}
	}
	return [2]Side{SidePlayer, SideOpponent}
}

// pick returns the next live, ready ship of a side in slot rotation, or nil
// if every live ship is still cooling down.
func (b *battle) pick(side Side) *Combatant {
	ships := b.sides[side]
	n := len(ships)
	for i := 0; i < n; i++ {
		idx := (b.next[side] + i) % n
		c := ships[idx]
		if c.Alive() && c.cooldown == 0 {
			b.next[side] = (idx + 1) % n
			return c
		}
	}
	return nil
}

func (b *battle) coolDown(actors [2]*Combatant) {
	for side, ships := range b.sides {
		for _, c := range ships {
			if c != actors[side] && c.cooldown > 0 {
				c.cooldown--
			}
		}
	}
}

func (b *battle) live(side Side) []*Combatant {
	var out []*Combatant
	for _, c := range b.sides[side] {
		if c.Alive() {
			out = append(out, c)
		}
	}
	return out
}

func (b *battle) randomTarget(side Side) *Combatant {
	targets := b.live(side)
	if len(targets) == 0 {
		return nil
	}
	return targets[b.rng.IntN(len(targets))]
}

func (b *battle) attack(a *Combatant) error {
	target := b.randomTarget(a.Side.other())
	if target == nil {
		return nil
	}
	if err := b.strike(a, target); err != nil {
		return err
	}
	if a.Ability.Kind == AbilityDoubleShot && a.Alive() && b.roll(a.Ability.Chance) {
		if second := b.randomTarget(a.Side.other()); second != nil {
			return b.strikeWith(a, second, AbilityDoubleShot)
		}
	}
	return nil
}

func (b *battle) strike(a, target *Combatant) error {
	return b.strikeWith(a, target, AbilityNone)
}

func (b *battle) strikeWith(a, target *Combatant, used AbilityKind) error {
	hit, err := b.calc.Resolve(a, target)
	if err != nil {
		return err
	}
	dmg := hit.Damage
	if !hit.Missed {
		if a.Ability.Kind == AbilityFrenzy && b.roll(a.Ability.Chance) {
			dmg = int(float64(dmg) * frenzyMultiplier(a.Ability))
			used = AbilityFrenzy
		}
		if target.Ability.Kind == AbilityPhaseShift && b.roll(target.Ability.Chance) {
			dmg = 0
			used = AbilityPhaseShift
		}
	}

	kill := target.takeDamage(dmg)
	a.dealt += dmg
	b.log = append(b.log, Action{
		Round:       b.round,
		Kind:        ActionAttack,
		AttackerID:  a.ID,
		TargetID:    target.ID,
		Damage:      dmg,
		Crit:        hit.Crit,
		Missed:      hit.Missed,
		Kill:        kill,
		RemainingHP: target.HP,
		Ability:     used,
	})
	if dmg <= 0 {
		return nil
	}

	if a.Weapon.Effect == EffectSplash {
		splash := SplashDamage(dmg, a.Weapon.AOEPercent)
		for _, other := range b.live(target.Side) {
			if other == target || splash <= 0 {
				continue
			}
			k := other.takeDamage(splash)
			a.dealt += splash
			b.log = append(b.log, Action{
				Round:       b.round,
				Kind:        ActionSplash,
				AttackerID:  a.ID,
				TargetID:    other.ID,
				Damage:      splash,
				Kill:        k,
				RemainingHP: other.HP,
			})
		}
	}
	if a.Weapon.Effect == EffectCorrosion && target.Alive() && a.Weapon.DotTurns > 0 {
		target.corrosion = corrosion{damage: a.Weapon.DotDamage, turns: a.Weapon.DotTurns, source: a}
	}
	if a.Ability.Kind == AbilityLeech && b.roll(a.Ability.Chance) {
		a.heal(int(float64(dmg) * a.Ability.Magnitude))
	}
	return nil
}

func frenzyMultiplier(ab Ability) float64 {
	if ab.Magnitude > 0 {
		return ab.Magnitude
	}
	return 3
}

// tickCorrosion applies damage-over-time at the start of a round.
func (b *battle) tickCorrosion() {
	for _, ships := range b.sides {
		for _, c := range ships {
			dot := &c.corrosion
			if dot.turns <= 0 || !c.Alive() {
				continue
			}
			dot.turns--
			kill := c.takeDamage(dot.damage)
			src := ""
			if dot.source != nil {
				dot.source.dealt += dot.damage
				src = dot.source.ID
			}
			b.log = append(b.log, Action{
				Round:       b.round,
				Kind:        ActionCorrosion,
				AttackerID:  src,
				TargetID:    c.ID,
				Damage:      dot.damage,
				Kill:        kill,
				RemainingHP: c.HP,
			})
		}
	}
}

func (b *battle) roll(chance float64) bool {
	return chance > 0 && b.rng.Float64() < chance
}

func (b *battle) decided() (Winner, bool) {
	p := len(b.live(SidePlayer)) > 0
	o := len(b.live(SideOpponent)) > 0
	switch {
	case p && o:
		return "", false
	case p:
		return WinnerPlayer, true
	case o:
		return WinnerOpponent, true
	default:
		return WinnerDraw, true
	}
}

func (b *battle) tiebreaker() Winner {
	var score [2]int
	for side, ships := range b.sides {
		for _, c := range ships {
			if b.tiebreak == TiebreakDamageDealt {
				score[side] += c.dealt
			} else {
				score[side] += c.HP
			}
		}
	}
	switch {
	case score[SidePlayer] > score[SideOpponent]:
		return WinnerPlayer
	case score[SideOpponent] > score[SidePlayer]:
		return WinnerOpponent
	default:
		return WinnerDraw
	}
}

func (b *battle) result(w Winner) *Result {
	b.state = StateSettled
	res := &Result{
		State:     b.state,
		Winner:    w,
		Rounds:    b.round,
		CappedOut: b.round >= b.roundCap && len(b.live(SidePlayer)) > 0 && len(b.live(SideOpponent)) > 0,
		Log:       b.log,
		FinalHP:   make(map[string]int),
	}
	for _, ships := range b.sides {
		for _, c := range ships {
			res.FinalHP[c.ID] = c.HP
			res.Ships = append(res.Ships, ShipResult{
				ID:          c.ID,
				OwnerID:     c.OwnerID,
				Name:        c.Name,
				Class:       c.Class,
				Side:        c.Side.String(),
				Slot:        c.Slot,
				MaxHP:       c.MaxHP,
				StartHP:     c.StartHP,
				FinalHP:     c.HP,
				Destroyed:   !c.Alive(),
				DamageDealt: c.dealt,
			})
		}
	}
	return res
}
