package combat

import "fmt"

type Side int

const (
	SidePlayer Side = iota
	SideOpponent
)

func (s Side) String() string {
	if s == SidePlayer {
		return "player"
	}
	return "opponent"
}

func (s Side) other() Side {
	return 1 - s
}

// Combatant is the live, mutable state of a ship inside one battle.
type Combatant struct {
	ID         string
	OwnerID    int
	Name       string
	Class      ShipClass
	Tier       int
	Race       Race
	Side       Side
	Slot       int
	Stats      Stats
	MaxHP      int
	HP         int
	StartHP    int
	Weapon     Weapon
	Ability    Ability
	Experience int

	cooldown  int
	corrosion corrosion
	dealt     int
}

type corrosion struct {
	damage int
	turns  int
	source *Combatant
}

func (c *Combatant) Alive() bool {
	return c.HP > 0
}

func (c *Combatant) hpRatio() float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.HP) / float64(c.MaxHP)
}

// takeDamage lowers HP, floored at zero, and reports whether this hit killed.
func (c *Combatant) takeDamage(d int) bool {
	if d <= 0 || !c.Alive() {
		return false
	}
	c.HP = max(0, c.HP-d)
	return c.HP == 0
}

func (c *Combatant) heal(n int) {
	if n > 0 && c.Alive() {
		c.HP = min(c.MaxHP, c.HP+n)
	}
}

// NewCombatant validates a ship and prepares it for battle.
func (r *Ruleset) NewCombatant(s Ship, side Side, slot int) (*Combatant, error) {
	if s.ID == "" {
		return nil, fmt.Errorf("%w: ship in slot %d has no id", ErrInvalidShip, slot)
	}
	if s.CurrentHP < 0 {
		return nil, fmt.Errorf("%w: ship %s has negative hp", ErrInvalidShip, s.ID)
	}
	stats, err := r.ShipStats(s)
	if err != nil {
		return nil, err
	}
	race, _ := r.Race(s.Race)
	name := s.Weapon
	if name == "" {
		name = race.PrimaryWeapon
	}
	w, ok := r.Weapon(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q on ship %s", ErrUnknownWeapon, name, s.ID)
	}
	maxHP := MaxHP(stats)
	hp := min(s.CurrentHP, maxHP)
	return &Combatant{
		ID:         s.ID,
		OwnerID:    s.OwnerID,
		Name:       s.Name,
		Class:      s.Class,
		Tier:       s.Tier,
		Race:       s.Race,
		Side:       side,
		Slot:       slot,
		Stats:      stats,
		MaxHP:      maxHP,
		HP:         hp,
		StartHP:    hp,
		Weapon:     w,
		Ability:    race.Ability,
		Experience: s.Experience,
	}, nil
}
