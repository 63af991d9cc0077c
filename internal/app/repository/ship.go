package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fleet_battle/internal/app/combat"
	"fleet_battle/internal/app/ds"
)

// dbTime приводит время к точности timestamptz в Postgres.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// regenerate applies lazy regeneration to s and reports whether anything worth
// persisting changed. When nothing did, LastUpdate is left alone so fractional
// progress keeps accumulating across frequent reads.
func (r *Repository) regenerate(s *ds.Ship, lastLogin, now time.Time) (bool, error) {
	cs := s.Combat()
	stats, err := r.rules.ShipStats(cs)
	if err != nil {
		return false, err
	}
	race, _ := r.rules.Race(cs.Race)
	st := combat.Regenerate(combat.RegenState{
		CurrentHP:    s.CurrentHP,
		MaxHP:        combat.MaxHP(stats),
		LastUpdate:   s.LastUpdate,
		LastLogin:    lastLogin,
		DecayCharged: s.DecayCharged,
	}, race, now)

	if st.CurrentHP == s.CurrentHP && st.DecayCharged == s.DecayCharged {
		return false, nil
	}
	s.CurrentHP = st.CurrentHP
	s.DecayCharged = st.DecayCharged
	s.LastUpdate = st.LastUpdate
	return true, nil
}

// regenerateTx persists regenerated HP. A row that moved on since it was read
// is skipped; the next read picks it up.
func (r *Repository) regenerateTx(tx *gorm.DB, ships []ds.Ship, lastLogin, now time.Time) error {
	for i := range ships {
		loaded := ships[i].LastUpdate
		changed, err := r.regenerate(&ships[i], lastLogin, now)
		if err != nil {
			return err
		}
		if !changed {
			continue
		}
		err = tx.Model(&ds.Ship{}).
			Where("ship_id = ? AND last_update = ?", ships[i].ShipID, loaded).
			Updates(map[string]interface{}{
				"current_hp":    ships[i].CurrentHP,
				"decay_charged": ships[i].DecayCharged,
				"last_update":   ships[i].LastUpdate,
			}).Error
		if err != nil {
			return classify(err)
		}
	}
	return nil
}

// RegenerateShips persists lazily regenerated HP for ships of one player.
func (r *Repository) RegenerateShips(ctx context.Context, ships []ds.Ship, lastLogin, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.regenerateTx(tx, ships, lastLogin, dbTime(now))
	})
}

// GetShips - список кораблей игрока с учётом регенерации
func (r *Repository) GetShips(ctx context.Context, playerID int, now time.Time) ([]ds.Ship, error) {
	player, err := r.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	var ships []ds.Ship
	err = r.db.WithContext(ctx).Preload("Modules").
		Where("player_id = ?", playerID).
		Order("ship_id").
		Find(&ships).Error
	if err != nil {
		return nil, err
	}
	if err := r.RegenerateShips(ctx, ships, player.LastLogin, now); err != nil {
		return nil, err
	}
	return ships, nil
}

func (r *Repository) GetShip(ctx context.Context, playerID, shipID int, now time.Time) (ds.Ship, error) {
	player, err := r.GetPlayerByID(ctx, playerID)
	if err != nil {
		return ds.Ship{}, err
	}
	ship := ds.Ship{}
	err = r.db.WithContext(ctx).Preload("Modules").
		Where("ship_id = ? AND player_id = ?", shipID, playerID).
		First(&ship).Error
	if err != nil {
		return ds.Ship{}, classify(err)
	}
	ships := []ds.Ship{ship}
	if err := r.RegenerateShips(ctx, ships, player.LastLogin, now); err != nil {
		return ds.Ship{}, err
	}
	return ships[0], nil
}

// BuildShip - новый корабль с полным HP. Пустая раса берётся у игрока.
func (r *Repository) BuildShip(ctx context.Context, playerID int, ship ds.Ship, now time.Time) (ds.Ship, error) {
	player, err := r.GetPlayerByID(ctx, playerID)
	if err != nil {
		return ds.Ship{}, err
	}
	ship.ShipID = 0
	ship.PlayerID = playerID
	ship.Experience = 0
	ship.DecayCharged = 0
	ship.Modules = nil
	if ship.Race == "" {
		ship.Race = player.Race
	}
	if ship.Tier == 0 {
		ship.Tier = combat.MinTier
	}

	// NewCombatant проверяет расу, класс, тир и оружие
	c, err := r.rules.NewCombatant(ship.Combat(), combat.SidePlayer, 0)
	if err != nil {
		return ds.Ship{}, err
	}
	ship.CurrentHP = c.MaxHP
	ship.LastUpdate = dbTime(now)

	if err := r.db.WithContext(ctx).Create(&ship).Error; err != nil {
		return ds.Ship{}, err
	}
	return ship, nil
}

// EquipModule installs a module and raises current HP by the max HP it adds.
func (r *Repository) EquipModule(ctx context.Context, playerID, shipID int, m combat.Module, now time.Time) (ds.Ship, error) {
	now = dbTime(now)
	var out ds.Ship
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var player ds.Player
		if err := tx.First(&player, playerID).Error; err != nil {
			return classify(err)
		}
		ship := ds.Ship{}
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Modules").
			Where("ship_id = ? AND player_id = ?", shipID, playerID).
			First(&ship).Error
		if err != nil {
			return classify(err)
		}
		// сначала регенерация, потом модуль
		if _, err := r.regenerate(&ship, player.LastLogin, now); err != nil {
			return err
		}

		cs := ship.Combat()
		if err := r.rules.Equip(&cs, m); err != nil {
			return err
		}
		if cs.CurrentHP != ship.CurrentHP {
			ship.LastUpdate = now
		}
		ship.CurrentHP = cs.CurrentHP

		mod := ds.ShipModule{ShipID: ship.ShipID, Type: string(m.Type), Tier: m.Tier}
		if err := tx.Create(&mod).Error; err != nil {
			return err
		}
		err = tx.Model(&ds.Ship{}).Where("ship_id = ?", ship.ShipID).Updates(map[string]interface{}{
			"current_hp":    ship.CurrentHP,
			"decay_charged": ship.DecayCharged,
			"last_update":   ship.LastUpdate,
		}).Error
		if err != nil {
			return err
		}
		ship.Modules = append(ship.Modules, mod)
		out = ship
		return nil
	})
	if err != nil {
		return ds.Ship{}, fmt.Errorf("equip ship %d: %w", shipID, err)
	}
	return out, nil
}
