package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fleet_battle/internal/app/ds"
)

// SlotPrice is the credit cost per existing slot of buying one more.
const SlotPrice = 250

func orderSlots(db *gorm.DB) *gorm.DB {
	return db.Order("slot")
}

// GetFormations - формации игрока со слотами и кораблями
func (r *Repository) GetFormations(ctx context.Context, playerID int) ([]ds.Formation, error) {
	var formations []ds.Formation
	err := r.db.WithContext(ctx).
		Preload("Slots", orderSlots).
		Preload("Slots.Ship.Modules").
		Where("player_id = ?", playerID).
		Order("formation_id").
		Find(&formations).Error
	return formations, err
}

func (r *Repository) GetFormation(ctx context.Context, playerID, formationID int) (ds.Formation, error) {
	var f ds.Formation
	err := r.db.WithContext(ctx).
		Preload("Slots", orderSlots).
		Preload("Slots.Ship.Modules").
		Where("formation_id = ? AND player_id = ?", formationID, playerID).
		First(&f).Error
	if err != nil {
		return ds.Formation{}, classify(err)
	}
	return f, nil
}

func (r *Repository) CreateFormation(ctx context.Context, playerID int, name string) (ds.Formation, error) {
	f := ds.Formation{PlayerID: playerID, Name: name, Capacity: ds.MinFormationSlots}
	if err := r.db.WithContext(ctx).Create(&f).Error; err != nil {
		return ds.Formation{}, err
	}
	return f, nil
}

// AssignSlot puts a ship into a slot. A ship already placed elsewhere is moved;
// the unique index on ship_id rejects concurrent double placement.
func (r *Repository) AssignSlot(ctx context.Context, playerID, formationID, slot, shipID int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var f ds.Formation
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("formation_id = ? AND player_id = ?", formationID, playerID).
			First(&f).Error
		if err != nil {
			return classify(err)
		}
		if slot < 0 || slot >= f.Capacity {
			return fmt.Errorf("%w: %d not in [0, %d)", ErrBadSlot, slot, f.Capacity)
		}
		var ship ds.Ship
		if err := tx.Where("ship_id = ? AND player_id = ?", shipID, playerID).First(&ship).Error; err != nil {
			return classify(err)
		}

		// убираем корабль из прежнего слота
		if err := tx.Where("ship_id = ?", shipID).Delete(&ds.FormationSlot{}).Error; err != nil {
			return err
		}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "formation_id"}, {Name: "slot"}},
			DoUpdates: clause.AssignmentColumns([]string{"ship_id"}),
		}).Create(&ds.FormationSlot{FormationID: formationID, Slot: slot, ShipID: shipID}).Error
		return classify(err)
	})
}

func (r *Repository) ClearSlot(ctx context.Context, playerID, formationID, slot int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var f ds.Formation
		if err := tx.Where("formation_id = ? AND player_id = ?", formationID, playerID).First(&f).Error; err != nil {
			return classify(err)
		}
		return tx.Where("formation_id = ? AND slot = ?", formationID, slot).Delete(&ds.FormationSlot{}).Error
	})
}

// ExpandFormation buys one more slot, up to MaxFormationSlots.
func (r *Repository) ExpandFormation(ctx context.Context, playerID, formationID int) (ds.Formation, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var player ds.Player
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&player, playerID).Error; err != nil {
			return classify(err)
		}
		var f ds.Formation
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("formation_id = ? AND player_id = ?", formationID, playerID).
			First(&f).Error
		if err != nil {
			return classify(err)
		}
		if f.Capacity >= ds.MaxFormationSlots {
			return ErrFormationFull
		}
		price := SlotPrice * f.Capacity
		if player.Credits < price {
			return fmt.Errorf("%w: need %d, have %d", ErrNotEnoughCredits, price, player.Credits)
		}
		if err := tx.Model(&ds.Player{}).Where("player_id = ?", playerID).
			Update("credits", gorm.Expr("credits - ?", price)).Error; err != nil {
			return err
		}
		return tx.Model(&ds.Formation{}).Where("formation_id = ?", formationID).
			Update("capacity", gorm.Expr("capacity + 1")).Error
	})
	if err != nil {
		return ds.Formation{}, err
	}
	return r.GetFormation(ctx, playerID, formationID)
}

// LoadFleet reads a formation for battle. Ship rows are locked for the read
// and regenerated HP is persisted before the fleet is returned, so the
// returned LastUpdate values are what SaveSettlement checks against.
func (r *Repository) LoadFleet(ctx context.Context, playerID, formationID int, now time.Time) (*ds.Player, *ds.Formation, error) {
	now = dbTime(now)
	var (
		player ds.Player
		f      ds.Formation
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&player, playerID).Error; err != nil {
			return classify(err)
		}
		err := tx.Preload("Slots", orderSlots).
			Where("formation_id = ? AND player_id = ?", formationID, playerID).
			First(&f).Error
		if err != nil {
			return classify(err)
		}
		if len(f.Slots) == 0 {
			return nil
		}

		ids := make([]int, len(f.Slots))
		for i, s := range f.Slots {
			ids[i] = s.ShipID
		}
		var ships []ds.Ship
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Modules").
			Where("ship_id IN ? AND player_id = ?", ids, playerID).
			Order("ship_id").
			Find(&ships).Error
		if err != nil {
			return classify(err)
		}
		if err := r.regenerateTx(tx, ships, player.LastLogin, now); err != nil {
			return err
		}

		byID := make(map[int]ds.Ship, len(ships))
		for _, s := range ships {
			byID[s.ShipID] = s
		}
		slots := f.Slots[:0]
		for _, s := range f.Slots {
			if ship, ok := byID[s.ShipID]; ok {
				s.Ship = ship
				slots = append(slots, s)
			}
		}
		f.Slots = slots
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	player.Password = ""
	return &player, &f, nil
}

// LoadOpponent returns a snapshot of another player's first non-empty
// formation with regeneration applied in memory only. Opponent rows are
// never written by a battle.
func (r *Repository) LoadOpponent(ctx context.Context, opponentID int, now time.Time) (*ds.Player, *ds.Formation, error) {
	player, err := r.GetPlayerByID(ctx, opponentID)
	if err != nil {
		return nil, nil, err
	}
	formations, err := r.GetFormations(ctx, opponentID)
	if err != nil {
		return nil, nil, err
	}
	for i := range formations {
		f := &formations[i]
		if len(f.Slots) == 0 {
			continue
		}
		for j := range f.Slots {
			if _, err := r.regenerate(&f.Slots[j].Ship, player.LastLogin, dbTime(now)); err != nil {
				return nil, nil, err
			}
		}
		player.Password = ""
		return player, f, nil
	}
	return nil, nil, fmt.Errorf("%w: player %d has no formation", ErrNotFound, opponentID)
}
