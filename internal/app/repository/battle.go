package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"

	"fleet_battle/internal/app/ds"
	"fleet_battle/internal/app/replay"
)

// SaveSettlement commits ship HP and experience, the player's credits and the
// battle row in one transaction. A ship whose last_update moved since the
// fleet was loaded fails the whole settlement with ErrStale.
func (r *Repository) SaveSettlement(ctx context.Context, s ds.Settlement) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range s.Ships {
			res := tx.Model(&ds.Ship{}).
				Where("ship_id = ? AND player_id = ? AND last_update = ?", u.ShipID, s.Battle.PlayerID, dbTime(u.LoadedUpdate)).
				Updates(map[string]interface{}{
					"current_hp":  u.CurrentHP,
					"experience":  gorm.Expr("experience + ?", u.ExperienceDelta),
					"last_update": dbTime(u.LastUpdate),
				})
			if res.Error != nil {
				return classify(res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: ship %d", ErrStale, u.ShipID)
			}
		}
		if s.Credits > 0 {
			err := tx.Model(&ds.Player{}).Where("player_id = ?", s.Battle.PlayerID).
				Update("credits", gorm.Expr("credits + ?", s.Credits)).Error
			if err != nil {
				return classify(err)
			}
		}
		return classify(tx.Create(&s.Battle).Error)
	})
	if err != nil {
		return fmt.Errorf("save settlement %s: %w", s.Battle.BattleID, err)
	}
	return nil
}

func (r *Repository) GetBattles(ctx context.Context, playerID, limit int) ([]ds.Battle, error) {
	var battles []ds.Battle
	err := r.db.WithContext(ctx).
		Omit("log").
		Where("player_id = ?", playerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&battles).Error
	return battles, err
}

func (r *Repository) GetBattle(ctx context.Context, playerID int, battleID string) (ds.Battle, error) {
	var b ds.Battle
	err := r.db.WithContext(ctx).
		Where("battle_id = ? AND player_id = ?", battleID, playerID).
		First(&b).Error
	if err != nil {
		return ds.Battle{}, classify(err)
	}
	return b, nil
}

func replayObjectName(battleID string) string {
	return "replays/" + battleID + ".json.lz4"
}

// ArchiveReplay uploads an encoded replay to MinIO and records the object name.
// Without a MinIO client it does nothing.
func (r *Repository) ArchiveReplay(ctx context.Context, battleID string, data []byte) error {
	if r.minio == nil {
		return nil
	}
	objectName := replayObjectName(battleID)
	_, err := r.minio.PutObject(ctx, r.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: replay.ContentType})
	if err != nil {
		return fmt.Errorf("upload replay: %w", err)
	}
	return r.db.WithContext(ctx).Model(&ds.Battle{}).
		Where("battle_id = ?", battleID).
		Update("replay_object", objectName).Error
}

func (r *Repository) GetReplay(ctx context.Context, objectName string) ([]byte, error) {
	if r.minio == nil || objectName == "" {
		return nil, ErrNotFound
	}
	obj, err := r.minio.GetObject(ctx, r.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get replay: %w", err)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read replay: %w", err)
	}
	return data, nil
}
