package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fleet_battle/internal/app/combat"
	"fleet_battle/internal/app/config"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrStale              = errors.New("fleet state changed by another battle")
	ErrFleetBusy          = errors.New("fleet is already in a battle")
	ErrLoginTaken         = errors.New("login already taken")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrSlotTaken          = errors.New("ship already occupies a slot")
	ErrBadSlot            = errors.New("slot out of range")
	ErrFormationFull      = errors.New("formation is at maximum capacity")
	ErrNotEnoughCredits   = errors.New("not enough credits")
	ErrUnknownRace        = errors.New("unknown race")
)

type Repository struct {
	db     *gorm.DB
	redis  *redis.Client
	minio  *minio.Client
	bucket string
	rules  *combat.Ruleset

	jwtTTL       time.Duration
	fleetLockTTL time.Duration
}

func New(dsn string, conf *config.Config, rules *combat.Ruleset) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	rdb, err := NewRedisClient(conf.RedisEndpoint, conf.RedisPassword)
	if err != nil {
		return nil, err
	}

	r := &Repository{
		db:           db,
		redis:        rdb,
		rules:        rules,
		jwtTTL:       conf.JwtTTL,
		fleetLockTTL: conf.FleetLockTTL,
		bucket:       conf.Minio.Bucket,
	}
	if conf.Minio.Endpoint != "" {
		if r.minio, err = newMinioClient(conf.Minio); err != nil {
			return nil, err
		}
	} else {
		logrus.Warn("minio endpoint not set, replays will not be archived")
	}
	return r, nil
}

func newMinioClient(conf config.MinioConfig) (*minio.Client, error) {
	mc, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := mc.BucketExists(ctx, conf.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, conf.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
		logrus.Infof("created minio bucket %s", conf.Bucket)
	}
	return mc, nil
}

// Close releases the postgres pool and the redis client.
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return errors.Join(r.redis.Close(), sqlDB.Close())
}

// Unique indexes named in the ds models.
const (
	slotShipIndex = "idx_formation_slots_ship_id"
	loginIndex    = "idx_players_login"
)

// classify maps driver errors onto repository sentinels. Unique violations
// are only translated for the indexes above; anything else stays internal.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03": // serialization_failure, deadlock_detected, lock_not_available
			return fmt.Errorf("%w: %v", ErrStale, err)
		case "23505": // unique_violation
			switch pgErr.ConstraintName {
			case slotShipIndex:
				return fmt.Errorf("%w: %v", ErrSlotTaken, err)
			case loginIndex:
				return fmt.Errorf("%w: %v", ErrLoginTaken, err)
			}
		}
	}
	return err
}
