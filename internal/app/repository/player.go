package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fleet_battle/internal/app/combat"
	"fleet_battle/internal/app/ds"
	"fleet_battle/internal/app/utils"
)

// RolePlayer is the role every registered player gets.
const RolePlayer = "player"

// GetPlayerByLogin returns player by login
func (r *Repository) GetPlayerByLogin(ctx context.Context, login string) (*ds.Player, error) {
	player := &ds.Player{}
	err := r.db.WithContext(ctx).Where("login = ?", login).First(player).Error
	if err != nil {
		return nil, classify(err)
	}
	return player, nil
}

// GetPlayerByID - получить игрока по ID
func (r *Repository) GetPlayerByID(ctx context.Context, playerID int) (*ds.Player, error) {
	player := &ds.Player{}
	if err := r.db.WithContext(ctx).First(player, playerID).Error; err != nil {
		return nil, classify(err)
	}
	return player, nil
}

// RegisterPlayer checks uniqueness, hashes the password and creates the player.
func (r *Repository) RegisterPlayer(ctx context.Context, login, password, race string, now time.Time) (ds.Player, error) {
	if login == "" || password == "" {
		return ds.Player{}, fmt.Errorf("login and password are required")
	}
	if _, ok := r.rules.Race(combat.Race(race)); !ok {
		return ds.Player{}, fmt.Errorf("%w: %q", ErrUnknownRace, race)
	}
	// проверка существует ли уже
	if _, err := r.GetPlayerByLogin(ctx, login); err == nil {
		return ds.Player{}, ErrLoginTaken
	} else if !errors.Is(err, ErrNotFound) {
		return ds.Player{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ds.Player{}, fmt.Errorf("bcrypt generate error: %w", err)
	}
	player := ds.Player{
		Login:     login,
		Password:  string(hashed),
		Race:      race,
		Role:      RolePlayer,
		LastLogin: dbTime(now),
	}
	if err := r.db.WithContext(ctx).Create(&player).Error; err != nil {
		return ds.Player{}, classify(err)
	}
	// не отдаём пароль наружу
	player.Password = ""
	return player, nil
}

// Authenticate: возвращает игрока, если логин+пароль верны
func (r *Repository) Authenticate(ctx context.Context, login, password string) (*ds.Player, error) {
	player, err := r.GetPlayerByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(player.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	player.Password = ""
	return player, nil
}

// LoginPlayer checks credentials, settles decay owed for the absence, touches
// last login and stores a fresh JWT in redis.
func (r *Repository) LoginPlayer(ctx context.Context, login, password string, now time.Time) (string, *ds.Player, error) {
	player, err := r.Authenticate(ctx, login, password)
	if err != nil {
		return "", nil, err
	}
	now = dbTime(now)

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ships []ds.Ship
		if err := tx.Preload("Modules").Where("player_id = ?", player.PlayerID).Find(&ships).Error; err != nil {
			return err
		}
		// распад считается по старому last_login, затем счётчик сбрасывается
		if err := r.regenerateTx(tx, ships, player.LastLogin, now); err != nil {
			return err
		}
		if err := tx.Model(&ds.Ship{}).Where("player_id = ?", player.PlayerID).Update("decay_charged", 0).Error; err != nil {
			return err
		}
		return tx.Model(&ds.Player{}).Where("player_id = ?", player.PlayerID).Update("last_login", now).Error
	})
	if err != nil {
		return "", nil, fmt.Errorf("touch login: %w", err)
	}
	player.LastLogin = now

	token, err := utils.GenerateJWT(player.PlayerID, player.Role, r.jwtTTL)
	if err != nil {
		return "", nil, fmt.Errorf("jwt sign error: %w", err)
	}
	// Сохранить JWT в Redis: ключ "jwt:<playerID>" -> token
	if err := r.SaveJWTToken(ctx, player.PlayerID, token); err != nil {
		return "", nil, fmt.Errorf("save jwt token error: %w", err)
	}
	return token, player, nil
}

func (r *Repository) LogoutPlayer(ctx context.Context, playerID int) error {
	return r.DeleteJWTToken(ctx, playerID)
}
