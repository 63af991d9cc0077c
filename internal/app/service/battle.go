package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"fleet_battle/internal/app/bots"
	"fleet_battle/internal/app/combat"
	"fleet_battle/internal/app/config"
	"fleet_battle/internal/app/ds"
	"fleet_battle/internal/app/replay"
	"fleet_battle/internal/app/repository"
)

// botStream separates the opponent generator's PCG stream from the engine's.
const botStream = 0x9e3779b97f4a7c15

var (
	// ErrRetry means the battle lost a race with another one on the same fleet.
	// Nothing was written; the caller may try again.
	ErrRetry     = errors.New("fleet is busy, retry")
	ErrSelfMatch = errors.New("cannot fight your own fleet")
)

// Store is the persistence the battle flow needs.
type Store interface {
	AcquireFleetLock(ctx context.Context, formationID int) (string, error)
	ReleaseFleetLock(ctx context.Context, formationID int, token string) error
	LoadFleet(ctx context.Context, playerID, formationID int, now time.Time) (*ds.Player, *ds.Formation, error)
	LoadOpponent(ctx context.Context, opponentID int, now time.Time) (*ds.Player, *ds.Formation, error)
	IsFirstWinOfDay(ctx context.Context, playerID int, now time.Time) (bool, error)
	MarkWinOfDay(ctx context.Context, playerID int, now time.Time) error
	SaveSettlement(ctx context.Context, s ds.Settlement) error
	ArchiveReplay(ctx context.Context, battleID string, data []byte) error
}

// Outcome is what a fight returns to the caller.
type Outcome struct {
	BattleID string         `json:"battle_id"`
	Result   *combat.Result `json:"result"`
	Bounty   int            `json:"bounty,omitempty"`
	Credits  int            `json:"credits"`
	Checksum string         `json:"checksum"`
}

type BattleService struct {
	store    Store
	rules    *combat.Ruleset
	engine   *combat.Engine
	bots     *bots.Provider
	roundCap int
	tiebreak combat.Tiebreak

	Now     func() time.Time
	NewSeed func() [2]uint64
	NewID   func() string
}

func New(store Store, rules *combat.Ruleset, conf config.CombatConfig) *BattleService {
	provider := bots.NewProvider(rules)
	if conf.Variance > 0 {
		provider.Variance = conf.Variance
	}
	return &BattleService{
		store:    store,
		rules:    rules,
		engine:   combat.NewEngine(rules),
		bots:     provider,
		roundCap: conf.RoundCap,
		tiebreak: combat.Tiebreak(conf.Tiebreak),
		Now:      time.Now,
		NewSeed:  func() [2]uint64 { return [2]uint64{rand.Uint64(), rand.Uint64()} },
		NewID:    uuid.NewString,
	}
}

func (s *BattleService) Rules() *combat.Ruleset {
	return s.rules
}

// opponentFunc builds the other side once the player's fleet is known.
type opponentFunc func(ctx context.Context, player combat.Fleet, rng combat.Rand, now time.Time) (fleet combat.Fleet, opponentID, bounty int, err error)

// FightPvE fights a formation against a generated fleet of matching power.
func (s *BattleService) FightPvE(ctx context.Context, playerID, formationID int) (*Outcome, error) {
	return s.fight(ctx, combat.ModePvE, playerID, formationID,
		func(_ context.Context, player combat.Fleet, rng combat.Rand, _ time.Time) (combat.Fleet, int, int, error) {
			enc, err := s.bots.Generate(player, rng)
			if err != nil {
				return combat.Fleet{}, 0, 0, err
			}
			return enc.Fleet, 0, enc.Bounty, nil
		})
}

// FightPvP fights a formation against a snapshot of another player's fleet.
// The opponent's ships are not changed by the battle.
func (s *BattleService) FightPvP(ctx context.Context, playerID, formationID, opponentID int) (*Outcome, error) {
	if opponentID == playerID {
		return nil, ErrSelfMatch
	}
	return s.fight(ctx, combat.ModePvP, playerID, formationID,
		func(ctx context.Context, _ combat.Fleet, _ combat.Rand, now time.Time) (combat.Fleet, int, int, error) {
			_, f, err := s.store.LoadOpponent(ctx, opponentID, now)
			if err != nil {
				return combat.Fleet{}, 0, 0, err
			}
			return f.Fleet(), opponentID, 0, nil
		})
}

func (s *BattleService) fight(ctx context.Context, mode combat.Mode, playerID, formationID int, opponent opponentFunc) (*Outcome, error) {
	token, err := s.store.AcquireFleetLock(ctx, formationID)
	if err != nil {
		return nil, retryable(err)
	}
	defer func() {
		if err := s.store.ReleaseFleetLock(context.WithoutCancel(ctx), formationID, token); err != nil {
			logrus.Warnf("release fleet lock %d: %v", formationID, err)
		}
	}()

	now := s.Now()
	_, formation, err := s.store.LoadFleet(ctx, playerID, formationID, now)
	if err != nil {
		return nil, retryable(err)
	}
	player := formation.Fleet()

	// бот и движок читают разные потоки: в реплее хранится только seed движка
	seed := s.NewSeed()
	opp, opponentID, bounty, err := opponent(ctx, player, rand.New(rand.NewPCG(seed[0], seed[1]^botStream)), now)
	if err != nil {
		return nil, err
	}

	first, err := s.store.IsFirstWinOfDay(ctx, playerID, now)
	if err != nil {
		logrus.Warnf("first win lookup for player %d: %v", playerID, err)
		first = false
	}

	res, err := s.engine.ResolveBattle(player, opp, combat.Context{
		Mode:          mode,
		FirstWinOfDay: first,
		Rand:          rand.New(rand.NewPCG(seed[0], seed[1])),
		RoundCap:      s.roundCap,
		Tiebreak:      s.tiebreak,
	})
	if err != nil {
		return nil, err
	}

	won := res.Winner == combat.WinnerPlayer
	credits := res.Reward
	if won {
		credits += bounty
	} else {
		bounty = 0
	}

	raw, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("marshal battle log: %w", err)
	}
	out := &Outcome{
		BattleID: s.NewID(),
		Result:   res,
		Bounty:   bounty,
		Credits:  credits,
		Checksum: replay.Checksum(raw),
	}

	settlement := ds.Settlement{
		Battle: ds.Battle{
			BattleID:    out.BattleID,
			PlayerID:    playerID,
			OpponentID:  opponentID,
			FormationID: formationID,
			Mode:        string(mode),
			Ruleset:     s.rules.Name,
			Winner:      string(res.Winner),
			Rounds:      res.Rounds,
			Reward:      credits,
			Experience:  res.Experience,
			Log:         datatypes.JSON(raw),
			Checksum:    out.Checksum,
			CreatedAt:   now,
		},
		Credits: credits,
		Ships:   shipUpdates(formation, res, now),
	}
	if err := s.store.SaveSettlement(ctx, settlement); err != nil {
		return nil, retryable(err)
	}

	if won && first {
		if err := s.store.MarkWinOfDay(ctx, playerID, now); err != nil {
			logrus.Warnf("mark first win for player %d: %v", playerID, err)
		}
	}
	s.archive(ctx, &replay.Replay{
		BattleID:   out.BattleID,
		Ruleset:    s.rules.Name,
		PlayerID:   playerID,
		OpponentID: opponentID,
		Player:     player,
		Opponent:   opp,
		Mode:       mode,
		FirstWin:   first,
		RoundCap:   s.roundCap,
		Tiebreak:   s.tiebreak,
		Seed:       seed,
		Result:     res,
		FoughtAt:   now,
	})

	logrus.WithFields(logrus.Fields{
		"battle_id": out.BattleID,
		"player_id": playerID,
		"mode":      mode,
		"winner":    res.Winner,
		"rounds":    res.Rounds,
		"credits":   credits,
		"xp":        res.Experience,
	}).Info("battle settled")
	return out, nil
}

// shipUpdates maps the player's side of the result back onto stored ships.
// Ships whose HP did not change keep their last_update so regeneration
// progress is not lost.
func shipUpdates(f *ds.Formation, res *combat.Result, now time.Time) []ds.ShipUpdate {
	loaded := make(map[string]ds.Ship, len(f.Slots))
	for _, slot := range f.Slots {
		loaded[strconv.Itoa(slot.Ship.ShipID)] = slot.Ship
	}
	var out []ds.ShipUpdate
	for _, sr := range res.Ships {
		ship, ok := loaded[sr.ID]
		if !ok || sr.Side != combat.SidePlayer.String() {
			continue
		}
		u := ds.ShipUpdate{
			ShipID:          ship.ShipID,
			CurrentHP:       sr.FinalHP,
			ExperienceDelta: sr.Experience,
			LastUpdate:      ship.LastUpdate,
			LoadedUpdate:    ship.LastUpdate,
		}
		if sr.FinalHP != sr.StartHP {
			u.LastUpdate = now
		}
		out = append(out, u)
	}
	return out
}

func (s *BattleService) archive(ctx context.Context, r *replay.Replay) {
	data, err := replay.Encode(r)
	if err != nil {
		logrus.Errorf("encode replay %s: %v", r.BattleID, err)
		return
	}
	if err := s.store.ArchiveReplay(ctx, r.BattleID, data); err != nil {
		logrus.Warnf("archive replay %s: %v", r.BattleID, err)
	}
}

// retryable folds lock and staleness conflicts into ErrRetry.
func retryable(err error) error {
	if errors.Is(err, repository.ErrFleetBusy) || errors.Is(err, repository.ErrStale) {
		return fmt.Errorf("%w: %v", ErrRetry, err)
	}
	return err
}
