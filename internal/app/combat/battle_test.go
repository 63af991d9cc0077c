package combat

import (
	"errors"
	"math"
	"math/rand/v2"
	"reflect"
	"testing"
)

func TestResolveBattleRejectsInvalidInput(t *testing.T) {
	e := NewEngine(CosmicFleet)
	good := fleet(1, fullHP(t, ship("p1", ClassFrigate, RaceTerran, 0)))
	enemy := fleet(2, fullHP(t, ship("o1", ClassFrigate, RaceZerg, 0)))

	dead := fleet(1, ship("p1", ClassFrigate, RaceTerran, 0), ship("p2", ClassDrone, RaceTerran, 0))
	badWeapon := good
	badWeapon.Ships = []Ship{{ID: "p1", Class: ClassFrigate, Tier: 1, Race: RaceTerran, CurrentHP: 10, Weapon: "banana"}}
	badTier := fleet(1, Ship{ID: "p1", Class: ClassFrigate, Tier: 0, Race: RaceTerran, CurrentHP: 10})

	tests := []struct {
		name   string
		player Fleet
		opp    Fleet
		want   error
	}{
		{"empty player fleet", Fleet{OwnerID: 1}, enemy, ErrEmptyFleet},
		{"empty opponent fleet", good, Fleet{OwnerID: 2}, ErrEmptyFleet},
		{"all destroyed", dead, enemy, ErrFleetDestroyed},
		{"unknown weapon", badWeapon, enemy, ErrUnknownWeapon},
		{"bad tier", badTier, enemy, ErrInvalidShip},
	}
	for _, tt := range tests {
		res, err := e.ResolveBattle(tt.player, tt.opp, Context{Rand: constRand{0.5}})
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
		if res != nil {
			t.Errorf("%s: partial result returned", tt.name)
		}
		if !IsInvalidInput(err) {
			t.Errorf("%s: IsInvalidInput(%v) = false", tt.name, err)
		}
	}

	if _, err := e.ResolveBattle(good, enemy, Context{}); err == nil || IsInvalidInput(err) {
		t.Errorf("nil random source: err = %v, want internal error", err)
	}
}

func TestBattleTerminatesAtRoundCap(t *testing.T) {
	e := NewEngine(CosmicFleet)
	// A roll of 0.999 misses every shot, so neither side can ever win.
	miss := constRand{0.999}

	player := fleet(1, fullHP(t, ship("p1", ClassBattleship, RaceTerran, 0)))
	opp := fleet(2, fullHP(t, ship("o1", ClassBattleship, RaceTerran, 0)))
	res, err := e.ResolveBattle(player, opp, Context{Rand: miss})
	if err != nil {
		t.Fatal(err)
	}
	if res.Rounds != 50 || !res.CappedOut || res.Winner != WinnerDraw {
		t.Errorf("symmetric stalemate: rounds=%d capped=%v winner=%s", res.Rounds, res.CappedOut, res.Winner)
	}
	if res.State != StateSettled {
		t.Errorf("State = %s, want settled", res.State)
	}

	weak := fleet(2, fullHP(t, ship("o1", ClassFrigate, RaceTerran, 0)))
	res, err = e.ResolveBattle(player, weak, Context{Rand: miss})
	if err != nil {
		t.Fatal(err)
	}
	if res.Winner != WinnerPlayer {
		t.Errorf("remaining hp tiebreak: winner = %s, want player", res.Winner)
	}

	res, err = e.ResolveBattle(player, weak, Context{Rand: miss, Tiebreak: TiebreakDamageDealt, RoundCap: 7})
	if err != nil {
		t.Fatal(err)
	}
	if res.Rounds != 7 || res.Winner != WinnerDraw {
		t.Errorf("damage tiebreak with no hits: rounds=%d winner=%s, want 7 and draw", res.Rounds, res.Winner)
	}
}

func TestRoundCapOverrideOnlyShortens(t *testing.T) {
	e := NewEngine(CosmicFleet)
	miss := constRand{0.999}
	player := fleet(1, fullHP(t, ship("p1", ClassBattleship, RaceTerran, 0)))
	opp := fleet(2, fullHP(t, ship("o1", ClassBattleship, RaceTerran, 0)))

	tests := []struct {
		override int
		want     int
	}{
		{0, 50},
		{-5, 50},
		{12, 12},
		{50, 50},
		{500, 50},
	}
	for _, tt := range tests {
		res, err := e.ResolveBattle(player, opp, Context{Rand: miss, RoundCap: tt.override})
		if err != nil {
			t.Fatal(err)
		}
		if res.Rounds != tt.want || !res.CappedOut {
			t.Errorf("RoundCap %d: rounds=%d capped=%v, want %d", tt.override, res.Rounds, res.CappedOut, tt.want)
		}
	}
}

func TestUnknownTiebreakRejected(t *testing.T) {
	e := NewEngine(CosmicFleet)
	player := fleet(1, fullHP(t, ship("p1", ClassBattleship, RaceTerran, 0)))
	opp := fleet(2, fullHP(t, ship("o1", ClassBattleship, RaceTerran, 0)))
	_, err := e.ResolveBattle(player, opp, Context{Rand: constRand{0.999}, Tiebreak: "coin_flip"})
	if err == nil || IsInvalidInput(err) {
		t.Errorf("err = %v, want configuration error", err)
	}
}

func TestWrecksAddNoRewardOrExperience(t *testing.T) {
	e := NewEngine(CosmicFleet)
	flagship := fullHP(t, ship("p1", ClassBattleship, RaceTerran, 0))
	drone := ship("o1", ClassDrone, RaceTerran, 1)
	ctx := Context{Mode: ModePvP, Rand: constRand{0.5}}

	clean, err := e.ResolveBattle(fleet(1, flagship), fleet(2, drone), ctx)
	if err != nil {
		t.Fatal(err)
	}
	padded, err := e.ResolveBattle(
		fleet(1, flagship, ship("p2", ClassBattleship, RaceTerran, 0)),
		fleet(2, drone, ship("o2", ClassBattleship, RaceTerran, 0)),
		ctx,
	)
	if err != nil {
		t.Fatal(err)
	}
	if padded.Winner != WinnerPlayer || padded.Rounds != clean.Rounds {
		t.Fatalf("padded battle: winner=%s rounds=%d", padded.Winner, padded.Rounds)
	}
	if padded.PlayerPower != clean.PlayerPower || padded.OpponentPower != clean.OpponentPower {
		t.Errorf("power with wrecks %v/%v, without %v/%v",
			padded.PlayerPower, padded.OpponentPower, clean.PlayerPower, clean.OpponentPower)
	}
	if padded.Reward != clean.Reward || padded.Experience != clean.Experience {
		t.Errorf("wrecks changed payout: reward %d vs %d, xp %d vs %d",
			padded.Reward, clean.Reward, padded.Experience, clean.Experience)
	}
}

func TestInitiative(t *testing.T) {
	slow := &Combatant{Stats: Stats{Speed: 50}}
	fast := &Combatant{Stats: Stats{Speed: 90}}
	same := &Combatant{Stats: Stats{Speed: 50}}

	tests := []struct {
		name   string
		actors [2]*Combatant
		first  Side
	}{
		{"faster player", [2]*Combatant{fast, slow}, SidePlayer},
		{"faster opponent", [2]*Combatant{slow, fast}, SideOpponent},
		{"tie goes to player", [2]*Combatant{slow, same}, SidePlayer},
		{"player cooling down", [2]*Combatant{nil, slow}, SideOpponent},
		{"opponent cooling down", [2]*Combatant{slow, nil}, SidePlayer},
	}
	for _, tt := range tests {
		if got := initiative(tt.actors)[0]; got != tt.first {
			t.Errorf("%s: first = %s, want %s", tt.name, got, tt.first)
		}
	}
}

func TestQuickPerfectWinReward(t *testing.T) {
	e := NewEngine(CosmicFleet)
	flagship := fullHP(t, ship("p1", ClassBattleship, RaceTerran, 0))
	player := fleet(1, flagship)
	opp := fleet(2, ship("o1", ClassDrone, RaceTerran, 1))

	res, err := e.ResolveBattle(player, opp, Context{Mode: ModePvE, Rand: constRand{0.5}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Winner != WinnerPlayer || res.Rounds != 1 {
		t.Fatalf("winner=%s rounds=%d, want player in 1", res.Winner, res.Rounds)
	}
	// The drone is faster, so it shoots first and then dies.
	if len(res.Log) != 2 || res.Log[0].AttackerID != "o1" || !res.Log[1].Kill {
		t.Fatalf("unexpected log %+v", res.Log)
	}

	stats, _ := CosmicFleet.ShipStats(flagship)
	power := CosmicFleet.Power(stats)
	if math.Abs(res.PlayerPower-power) > 1e-9 {
		t.Errorf("PlayerPower = %v, want %v", res.PlayerPower, power)
	}
	want := int(math.Floor(power / 10 * 1.5 * 1.2))
	if res.Reward != want {
		t.Errorf("Reward = %d, want %d (perfect and fast)", res.Reward, want)
	}
	if !reflect.DeepEqual(res.Bonuses, []string{BonusPerfect, BonusFast}) {
		t.Errorf("Bonuses = %v", res.Bonuses)
	}

	first, err := e.ResolveBattle(player, opp, Context{Mode: ModePvE, Rand: constRand{0.5}, FirstWinOfDay: true})
	if err != nil {
		t.Fatal(err)
	}
	if wantFirst := int(math.Floor(power / 10 * 1.5 * 1.2 * 2)); first.Reward != wantFirst {
		t.Errorf("first win of day Reward = %d, want %d", first.Reward, wantFirst)
	}
	if res.Experience <= 0 || res.ShipXP["p1"] != res.Experience {
		t.Errorf("experience %d not credited to p1: %v", res.Experience, res.ShipXP)
	}
}

func TestLossGrantsReducedExperience(t *testing.T) {
	e := NewEngine(CosmicFleet)
	player := fleet(1, ship("p1", ClassDrone, RaceTerran, 1))
	opp := fleet(2, fullHP(t, ship("o1", ClassBattleship, RaceTerran, 0)))

	loss, err := e.ResolveBattle(player, opp, Context{Rand: constRand{0.5}})
	if err != nil {
		t.Fatal(err)
	}
	if loss.Winner != WinnerOpponent {
		t.Fatalf("winner = %s, want opponent", loss.Winner)
	}
	if loss.Reward != 0 {
		t.Errorf("loss paid reward %d", loss.Reward)
	}

	stats, _ := CosmicFleet.ShipStats(opp.Ships[0])
	winXP := int(math.Floor(CosmicFleet.Power(stats) / CosmicFleet.ExperienceDivisor))
	want := int(math.Floor(float64(winXP) * 0.3))
	if loss.Experience != want {
		t.Errorf("loss experience = %d, want %d", loss.Experience, want)
	}
	if loss.Experience > winXP {
		t.Errorf("loss experience %d exceeds win experience %d", loss.Experience, winXP)
	}
}

func TestTemplateExperienceOverridesPower(t *testing.T) {
	e := NewEngine(CosmicFleet)
	player := fleet(1,
		fullHP(t, ship("p1", ClassBattleship, RaceTerran, 0)),
		fullHP(t, ship("p2", ClassBattleship, RaceTerran, 0)),
	)
	bot := ship("o1", ClassDrone, RaceTerran, 1)
	bot.Experience = 41
	res, err := e.ResolveBattle(player, fleet(0, bot), Context{Rand: constRand{0.5}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Experience != 41 || res.ShipXP["p1"] != 21 || res.ShipXP["p2"] != 20 {
		t.Errorf("experience %d split %v, want 41 as 21/20", res.Experience, res.ShipXP)
	}
}

func TestSplashHitsEveryOtherTarget(t *testing.T) {
	e := NewEngine(CosmicFleet)
	player := fleet(1,
		fullHP(t, ship("p1", ClassFrigate, RaceTerran, 0)),
		fullHP(t, ship("p2", ClassFrigate, RaceTerran, 0)),
		fullHP(t, ship("p3", ClassFrigate, RaceTerran, 0)),
	)
	opp := fleet(2, fullHP(t, ship("o1", ClassCruiser, RaceXerj, 0)))

	res, err := e.ResolveBattle(player, opp, Context{Rand: constRand{0.5}, RoundCap: 1})
	if err != nil {
		t.Fatal(err)
	}
	var primary int
	splashed := map[string]int{}
	for _, a := range res.Log {
		if a.AttackerID != "o1" {
			continue
		}
		switch a.Kind {
		case ActionAttack:
			primary = a.Damage
		case ActionSplash:
			splashed[a.TargetID] = a.Damage
		}
	}
	if primary <= 0 {
		t.Fatalf("torpedo did not hit: %+v", res.Log)
	}
	want := SplashDamage(primary, CosmicFleet.Weapons["plasma_torpedo"].AOEPercent)
	if len(splashed) != 2 || splashed["p2"] != want || splashed["p3"] != want {
		t.Errorf("splash = %v, want p2 and p3 at %d", splashed, want)
	}
}

func TestCooldownSkipsTurns(t *testing.T) {
	e := NewEngine(CosmicFleet)
	player := fleet(1, fullHP(t, ship("p1", ClassDrone, RaceTerran, 0)))
	opp := fleet(2, fullHP(t, ship("o1", ClassCarrier, RaceXerj, 0)))

	res, err := e.ResolveBattle(player, opp, Context{Rand: constRand{0.5}, RoundCap: 4})
	if err != nil {
		t.Fatal(err)
	}
	var rounds []int
	for _, a := range res.Log {
		if a.AttackerID == "o1" && a.Kind == ActionAttack {
			rounds = append(rounds, a.Round)
		}
	}
	if !reflect.DeepEqual(rounds, []int{1, 3}) {
		t.Errorf("torpedo fired in rounds %v, want [1 3]", rounds)
	}
}

func TestCorrosionTicks(t *testing.T) {
	e := NewEngine(CosmicFleet)
	player := fleet(1, fullHP(t, ship("p1", ClassCruiser, RaceZerg, 0)))
	opp := fleet(2, fullHP(t, ship("o1", ClassBattleship, RaceTerran, 0)))

	res, err := e.ResolveBattle(player, opp, Context{Rand: constRand{0.5}, RoundCap: 3})
	if err != nil {
		t.Fatal(err)
	}
	ticks := 0
	for _, a := range res.Log {
		if a.Kind == ActionCorrosion {
			ticks++
			if a.TargetID != "o1" || a.AttackerID != "p1" || a.Damage != 8 {
				t.Errorf("bad corrosion entry %+v", a)
			}
		}
	}
	if ticks != 2 {
		t.Errorf("corrosion ticked %d times in 3 rounds, want 2", ticks)
	}
}

func TestRaceAbilities(t *testing.T) {
	e := NewEngine(CosmicFleet)

	// 0.05 hits and triggers the 10% phase shift but not the 5% frenzy.
	res, err := e.ResolveBattle(
		fleet(1, fullHP(t, ship("z", ClassCruiser, RaceZerg, 0))),
		fleet(2, fullHP(t, ship("p", ClassCruiser, RaceProtoss, 0))),
		Context{Rand: constRand{0.05}, RoundCap: 1},
	)
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range res.Log {
		if a.AttackerID == "z" && (a.Damage != 0 || a.Ability != AbilityPhaseShift) {
			t.Errorf("phase shift did not negate: %+v", a)
		}
	}

	// 0.01 triggers frenzy against a race that cannot negate.
	attacker := fullHP(t, ship("z", ClassCruiser, RaceZerg, 0))
	defender := fullHP(t, ship("t", ClassCruiser, RaceTerran, 0))
	res, err = e.ResolveBattle(fleet(1, attacker), fleet(2, defender), Context{Rand: constRand{0.01}, RoundCap: 1})
	if err != nil {
		t.Fatal(err)
	}
	za, _ := CosmicFleet.NewCombatant(attacker, SidePlayer, 0)
	ta, _ := CosmicFleet.NewCombatant(defender, SideOpponent, 0)
	hit, _ := Calculator{Rules: CosmicFleet, Rand: constRand{0.01}}.Resolve(za, ta)
	for _, a := range res.Log {
		if a.AttackerID == "z" && a.Kind == ActionAttack {
			if a.Ability != AbilityFrenzy || a.Damage != hit.Damage*3 {
				t.Errorf("frenzy: %+v, want %d", a, hit.Damage*3)
			}
		}
	}
}

func TestBattleIsReplayableAndConsistent(t *testing.T) {
	e := NewEngine(CosmicFleet)
	player := fleet(1,
		fullHP(t, ship("p1", ClassCruiser, RaceTerran, 0)),
		fullHP(t, ship("p2", ClassFrigate, RaceProtoss, 0)),
		fullHP(t, ship("p3", ClassDrone, RaceZerg, 0)),
	)
	opp := fleet(2,
		fullHP(t, ship("o1", ClassBattleship, RaceXerj, 0)),
		fullHP(t, ship("o2", ClassDestroyer, RaceZerg, 0)),
		fullHP(t, ship("o3", ClassCarrier, RaceProtoss, 0)),
	)

	for seed := uint64(1); seed <= 25; seed++ {
		a, err := e.ResolveBattle(player, opp, Context{Rand: rand.New(rand.NewPCG(seed, 7))})
		if err != nil {
			t.Fatal(err)
		}
		b, _ := e.ResolveBattle(player, opp, Context{Rand: rand.New(rand.NewPCG(seed, 7))})
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("seed %d: same seed gave different battles", seed)
		}

		if a.Rounds < 1 || a.Rounds > 50 {
			t.Errorf("seed %d: rounds = %d", seed, a.Rounds)
		}
		kills := 0
		for _, act := range a.Log {
			if act.Damage < 0 || act.RemainingHP < 0 || act.Round > a.Rounds {
				t.Errorf("seed %d: bad action %+v", seed, act)
			}
			if act.Missed && act.Damage != 0 {
				t.Errorf("seed %d: miss dealt damage %+v", seed, act)
			}
			if act.Kill {
				kills++
			}
		}
		destroyed := 0
		for _, s := range a.Ships {
			if s.FinalHP < 0 || s.FinalHP > s.MaxHP {
				t.Errorf("seed %d: ship %s hp %d/%d", seed, s.ID, s.FinalHP, s.MaxHP)
			}
			if s.Destroyed {
				destroyed++
			}
		}
		if kills != destroyed {
			t.Errorf("seed %d: %d kills logged, %d ships destroyed", seed, kills, destroyed)
		}
		if a.Reward < 0 || a.Experience < 0 {
			t.Errorf("seed %d: negative payout %d/%d", seed, a.Reward, a.Experience)
		}
		if a.Winner != WinnerPlayer && a.Reward != 0 {
			t.Errorf("seed %d: %s paid %d", seed, a.Winner, a.Reward)
		}
	}
}
