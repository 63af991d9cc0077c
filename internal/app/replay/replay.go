package replay

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/pierrec/lz4/v4"
	"lukechampine.com/blake3"

	"fleet_battle/internal/app/combat"
)

// ContentType is the object content type used for archived replays.
const ContentType = "application/x-lz4"

// Replay is everything needed to show a finished battle again.
type Replay struct {
	BattleID   string          `json:"battle_id"`
	Ruleset    string          `json:"ruleset"`
	PlayerID   int             `json:"player_id"`
	OpponentID int             `json:"opponent_id,omitempty"`
	Player     combat.Fleet    `json:"player"`
	Opponent   combat.Fleet    `json:"opponent"`
	Mode       combat.Mode     `json:"mode"`
	FirstWin   bool            `json:"first_win,omitempty"`
	RoundCap   int             `json:"round_cap,omitempty"`
	Tiebreak   combat.Tiebreak `json:"tiebreak,omitempty"`
	// Seed of the PCG source the engine ran on. Context() with it reproduces Result.
	Seed     [2]uint64      `json:"seed"`
	Result   *combat.Result `json:"result"`
	FoughtAt time.Time      `json:"fought_at"`
}

// Context rebuilds the engine input the battle was resolved with.
func (r *Replay) Context() combat.Context {
	return combat.Context{
		Mode:          r.Mode,
		FirstWinOfDay: r.FirstWin,
		Rand:          rand.New(rand.NewPCG(r.Seed[0], r.Seed[1])),
		RoundCap:      r.RoundCap,
		Tiebreak:      r.Tiebreak,
	}
}

var bufferPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// Encode serializes a replay to lz4-compressed JSON.
func Encode(r *Replay) ([]byte, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal replay: %w", err)
	}
	return Compress(raw)
}

// Decode reverses Encode.
func Decode(data []byte) (*Replay, error) {
	raw, err := Decompress(data)
	if err != nil {
		return nil, err
	}
	var r Replay
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("unmarshal replay: %w", err)
	}
	return &r, nil
}

func Compress(src []byte) ([]byte, error) {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	zw := lz4.NewWriter(buf)
	if _, err := zw.Write(src); err != nil {
		return nil, fmt.Errorf("lz4 write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("lz4 close: %w", err)
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func Decompress(src []byte) ([]byte, error) {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	if _, err := io.Copy(buf, lz4.NewReader(bytes.NewReader(src))); err != nil {
		return nil, fmt.Errorf("lz4 read: %w", err)
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// Checksum is the hex blake3 digest stored next to a battle log so tampered
// or truncated logs can be detected.
func Checksum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Verify reports whether data matches a checksum produced by Checksum.
func Verify(data []byte, sum string) bool {
	return Checksum(data) == sum
}
