package combat

import (
	"reflect"
	"testing"
)

func TestSplitExperience(t *testing.T) {
	crew := func(hps ...int) []*Combatant {
		out := make([]*Combatant, len(hps))
		for i, hp := range hps {
			out[i] = &Combatant{ID: string(rune('a' + i)), StartHP: hp, HP: hp}
		}
		return out
	}

	tests := []struct {
		name  string
		xp    int
		ships []*Combatant
		want  map[string]int
	}{
		{"even split", 30, crew(10, 10, 10), map[string]int{"a": 10, "b": 10, "c": 10}},
		{"remainder to lowest slots", 11, crew(10, 10, 10), map[string]int{"a": 4, "b": 4, "c": 3}},
		{"wreck gets nothing", 10, crew(10, 0, 10), map[string]int{"a": 5, "b": 0, "c": 5}},
		{"no experience", 0, crew(10, 10), map[string]int{"a": 0, "b": 0}},
		{"only wrecks", 9, crew(0, 0), map[string]int{"a": 0, "b": 0}},
	}
	for _, tt := range tests {
		got := splitExperience(tt.xp, tt.ships)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLostAny(t *testing.T) {
	survivor := &Combatant{StartHP: 10, HP: 3}
	sunk := &Combatant{StartHP: 10, HP: 0}
	wreck := &Combatant{StartHP: 0, HP: 0}

	if lostAny([]*Combatant{survivor, wreck}) {
		t.Error("ship that entered destroyed counted as a loss")
	}
	if !lostAny([]*Combatant{survivor, sunk}) {
		t.Error("sunk ship not counted as a loss")
	}
}

func TestNonNegative(t *testing.T) {
	tests := map[float64]int{-3: 0, 0: 0, 2.99: 2, 17: 17}
	for in, want := range tests {
		if got := nonNegative(in); got != want {
			t.Errorf("nonNegative(%v) = %d, want %d", in, got, want)
		}
	}
}
