package combat

// constRand returns the same roll every time and always picks the first target.
type constRand struct {
	f float64
}

func (r constRand) Float64() float64 { return r.f }
func (r constRand) IntN(int) int     { return 0 }

func ship(id string, class ShipClass, race Race, hp int) Ship {
	return Ship{ID: id, Class: class, Tier: 1, Race: race, CurrentHP: hp}
}

func fleet(owner int, ships ...Ship) Fleet {
	for i := range ships {
		ships[i].OwnerID = owner
	}
	return Fleet{OwnerID: owner, Ships: ships}
}

func fullHP(t interface{ Fatalf(string, ...any) }, s Ship) Ship {
	stats, err := CosmicFleet.ShipStats(s)
	if err != nil {
		t.Fatalf("ShipStats(%s): %v", s.ID, err)
	}
	s.CurrentHP = MaxHP(stats)
	return s
}
