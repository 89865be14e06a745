package sim

// PitySystem guarantees a hit on the Pity-th draw since the last hit.
type PitySystem struct {
	Pity  int
	Count int // draws since the last hit
	RNG   RandomSource
}

// NewPitySystem creates a hard pity counter.
func NewPitySystem(pity int, rng RandomSource) *PitySystem {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &PitySystem{Pity: pity, RNG: rng}
}

// atPity reports whether the next draw is forced.
func (ps *PitySystem) atPity() bool {
	return ps.Pity > 0 && ps.Count+1 >= ps.Pity
}

// record updates the counter after a draw.
func (ps *PitySystem) record(hit bool) {
	if hit {
		ps.Count = 0
		return
	}
	ps.Count++
}

// Draw performs one draw at base probability p.
func (ps *PitySystem) Draw(p float64) (bool, error) {
	if ps.atPity() {
		ps.record(true)
		return true, nil
	}
	hit, err := Draw(p, ps.RNG)
	if err != nil {
		return false, err
	}
	ps.record(hit)
	return hit, nil
}
