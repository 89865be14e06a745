package sim

import (
	"math"

	"github.com/cockroachdb/errors"
)

var ErrInvalidProb = errors.New("invalid probability; must be within [0,1]")

// Draw reports a hit with probability p.
func Draw(p float64, rng RandomSource) (bool, error) {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 || p > 1 {
		return false, errors.Wrapf(ErrInvalidProb, "p=%v", p)
	}
	switch {
	case p == 0:
		return false, nil
	case p == 1:
		return true, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return rng.Float64() < p, nil
}
