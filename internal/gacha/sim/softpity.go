package sim

import (
	"github.com/cockroachdb/errors"
)

// Easing shapes the soft pity ramp.
type Easing string

const (
	EaseLinear     Easing = "linear"
	EaseOutQuad    Easing = "easeOutQuad"
	EaseInOutCubic Easing = "easeInOutCubic"
)

var ErrSoftPityConfig = errors.New("invalid soft pity config")

// SoftPity ramps the hit probability from StartAt up to TargetProb at draw Pity-1.
// Example: Pity=80, StartAt=65, TargetProb=0.6.
type SoftPity struct {
	StartAt    int
	TargetProb float64
	Easing     Easing
}

func (c *SoftPity) normalize(pity int) error {
	if pity <= 1 {
		return errors.Wrapf(ErrSoftPityConfig, "pity=%d", pity)
	}
	if c.TargetProb <= 0 || c.TargetProb >= 1 {
		return errors.Wrapf(ErrSoftPityConfig, "target=%v", c.TargetProb)
	}
	if c.StartAt < 0 {
		c.StartAt = 0
	}
	if c.StartAt >= pity-1 {
		return errors.Wrapf(ErrSoftPityConfig, "start_at=%d leaves no ramp before pity %d", c.StartAt, pity)
	}
	if c.Easing == "" {
		c.Easing = EaseLinear
	}
	return nil
}

func (e Easing) apply(t float64) float64 {
	switch e {
	case EaseOutQuad:
		return 1 - (1-t)*(1-t)
	case EaseInOutCubic:
		if t < 0.5 {
			return 4 * t * t * t
		}
		u := -2*t + 2
		return 1 - u*u*u/2
	default:
		return t
	}
}

// SoftPitySystem is a hard pity counter with an optional soft ramp.
type SoftPitySystem struct {
	PitySystem
	Soft *SoftPity
}

// NewSoftPitySystem validates soft (nil means hard pity only).
func NewSoftPitySystem(pity int, soft *SoftPity, rng RandomSource) (*SoftPitySystem, error) {
	if soft != nil {
		cp := *soft
		if err := cp.normalize(pity); err != nil {
			return nil, err
		}
		soft = &cp
	}
	return &SoftPitySystem{PitySystem: *NewPitySystem(pity, rng), Soft: soft}, nil
}

// effectiveProb is the probability the next draw uses.
func (s *SoftPitySystem) effectiveProb(pBase float64) float64 {
	if s.atPity() {
		return 1
	}
	if s.Soft == nil || s.Count < s.Soft.StartAt {
		return pBase
	}
	span := float64(s.Pity - 1 - s.Soft.StartAt)
	t := float64(s.Count-s.Soft.StartAt) / span
	if t > 1 {
		t = 1
	}
	p := pBase + (s.Soft.TargetProb-pBase)*s.Soft.Easing.apply(t)
	// stay below 1 so only the hard pity is a certainty
	if p > 0.999999999999 {
		p = 0.999999999999
	}
	if p < 0 {
		p = 0
	}
	return p
}

// Draw performs one draw under soft and hard pity.
func (s *SoftPitySystem) Draw(pBase float64) (bool, error) {
	hit, err := Draw(s.effectiveProb(pBase), s.RNG)
	if err != nil {
		return false, err
	}
	s.record(hit)
	return hit, nil
}
