package config

import (
	"math"

	"github.com/xtding233/waves-rank/internal/gacha/sim"
)

// Params resolves the optional YAML fields into simulation parameters.
// start_pct is converted to an absolute draw index when start_at is absent.
func (d DrawConfig) Params() sim.Params {
	p := sim.Params{
		PBase:    0.008,
		Pity:     80,
		OffProbs: append([]float64(nil), d.OffProbs...),
		MaxOff:   d.MaxOff,
	}
	if d.PBase != nil {
		p.PBase = *d.PBase
	}
	if d.Pity != nil {
		p.Pity = *d.Pity
	}
	if s := d.Soft; s != nil && s.Target != nil && (s.StartAt != nil || s.StartPct != nil) {
		startAt := 0
		if s.StartAt != nil {
			startAt = *s.StartAt
		} else {
			pct := math.Min(math.Max(*s.StartPct, 0), 1)
			startAt = int(math.Ceil(pct * float64(p.Pity)))
			if startAt >= p.Pity-1 {
				startAt = p.Pity - 2
			}
		}
		p.Soft = &sim.SoftPity{StartAt: startAt, TargetProb: *s.Target, Easing: sim.Easing(s.Easing)}
	}
	return p
}
