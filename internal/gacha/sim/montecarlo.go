package sim

import (
	"context"
	"math"
	"sort"
)

// Goal selects what one trial measures.
type Goal string

const (
	// GoalGold counts pulls per top-rarity hit, ignoring the 50-50.
	GoalGold Goal = "gold"
	// GoalUp counts pulls per featured hit, respecting the 50-50 and guarantee.
	GoalUp Goal = "up"
)

// Params describes one banner's mechanics.
type Params struct {
	PBase    float64
	Pity     int
	Soft     *SoftPity
	OffProbs []float64 // empty disables the 50-50 layer
	MaxOff   int
}

// Stats summarizes simulation samples.
type Stats struct {
	Mean    float64
	StdDev  float64
	P50     float64
	P90     float64
	P99     float64
	Samples []float64 `json:"-"` // sorted ascending
}

func calcStats(xs []float64) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)

	var sum float64
	for _, v := range cp {
		sum += v
	}
	mean := sum / float64(n)
	var acc float64
	for _, v := range cp {
		d := v - mean
		acc += d * d
	}

	percentile := func(p float64) float64 {
		if n == 1 {
			return cp[0]
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		if i+1 >= n {
			return cp[n-1]
		}
		f := pos - float64(i)
		return cp[i]*(1-f) + cp[i+1]*f
	}

	return Stats{
		Mean:    mean,
		StdDev:  math.Sqrt(acc / float64(n)),
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: cp,
	}
}

// Luck is the share of samples that needed strictly more pulls than observed,
// with ties counted half. 1 is luckier than every simulated player.
func (s Stats) Luck(observed float64) float64 {
	n := len(s.Samples)
	if n == 0 {
		return 0
	}
	lo := sort.SearchFloat64s(s.Samples, observed)
	hi := sort.Search(n, func(i int) bool { return s.Samples[i] > observed })
	worse := n - hi
	ties := hi - lo
	return (float64(worse) + float64(ties)/2) / float64(n)
}

const ctxCheckEvery = 4096

// meanPulls runs one trial: draw until runs targets are reached and return pulls per target.
func meanPulls(ctx context.Context, p Params, goal Goal, runs int, rng RandomSource) (float64, error) {
	sp, err := NewSoftPitySystem(p.Pity, p.Soft, rng)
	if err != nil {
		return 0, err
	}
	var banner *BannerSystem
	if goal == GoalUp && len(p.OffProbs) > 0 {
		banner = NewBannerSystem(sp, p.OffProbs, p.MaxOff)
	}

	draws, got := 0, 0
	for got < runs {
		draws++
		if draws%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		if banner != nil {
			out, err := banner.Draw(p.PBase)
			if err != nil {
				return 0, err
			}
			if out.Hit && out.IsUp {
				got++
			}
			continue
		}
		hit, err := sp.Draw(p.PBase)
		if err != nil {
			return 0, err
		}
		if hit {
			got++
		}
	}
	return float64(draws) / float64(runs), nil
}

// RunMonteCarlo repeats trials and summarizes pulls per target. runs is how many
// targets one simulated player collects; it is clamped to at least 1.
// A cancelled ctx stops the loop and returns ctx.Err().
func RunMonteCarlo(ctx context.Context, p Params, goal Goal, runs, trials int, rng RandomSource) (Stats, error) {
	if trials <= 0 {
		return Stats{}, nil
	}
	if runs < 1 {
		runs = 1
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	samples := make([]float64, trials)
	for i := range samples {
		v, err := meanPulls(ctx, p, goal, runs, rng)
		if err != nil {
			return Stats{}, err
		}
		samples[i] = v
	}
	return calcStats(samples), nil
}
