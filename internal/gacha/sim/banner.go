package sim

// Outcome reports one draw on a featured banner.
type Outcome struct {
	Hit            bool
	IsUp           bool
	GuaranteedNext bool
}

// BannerSystem layers the 50-50 on top of soft pity.
// On a hit the draw is UP when a guarantee is pending; otherwise it goes off-banner with
// OffProbs[min(OffStreak, len-1)]. After MaxOff consecutive offs the next hit is forced UP.
type BannerSystem struct {
	Pity           *SoftPitySystem
	OffProbs       []float64
	MaxOff         int
	GuaranteedNext bool
	OffStreak      int
}

// NewBannerSystem clamps offProbs into (0,1) and defaults maxOff to len(offProbs).
func NewBannerSystem(pity *SoftPitySystem, offProbs []float64, maxOff int) *BannerSystem {
	if len(offProbs) == 0 {
		offProbs = []float64{0.5}
	}
	clamped := make([]float64, len(offProbs))
	for i, p := range offProbs {
		if !(p > 0 && p < 1) {
			p = 0.5
		}
		clamped[i] = p
	}
	if maxOff <= 0 {
		maxOff = len(clamped)
	}
	return &BannerSystem{Pity: pity, OffProbs: clamped, MaxOff: maxOff}
}

func (b *BannerSystem) offProb() float64 {
	idx := b.OffStreak
	if idx >= len(b.OffProbs) {
		idx = len(b.OffProbs) - 1
	}
	return b.OffProbs[idx]
}

// Draw performs one draw at base probability pBase.
func (b *BannerSystem) Draw(pBase float64) (Outcome, error) {
	hit, err := b.Pity.Draw(pBase)
	if err != nil || !hit {
		return Outcome{GuaranteedNext: b.GuaranteedNext}, err
	}

	if b.GuaranteedNext {
		b.GuaranteedNext = false
		b.OffStreak = 0
		return Outcome{Hit: true, IsUp: true}, nil
	}

	off, err := Draw(b.offProb(), b.Pity.RNG)
	if err != nil {
		return Outcome{}, err
	}
	if !off {
		b.OffStreak = 0
		return Outcome{Hit: true, IsUp: true}, nil
	}
	b.OffStreak++
	if b.OffStreak >= b.MaxOff {
		b.GuaranteedNext = true
	}
	return Outcome{Hit: true, GuaranteedNext: b.GuaranteedNext}, nil
}
