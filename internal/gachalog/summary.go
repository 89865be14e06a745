package gachalog

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/xtding233/waves-rank/internal/config"
	"github.com/xtding233/waves-rank/internal/gacha"
	"github.com/xtding233/waves-rank/internal/gacha/sim"
	"github.com/xtding233/waves-rank/internal/pricing"
	"github.com/xtding233/waves-rank/internal/token"
)

// BannerSummary is one banner's line in the history summary.
type BannerSummary struct {
	gacha.BannerStats
	Astrite int
	// Luck is the share of simulated players who needed more pulls per gold
	// (or per UP on the character banner). Zero when no run closed.
	Luck    float64
	HasLuck bool
}

// Summary describes a whole stored history.
type Summary struct {
	UID     string
	Banners []BannerSummary // AllBanners order, banners without pulls omitted
	Pulls   int
	Astrite int
	// OwnedGold is the gold count implied by owned five-star characters, 0 when
	// rawData.json is absent.
	OwnedGold int
	Plan      pricing.Plan // cheapest top-up for Astrite with every first-purchase double used
	PlanRest  pricing.Plan // same without first-purchase doubles
}

// Summarize aggregates lf with the configured pools, prices and pity model.
func Summarize(ctx context.Context, cfg *config.Config, lf *gacha.LogFile) (*Summary, error) {
	if lf == nil || lf.Total() == 0 {
		return nil, errors.New("empty gacha log")
	}
	up := gacha.NewStandardPool(cfg.Pools.StandardCharacters, cfg.Pools.StandardWeapons)
	stats := lf.Stats(up)

	s := &Summary{UID: lf.Info.UID}
	for i, b := range gacha.AllBanners {
		st, ok := stats[b]
		if !ok {
			continue
		}
		bs := BannerSummary{BannerStats: st, Astrite: token.Astrite.TokensForDraws(st.Total)}
		if err := luck(ctx, cfg, b, &bs, uint64(i)); err != nil {
			return nil, err
		}
		s.Banners = append(s.Banners, bs)
		s.Pulls += st.Total
		s.Astrite += bs.Astrite
	}

	// one 月相 buys one 星声
	s.Plan = pricing.MinCostAtLeastTokens(cfg.Pricing, s.Astrite, cfg.Pricing.AllFirstTime())
	s.PlanRest = pricing.MinCostAtLeastTokens(cfg.Pricing, s.Astrite, nil)
	return s, nil
}

// luck compares observed pulls per target against a seeded simulation of the banner.
func luck(ctx context.Context, cfg *config.Config, b gacha.BannerType, bs *BannerSummary, salt uint64) error {
	bc := cfg.Banners
	if bc.LuckTrials <= 0 {
		return nil
	}

	var (
		params sim.Params
		goal   = sim.GoalGold
		runs   int
		pulls  int
	)
	switch b {
	case gacha.BannerCharacterEvent:
		params, goal = bc.Character.Params(), sim.GoalUp
	case gacha.BannerWeaponEvent:
		params = bc.Weapon.Params()
	case gacha.BannerCharacterStd:
		params = bc.Character.Params()
	case gacha.BannerWeaponStd:
		params = bc.Weapon.Params()
	default:
		return nil
	}

	if goal == sim.GoalUp {
		// pulls spent on lost 50-50s count toward the next UP
		pulls, runs = upPulls(bs.Runs)
	} else {
		for _, r := range bs.Runs {
			pulls += r.Pulls
		}
		runs = len(bs.Runs)
	}
	if runs == 0 {
		return nil
	}

	st, err := sim.RunMonteCarlo(ctx, params, goal, runs, bc.LuckTrials, sim.NewSeededRNG(bc.LuckSeed+salt))
	if err != nil {
		return errors.Wrapf(err, "simulate %s", b.Name())
	}
	bs.Luck = st.Luck(float64(pulls) / float64(runs))
	bs.HasLuck = true
	return nil
}

// upPulls sums the pulls of every run up to and including the last UP.
func upPulls(runs []gacha.GoldRun) (pulls, ups int) {
	acc := 0
	for _, r := range runs {
		acc += r.Pulls
		if r.IsUp {
			pulls += acc
			acc = 0
			ups++
		}
	}
	return pulls, ups
}
