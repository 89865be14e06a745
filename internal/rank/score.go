package rank

import (
	"sort"

	"github.com/xtding233/waves-rank/internal/gacha"
)

// Expected pulls per gold on the character and weapon banners; they put both banners
// on one scale.
const (
	charExpected   = 81
	weaponExpected = 54
	// NoGoldWeighted sorts players without any gold to the unlucky end.
	NoGoldWeighted = 1000.0
)

// Weighted is the cross-banner luck score, lower is luckier:
// (charAvg*charGold + weaponAvg*weaponGold) / (81*charGold + 54*weaponGold) * 100.
func Weighted(charAvg, weaponAvg float64, charGold, weaponGold int) float64 {
	den := float64(charExpected*charGold + weaponExpected*weaponGold)
	if den <= 0 {
		return NoGoldWeighted
	}
	return (charAvg*float64(charGold) + weaponAvg*float64(weaponGold)) / den * 100
}

// GachaRankEntry is one account row of the gacha leaderboard.
type GachaRankEntry struct {
	UserID      string
	UID         string
	CharAvg     float64
	WeaponAvg   float64
	CharGold    int
	WeaponGold  int
	CharTotal   int
	WeaponTotal int
	TotalCount  int
	Weighted    float64
}

// NewGachaRankEntry reads the limited character and weapon banners out of stats.
func NewGachaRankEntry(userID, uid string, stats map[gacha.BannerType]gacha.BannerStats) GachaRankEntry {
	c := stats[gacha.BannerCharacterEvent]
	w := stats[gacha.BannerWeaponEvent]
	e := GachaRankEntry{
		UserID:      userID,
		UID:         uid,
		CharAvg:     c.RankAvg(),
		WeaponAvg:   w.RankAvg(),
		CharGold:    c.Gold,
		WeaponGold:  w.Gold,
		CharTotal:   c.Total,
		WeaponTotal: w.Total,
		TotalCount:  c.Total + w.Total,
	}
	e.Weighted = Weighted(e.CharAvg, e.WeaponAvg, e.CharGold, e.WeaponGold)
	return e
}

// FilterMinPulls keeps entries with at least min pulls.
func FilterMinPulls(entries []GachaRankEntry, min int) []GachaRankEntry {
	out := make([]GachaRankEntry, 0, len(entries))
	for _, e := range entries {
		if e.TotalCount >= min {
			out = append(out, e)
		}
	}
	return out
}

// SortGacha orders by Weighted ascending, or descending when reverse. Ties keep
// their input order either way.
func SortGacha(entries []GachaRankEntry, reverse bool) []GachaRankEntry {
	out := append([]GachaRankEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if reverse {
			return out[i].Weighted > out[j].Weighted
		}
		return out[i].Weighted < out[j].Weighted
	})
	return out
}
