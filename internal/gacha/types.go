package gacha

import "time"

// BannerType identifies a convene pool. Values follow the upstream cardPoolType codes.
type BannerType int

const (
	BannerCharacterEvent BannerType = 1 // limited character convene
	BannerWeaponEvent    BannerType = 2 // limited weapon convene
	BannerCharacterStd   BannerType = 3 // permanent character convene
	BannerWeaponStd      BannerType = 4 // permanent weapon convene
	BannerBeginner       BannerType = 5
	BannerBeginnerChoice BannerType = 6
	BannerGiftChoice     BannerType = 7
)

// TopRarity is the quality level counted as a gold pull.
const TopRarity = 5

var bannerNames = map[BannerType]string{
	BannerCharacterEvent: "角色精准调谐",
	BannerWeaponEvent:    "武器精准调谐",
	BannerCharacterStd:   "角色调谐（常驻池）",
	BannerWeaponStd:      "武器调谐（常驻池）",
	BannerBeginner:       "新手调谐",
	BannerBeginnerChoice: "新手自选唤取",
	BannerGiftChoice:     "新手自选唤取（感恩定向唤取）",
}

// AllBanners lists banner types in upstream query order.
var AllBanners = []BannerType{
	BannerCharacterEvent,
	BannerWeaponEvent,
	BannerCharacterStd,
	BannerWeaponStd,
	BannerBeginner,
	BannerBeginnerChoice,
	BannerGiftChoice,
}

// Name returns the display name used in chat replies and log files.
func (b BannerType) Name() string {
	if n, ok := bannerNames[b]; ok {
		return n
	}
	return "未知卡池"
}

// Limited reports whether the banner has a featured (UP) item and a 50-50.
func (b BannerType) Limited() bool {
	return b == BannerCharacterEvent || b == BannerWeaponEvent
}

// Weapon reports whether the banner pulls weapons.
func (b BannerType) Weapon() bool {
	return b == BannerWeaponEvent || b == BannerWeaponStd
}

// PullEvent is one recorded draw. Seq is ascending in pull order.
type PullEvent struct {
	Banner     BannerType
	Seq        int
	Time       time.Time
	Rarity     int
	ItemID     string
	Name       string
	Guaranteed bool // the pull was forced UP by a previously lost 50-50
}

// Gold reports whether the event is a top-rarity pull.
func (e PullEvent) Gold() bool {
	return e.Rarity >= TopRarity
}

// GoldRun is one closed run: the pulls spent to reach a top-rarity item.
type GoldRun struct {
	ItemID string
	Name   string
	Pulls  int
	IsUp   bool
}

// BannerStats is the derived per-banner view of one player's history.
type BannerStats struct {
	Banner     BannerType
	Total      int     // all pulls, including the trailing open run
	Gold       int     // top-rarity pulls
	Remain     int     // pulls since the last gold
	Avg        float64 // mean pulls over closed runs ending in an off-banner item
	AvgUp      float64 // mean pulls over closed runs ending in the UP item
	UpCount    int
	OffCount   int
	Won5050    int
	Lost5050   int
	Guaranteed int
	Runs       []GoldRun
}

// RankAvg is the average used when ranking: AvgUp when any UP run exists, else Avg.
func (s BannerStats) RankAvg() float64 {
	if s.AvgUp != 0 {
		return s.AvgUp
	}
	return s.Avg
}
