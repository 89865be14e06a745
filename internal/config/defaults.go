package config

import (
	"time"

	"github.com/xtding233/waves-rank/internal/pricing"
)

func ptr[T any](v T) *T { return &v }

// Default returns the built-in configuration that YAML files are merged over.
func Default() Config {
	return Config{
		Prefix:       "ww",
		DataDir:      "./data/XutheringWavesUID",
		GachaRankMin: 500,
		QQPicCache:   true,
		Rank: RankConfig{
			DisplayLimit:      20,
			PracticeThreshold: 175,
			PracticeTopRoles:  8,
			Concurrency:       8,
		},
		API: APIConfig{
			GachaURL:       "https://gmserver-api.aki-game2.com/gacha/record/query",
			AvatarURL:      "https://q1.qlogo.cn/g?b=qq&nk=%s&s=100",
			ServerID:       "76402e5b20be2c39f095a152090afddc",
			LanguageCode:   "zh-Hans",
			Timeout:        10 * time.Second,
			ImportCooldown: 10 * time.Second,
			RateLimit:      2,
		},
		Bind: BindConfig{
			Driver: "sqlite",
			DSN:    "./data/waves_bind.db",
		},
		Render: RenderConfig{
			Timeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 14,
		},
		HTTP: HTTPConfig{Addr: ":8765"},
		Pools: PoolConfig{
			StandardCharacters: []string{"1104", "1203", "1301", "1405", "1503"},
			StandardWeapons:    []string{"21010015", "21020015", "21030015", "21040015", "21050015"},
		},
		Banners: BannersConfig{
			Character: DrawConfig{
				PBase:    ptr(0.008),
				Pity:     ptr(80),
				Soft:     &SoftCfg{StartAt: ptr(65), Target: ptr(0.6)},
				OffProbs: []float64{0.5},
				MaxOff:   1,
			},
			Weapon: DrawConfig{
				PBase: ptr(0.008),
				Pity:  ptr(80),
				Soft:  &SoftCfg{StartAt: ptr(65), Target: ptr(0.6)},
			},
			LuckTrials: 2000,
			LuckSeed:   20240523,
		},
		Pricing: pricing.Catalog{
			TokenName: "月相",
			Currency:  "CNY",
			Packs: []pricing.Pack{
				{ID: "60", Name: "60月相", Tokens: 60, PriceCents: 600, FirstTimeX2: true},
				{ID: "300", Name: "300月相", Tokens: 300, BonusTokens: 30, PriceCents: 3000, FirstTimeX2: true},
				{ID: "980", Name: "980月相", Tokens: 980, BonusTokens: 110, PriceCents: 9800, FirstTimeX2: true},
				{ID: "1980", Name: "1980月相", Tokens: 1980, BonusTokens: 260, PriceCents: 19800, FirstTimeX2: true},
				{ID: "3280", Name: "3280月相", Tokens: 3280, BonusTokens: 600, PriceCents: 32800, FirstTimeX2: true},
				{ID: "6480", Name: "6480月相", Tokens: 6480, BonusTokens: 1600, PriceCents: 64800, FirstTimeX2: true},
			},
		},
	}
}
