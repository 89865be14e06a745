package config

import (
	"time"

	"github.com/xtding233/waves-rank/internal/pricing"
)

// Config is the plugin configuration loaded from YAML.
type Config struct {
	Prefix  string `yaml:"prefix" validate:"required"`
	DataDir string `yaml:"data_dir" validate:"required"`

	// ranking gates
	GachaRankMin       int      `yaml:"gacha_rank_min" validate:"gte=0"`
	RankNoLimitGroups  []string `yaml:"rank_no_limit_groups"`
	RankUseTokenGroups []string `yaml:"rank_use_token_groups"`
	RankUseToken       bool     `yaml:"rank_use_token"`
	QQPicCache         bool     `yaml:"qq_pic_cache"`
	WavesToken         string   `yaml:"waves_token"`

	Rank    RankConfig      `yaml:"rank"`
	API     APIConfig       `yaml:"api"`
	Bind    BindConfig      `yaml:"bind"`
	Render  RenderConfig    `yaml:"render"`
	Log     LogConfig       `yaml:"log"`
	HTTP    HTTPConfig      `yaml:"http"`
	Pools   PoolConfig      `yaml:"pools"`
	Banners BannersConfig   `yaml:"banners"`
	Gear    GearConfig      `yaml:"gear"`
	Pricing pricing.Catalog `yaml:"pricing"`
}

type RankConfig struct {
	DisplayLimit      int `yaml:"display_limit" validate:"gte=1"`
	PracticeThreshold int `yaml:"practice_threshold" validate:"gte=0"`
	PracticeTopRoles  int `yaml:"practice_top_roles" validate:"gte=1"`
	Concurrency       int `yaml:"concurrency" validate:"gte=1"`
}

type APIConfig struct {
	GachaURL       string        `yaml:"gacha_url" validate:"required,url"`
	SlashRankURL   string        `yaml:"slash_rank_url" validate:"omitempty,url"`
	AvatarURL      string        `yaml:"avatar_url" validate:"required"` // fmt pattern taking the QQ id
	ServerID       string        `yaml:"server_id"`
	LanguageCode   string        `yaml:"language_code"`
	Timeout        time.Duration `yaml:"timeout" validate:"gt=0"`
	ImportCooldown time.Duration `yaml:"import_cooldown" validate:"gte=0"`
	RateLimit      float64       `yaml:"rate_limit" validate:"gte=0"` // upstream requests per second, 0 disables
}

type BindConfig struct {
	Driver string `yaml:"driver" validate:"oneof=sqlite postgres"`
	DSN    string `yaml:"dsn" validate:"required"`
}

type RenderConfig struct {
	Addr    string        `yaml:"addr"` // empty disables image output
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

type LogConfig struct {
	Level      string `yaml:"level" validate:"oneof=debug info warn error"`
	Format     string `yaml:"format" validate:"oneof=json console"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"max_age_days" validate:"gte=0"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// PoolConfig lists permanent-pool ids; anything else gold on a limited banner is UP.
type PoolConfig struct {
	StandardCharacters []string `yaml:"standard_characters"`
	StandardWeapons    []string `yaml:"standard_weapons"`
}

type GearConfig struct {
	WeightsFile string `yaml:"weights_file"`
}

// BannersConfig carries the pity model used for luck estimates.
type BannersConfig struct {
	Character  DrawConfig `yaml:"character"`
	Weapon     DrawConfig `yaml:"weapon"`
	LuckTrials int        `yaml:"luck_trials" validate:"gte=0"`
	LuckSeed   uint64     `yaml:"luck_seed"`
}

type DrawConfig struct {
	PBase    *float64  `yaml:"p_base"`
	Pity     *int      `yaml:"pity"`
	Soft     *SoftCfg  `yaml:"soft,omitempty"`
	OffProbs []float64 `yaml:"off_probs"`
	MaxOff   int       `yaml:"max_off"`
}

type SoftCfg struct {
	StartAt  *int     `yaml:"start_at,omitempty"`
	StartPct *float64 `yaml:"start_pct,omitempty"`
	Target   *float64 `yaml:"target,omitempty"`
	Easing   string   `yaml:"easing,omitempty"`
}
