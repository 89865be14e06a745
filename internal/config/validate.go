package config

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/xtding233/waves-rank/internal/gacha/sim"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags and the semantic constraints of the pity models.
func Validate(cfg Config) error {
	var errs []string
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}
	errs = append(errs, validateDraw("banners.character", cfg.Banners.Character)...)
	errs = append(errs, validateDraw("banners.weapon", cfg.Banners.Weapon)...)

	if len(errs) > 0 {
		return errors.Newf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDraw(name string, d DrawConfig) []string {
	var errs []string
	if d.Pity != nil && *d.Pity <= 0 {
		errs = append(errs, name+".pity must be >= 1")
	}
	if d.PBase != nil && (*d.PBase <= 0 || *d.PBase >= 1) {
		errs = append(errs, name+".p_base must be in (0,1)")
	}
	if s := d.Soft; s != nil {
		if s.Target == nil {
			errs = append(errs, name+".soft.target is required")
		} else if *s.Target <= 0 || *s.Target >= 1 {
			errs = append(errs, name+".soft.target must be in (0,1)")
		}
		if s.StartAt == nil && s.StartPct == nil {
			errs = append(errs, name+".soft.start_at or start_pct is required")
		}
		if d.Pity != nil && s.StartAt != nil && (*s.StartAt < 0 || *s.StartAt >= *d.Pity-1) {
			errs = append(errs, name+".soft.start_at must satisfy 0 <= start_at < pity-1")
		}
		if s.StartPct != nil && (*s.StartPct < 0 || *s.StartPct > 1) {
			errs = append(errs, name+".soft.start_pct must be in [0,1]")
		}
		switch sim.Easing(s.Easing) {
		case "", sim.EaseLinear, sim.EaseOutQuad, sim.EaseInOutCubic:
		default:
			errs = append(errs, name+".soft.easing unknown: "+s.Easing)
		}
	}
	for i, p := range d.OffProbs {
		if !(p > 0 && p < 1) {
			errs = append(errs, fmt.Sprintf("%s.off_probs[%d] must be in (0,1)", name, i))
		}
	}
	if d.MaxOff < 0 {
		errs = append(errs, name+".max_off must be >= 0")
	}
	return errs
}
