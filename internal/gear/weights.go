package gear

import (
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// WeightSet values each stat kind and scales an echo by its cost.
type WeightSet struct {
	Stats map[string]float64 `yaml:"stats"`
	Cost  map[int]float64    `yaml:"cost"`
}

// WeightTable holds the default valuation plus per-character overrides. A character
// entry overrides individual kinds; kinds it does not name fall back to the default.
type WeightTable struct {
	Default    WeightSet            `yaml:"default"`
	Characters map[string]WeightSet `yaml:"characters"`
}

// Weight returns the multiplier for kind on charID. Unknown kinds are worth 0.
func (t *WeightTable) Weight(charID, kind string) float64 {
	if ws, ok := t.Characters[charID]; ok {
		if w, ok := ws.Stats[kind]; ok {
			return w
		}
	}
	return t.Default.Stats[kind]
}

// CostFactor scales one echo by cost. Missing entries are 1.
func (t *WeightTable) CostFactor(charID string, cost int) float64 {
	if ws, ok := t.Characters[charID]; ok {
		if f, ok := ws.Cost[cost]; ok {
			return f
		}
	}
	if f, ok := t.Default.Cost[cost]; ok {
		return f
	}
	return 1
}

// LoadWeightTable reads a YAML weight file. An empty path yields DefaultWeights.
func LoadWeightTable(path string) (*WeightTable, error) {
	if path == "" {
		return DefaultWeights(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read weights %s", path)
	}
	t := DefaultWeights()
	if err := yaml.Unmarshal(b, t); err != nil {
		return nil, errors.Wrapf(err, "parse weights %s", path)
	}
	if err := t.Default.validate(); err != nil {
		return nil, errors.Wrapf(err, "weights %s: default", path)
	}
	for id, ws := range t.Characters {
		if err := ws.validate(); err != nil {
			return nil, errors.Wrapf(err, "weights %s: character %s", path, id)
		}
	}
	return t, nil
}

// scores must stay non-negative
func (ws WeightSet) validate() error {
	for kind, w := range ws.Stats {
		if w < 0 {
			return errors.Newf("kind %s is negative", kind)
		}
	}
	for cost, f := range ws.Cost {
		if f < 0 {
			return errors.Newf("cost %d factor is negative", cost)
		}
	}
	return nil
}

// DefaultWeights is a generic crit/attack valuation for damage dealers.
func DefaultWeights() *WeightTable {
	stats := map[string]float64{
		"暴击":       2.0,
		"暴击伤害":     1.0,
		"攻击%":      1.0,
		"攻击":       0.05,
		"共鸣效率":     0.4,
		"普攻伤害加成":   0.5,
		"重击伤害加成":   0.5,
		"共鸣技能伤害加成": 0.5,
		"共鸣解放伤害加成": 0.5,
	}
	for _, elem := range []string{"冷凝", "热熔", "导电", "气动", "衍射", "湮灭"} {
		stats[elem+"伤害加成"] = 0.8
	}
	return &WeightTable{
		Default: WeightSet{
			Stats: stats,
			Cost:  map[int]float64{1: 0.6, 3: 0.55, 4: 0.5},
		},
		Characters: map[string]WeightSet{},
	}
}

// CharID renders a numeric role id the way cache files key it.
func CharID(roleID int) string { return strconv.Itoa(roleID) }
