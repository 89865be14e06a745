package gear

// Stat is one rolled attribute.
type Stat struct {
	Kind  string
	Value float64
}

// Echo is one equipped item: its cost tier and rolled stats in document order.
type Echo struct {
	Cost  int
	Stats []Stat
}

// StatScore is the per-stat breakdown of an item score.
type StatScore struct {
	Stat
	Weight float64
	Score  float64
}

// Calculator applies a WeightTable. Scores depend only on their inputs; the summation
// order follows the stat slices so repeated calls agree bit for bit.
type Calculator struct {
	Weights *WeightTable
}

func NewCalculator(w *WeightTable) Calculator {
	if w == nil {
		w = DefaultWeights()
	}
	return Calculator{Weights: w}
}

// ItemScore = cost factor × Σ weight(charID, kind) × value. An echo with no stats scores 0.
func (c Calculator) ItemScore(charID string, e Echo) (float64, []StatScore) {
	if len(e.Stats) == 0 {
		return 0, nil
	}
	factor := c.Weights.CostFactor(charID, e.Cost)
	breakdown := make([]StatScore, 0, len(e.Stats))
	var sum float64
	for _, s := range e.Stats {
		w := c.Weights.Weight(charID, s.Kind)
		sc := factor * w * s.Value
		breakdown = append(breakdown, StatScore{Stat: s, Weight: w, Score: sc})
		sum += sc
	}
	return sum, breakdown
}

// RoleScore sums the item scores.
func (c Calculator) RoleScore(charID string, echoes []Echo) float64 {
	var total float64
	for _, e := range echoes {
		s, _ := c.ItemScore(charID, e)
		total += s
	}
	return total
}

// Score evaluates one role record. Roles without equipped echoes score 0.
func (c Calculator) Score(r RoleRecord) float64 {
	return c.RoleScore(CharID(r.Role.RoleID), r.Echoes())
}

// ScoreAll maps every role in doc to its score, keyed by CharID.
func (c Calculator) ScoreAll(doc RoleDocument) map[string]float64 {
	out := make(map[string]float64, len(doc))
	for _, r := range doc {
		out[CharID(r.Role.RoleID)] = c.Score(r)
	}
	return out
}
