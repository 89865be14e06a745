package rank

import (
	"math"
	"sort"
	"strings"

	"github.com/xtding233/waves-rank/internal/gear"
)

// Practice thresholds by grade.
const (
	ThresholdSS = 195
	ThresholdS  = 175
	ThresholdA  = 150
)

// ParseThreshold maps "ss", "s" and "a" to thresholds; anything else yields def.
func ParseThreshold(text string, def int) int {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "ss":
		return ThresholdSS
	case "s":
		return ThresholdS
	case "a":
		return ThresholdA
	}
	return def
}

func ThresholdLabel(th int) string {
	switch th {
	case ThresholdSS:
		return "SS"
	case ThresholdA:
		return "A"
	}
	return "S"
}

// PracticeRankEntry is one account row of the practice leaderboard.
type PracticeRankEntry struct {
	UserID     string
	UID        string
	TotalScore float64
	Roles      []gear.RoleRecord // qualifying roles, detail only
}

// RoleScore is a role with its gear score for display.
type RoleScore struct {
	Role  gear.RoleRecord
	Score float64
}

// TopRoles rescores the qualifying roles and returns the best n, highest first.
// Roles without equipped echoes are left out.
func (e PracticeRankEntry) TopRoles(calc gear.Calculator, n int) []RoleScore {
	out := make([]RoleScore, 0, len(e.Roles))
	for _, r := range e.Roles {
		if len(r.Echoes()) == 0 {
			continue
		}
		out = append(out, RoleScore{Role: r, Score: calc.Score(r)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// qualifying sums the scores at or above threshold and returns the qualifying ids.
func qualifying(scores map[string]float64, threshold int) (float64, map[string]bool) {
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var total float64
	valid := make(map[string]bool)
	for _, id := range ids {
		if s := scores[id]; s >= float64(threshold) {
			total += s
			valid[id] = true
		}
	}
	return math.Round(total*100) / 100, valid
}

// SortPractice orders by TotalScore descending, stable.
func SortPractice(entries []PracticeRankEntry) []PracticeRankEntry {
	out := append([]PracticeRankEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalScore > out[j].TotalScore })
	return out
}
