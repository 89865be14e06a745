package rank

import (
	"slices"

	"github.com/xtding233/waves-rank/internal/config"
)

// TokenGate reports whether group rankings in groupID run with login verification,
// which adds a login hint to empty responses.
func TokenGate(cfg *config.Config, groupID string) bool {
	if slices.Contains(cfg.RankNoLimitGroups, groupID) {
		return true
	}
	return slices.Contains(cfg.RankUseTokenGroups, groupID) || cfg.RankUseToken
}
