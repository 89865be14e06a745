package rank

import (
	"sort"

	"github.com/xtding233/waves-rank/internal/gear"
	"github.com/xtding233/waves-rank/internal/playerdata"
)

// UnknownChain marks a role missing from rawData.json. A role present without a
// chainList counts as chain 0.
const UnknownChain = -1

type SlashRole struct {
	RoleID int
	Chain  int
}

type SlashHalf struct {
	Score    int
	BuffIcon string
	BuffName string
	Roles    []SlashRole
}

// SlashRankEntry is one account row of the endless-tower leaderboard.
type SlashRankEntry struct {
	UserID string
	UID    string
	Score  int
	Halves []SlashHalf
	// Gold is Σ(chain+1) over the roles used, skipping roles missing from rawData.json.
	Gold int
}

// NewSlashRankEntry builds a row from the ranked challenge; roles may be nil when
// rawData.json is missing.
func NewSlashRankEntry(userID, uid string, sd *playerdata.SlashDetail, roles gear.RoleDocument) SlashRankEntry {
	e := SlashRankEntry{UserID: userID, UID: uid, Score: sd.Score()}
	c, ok := sd.RankedChallenge()
	if !ok {
		return e
	}
	for _, h := range c.HalfList {
		half := SlashHalf{Score: h.Score, BuffIcon: h.BuffIcon, BuffName: h.BuffName}
		for _, r := range h.RoleList {
			chain := UnknownChain
			if rec, ok := roles.Find(r.RoleID); ok {
				chain, _ = rec.ChainCount()
			}
			if chain != UnknownChain {
				e.Gold += chain + 1
			}
			half.Roles = append(half.Roles, SlashRole{RoleID: r.RoleID, Chain: chain})
		}
		e.Halves = append(e.Halves, half)
	}
	return e
}

// SortSlash orders by Score descending, stable.
func SortSlash(entries []SlashRankEntry) []SlashRankEntry {
	out := append([]SlashRankEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// ScoreTier buckets an endless score for colouring: 0 (<10000) to 5 (>=30000).
func ScoreTier(score int) int {
	switch {
	case score >= 30000:
		return 5
	case score >= 25000:
		return 4
	case score >= 20000:
		return 3
	case score >= 15000:
		return 2
	case score >= 10000:
		return 1
	}
	return 0
}
