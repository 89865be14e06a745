package rank

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/waves-rank/internal/gear"
	"github.com/xtding233/waves-rank/internal/playerdata"
)

func TestNewSlashRankEntryChainListAbsent(t *testing.T) {
	var roles gear.RoleDocument
	require.NoError(t, json.Unmarshal([]byte(`[{"role":{"roleId":101,"starLevel":5}}]`), &roles))
	sd := &playerdata.SlashDetail{IsUnlock: true, DifficultyList: []playerdata.SlashDifficulty{{
		Difficulty: 2,
		ChallengeList: []playerdata.SlashChallenge{{HalfList: []playerdata.SlashHalf{
			{Score: 100, RoleList: []playerdata.SlashRole{{RoleID: 101}, {RoleID: 102}}},
		}}},
	}}}

	e := NewSlashRankEntry("1", "100", sd, roles)
	require.Len(t, e.Halves, 1)
	assert.Equal(t, 0, e.Halves[0].Roles[0].Chain)
	assert.Equal(t, UnknownChain, e.Halves[0].Roles[1].Chain)
	assert.Equal(t, 1, e.Gold)
	assert.Equal(t, roles.FiveStarGold(), e.Gold)
}
