package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCatalog = Catalog{
	TokenName: "月相",
	Currency:  "CNY",
	Packs: []Pack{
		{ID: "60", Name: "60月相", Tokens: 60, PriceCents: 600, FirstTimeX2: true},
		{ID: "300", Name: "300月相", Tokens: 300, BonusTokens: 30, PriceCents: 3000, FirstTimeX2: true},
		{ID: "6480", Name: "6480月相", Tokens: 6480, BonusTokens: 1600, PriceCents: 64800, FirstTimeX2: true},
	},
}

func TestMinCostEmpty(t *testing.T) {
	assert.Empty(t, MinCostAtLeastTokens(testCatalog, 0, nil).Purchases)
	assert.Empty(t, MinCostAtLeastTokens(Catalog{}, 100, nil).Purchases)
}

func TestMinCostWithoutFirstTime(t *testing.T) {
	plan := MinCostAtLeastTokens(testCatalog, 120, nil)
	require.Len(t, plan.Purchases, 1)
	assert.Equal(t, "60", plan.Purchases[0].PackID)
	assert.Equal(t, 2, plan.Purchases[0].Qty)
	assert.Equal(t, 1200, plan.TotalCents)
	assert.GreaterOrEqual(t, plan.TotalTokens, 120)
}

func TestMinCostUsesFirstTimeDouble(t *testing.T) {
	plan := MinCostAtLeastTokens(testCatalog, 120, testCatalog.AllFirstTime())
	require.Len(t, plan.Purchases, 1)
	assert.Equal(t, "60#x2", plan.Purchases[0].PackID)
	assert.Equal(t, 600, plan.TotalCents)
}

func TestMinCostReachesTarget(t *testing.T) {
	for _, target := range []int{1, 159, 12800, 40000} {
		plan := MinCostAtLeastTokens(testCatalog, target, testCatalog.AllFirstTime())
		assert.GreaterOrEqual(t, plan.TotalTokens, target, "target %d", target)
		assert.Positive(t, plan.TotalCents)
	}
}
