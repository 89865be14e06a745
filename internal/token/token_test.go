package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokensForDraws(t *testing.T) {
	assert.Zero(t, Astrite.TokensForDraws(0))
	assert.Equal(t, 160, Astrite.TokensForDraws(1))
	assert.Equal(t, 12800, Astrite.TokensForDraws(80))

	discounted := Token{PerDraw: 160, PerTenDraw: 1440}
	assert.Equal(t, 1440*2+160*3, discounted.TokensForDraws(23))
}
