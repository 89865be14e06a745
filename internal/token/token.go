package token

// Token describes the currency spent per convene.
type Token struct {
	Name       string // e.g. "星声"
	PerDraw    int    // cost of a single pull, 160 for every banner
	PerTenDraw int    // optional; 0 means 10 * PerDraw
}

// Astrite is the premium currency every banner charges.
var Astrite = Token{Name: "星声", PerDraw: 160}

// TokensForDraws returns the currency needed for n pulls, using ten-pull pricing where it applies.
func (t Token) TokensForDraws(n int) int {
	if n <= 0 {
		return 0
	}
	if t.PerTenDraw > 0 {
		return n/10*t.PerTenDraw + n%10*t.PerDraw
	}
	return n * t.PerDraw
}
