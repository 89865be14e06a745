package pricing

// Pack is a purchasable currency bundle.
type Pack struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Tokens      int    `yaml:"tokens"`       // base currency granted
	BonusTokens int    `yaml:"bonus_tokens"` // extra currency on repeat purchases
	FirstTimeX2 bool   `yaml:"first_time_x2"`
	PriceCents  int    `yaml:"price_cents"`
}

// Catalog is a regional price list.
type Catalog struct {
	TokenName string `yaml:"token_name"`
	Currency  string `yaml:"currency"`
	Packs     []Pack `yaml:"packs"`
}

// FirstTimeState marks packs whose first-purchase double is still available.
type FirstTimeState map[string]bool

// AllFirstTime marks every doubling pack in the catalog as unused.
func (c Catalog) AllFirstTime() FirstTimeState {
	st := make(FirstTimeState)
	for _, p := range c.Packs {
		if p.FirstTimeX2 {
			st[p.ID] = true
		}
	}
	return st
}

// Plan is a purchase plan and its totals.
type Plan struct {
	Purchases   []Purchase
	TotalCents  int
	TotalTokens int
	Currency    string
}

// Purchase is one line of a plan.
type Purchase struct {
	PackID     string
	Name       string
	Qty        int
	UnitPrice  int
	UnitTokens int
}
