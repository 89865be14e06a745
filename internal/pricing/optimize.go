package pricing

import "sort"

// maxFirstTimePacks bounds the subset enumeration over first-purchase doubles.
const maxFirstTimePacks = 12

type variant struct {
	id, name   string
	tok, price int
}

// MinCostAtLeastTokens finds the cheapest combination reaching targetTokens.
// A first-time pack can be bought once at its doubled rate; every pack can be bought
// any number of times at its normal rate.
func MinCostAtLeastTokens(cat Catalog, targetTokens int, first FirstTimeState) Plan {
	plan := Plan{Currency: cat.Currency}
	if targetTokens <= 0 || len(cat.Packs) == 0 {
		return plan
	}

	var normal, doubled []variant
	for _, p := range cat.Packs {
		if p.Tokens+p.BonusTokens > 0 {
			normal = append(normal, variant{p.ID, p.Name, p.Tokens + p.BonusTokens, p.PriceCents})
		}
		if p.FirstTimeX2 && first[p.ID] && p.Tokens > 0 && len(doubled) < maxFirstTimePacks {
			doubled = append(doubled, variant{p.ID + "#x2", p.Name + " (首充双倍)", p.Tokens * 2, p.PriceCents})
		}
	}
	if len(normal) == 0 {
		return plan
	}

	// cost[x] is the cheapest way to get at least x from normal packs
	const inf = int(^uint(0) >> 1)
	cost := make([]int, targetTokens+1)
	pick := make([]int, targetTokens+1)
	for x := 1; x <= targetTokens; x++ {
		cost[x] = inf
		for i, v := range normal {
			rest := max(x-v.tok, 0)
			if cost[rest] == inf {
				continue
			}
			if c := cost[rest] + v.price; c < cost[x] {
				cost[x] = c
				pick[x] = i
			}
		}
	}

	bestMask, bestCost := 0, inf
	for mask := 0; mask < 1<<len(doubled); mask++ {
		price, tok := 0, 0
		for i, v := range doubled {
			if mask&(1<<i) != 0 {
				price += v.price
				tok += v.tok
			}
		}
		rest := max(targetTokens-tok, 0)
		if cost[rest] == inf {
			continue
		}
		if c := price + cost[rest]; c < bestCost {
			bestMask, bestCost = mask, c
		}
	}
	if bestCost == inf {
		return plan
	}

	counts := make(map[variant]int)
	rest := targetTokens
	for i, v := range doubled {
		if bestMask&(1<<i) != 0 {
			counts[v]++
			rest -= v.tok
		}
	}
	for x := max(rest, 0); x > 0; {
		v := normal[pick[x]]
		counts[v]++
		x = max(x-v.tok, 0)
	}

	for v, qty := range counts {
		plan.Purchases = append(plan.Purchases, Purchase{
			PackID:     v.id,
			Name:       v.name,
			Qty:        qty,
			UnitPrice:  v.price,
			UnitTokens: v.tok,
		})
		plan.TotalCents += v.price * qty
		plan.TotalTokens += v.tok * qty
	}
	sort.Slice(plan.Purchases, func(i, j int) bool { return plan.Purchases[i].PackID < plan.Purchases[j].PackID })
	return plan
}
