package gacha

// RateUp decides whether a gold item pulled on a banner was that banner's featured item.
type RateUp interface {
	IsRateUp(banner BannerType, itemID string) bool
}

// StandardPool treats every item that is not in the permanent pool as the featured item.
// Limited banners only offer their UP item and the permanent pool at top rarity, so this
// holds without tracking banner schedules.
type StandardPool struct {
	characters map[string]struct{}
	weapons    map[string]struct{}
}

// NewStandardPool builds a lookup from the permanent character and weapon ids.
func NewStandardPool(characters, weapons []string) *StandardPool {
	sp := &StandardPool{
		characters: make(map[string]struct{}, len(characters)),
		weapons:    make(map[string]struct{}, len(weapons)),
	}
	for _, id := range characters {
		sp.characters[id] = struct{}{}
	}
	for _, id := range weapons {
		sp.weapons[id] = struct{}{}
	}
	return sp
}

// IsRateUp implements RateUp.
func (sp *StandardPool) IsRateUp(banner BannerType, itemID string) bool {
	if !banner.Limited() {
		return false
	}
	set := sp.characters
	if banner.Weapon() {
		set = sp.weapons
	}
	_, std := set[itemID]
	return !std
}
