package gacha

// Aggregate walks events in ascending order and closes a run at every gold pull.
// Closed runs are bucketed by whether the gold item was the banner's UP item.
// The trailing open run counts toward Total and Remain only.
// events must belong to one banner; up may be nil for banners without a featured item.
func Aggregate(banner BannerType, events []PullEvent, up RateUp) BannerStats {
	stats := BannerStats{Banner: banner, Total: len(events)}

	var upSum, offSum int
	since := 0
	for _, e := range events {
		since++
		if !e.Gold() {
			continue
		}
		isUp := up != nil && up.IsRateUp(banner, e.ItemID)
		stats.Runs = append(stats.Runs, GoldRun{ItemID: e.ItemID, Name: e.Name, Pulls: since, IsUp: isUp})
		stats.Gold++

		if isUp {
			upSum += since
			stats.UpCount++
		} else {
			offSum += since
			stats.OffCount++
		}

		if banner.Limited() {
			switch {
			case isUp && e.Guaranteed:
				stats.Guaranteed++
			case isUp:
				stats.Won5050++
			default:
				stats.Lost5050++
			}
		}
		since = 0
	}
	stats.Remain = since

	// no closed runs means 0, never NaN
	if stats.UpCount > 0 {
		stats.AvgUp = float64(upSum) / float64(stats.UpCount)
	}
	if stats.OffCount > 0 {
		stats.Avg = float64(offSum) / float64(stats.OffCount)
	}
	return stats
}

// AggregateAll splits a mixed history by banner and aggregates each banner present.
func AggregateAll(events []PullEvent, up RateUp) map[BannerType]BannerStats {
	byBanner := make(map[BannerType][]PullEvent)
	for _, e := range events {
		byBanner[e.Banner] = append(byBanner[e.Banner], e)
	}
	out := make(map[BannerType]BannerStats, len(byBanner))
	for b, evs := range byBanner {
		out[b] = Aggregate(b, evs, up)
	}
	return out
}
