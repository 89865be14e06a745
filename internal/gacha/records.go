package gacha

import (
	"strconv"
	"time"
)

// TimeLayout is the upstream record timestamp format (server local time, UTC+8).
const TimeLayout = "2006-01-02 15:04:05"

var serverZone = time.FixedZone("UTC+8", 8*3600)

// Record is one pull as returned by the upstream gacha API and stored in gacha_logs.json.
type Record struct {
	CardPoolType string `json:"cardPoolType"`
	ResourceID   int    `json:"resourceId"`
	QualityLevel int    `json:"qualityLevel"`
	ResourceType string `json:"resourceType"`
	Name         string `json:"name"`
	Count        int    `json:"count"`
	Time         string `json:"time"`
}

// LogInfo is the header of a stored gacha log.
type LogInfo struct {
	UID        string `json:"uid"`
	ExportTime string `json:"export_time"`
	Version    string `json:"version"`
}

// LogFile is the whole gacha_logs.json document. Each list is newest first.
type LogFile struct {
	Info LogInfo             `json:"info"`
	Data map[string][]Record `json:"data"`
}

// Records returns the stored list for one banner.
func (f *LogFile) Records(b BannerType) []Record {
	if f == nil || f.Data == nil {
		return nil
	}
	return f.Data[b.Name()]
}

// Total counts pulls across all banners.
func (f *LogFile) Total() int {
	if f == nil {
		return 0
	}
	n := 0
	for _, recs := range f.Data {
		n += len(recs)
	}
	return n
}

// ParseTime parses a record timestamp; malformed values yield the zero time.
func ParseTime(s string) time.Time {
	t, err := time.ParseInLocation(TimeLayout, s, serverZone)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Events converts newest-first records into ascending PullEvents.
// Guaranteed is derived from the sequence: on a limited banner the gold after an
// off-banner gold is forced UP.
func Events(banner BannerType, records []Record, up RateUp) []PullEvent {
	events := make([]PullEvent, 0, len(records))
	guaranteed := false
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		e := PullEvent{
			Banner: banner,
			Seq:    len(events),
			Time:   ParseTime(r.Time),
			Rarity: r.QualityLevel,
			ItemID: strconv.Itoa(r.ResourceID),
			Name:   r.Name,
		}
		if e.Gold() && banner.Limited() {
			e.Guaranteed = guaranteed
			isUp := up != nil && up.IsRateUp(banner, e.ItemID)
			guaranteed = !isUp
		}
		events = append(events, e)
	}
	return events
}

// Stats aggregates every banner stored in the log file.
func (f *LogFile) Stats(up RateUp) map[BannerType]BannerStats {
	var events []PullEvent
	for _, b := range AllBanners {
		events = append(events, Events(b, f.Records(b), up)...)
	}
	return AggregateAll(events, up)
}
