package gacha

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rec(id int, ts string) Record {
	return Record{ResourceID: id, QualityLevel: 3, Time: ts}
}

func TestMergeRecordsPrependsNewer(t *testing.T) {
	old := []Record{rec(1, "2024-06-01 10:00:00"), rec(2, "2024-05-01 10:00:00")}
	fetched := []Record{rec(3, "2024-06-02 10:00:00"), rec(1, "2024-06-01 10:00:00")}

	got := MergeRecords(old, fetched)
	assert.Equal(t, []Record{rec(3, "2024-06-02 10:00:00"), old[0], old[1]}, got)
}

func TestMergeRecordsBoundarySecond(t *testing.T) {
	ts := "2024-06-01 10:00:00"
	old := []Record{rec(1, ts), rec(2, ts)}
	fetched := []Record{rec(1, ts), rec(2, ts), rec(5, ts)}

	got := MergeRecords(old, fetched)
	assert.Len(t, got, 3)
	assert.Equal(t, 5, got[0].ResourceID)
}

func TestMergeRecordsEmptySides(t *testing.T) {
	a := []Record{rec(1, "2024-06-01 10:00:00")}
	assert.Equal(t, a, MergeRecords(nil, a))
	assert.Equal(t, a, MergeRecords(a, nil))
}

func TestMergeLogsForce(t *testing.T) {
	name := BannerCharacterEvent.Name()
	old := &LogFile{Data: map[string][]Record{name: {rec(1, "2024-06-01 10:00:00")}}}
	fetched := &LogFile{Info: LogInfo{UID: "100"}, Data: map[string][]Record{name: {rec(9, "2024-01-01 10:00:00")}}}

	merged := MergeLogs(old, fetched, false)
	assert.Len(t, merged.Data[name], 1)
	assert.Equal(t, 1, merged.Data[name][0].ResourceID)

	forced := MergeLogs(old, fetched, true)
	assert.Equal(t, 9, forced.Data[name][0].ResourceID)
	assert.Equal(t, "100", forced.Info.UID)
}
