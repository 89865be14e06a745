package gacha

// MergeRecords combines a stored newest-first history with a freshly fetched one.
// The upstream window is shorter than the stored history, so old records are kept and
// only pulls newer than the stored head are prepended. Multi-pulls share a timestamp;
// at the boundary second the extra fetched records beyond the stored count are taken.
func MergeRecords(old, fetched []Record) []Record {
	if len(old) == 0 {
		return append([]Record(nil), fetched...)
	}
	if len(fetched) == 0 {
		return append([]Record(nil), old...)
	}

	head := old[0].Time
	oldAtHead := 0
	for _, r := range old {
		if r.Time != head {
			break
		}
		oldAtHead++
	}

	// the fixed-width layout compares lexicographically
	var fresh []Record
	fetchedAtHead := 0
	for _, r := range fetched {
		switch {
		case r.Time > head:
			fresh = append(fresh, r)
		case r.Time == head:
			fetchedAtHead++
			if fetchedAtHead > oldAtHead {
				fresh = append(fresh, r)
			}
		}
	}

	out := make([]Record, 0, len(fresh)+len(old))
	out = append(out, fresh...)
	out = append(out, old...)
	return out
}

// MergeLogs merges every banner of fetched into old. When force is set the fetched
// history replaces the stored one for banners present in fetched.
func MergeLogs(old, fetched *LogFile, force bool) *LogFile {
	out := &LogFile{Data: make(map[string][]Record)}
	if fetched != nil {
		out.Info = fetched.Info
	} else if old != nil {
		out.Info = old.Info
	}
	if old != nil {
		for k, v := range old.Data {
			out.Data[k] = append([]Record(nil), v...)
		}
	}
	if fetched == nil {
		return out
	}
	for k, v := range fetched.Data {
		if force {
			out.Data[k] = append([]Record(nil), v...)
			continue
		}
		out.Data[k] = MergeRecords(out.Data[k], v)
	}
	return out
}
