package domain

import "strconv"

// Statistics summarizes the catalog.
type Statistics struct {
	Total int `json:"total" yaml:"total"`
	Read  int `json:"read" yaml:"read"`

	// PercentRead is nil for an empty catalog
	PercentRead *float64 `json:"percent_read" yaml:"percent_read"`
}

// ComputeStatistics counts read books and derives the read percentage,
// rounded to two decimal places. Exact halves round to even, so 1 of 32
// read is 3.12.
func ComputeStatistics(books []Book) Statistics {
	stats := Statistics{Total: len(books)}
	for _, b := range books {
		if b.Read {
			stats.Read++
		}
	}
	if stats.Total > 0 {
		pct := roundPercent(float64(stats.Read) / float64(stats.Total) * 100)
		stats.PercentRead = &pct
	}
	return stats
}

// roundPercent rounds p to two decimals using the shortest correctly
// rounded decimal form of its exact binary value.
func roundPercent(p float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(p, 'f', 2, 64), 64)
	if err != nil {
		return p
	}
	return rounded
}
