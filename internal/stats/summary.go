// Package stats computes summary views over simulation results: per-group
// aggregates, extreme periods, and the average-usage ranking consumed by
// the presentation surfaces.
package stats

import (
	"math"
	"sort"

	"bloodsim/internal/distribution"
	"bloodsim/internal/simulation"
)

// SeriesStats describes one demand series across all simulated periods.
type SeriesStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
}

// PeriodExtreme identifies the period with the highest or lowest total
// usage, with its composition.
type PeriodExtreme struct {
	Period  int                           `json:"period"`
	Total   int                           `json:"total"`
	Sampled map[distribution.Category]int `json:"sampled"`
}

// CategoryUsage pairs a blood group with its mean usage per period.
type CategoryUsage struct {
	Category distribution.Category `json:"category"`
	Mean     float64               `json:"mean"`
}

// Summary aggregates a full simulation run.
type Summary struct {
	Periods     int                                   `json:"periods"`
	PerCategory map[distribution.Category]SeriesStats `json:"per_category"`
	Total       SeriesStats                           `json:"total"`
	Peak        PeriodExtreme                         `json:"peak"`
	Low         PeriodExtreme                         `json:"low"`
	Ranking     []CategoryUsage                       `json:"ranking"`
}

// Summarize computes the summary for an ordered sequence of records.
// Ties on the total go to the earliest period. An empty input yields a
// zero Summary.
func Summarize(records []simulation.Record) Summary {
	if len(records) == 0 {
		return Summary{}
	}

	perCat := make(map[distribution.Category][]int, len(distribution.Categories))
	totals := make([]int, 0, len(records))
	peak, low := records[0], records[0]

	for _, rec := range records {
		for _, cat := range distribution.Categories {
			perCat[cat] = append(perCat[cat], rec.Sampled[cat])
		}
		totals = append(totals, rec.Total)
		if rec.Total > peak.Total {
			peak = rec
		}
		if rec.Total < low.Total {
			low = rec
		}
	}

	summary := Summary{
		Periods:     len(records),
		PerCategory: make(map[distribution.Category]SeriesStats, len(distribution.Categories)),
		Total:       seriesStats(totals),
		Peak:        PeriodExtreme{Period: peak.Period, Total: peak.Total, Sampled: peak.Sampled},
		Low:         PeriodExtreme{Period: low.Period, Total: low.Total, Sampled: low.Sampled},
	}

	ranking := make([]CategoryUsage, 0, len(distribution.Categories))
	for _, cat := range distribution.Categories {
		s := seriesStats(perCat[cat])
		summary.PerCategory[cat] = s
		ranking = append(ranking, CategoryUsage{Category: cat, Mean: s.Mean})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Mean > ranking[j].Mean
	})
	summary.Ranking = ranking

	return summary
}

// seriesStats folds one integer series. StdDev is the sample standard
// deviation (n-1 denominator) and 0 for fewer than two values.
func seriesStats(values []int) SeriesStats {
	if len(values) == 0 {
		return SeriesStats{}
	}

	sum := 0
	min, max := values[0], values[0]
	for _, v := range values {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean := float64(sum) / float64(len(values))

	variance := 0.0
	if len(values) > 1 {
		for _, v := range values {
			d := float64(v) - mean
			variance += d * d
		}
		variance /= float64(len(values) - 1)
	}

	return SeriesStats{
		Mean:   mean,
		StdDev: math.Sqrt(variance),
		Min:    min,
		Max:    max,
	}
}
