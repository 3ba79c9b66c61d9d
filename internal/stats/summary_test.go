package stats

import (
	"math"
	"testing"

	"bloodsim/internal/distribution"
	"bloodsim/internal/simulation"
)

func record(period, a, b, ab, o int) simulation.Record {
	rec := simulation.Record{
		Period: period,
		Sampled: map[distribution.Category]int{
			distribution.CategoryA:  a,
			distribution.CategoryB:  b,
			distribution.CategoryAB: ab,
			distribution.CategoryO:  o,
		},
		Total: a + b + ab + o,
	}
	return rec
}

func TestSummarize(t *testing.T) {
	records := []simulation.Record{
		record(1, 10, 5, 1, 20), // total 36
		record(2, 20, 5, 2, 30), // total 57
		record(3, 30, 5, 3, 40), // total 78
	}

	s := Summarize(records)

	if s.Periods != 3 {
		t.Errorf("Periods = %d, want 3", s.Periods)
	}

	a := s.PerCategory[distribution.CategoryA]
	if a.Mean != 20 {
		t.Errorf("A mean = %f, want 20", a.Mean)
	}
	if a.Min != 10 || a.Max != 30 {
		t.Errorf("A min/max = %d/%d, want 10/30", a.Min, a.Max)
	}
	// Sample standard deviation of {10,20,30} is 10.
	if math.Abs(a.StdDev-10) > 1e-9 {
		t.Errorf("A std dev = %f, want 10", a.StdDev)
	}

	b := s.PerCategory[distribution.CategoryB]
	if b.StdDev != 0 {
		t.Errorf("constant series std dev = %f, want 0", b.StdDev)
	}

	if s.Total.Mean != 57 {
		t.Errorf("total mean = %f, want 57", s.Total.Mean)
	}
	if s.Total.Min != 36 || s.Total.Max != 78 {
		t.Errorf("total min/max = %d/%d, want 36/78", s.Total.Min, s.Total.Max)
	}
}

func TestSummarize_PeakAndLowPeriods(t *testing.T) {
	records := []simulation.Record{
		record(1, 10, 10, 10, 10), // 40
		record(2, 30, 30, 30, 30), // 120
		record(3, 5, 5, 5, 5),     // 20
		record(4, 30, 30, 30, 30), // 120 again, peak stays at period 2
	}

	s := Summarize(records)

	if s.Peak.Period != 2 || s.Peak.Total != 120 {
		t.Errorf("peak = period %d total %d, want period 2 total 120", s.Peak.Period, s.Peak.Total)
	}
	if s.Low.Period != 3 || s.Low.Total != 20 {
		t.Errorf("low = period %d total %d, want period 3 total 20", s.Low.Period, s.Low.Total)
	}
	if s.Peak.Sampled[distribution.CategoryA] != 30 {
		t.Errorf("peak composition A = %d, want 30", s.Peak.Sampled[distribution.CategoryA])
	}
}

func TestSummarize_RankingDescending(t *testing.T) {
	records := []simulation.Record{
		record(1, 10, 40, 2, 25),
		record(2, 12, 38, 4, 27),
	}

	s := Summarize(records)

	want := []distribution.Category{
		distribution.CategoryB,
		distribution.CategoryO,
		distribution.CategoryA,
		distribution.CategoryAB,
	}
	if len(s.Ranking) != len(want) {
		t.Fatalf("ranking length %d, want %d", len(s.Ranking), len(want))
	}
	for i, cat := range want {
		if s.Ranking[i].Category != cat {
			t.Errorf("ranking[%d] = %s, want %s", i, s.Ranking[i].Category, cat)
		}
	}
	for i := 1; i < len(s.Ranking); i++ {
		if s.Ranking[i].Mean > s.Ranking[i-1].Mean {
			t.Errorf("ranking not descending at %d", i)
		}
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Periods != 0 || s.Ranking != nil || s.PerCategory != nil {
		t.Errorf("empty input should yield a zero summary, got %+v", s)
	}
}

func TestSummarize_SinglePeriodStdDevIsZero(t *testing.T) {
	s := Summarize([]simulation.Record{record(1, 7, 8, 9, 10)})
	if s.Total.StdDev != 0 {
		t.Errorf("single-record std dev = %f, want 0", s.Total.StdDev)
	}
	if s.Peak.Period != 1 || s.Low.Period != 1 {
		t.Errorf("peak/low of single record = %d/%d, want 1/1", s.Peak.Period, s.Low.Period)
	}
}
