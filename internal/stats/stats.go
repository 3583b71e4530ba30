// Package stats provides the numeric primitives shared by the cleaner and
// inspector: moments, quantiles, z-scores, correlation, skewness, and the
// bucketing behind the text plots. All sample statistics use the n-1
// (sample) convention.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Finite returns a copy of x with NaN and infinite entries removed.
func Finite(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// Mean returns the arithmetic mean, NaN for an empty sample.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// StdDev returns the sample standard deviation, NaN when fewer than two
// values are available.
func StdDev(x []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.StdDev(x, nil)
}

// Quantile returns the q-th quantile of x for q in [0,1], interpolating
// linearly between order statistics.
func Quantile(x []float64, q float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	s := append([]float64(nil), x...)
	sort.Float64s(s)
	if q <= 0 {
		return s[0]
	}
	if q >= 1 {
		return s[len(s)-1]
	}
	pos := q * float64(len(s)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return s[lo]
	}
	frac := pos - float64(lo)
	return s[lo]*(1-frac) + s[hi]*frac
}

// Median returns the 0.5 quantile.
func Median(x []float64) float64 {
	return Quantile(x, 0.5)
}

// Correlation returns the Pearson correlation of two equal-length samples,
// NaN when undefined.
func Correlation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

// Skewness returns the adjusted Fisher-Pearson skewness coefficient, NaN
// when fewer than three values are available.
func Skewness(x []float64) float64 {
	if len(x) < 3 {
		return math.NaN()
	}
	return stat.Skew(x, nil)
}

// ZScores returns (v - mean) / std per value, where mean and std come from
// the finite entries of x. NaN input cells yield NaN scores, as does every
// cell when the deviation is zero or undefined.
func ZScores(x []float64) []float64 {
	finite := Finite(x)
	mean := Mean(finite)
	std := StdDev(finite)
	out := make([]float64, len(x))
	for i, v := range x {
		if math.IsNaN(v) || math.IsNaN(std) || std == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (v - mean) / std
	}
	return out
}

// Mode returns the most frequent value in values and its count. Ties go to
// the value appearing first. Empty input returns ("", 0).
func Mode(values []string) (string, int) {
	if len(values) == 0 {
		return "", 0
	}
	counts := make(map[string]int, len(values))
	max := 0
	for _, v := range values {
		counts[v]++
		if counts[v] > max {
			max = counts[v]
		}
	}
	for _, v := range values {
		if counts[v] == max {
			return v, max
		}
	}
	return "", 0
}

// Bin is one histogram bucket covering [Lo, Hi); the final bucket of a
// histogram also includes Hi.
type Bin struct {
	Lo, Hi float64
	Count  int
}

// HistogramBins splits the finite entries of x into n equal-width buckets
// over [min, max]. A constant sample collapses to a single full bucket.
// Returns nil when there is nothing to count.
func HistogramBins(x []float64, n int) []Bin {
	vals := Finite(x)
	if len(vals) == 0 || n <= 0 {
		return nil
	}
	sort.Float64s(vals)
	lo, hi := vals[0], vals[len(vals)-1]
	if lo == hi {
		return []Bin{{Lo: lo, Hi: hi, Count: len(vals)}}
	}
	step := (hi - lo) / float64(n)
	dividers := make([]float64, n+1)
	for i := range dividers {
		dividers[i] = lo + float64(i)*step
	}
	// Nudge the last divider past max so the maximum lands in the final
	// bucket (gonum counts half-open intervals).
	dividers[n] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, vals, nil)
	bins := make([]Bin, n)
	for i := range bins {
		hiEdge := lo + float64(i+1)*step
		if i == n-1 {
			hiEdge = hi
		}
		bins[i] = Bin{Lo: lo + float64(i)*step, Hi: hiEdge, Count: int(counts[i])}
	}
	return bins
}

// BoxStats summarizes a sample the way a box plot draws it: quartiles,
// whiskers at 1.5*IQR clamped to observed values, and the points beyond
// the whiskers.
type BoxStats struct {
	Min, Q1, Median, Q3, Max float64
	WhiskerLow, WhiskerHigh  float64
	Outliers                 []float64
}

// Box computes box-plot statistics over the finite entries of x. The second
// return is false when no finite values exist.
func Box(x []float64) (BoxStats, bool) {
	vals := Finite(x)
	if len(vals) == 0 {
		return BoxStats{}, false
	}
	sort.Float64s(vals)
	b := BoxStats{
		Min:    vals[0],
		Q1:     Quantile(vals, 0.25),
		Median: Quantile(vals, 0.5),
		Q3:     Quantile(vals, 0.75),
		Max:    vals[len(vals)-1],
	}
	iqr := b.Q3 - b.Q1
	loFence := b.Q1 - 1.5*iqr
	hiFence := b.Q3 + 1.5*iqr
	b.WhiskerLow, b.WhiskerHigh = b.Max, b.Min
	for _, v := range vals {
		if v >= loFence && v < b.WhiskerLow {
			b.WhiskerLow = v
		}
		if v <= hiFence && v > b.WhiskerHigh {
			b.WhiskerHigh = v
		}
		if v < loFence || v > hiFence {
			b.Outliers = append(b.Outliers, v)
		}
	}
	return b, true
}
