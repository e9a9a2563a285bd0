package attainment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssessmentAverage(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   float64
	}{
		{name: "no scores", scores: nil, want: 0},
		{name: "single score", scores: []float64{72.5}, want: 72.5},
		{name: "two scores", scores: []float64{80, 90}, want: 85},
		{name: "repeating decimal", scores: []float64{70, 70, 71}, want: 70.33},
		{name: "rounds up", scores: []float64{66, 67, 67}, want: 66.67},
		{name: "exact half rounds to even", scores: []float64{85, 85, 85, 85, 85, 85, 85, 86}, want: 85.12},
		{name: "exact half already even", scores: []float64{85, 85, 85, 85, 85, 85, 86, 86, 86, 86, 86, 86, 86, 86, 86, 86}, want: 85.62},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AssessmentAverage(tt.scores))
		})
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.125, 0.12},
		{0.375, 0.38},
		{2.5, 2.5},
		{73.3333, 73.33},
		{66.666, 66.67},
		{-0.125, -0.12},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in), "Round2(%v)", tt.in)
	}
}

func TestWeightedSum(t *testing.T) {
	t.Run("empty sum is zero", func(t *testing.T) {
		var w WeightedSum
		assert.Equal(t, 0.0, w.Mean())
		assert.Equal(t, 0.0, w.Rounded())
	})

	t.Run("non-positive weights contribute nothing", func(t *testing.T) {
		var w WeightedSum
		w.Add(100, 0)
		w.Add(100, -2)
		assert.Equal(t, WeightedSum{}, w)
	})

	t.Run("weighted mean", func(t *testing.T) {
		var w WeightedSum
		w.Add(80, 4)
		w.Add(60, 2)
		assert.Equal(t, 6, w.Denominator)
		assert.Equal(t, 73.33, w.Rounded())
	})

	t.Run("merge pools numerators and denominators", func(t *testing.T) {
		a := WeightedSum{Numerator: 320, Denominator: 4}
		b := WeightedSum{Numerator: 120, Denominator: 2}
		assert.Equal(t, WeightedSum{Numerator: 440, Denominator: 6}, a.Merge(b))
		assert.Equal(t, a.Merge(b), b.Merge(a))
	})
}

func TestWeightedSumMonotonic(t *testing.T) {
	weights := []int{1, 3, 5}
	base := []float64{40, 55, 70}

	mean := func(values []float64) float64 {
		var w WeightedSum
		for i, v := range values {
			w.Add(v, weights[i])
		}
		return w.Rounded()
	}

	before := mean(base)
	for i := range base {
		for _, bump := range []float64{0.01, 1, 12.5, 30} {
			raised := append([]float64(nil), base...)
			raised[i] += bump
			assert.GreaterOrEqual(t, mean(raised), before, "raising input %d by %v", i, bump)
		}
	}
}

func TestPoolScores(t *testing.T) {
	p := make(Pool)
	p.Add("PO1", 80, 4)
	p.Add("PO1", 60, 2)
	p.Add("PO3", 50, 1)

	got := p.Scores([]string{"PO1", "PO2"})
	assert.Equal(t, map[string]float64{"PO1": 73.33, "PO2": 0, "PO3": 50}, got)
}

func TestPoolMergeOrderIndependent(t *testing.T) {
	a := Pool{"PO1": {Numerator: 320, Denominator: 4}, "PO2": {Numerator: 90, Denominator: 1}}
	b := Pool{"PO1": {Numerator: 120, Denominator: 2}}
	c := Pool{"PO2": {Numerator: 150, Denominator: 3}, "PO3": {Numerator: 10, Denominator: 1}}

	abc := make(Pool)
	for _, p := range []Pool{a, b, c} {
		abc.Merge(p)
	}
	cba := make(Pool)
	for _, p := range []Pool{c, b, a} {
		cba.Merge(p)
	}
	assert.Equal(t, abc, cba)

	// Merging per-course pools equals pooling every contribution directly.
	direct := make(Pool)
	direct.Add("PO1", 80, 4)
	direct.Add("PO1", 60, 2)
	ab := make(Pool)
	ab.Merge(Pool{"PO1": {Numerator: 320, Denominator: 4}})
	ab.Merge(Pool{"PO1": {Numerator: 120, Denominator: 2}})
	assert.Equal(t, direct, ab)
}
