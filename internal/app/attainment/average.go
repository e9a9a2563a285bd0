package attainment

import "math"

// Round2 rounds to two decimal places, sending exact halves to the even
// neighbour (85.125 -> 85.12).
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// AssessmentAverage is the mean of the scores rounded to two decimals, or 0
// when there are no scores.
func AssessmentAverage(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return Round2(sum / float64(len(scores)))
}

// WeightedSum accumulates a weighted mean as a numerator/denominator pair.
type WeightedSum struct {
	Numerator   float64
	Denominator int
}

// Add folds value*weight into the sum. Non-positive weights are ignored.
func (w *WeightedSum) Add(value float64, weight int) {
	if weight <= 0 {
		return
	}
	w.Numerator += value * float64(weight)
	w.Denominator += weight
}

// Merge returns the pooled sum of w and other.
func (w WeightedSum) Merge(other WeightedSum) WeightedSum {
	return WeightedSum{
		Numerator:   w.Numerator + other.Numerator,
		Denominator: w.Denominator + other.Denominator,
	}
}

// Mean is Numerator/Denominator, or 0 for an empty sum.
func (w WeightedSum) Mean() float64 {
	if w.Denominator == 0 {
		return 0
	}
	return w.Numerator / float64(w.Denominator)
}

// Rounded is Mean rounded to two decimals.
func (w WeightedSum) Rounded() float64 {
	return Round2(w.Mean())
}

// Pool keys weighted sums by outcome code.
type Pool map[string]WeightedSum

// Add folds value*weight into the sum for code.
func (p Pool) Add(code string, value float64, weight int) {
	sum := p[code]
	sum.Add(value, weight)
	p[code] = sum
}

// Merge folds every sum of other into p.
func (p Pool) Merge(other Pool) {
	for code, sum := range other {
		p[code] = p[code].Merge(sum)
	}
}

// Scores returns the rounded mean for every code in codes plus any code the
// pool holds, so outcomes without contributions report 0.
func (p Pool) Scores(codes []string) map[string]float64 {
	out := make(map[string]float64, len(codes))
	for _, code := range codes {
		out[code] = p[code].Rounded()
	}
	for code, sum := range p {
		out[code] = sum.Rounded()
	}
	return out
}
