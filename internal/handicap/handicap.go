package handicap

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

const (
	// DefaultBestOf is the number of lowest differentials averaged into an index.
	DefaultBestOf = 8

	// DefaultFactor is the USGA "96%" shaping factor.
	DefaultFactor = 0.96

	// DefaultStandardSlope is the slope rating of a course of standard difficulty.
	DefaultStandardSlope = 113

	// NotAvailable is displayed in place of an absent handicap index.
	NotAvailable = "N/A"
)

// Calculator holds the tunables of the engine. The zero value behaves like
// Default.
type Calculator struct {
	BestOf        int     // Lowest N differentials used (0 = DefaultBestOf)
	Factor        float64 // Shaping factor (0 = DefaultFactor)
	StandardSlope int     // Numerator slope (0 = DefaultStandardSlope)
}

// Default is the calculator used by the package-level functions.
var Default = Calculator{
	BestOf:        DefaultBestOf,
	Factor:        DefaultFactor,
	StandardSlope: DefaultStandardSlope,
}

func (c Calculator) bestOf() int {
	if c.BestOf <= 0 {
		return DefaultBestOf
	}
	return c.BestOf
}

func (c Calculator) factor() decimal.Decimal {
	if c.Factor <= 0 || math.IsNaN(c.Factor) || math.IsInf(c.Factor, 0) {
		return decimal.NewFromFloat(DefaultFactor)
	}
	return decimal.NewFromFloat(c.Factor)
}

func (c Calculator) standardSlope() int64 {
	if c.StandardSlope <= 0 {
		return DefaultStandardSlope
	}
	return int64(c.StandardSlope)
}

// Differential returns the score differential for one round, rounded to one
// decimal place with halves rounded away from zero (12.05 -> 12.1,
// -2.05 -> -2.1). ok is false when slopeRating is zero or courseRating is not
// a finite number.
func (c Calculator) Differential(grossScore int, courseRating float64, slopeRating int) (float64, bool) {
	if slopeRating == 0 || math.IsNaN(courseRating) || math.IsInf(courseRating, 0) {
		return 0, false
	}

	d := decimal.NewFromInt(int64(grossScore)).
		Sub(decimal.NewFromFloat(courseRating)).
		Mul(decimal.NewFromInt(c.standardSlope())).
		Div(decimal.NewFromInt(int64(slopeRating)))

	return d.Round(1).InexactFloat64(), true
}

// HandicapIndex aggregates a differential history into a handicap index.
// NaN and infinite entries are treated as absent and skipped; the input is
// not modified. ok is false when no finite differential remains.
func (c Calculator) HandicapIndex(differentials []float64) (float64, bool) {
	sorted := make([]float64, 0, len(differentials))
	for _, d := range differentials {
		if !math.IsNaN(d) && !math.IsInf(d, 0) {
			sorted = append(sorted, d)
		}
	}
	if len(sorted) == 0 {
		return 0, false
	}
	sort.Float64s(sorted)

	n := c.bestOf()
	if len(sorted) < n {
		n = len(sorted)
	}

	sum := decimal.Zero
	for _, d := range sorted[:n] {
		sum = sum.Add(decimal.NewFromFloat(d))
	}

	// Scale before dividing so terminating means stay exact.
	index := sum.Mul(c.factor()).Div(decimal.NewFromInt(int64(n)))

	return index.RoundFloor(1).InexactFloat64(), true
}

// ComputeDifferential uses the Default calculator.
func ComputeDifferential(grossScore int, courseRating float64, slopeRating int) (float64, bool) {
	return Default.Differential(grossScore, courseRating, slopeRating)
}

// ComputeHandicapIndex uses the Default calculator.
func ComputeHandicapIndex(differentials []float64) (float64, bool) {
	return Default.HandicapIndex(differentials)
}

// Display formats an index for the handicap display surface.
func Display(index float64, ok bool) string {
	if !ok {
		return NotAvailable
	}
	return decimal.NewFromFloat(index).StringFixed(1)
}

// Policy is the runtime handicap configuration: calculator tunables plus
// whether nine-hole rounds count toward the index.
type Policy struct {
	Calculator
	ExcludeNineHole bool
}

// DefaultPolicy counts every round with the Default calculator.
var DefaultPolicy = Policy{Calculator: Default}
