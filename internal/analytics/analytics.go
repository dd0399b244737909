// Package analytics derives performance statistics from a fund's price series.
//
// Inputs and outputs are fixed-point decimals. The only floating-point steps
// are the power in CAGR and the square root in the standard deviation; both
// results are re-quantized to Scale places before they leave this package.
package analytics

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/josh-kwaku/fund-ledger/internal/domain"
)

// Scale is the number of decimal places every exported result is rounded to.
const Scale int32 = 6

const (
	daysPerYear       = 365.25
	periodsPerYear    = 12
	monthlySamples    = 12
	hoursPerDay       = 24
	divisionPrecision = 16
)

// Report is the analytics summary for one price series. PointCount and
// SampleCount let callers tell a degenerate zero (too little data, flat
// prices) from a measured one.
type Report struct {
	CAGR              decimal.Decimal
	SharpeRatio       decimal.Decimal
	StandardDeviation decimal.Decimal
	OneYearReturn     decimal.Decimal
	PointCount        int
	SampleCount       int
}

// Compute summarises series, which must be in ascending date order with one
// point per date. Fewer than two points yields an all-zero report.
func Compute(series []domain.PricePoint, annualRiskFree decimal.Decimal) Report {
	r := Report{
		CAGR:              decimal.Zero,
		SharpeRatio:       decimal.Zero,
		StandardDeviation: decimal.Zero,
		OneYearReturn:     decimal.Zero,
		PointCount:        len(series),
	}
	if len(series) < 2 {
		return r
	}

	first, last := series[0], series[len(series)-1]
	r.CAGR = CAGR(first.Price, last.Price, YearsBetween(first.Date, last.Date))
	r.OneYearReturn = PeriodReturn(first.Price, last.Price)

	returns := MonthlyReturns(series)
	r.SampleCount = len(returns)
	if len(returns) >= 2 {
		r.SharpeRatio = SharpeRatio(returns, annualRiskFree)
		r.StandardDeviation = StandardDeviation(returns)
	}
	return r
}

// PeriodReturn is (newPrice - oldPrice) / oldPrice, or zero when oldPrice is zero.
func PeriodReturn(oldPrice, newPrice decimal.Decimal) decimal.Decimal {
	if oldPrice.IsZero() {
		return decimal.Zero
	}
	return newPrice.Sub(oldPrice).DivRound(oldPrice, Scale)
}

// YearsBetween counts whole calendar days from a to b and divides by 365.25.
func YearsBetween(a, b time.Time) float64 {
	days := math.Round(dateOf(b).Sub(dateOf(a)).Hours() / hoursPerDay)
	return days / daysPerYear
}

// CAGR is (last/first)^(1/years) - 1. It is zero when first is not positive
// or years is not positive.
func CAGR(first, last decimal.Decimal, years float64) decimal.Decimal {
	if !first.IsPositive() || years <= 0 {
		return decimal.Zero
	}
	ratio := last.InexactFloat64() / first.InexactFloat64()
	g := math.Pow(ratio, 1/years) - 1
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(g).Round(Scale)
}

// MonthlyReturns downsamples series to roughly monthly returns: with N points
// the stride is max(1, N/12) and each sample is the return from
// series[i-stride] to series[i]. Pairs whose earlier price is not positive are
// skipped.
func MonthlyReturns(series []domain.PricePoint) []decimal.Decimal {
	step := max(1, len(series)/monthlySamples)
	var returns []decimal.Decimal
	for i := step; i < len(series); i += step {
		prev := series[i-step].Price
		if !prev.IsPositive() {
			continue
		}
		returns = append(returns, PeriodReturn(prev, series[i].Price))
	}
	return returns
}

// Mean is the arithmetic mean, or zero for an empty slice.
func Mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(values[0], values[1:]...).DivRound(decimal.NewFromInt(int64(len(values))), divisionPrecision)
}

// StandardDeviation is the sample standard deviation (n-1 denominator).
// Fewer than two values yields zero.
func StandardDeviation(values []decimal.Decimal) decimal.Decimal {
	if len(values) < 2 {
		return decimal.Zero
	}
	sd := stat.StdDev(toFloats(values), nil)
	if math.IsNaN(sd) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(sd).Round(Scale)
}

// SharpeRatio is the mean monthly excess return over annualRiskFree/12
// divided by the standard deviation of the returns. It is zero when there are
// fewer than two returns or the deviation rounds to zero; zero here means
// "not measurable", not "riskless".
func SharpeRatio(monthlyReturns []decimal.Decimal, annualRiskFree decimal.Decimal) decimal.Decimal {
	if len(monthlyReturns) < 2 {
		return decimal.Zero
	}
	sd := StandardDeviation(monthlyReturns)
	if sd.IsZero() {
		return decimal.Zero
	}
	periodicRiskFree := annualRiskFree.DivRound(decimal.NewFromInt(periodsPerYear), divisionPrecision)
	excess := Mean(monthlyReturns).Sub(periodicRiskFree)
	return excess.DivRound(sd, Scale)
}

func toFloats(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.InexactFloat64()
	}
	return out
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
