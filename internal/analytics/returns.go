// Package analytics implements the quantitative engine for structured-note
// evaluation: realized volatility, Black-Scholes Greeks, breakeven levels,
// product sensitivity decomposition and portfolio-style risk metrics.
//
// Every function is pure with respect to its inputs; nothing in this
// package holds state, performs I/O or blocks.
package analytics

import (
	"fmt"
	"math"
)

// LogReturns converts an ordered price series into log returns
// r_i = ln(p_i / p_{i-1}). The result has length len(prices)-1.
func LogReturns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, &InsufficientDataError{What: "log returns", Needed: 2, Got: len(prices)}
	}

	returns := make([]float64, 0, len(prices)-1)
	for i, p := range prices {
		if p <= 0 {
			return nil, &InvalidParameterError{Param: fmt.Sprintf("price[%d]", i), Value: p}
		}
		if i > 0 {
			returns = append(returns, math.Log(p/prices[i-1]))
		}
	}
	return returns, nil
}

// mean returns the arithmetic mean of xs, 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStdDev returns the sample standard deviation (n-1 divisor) of xs.
// Fewer than two observations yield 0.
func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	sumSq := 0.0
	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)-1))
}
