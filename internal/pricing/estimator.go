// Package pricing estimates resale prices for collected e-waste.
package pricing

import (
	"math"
	"math/rand/v2"
	"strings"
)

var baseValues = map[string]float64{
	"smartphone": 120,
	"laptop":     250,
	"tablet":     150,
}

var conditionMultipliers = map[string]float64{
	"new":      1.0,
	"like new": 1.0,
	"good":     0.7,
	"poor":     0.3,
	"broken":   0.3,
}

const (
	defaultBase       = 120
	defaultMultiplier = 0.7
	jitterFraction    = 0.1
)

// Estimate returns a price for the given device type and condition.
// Unknown device types fall back to the smartphone base, unknown
// conditions to the "good" multiplier. The result carries a uniform
// jitter of up to ±10% of the base figure and never goes below zero.
func Estimate(deviceType, condition string) int {
	return estimate(deviceType, condition, rand.Float64)
}

// EstimateWith is Estimate with a caller-supplied random source.
func EstimateWith(r *rand.Rand, deviceType, condition string) int {
	return estimate(deviceType, condition, r.Float64)
}

func estimate(deviceType, condition string, randFloat func() float64) int {
	base, ok := baseValues[strings.ToLower(strings.TrimSpace(deviceType))]
	if !ok {
		base = defaultBase
	}
	mult, ok := conditionMultipliers[strings.ToLower(strings.TrimSpace(condition))]
	if !ok {
		mult = defaultMultiplier
	}

	calculated := math.Floor(base * mult)

	variance := calculated * jitterFraction
	price := calculated + math.Floor(randFloat()*variance*2-variance)
	if price < 0 {
		price = 0
	}
	return int(price)
}
