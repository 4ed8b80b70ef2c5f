package pricing

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate_WithinJitterBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		deviceType string
		condition  string
		base       float64
		mult       float64
	}{
		{"smartphone", "new", 120, 1.0},
		{"smartphone", "good", 120, 0.7},
		{"smartphone", "poor", 120, 0.3},
		{"laptop", "new", 250, 1.0},
		{"laptop", "good", 250, 0.7},
		{"laptop", "poor", 250, 0.3},
		{"tablet", "new", 150, 1.0},
		{"tablet", "good", 150, 0.7},
		{"tablet", "poor", 150, 0.3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.deviceType+"/"+tt.condition, func(t *testing.T) {
			t.Parallel()

			calculated := math.Floor(tt.base * tt.mult)
			lo := int(calculated - calculated*0.1 - 1)
			hi := int(calculated + calculated*0.1 + 1)

			for i := 0; i < 200; i++ {
				price := Estimate(tt.deviceType, tt.condition)
				assert.GreaterOrEqual(t, price, lo)
				assert.LessOrEqual(t, price, hi)
			}
		})
	}
}

func TestEstimate_UnknownInputsFallBack(t *testing.T) {
	t.Parallel()

	// base=120, multiplier=0.7 -> floor = 84, jitter within ±8.4
	for i := 0; i < 200; i++ {
		price := Estimate("unknown-device", "unknown-condition")
		assert.GreaterOrEqual(t, price, 75)
		assert.LessOrEqual(t, price, 93)
	}
}

func TestEstimate_FairBehavesLikeGood(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(1, 2))
	fair := EstimateWith(r, "laptop", "fair")
	r = rand.New(rand.NewPCG(1, 2))
	good := EstimateWith(r, "laptop", "good")
	assert.Equal(t, good, fair)
}

func TestEstimateWith_Deterministic(t *testing.T) {
	t.Parallel()

	a := EstimateWith(rand.New(rand.NewPCG(7, 7)), "tablet", "new")
	b := EstimateWith(rand.New(rand.NewPCG(7, 7)), "tablet", "new")
	require.Equal(t, a, b)
}

func TestEstimate_NeverNegative(t *testing.T) {
	t.Parallel()

	for i := 0; i < 1000; i++ {
		price := Estimate("smartphone", "poor")
		assert.GreaterOrEqual(t, price, 0)
	}
}

func TestEstimate_OriginalConditionNamesAccepted(t *testing.T) {
	t.Parallel()

	// "Like New" and "Broken" are the legacy labels from the intake form.
	for i := 0; i < 100; i++ {
		likeNew := Estimate("laptop", "Like New")
		assert.GreaterOrEqual(t, likeNew, 225)
		assert.LessOrEqual(t, likeNew, 275)

		broken := Estimate("laptop", "Broken")
		assert.GreaterOrEqual(t, broken, 67)
		assert.LessOrEqual(t, broken, 83)
	}
}
