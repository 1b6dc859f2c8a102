package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- RecommendBid ---

func TestRecommendBid_Zero(t *testing.T) {
	assert.Equal(t, 0.0, RecommendBid(0))
	assert.Equal(t, 0.0, RecommendBid(-500))
}

func TestRecommendBid_Floor(t *testing.T) {
	assert.Equal(t, 300.0, RecommendBid(100))
	assert.Equal(t, 300.0, RecommendBid(3000))
}

func TestRecommendBid_FullSqrtTerm(t *testing.T) {
	// 18000: excess=15000, pct = 0.25 + 0.40*sqrt(1) = 0.65
	// bid = 300 + 15000*0.65 = 10050
	assert.InDelta(t, 10050.0, RecommendBid(18000), 0.001)
}

func TestRecommendBid_ContinuousAtThreshold(t *testing.T) {
	// justo encima de 3000 la puja debe seguir pegada a 300 (continuidad)
	assert.InDelta(t, 300.0, RecommendBid(3000.01), 0.01)
}

func TestRecommendBid_Monotonic(t *testing.T) {
	prev := 0.0
	for _, v := range []float64{500, 3000, 4000, 8000, 18000, 50000, 200000} {
		bid := RecommendBid(v)
		assert.GreaterOrEqual(t, bid, prev, "bid must never decrease (value %v)", v)
		prev = bid
	}
}

func TestRecommendBid_SubLinearPremium(t *testing.T) {
	// el porcentaje sobre el exceso crece con la raíz: cuadruplicar el
	// exceso (15000→60000) ni siquiera duplica el porcentaje
	pct1 := (RecommendBid(18000) - 300) / 15000 // 0.65
	pct4 := (RecommendBid(63000) - 300) / 60000 // 0.25 + 0.40*2 = 1.05
	assert.InDelta(t, 0.65, pct1, 0.001)
	assert.InDelta(t, 1.05, pct4, 0.001)
	assert.Less(t, pct4/pct1, 2.0)
}

// --- AggregateBids ---

func TestAggregateBids_SumsPerTier(t *testing.T) {
	parts := map[string]TierEstimate{
		"engine":       {Low: 1000, Average: 1500, High: 2000},
		"transmission": {Low: 500, Average: 700, High: 900},
		"alternator":   {Low: 0, Average: 0, High: 0}, // pieza fallida suma cero
	}

	totals, bids := AggregateBids(parts)

	assert.Equal(t, 1500.0, totals.Low)
	assert.Equal(t, 2200.0, totals.Average)
	assert.Equal(t, 2900.0, totals.High)

	// todos los totales ≤ 3000 → puja fija de $300 en los tres tiers
	assert.Equal(t, 300.0, bids.Low)
	assert.Equal(t, 300.0, bids.Average)
	assert.Equal(t, 300.0, bids.High)
}

func TestAggregateBids_TiersEvaluatedIndependently(t *testing.T) {
	parts := map[string]TierEstimate{
		"engine": {Low: 2000, Average: 5000, High: 18000},
	}

	_, bids := AggregateBids(parts)

	assert.Equal(t, 300.0, bids.Low)
	assert.Greater(t, bids.Average, 300.0)
	assert.InDelta(t, 10050.0, bids.High, 0.001)
}

func TestAggregateBids_Empty(t *testing.T) {
	totals, bids := AggregateBids(nil)
	assert.Equal(t, BidTotals{}, totals)
	assert.Equal(t, BidRecommendation{}, bids)
}
