package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phxauto/phoenixbid/internal/domain"
)

func listingsFromPrices(prices ...float64) []domain.Listing {
	out := make([]domain.Listing, len(prices))
	for i, p := range prices {
		out[i] = domain.Listing{Price: p, Title: "Used part"}
	}
	return out
}

func TestCleanListings_KeywordRejection(t *testing.T) {
	listings := []domain.Listing{
		{Price: 1200, Title: "Engine Assembly 3.5L V6 Complete"},
		{Price: 15, Title: "Engine Oil Filter Housing OEM"},
		{Price: 1100, Title: "Complete Engine Motor 3.5"},
		{Price: 25, Title: "Valve Cover Gasket Set"},
	}

	result := CleanListings(listings, "engine", 0)

	// Los dos accesorios caen por keyword, quedan los dos motores
	assert.Equal(t, []float64{1100, 1200}, result.Prices)
	assert.Equal(t, 2, result.RemovedCount())
	assert.Contains(t, result.Removed[0], "miscategorized")
}

func TestCleanListings_KeywordCaseInsensitive(t *testing.T) {
	listings := []domain.Listing{
		{Price: 50, Title: "ALTERNATOR PULLEY BOLT KIT"},
		{Price: 180, Title: "Alternator OEM 160A"},
	}

	result := CleanListings(listings, "Alternator", 0)

	assert.Equal(t, []float64{180}, result.Prices)
	assert.Equal(t, 1, result.RemovedCount())
}

func TestCleanListings_UnknownPartSkipsKeywordStage(t *testing.T) {
	listings := []domain.Listing{
		{Price: 40, Title: "Door mirror with bracket and gasket"},
	}

	// "door mirror" no tiene entrada en el mapa: nada se elimina
	result := CleanListings(listings, "door mirror", 0)

	assert.Equal(t, []float64{40}, result.Prices)
	assert.Zero(t, result.RemovedCount())
}

func TestCleanListings_MinPriceFloor(t *testing.T) {
	listings := listingsFromPrices(30, 80, 120, 250)

	result := CleanListings(listings, "transmission core", 100)

	assert.Equal(t, []float64{120, 250}, result.Prices)
	assert.Equal(t, 2, result.RemovedCount())
	assert.Contains(t, result.Removed[0], "below minimum")
}

func TestCleanListings_IQROutliers(t *testing.T) {
	// 11 precios: 10 agrupados en 100..145 y un outlier de 900.
	// q1=sorted[2]=110, q3=sorted[8]=140, IQR=30 → techo 140+45=185.
	listings := listingsFromPrices(100, 105, 110, 115, 120, 125, 130, 135, 140, 145, 900)

	result := CleanListings(listings, "door mirror", 0)

	assert.Len(t, result.Prices, 10)
	assert.NotContains(t, result.Prices, 900.0)
	assert.Contains(t, result.Removed[0], "statistical outlier")
}

func TestCleanListings_IQRSkippedBelowSampleMinimum(t *testing.T) {
	// 9 precios con un outlier brutal: con <10 no se aplica IQR
	listings := listingsFromPrices(100, 105, 110, 115, 120, 125, 130, 135, 5000)

	result := CleanListings(listings, "door mirror", 0)

	assert.Len(t, result.Prices, 9)
	assert.Contains(t, result.Prices, 5000.0)
}

func TestCleanListings_ShippingIncludedInTotal(t *testing.T) {
	listings := []domain.Listing{
		{Price: 90, Shipping: 20, Title: "Used part"}, // total 110
		{Price: 95, Shipping: 0, Title: "Used part"},  // total 95, bajo el suelo
	}

	result := CleanListings(listings, "door mirror", 100)

	assert.Equal(t, []float64{110}, result.Prices)
	assert.Equal(t, 1, result.RemovedCount())
}

func TestCleanListings_AllRemoved(t *testing.T) {
	listings := listingsFromPrices(10, 20, 30)

	result := CleanListings(listings, "door mirror", 50)

	assert.Empty(t, result.Prices)
	assert.Equal(t, 3, result.RemovedCount())
	assert.Equal(t, 3, result.Original)
}

func TestCleanListings_OutputSorted(t *testing.T) {
	listings := listingsFromPrices(300, 100, 200)

	result := CleanListings(listings, "door mirror", 0)

	assert.Equal(t, []float64{100, 200, 300}, result.Prices)
}

func TestCleanResult_DetailsTruncated(t *testing.T) {
	listings := listingsFromPrices(1, 2, 3, 4, 5)

	result := CleanListings(listings, "door mirror", 50)

	assert.Equal(t, 5, result.RemovedCount())
	assert.Len(t, result.Details(), 3)
}
