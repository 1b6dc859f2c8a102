package ebay

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phxauto/phoenixbid/internal/domain"
)

func TestBuildQuery_Basic(t *testing.T) {
	vehicle := domain.Vehicle{Year: "2018", Make: "HONDA", Model: "Accord"}
	part := domain.PartQuery{SearchTerm: "transmission"}

	assert.Equal(t, "2018 HONDA Accord transmission", BuildQuery(vehicle, part))
}

func TestBuildQuery_EngineIncludesDisplacement(t *testing.T) {
	vehicle := domain.Vehicle{Year: "2018", Make: "HONDA", Model: "Accord", EngineDisplacementL: 3.5}

	query := BuildQuery(vehicle, domain.PartQuery{SearchTerm: "engine"})

	assert.Equal(t, "2018 HONDA Accord 3.5L engine", query)
}

func TestBuildQuery_NonEngineOmitsDisplacement(t *testing.T) {
	vehicle := domain.Vehicle{Year: "2018", Make: "HONDA", Model: "Accord", EngineDisplacementL: 3.5}

	query := BuildQuery(vehicle, domain.PartQuery{SearchTerm: "alternator"})

	assert.Equal(t, "2018 HONDA Accord alternator", query)
}

func TestBuildQuery_Chrysler300Normalization(t *testing.T) {
	// Los vendedores publican "300", no "300C"/"300S"
	for _, model := range []string{"300C", "300S", "300c"} {
		vehicle := domain.Vehicle{Year: "2014", Make: "CHRYSLER", Model: model}
		assert.Equal(t, "2014 CHRYSLER 300 engine", BuildQuery(vehicle, domain.PartQuery{SearchTerm: "engine"}))
	}

	// Otros modelos Chrysler quedan intactos
	vehicle := domain.Vehicle{Year: "2014", Make: "CHRYSLER", Model: "Pacifica"}
	assert.Equal(t, "2014 CHRYSLER Pacifica engine", BuildQuery(vehicle, domain.PartQuery{SearchTerm: "engine"}))
}

func TestBuildFilter(t *testing.T) {
	assert.Equal(t, "conditionIds:{3000},buyingOptions:{FIXED_PRICE}", buildFilter(0))
	assert.Equal(t, "conditionIds:{3000},buyingOptions:{FIXED_PRICE},price:[500..],priceCurrency:USD", buildFilter(500))
}
