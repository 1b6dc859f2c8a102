package ebay

import (
	"fmt"
	"strings"

	"github.com/phxauto/phoenixbid/internal/domain"
)

// query.go — construcción del query de búsqueda por pieza.
//
// El query imita lo que un comprador teclearía: "{año} {marca} {modelo}
// [{motor}L] {pieza}". El desplazamiento solo se añade para motores, donde
// la cilindrada distingue variantes con precios muy distintos.

// BuildQuery arma el texto de búsqueda para una pieza del vehículo dado.
func BuildQuery(vehicle domain.Vehicle, part domain.PartQuery) string {
	model := normalizeModel(vehicle.Make, vehicle.Model)

	var engine string
	if part.Name() == "engine" && vehicle.EngineDisplacementL > 0 {
		engine = fmt.Sprintf(" %.1fL", vehicle.EngineDisplacementL)
	}

	return fmt.Sprintf("%s %s %s%s %s", vehicle.Year, vehicle.Make, model, engine, part.SearchTerm)
}

// normalizeModel corrige modelos cuyo nombre de catálogo no coincide con el
// uso del marketplace. Chrysler lista 300C/300S pero los vendedores publican
// las piezas bajo "300".
func normalizeModel(make, model string) string {
	if strings.EqualFold(make, "CHRYSLER") {
		switch strings.ToUpper(model) {
		case "300C", "300S":
			return "300"
		}
	}
	return model
}

// buildFilter arma el parámetro filter del Browse API: solo piezas usadas,
// precio fijo, y suelo de precio si la pieza lo define.
func buildFilter(minPrice float64) string {
	filters := []string{"conditionIds:{3000}", "buyingOptions:{FIXED_PRICE}"}
	if minPrice > 0 {
		filters = append(filters, fmt.Sprintf("price:[%.0f..],priceCurrency:USD", minPrice))
	}
	return strings.Join(filters, ",")
}
