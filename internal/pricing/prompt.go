package pricing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/phxauto/phoenixbid/internal/domain"
)

// prompt.go — construcción del prompt de análisis para el modelo de lenguaje.
//
// El contrato de salida es JSON estricto con 8 claves fijas; cualquier
// desviación la detecta la validación en ai.go y dispara el fallback.

// FormatListings convierte los listings en el bloque tabular CSV que consume
// el modelo: Price,Shipping,Total,Title, ordenado por total ascendente.
func FormatListings(listings []domain.Listing) string {
	sorted := append([]domain.Listing(nil), listings...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Total() < sorted[j].Total() })

	var sb strings.Builder
	sb.WriteString("Price,Shipping,Total,Title")
	for _, l := range sorted {
		title := strings.ReplaceAll(l.Title, ",", ";")
		title = strings.ReplaceAll(title, "\n", " ")
		title = strings.ReplaceAll(title, "\"", "")
		fmt.Fprintf(&sb, "\n%.2f,%.2f,%.2f,\"%s\"", l.Price, l.Shipping, l.Total(), strings.TrimSpace(title))
	}
	return sb.String()
}

// vehicleContext arma el bloque de contexto del vehículo con guía de fitment
// según drivetrain, combustible y carrocería.
func vehicleContext(v domain.Vehicle) string {
	if !v.Complete() {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n**VEHICLE CONTEXT:**\nYou are analyzing parts for a %s %s %s.\n", v.Year, v.Make, v.Model)
	if specs := v.Specs(); len(specs) > 0 {
		fmt.Fprintf(&sb, "Vehicle specifications: %s\n", strings.Join(specs, ", "))
	}

	if guidance := fitmentGuidance(v); len(guidance) > 0 {
		sb.WriteString("\n**PARTS FITMENT CONSIDERATIONS:**\n")
		for _, g := range guidance {
			sb.WriteString("- " + g + "\n")
		}
	}
	return sb.String()
}

// fitmentGuidance deriva avisos de compatibilidad a partir de las specs.
func fitmentGuidance(v domain.Vehicle) []string {
	var out []string

	switch drive := strings.ToLower(v.DriveType); {
	case strings.Contains(drive, "awd"), strings.Contains(drive, "all-wheel"):
		out = append(out, "AWD systems have unique drivetrain components - exclude FWD/RWD specific parts")
	case strings.Contains(drive, "fwd"), strings.Contains(drive, "front-wheel"):
		out = append(out, "FWD vehicle - exclude RWD/AWD specific drivetrain parts")
	case strings.Contains(drive, "rwd"), strings.Contains(drive, "rear-wheel"):
		out = append(out, "RWD vehicle - exclude FWD/AWD specific drivetrain parts")
	}

	switch fuel := strings.ToLower(v.FuelType); {
	case strings.Contains(fuel, "diesel"):
		out = append(out, "Diesel engine - fuel system parts differ significantly from gasoline")
	case strings.Contains(fuel, "gasoline"):
		out = append(out, "Gasoline engine - exclude diesel-specific fuel system parts")
	}

	switch body := strings.ToLower(v.BodyClass); {
	case strings.Contains(body, "coupe"):
		out = append(out, "Coupe body - some parts may differ from sedan variants")
	case strings.Contains(body, "sedan"):
		out = append(out, "Sedan body - some parts may differ from coupe/hatchback variants")
	case strings.Contains(body, "suv"), strings.Contains(body, "truck"):
		out = append(out, "SUV/Truck body - larger/heavier duty components than car variants")
	}

	return out
}

// BuildPrompt arma el prompt completo de análisis de precios para una pieza.
func BuildPrompt(partName, csvData string, minPrice float64, vehicle domain.Vehicle, customInstructions string) string {
	var custom string
	if customInstructions != "" {
		custom = fmt.Sprintf(`
**CUSTOM ANALYSIS INSTRUCTIONS:**
The user has provided these specific instructions for analyzing this vehicle's parts:

%s

Incorporate these instructions into your analysis and filtering decisions.
`, customInstructions)
	}

	var minPriceRule string
	if minPrice > 0 {
		minPriceRule = fmt.Sprintf("\n5. Items under $%.2f", minPrice)
	}

	return fmt.Sprintf(`You are a professional automotive parts price analyst. Analyze these marketplace "%s" listing prices for salvage-yard market research.%s%s

**DATA:** CSV with Price,Shipping,Total,Title columns:
%s

**FILTER OUT:**
1. Accessories/small parts (filters, gaskets, bulbs, connectors, etc.)
2. New/aftermarket/premium items
3. Wrong specifications for this vehicle
4. Obvious outliers (damaged cores or overpriced items)%s

**CONFIDENCE RULES:**
- red if majority of data is wrong engine size/transmission/drivetrain type or mostly inappropriate listings
- orange if poor data quality or small sample
- yellow if mixed quality
- light_green if good appropriate data
- dark_green if excellent high-quality data

**OUTPUT JSON:**
{
    "low_price": [10-20th percentile, rounded],
    "average_price": [25-40th percentile, rounded],
    "high_price": [45-60th percentile, rounded],
    "items_analyzed": [total count],
    "items_filtered_out": [removed count],
    "reasoning": "[brief filter logic]",
    "confidence_rating": "[dark_green/light_green/yellow/orange/red]",
    "confidence_explanation": "[brief confidence reason]"
}

Return only valid JSON.`, partName, vehicleContext(vehicle), custom, csvData, minPriceRule)
}
