package domain

import "strings"

// Listing representa un anuncio de pieza usada en el marketplace.
// Inmutable una vez obtenido del search: el análisis nunca lo modifica.
type Listing struct {
	Price    float64 // precio del artículo en USD
	Shipping float64 // coste de envío (0 = envío gratis)
	Title    string
	ItemID   string // id externo del marketplace, solo para diagnóstico
}

// Total devuelve precio + envío, que es el coste real para el comprador.
func (l Listing) Total() float64 {
	return l.Price + l.Shipping
}

// PartQuery es una entrada del catálogo de piezas a buscar por cada VIN.
type PartQuery struct {
	SearchTerm string  // término de búsqueda y nombre canónico de la pieza
	CategoryID string  // category id del marketplace
	MinPrice   float64 // suelo de precio; 0 = sin suelo
}

// Name devuelve el nombre canónico normalizado de la pieza.
func (q PartQuery) Name() string {
	return strings.ToLower(strings.TrimSpace(q.SearchTerm))
}
