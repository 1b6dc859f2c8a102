package ports

import (
	"context"

	"github.com/phxauto/phoenixbid/internal/domain"
)

// PartSearcher busca listings de piezas usadas en el marketplace.
type PartSearcher interface {
	// Search devuelve los listings para una pieza del catálogo en el contexto
	// del vehículo dado. El query se construye con year/make/model y, para
	// motores, el desplazamiento. Una respuesta vacía no es error.
	Search(ctx context.Context, vehicle domain.Vehicle, part domain.PartQuery) ([]domain.Listing, error)
}
