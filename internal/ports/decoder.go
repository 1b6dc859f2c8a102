package ports

import (
	"context"

	"github.com/phxauto/phoenixbid/internal/domain"
)

// VehicleDecoder decodifica un VIN de 17 caracteres en un descriptor de vehículo.
type VehicleDecoder interface {
	// Decode devuelve el vehículo decodificado o error si el registro
	// no devuelve los campos mínimos (make, model, year).
	Decode(ctx context.Context, vin string) (domain.Vehicle, error)
}
