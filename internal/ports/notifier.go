package ports

import (
	"context"

	"github.com/phxauto/phoenixbid/internal/domain"
)

// Notifier presenta el resultado de un scan al usuario.
type Notifier interface {
	Notify(ctx context.Context, result domain.ScanResult) error
}
