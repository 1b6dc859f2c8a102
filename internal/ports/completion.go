package ports

import "context"

// Completer es el servicio externo de completions del modelo de lenguaje.
// Devuelve texto libre: el caller debe tratar la respuesta como payload no
// confiable y validar cualquier estructura que espere encontrar dentro.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
