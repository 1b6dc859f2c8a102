package ports

import "fmt"

// ActivityLog es el sink de líneas de diagnóstico del pipeline de análisis:
// decisiones de filtrado, intentos de IA, razones de removal. Append-only,
// ordenado, sin más estructura que texto.
type ActivityLog interface {
	Line(format string, args ...any)
}

// ActivityFunc adapta una función a ActivityLog.
type ActivityFunc func(line string)

func (f ActivityFunc) Line(format string, args ...any) {
	f(fmt.Sprintf(format, args...))
}
