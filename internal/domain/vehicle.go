package domain

import (
	"fmt"
	"strings"
)

// Vehicle es el descriptor estructurado que devuelve el decoder de VIN.
// Solo make/model/year son obligatorios; el resto enriquece los prompts de IA.
type Vehicle struct {
	VIN   string
	Make  string
	Model string
	Year  string
	Trim  string

	EngineDisplacementL float64 // litros, redondeado a 0.1 (0 = desconocido)
	EngineCylinders     string
	EngineConfiguration string
	EngineCode          string // octavo carácter del VIN
	FuelType            string
	DriveType           string
	TransmissionStyle   string
	BodyClass           string
	Doors               string
}

// String devuelve "year make model [trim]" para display y persistencia.
func (v Vehicle) String() string {
	s := fmt.Sprintf("%s %s %s", v.Year, v.Make, v.Model)
	if v.Trim != "" {
		s += " " + v.Trim
	}
	return strings.TrimSpace(s)
}

// Complete devuelve true si el decode produjo los campos mínimos requeridos.
func (v Vehicle) Complete() bool {
	return v.Make != "" && v.Model != "" && v.Year != ""
}

// EngineLabel devuelve la etiqueta del motor, p.ej. "3.5L (6 cyl) [Code: K]".
// Cadena vacía si no se decodificó el desplazamiento.
func (v Vehicle) EngineLabel() string {
	if v.EngineDisplacementL <= 0 {
		return ""
	}
	label := fmt.Sprintf("%.1fL", v.EngineDisplacementL)
	if v.EngineCylinders != "" {
		label += fmt.Sprintf(" (%s cyl)", v.EngineCylinders)
	}
	if v.EngineCode != "" {
		label += fmt.Sprintf(" [Code: %s]", v.EngineCode)
	}
	return label
}

// Specs devuelve las especificaciones relevantes para compatibilidad de piezas,
// una por línea de "clave: valor". Se usa en el report de consola y el prompt.
func (v Vehicle) Specs() []string {
	var specs []string
	if e := v.EngineLabel(); e != "" {
		specs = append(specs, "Engine: "+e)
	}
	if v.DriveType != "" {
		specs = append(specs, "Drive: "+v.DriveType)
	}
	if v.FuelType != "" {
		specs = append(specs, "Fuel: "+v.FuelType)
	}
	if v.BodyClass != "" {
		specs = append(specs, "Body: "+v.BodyClass)
	}
	return specs
}
