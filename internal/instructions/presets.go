package instructions

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// presets.go — instrucciones custom para el análisis con IA.
//
// Las instrucciones vigentes viven en un archivo de texto plano; los presets
// con nombre son archivos .txt dentro de un directorio. Todo es editable a
// mano: el formato es deliberadamente trivial.

// unsafeChars se reemplazan por '_' al derivar el nombre de archivo de un preset.
var unsafeChars = regexp.MustCompile(`[^\w\-.]`)

// Store gestiona el archivo de instrucciones vigente y los presets con nombre.
type Store struct {
	currentPath string
	presetsDir  string
}

// NewStore crea el store. currentPath es el archivo de instrucciones activas;
// presetsDir el directorio de presets (se crea si no existe).
func NewStore(currentPath, presetsDir string) (*Store, error) {
	if err := os.MkdirAll(presetsDir, 0o755); err != nil {
		return nil, fmt.Errorf("instructions.NewStore: crear %s: %w", presetsDir, err)
	}
	return &Store{currentPath: currentPath, presetsDir: presetsDir}, nil
}

// Current devuelve las instrucciones activas. Archivo ausente o ilegible
// equivale a no tener instrucciones: el prompt funciona igual sin ellas.
func (s *Store) Current() string {
	data, err := os.ReadFile(s.currentPath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetCurrent persiste las instrucciones activas.
func (s *Store) SetCurrent(text string) error {
	if err := os.WriteFile(s.currentPath, []byte(strings.TrimSpace(text)), 0o644); err != nil {
		return fmt.Errorf("instructions.SetCurrent: %w", err)
	}
	return nil
}

// SavePreset guarda las instrucciones dadas como preset con nombre.
// Devuelve el nombre sanitizado con el que quedó guardado.
func (s *Store) SavePreset(name, text string) (string, error) {
	safe := SanitizeName(name)
	if safe == "" {
		return "", fmt.Errorf("instructions.SavePreset: nombre de preset vacío")
	}
	path := filepath.Join(s.presetsDir, safe+".txt")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(text)), 0o644); err != nil {
		return "", fmt.Errorf("instructions.SavePreset: %w", err)
	}
	return safe, nil
}

// LoadPreset lee un preset por nombre.
func (s *Store) LoadPreset(name string) (string, error) {
	path := filepath.Join(s.presetsDir, SanitizeName(name)+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("instructions.LoadPreset: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// DeletePreset borra un preset por nombre.
func (s *Store) DeletePreset(name string) error {
	path := filepath.Join(s.presetsDir, SanitizeName(name)+".txt")
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("instructions.DeletePreset: %w", err)
	}
	return nil
}

// ListPresets devuelve los nombres de preset disponibles, ordenados.
func (s *Store) ListPresets() ([]string, error) {
	entries, err := os.ReadDir(s.presetsDir)
	if err != nil {
		return nil, fmt.Errorf("instructions.ListPresets: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(names)
	return names, nil
}

// SanitizeName convierte un nombre de preset en un nombre de archivo seguro:
// todo lo que no sea alfanumérico, guión, guión bajo o punto pasa a '_'.
func SanitizeName(name string) string {
	return unsafeChars.ReplaceAllString(strings.TrimSpace(name), "_")
}
