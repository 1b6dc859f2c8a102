package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del estimador.
type Config struct {
	Scan    ScanConfig    `yaml:"scan"`
	AI      AIConfig      `yaml:"ai"`
	Ebay    EbayConfig    `yaml:"ebay"`
	Decoder DecoderConfig `yaml:"decoder"`
	Parts   PartsConfig   `yaml:"parts"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// ScanConfig controla el comportamiento del scan de piezas.
type ScanConfig struct {
	Concurrent         bool `yaml:"concurrent"`
	Workers            int  `yaml:"workers"`
	PartTimeoutSeconds int  `yaml:"part_timeout_seconds"`
}

// AIConfig controla la estrategia de análisis con modelo de lenguaje.
// La API key viene SIEMPRE del entorno (OPENAI_API_KEY), nunca del YAML.
type AIConfig struct {
	Enabled          bool   `yaml:"enabled"`
	Model            string `yaml:"model"`
	BaseURL          string `yaml:"base_url"`
	InstructionsFile string `yaml:"instructions_file"`
	PresetsDir       string `yaml:"presets_dir"`

	APIKey string `yaml:"-"`
}

// EbayConfig contiene el entorno del marketplace. Las credenciales vienen
// del entorno (EBAY_CLIENT_ID / EBAY_CLIENT_SECRET).
type EbayConfig struct {
	Sandbox bool `yaml:"sandbox"`

	ClientID     string `yaml:"-"`
	ClientSecret string `yaml:"-"`
}

// DecoderConfig contiene el base URL del servicio de decode de VIN.
type DecoderConfig struct {
	BaseURL string `yaml:"base_url"`
}

// PartsConfig apunta al catálogo de piezas.
type PartsConfig struct {
	CatalogFile string `yaml:"catalog_file"`
}

// StorageConfig controla dónde se persiste el historial.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si
// existe. Las credenciales solo se leen del entorno.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	case os.IsNotExist(err):
		// Sin archivo: todo defaults + entorno
	default:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	applyEnv(&cfg)
	setDefaults(&cfg)
	return &cfg, nil
}

// PartTimeout devuelve el timeout por pieza como time.Duration.
func (c *Config) PartTimeout() time.Duration {
	return time.Duration(c.Scan.PartTimeoutSeconds) * time.Second
}

// Validate comprueba que las credenciales necesarias estén presentes.
// La key de OpenAI solo es obligatoria con el análisis de IA activo.
func (c *Config) Validate() error {
	if c.Ebay.ClientID == "" || c.Ebay.ClientSecret == "" {
		return fmt.Errorf("config.Validate: EBAY_CLIENT_ID y EBAY_CLIENT_SECRET son obligatorios")
	}
	if c.AI.Enabled && c.AI.APIKey == "" {
		return fmt.Errorf("config.Validate: OPENAI_API_KEY es obligatoria con ai.enabled")
	}
	return nil
}

// applyEnv carga credenciales y overrides desde variables de entorno.
func applyEnv(cfg *Config) {
	cfg.Ebay.ClientID = os.Getenv("EBAY_CLIENT_ID")
	cfg.Ebay.ClientSecret = os.Getenv("EBAY_CLIENT_SECRET")
	cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Scan.Workers <= 0 {
		cfg.Scan.Workers = 3
	}
	if cfg.Scan.PartTimeoutSeconds <= 0 {
		cfg.Scan.PartTimeoutSeconds = 45
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "o1-mini"
	}
	if cfg.AI.InstructionsFile == "" {
		cfg.AI.InstructionsFile = "ai_instructions.txt"
	}
	if cfg.AI.PresetsDir == "" {
		cfg.AI.PresetsDir = "ai_instruction_presets"
	}
	if cfg.Parts.CatalogFile == "" {
		cfg.Parts.CatalogFile = "parts_list.csv"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "phoenixbid.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
