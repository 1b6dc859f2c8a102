package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phxauto/phoenixbid/config"
	"github.com/phxauto/phoenixbid/internal/adapters/ebay"
	"github.com/phxauto/phoenixbid/internal/adapters/nhtsa"
	"github.com/phxauto/phoenixbid/internal/adapters/notify"
	"github.com/phxauto/phoenixbid/internal/adapters/openai"
	"github.com/phxauto/phoenixbid/internal/adapters/storage"
	"github.com/phxauto/phoenixbid/internal/instructions"
	"github.com/phxauto/phoenixbid/internal/parts"
	"github.com/phxauto/phoenixbid/internal/ports"
	"github.com/phxauto/phoenixbid/internal/pricing"
	"github.com/phxauto/phoenixbid/internal/scan"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	vin := flag.String("vin", "", "VIN to scan")
	history := flag.Bool("history", false, "print recent scans and exit")
	export := flag.String("export", "", "export scan history to CSV file and exit")
	pruneDays := flag.Int("prune", 0, "delete scans older than N days and exit")
	noAI := flag.Bool("no-ai", false, "force statistical analysis (skip the AI path)")
	concurrent := flag.Bool("concurrent", false, "search parts concurrently (overrides config)")
	verbose := flag.Bool("verbose", false, "set log level to debug and print per-part reasoning")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *noAI {
		cfg.AI.Enabled = false
	}
	if *concurrent {
		cfg.Scan.Concurrent = true
	}
	setupLogger(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Los modos de historial no necesitan credenciales ni catálogo
	if *history || *export != "" || *pruneDays > 0 {
		runHistory(ctx, cfg, *history, *export, *pruneDays)
		return
	}

	if *vin == "" {
		fmt.Fprintln(os.Stderr, "usage: phoenixbid -vin <VIN> [-no-ai] [-concurrent] [-verbose]")
		fmt.Fprintln(os.Stderr, "       phoenixbid -history | -export <file.csv> | -prune <days>")
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	slog.Info("phoenixbid starting",
		"config", *configPath,
		"vin", *vin,
		"ai", cfg.AI.Enabled,
		"concurrent", cfg.Scan.Concurrent,
	)

	catalog, err := parts.LoadCatalog(cfg.Parts.CatalogFile)
	if err != nil {
		slog.Error("failed to load parts catalog", "err", err, "path", cfg.Parts.CatalogFile)
		os.Exit(1)
	}
	slog.Info("parts catalog loaded", "parts", len(catalog))

	store, err := storage.NewSQLiteStore(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	activity := consoleActivity()
	analyzer := buildAnalyzer(cfg, activity)

	scanner := scan.New(
		scan.Config{
			Concurrent:  cfg.Scan.Concurrent,
			Workers:     cfg.Scan.Workers,
			PartTimeout: cfg.PartTimeout(),
		},
		nhtsa.NewClient(cfg.Decoder.BaseURL),
		ebay.NewClient(ctx, ebay.Config{
			ClientID:     cfg.Ebay.ClientID,
			ClientSecret: cfg.Ebay.ClientSecret,
			Sandbox:      cfg.Ebay.Sandbox,
		}),
		analyzer,
		store,
		notify.NewConsole(*verbose),
		activity,
		catalog,
	)

	result, err := scanner.Scan(ctx, *vin)
	if err != nil {
		slog.Error("scan failed", "err", err)
		os.Exit(1)
	}
	slog.Info("scan persisted", "id", result.ID, "status", result.Status())
}

// buildAnalyzer arma la estrategia de análisis: IA con fallback estadístico,
// o solo el path estadístico.
func buildAnalyzer(cfg *config.Config, activity ports.ActivityLog) pricing.Analyzer {
	statistical := pricing.NewDistributionAnalyzer(activity)
	if !cfg.AI.Enabled {
		return statistical
	}

	store, err := instructions.NewStore(cfg.AI.InstructionsFile, cfg.AI.PresetsDir)
	if err != nil {
		slog.Warn("instructions store unavailable, continuing without custom instructions", "err", err)
		store = nil
	}

	completer := openai.NewClient(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model)
	var source pricing.InstructionSource
	if store != nil {
		source = store
	}
	return pricing.NewAIAnalyzer(completer, statistical, source, activity)
}

// runHistory imprime el índice de scans, lo exporta a CSV o poda por edad.
func runHistory(ctx context.Context, cfg *config.Config, printIndex bool, exportPath string, pruneDays int) {
	store, err := storage.NewSQLiteStore(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	if pruneDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -pruneDays)
		if err := store.DeleteScansBefore(ctx, cutoff); err != nil {
			slog.Error("prune failed", "err", err)
			os.Exit(1)
		}
		slog.Info("history pruned", "older_than_days", pruneDays)
		return
	}

	if exportPath != "" {
		f, err := os.Create(exportPath)
		if err != nil {
			slog.Error("failed to create export file", "err", err, "path", exportPath)
			os.Exit(1)
		}
		defer f.Close()

		n, err := store.ExportCSV(ctx, f)
		if err != nil {
			slog.Error("export failed", "err", err)
			os.Exit(1)
		}
		slog.Info("history exported", "scans", n, "path", exportPath)
		return
	}

	if printIndex {
		scans, err := store.RecentScans(ctx, 0)
		if err != nil {
			slog.Error("failed to read history", "err", err)
			os.Exit(1)
		}
		if len(scans) == 0 {
			fmt.Println("no scans recorded yet")
			return
		}
		for _, r := range scans {
			fmt.Printf("%s  %-17s  %-30s  avg $%-8.0f bid $%-8.0f %s\n",
				r.ScannedAt.Format("2006-01-02 15:04"),
				r.VIN,
				r.Vehicle,
				r.Totals.Average,
				r.Bids.Average,
				r.Status(),
			)
		}
	}
}

// consoleActivity devuelve el activity log que acompaña el progreso del scan
// en stderr, separado del report final en stdout.
func consoleActivity() ports.ActivityLog {
	return ports.ActivityFunc(func(line string) {
		fmt.Fprintln(os.Stderr, line)
	})
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
