// Package main is the entry point for CellCrawl.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/cellcrawl/data"
	"github.com/samdwyer/cellcrawl/internal/catalog"
	"github.com/samdwyer/cellcrawl/internal/config"
	"github.com/samdwyer/cellcrawl/internal/game"
	"github.com/samdwyer/cellcrawl/internal/gamedata"
	"github.com/samdwyer/cellcrawl/internal/level"
	"github.com/samdwyer/cellcrawl/internal/logging"
	"github.com/samdwyer/cellcrawl/internal/metrics"
	"github.com/samdwyer/cellcrawl/internal/telemetry"
	"github.com/samdwyer/cellcrawl/internal/ui"
	"github.com/samdwyer/cellcrawl/internal/world"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	seed := flag.Int64("seed", 0, "world seed, 0 picks one from the clock")
	templates := flag.String("templates", "", "room template directory, empty uses the built-in set")
	dump := flag.Bool("dump", false, "print the assembled world map and exit")
	metricsAddr := flag.String("metrics", "", "serve prometheus metrics on this address")
	logFile := flag.String("log-file", "cellcrawl.log", "log destination while the terminal UI runs")
	flag.Parse()

	// Load .env file for local development
	// This makes HONEYCOMB_CELLCRAWL_API_KEY available
	_ = godotenv.Load()

	// Set up OTEL environment variables from our .env variables
	setupOTelEnv()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Log.WithError(err).Fatal("failed to load config")
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *templates != "" {
		cfg.TemplateDir = *templates
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format)
	log := logging.For("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *dump, *logFile); err != nil {
		log.WithError(err).Error("cellcrawl failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, dump bool, logFile string) error {
	log := logging.For("main")

	var m *metrics.Metrics
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		m = metrics.New(reg)
		metrics.Serve(cfg.Metrics.Addr, reg)
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// Tracing starts once the seed is known so it lands on the resource
	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry, seed)
	if err != nil {
		log.WithError(err).Warn("telemetry setup failed, running without traces")
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.WithError(err).Error("error shutting down telemetry")
		}
	}()

	a := world.NewAssembler(cat, cfg.MaxCells, rng)
	a.Seed = seed
	graph, err := a.Assemble(ctx)
	if err != nil {
		return fmt.Errorf("failed to assemble world: %w", err)
	}
	m.SetGraphCells(graph.Len())

	log.WithFields(logrus.Fields{
		"seed":      seed,
		"cells":     graph.Len(),
		"templates": cat.Len(),
	}).Info("world assembled")

	if dump {
		return graph.Dump(os.Stdout)
	}

	enemies, err := gamedata.LoadEnemyRegistry()
	if err != nil {
		return fmt.Errorf("failed to load enemies: %w", err)
	}
	lv, err := level.New(graph, cfg, enemies, rng)
	if err != nil {
		return fmt.Errorf("failed to build level: %w", err)
	}
	lv.SetMetrics(m)

	// The terminal belongs to the UI from here on.
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()
	logging.SetOutput(f)
	defer logging.SetOutput(os.Stderr)

	screen, err := ui.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}

	return game.New(lv, screen).Run(ctx)
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.TemplateDir != "" {
		return catalog.LoadDir(cfg.TemplateDir, cfg.CellTilesX, cfg.CellTilesY)
	}
	return catalog.Load(data.Cells(), cfg.CellTilesX, cfg.CellTilesY)
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_CELLCRAWL_API_KEY")
	if apiKey == "" {
		return
	}
	dataset := os.Getenv("HONEYCOMB_CELLCRAWL_DATASET")
	if dataset == "" {
		dataset = "cellcrawl" // default dataset name
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
}
