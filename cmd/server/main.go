// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/osa030/readaloud/internal/api/router"
	"github.com/osa030/readaloud/internal/app/catalog"
	"github.com/osa030/readaloud/internal/app/filter"
	"github.com/osa030/readaloud/internal/app/narration"
	"github.com/osa030/readaloud/internal/app/player"
	"github.com/osa030/readaloud/internal/infra/config"
	"github.com/osa030/readaloud/internal/infra/logger"
	"github.com/osa030/readaloud/internal/infra/store"
	"github.com/osa030/readaloud/internal/infra/tts"
)

var (
	app        = kingpin.New("readaloud-server", "readaloud narration server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	// list-filters command
	listFiltersCmd = app.Command("list-filters", "List available filters and exit")
)

func init() {
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == listFiltersCmd.FullCommand() {
		printFilters()
		return
	}

	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = "file"
		loggerConfig.File = *logfile
	}
	closeLog, err := logger.Init(loggerConfig)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer closeLog()

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		closeLog()
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	// Open database
	db, err := store.Open(cfg.Database)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer db.Close()
	zlog.Info().Msgf("Database opened: type=%s", db.DatabaseType())

	// Build catalog
	filters, err := filter.NewChainFromConfig(cfg.Catalog.Filters)
	if err != nil {
		return errors.Wrap(err, "invalid filter config")
	}
	logEnabledFilters(cfg)

	sources, err := catalog.NewChainFromConfig(cfg.Catalog, db)
	if err != nil {
		return errors.Wrap(err, "failed to create catalog")
	}
	zlog.Info().Msgf("Catalog ready: sources=%d", len(sources.Sources()))
	catalogSvc := catalog.NewService(sources, filters)

	// Create narration engine
	synth, err := tts.New(tts.Config{
		Provider:       cfg.Speech.Provider,
		APIKey:         cfg.Speech.APIKey,
		BaseURL:        cfg.Speech.BaseURL,
		Model:          cfg.Speech.Model,
		Voice:          cfg.Speech.Voice,
		WordsPerMinute: cfg.Speech.WordsPerMinute,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create speech synthesizer")
	}
	engine := narration.New(synth, narration.Config{
		SynthesisTimeout: cfg.SynthesisTimeout(),
		AudioRetention:   cfg.Speech.AudioRetention,
	})
	defer engine.Close()
	if !engine.Available() {
		zlog.Warn().Msg("Speech provider is disabled, playback commands will be ignored")
	}

	// Create player manager
	playerMgr, err := player.NewManager(cfg, engine, catalogSvc, db)
	if err != nil {
		return errors.Wrap(err, "failed to create player")
	}
	playerMgr.Start()

	handler := router.New(router.Options{
		Config:   cfg,
		Player:   playerMgr,
		Catalog:  catalogSvc,
		Importer: catalog.NewFeedImporter(db),
		Articles: db,
		Audio:    engine,
	})

	// Create server with h2c (HTTP/2 cleartext) support
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to capture server startup errors
	serverErrCh := make(chan error, 1)
	serverStartedCh := make(chan struct{})

	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", cfg.Server.Addr)
		close(serverStartedCh)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	<-serverStartedCh
	// Give the server a moment to fully initialize
	time.Sleep(100 * time.Millisecond)

	executeHooks(cfg.Server.Hooks.OnStarted, "on_started")

	// Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		playerMgr.Close()
		return errors.Wrap(err, "server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close the player first to end event streams
	playerMgr.ClosePlayer()
	playerMgr.Close()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")

	executeHooks(cfg.Server.Hooks.OnStopped, "on_stopped")

	return nil
}

// printFilters prints available filters.
func printFilters() {
	registry := filter.GetRegistered()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Available Filters:")
	for _, name := range names {
		f := registry[name]()
		codes := strings.Join(f.ReturnCodes(), ", ")
		fmt.Printf("  %-30s - %s [codes: %s]\n", name, f.Description(), codes)
	}
}

// logEnabledFilters logs which registered filters the config turns on.
func logEnabledFilters(cfg *config.Config) {
	var enabled []string
	for name := range filter.GetRegistered() {
		if cfg.IsFilterEnabled(name) {
			enabled = append(enabled, name)
		}
	}
	sort.Strings(enabled)
	zlog.Info().Msgf("Catalog filters enabled: %v", enabled)
}

// executeHooks runs a list of shell commands.
func executeHooks(hooks []string, stage string) {
	if len(hooks) == 0 {
		return
	}

	zlog.Info().Msgf("Executing %s hooks (%d commands)", stage, len(hooks))

	for _, hook := range hooks {
		zlog.Info().Msgf("Executing hook: %s", hook)
		// Use sh -c to allow shell features like redirection or pipes
		cmd := exec.Command("sh", "-c", hook)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			zlog.Error().Err(err).Msgf("Failed to execute hook: %s", hook)
		}
	}
}
