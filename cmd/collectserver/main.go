package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	crand "crypto/rand"

	"github.com/collectgame/server/internal/app"
	"github.com/collectgame/server/internal/config"
	"github.com/collectgame/server/internal/event"
	"github.com/collectgame/server/internal/httpapi"
	"github.com/collectgame/server/internal/persist"
	"github.com/collectgame/server/internal/players"
	"github.com/collectgame/server/internal/retire"
	"github.com/collectgame/server/internal/snapshot"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	configFile      string
	wwwRoot         string
	opsConfig       string
	stateFile       string
	tickPeriodMS    int64
	saveStatePerMS  int64
	randomizeSpawns bool
}

func parseFlags() (*flags, error) {
	f := &flags{}
	pflag.StringVarP(&f.configFile, "config-file", "c", "", "path to the game config JSON file (required)")
	pflag.StringVarP(&f.wwwRoot, "www-root", "w", "", "path to the static client root (required)")
	pflag.StringVarP(&f.opsConfig, "ops-config", "o", "", "path to the operational TOML config (optional)")
	pflag.StringVarP(&f.stateFile, "state-file", "s", "", "path to the snapshot state file (optional)")
	pflag.Int64VarP(&f.tickPeriodMS, "tick-period", "t", 0, "tick period in milliseconds; presence enables automatic ticking")
	pflag.Int64VarP(&f.saveStatePerMS, "save-state-period", "p", 0, "snapshot save period in milliseconds (auto mode + state-file only)")
	pflag.BoolVar(&f.randomizeSpawns, "randomize-spawn-points", false, "spawn dogs at a random point on a road instead of the first road's start")
	pflag.Parse()

	if f.configFile == "" {
		return nil, fmt.Errorf("-c/--config-file is required")
	}
	if f.wwwRoot == "" {
		return nil, fmt.Errorf("-w/--www-root is required")
	}
	return f, nil
}

func run() error {
	f, err := parseFlags()
	if err != nil {
		return fmt.Errorf("flags: %w", err)
	}

	opsCfg, err := config.LoadOps(f.opsConfig)
	if err != nil {
		return fmt.Errorf("ops config: %w", err)
	}
	opsCfg.Database.DSN = os.Getenv("GAME_DB_URL")
	if opsCfg.Database.DSN == "" {
		return fmt.Errorf("GAME_DB_URL is not set")
	}

	log, err := newLogger(opsCfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	gameCfg, err := config.LoadGame(f.configFile)
	if err != nil {
		return fmt.Errorf("game config: %w", err)
	}
	maps, err := gameCfg.BuildMaps()
	if err != nil {
		return fmt.Errorf("build maps: %w", err)
	}
	log.Info("loaded game config", zap.Int("maps", len(maps)))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, opsCfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	log.Info("connected to postgres")

	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	log.Info("migrations applied")

	retirementRepo := persist.NewRetirementRepo(db)
	sink := retire.NewPgSink(retirementRepo)

	autoMode := f.tickPeriodMS > 0
	bus := event.NewBus()
	svc := app.NewService(app.Config{
		Maps:                maps,
		Registry:            players.NewRegistry(crand.Reader),
		Sink:                sink,
		Bus:                 bus,
		LootPeriod:          gameCfg.LootGeneratorPeriod(),
		LootProbability:     gameCfg.LootGeneratorProbability(),
		RetirementThreshold: gameCfg.RetirementThreshold(),
		RandomizeSpawns:     f.randomizeSpawns,
		AutoMode:            autoMode,
		Log:                 log,
	})

	if f.stateFile != "" {
		if err := snapshot.EnsureDir(f.stateFile); err != nil {
			return fmt.Errorf("state file dir: %w", err)
		}
		snap, ok, err := snapshot.Load(f.stateFile)
		if err != nil {
			return fmt.Errorf("load state file: %w", err)
		}
		if ok {
			if err := svc.Restore(snap); err != nil {
				return fmt.Errorf("restore state: %w", err)
			}
			log.Info("restored state", zap.String("path", f.stateFile))
		}

		// The listener saves unconditionally after a manual tick and once
		// per elapsed save-state-period after an auto tick (spec.md §4.8).
		// It subscribes itself to bus and lives for the process lifetime.
		snapshot.NewListener(bus, f.stateFile, time.Duration(f.saveStatePerMS)*time.Millisecond, svc.Snapshot, log)
	}

	apiServer := httpapi.NewServer(svc, log)
	mux := http.NewServeMux()
	mux.Handle("/api/", apiServer)
	mux.Handle("/", http.FileServer(http.Dir(f.wwwRoot)))

	httpServer := &http.Server{
		Addr:    opsCfg.Server.BindAddress,
		Handler: mux,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", opsCfg.Server.BindAddress))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErrCh <- err
		}
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	var tickCh <-chan time.Time
	var ticker *time.Ticker
	if autoMode {
		ticker = time.NewTicker(time.Duration(f.tickPeriodMS) * time.Millisecond)
		defer ticker.Stop()
		tickCh = ticker.C
	}

	lastTick := time.Now()

	for {
		select {
		case now := <-tickCh:
			dt := now.Sub(lastTick)
			lastTick = now
			if err := svc.Tick(context.Background(), dt, false); err != nil {
				log.Error("tick failed, shutting down", zap.Error(err))
				shutdownServer(httpServer, svc, f.stateFile, log)
				return fmt.Errorf("tick: %w", err)
			}

		case err := <-serveErrCh:
			log.Error("http server failed", zap.Error(err))
			shutdownServer(httpServer, svc, f.stateFile, log)
			return fmt.Errorf("http server: %w", err)

		case sig := <-shutdownCh:
			log.Info("received shutdown signal", zap.String("signal", sig.String()))
			shutdownServer(httpServer, svc, f.stateFile, log)
			return nil
		}
	}
}

func shutdownServer(srv *http.Server, svc *app.Service, stateFile string, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful http shutdown failed", zap.Error(err))
	}
	if stateFile != "" {
		if err := snapshot.Save(stateFile, svc.Snapshot()); err != nil {
			log.Error("final snapshot save failed", zap.Error(err))
			return
		}
		log.Info("saved final snapshot", zap.String("path", stateFile))
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
