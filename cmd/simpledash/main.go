package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/derekology/simple-dash/internal/config"
	"github.com/derekology/simple-dash/internal/database"
	"github.com/derekology/simple-dash/internal/database/repository"
	"github.com/derekology/simple-dash/internal/prefs"
	"github.com/derekology/simple-dash/internal/service"
	"github.com/derekology/simple-dash/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	logger, err := buildLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	campaignRepo := repository.NewCampaignRepo(db)
	reportRepo := repository.NewReportRepo(db)

	ingester := &service.IngestService{
		Campaigns: campaignRepo,
		Reports:   reportRepo,
		Limits: service.Limits{
			MaxFiles:     cfg.Import.MaxFiles,
			MaxFileBytes: cfg.Import.MaxFileBytes,
		},
		Log: logger,
	}
	stats := &service.StatsService{
		LowVolumeThreshold:   cfg.Analysis.LowVolumeThreshold,
		OutlierIQRMultiplier: cfg.Analysis.OutlierIQRMultiplier,
	}
	maintenance := &service.MaintenanceService{DB: db}

	// restore the last campaign selection if a prefs file exists
	selected, err := prefs.LoadSelection()
	if err != nil {
		logger.Warn("load selection prefs", zap.Error(err))
		selected = nil
	}

	p := tea.NewProgram(tui.New(ctx, cfg,
		tui.Repos{Campaigns: campaignRepo, Reports: reportRepo},
		tui.Services{Ingest: ingester, Stats: stats, Maintenance: maintenance},
		selected,
	), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// buildLogger writes structured logs to the configured file. The TUI
// owns stdout, so nothing is logged there.
func buildLogger(cfg config.Config) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0o755); err != nil {
		return nil, err
	}
	level := zapcore.InfoLevel
	if cfg.Log.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", cfg.Log.Level, err)
		}
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{cfg.Log.Path}
	zc.ErrorOutputPaths = []string{cfg.Log.Path}
	return zc.Build()
}
