package main

import (
	"log/slog"
	"os"

	"stortally/internal/config"
	"stortally/internal/provider/factory"
	"stortally/internal/service"
	"stortally/internal/ui/prompt"
	"stortally/pkg/formatter"
)

// appContainer holds all the shared dependencies for the application
// This includes configuration, service clients, formatters, and the logger
type appContainer struct {
	Config          *config.Config
	ConfigManager   *config.Manager
	ProviderFactory *factory.Factory
	ScanService     *service.ScanService
	Formatter       *formatter.ReportFormatter
	Prompter        prompt.Prompter
	Logger          *slog.Logger
}

// Creates and initializes a new application container
func newApp(logger *slog.Logger) (*appContainer, error) {
	cfgManager, err := config.NewManager()
	if err != nil {
		return nil, err
	}

	cfg, err := cfgManager.Load()
	if err != nil {
		return nil, err
	}

	providerFactory := factory.NewFactory(cfg, logger)
	scanService := service.NewScanService(providerFactory, logger)

	return &appContainer{
		Config:          cfg,
		ConfigManager:   cfgManager,
		ProviderFactory: providerFactory,
		ScanService:     scanService,
		Formatter:       formatter.NewReportFormatter(),
		Prompter:        prompt.NewStandardPrompter(os.Stdin, os.Stdout),
		Logger:          logger,
	}, nil
}
