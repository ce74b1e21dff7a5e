package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jobly-api/jobly/internal/admin"
	"github.com/jobly-api/jobly/internal/config"
	"github.com/jobly-api/jobly/internal/jobs"
	"github.com/jobly-api/jobly/pkg/engine"
	"github.com/jobly-api/jobly/pkg/engine/mutation"
)

// loadConfig reads the config file, falling back to defaults when none exists
func loadConfig() (*config.Config, *admin.ManagerFactory, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	factory := admin.NewManagerFactory(workDir)
	loader := factory.CreateConfigLoader()
	if configFile != "" {
		loader = loader.WithFile(configFile)
	}

	cfg, err := loader.LoadOrDefault()
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		if _, statErr := os.Stat(loader.Path()); statErr == nil {
			printInfo("Using %s", loader.Path())
		} else {
			printInfo("No config file, using defaults")
		}
	}
	return cfg, factory, nil
}

// newEngine creates an unconnected engine with mutations registered and
// the --debug level applied
func newEngine() *engine.Engine {
	eng := engine.NewEngine()
	switch {
	case trace:
		eng.WithDebug(engine.DebugTrace)
	case debugLevel != "":
		eng.WithDebug(engine.ParseDebugLevel(debugLevel))
	}
	mutation.Register(eng)
	return eng
}

// connectEngine connects to the database named by DATABASE_URL, the config
// file or the defaults, in that order
func connectEngine(ctx context.Context, cfg *config.Config) (*engine.Engine, error) {
	conn, source, err := cfg.ConnectorConfig()
	if err != nil {
		return nil, err
	}
	if verbose {
		printInfo("Connecting to %s:%d/%s (from %s)", conn.Host, conn.Port, conn.Database, source)
	}

	eng := newEngine()
	if err := eng.Connect(ctx, conn); err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return eng, nil
}

// openRepository connects and returns a jobs repository, journaled when the
// config enables it. The returned func closes the connection.
func openRepository(ctx context.Context) (*jobs.Repository, func(), error) {
	cfg, factory, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	eng, err := connectEngine(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	repo := jobs.NewRepository(eng)
	if cfg.Journal.Enabled {
		logger, err := factory.CreateJournalLogger(cfg)
		if err != nil {
			printWarning("Journal disabled: %v", err)
		} else {
			repo.WithJournal(logger)
		}
	}
	return repo, eng.Close, nil
}

// offlineRepository builds statements without a database connection
func offlineRepository() *jobs.Repository {
	return jobs.NewRepository(newEngine())
}
