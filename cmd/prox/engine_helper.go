package main

import (
	"fmt"
	"os"

	"prox/internal/config"
	"prox/internal/logging"
	"prox/internal/query"
	"prox/internal/storage"
)

// session bundles everything a command needs to talk to the engine.
type session struct {
	repoRoot string
	config   *config.Config
	logger   *logging.Logger
	db       *storage.DB
	engine   *query.Engine
}

func (s *session) close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

// exitWithError prints a command failure and exits.
func exitWithError(action string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", action, err)
	os.Exit(1)
}

// mustGetRepoRoot resolves the repository root from --repo or the working
// directory.
func mustGetRepoRoot() string {
	if repoFlag != "" {
		return repoFlag
	}
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving working directory: %v\n", err)
		os.Exit(1)
	}
	return wd
}

// mustOpenSession loads config, opens storage, and builds the engine,
// exiting on failure.
func mustOpenSession() *session {
	repoRoot := mustGetRepoRoot()

	cfg, err := config.LoadConfig(repoRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error validating config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.LogLevel(cfg.Logging.Level),
	})

	db, err := storage.Open(repoRoot, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}

	engine, err := query.NewEngine(repoRoot, db, logger, cfg)
	if err != nil {
		_ = db.Close()
		fmt.Fprintf(os.Stderr, "Error creating engine: %v\n", err)
		os.Exit(1)
	}

	return &session{
		repoRoot: repoRoot,
		config:   cfg,
		logger:   logger,
		db:       db,
		engine:   engine,
	}
}
