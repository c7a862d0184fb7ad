package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swapcore/internal/config"
	"swapcore/internal/store"
	"swapcore/internal/store/postgres"
)

func runSeed(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadSeed(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.State == "" {
		return fmt.Errorf("state file is required")
	}
	if cfg.PgDSN == "" {
		return fmt.Errorf("pg dsn is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state, err := store.LoadSeedState(cfg.State)
	if err != nil {
		return err
	}

	pgStore, err := postgres.NewStore(ctx, cfg.PgDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pgStore.Close()

	if err := store.Seed(ctx, pgStore, state); err != nil {
		return err
	}

	logger.Info("seed complete",
		zap.Int("pools", len(state.Pools)),
		zap.Int("accounts", len(state.Accounts)),
		zap.Int("ticks", len(state.Ticks)),
	)

	return nil
}
