package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swapcore/internal/config"
	"swapcore/internal/engine"
	"swapcore/internal/model"
	"swapcore/internal/storage"
	"swapcore/internal/store"
	"swapcore/internal/store/postgres"
)

const resultBatchSize = 256

func runProcess(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadProcess(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}
	if cfg.Out == "" {
		return fmt.Errorf("output path is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engineStore, cleanup, err := openStore(ctx, cfg.PgDSN, cfg.State)
	if err != nil {
		return err
	}
	defer cleanup()

	processor := engine.NewProcessor(engineStore, engineStore, engineStore, engineStore, engineStore, logger)
	sink := storage.NewJsonlStorage(cfg.Out)

	inputFile, err := os.Open(cfg.In)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer inputFile.Close()

	logger.Info("process start",
		zap.String("in", cfg.In),
		zap.String("out", cfg.Out),
		zap.String("state", cfg.State),
		zap.Bool("postgres", cfg.PgDSN != ""),
	)

	scanner := bufio.NewScanner(inputFile)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	batch := make([]model.SwapResult, 0, resultBatchSize)
	var total, succeeded, failed, malformed int

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++

		var request model.SwapRequest
		if err := json.Unmarshal(line, &request); err != nil {
			malformed++
			logger.Warn("decode swap request", zap.Error(err))
			continue
		}

		result := processor.Process(ctx, request)
		if result.Success {
			succeeded++
		} else {
			failed++
		}

		batch = append(batch, result)
		if len(batch) >= resultBatchSize {
			if err := sink.PutResultBatch(batch); err != nil {
				return fmt.Errorf("store results: %w", err)
			}
			batch = batch[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan input: %w", err)
	}

	if len(batch) > 0 {
		if err := sink.PutResultBatch(batch); err != nil {
			return fmt.Errorf("store results: %w", err)
		}
	}

	logger.Info("process complete",
		zap.Int("total", total),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", failed),
		zap.Int("malformed", malformed),
	)

	return nil
}

// openStore selects the Postgres store when a DSN is given, otherwise an
// in-memory store seeded from the state file.
func openStore(ctx context.Context, pgDSN, statePath string) (store.Store, func(), error) {
	if pgDSN != "" {
		pgStore, err := postgres.NewStore(ctx, pgDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return pgStore, pgStore.Close, nil
	}

	if statePath == "" {
		return nil, nil, fmt.Errorf("state file is required without pg-dsn")
	}

	state, err := store.LoadSeedState(statePath)
	if err != nil {
		return nil, nil, err
	}

	memStore := store.NewMemoryStore()
	if err := store.Seed(ctx, memStore, state); err != nil {
		return nil, nil, err
	}
	return memStore, func() {}, nil
}
