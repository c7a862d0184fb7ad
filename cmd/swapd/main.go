package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "swapd",
		Short:        "AMM swap engine",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	processCmd := &cobra.Command{
		Use:   "process",
		Short: "Process swap requests from a JSONL file",
		RunE:  runProcess,
	}

	processCmd.Flags().String("in", "", "input swap requests JSONL")
	processCmd.Flags().String("out", "./data/results.jsonl", "output swap results JSONL")
	processCmd.Flags().String("state", "", "seed state JSON file (used with the in-memory store)")
	processCmd.Flags().String("pg-dsn", "", "Postgres DSN (omit to run against the in-memory store)")
	processCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(processCmd)

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a state file into the Postgres store",
		RunE:  runSeed,
	}

	seedCmd.Flags().String("state", "", "seed state JSON file")
	seedCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	seedCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(seedCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
