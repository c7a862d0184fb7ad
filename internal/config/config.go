package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ProcessConfig holds configuration for the process command, merged from
// flags, environment variables (SWAPD_*), and an optional config file.
type ProcessConfig struct {
	In       string
	Out      string
	State    string
	PgDSN    string
	LogLevel string
}

// LoadProcess merges config file, environment variables, and flags.
func LoadProcess(cfgFile string, flags *pflag.FlagSet) (ProcessConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"out":       "./data/results.jsonl",
		"log-level": "info",
	})
	if err != nil {
		return ProcessConfig{}, err
	}

	return ProcessConfig{
		In:       v.GetString("in"),
		Out:      v.GetString("out"),
		State:    v.GetString("state"),
		PgDSN:    v.GetString("pg-dsn"),
		LogLevel: v.GetString("log-level"),
	}, nil
}

// SeedConfig holds configuration for the seed command.
type SeedConfig struct {
	State    string
	PgDSN    string
	LogLevel string
}

// LoadSeed merges config file, environment variables, and flags.
func LoadSeed(cfgFile string, flags *pflag.FlagSet) (SeedConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"log-level": "info",
	})
	if err != nil {
		return SeedConfig{}, err
	}

	return SeedConfig{
		State:    v.GetString("state"),
		PgDSN:    v.GetString("pg-dsn"),
		LogLevel: v.GetString("log-level"),
	}, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("SWAPD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}
