package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "MATCHPREDICTOR_"
	envConfigPath = envPrefix + "CONFIG"
	weightsPrefix = "signal_weights_"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MATCHPREDICTOR_CONFIG is set
//  3. env (prefix MATCHPREDICTOR_)
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envConfigPath); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// MATCHPREDICTOR_QUEUE_SIZE -> queue_size; keys stay flat to match the
	// koanf tags, except MATCHPREDICTOR_SIGNAL_WEIGHTS_PAIR -> signal_weights.pair.
	// Comma separated values become lists.
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, any) {
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		switch {
		case key == "config":
			return "", nil
		case key == "results_paths", key == "metrics_latency_buckets_ms":
			return key, splitList(value)
		}
		if name, ok := strings.CutPrefix(key, weightsPrefix); ok {
			return "signal_weights." + name, value
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := New()
	defaults := cfg.SignalWeights
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	// Weights set in the file or env override defaults key by key.
	if cfg.SignalWeights == nil {
		cfg.SignalWeights = make(map[string]int, len(defaults))
	}
	for name, w := range defaults {
		if _, ok := cfg.SignalWeights[name]; !ok {
			cfg.SignalWeights[name] = w
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
