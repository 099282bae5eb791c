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

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if ROUNDUP_CONFIG is set
//  3. env (prefix ROUNDUP_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("ROUNDUP_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: ROUNDUP_ADDR, ROUNDUP_TENANT_ID, ...
	// Map env keys like ROUNDUP_TENANT_ID -> tenant_id (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("ROUNDUP_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "roundup_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.TenantID == "" {
		return nil, fmt.Errorf("%w: tenant_id must not be empty", ErrInvalidConfig)
	}
	return &cfg, nil
}
