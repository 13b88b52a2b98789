package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment overrides. Nested keys use a double
// underscore, so DIVIJ_LOG__LEVEL sets log.level.
const EnvPrefix = "DIVIJ_"

// Config captures the DivijEncrypt configuration resolved from defaults,
// optional files and environment overrides.
type Config struct {
	APIAddr    string    `koanf:"api_addr"`
	RecipesDir string    `koanf:"recipes_dir"`
	SymbolSeed int64     `koanf:"symbol_seed"`
	Log        LogConfig `koanf:"log"`
}

// LogConfig controls diagnostic and audit logging.
type LogConfig struct {
	Level     string `koanf:"level"`
	JSON      bool   `koanf:"json"`
	AuditFile string `koanf:"audit_file"`
	AuditDB   string `koanf:"audit_db"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIAddr:    "127.0.0.1:8475",
		RecipesDir: "~/.divijencrypt/recipes",
		Log: LogConfig{
			Level: "info",
			JSON:  true,
		},
	}
}

// Load resolves the configuration. When path is empty the lookup order for
// configuration files is:
//  1. ~/.divijencrypt/config.yml
//  2. ./divij.yml
//
// Later files override earlier ones and missing files are skipped. An
// explicit path must exist. Environment variables prefixed with DIVIJ_ have
// the highest precedence.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	} else {
		for _, candidate := range defaultPaths() {
			if err := k.Load(file.Provider(candidate), yaml.Parser()); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return Config{}, fmt.Errorf("load config %s: %w", candidate, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.normalise(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaultPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".divijencrypt", "config.yml"))
	}
	return append(paths, "divij.yml")
}

// envKey maps DIVIJ_LOG__AUDIT_FILE onto log.audit_file.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *Config) normalise() error {
	c.APIAddr = strings.TrimSpace(c.APIAddr)
	if _, _, err := net.SplitHostPort(c.APIAddr); err != nil {
		return fmt.Errorf("api_addr %q: %w", c.APIAddr, err)
	}
	dir, err := expandHome(strings.TrimSpace(c.RecipesDir))
	if err != nil {
		return err
	}
	c.RecipesDir = dir
	if c.Log.AuditFile, err = expandHome(strings.TrimSpace(c.Log.AuditFile)); err != nil {
		return err
	}
	if c.Log.AuditDB, err = expandHome(strings.TrimSpace(c.Log.AuditDB)); err != nil {
		return err
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
