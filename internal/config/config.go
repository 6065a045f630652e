// Package config loads the console's engine connection settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields the console needs to reach the engine.
type Config struct {
	EngineBind string
	StunServer string
}

const (
	defaultConfigPath = "~/.config/studiocommand/console.toml"
	defaultEngineBind = "127.0.0.1:3000"
	defaultStunServer = "stun:stun.l.google.com:19302"
)

// Load locates and parses the console config, falling back to defaults
// when the file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{EngineBind: defaultEngineBind, StunServer: defaultStunServer}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		EngineBind string `toml:"engine_bind"`
		StunServer string `toml:"stun_server"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if bind := strings.TrimSpace(raw.EngineBind); bind != "" {
		cfg.EngineBind = bind
	}
	if stun := strings.TrimSpace(raw.StunServer); stun != "" {
		cfg.StunServer = stun
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
