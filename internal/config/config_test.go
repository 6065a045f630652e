package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.EngineBind != defaultEngineBind {
		t.Fatalf("EngineBind = %q, want default %q", cfg.EngineBind, defaultEngineBind)
	}
	if cfg.StunServer != defaultStunServer {
		t.Fatalf("StunServer = %q, want default %q", cfg.StunServer, defaultStunServer)
	}
}

func TestLoad_ReadsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.toml")
	content := "engine_bind = \"10.0.0.5:3000\"\nstun_server = \"stun:stun.example.org:3478\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.EngineBind != "10.0.0.5:3000" {
		t.Fatalf("EngineBind = %q", cfg.EngineBind)
	}
	if cfg.StunServer != "stun:stun.example.org:3478" {
		t.Fatalf("StunServer = %q", cfg.StunServer)
	}
}

func TestLoad_BlankValuesKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.toml")
	if err := os.WriteFile(path, []byte("engine_bind = \"  \"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.EngineBind != defaultEngineBind {
		t.Fatalf("EngineBind = %q, want default", cfg.EngineBind)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.toml")
	if err := os.WriteFile(path, []byte("engine_bind = [broken"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load = nil error for invalid TOML")
	}
}
