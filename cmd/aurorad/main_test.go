package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveConfigPrecedence(t *testing.T) {
	t.Setenv("AURORAD_ADDR", ":7000")
	t.Setenv("API_KEY", "env-secret")
	t.Setenv("MODEL_PATH", "x")
	_ = os.Unsetenv("MODEL_PATH")
	t.Setenv("MODEL_VERSION_FILE", "x")
	_ = os.Unsetenv("MODEL_VERSION_FILE")

	d := t.TempDir()
	cfgPath := filepath.Join(d, "aurorad.yaml")
	if err := os.WriteFile(cfgPath, []byte("addr: :7100\nmodel_path: /file/model.bin\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newRootCmd()
	if err := cmd.Flags().Set("addr", ":7200"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	cfg, err := resolveConfig(cmd, cfgPath)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// flag > file > env
	if cfg.Addr != ":7200" {
		t.Fatalf("addr=%q", cfg.Addr)
	}
	if cfg.ModelPath != "/file/model.bin" {
		t.Fatalf("model_path=%q", cfg.ModelPath)
	}
	if cfg.APIKey != "env-secret" {
		t.Fatalf("api_key=%q", cfg.APIKey)
	}
	// env default survives the overlay
	if cfg.MetadataPath != "/models/california-housing/latest/metadata.json" {
		t.Fatalf("metadata_path=%q", cfg.MetadataPath)
	}
}

func TestResolveConfigRejectsBadLevel(t *testing.T) {
	t.Setenv("AURORAD_LOG_LEVEL", "loud")
	cmd := newRootCmd()
	if _, err := resolveConfig(cmd, ""); err == nil {
		t.Fatalf("expected validation error")
	}
}
