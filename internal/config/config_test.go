package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func setupHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	viper.Reset()
	explicitPath = ""
	t.Cleanup(func() {
		viper.Reset()
		explicitPath = ""
	})
	return dir
}

func TestLoadDefaults(t *testing.T) {
	setupHome(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HeaderRows != 1 {
		t.Errorf("header_rows = %d", cfg.HeaderRows)
	}
	if cfg.Duplicates != "allow" || cfg.Output.Format != "xlsx" {
		t.Errorf("defaults = %+v", cfg)
	}
	if !strings.Contains(cfg.Pattern, "Exam Deliverables") {
		t.Errorf("pattern = %q", cfg.Pattern)
	}
	if !cfg.History.Enabled || !strings.HasSuffix(cfg.History.Path, "history.jsonl") {
		t.Errorf("history = %+v", cfg.History)
	}
	if !cfg.NASet().Is("#N/A") {
		t.Error("default NA set should contain #N/A")
	}
	if len(cfg.Validate()) != 0 {
		t.Errorf("defaults should validate: %+v", cfg.Validate())
	}
}

func TestLoadExplicitFile(t *testing.T) {
	dir := setupHome(t)
	path := filepath.Join(dir, "answerkit.yaml")
	os.WriteFile(path, []byte("header_rows: 0\nduplicates: warn\nna_values: [\"-\"]\n"), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HeaderRows != 0 || cfg.Duplicates != "warn" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	na := cfg.NASet()
	if !na.Is("-") || na.Is("#N/A") {
		t.Error("configured NA set should replace the defaults")
	}
	if ConfigPath() != path {
		t.Errorf("ConfigPath = %q", ConfigPath())
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	setupHome(t)
	if _, err := Load("/nonexistent/answerkit.yaml"); err == nil {
		t.Error("expected error for a missing explicit config")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	setupHome(t)
	t.Setenv("ANSWERKIT_DUPLICATES", "reject")
	t.Setenv("ANSWERKIT_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Duplicates != "reject" || cfg.Log.Level != "debug" {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{Pattern: "(", Duplicates: "merge", HeaderRows: -1, Layout: "/nonexistent.yaml"}
	keys := map[string]bool{}
	for _, issue := range cfg.Validate() {
		keys[issue.Key] = true
	}
	for _, k := range []string{"pattern", "duplicates", "header_rows", "layout"} {
		if !keys[k] {
			t.Errorf("expected an issue for %s", k)
		}
	}
}

func TestSetAndGet(t *testing.T) {
	dir := setupHome(t)
	if _, err := Load(""); err != nil {
		t.Fatal(err)
	}

	if err := Set("duplicates", "warn"); err != nil {
		t.Fatal(err)
	}
	if got := Get("duplicates"); got != "warn" {
		t.Errorf("Get(duplicates) = %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, ".answerkit", "config.yaml")); err != nil {
		t.Errorf("config file not written: %v", err)
	}
}

func TestShowConfig(t *testing.T) {
	setupHome(t)
	Load("")
	out := ShowConfig()
	for _, want := range []string{"pattern:", "header_rows:  1", "(built-in)", "history.jsonl"} {
		if !strings.Contains(out, want) {
			t.Errorf("ShowConfig missing %q:\n%s", want, out)
		}
	}
}

func TestResetConfig(t *testing.T) {
	setupHome(t)
	Load("")
	Set("duplicates", "reject")

	if err := ResetConfig(); err != nil {
		t.Fatal(err)
	}
	if Get("duplicates") != "allow" {
		t.Errorf("duplicates should reset to default, got %q", Get("duplicates"))
	}
	if _, err := os.Stat(ConfigPath()); !os.IsNotExist(err) {
		t.Error("config file should be removed")
	}
}
