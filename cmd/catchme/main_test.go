package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/catchme/internal/config"
	"github.com/verte-zerg/catchme/internal/game"
	"github.com/verte-zerg/catchme/internal/model"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     model.Config
		wantErr bool
	}{
		{name: "default", cfg: model.Config{Duration: 30, Profile: "local"}},
		{name: "sixty", cfg: model.Config{Duration: 60, Profile: "local"}},
		{name: "bad duration", cfg: model.Config{Duration: 45, Profile: "local"}, wantErr: true},
		{name: "empty profile", cfg: model.Config{Duration: 15, Profile: "  "}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateConfigWrapsDurationError(t *testing.T) {
	err := validateConfig(model.Config{Duration: 10, Profile: "local"})
	if !errors.Is(err, game.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestValidateStatsConfig(t *testing.T) {
	ok := model.StatsConfig{Profile: "local", CurveWindow: 5}
	if err := validateStatsConfig(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := []model.StatsConfig{
		{Profile: "local", CurveWindow: 0},
		{Profile: "local", CurveWindow: 5, Last: -1},
		{Profile: "local", CurveWindow: 5, Duration: 20},
		{Profile: "", CurveWindow: 5},
	}
	for _, cfg := range bad {
		if err := validateStatsConfig(cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catchme", "config.toml")
	if err := writeConfigTemplate(path); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("template must decode: %v", err)
	}
	if cfg.Game.Duration != nil {
		t.Fatalf("template values should be commented out")
	}

	// Uncommenting every value must still produce known keys.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read template: %v", err)
	}
	uncommented := strings.ReplaceAll(string(raw), "\n# ", "\n")
	uncommented = strings.Replace(uncommented, "catchme configuration", "", 1)
	lines := strings.Split(uncommented, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(line, "Uncomment") || strings.HasPrefix(line, "#") {
			continue
		}
		kept = append(kept, line)
	}
	if err := os.WriteFile(path, []byte(strings.Join(kept, "\n")), 0o644); err != nil {
		t.Fatalf("rewrite template: %v", err)
	}
	cfg, err = config.LoadConfig(path)
	if err != nil {
		t.Fatalf("uncommented template must decode: %v", err)
	}
	if cfg.Game.Duration == nil || *cfg.Game.Duration != game.DefaultDuration {
		t.Fatalf("unexpected duration %v", cfg.Game.Duration)
	}
	if cfg.Serve.Port == nil || *cfg.Serve.Port != defaultServePort {
		t.Fatalf("unexpected port %v", cfg.Serve.Port)
	}
}

func TestWriteConfigTemplateKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[game]\nduration = 15\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := writeConfigTemplate(path); err != nil {
		t.Fatalf("write template: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(raw) != "[game]\nduration = 15\n" {
		t.Fatalf("existing config was overwritten: %q", raw)
	}
}

func TestApplyConfigRespectsChangedFlags(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Set("profile", "cli"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	fileProfile := "file"
	fileDuration := 60
	applyStringConfig(cmd, "profile", &playProfile, &fileProfile)
	applyIntConfig(cmd, "duration", &playDuration, &fileDuration)
	if playProfile != "cli" {
		t.Fatalf("changed flag must win, got %q", playProfile)
	}
	if playDuration != 60 {
		t.Fatalf("config should fill unchanged flag, got %d", playDuration)
	}
}

func TestRootCommandTree(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"config", "stats", "reset", "serve"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub.Name() != name {
			t.Fatalf("missing subcommand %q: %v", name, err)
		}
	}
}

func TestServeFlagsReadEnvironment(t *testing.T) {
	t.Setenv("CATCHME_PORT", "2300")
	t.Setenv("CATCHME_HOST_KEY", "/tmp/catchme_key")
	cmd := newServeCmd()
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		t.Fatalf("get port: %v", err)
	}
	if port != 2300 {
		t.Fatalf("expected env port 2300, got %d", port)
	}
	key, err := cmd.Flags().GetString("host-key")
	if err != nil {
		t.Fatalf("get host key: %v", err)
	}
	if key != "/tmp/catchme_key" {
		t.Fatalf("expected env host key, got %q", key)
	}
}

func TestServeConfigValidate(t *testing.T) {
	cfg := serveConfig{host: "::", port: 2222, hostKey: "/tmp/k", duration: 30}
	if err := cfg.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.port = 70000
	if err := cfg.validate(); err == nil {
		t.Fatalf("expected port error")
	}
	cfg.port = 22
	cfg.duration = 5
	if err := cfg.validate(); !errors.Is(err, game.ErrInvalidDuration) {
		t.Fatalf("expected duration error, got %v", err)
	}
}

func TestSessionProfile(t *testing.T) {
	tests := map[string]string{
		"Alice":         "ssh:alice",
		"  bob  ":       "ssh:bob",
		"":              "ssh:guest",
		"ev!l/../user":  "ssh:evl..user",
		"日本":            "ssh:guest",
		"dot.name_1-2":  "ssh:dot.name_1-2",
	}
	for in, want := range tests {
		if got := sessionProfile(in); got != want {
			t.Fatalf("sessionProfile(%q) = %q, want %q", in, got, want)
		}
	}
	long := strings.Repeat("a", 100)
	if got := sessionProfile(long); len(got) != len(sshProfilePrefix)+maxUserLen {
		t.Fatalf("expected truncated profile, got %q", got)
	}
}
