package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

type testConfig struct {
	ServiceConfig `mapstructure:",squash"`
	Database      struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"database"`
	Server struct {
		Port        int    `mapstructure:"port"`
		MaxBodySize string `mapstructure:"max_body_size"`
	} `mapstructure:"server"`
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const baseYAML = `
name: recorder
environment: staging
database:
  dsn: ./app.db
server:
  port: 8000
  max_body_size: 50MB
`

func TestLoadConfigFromYAML(t *testing.T) {
	var cfg testConfig
	if err := LoadConfig("recorder", &cfg, WithConfigFile(writeConfig(t, baseYAML))); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "recorder" || cfg.Environment != "staging" {
		t.Errorf("unexpected service config %+v", cfg.ServiceConfig)
	}
	if cfg.Database.DSN != "./app.db" {
		t.Errorf("expected dsn ./app.db, got %q", cfg.Database.DSN)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("SERVER_MAX_BODY_SIZE", "1MB")

	var cfg testConfig
	if err := LoadConfig("recorder", &cfg, WithConfigFile(writeConfig(t, baseYAML))); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("expected env port 9100, got %d", cfg.Server.Port)
	}
	if cfg.Server.MaxBodySize != "1MB" {
		t.Errorf("expected env body size 1MB, got %q", cfg.Server.MaxBodySize)
	}
}

func TestLoadConfigEnvAliases(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/recorder")

	var cfg testConfig
	err := LoadConfig("recorder", &cfg,
		WithConfigFile(writeConfig(t, baseYAML)),
		WithEnvAliases(map[string]string{"DATABASE_URL": "database.dsn"}),
	)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.DSN != "postgres://db/recorder" {
		t.Errorf("expected alias to win, got %q", cfg.Database.DSN)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envPath, []byte("DATABASE_DSN=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("DATABASE_DSN") })

	var cfg testConfig
	err := LoadConfig("recorder", &cfg, WithConfigFile(writeConfig(t, baseYAML)), WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.DSN != "from-dotenv" {
		t.Errorf("expected dotenv value, got %q", cfg.Database.DSN)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("recorder", &cfg, WithConfigFile("/nonexistent/config.yml"))
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected missing file error, got %v", err)
	}
}

type mockFS struct{ files map[string]bool }

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(string) error    { return nil }

func TestResolverSearchOrder(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		filepath.Join("..", "cmd", "recorder", "config.yml"): true,
		"config.yml": true,
		".env":       true,
	}}
	files := (&Resolver{FileSystem: fs}).ResolveFiles("recorder", LoaderConfig{})

	if files.ConfigFile != filepath.Join("..", "cmd", "recorder", "config.yml") {
		t.Errorf("unexpected config file %q", files.ConfigFile)
	}
	if files.EnvFile != ".env" {
		t.Errorf("unexpected env file %q", files.EnvFile)
	}
}

func TestResolverExplicitPathsWin(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"config.yml": true}}
	files := (&Resolver{FileSystem: fs}).ResolveFiles("recorder", LoaderConfig{ConfigFile: "x.yml", EnvFile: "y.env"})
	if files.ConfigFile != "x.yml" || files.EnvFile != "y.env" {
		t.Errorf("explicit paths not kept: %+v", files)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("SERVER_MAX_BODY_SIZE")
	for _, want := range []string{"server_max_body_size", "server.max_body_size", "server.max.body.size"} {
		if !slices.Contains(got, want) {
			t.Errorf("expected variant %q in %v", want, got)
		}
	}
	if got := envKeyVariants("PORT"); len(got) != 1 || got[0] != "port" {
		t.Errorf("unexpected variants for PORT: %v", got)
	}
}

func TestServiceConfig(t *testing.T) {
	var c ServiceConfig
	c.ApplyDefaults()
	if c.Environment != "development" || !c.Debug {
		t.Errorf("unexpected defaults %+v", c)
	}
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "name is required") {
		t.Errorf("expected name error, got %v", err)
	}

	c.Name = "recorder"
	c.Environment = "qa"
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "environment must be one of") {
		t.Errorf("expected environment error, got %v", err)
	}

	c.Environment = "production"
	if err := c.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
