package config

import "testing"

func validConfig() Config {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_Database(t *testing.T) {
	tests := []struct {
		name    string
		db      DatabaseConfig
		wantErr string
	}{
		{"memory", DatabaseConfig{Driver: DriverMemory}, ""},
		{"redis ok", DatabaseConfig{Driver: DriverRedis, Addrs: []string{"localhost:6379"}}, ""},
		{"valkey missing addrs", DatabaseConfig{Driver: DriverValkey}, `database.addrs is required for driver "valkey"`},
		{"sqlite ok", DatabaseConfig{Driver: DriverSQLite, Path: "papyrus.db"}, ""},
		{"sqlite missing path", DatabaseConfig{Driver: DriverSQLite}, `database.path is required for driver "sqlite"`},
		{"unknown", DatabaseConfig{Driver: "mongo"}, `database.driver must be one of memory, redis, valkey, sqlite, got "mongo"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Database = tt.db
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("unexpected error message:\ngot:  %v\nwant: %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_GenerationProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Generation.Provider = ProviderAnthropic
	cfg.Generation.Model = "claude-3-5-haiku-latest"

	err := cfg.Validate()
	if err == nil || err.Error() != "generation.providers.anthropic.api_key is required" {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Generation.Providers = map[string]ProviderConfig{ProviderAnthropic: {APIKey: "sk-test"}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Generation.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing model")
	}

	cfg.Generation.Provider = "gemini"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestValidate_MCPPath(t *testing.T) {
	cfg := validConfig()
	cfg.MCP = MCPConfig{Enabled: true, Path: "mcp"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for relative mcp path")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.Driver != DriverMemory {
		t.Errorf("expected Driver=memory, got %q", cfg.Database.Driver)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Storage.KeyPrefix != "papyrus:" {
		t.Errorf("expected KeyPrefix='papyrus:', got %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Generation.Provider != ProviderPlaceholder {
		t.Errorf("expected Provider=placeholder, got %q", cfg.Generation.Provider)
	}
	if cfg.Generation.TimeoutSec != 45 || cfg.Generation.MaxTokens != 2048 || cfg.Generation.Burst != 1 {
		t.Errorf("unexpected generation defaults: %+v", cfg.Generation)
	}
	if cfg.MCP.Path != "/mcp" {
		t.Errorf("expected MCP path /mcp, got %q", cfg.MCP.Path)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:       HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 90, ShutdownSec: 5},
		Database:   DatabaseConfig{Driver: DriverSQLite, ReadinessTimeout: 15},
		Storage:    StorageConfig{KeyPrefix: "custom:"},
		Generation: GenerationConfig{Provider: ProviderOpenAI, TimeoutSec: 5},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 90 {
		t.Errorf("expected WriteTimeoutSec=90, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("expected Driver=sqlite, got %q", cfg.Database.Driver)
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Generation.TimeoutSec != 5 {
		t.Errorf("expected TimeoutSec=5, got %d", cfg.Generation.TimeoutSec)
	}
}

func TestParse_ExpandsEnvVars(t *testing.T) {
	t.Setenv("PAPYRUS_PORT", "9090")
	t.Setenv("PAPYRUS_OPENAI_KEY", "sk-env")

	data := []byte(`
http:
  port: ${PAPYRUS_PORT}
database:
  driver: ${PAPYRUS_DB_DRIVER:-sqlite}
  path: ${PAPYRUS_DB_PATH:-/tmp/papyrus.db}
generation:
  provider: openai
  model: gpt-4o-mini
  providers:
    openai:
      api_key: ${PAPYRUS_OPENAI_KEY}
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Database.Driver != DriverSQLite || cfg.Database.Path != "/tmp/papyrus.db" {
		t.Errorf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Generation.Providers[ProviderOpenAI].APIKey != "sk-env" {
		t.Errorf("env var not expanded: %+v", cfg.Generation.Providers)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Fatal("expected yaml error")
	}
	if _, err := Parse([]byte("http:\n  port: 0\n")); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port == 0 {
		t.Error("expected port from config/local.yaml")
	}
}

func TestParse_AuthKeys(t *testing.T) {
	t.Setenv("PAPYRUS_READ_KEY", "reader")

	cfg, err := Parse([]byte(`
auth:
  api_keys: [editor]
  read_api_keys:
    - ${PAPYRUS_READ_KEY}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Auth.APIKeys) != 1 || cfg.Auth.APIKeys[0] != "editor" {
		t.Errorf("api_keys = %v", cfg.Auth.APIKeys)
	}
	if len(cfg.Auth.ReadAPIKeys) != 1 || cfg.Auth.ReadAPIKeys[0] != "reader" {
		t.Errorf("read_api_keys = %v", cfg.Auth.ReadAPIKeys)
	}
}
