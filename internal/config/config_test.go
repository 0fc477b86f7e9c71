package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
  port: 3306
  user: forensics
  name: rankforensics
openai:
  apiKey: sk-file-key
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want default 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "mysql" {
		t.Errorf("driver = %q, want default mysql", cfg.Database.Driver)
	}
	if cfg.RateLimit.Requests != 10 || cfg.RateLimit.WindowSeconds != 60 {
		t.Errorf("rate limit = %d/%ds, want 10/60s", cfg.RateLimit.Requests, cfg.RateLimit.WindowSeconds)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
openai:
  apiKey: sk-file-key
database:
  password: from-file
`)
	t.Setenv("OPENAI_API_KEY", "sk-env-key")
	t.Setenv("DB_PASSWORD", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OpenAI.APIKey != "sk-env-key" {
		t.Errorf("openai key = %q, env override lost", cfg.OpenAI.APIKey)
	}
	if cfg.Database.Password != "from-env" {
		t.Errorf("db password = %q, env override lost", cfg.Database.Password)
	}
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  driver: postgres
  host: db.internal
  port: 5432
  user: svc
  password: pw
  name: forensics
  sslMode: require
rateLimit:
  requests: 5
  windowSeconds: 30
auth:
  apiKeys:
    alice@example.com: sk-alice
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Auth.APIKeys["alice@example.com"] != "sk-alice" {
		t.Errorf("api keys = %v", cfg.Auth.APIKeys)
	}
	if got := cfg.PostgresDSN(); got != "host=db.internal port=5432 user=svc password=pw dbname=forensics sslmode=require" {
		t.Errorf("postgres dsn = %q", got)
	}
}

func TestMySQLDSN(t *testing.T) {
	var cfg Config
	cfg.Database.User = "svc"
	cfg.Database.Password = "pw"
	cfg.Database.Host = "127.0.0.1"
	cfg.Database.Port = 3306
	cfg.Database.Name = "forensics"

	want := "svc:pw@tcp(127.0.0.1:3306)/forensics?parseTime=true&charset=utf8mb4&loc=UTC"
	if got := cfg.MySQLDSN(); got != want {
		t.Errorf("mysql dsn = %q, want %q", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
