package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadSubstitutesEnv(t *testing.T) {
	t.Setenv("ADVISOR_TEST_PORT", "8088")
	dir := t.TempDir()
	path := filepath.Join(dir, "advisor.json")
	raw := `{
		"server": {"port": ${ADVISOR_TEST_PORT}, "log_level": "${ADVISOR_TEST_LEVEL:debug}"},
		"database": {"redis": {"url": "${ADVISOR_TEST_REDIS:}"}}
	}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8088 {
		t.Errorf("port = %d, want 8088", cfg.Server.Port)
	}
	if cfg.Server.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Server.LogLevel)
	}
	if cfg.Database.Redis.URL != "" {
		t.Errorf("redis url = %q, want empty", cfg.Database.Redis.URL)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 5001 {
		t.Errorf("port = %d, want 5001", cfg.Server.Port)
	}
	if cfg.Catalog.Source != SourceFile {
		t.Errorf("source = %q, want file", cfg.Catalog.Source)
	}
	if cfg.Cache.TTL() != 5*time.Minute {
		t.Errorf("ttl = %v, want 5m", cfg.Cache.TTL())
	}
}

func TestPostgresSourceNeedsDSN(t *testing.T) {
	if _, err := Parse([]byte(`{"catalog": {"source": "postgres"}}`)); err == nil {
		t.Fatal("expected error without dsn")
	}
	if _, err := Parse([]byte(`{"catalog": {"source": "postgres"}, "database": {"postgres": {"dsn": "postgres://x"}}}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUnknownSource(t *testing.T) {
	if _, err := Parse([]byte(`{"catalog": {"source": "s3"}}`)); err == nil {
		t.Fatal("expected error for unknown source")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error")
	}
}

func TestGatewayUsable(t *testing.T) {
	if (SlackGatewayConfig{Enabled: true, BotToken: "xoxb"}).Usable() {
		t.Error("slack without app token should not be usable")
	}
	if !(SlackGatewayConfig{Enabled: true, BotToken: "xoxb", AppToken: "xapp"}).Usable() {
		t.Error("slack with both tokens should be usable")
	}
	if (DiscordGatewayConfig{BotToken: "tok"}).Usable() {
		t.Error("disabled discord should not be usable")
	}
	if !(DiscordGatewayConfig{Enabled: true, BotToken: "tok"}).Usable() {
		t.Error("enabled discord with token should be usable")
	}
}
