package config

import (
	"os"
	"path/filepath"
	"testing"
)

// unsetForTest removes key for the duration of the test and restores it after.
func unsetForTest(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset %s: %v", key, err)
	}
}

func TestLoadDotEnv_LoadsValuesAndIgnoresNoise(t *testing.T) {
	unsetForTest(t, "RQ_A")
	unsetForTest(t, "RQ_B")
	unsetForTest(t, "RQ_C")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := []byte(`
# comment

RQ_A=one
export RQ_B=two
RQ_C="three"
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	for key, want := range map[string]string{"RQ_A": "one", "RQ_B": "two", "RQ_C": "three"} {
		if got := os.Getenv(key); got != want {
			t.Fatalf("%s=%q, want %q", key, got, want)
		}
	}
}

func TestLoadDotEnv_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("RQ_KEEP", "already")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("RQ_KEEP=fromfile\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("RQ_KEEP"); got != "already" {
		t.Fatalf("RQ_KEEP=%q, want %q", got, "already")
	}
}

func TestLoadDotEnv_MissingFileIsNotAnError(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("loadDotEnv on missing file: %v", err)
	}
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("DB_PATH", "/tmp/quotes.db")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("HISTORY_LIMIT", "50")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.IsDev() {
		t.Fatalf("prod must not be dev")
	}
	if cfg.DBPath != "/tmp/quotes.db" || cfg.Addr() != ":9090" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.MetricsEnabled || cfg.HistoryLimit != 50 || cfg.ShutdownTimeout.Seconds() != 3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoad_FallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("HISTORY_LIMIT", "-1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cfg.IsDev() || cfg.Env != EnvLocal {
		t.Fatalf("env = %q, want local", cfg.Env)
	}
	if cfg.HistoryLimit != 500 {
		t.Fatalf("historyLimit = %d, want 500", cfg.HistoryLimit)
	}
}
