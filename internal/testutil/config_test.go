package testutil

import "testing"

func TestDefaultTestDBConfig(t *testing.T) {
	t.Run("defaults to local test database port 55432", func(t *testing.T) {
		for _, key := range []string{"TEST_DB_HOST", "TEST_DB_PORT", "TEST_DB_USER", "TEST_DB_PASSWORD", "TEST_DB_NAME"} {
			t.Setenv(key, "")
		}

		cfg := DefaultTestDBConfig()
		if cfg.Host != "localhost" {
			t.Errorf("Host = %q, want localhost", cfg.Host)
		}
		if cfg.Port != "55432" {
			t.Errorf("Port = %q, want 55432", cfg.Port)
		}
		if cfg.User != "shopfront" || cfg.Password != "shopfront" || cfg.DBName != "shopfront" {
			t.Errorf("credentials = %q/%q/%q, want shopfront defaults", cfg.User, cfg.Password, cfg.DBName)
		}
	})

	t.Run("respects TEST_DB_PORT environment variable", func(t *testing.T) {
		t.Setenv("TEST_DB_PORT", "5432")

		if got := DefaultTestDBConfig().Port; got != "5432" {
			t.Errorf("Port = %q, want 5432", got)
		}
	})
}

func TestEnvBool(t *testing.T) {
	cases := map[string]bool{
		"1": true, "true": true, "TRUE": true, "yes": true,
		"0": false, "false": false, "": false, "no": false,
	}
	for value, want := range cases {
		t.Setenv("TEST_ENV_BOOL_KEY", value)
		if got := envBool("TEST_ENV_BOOL_KEY"); got != want {
			t.Errorf("envBool(%q) = %v, want %v", value, got, want)
		}
	}
}
