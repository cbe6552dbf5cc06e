package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_StorageDriverValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", "redis")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid STORAGE_DRIVER")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_ClubAuthConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CLUBAUTH_BASE_URL", "https://sso.boulodrome.club")
	t.Setenv("CLUBAUTH_INTROSPECT_PATH", "/v2/introspect")
	t.Setenv("CLUBAUTH_TIMEOUT", "4s")
	t.Setenv("CLUBAUTH_PRINCIPAL_TTL", "45s")
	t.Setenv("CLUBAUTH_CIRCUIT_FAILURE_COUNT", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ClubAuthBaseURL != "https://sso.boulodrome.club" {
		t.Fatalf("unexpected ClubAuthBaseURL: %q", cfg.ClubAuthBaseURL)
	}
	if cfg.ClubAuthIntrospectPath != "/v2/introspect" {
		t.Fatalf("unexpected ClubAuthIntrospectPath: %q", cfg.ClubAuthIntrospectPath)
	}
	if cfg.ClubAuthTimeout != 4*time.Second {
		t.Fatalf("unexpected ClubAuthTimeout: %s", cfg.ClubAuthTimeout)
	}
	if cfg.ClubAuthPrincipalTTL != 45*time.Second {
		t.Fatalf("unexpected ClubAuthPrincipalTTL: %s", cfg.ClubAuthPrincipalTTL)
	}
	if cfg.ClubAuthCircuitFailureCount != 3 {
		t.Fatalf("unexpected ClubAuthCircuitFailureCount: %d", cfg.ClubAuthCircuitFailureCount)
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("dev seeds demo data by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("SEED_DEMO_DATA", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SeedDemoData {
			t.Fatalf("expected SeedDemoData=true in dev by default")
		}
	})

	t.Run("prod does not seed demo data by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("SEED_DEMO_DATA", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SeedDemoData {
			t.Fatalf("expected SeedDemoData=false in prod by default")
		}
	})
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_LeaderboardCacheTTLMustBePositive(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("LEADERBOARD_CACHE_TTL", "-1s")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-positive LEADERBOARD_CACHE_TTL")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "debug", want: "debug"},
		{in: "WARN", want: "warn"},
		{in: "warning", want: "warn"},
		{in: "error", want: "error"},
		{in: "", want: "info"},
		{in: "nonsense", want: "info"},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.in).String(); got != tt.want {
			t.Fatalf("parseLogLevel(%q)=%s want=%s", tt.in, got, tt.want)
		}
	}
}
