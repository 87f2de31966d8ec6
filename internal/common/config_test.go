package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 8086 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 8086)
	}
	if cfg.Analytics.RiskFreeRate != 0.05 {
		t.Errorf("Analytics.RiskFreeRate default = %v, want 0.05", cfg.Analytics.RiskFreeRate)
	}
	if len(cfg.Analytics.VolatilityWindows) != 3 {
		t.Errorf("Analytics.VolatilityWindows default = %v, want [20 60 252]", cfg.Analytics.VolatilityWindows)
	}
	if cfg.Storage.GetTTL() != time.Hour {
		t.Errorf("Storage TTL default = %v, want 1h", cfg.Storage.GetTTL())
	}
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("STRATA_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_RiskFreeRateEnvOverride(t *testing.T) {
	t.Setenv("STRATA_RISK_FREE_RATE", "0.035")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Analytics.RiskFreeRate != 0.035 {
		t.Errorf("Analytics.RiskFreeRate = %v after env override, want 0.035", cfg.Analytics.RiskFreeRate)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strata.toml")
	content := `
[server]
port = 9999

[analytics]
risk_free_rate = 0.03
volatility_windows = [10, 30]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Analytics.RiskFreeRate != 0.03 {
		t.Errorf("Analytics.RiskFreeRate = %v, want 0.03", cfg.Analytics.RiskFreeRate)
	}
	if len(cfg.Analytics.VolatilityWindows) != 2 || cfg.Analytics.VolatilityWindows[0] != 10 {
		t.Errorf("Analytics.VolatilityWindows = %v, want [10 30]", cfg.Analytics.VolatilityWindows)
	}
	// Untouched sections keep their defaults.
	if cfg.Clients.Yahoo.BaseURL == "" {
		t.Error("Clients.Yahoo.BaseURL default lost after file merge")
	}
}

func TestLoadConfig_MissingFileSkipped(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/strata.toml")
	if err != nil {
		t.Fatalf("LoadConfig returned error for missing file: %v", err)
	}
	if cfg.Server.Port != 8086 {
		t.Errorf("Server.Port = %d, want default 8086", cfg.Server.Port)
	}
}
