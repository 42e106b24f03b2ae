package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 25, cfg.DBMaxOpenConnections)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5*time.Minute, cfg.WebhookSignatureTolerance)
	assert.Equal(t, int64(65536), cfg.WebhookMaxBodyBytes)
	assert.Equal(t, 30*time.Second, cfg.RegistrarTimeout)
	assert.Equal(t, 10*time.Second, cfg.NotifierInterval)
	assert.Equal(t, 50, cfg.NotifierBatchSize)
	assert.Equal(t, 3, cfg.NotifierMaxRetries)
	assert.False(t, cfg.SMTPEnabled)
	assert.True(t, cfg.RateLimitWebhookEnabled)
	assert.Equal(t, "portal", cfg.MetricsNamespace)
	assert.Equal(t, 8081, cfg.MetricsPort)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("WEBHOOK_SIGNING_SECRET", "whsec_test")
	t.Setenv("REGISTRAR_TIMEOUT_SECONDS", "10")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "whsec_test", cfg.WebhookSigningSecret)
	assert.Equal(t, 10*time.Second, cfg.RegistrarTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestMockRegistrarMode(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		key      string
		expected bool
	}{
		{"No credentials", "", "", true},
		{"URL only", "https://registrar.example.com", "", true},
		{"Key only", "", "api-key", true},
		{"Full credentials", "https://registrar.example.com", "api-key", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{RegistrarAPIURL: tt.url, RegistrarAPIKey: tt.key}
			assert.Equal(t, tt.expected, cfg.MockRegistrarMode())
		})
	}
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		expected string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.expected, cfg.GetGinMode())
		})
	}
}
