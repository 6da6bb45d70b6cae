package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SBCNTR_ENABLE_TRACING", "")

	cfg, err := LoadConfig("DUMMY_TASK_TOKEN")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "coworking_user", cfg.DB.UserName)
	assert.Equal(t, "coworking_db", cfg.DB.DBName)
	assert.Equal(t, "disable", cfg.DB.SSLMode)
	assert.Equal(t, 5*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "DUMMY_TASK_TOKEN", cfg.SFN.TaskToken)
	assert.False(t, cfg.EnableTracing)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("COWORKING_DB_HOST", "db.internal")
	t.Setenv("COWORKING_DB_PORT", "6543")
	t.Setenv("COWORKING_DB_USERNAME", "app")
	t.Setenv("COWORKING_DB_PASSWORD", "secret")
	t.Setenv("COWORKING_DB_NAME", "coworking")
	t.Setenv("COWORKING_DB_MAX_OPEN_CONNS", "4")
	t.Setenv("COWORKING_DB_CONN_MAX_LIFETIME", "90s")
	t.Setenv("COWORKING_LOG_LEVEL", "debug")
	t.Setenv("COWORKING_LOG_FORMAT", "console")

	cfg, err := LoadConfig("token")
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, "app", cfg.DB.UserName)
	assert.Equal(t, "secret", cfg.DB.Password)
	assert.Equal(t, "coworking", cfg.DB.DBName)
	assert.Equal(t, 4, cfg.DB.MaxOpenConns)
	assert.Equal(t, 90*time.Second, cfg.DB.ConnMaxLifetime)
	// localhost以外はSSL必須
	assert.Equal(t, "require", cfg.DB.SSLMode)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "ポート範囲外", key: "COWORKING_DB_PORT", value: "70000"},
		{name: "不正なsslmode", key: "COWORKING_DB_SSL_MODE", value: "sometimes"},
		{name: "不正なログレベル", key: "COWORKING_LOG_LEVEL", value: "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig("token")
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_Tracing(t *testing.T) {
	tests := []struct {
		name        string
		enable      string
		sdkDisabled string
		want        bool
	}{
		{name: "trueで有効", enable: "true", sdkDisabled: "", want: true},
		{name: "1で有効", enable: "1", sdkDisabled: "", want: true},
		{name: "未設定は無効", enable: "", sdkDisabled: "", want: false},
		{name: "SDK無効化が優先", enable: "true", sdkDisabled: "true", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SBCNTR_ENABLE_TRACING", tt.enable)
			t.Setenv("AWS_XRAY_SDK_DISABLED", tt.sdkDisabled)

			cfg, err := LoadConfig("token")
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.EnableTracing)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "db.host", envKey("COWORKING_DB_HOST"))
	assert.Equal(t, "db.ssl_mode", envKey("COWORKING_DB_SSL_MODE"))
	assert.Equal(t, "log.level", envKey("COWORKING_LOG_LEVEL"))
}
