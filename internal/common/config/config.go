package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
	"github.com/uma-arai/sbcntr-coworking/internal/common/database"
	"github.com/uma-arai/sbcntr-coworking/internal/common/logger"
)

// 環境変数のプレフィックス
// 例: COWORKING_DB_HOST -> db.host, COWORKING_DB_SSL_MODE -> db.ssl_mode
const envPrefix = "COWORKING_"

// Config はプロセス全体で共有する設定です
// 起動時に一度だけ読み込み、以降は変更しません
type Config struct {
	DB  database.Config `koanf:"db" validate:"required"`
	Log logger.Config   `koanf:"log"`
	SFN struct {
		TaskToken string
	} `koanf:"-"`
	EnableTracing bool `koanf:"-"`
}

// 設定項目として読み込むキーの一覧
// 未設定の場合はデフォルト値を使う旨をログに残します
var knownKeys = []string{
	"db.host",
	"db.port",
	"db.username",
	"db.password",
	"db.name",
	"db.ssl_mode",
	"log.level",
	"log.format",
}

// LoadConfig は設定を読み込みます
func LoadConfig(taskToken string) (*Config, error) {
	cfg := defaultConfig()

	k := koanf.New(".")
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	for _, key := range knownKeys {
		if !k.Exists(key) {
			log.Info().Str("key", key).Msg("Environment variable is not set, using default value")
		}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// localhostのDBの場合はSSLを無効化し、それ以外はSSLを必須にする
	if !k.Exists("db.ssl_mode") {
		cfg.DB.SSLMode = defaultSSLMode(cfg.DB.Host)
	}

	cfg.SFN.TaskToken = taskToken

	// 環境変数[SBCNTR_ENABLE_TRACING]を見てトレースを有効にする。対応しているTracingはAWS_XRAYのみ。
	// 環境変数[AWS_XRAY_SDK_DISABLED]がtrueの場合は必ずトレースを無効にする。
	enableKey := os.Getenv("SBCNTR_ENABLE_TRACING")
	if !sdkDisabled() && (strings.ToLower(enableKey) == "true" || enableKey == "1") {
		os.Setenv("AWS_XRAY_SDK_DISABLED", "FALSE")
		cfg.EnableTracing = true
	} else {
		os.Setenv("AWS_XRAY_SDK_DISABLED", "TRUE")
		cfg.EnableTracing = false
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// defaultConfig は環境変数が未設定の場合に使う値です
func defaultConfig() *Config {
	return &Config{
		DB: database.Config{
			Host:            "localhost",
			Port:            5432,
			UserName:        "coworking_user",
			Password:        "",
			DBName:          "coworking_db",
			MaxOpenConns:    25,
			MaxIdleConns:    25,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Log: logger.Config{
			Level:  "info",
			Format: logger.FormatJSON,
		},
	}
}

// envKey は COWORKING_DB_SSL_MODE を db.ssl_mode に変換します
// 最初のアンダースコアだけをセクションの区切りとして扱います
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func defaultSSLMode(host string) string {
	if host == "localhost" || host == "127.0.0.1" {
		return "disable"
	}
	return "require"
}

// Check if SDK is disabled
func sdkDisabled() bool {
	disableKey := os.Getenv("AWS_XRAY_SDK_DISABLED")
	return strings.ToLower(disableKey) == "true"
}
