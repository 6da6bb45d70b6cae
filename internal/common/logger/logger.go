// Package logger はバッチ全体で利用する構造化ロガーを生成します
// 診断情報(接続、影響行数、SQLエラーの詳細)はすべてこのロガーに出力されます
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "sbcntr-coworking"

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config はロガーの設定です
type Config struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
}

// New は標準エラー出力に書き込むロガーを作成します
func New(cfg Config) zerolog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter は指定した出力先に書き込むロガーを作成します
// レベルが不正な場合は info として扱います
func NewWithWriter(cfg Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Format == FormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}
