package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const driverName = "postgres"

// 起動時の疎通確認のタイムアウト
const pingTimeout = 10 * time.Second

// Config はPostgreSQLへの接続情報です
type Config struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required,min=1,max=65535"`
	UserName        string        `koanf:"username" validate:"required"`
	Password        string        `koanf:"password"`
	DBName          string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"min=0"`
}

var dsnQuoter = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// DSN は lib/pq 形式の接続文字列を返します
func (c Config) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password='%s' dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.UserName,
		dsnQuoter.Replace(c.Password),
		c.DBName,
		sslMode,
	)
}

// Open はX-Ray対応のコネクションプールを作成し、疎通確認を行います
// プールは各操作が専用の接続を借りるためだけに使い、接続を操作間で共有はしません
func Open(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	// X-Ray対応のSQLコンテキストを作成
	db, err := xray.SQLContext(driverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database with X-Ray: %w", err)
	}

	// コネクションプールの設定
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// 接続テスト
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqlx.NewDb(db, driverName), nil
}
