package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// DB は操作ごとに専用の接続を借りて1つのSQLを実行するためのラッパーです
type DB struct {
	*sqlx.DB
	log zerolog.Logger
}

// NewDB は新しいDBを作成します
func NewDB(db *sqlx.DB, log zerolog.Logger) *DB {
	return &DB{DB: db, log: log}
}

// Close closes the database connection pool
func (db *DB) Close() error {
	_, seg := xray.BeginSegment(context.Background(), "DB.Close")
	defer seg.Close(nil)

	return db.DB.Close()
}

// withConn は接続の取得、SQLの実行、接続の返却を1つの作業単位として行います
// 接続はどの終了経路でも必ず返却されます
func (db *DB) withConn(ctx context.Context, op string, fn func(ctx context.Context, conn *sqlx.Conn) error) (err error) {
	ctx, seg := xray.BeginSubsegment(ctx, op)
	defer func() {
		if seg != nil {
			seg.Close(err)
		}
	}()

	conn, err := db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}
	db.log.Debug().Str("op", op).Msg("connected to the database")

	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			db.log.Warn().Err(closeErr).Str("op", op).Msg("failed to release database connection")
			return
		}
		db.log.Debug().Str("op", op).Msg("database connection released")
	}()

	if err := fn(ctx, conn); err != nil {
		return classify(op, err)
	}

	return nil
}
