package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/uma-arai/sbcntr-coworking/internal/model"
)

// SpaceRepository はスペースの永続化を担当するインターフェースです
type SpaceRepository interface {
	Create(ctx context.Context, space *model.Space) error
	List(ctx context.Context) ([]model.Space, error)
}

// SpaceRepositoryImpl はSpaceRepositoryの実装です
type SpaceRepositoryImpl struct {
	db *DB
}

// NewSpaceRepository は新しいSpaceRepositoryを作成します
func NewSpaceRepository(db *DB) *SpaceRepositoryImpl {
	return &SpaceRepositoryImpl{db: db}
}

// Create はスペースを登録し、採番された space_id を space.ID に設定します
// 定員や料金の範囲はこの層では検証せず、スキーマに制約があればDBが拒否します
func (r *SpaceRepositoryImpl) Create(ctx context.Context, space *model.Space) error {
	query := `
		INSERT INTO spaces (
			name, type, capacity, hourly_rate
		) VALUES (
			$1, $2, $3, $4
		)
		RETURNING space_id`

	err := r.db.withConn(ctx, "SpaceRepository.Create", func(ctx context.Context, conn *sqlx.Conn) error {
		return conn.QueryRowxContext(ctx,
			query,
			space.Name,
			space.Type,
			space.Capacity,
			space.HourlyRate,
		).Scan(&space.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to create space: %w", err)
	}

	r.db.log.Info().Int64("space_id", space.ID).Str("name", space.Name).Msg("space added")
	return nil
}

// List は全スペースを space_id の昇順で取得します
func (r *SpaceRepositoryImpl) List(ctx context.Context) ([]model.Space, error) {
	query := `
		SELECT space_id, name, type, capacity, hourly_rate
		FROM spaces
		ORDER BY space_id ASC`

	var spaces []model.Space
	err := r.db.withConn(ctx, "SpaceRepository.List", func(ctx context.Context, conn *sqlx.Conn) error {
		return conn.SelectContext(ctx, &spaces, query)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query spaces: %w", err)
	}

	return spaces, nil
}
