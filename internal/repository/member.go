package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/uma-arai/sbcntr-coworking/internal/model"
)

// MemberRepository は会員の永続化を担当するインターフェースです
type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	List(ctx context.Context) ([]model.Member, error)
	UpdatePhoneNumber(ctx context.Context, email string, phoneNumber string) (int64, error)
}

// MemberRepositoryImpl は会員の永続化を担当します
type MemberRepositoryImpl struct {
	db *DB
}

// NewMemberRepository は新しいMemberRepositoryを作成します
func NewMemberRepository(db *DB) *MemberRepositoryImpl {
	return &MemberRepositoryImpl{db: db}
}

// Create は会員を登録し、採番された member_id を member.ID に設定します
// メールアドレスが既に存在する場合は ErrDuplicateKey を返します
func (r *MemberRepositoryImpl) Create(ctx context.Context, member *model.Member) error {
	if err := member.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	query := `
		INSERT INTO members (
			name, email, phone_number
		) VALUES (
			$1, $2, $3
		)
		RETURNING member_id`

	err := r.db.withConn(ctx, "MemberRepository.Create", func(ctx context.Context, conn *sqlx.Conn) error {
		return conn.QueryRowxContext(ctx,
			query,
			member.Name,
			member.Email,
			member.PhoneNumber,
		).Scan(&member.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}

	r.db.log.Info().Int64("member_id", member.ID).Str("name", member.Name).Msg("member added")
	return nil
}

// List は全会員を member_id の昇順で取得します
func (r *MemberRepositoryImpl) List(ctx context.Context) ([]model.Member, error) {
	query := `
		SELECT member_id, name, email, phone_number, join_date
		FROM members
		ORDER BY member_id ASC`

	var members []model.Member
	err := r.db.withConn(ctx, "MemberRepository.List", func(ctx context.Context, conn *sqlx.Conn) error {
		return conn.SelectContext(ctx, &members, query)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}

	return members, nil
}

// UpdatePhoneNumber はメールアドレスに一致する会員の電話番号を更新し、影響行数を返します
// 一致する会員がいない場合はエラーではなく0を返します
func (r *MemberRepositoryImpl) UpdatePhoneNumber(ctx context.Context, email string, phoneNumber string) (int64, error) {
	query := `
		UPDATE members
		SET phone_number = $1
		WHERE email = $2`

	var rowsAffected int64
	err := r.db.withConn(ctx, "MemberRepository.UpdatePhoneNumber", func(ctx context.Context, conn *sqlx.Conn) error {
		result, err := conn.ExecContext(ctx, query, phoneNumber, email)
		if err != nil {
			return err
		}
		rowsAffected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to update member phone number: %w", err)
	}

	r.db.log.Info().Str("email", email).Int64("rows_affected", rowsAffected).Msg("member phone number updated")
	return rowsAffected, nil
}
