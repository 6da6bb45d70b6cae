package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/uma-arai/sbcntr-coworking/internal/model"
)

// BookingRepository は予約の永続化を担当するインターフェースです
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	List(ctx context.Context) ([]model.Booking, error)
	Delete(ctx context.Context, bookingID int64) (int64, error)
}

// BookingRepositoryImpl は予約の永続化を担当します
type BookingRepositoryImpl struct {
	db *DB
}

// NewBookingRepository は新しいBookingRepositoryを作成します
func NewBookingRepository(db *DB) *BookingRepositoryImpl {
	return &BookingRepositoryImpl{db: db}
}

// Create は予約を登録し、採番された booking_id を booking.ID に設定します
// 会員・スペースの存在確認は外部キー制約に任せ、違反は ErrStatementError になります
// 同じスペースへの重複予約はチェックしません
func (r *BookingRepositoryImpl) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (
			member_id, space_id, start_time, end_time
		) VALUES (
			$1, $2, $3, $4
		)
		RETURNING booking_id`

	err := r.db.withConn(ctx, "BookingRepository.Create", func(ctx context.Context, conn *sqlx.Conn) error {
		return conn.QueryRowxContext(ctx,
			query,
			booking.MemberID,
			booking.SpaceID,
			booking.StartTime,
			booking.EndTime,
		).Scan(&booking.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	r.db.log.Info().
		Int64("booking_id", booking.ID).
		Int64("member_id", booking.MemberID).
		Int64("space_id", booking.SpaceID).
		Msg("booking added")
	return nil
}

// List は全予約を booking_id の昇順で取得します
func (r *BookingRepositoryImpl) List(ctx context.Context) ([]model.Booking, error) {
	query := `
		SELECT booking_id, member_id, space_id, start_time, end_time
		FROM bookings
		ORDER BY booking_id ASC`

	var bookings []model.Booking
	err := r.db.withConn(ctx, "BookingRepository.List", func(ctx context.Context, conn *sqlx.Conn) error {
		return conn.SelectContext(ctx, &bookings, query)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}

	return bookings, nil
}

// Delete は予約を削除し、影響行数を返します
// 存在しない予約IDの場合はエラーではなく0を返します
func (r *BookingRepositoryImpl) Delete(ctx context.Context, bookingID int64) (int64, error) {
	query := `
		DELETE FROM bookings
		WHERE booking_id = $1`

	var rowsAffected int64
	err := r.db.withConn(ctx, "BookingRepository.Delete", func(ctx context.Context, conn *sqlx.Conn) error {
		result, err := conn.ExecContext(ctx, query, bookingID)
		if err != nil {
			return err
		}
		rowsAffected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete booking: %w", err)
	}

	r.db.log.Info().Int64("booking_id", bookingID).Int64("rows_affected", rowsAffected).Msg("booking deleted")
	return rowsAffected, nil
}
