// Package store は会員・スペース・予約を扱うレコードストアです
//
// 呼び出し側には常に値を返し、失敗は番兵値で表します。
//   - 登録系: InvalidID
//   - 一覧系: 空のスライス
//   - 更新/削除系: 影響行数0
//
// 失敗の詳細はロガーにのみ出力されます。失敗の種類を知りたい場合は
// repository パッケージを直接利用してください。
package store

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/uma-arai/sbcntr-coworking/internal/model"
	"github.com/uma-arai/sbcntr-coworking/internal/repository"
)

// InvalidID は登録に失敗したことを表すIDです
// DBが採番するIDは常に正の値なので、有効なIDと衝突しません
const InvalidID int64 = -1

// RecordStore は各操作を1つのSQLに変換し、結果を番兵値付きで返します
type RecordStore struct {
	members  repository.MemberRepository
	spaces   repository.SpaceRepository
	bookings repository.BookingRepository
	log      zerolog.Logger
}

// New は新しいRecordStoreを作成します
func New(members repository.MemberRepository, spaces repository.SpaceRepository, bookings repository.BookingRepository, log zerolog.Logger) *RecordStore {
	return &RecordStore{
		members:  members,
		spaces:   spaces,
		bookings: bookings,
		log:      log,
	}
}

// NewFromDB はDBから各リポジトリを組み立ててRecordStoreを作成します
func NewFromDB(db *repository.DB, log zerolog.Logger) *RecordStore {
	return New(
		repository.NewMemberRepository(db),
		repository.NewSpaceRepository(db),
		repository.NewBookingRepository(db),
		log,
	)
}

// CreateMember は会員を登録し、採番されたIDを返します
// phoneNumber が nil の場合は電話番号なしで登録します
func (s *RecordStore) CreateMember(ctx context.Context, name, email string, phoneNumber *string) int64 {
	member := model.Member{Name: name, Email: email, PhoneNumber: phoneNumber}
	if err := s.members.Create(ctx, &member); err != nil {
		s.logFailure("CreateMember", err).Str("email", email).Msg("Error adding member")
		return InvalidID
	}
	return member.ID
}

// CreateSpace はスペースを登録し、採番されたIDを返します
func (s *RecordStore) CreateSpace(ctx context.Context, name, spaceType string, capacity int, hourlyRate decimal.Decimal) int64 {
	space := model.Space{Name: name, Type: spaceType, Capacity: capacity, HourlyRate: hourlyRate}
	if err := s.spaces.Create(ctx, &space); err != nil {
		s.logFailure("CreateSpace", err).Str("name", name).Msg("Error adding space")
		return InvalidID
	}
	return space.ID
}

// CreateBooking は予約を登録し、採番されたIDを返します
func (s *RecordStore) CreateBooking(ctx context.Context, memberID, spaceID int64, startTime, endTime time.Time) int64 {
	booking := model.Booking{MemberID: memberID, SpaceID: spaceID, StartTime: startTime, EndTime: endTime}
	if err := s.bookings.Create(ctx, &booking); err != nil {
		s.logFailure("CreateBooking", err).
			Int64("member_id", memberID).
			Int64("space_id", spaceID).
			Msg("Error adding booking")
		return InvalidID
	}
	return booking.ID
}

// ListMembers は全会員を返します
// 0件と取得失敗は区別できません
func (s *RecordStore) ListMembers(ctx context.Context) []model.Member {
	members, err := s.members.List(ctx)
	if err != nil {
		s.logFailure("ListMembers", err).Msg("Error retrieving members")
		return []model.Member{}
	}
	if members == nil {
		return []model.Member{}
	}
	return members
}

// ListSpaces は全スペースを返します
func (s *RecordStore) ListSpaces(ctx context.Context) []model.Space {
	spaces, err := s.spaces.List(ctx)
	if err != nil {
		s.logFailure("ListSpaces", err).Msg("Error retrieving spaces")
		return []model.Space{}
	}
	if spaces == nil {
		return []model.Space{}
	}
	return spaces
}

// ListBookings は全予約を返します
func (s *RecordStore) ListBookings(ctx context.Context) []model.Booking {
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		s.logFailure("ListBookings", err).Msg("Error retrieving bookings")
		return []model.Booking{}
	}
	if bookings == nil {
		return []model.Booking{}
	}
	return bookings
}

// UpdateMemberPhone はメールアドレスが一致する会員の電話番号を更新し、影響行数を返します
func (s *RecordStore) UpdateMemberPhone(ctx context.Context, email, newPhoneNumber string) int64 {
	rows, err := s.members.UpdatePhoneNumber(ctx, email, newPhoneNumber)
	if err != nil {
		s.logFailure("UpdateMemberPhone", err).Str("email", email).Msg("Error updating member phone")
		return 0
	}
	return rows
}

// DeleteBooking は予約を削除し、影響行数を返します
func (s *RecordStore) DeleteBooking(ctx context.Context, bookingID int64) int64 {
	rows, err := s.bookings.Delete(ctx, bookingID)
	if err != nil {
		s.logFailure("DeleteBooking", err).Int64("booking_id", bookingID).Msg("Error deleting booking")
		return 0
	}
	return rows
}

func (s *RecordStore) logFailure(op string, err error) *zerolog.Event {
	return s.log.Error().
		Err(err).
		Str("op", op).
		Str("kind", kindOf(err)).
		Str("sql_state", repository.SQLState(err))
}
