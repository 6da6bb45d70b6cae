package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/uma-arai/sbcntr-coworking/internal/model"
	"github.com/uma-arai/sbcntr-coworking/internal/repository"
)

// MockBookingRepository is a mock implementation of BookingRepository
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) List(ctx context.Context) ([]model.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Booking), args.Error(1)
}

func (m *MockBookingRepository) Delete(ctx context.Context, bookingID int64) (int64, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(int64), args.Error(1)
}

func TestRecordStore_BookingErrorsBecomeSentinels(t *testing.T) {
	ctx := context.Background()
	stmtErr := fmt.Errorf("BookingRepository.Delete: %w: deadlock detected", repository.ErrStatementError)

	tests := []struct {
		name  string
		setup func(m *MockBookingRepository)
		run   func(s *RecordStore) any
		want  any
	}{
		{
			name: "登録失敗はInvalidID",
			setup: func(m *MockBookingRepository) {
				m.On("Create", ctx, mock.AnythingOfType("*model.Booking")).Return(stmtErr)
			},
			run: func(s *RecordStore) any {
				return s.CreateBooking(ctx, 1, 2, time.Now(), time.Now().Add(time.Hour))
			},
			want: InvalidID,
		},
		{
			name: "一覧失敗は空スライス",
			setup: func(m *MockBookingRepository) {
				m.On("List", ctx).Return(nil, stmtErr)
			},
			run:  func(s *RecordStore) any { return s.ListBookings(ctx) },
			want: []model.Booking{},
		},
		{
			name: "0件はnilでなく空スライス",
			setup: func(m *MockBookingRepository) {
				m.On("List", ctx).Return(nil, nil)
			},
			run:  func(s *RecordStore) any { return s.ListBookings(ctx) },
			want: []model.Booking{},
		},
		{
			name: "削除失敗は0",
			setup: func(m *MockBookingRepository) {
				m.On("Delete", ctx, int64(10)).Return(int64(0), stmtErr)
			},
			run:  func(s *RecordStore) any { return s.DeleteBooking(ctx, 10) },
			want: int64(0),
		},
		{
			name: "削除成功は影響行数",
			setup: func(m *MockBookingRepository) {
				m.On("Delete", ctx, int64(10)).Return(int64(1), nil)
			},
			run:  func(s *RecordStore) any { return s.DeleteBooking(ctx, 10) },
			want: int64(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings := &MockBookingRepository{}
			tt.setup(bookings)
			db := &fakeDB{}
			s := New(&fakeMemberRepository{db: db}, &fakeSpaceRepository{db: db}, bookings, zerolog.Nop())

			assert.Equal(t, tt.want, tt.run(s))
			bookings.AssertExpectations(t)
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: fmt.Errorf("x: %w", repository.ErrStoreUnavailable), want: KindStoreUnavailable},
		{err: fmt.Errorf("x: %w", repository.ErrDuplicateKey), want: KindDuplicateKey},
		{err: fmt.Errorf("x: %w", repository.ErrStatementError), want: KindStatementError},
		{err: fmt.Errorf("x: %w", repository.ErrInvalidInput), want: KindInvalidInput},
		{err: errors.New("x"), want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, kindOf(tt.err))
		})
	}
}
