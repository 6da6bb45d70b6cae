package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/uma-arai/sbcntr-coworking/internal/model"
	"github.com/uma-arai/sbcntr-coworking/internal/repository"
)

// fakeDB はスキーマの制約(メール一意・外部キー・採番)を再現するテスト用のインメモリDBです
type fakeDB struct {
	mu          sync.Mutex
	unavailable bool
	lastID      int64
	members     []model.Member
	spaces      []model.Space
	bookings    []model.Booking
}

func (db *fakeDB) nextID() int64 {
	db.lastID++
	return db.lastID
}

func (db *fakeDB) check(op string) error {
	if db.unavailable {
		return fmt.Errorf("%s: %w: connection refused", op, repository.ErrStoreUnavailable)
	}
	return nil
}

type fakeMemberRepository struct{ db *fakeDB }

func (r *fakeMemberRepository) Create(ctx context.Context, member *model.Member) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.db.check("MemberRepository.Create"); err != nil {
		return err
	}
	if err := member.Validate(); err != nil {
		return fmt.Errorf("%w: %w", repository.ErrInvalidInput, err)
	}
	for _, m := range r.db.members {
		if m.Email == member.Email {
			return fmt.Errorf("MemberRepository.Create: %w", repository.ErrDuplicateKey)
		}
	}

	member.ID = r.db.nextID()
	member.JoinDate = time.Now().UTC()
	r.db.members = append(r.db.members, *member)
	return nil
}

func (r *fakeMemberRepository) List(ctx context.Context) ([]model.Member, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.db.check("MemberRepository.List"); err != nil {
		return nil, err
	}
	return slices.Clone(r.db.members), nil
}

func (r *fakeMemberRepository) UpdatePhoneNumber(ctx context.Context, email string, phoneNumber string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.db.check("MemberRepository.UpdatePhoneNumber"); err != nil {
		return 0, err
	}
	var rows int64
	for i := range r.db.members {
		if r.db.members[i].Email == email {
			phone := phoneNumber
			r.db.members[i].PhoneNumber = &phone
			rows++
		}
	}
	return rows, nil
}

type fakeSpaceRepository struct{ db *fakeDB }

func (r *fakeSpaceRepository) Create(ctx context.Context, space *model.Space) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.db.check("SpaceRepository.Create"); err != nil {
		return err
	}
	space.ID = r.db.nextID()
	r.db.spaces = append(r.db.spaces, *space)
	return nil
}

func (r *fakeSpaceRepository) List(ctx context.Context) ([]model.Space, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.db.check("SpaceRepository.List"); err != nil {
		return nil, err
	}
	return slices.Clone(r.db.spaces), nil
}

type fakeBookingRepository struct{ db *fakeDB }

func (r *fakeBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.db.check("BookingRepository.Create"); err != nil {
		return err
	}
	memberExists := slices.ContainsFunc(r.db.members, func(m model.Member) bool { return m.ID == booking.MemberID })
	spaceExists := slices.ContainsFunc(r.db.spaces, func(s model.Space) bool { return s.ID == booking.SpaceID })
	if !memberExists || !spaceExists {
		return fmt.Errorf("BookingRepository.Create: %w: foreign key violation", repository.ErrStatementError)
	}

	booking.ID = r.db.nextID()
	r.db.bookings = append(r.db.bookings, *booking)
	return nil
}

func (r *fakeBookingRepository) List(ctx context.Context) ([]model.Booking, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.db.check("BookingRepository.List"); err != nil {
		return nil, err
	}
	return slices.Clone(r.db.bookings), nil
}

func (r *fakeBookingRepository) Delete(ctx context.Context, bookingID int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.db.check("BookingRepository.Delete"); err != nil {
		return 0, err
	}
	before := len(r.db.bookings)
	r.db.bookings = slices.DeleteFunc(r.db.bookings, func(b model.Booking) bool { return b.ID == bookingID })
	return int64(before - len(r.db.bookings)), nil
}
