package model

import (
	"fmt"
	"time"
)

// Booking は会員によるスペースの予約です
// 予約の重複チェックや StartTime < EndTime の検証は行いません
type Booking struct {
	ID        int64     `db:"booking_id" json:"id"`
	MemberID  int64     `db:"member_id" json:"member_id"`
	SpaceID   int64     `db:"space_id" json:"space_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
}

func (b Booking) String() string {
	return fmt.Sprintf("Booking{id=%d, memberId=%d, spaceId=%d, startTime=%s, endTime=%s}",
		b.ID, b.MemberID, b.SpaceID, b.StartTime.Format(time.RFC3339), b.EndTime.Format(time.RFC3339))
}
