package model

// DemoReport はデモバッチの実行結果です
// Step Functions のタスク出力としてもそのまま利用されます
type DemoReport struct {
	RunID          string  `json:"run_id"`
	MemberIDs      []int64 `json:"member_ids"`
	SpaceIDs       []int64 `json:"space_ids"`
	BookingIDs     []int64 `json:"booking_ids"`
	PhoneUpdated   int64   `json:"phone_updated"`
	DeletedBooking int64   `json:"deleted_booking_id,omitempty"`
	BookingDeleted int64   `json:"booking_deleted"`
	MemberCount    int     `json:"member_count"`
	SpaceCount     int     `json:"space_count"`
	BookingCount   int     `json:"booking_count"`
}
