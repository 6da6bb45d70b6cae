package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Space は予約可能なスペースです
// Capacity は正の整数、HourlyRate は0以上であることを呼び出し側が保証します
type Space struct {
	ID         int64           `db:"space_id" json:"id"`
	Name       string          `db:"name" json:"name"`
	Type       string          `db:"type" json:"type"`
	Capacity   int             `db:"capacity" json:"capacity"`
	HourlyRate decimal.Decimal `db:"hourly_rate" json:"hourly_rate"`
}

func (s Space) String() string {
	return fmt.Sprintf("Space{id=%d, name='%s', type='%s', capacity=%d, rate=%s}",
		s.ID, s.Name, s.Type, s.Capacity, s.HourlyRate.StringFixed(2))
}
