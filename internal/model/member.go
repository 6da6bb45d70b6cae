package model

import (
	"fmt"
	"time"
)

// Member はコワーキングスペースの会員を表します
// member_id と join_date はDB側で採番・設定されます
type Member struct {
	ID          int64     `db:"member_id" json:"id"`
	Name        string    `db:"name" json:"name" validate:"required"`
	Email       string    `db:"email" json:"email" validate:"required"`
	PhoneNumber *string   `db:"phone_number" json:"phone_number,omitempty"`
	JoinDate    time.Time `db:"join_date" json:"join_date"`
}

// Validate は会員登録の入力を検証します
// メールアドレスの一意性はDBの制約に任せます
func (m Member) Validate() error {
	return validate.Struct(m)
}

func (m Member) String() string {
	return fmt.Sprintf("Member{id=%d, name='%s', email='%s', phone='%s', joinDate=%s}",
		m.ID, m.Name, m.Email, derefOrNull(m.PhoneNumber), m.JoinDate.Format(time.RFC3339))
}

func derefOrNull(s *string) string {
	if s == nil {
		return "null"
	}
	return *s
}
