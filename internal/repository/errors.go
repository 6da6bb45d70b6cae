package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrStoreUnavailable はDBへの接続を確立できなかったことを表します
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrStatementError はSQLの実行に失敗したことを表します
	// 外部キー違反などの制約違反もここに含まれます
	ErrStatementError = errors.New("statement error")

	// ErrDuplicateKey は一意制約違反です(会員のメールアドレス重複など)
	// errors.Is で ErrStatementError にも一致します
	ErrDuplicateKey = fmt.Errorf("duplicate key: %w", ErrStatementError)

	// ErrInvalidInput はDBに問い合わせる前に入力が不正と判断されたことを表します
	ErrInvalidInput = errors.New("invalid input")
)

// PostgreSQLのSQLSTATE
const (
	uniqueViolation            pq.ErrorCode  = "23505"
	connectionExceptionClass   pq.ErrorClass = "08"
	insufficientResourcesClass pq.ErrorClass = "53"
	operatorInterventionClass  pq.ErrorClass = "57"
)

// classify はドライバのエラーを ErrDuplicateKey / ErrStoreUnavailable / ErrStatementError に分類します
// 元のエラーも %w で保持するため errors.As で *pq.Error を取り出せます
func classify(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == uniqueViolation:
			return fmt.Errorf("%s: %w: %w", op, ErrDuplicateKey, err)
		case pqErr.Code.Class() == connectionExceptionClass,
			pqErr.Code.Class() == insufficientResourcesClass,
			pqErr.Code.Class() == operatorInterventionClass:
			return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
		}
	}

	return fmt.Errorf("%s: %w: %w", op, ErrStatementError, err)
}

// SQLState はエラーに含まれるSQLSTATEを返します
// PostgreSQL由来のエラーでなければ空文字を返します
func SQLState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
