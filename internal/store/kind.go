package store

import (
	"errors"

	"github.com/uma-arai/sbcntr-coworking/internal/repository"
)

// ログ出力用のエラー種別
const (
	KindStoreUnavailable = "StoreUnavailable"
	KindDuplicateKey     = "DuplicateKey"
	KindStatementError   = "StatementError"
	KindInvalidInput     = "InvalidInput"
	KindUnknown          = "Unknown"
)

// kindOf はエラーを種別名に変換します
// ErrDuplicateKey は ErrStatementError にも一致するため先に判定します
func kindOf(err error) string {
	switch {
	case errors.Is(err, repository.ErrStoreUnavailable):
		return KindStoreUnavailable
	case errors.Is(err, repository.ErrDuplicateKey):
		return KindDuplicateKey
	case errors.Is(err, repository.ErrStatementError):
		return KindStatementError
	case errors.Is(err, repository.ErrInvalidInput):
		return KindInvalidInput
	default:
		return KindUnknown
	}
}
