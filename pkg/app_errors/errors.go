package apperrors

import "errors"

// 封閉的錯誤分類：每個公開操作只會回傳以下其中一種錯誤。
// 核心不做內部重試，錯誤一律往呼叫端傳遞
var (
	ErrNotAuthorized      = errors.New("caller is not authorized for this operation")
	ErrEventNotFound      = errors.New("event not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrSoldOut            = errors.New("event is sold out")
	ErrEventCanceled      = errors.New("event is canceled")
	ErrTransferRestricted = errors.New("ticket already transferred once")
	ErrInvalidRefund      = errors.New("refund preconditions not met")
	ErrInsuranceClaimed   = errors.New("insurance already claimed")
	ErrInvalidParams      = errors.New("invalid parameters")
)
