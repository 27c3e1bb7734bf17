package ticket

import "errors"

// Ticket ドメインのエラー定義
var (
	ErrTicketNotFound        = errors.New("チケットが見つかりません")
	ErrTicketAlreadyUsed     = errors.New("チケットは既に使用されています")
	ErrTicketCancelled       = errors.New("チケットはキャンセルされています")
	ErrTicketNotActive       = errors.New("チケットは有効ではありません")
	ErrTicketLimitReached    = errors.New("このイベントのチケット発行上限に達しています")
	ErrTicketNumberRequired  = errors.New("チケット番号は必須です")
	ErrQRCodeRequired        = errors.New("QRコードは必須です")
	ErrParticipantIDRequired = errors.New("参加者IDは必須です")
	ErrEventIDRequired       = errors.New("イベントIDは必須です")
)
