package event

import "errors"

// Event ドメインのエラー定義
var (
	ErrEventNotFound      = errors.New("イベントが見つかりません")
	ErrEventTitleRequired = errors.New("イベント名は必須です")
	ErrEventDateRequired  = errors.New("開催日時は必須です")
	ErrInvalidMaxTickets  = errors.New("チケット発行上限は1以上である必要があります")
	ErrInvalidPrice       = errors.New("価格は0以上である必要があります")
)
