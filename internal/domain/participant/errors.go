package participant

import "errors"

// Participant ドメインのエラー定義
var (
	ErrParticipantNotFound = errors.New("参加者が見つかりません")
	ErrAlreadyRegistered   = errors.New("このメールアドレスは既にこのイベントに登録されています")
	ErrNameRequired        = errors.New("氏名は必須です")
	ErrEmailRequired       = errors.New("メールアドレスは必須です")
	ErrInvalidEmail        = errors.New("メールアドレスの形式が不正です")
	ErrEventIDRequired     = errors.New("イベントIDは必須です")
)
