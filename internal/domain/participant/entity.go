package participant

import (
	"net/mail"
	"time"
)

// Participant は参加者エンティティを表す
// 同じイベントに同じメールアドレスで重複登録はできない
type Participant struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	EventID   string
	CreatedAt time.Time
}

// NewParticipant は新しい参加者を作成する
func NewParticipant(name, email, phone, eventID string) *Participant {
	return &Participant{
		Name:      name,
		Email:     email,
		Phone:     phone,
		EventID:   eventID,
		CreatedAt: time.Now(),
	}
}

// Validate は参加者の検証を行う
func (p *Participant) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if p.Email == "" {
		return ErrEmailRequired
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return ErrInvalidEmail
	}
	if p.EventID == "" {
		return ErrEventIDRequired
	}
	return nil
}
