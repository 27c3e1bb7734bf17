package ticket

import "time"

// Status はチケットの状態を表す
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusUsed      Status = "USED"
	StatusCancelled Status = "CANCELLED"
)

// Ticket はチケットエンティティを表す
// 参加者1人につき1枚、発行と同時に作成される
type Ticket struct {
	ID            string
	TicketNumber  string
	QRCode        string
	Status        Status
	ParticipantID string
	EventID       string
	UsedAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewTicket は新しいチケットをACTIVE状態で作成する
func NewTicket(ticketNumber, qrCode, participantID, eventID string) *Ticket {
	now := time.Now()
	return &Ticket{
		TicketNumber:  ticketNumber,
		QRCode:        qrCode,
		Status:        StatusActive,
		ParticipantID: participantID,
		EventID:       eventID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsActive はチケットが未使用かを返す
func (t *Ticket) IsActive() bool {
	return t.Status == StatusActive
}

// Use はチケットを使用済みにする
// 許可される遷移は ACTIVE → USED のみ。USED・CANCELLEDからの遷移は不可
func (t *Ticket) Use(usedAt time.Time) error {
	switch t.Status {
	case StatusUsed:
		return ErrTicketAlreadyUsed
	case StatusCancelled:
		return ErrTicketCancelled
	}
	t.Status = StatusUsed
	t.UsedAt = &usedAt
	t.UpdatedAt = usedAt
	return nil
}

// Validate はチケットの検証を行う
func (t *Ticket) Validate() error {
	if t.TicketNumber == "" {
		return ErrTicketNumberRequired
	}
	if t.QRCode == "" {
		return ErrQRCodeRequired
	}
	if t.ParticipantID == "" {
		return ErrParticipantIDRequired
	}
	if t.EventID == "" {
		return ErrEventIDRequired
	}
	return nil
}
