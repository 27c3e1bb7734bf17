package handler

import (
	"context"

	"github.com/WelderFernandes/event-ticket/internal/application"
	"github.com/WelderFernandes/event-ticket/internal/domain/event"
	"github.com/WelderFernandes/event-ticket/internal/domain/participant"
	"github.com/WelderFernandes/event-ticket/internal/domain/ticket"
)

// EventServiceInterface はイベントサービスのインターフェース
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error)
	GetEvent(ctx context.Context, id string) (*event.Event, error)
	ListEvents(ctx context.Context, limit, offset int) ([]*event.Event, error)
	DeactivateFinishedEvents(ctx context.Context) (int, error)
}

// TicketServiceInterface はチケットサービスのインターフェース
type TicketServiceInterface interface {
	IssueTicket(ctx context.Context, input application.IssueTicketInput) (*application.IssueTicketOutput, error)
	ValidateTicket(ctx context.Context, qrCode string) (*application.ValidationResult, error)
	ListTickets(ctx context.Context, eventID string, limit, offset int) ([]*ticket.Detail, error)
	GetTicketStats(ctx context.Context, eventID string) (*ticket.Stats, error)
	ListParticipants(ctx context.Context, eventID string, limit, offset int) ([]*participant.Participant, error)
}
