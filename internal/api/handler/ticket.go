package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/WelderFernandes/event-ticket/internal/application"
	"github.com/WelderFernandes/event-ticket/internal/domain/event"
	"github.com/WelderFernandes/event-ticket/internal/domain/participant"
	"github.com/WelderFernandes/event-ticket/internal/domain/ticket"
)

type TicketHandler struct {
	service TicketServiceInterface
}

func NewTicketHandler(s TicketServiceInterface) *TicketHandler {
	return &TicketHandler{service: s}
}

type IssueTicketRequest struct {
	EventID string `json:"event_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name    string `json:"name" validate:"required,max=100" example:"山田太郎"`
	Email   string `json:"email" validate:"required,email" example:"taro@example.com"`
	Phone   string `json:"phone" example:"090-1234-5678"`
}

type ParticipantResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	EventID   string `json:"event_id"`
	CreatedAt string `json:"created_at"`
}

type TicketDetailResponse struct {
	ID           string               `json:"id"`
	TicketNumber string               `json:"ticket_number" example:"TK-MBQZK3X1-A8F2KQ"`
	QRCode       string               `json:"qr_code" example:"QR-MBQZK3X1-ZK29DQW8XP"`
	Status       string               `json:"status" example:"ACTIVE"`
	UsedAt       *time.Time           `json:"used_at,omitempty"`
	CreatedAt    string               `json:"created_at"`
	Participant  *ParticipantResponse `json:"participant,omitempty"`
	Event        *EventResponse       `json:"event,omitempty"`
}

type IssueTicketResponse struct {
	Ticket  *TicketDetailResponse `json:"ticket"`
	QRImage string                `json:"qr_image,omitempty"`
}

type TicketStatsResponse struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Used      int `json:"used"`
	Cancelled int `json:"cancelled"`
}

func toParticipantResponse(p *participant.Participant) *ParticipantResponse {
	return &ParticipantResponse{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		EventID:   p.EventID,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

func toTicketDetailResponse(d *ticket.Detail) *TicketDetailResponse {
	resp := &TicketDetailResponse{
		ID:           d.Ticket.ID,
		TicketNumber: d.Ticket.TicketNumber,
		QRCode:       d.Ticket.QRCode,
		Status:       string(d.Ticket.Status),
		UsedAt:       d.Ticket.UsedAt,
		CreatedAt:    d.Ticket.CreatedAt.Format(time.RFC3339),
	}
	if d.Participant != nil {
		resp.Participant = toParticipantResponse(d.Participant)
	}
	if d.Event != nil {
		resp.Event = toEventResponse(d.Event)
	}
	return resp
}

// Issue godoc
// @Summary チケットを発行
// @Description 参加者を登録し、QRコード付きチケットを発行します
// @Tags tickets
// @Accept json
// @Produce json
// @Param request body IssueTicketRequest true "参加者情報"
// @Success 201 {object} IssueTicketResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string "イベントが見つからない"
// @Failure 409 {object} map[string]string "重複登録または発行上限"
// @Router /tickets [post]
func (h *TicketHandler) Issue(c echo.Context) error {
	var req IssueTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	out, err := h.service.IssueTicket(c.Request().Context(), application.IssueTicketInput{
		EventID: req.EventID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, event.ErrEventNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, participant.ErrAlreadyRegistered):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, ticket.ErrTicketLimitReached):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, participant.ErrNameRequired),
			errors.Is(err, participant.ErrEmailRequired),
			errors.Is(err, participant.ErrInvalidEmail):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "チケット発行に失敗しました")
	}

	return c.JSON(http.StatusCreated, IssueTicketResponse{
		Ticket:  toTicketDetailResponse(out.Ticket),
		QRImage: out.QRImage,
	})
}

// List godoc
// @Summary チケット一覧を取得
// @Description チケットの一覧を参加者・イベント込みで取得します
// @Tags tickets
// @Produce json
// @Param event_id query string false "イベントIDで絞り込み"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} TicketDetailResponse
// @Router /tickets [get]
func (h *TicketHandler) List(c echo.Context) error {
	eventID := c.QueryParam("event_id")
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	details, err := h.service.ListTickets(c.Request().Context(), eventID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	responses := make([]*TicketDetailResponse, len(details))
	for i, d := range details {
		responses[i] = toTicketDetailResponse(d)
	}
	return c.JSON(http.StatusOK, responses)
}

// Stats godoc
// @Summary イベントのチケット集計を取得
// @Description 発行済み・使用済み・キャンセル済みの件数を取得します
// @Tags tickets
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} TicketStatsResponse
// @Failure 404 {object} map[string]string
// @Router /events/{id}/stats [get]
func (h *TicketHandler) Stats(c echo.Context) error {
	eventID := c.Param("id")
	stats, err := h.service.GetTicketStats(c.Request().Context(), eventID)
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, TicketStatsResponse{
		Total:     stats.Total,
		Active:    stats.Active,
		Used:      stats.Used,
		Cancelled: stats.Cancelled,
	})
}

// Participants godoc
// @Summary イベントの参加者一覧を取得
// @Description イベントに登録された参加者の一覧を取得します
// @Tags tickets
// @Produce json
// @Param id path string true "イベントID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} ParticipantResponse
// @Failure 404 {object} map[string]string
// @Router /events/{id}/participants [get]
func (h *TicketHandler) Participants(c echo.Context) error {
	eventID := c.Param("id")
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	participants, err := h.service.ListParticipants(c.Request().Context(), eventID, limit, offset)
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	responses := make([]*ParticipantResponse, len(participants))
	for i, p := range participants {
		responses[i] = toParticipantResponse(p)
	}
	return c.JSON(http.StatusOK, responses)
}
