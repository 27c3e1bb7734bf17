package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/WelderFernandes/event-ticket/internal/api/middleware"
	"github.com/WelderFernandes/event-ticket/internal/application"
	"github.com/WelderFernandes/event-ticket/internal/domain/event"
)

type EventHandler struct {
	eventService EventServiceInterface
}

func NewEventHandler(eventService EventServiceInterface) *EventHandler {
	return &EventHandler{eventService: eventService}
}

type CreateEventRequest struct {
	Title       string  `json:"title" validate:"required,max=100" example:"社内テックカンファレンス2026"`
	Description string  `json:"description" example:"年次の技術発表会"`
	Date        string  `json:"date" validate:"required" example:"2026-10-01T10:00:00+09:00"`
	Location    string  `json:"location" example:"本社ホール"`
	MaxTickets  *int    `json:"max_tickets,omitempty" validate:"omitempty,gt=0" example:"300"`
	Price       *string `json:"price,omitempty" example:"1500.00"`
}

type EventResponse struct {
	ID          string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Title       string  `json:"title" example:"社内テックカンファレンス2026"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date" example:"2026-10-01T10:00:00+09:00"`
	Location    string  `json:"location,omitempty"`
	MaxTickets  *int    `json:"max_tickets,omitempty"`
	Price       *string `json:"price,omitempty" example:"1500.00"`
	Active      bool    `json:"active"`
	OrganizerID string  `json:"organizer_id"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func toEventResponse(e *event.Event) *EventResponse {
	var price *string
	if e.Price != nil {
		// 価格は固定小数点のまま文字列で返す（浮動小数点を経由しない）
		p := e.Price.StringFixed(2)
		price = &p
	}
	return &EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date.Format(time.RFC3339),
		Location:    e.Location,
		MaxTickets:  e.MaxTickets,
		Price:       price,
		Active:      e.Active,
		OrganizerID: e.OrganizerID,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.Format(time.RFC3339),
	}
}

// Create godoc
// @Summary イベントを作成
// @Description 新しいイベントを作成します
// @Tags events
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param request body CreateEventRequest true "イベント情報"
// @Success 201 {object} EventResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	if identity.ID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}

	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "開催日時の形式が不正です")
	}

	var price *decimal.Decimal
	if req.Price != nil {
		p, err := decimal.NewFromString(*req.Price)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "価格の形式が不正です")
		}
		price = &p
	}

	input := application.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Location:    req.Location,
		MaxTickets:  req.MaxTickets,
		Price:       price,
		OrganizerID: identity.ID,
	}

	e, err := h.eventService.CreateEvent(c.Request().Context(), input)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, toEventResponse(e))
}

// GetByID godoc
// @Summary イベントを取得
// @Description 指定IDのイベントを取得します
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} map[string]string
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(c echo.Context) error {
	id := c.Param("id")
	e, err := h.eventService.GetEvent(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// List godoc
// @Summary イベント一覧を取得
// @Description イベントの一覧を取得します（作成日時の降順）
// @Tags events
// @Produce json
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} EventResponse
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	events, err := h.eventService.ListEvents(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	responses := make([]*EventResponse, len(events))
	for i, e := range events {
		responses[i] = toEventResponse(e)
	}
	return c.JSON(http.StatusOK, responses)
}
