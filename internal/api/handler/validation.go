package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/WelderFernandes/event-ticket/internal/application"
)

type ValidationHandler struct {
	service TicketServiceInterface
}

func NewValidationHandler(s TicketServiceInterface) *ValidationHandler {
	return &ValidationHandler{service: s}
}

type ValidateTicketRequest struct {
	QRCode string `json:"qr_code" validate:"required" example:"QR-MBQZK3X1-ZK29DQW8XP"`
}

type ValidateTicketResponse struct {
	Success bool                  `json:"success"`
	Code    string                `json:"code" example:"validated"`
	Message string                `json:"message"`
	Ticket  *TicketDetailResponse `json:"ticket,omitempty"`
	UsedAt  *time.Time            `json:"used_at,omitempty"`
}

// Validate godoc
// @Summary チケットを検証
// @Description QRコードからチケットを検証し、使用済みにします
// @Tags tickets
// @Accept json
// @Produce json
// @Param request body ValidateTicketRequest true "QRコード"
// @Success 200 {object} ValidateTicketResponse "入場可"
// @Failure 404 {object} ValidateTicketResponse "チケットが見つからない"
// @Failure 409 {object} ValidateTicketResponse "使用済みまたはキャンセル済み"
// @Router /tickets/validate [post]
func (h *ValidationHandler) Validate(c echo.Context) error {
	var req ValidateTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.service.ValidateTicket(c.Request().Context(), req.QRCode)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "チケット検証に失敗しました")
	}

	resp := ValidateTicketResponse{
		Success: result.OK,
		Code:    string(result.Code),
		Message: result.Message,
		UsedAt:  result.UsedAt,
	}
	if result.Ticket != nil {
		resp.Ticket = toTicketDetailResponse(result.Ticket)
	}

	return c.JSON(statusForResult(result.Code), resp)
}

func statusForResult(code application.ResultCode) int {
	switch code {
	case application.ResultValidated:
		return http.StatusOK
	case application.ResultNotFound:
		return http.StatusNotFound
	case application.ResultAlreadyUsed, application.ResultCancelled:
		return http.StatusConflict
	}
	return http.StatusOK
}
