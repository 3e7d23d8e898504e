package rest

import (
	"context"
	"errors"
	"net/http"
	"productInfoAgent/domain"
	"productInfoAgent/internal/middleware"
	"productInfoAgent/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	VoiceHandler struct {
		validate     *validator.Validate
		voiceService VoiceService
	}

	VoiceService interface {
		Generate(ctx context.Context, req domain.VoiceRequest) (domain.VoiceResult, error)
	}

	VoiceInput struct {
		Text      string `json:"text" validate:"required,max=2000"`
		ProductID uint64 `json:"product_id"`
	}
)

func NewVoiceHandler(voiceService VoiceService) *VoiceHandler {
	return &VoiceHandler{
		validate:     validator.New(),
		voiceService: voiceService,
	}
}

// POST /api/v1/voice
func (h *VoiceHandler) Generate(c echo.Context) error {
	var request VoiceInput
	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	req := domain.VoiceRequest{
		Text:      request.Text,
		SessionID: middleware.Identity(c).SessionID,
	}
	if request.ProductID != 0 {
		req.ProductID = &request.ProductID
	}

	result, err := h.voiceService.Generate(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrVoiceDisabled), errors.Is(err, domain.ErrVoiceNotConfigured):
			return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: err.Error()})
		case errors.Is(err, domain.ErrVoiceSynthesis):
			return c.JSON(http.StatusBadGateway, ResponseError{Message: "Failed to generate voice"})
		}
		logger.Error("Failed to generate voice", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}
