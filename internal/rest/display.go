package rest

import (
	"context"
	"errors"
	"net/http"
	"productInfoAgent/domain"
	"productInfoAgent/internal/middleware"
	"productInfoAgent/pkg/logger"
	"productInfoAgent/pkg/metrics"
	"strconv"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	DisplayHandler struct {
		validate       *validator.Validate
		displayService DisplayService
	}

	DisplayService interface {
		ShouldDisplayChat(ctx context.Context, req domain.PageRequest) (domain.DisplayDecision, error)
	}

	DisplayQuery struct {
		Module     string `query:"module" validate:"omitempty,max=64,alphanum"`
		Action     string `query:"action" validate:"omitempty,max=64,alphanum"`
		ProductID  string `query:"product_id" validate:"omitempty,numeric"`
		CategoryID string `query:"category_id" validate:"omitempty,numeric"`
		PageID     string `query:"page_id" validate:"omitempty,max=64"`
		Query      string `query:"q" validate:"max=256"`
	}
)

func NewDisplayHandler(displayService DisplayService) *DisplayHandler {
	return &DisplayHandler{
		validate:       validator.New(),
		displayService: displayService,
	}
}

// GET /api/v1/display?module=catalog&action=product&product_id=12
func (h *DisplayHandler) ShouldDisplay(c echo.Context) error {
	var q DisplayQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	productID, err := optionalUint(q.ProductID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product_id"})
	}

	params := map[string]string{}
	if q.CategoryID != "" {
		params["id"] = q.CategoryID
	}
	if q.PageID != "" {
		params["page_id"] = q.PageID
	}
	if q.Query != "" {
		params["q"] = q.Query
	}

	decision, err := h.displayService.ShouldDisplayChat(c.Request().Context(), domain.PageRequest{
		Module:    q.Module,
		Action:    q.Action,
		ProductID: productID,
		Params:    params,
		Identity:  middleware.Identity(c),
	})
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to check chat display", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	metrics.DisplayChecks.WithLabelValues(string(decision.PageType), strconv.FormatBool(decision.Display)).Inc()

	return c.JSON(http.StatusOK, fres.Response.StatusOK(decision))
}
