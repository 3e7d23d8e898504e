package rest

import (
	"context"
	"net/http"
	"productInfoAgent/domain"
	"productInfoAgent/internal/middleware"
	"productInfoAgent/pkg/logger"
	"productInfoAgent/pkg/metrics"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	SuggestionHandler struct {
		suggestionService SuggestionService
	}

	SuggestionService interface {
		GetSuggestions(ctx context.Context, productID uint64, identity domain.Identity) ([]string, error)
		Invalidate(ctx context.Context, productID uint64) error
	}
)

func NewSuggestionHandler(suggestionService SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{
		suggestionService: suggestionService,
	}
}

// GET /api/v1/suggestions/:product_id
// Always answers 200; failures degrade to an empty list.
func (h *SuggestionHandler) GetSuggestions(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.SuggestionsLatency.Observe(time.Since(start).Seconds())
	}()
	metrics.SuggestionsRequests.Inc()

	productID, err := productIDParam(c)
	if err != nil || productID == 0 {
		logger.Error("Invalid product id for suggestions", "product_id", c.Param("product_id"))
		return c.JSON(http.StatusOK, echo.Map{"data": []string{}})
	}

	questions, err := h.suggestionService.GetSuggestions(c.Request().Context(), productID, middleware.Identity(c))
	if err != nil {
		logger.Error("Failed to get suggestions", "product_id", productID, "error", err)
		return c.JSON(http.StatusOK, echo.Map{"data": []string{}})
	}

	return c.JSON(http.StatusOK, echo.Map{"data": questions})
}

// DELETE /api/v1/admin/suggestions/:product_id
func (h *SuggestionHandler) Invalidate(c echo.Context) error {
	productID, err := productIDParam(c)
	if err != nil || productID == 0 {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product id"})
	}

	if err := h.suggestionService.Invalidate(c.Request().Context(), productID); err != nil {
		logger.Error("Failed to invalidate suggestions", "product_id", productID, "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Suggestions invalidated"))
}
