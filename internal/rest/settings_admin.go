package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"productInfoAgent/domain"
	"productInfoAgent/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	SettingsAdminHandler struct {
		validate *validator.Validate
		settings SettingsStore
	}

	SettingsStore interface {
		Get(ctx context.Context, scope string, scopeID uint64, path string) (domain.ConfigValue, error)
		Put(ctx context.Context, value domain.ConfigValue) error
		List(ctx context.Context, scope string, scopeID uint64) ([]domain.ConfigValue, error)
	}

	upsertConfigRequest struct {
		Scope   string `json:"scope" validate:"required,oneof=default store"`
		ScopeID uint64 `json:"scope_id"`
		Path    string `json:"path" validate:"required"`
		Value   string `json:"value"`
	}
)

func NewSettingsAdminHandler(settings SettingsStore) *SettingsAdminHandler {
	return &SettingsAdminHandler{
		validate: validator.New(),
		settings: settings,
	}
}

func scopeQuery(c echo.Context) (string, uint64, error) {
	scope := c.QueryParam("scope")
	if scope == "" {
		scope = domain.ScopeDefault
	}

	var scopeID uint64
	if raw := c.QueryParam("scope_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return "", 0, errors.New("invalid scope_id")
		}
		scopeID = id
	}
	return scope, scopeID, nil
}

// GET /api/v1/admin/config?path=productinfoagent/general/enabled&scope=store&scope_id=1
// Without path, every value of the scope is listed.
func (h *SettingsAdminHandler) GetConfig(c echo.Context) error {
	ctx := c.Request().Context()

	scope, scopeID, err := scopeQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	path := c.QueryParam("path")
	if path == "" {
		values, err := h.settings.List(ctx, scope, scopeID)
		if err != nil {
			logger.Error("Failed to list config", "error", err)
			return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, fres.Response.StatusOK(values))
	}

	value, err := h.settings.Get(ctx, scope, scopeID, path)
	if err != nil {
		if errors.Is(err, domain.ErrSettingNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: "config not found"})
		}
		logger.Error("Failed to get config", "path", path, "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(value))
}

// PUT /api/v1/admin/config
// body: { "scope": "store", "scope_id": 1, "path": "...", "value": "..." }
func (h *SettingsAdminHandler) UpsertConfig(c echo.Context) error {
	var body upsertConfigRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid body: " + err.Error()})
	}
	if err := h.validate.Struct(&body); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	err := h.settings.Put(c.Request().Context(), domain.ConfigValue{
		Scope:   body.Scope,
		ScopeID: body.ScopeID,
		Path:    body.Path,
		Value:   body.Value,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSetting) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to upsert config", "path", body.Path, "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Config updated"))
}
