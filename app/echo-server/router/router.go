package router

import (
	"productInfoAgent/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetSuggestionRoutes(api *echo.Group, handler *rest.SuggestionHandler, storefront ...echo.MiddlewareFunc) {
	suggestions := api.Group("/suggestions", storefront...)
	suggestions.GET("/:product_id", handler.GetSuggestions)
}

func SetDisplayRoutes(api *echo.Group, handler *rest.DisplayHandler, storefront ...echo.MiddlewareFunc) {
	api.GET("/display", handler.ShouldDisplay, storefront...)
}

func SetVoiceRoutes(api *echo.Group, handler *rest.VoiceHandler, storefront ...echo.MiddlewareFunc) {
	api.POST("/voice", handler.Generate, storefront...)
}

func SetAdminRoutes(
	api *echo.Group,
	settingsHandler *rest.SettingsAdminHandler,
	suggestionHandler *rest.SuggestionHandler,
	authRequired echo.MiddlewareFunc,
	adminOnly echo.MiddlewareFunc,
) {
	admin := api.Group("/admin", authRequired, adminOnly)

	admin.GET("/config", settingsHandler.GetConfig)
	admin.PUT("/config", settingsHandler.UpsertConfig)
	admin.DELETE("/suggestions/:product_id", suggestionHandler.Invalidate)
}
