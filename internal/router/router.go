package router

import (
	"net/http"

	"mailgun-mock/internal/handler"

	"github.com/labstack/echo/v4"
)

func SetupRoutes(
	e *echo.Echo,
	messageHandler *handler.MessageHandler,
	eventHandler *handler.EventHandler,
) {
	e.HTTPErrorHandler = handler.ErrorHandler(e.DefaultHTTPErrorHandler)

	// Message list
	e.GET("/", messageHandler.ListMessages)

	// Reset the store
	e.Match([]string{http.MethodGet, http.MethodPost}, "/clear", messageHandler.ClearMessages)

	// Live updates for the list page
	e.GET("/events", eventHandler.StreamEvents)

	e.GET("/export.mbox", messageHandler.ExportMessages)

	// Submissions under any prefix; everything else is not found
	e.Any("/*", messageHandler.Dispatch)
}
