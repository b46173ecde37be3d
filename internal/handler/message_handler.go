package handler

import (
	"errors"
	"net/http"
	"strings"

	"mailgun-mock/internal/export"
	"mailgun-mock/internal/extract"
	"mailgun-mock/internal/render"
	"mailgun-mock/internal/service"

	"github.com/labstack/echo/v4"
)

// QueuedMessage is the acknowledgement real Mailgun sends for an accepted message.
const QueuedMessage = "Queued. Thank you."

type IngestResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type MessageHandler struct {
	messageService service.MessageService
	messagesSuffix string
	logger         echo.Logger
}

func NewMessageHandler(messageService service.MessageService, messagesSuffix string, logger echo.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		messagesSuffix: messagesSuffix,
		logger:         logger,
	}
}

// ListMessages renders every stored message, newest first
func (h *MessageHandler) ListMessages(c echo.Context) error {
	messages := h.messageService.GetMessages(c.Request().Context())
	return c.Render(http.StatusOK, render.ListTemplate, render.ListData{Messages: messages})
}

// IngestMessage captures a submitted message
func (h *MessageHandler) IngestMessage(c echo.Context) error {
	form, err := extract.FromRequest(c.Request())
	if err != nil {
		h.logger.Error("Error processing email:", err)
		return c.String(http.StatusInternalServerError, "Error processing email")
	}

	message := h.messageService.Ingest(c.Request().Context(), form)

	return c.JSON(http.StatusOK, IngestResponse{
		ID:      message.ID,
		Message: QueuedMessage,
	})
}

// ClearMessages empties the store and sends the caller back to the list
func (h *MessageHandler) ClearMessages(c echo.Context) error {
	h.messageService.Clear(c.Request().Context())
	return c.Redirect(http.StatusFound, "/")
}

// ExportMessages downloads the store as an mbox archive
func (h *MessageHandler) ExportMessages(c echo.Context) error {
	messages := h.messageService.GetMessages(c.Request().Context())

	c.Response().Header().Set(echo.HeaderContentType, "application/mbox")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="messages.mbox"`)
	c.Response().WriteHeader(http.StatusOK)

	if err := export.WriteMbox(c.Response(), messages); err != nil {
		// headers are already out, all we can do is log
		h.logger.Error("Failed to export messages:", err)
	}
	return nil
}

// Dispatch handles every path without a dedicated route. Submissions may
// arrive under any prefix (e.g. /v3/example.com/messages).
func (h *MessageHandler) Dispatch(c echo.Context) error {
	if c.Request().Method == http.MethodPost && strings.HasSuffix(c.Request().URL.Path, h.messagesSuffix) {
		return h.IngestMessage(c)
	}
	return NotFound(c)
}

func NotFound(c echo.Context) error {
	return c.String(http.StatusNotFound, "Not found")
}

// ErrorHandler answers echo's own 404 and 405 errors with the plain
// not-found response and hands everything else to fallback.
func ErrorHandler(fallback echo.HTTPErrorHandler) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var he *echo.HTTPError
		if errors.As(err, &he) && (he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed) {
			if !c.Response().Committed {
				_ = NotFound(c)
			}
			return
		}
		fallback(err, c)
	}
}
