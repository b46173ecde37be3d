package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"mailgun-mock/internal/service"
	"mailgun-mock/internal/sse"

	"github.com/labstack/echo/v4"
)

type EventHandler struct {
	messageService service.MessageService
	sseManager     *sse.SSEManager
	logger         echo.Logger
}

func NewEventHandler(messageService service.MessageService, sseManager *sse.SSEManager, logger echo.Logger) *EventHandler {
	return &EventHandler{
		messageService: messageService,
		sseManager:     sseManager,
		logger:         logger,
	}
}

// StreamEvents provides Server-Sent Events announcing ingests and clears
func (h *EventHandler) StreamEvents(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	clientChannel := h.sseManager.AddClient()
	defer h.sseManager.RemoveClient(clientChannel)

	// Named so that the page's onmessage handler ignores it
	initEvent := map[string]interface{}{
		"type": "connection",
		"data": map[string]int{
			"messages": len(h.messageService.GetMessages(c.Request().Context())),
		},
		"time": time.Now().Unix(),
	}
	initJSON, err := json.Marshal(initEvent)
	if err != nil {
		h.logger.Error("Failed to marshal connection event:", err)
		return nil
	}
	fmt.Fprintf(c.Response(), "event: connection\ndata: %s\n\n", initJSON)
	c.Response().Flush()

	for {
		select {
		case eventData, ok := <-clientChannel:
			if !ok {
				return nil
			}
			fmt.Fprintf(c.Response(), "data: %s\n\n", eventData)
			c.Response().Flush()
		case <-c.Request().Context().Done():
			return nil
		}
	}
}
