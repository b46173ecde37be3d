package sse

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"mailgun-mock/internal/logger"
)

const (
	EventMessage = "message"
	EventClear   = "clear"

	clientBuffer = 10
	sendTimeout  = 100 * time.Millisecond
)

// SSEManager fans store events out to connected list pages.
type SSEManager struct {
	clients    map[chan []byte]struct{}
	clientsMux sync.RWMutex
	logger     *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewSSEManager(logger *logger.Logger) *SSEManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &SSEManager{
		clients: make(map[chan []byte]struct{}),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// AddClient registers a new subscriber. The channel is closed by
// RemoveClient or Close.
func (s *SSEManager) AddClient() chan []byte {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	channel := make(chan []byte, clientBuffer)
	if s.ctx.Err() != nil {
		close(channel)
		return channel
	}
	s.clients[channel] = struct{}{}

	s.logger.Debug("Added SSE client, total clients:", len(s.clients))
	return channel
}

func (s *SSEManager) RemoveClient(channel chan []byte) {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	if _, exists := s.clients[channel]; exists {
		delete(s.clients, channel)
		close(channel)
		s.logger.Debug("Removed SSE client, remaining clients:", len(s.clients))
	}
}

// Broadcast sends an event to every subscriber. A subscriber that cannot
// take the event within sendTimeout misses it.
func (s *SSEManager) Broadcast(eventType string, data interface{}) {
	event := map[string]interface{}{
		"type": eventType,
		"data": data,
		"time": time.Now().Unix(),
	}

	jsonData, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal broadcast event:", err)
		return
	}

	s.clientsMux.RLock()
	defer s.clientsMux.RUnlock()

	for channel := range s.clients {
		select {
		case channel <- jsonData:
		case <-time.After(sendTimeout):
			s.logger.Warn("Timeout sending", eventType, "event to SSE client")
		}
	}
}

// Done is closed once the manager shuts down.
func (s *SSEManager) Done() <-chan struct{} {
	return s.ctx.Done()
}

func (s *SSEManager) Close() {
	s.cancel()

	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	for channel := range s.clients {
		close(channel)
		delete(s.clients, channel)
	}
}

func (s *SSEManager) ClientCount() int {
	s.clientsMux.RLock()
	defer s.clientsMux.RUnlock()

	return len(s.clients)
}
