package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/slidesmith/slidesmith-backend/internal/models"
)

// ProgressHub manages Server-Sent Events connections for real-time
// generation progress streaming, keyed by project ID.
type ProgressHub struct {
	clients map[string]map[chan []byte]bool
	mu      sync.RWMutex
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{
		clients: make(map[string]map[chan []byte]bool),
	}
}

// RegisterClient registers a new SSE client for a project
func (h *ProgressHub) RegisterClient(projectID string) chan []byte {
	h.mu.Lock()
	defer h.mu.Unlock()

	clientChan := make(chan []byte, 10) // Buffer size 10

	if h.clients[projectID] == nil {
		h.clients[projectID] = make(map[chan []byte]bool)
	}
	h.clients[projectID][clientChan] = true

	logrus.Infof("SSE client registered for project %s (total clients: %d)", projectID, len(h.clients[projectID]))
	return clientChan
}

// UnregisterClient unregisters an SSE client
func (h *ProgressHub) UnregisterClient(projectID string, clientChan chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[projectID] != nil {
		delete(h.clients[projectID], clientChan)
		close(clientChan)

		if len(h.clients[projectID]) == 0 {
			delete(h.clients, projectID)
		}
	}

	logrus.Infof("SSE client unregistered for project %s (remaining clients: %d)", projectID, len(h.clients[projectID]))
}

// BroadcastEvent broadcasts a generation event to all clients watching the
// project. Slow clients are skipped, never blocked on.
func (h *ProgressHub) BroadcastEvent(event *models.DeckEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.clients[event.ProjectID]
	if len(clients) == 0 {
		return
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		logrus.Errorf("Failed to marshal event for SSE: %v", err)
		return
	}

	// Frontend EventSource needs an event type to dispatch on
	message := fmt.Sprintf("event: progress\ndata: %s\n\n", string(eventJSON))

	for clientChan := range clients {
		select {
		case clientChan <- []byte(message):
		default:
			logrus.Warnf("SSE client channel full, skipping: project %s", event.ProjectID)
		}
	}
}

// GetClientCount returns the number of clients watching a project
func (h *ProgressHub) GetClientCount(projectID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, exists := h.clients[projectID]; exists {
		return len(clients)
	}
	return 0
}

// SendHeartbeat sends a heartbeat message to keep connections alive
func (h *ProgressHub) SendHeartbeat(projectID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, exists := h.clients[projectID]
	if !exists {
		return
	}

	heartbeat := fmt.Sprintf(": heartbeat %s\n\n", time.Now().Format(time.RFC3339))
	for clientChan := range clients {
		select {
		case clientChan <- []byte(heartbeat):
		default:
		}
	}
}
