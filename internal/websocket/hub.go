// Package websocket streams decorated audit activity to admin watchers.
// Watchers subscribe per inventory; appends fan out as they happen. This is
// read-only observability, not collaborative editing.
package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/movetrack/movetrackgo/internal/models"
	"github.com/movetrack/movetrackgo/internal/services/audit"
)

// ActivityEvent is one audit entry as delivered to watchers.
type ActivityEvent struct {
	Type        string               `json:"type"`
	InventoryID string               `json:"inventoryId"`
	Entry       models.AuditLogEntry `json:"entry"`
	Info        audit.Description    `json:"info"`
}

// Hub maintains the set of watchers keyed by the inventory they observe.
type Hub struct {
	register   chan *Client
	unregister chan *Client

	// watchers: inventory id -> connected clients
	watchers map[string]map[*Client]struct{}
	mu       sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		watchers:   make(map[string]map[*Client]struct{}),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			set, ok := h.watchers[client.inventoryID]
			if !ok {
				set = make(map[*Client]struct{})
				h.watchers[client.inventoryID] = set
			}
			set[client] = struct{}{}
			h.mu.Unlock()
			log.Printf("👀 Activity watcher connected for inventory %s", client.inventoryID)

		case client := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.watchers[client.inventoryID]; ok {
				if _, ok := set[client]; ok {
					delete(set, client)
					close(client.send)
					if len(set) == 0 {
						delete(h.watchers, client.inventoryID)
					}
					log.Printf("👋 Activity watcher disconnected for inventory %s", client.inventoryID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// PublishActivity implements audit.Notifier: every appended entry is pushed
// to the inventory's watchers. Slow or dead watchers are skipped, never
// blocked on.
func (h *Hub) PublishActivity(inventoryID string, entry models.AuditLogEntry, info audit.Description) {
	event := ActivityEvent{
		Type:        "activity",
		InventoryID: inventoryID,
		Entry:       entry,
		Info:        info,
	}
	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("⚠️  WS: failed to marshal activity event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.watchers[inventoryID] {
		select {
		case client.send <- msg:
		default:
			// Buffer full or client dead
		}
	}
}
