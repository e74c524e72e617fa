package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/movetrack/movetrackgo/internal/apperrors"
	"github.com/movetrack/movetrackgo/internal/config"
	"github.com/movetrack/movetrackgo/internal/database"
	"github.com/movetrack/movetrackgo/internal/middleware"
	"github.com/movetrack/movetrackgo/internal/services/admin"
	"github.com/movetrack/movetrackgo/internal/services/ghl"
	"github.com/movetrack/movetrackgo/internal/services/inventory"
	"github.com/movetrack/movetrackgo/internal/services/items"
	"github.com/movetrack/movetrackgo/internal/services/rooms"
	"github.com/movetrack/movetrackgo/internal/websocket"
)

// Router wraps the mux router and the service layer
type Router struct {
	*mux.Router
	db        *database.DB
	cfg       *config.Config
	inventory *inventory.Service
	rooms     *rooms.Service
	items     *items.Service
	admin     *admin.Service
	ghl       *ghl.Service
	hub       *websocket.Hub
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, inventorySvc *inventory.Service, roomsSvc *rooms.Service, itemsSvc *items.Service, adminSvc *admin.Service, ghlSvc *ghl.Service, hub *websocket.Hub) *Router {
	r := &Router{
		Router:    mux.NewRouter(),
		db:        db,
		cfg:       cfg,
		inventory: inventorySvc,
		rooms:     roomsSvc,
		items:     itemsSvc,
		admin:     adminSvc,
		ghl:       ghlSvc,
		hub:       hub,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Customer routes, keyed by access token
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/inventory", r.createInventory).Methods("POST")
	api.HandleFunc("/inventory/{token}", r.getInventory).Methods("GET")
	api.HandleFunc("/inventory/{token}", r.updateInventory).Methods("PATCH")
	api.HandleFunc("/inventory/{token}/submit", r.submitInventory).Methods("POST")
	api.HandleFunc("/inventory/{token}/summary", r.getSummary).Methods("GET")
	api.HandleFunc("/inventory/{token}/qr", r.getInventoryQR).Methods("GET")
	api.HandleFunc("/inventory/{token}/activity", r.watchActivity).Methods("GET")

	// Room routes
	api.HandleFunc("/inventory/{token}/rooms", r.listRooms).Methods("GET")
	api.HandleFunc("/inventory/{token}/rooms", r.createRoom).Methods("POST")
	api.HandleFunc("/inventory/{token}/rooms/{roomId}", r.updateRoom).Methods("PATCH")
	api.HandleFunc("/inventory/{token}/rooms/{roomId}", r.deleteRoom).Methods("DELETE")

	// Item routes
	api.HandleFunc("/inventory/{token}/rooms/{roomId}/items", r.upsertItem).Methods("POST")
	api.HandleFunc("/inventory/{token}/items/{itemId}", r.updateItemQuantity).Methods("PATCH")
	api.HandleFunc("/inventory/{token}/items/{itemId}/images", r.updateItemImages).Methods("PATCH")
	api.HandleFunc("/inventory/{token}/items/{itemId}", r.deleteItem).Methods("DELETE")

	// Item library routes
	api.HandleFunc("/library/search", r.searchLibrary).Methods("GET")
	api.HandleFunc("/library/categories", r.getCategories).Methods("GET")

	// Admin routes (protected by shared API key)
	adminAPI := r.PathPrefix("/api/admin").Subrouter()
	adminAPI.Use(middleware.AdminAuth(cfg.AdminAPIKey))
	adminAPI.HandleFunc("/stats", r.getDashboardStats).Methods("GET")
	adminAPI.HandleFunc("/inventories", r.listInventories).Methods("GET")
	adminAPI.HandleFunc("/inventories/{id}/summary", r.getInventorySummary).Methods("GET")
	adminAPI.HandleFunc("/inventories/{id}/lock", r.lockInventory).Methods("POST")
	adminAPI.HandleFunc("/inventories/{id}/push-ghl", r.pushToGHL).Methods("POST")
	adminAPI.HandleFunc("/inventories/{id}/notes", r.addInternalNote).Methods("POST")
	adminAPI.HandleFunc("/inventories/{id}/audit-logs", r.getAuditLogs).Methods("GET")
	adminAPI.HandleFunc("/inventories/{id}/pdf", r.getInventoryPDF).Methods("GET")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondServiceError maps service-layer errors to HTTP status codes
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		log.Printf("❌ Internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON parses a request body. An absent or empty body decodes to the
// zero value: every customer-facing payload has all-optional fields.
func decodeJSON(req *http.Request, dst interface{}) error {
	defer req.Body.Close()
	if err := json.NewDecoder(req.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
