package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/movetrack/movetrackgo/internal/models"
	"github.com/movetrack/movetrackgo/internal/services/inventory"
	"github.com/movetrack/movetrackgo/internal/websocket"
)

type customerFieldsRequest struct {
	CustomerName  *string `json:"customerName"`
	CustomerEmail *string `json:"customerEmail"`
	CustomerPhone *string `json:"customerPhone"`
	MoveDate      *string `json:"moveDate"`
	FromAddress   *string `json:"fromAddress"`
	ToAddress     *string `json:"toAddress"`
	Notes         *string `json:"notes"`
}

func (cr customerFieldsRequest) toFields() (inventory.CustomerFields, error) {
	fields := inventory.CustomerFields{
		CustomerName:  cr.CustomerName,
		CustomerEmail: cr.CustomerEmail,
		CustomerPhone: cr.CustomerPhone,
		FromAddress:   cr.FromAddress,
		ToAddress:     cr.ToAddress,
		Notes:         cr.Notes,
	}
	if cr.MoveDate != nil {
		parsed, err := parseMoveDate(*cr.MoveDate)
		if err != nil {
			return fields, err
		}
		fields.MoveDate = &parsed
	}
	return fields, nil
}

// parseMoveDate accepts both plain calendar dates and full timestamps
func parseMoveDate(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid moveDate %q, expected YYYY-MM-DD", value)
}

// createInventory opens a new draft inventory and returns its access token
func (r *Router) createInventory(w http.ResponseWriter, req *http.Request) {
	var body customerFieldsRequest
	if err := decodeJSON(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	fields, err := body.toFields()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	inv, err := r.inventory.Create(req.Context(), fields)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, inv)
}

// getInventory returns an inventory with its rooms and items, by access token
func (r *Router) getInventory(w http.ResponseWriter, req *http.Request) {
	token := mux.Vars(req)["token"]
	inv, err := r.inventory.FindByToken(req.Context(), token)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, inv)
}

// updateInventory applies a partial update to the customer fields
func (r *Router) updateInventory(w http.ResponseWriter, req *http.Request) {
	token := mux.Vars(req)["token"]

	var body customerFieldsRequest
	if err := decodeJSON(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	fields, err := body.toFields()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	inv, err := r.inventory.Update(req.Context(), token, fields)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, inv)
}

// submitInventory finalizes the inventory for review
func (r *Router) submitInventory(w http.ResponseWriter, req *http.Request) {
	token := mux.Vars(req)["token"]
	inv, err := r.inventory.Submit(req.Context(), token)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, inv)
}

// getSummary returns the inventory with per-room aggregates and specialty items
func (r *Router) getSummary(w http.ResponseWriter, req *http.Request) {
	token := mux.Vars(req)["token"]
	inv, err := r.inventory.FindByToken(req.Context(), token)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	summary, err := r.inventory.GetSummary(req.Context(), inv.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// getInventoryQR renders a QR code pointing at the customer inventory page
func (r *Router) getInventoryQR(w http.ResponseWriter, req *http.Request) {
	token := mux.Vars(req)["token"]
	inv, err := r.inventory.FindByToken(req.Context(), token)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	url := r.cfg.PublicWebURL + "/inventory/" + inv.Token
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// watchActivity upgrades the connection to a live activity feed
func (r *Router) watchActivity(w http.ResponseWriter, req *http.Request) {
	token := mux.Vars(req)["token"]
	inv, err := r.inventory.FindByToken(req.Context(), token)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	websocket.ServeWs(r.hub, inv.ID, w, req)
}

// roomForInventory loads a room and verifies it belongs to the inventory
func (r *Router) roomForInventory(inventoryID, roomID string) (*models.Room, error) {
	var room models.Room
	if err := r.db.Where("id = ? AND inventory_id = ?", roomID, inventoryID).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// itemForInventory loads an item and verifies it belongs to the inventory
func (r *Router) itemForInventory(inventoryID, itemID string) (*models.RoomItem, error) {
	var item models.RoomItem
	if err := r.db.Where("id = ? AND inventory_id = ?", itemID, inventoryID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
