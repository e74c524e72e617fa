package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/movetrack/movetrackgo/internal/services/items"
)

type upsertItemRequest struct {
	ItemLibraryID       *string  `json:"itemLibraryId"`
	Name                string   `json:"name"`
	Category            *string  `json:"category"`
	Quantity            int      `json:"quantity"`
	CuFtPerItem         *float64 `json:"cuFtPerItem"`
	WeightPerItem       *float64 `json:"weightPerItem"`
	IsSpecialtyItem     bool     `json:"isSpecialtyItem"`
	RequiresDisassembly bool     `json:"requiresDisassembly"`
	IsFragile           bool     `json:"isFragile"`
	IsHighValue         bool     `json:"isHighValue"`
	Images              []string `json:"images"`
	Notes               *string  `json:"notes"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type updateImagesRequest struct {
	Images []string `json:"images"`
}

// upsertItem adds an item to a room, or bumps the existing catalog entry
func (r *Router) upsertItem(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	inv, err := r.inventory.FindByToken(req.Context(), vars["token"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if _, err := r.roomForInventory(inv.ID, vars["roomId"]); err != nil {
		respondError(w, http.StatusNotFound, "Room not found")
		return
	}

	var body upsertItemRequest
	if err := decodeJSON(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Name == "" {
		respondError(w, http.StatusBadRequest, "Item name is required")
		return
	}
	if body.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	item, err := r.items.Upsert(req.Context(), inv.ID, vars["roomId"], items.UpsertFields{
		ItemLibraryID:       body.ItemLibraryID,
		Name:                body.Name,
		Category:            body.Category,
		Quantity:            body.Quantity,
		CuFtPerItem:         body.CuFtPerItem,
		WeightPerItem:       body.WeightPerItem,
		IsSpecialtyItem:     body.IsSpecialtyItem,
		RequiresDisassembly: body.RequiresDisassembly,
		IsFragile:           body.IsFragile,
		IsHighValue:         body.IsHighValue,
		Images:              body.Images,
		Notes:               body.Notes,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// updateItemQuantity changes an item count; zero removes the row
func (r *Router) updateItemQuantity(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	inv, err := r.inventory.FindByToken(req.Context(), vars["token"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if _, err := r.itemForInventory(inv.ID, vars["itemId"]); err != nil {
		respondError(w, http.StatusNotFound, "Item not found")
		return
	}

	var body updateQuantityRequest
	if err := decodeJSON(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, deleted, err := r.items.UpdateQuantity(req.Context(), vars["itemId"], body.Quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if deleted {
		respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// updateItemImages replaces the photo set attached to an item
func (r *Router) updateItemImages(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	inv, err := r.inventory.FindByToken(req.Context(), vars["token"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if _, err := r.itemForInventory(inv.ID, vars["itemId"]); err != nil {
		respondError(w, http.StatusNotFound, "Item not found")
		return
	}

	var body updateImagesRequest
	if err := decodeJSON(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := r.items.UpdateImages(req.Context(), vars["itemId"], body.Images)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// deleteItem removes an item from its room
func (r *Router) deleteItem(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	inv, err := r.inventory.FindByToken(req.Context(), vars["token"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if _, err := r.itemForInventory(inv.ID, vars["itemId"]); err != nil {
		respondError(w, http.StatusNotFound, "Item not found")
		return
	}

	if err := r.items.Delete(req.Context(), vars["itemId"]); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
