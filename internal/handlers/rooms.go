package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/movetrack/movetrackgo/internal/models"
	"github.com/movetrack/movetrackgo/internal/services/rooms"
)

type createRoomRequest struct {
	RoomType   string  `json:"roomType"`
	CustomName *string `json:"customName"`
}

type updateRoomRequest struct {
	CustomName *string `json:"customName"`
	IsComplete *bool   `json:"isComplete"`
	SortOrder  *int    `json:"sortOrder"`
}

// createRoom adds a room to the inventory
func (r *Router) createRoom(w http.ResponseWriter, req *http.Request) {
	token := mux.Vars(req)["token"]
	inv, err := r.inventory.FindByToken(req.Context(), token)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var body createRoomRequest
	if err := decodeJSON(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !models.ValidRoomType(body.RoomType) {
		respondError(w, http.StatusBadRequest, "Unknown room type: "+body.RoomType)
		return
	}

	room, err := r.rooms.Create(req.Context(), inv.ID, body.RoomType, body.CustomName)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, room)
}

// listRooms returns the inventory's rooms in display order
func (r *Router) listRooms(w http.ResponseWriter, req *http.Request) {
	token := mux.Vars(req)["token"]
	inv, err := r.inventory.FindByToken(req.Context(), token)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	list, err := r.rooms.ListForInventory(req.Context(), inv.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// updateRoom applies a partial update to a room
func (r *Router) updateRoom(w http.ResponseWriter, req *http.Request) {
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

	var body updateRoomRequest
	if err := decodeJSON(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	room, err := r.rooms.Update(req.Context(), vars["roomId"], rooms.UpdateFields{
		CustomName: body.CustomName,
		IsComplete: body.IsComplete,
		SortOrder:  body.SortOrder,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, room)
}

// deleteRoom removes a room and everything in it
func (r *Router) deleteRoom(w http.ResponseWriter, req *http.Request) {
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

	if err := r.rooms.Delete(req.Context(), vars["roomId"]); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
