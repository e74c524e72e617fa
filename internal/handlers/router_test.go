package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/movetrack/movetrackgo/internal/config"
	"github.com/movetrack/movetrackgo/internal/database"
	"github.com/movetrack/movetrackgo/internal/models"
	"github.com/movetrack/movetrackgo/internal/services/admin"
	"github.com/movetrack/movetrackgo/internal/services/audit"
	"github.com/movetrack/movetrackgo/internal/services/ghl"
	"github.com/movetrack/movetrackgo/internal/services/inventory"
	"github.com/movetrack/movetrackgo/internal/services/items"
	"github.com/movetrack/movetrackgo/internal/services/rooms"
	"github.com/movetrack/movetrackgo/internal/websocket"
)

const testAdminKey = "test-admin-key"

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	err = gdb.AutoMigrate(
		&models.Inventory{},
		&models.Room{},
		&models.RoomItem{},
		&models.ItemLibraryEntry{},
		&models.AuditLogEntry{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}
	db := &database.DB{DB: gdb}

	cfg := &config.Config{
		Env:          "test",
		Port:         "0",
		AdminAPIKey:  testAdminKey,
		PublicWebURL: "http://localhost:3000",
	}

	auditSvc := audit.NewService(gdb)
	inventorySvc := inventory.NewService(gdb, auditSvc)
	roomsSvc := rooms.NewService(gdb, inventorySvc)
	itemsSvc := items.NewService(gdb, inventorySvc)
	adminSvc := admin.NewService(gdb)
	ghlSvc := ghl.NewService(gdb, cfg.GHL, cfg.PublicWebURL)
	hub := websocket.NewHub()

	return NewRouter(db, cfg, inventorySvc, roomsSvc, itemsSvc, adminSvc, ghlSvc, hub)
}

func doJSON(t *testing.T, router *Router, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func adminHeaders() map[string]string {
	return map[string]string{"x-admin-key": testAdminKey}
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t)
	rec, body := doJSON(t, router, "GET", "/health", nil, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("Unexpected body: %v", body)
	}
}

func TestCustomerFlow(t *testing.T) {
	router := newTestRouter(t)

	// Create
	rec, created := doJSON(t, router, "POST", "/api/inventory", map[string]interface{}{
		"customerName": "Jane Doe",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	token, _ := created["token"].(string)
	if len(token) != 24 {
		t.Fatalf("Expected 24-character token, got %q", token)
	}

	// Get by token
	rec, fetched := doJSON(t, router, "GET", "/api/inventory/"+token, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if fetched["status"] != "draft" {
		t.Errorf("Expected draft status, got %v", fetched["status"])
	}

	// Patch customer fields
	rec, patched := doJSON(t, router, "PATCH", "/api/inventory/"+token, map[string]interface{}{
		"moveDate":    "2026-07-04",
		"fromAddress": "12 Oak St",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if patched["status"] != "in_progress" {
		t.Errorf("Expected in_progress after edit, got %v", patched["status"])
	}

	// Add a room
	rec, room := doJSON(t, router, "POST", "/api/inventory/"+token+"/rooms", map[string]interface{}{
		"roomType": "master_bedroom",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	roomID, _ := room["id"].(string)

	// Add an item
	rec, item := doJSON(t, router, "POST", "/api/inventory/"+token+"/rooms/"+roomID+"/items", map[string]interface{}{
		"itemLibraryId": "bed-queen",
		"name":          "Bed (Queen)",
		"quantity":      2,
		"cuFtPerItem":   40,
		"weightPerItem": 150,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if item["totalCuFt"] != "80.00" {
		t.Errorf("Expected item total 80.00, got %v", item["totalCuFt"])
	}

	// Submit
	rec, submitted := doJSON(t, router, "POST", "/api/inventory/"+token+"/submit", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if submitted["status"] != "submitted" {
		t.Errorf("Expected submitted, got %v", submitted["status"])
	}
	if submitted["totalCuFt"] != "80.00" || submitted["totalWeight"] != "300.00" {
		t.Errorf("Expected fresh totals, got %v / %v", submitted["totalCuFt"], submitted["totalWeight"])
	}
}

func TestRoomListAndSummary(t *testing.T) {
	router := newTestRouter(t)

	_, created := doJSON(t, router, "POST", "/api/inventory", nil, nil)
	token, _ := created["token"].(string)

	for _, roomType := range []string{"kitchen", "garage"} {
		rec, _ := doJSON(t, router, "POST", "/api/inventory/"+token+"/rooms", map[string]interface{}{
			"roomType": roomType,
		}, nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected 201 for %s, got %d", roomType, rec.Code)
		}
	}

	req := httptest.NewRequest("GET", "/api/inventory/"+token+"/rooms", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var roomList []models.Room
	if err := json.Unmarshal(rec.Body.Bytes(), &roomList); err != nil {
		t.Fatalf("Failed to decode room list: %v", err)
	}
	if len(roomList) != 2 {
		t.Fatalf("Expected 2 rooms, got %d", len(roomList))
	}
	if roomList[0].SortOrder != 0 || roomList[1].SortOrder != 1 {
		t.Errorf("Expected rooms in display order, got %d, %d", roomList[0].SortOrder, roomList[1].SortOrder)
	}

	roomID := roomList[0].ID
	rec, _ = doJSON(t, router, "POST", "/api/inventory/"+token+"/rooms/"+roomID+"/items", map[string]interface{}{
		"itemLibraryId":   "piano-upright",
		"name":            "Piano (Upright)",
		"quantity":        1,
		"cuFtPerItem":     70,
		"weightPerItem":   600,
		"isSpecialtyItem": true,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec, summary := doJSON(t, router, "GET", "/api/inventory/"+token+"/summary", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	roomSummaries, _ := summary["roomSummaries"].([]interface{})
	if len(roomSummaries) != 2 {
		t.Errorf("Expected 2 room summaries, got %d", len(roomSummaries))
	}
	first, _ := roomSummaries[0].(map[string]interface{})
	if first["itemCount"] != float64(1) || first["cuFt"] != float64(70) {
		t.Errorf("Unexpected kitchen aggregates: %v", first)
	}
	specialty, _ := summary["specialtyItems"].([]interface{})
	if len(specialty) != 1 {
		t.Errorf("Expected 1 specialty item, got %d", len(specialty))
	}
}

func TestCreateInventory_EmptyBody(t *testing.T) {
	router := newTestRouter(t)

	// Every create field is optional, including the body itself
	rec, created := doJSON(t, router, "POST", "/api/inventory", nil, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201 for empty body, got %d: %s", rec.Code, rec.Body.String())
	}
	token, _ := created["token"].(string)
	if len(token) != 24 {
		t.Errorf("Expected a token even without fields, got %q", token)
	}
	if created["status"] != "draft" {
		t.Errorf("Expected draft status, got %v", created["status"])
	}
}

func TestUpsertItem_RejectsNonPositiveQuantity(t *testing.T) {
	router := newTestRouter(t)

	_, created := doJSON(t, router, "POST", "/api/inventory", nil, nil)
	token, _ := created["token"].(string)
	_, room := doJSON(t, router, "POST", "/api/inventory/"+token+"/rooms", map[string]interface{}{
		"roomType": "office",
	}, nil)
	roomID, _ := room["id"].(string)

	for _, quantity := range []int{0, -3} {
		rec, body := doJSON(t, router, "POST", "/api/inventory/"+token+"/rooms/"+roomID+"/items", map[string]interface{}{
			"name":     "Desk",
			"quantity": quantity,
		}, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for quantity %d, got %d", quantity, rec.Code)
		}
		if body["error"] != "Quantity must be at least 1" {
			t.Errorf("Unexpected error message: %v", body["error"])
		}
	}
}

func TestGetInventory_UnknownToken(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, "GET", "/api/inventory/nosuchtoken", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestAdminAuth(t *testing.T) {
	router := newTestRouter(t)

	// Missing key
	rec, _ := doJSON(t, router, "GET", "/api/admin/stats", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without key, got %d", rec.Code)
	}

	// Wrong key
	rec, _ = doJSON(t, router, "GET", "/api/admin/stats", nil, map[string]string{"x-admin-key": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with wrong key, got %d", rec.Code)
	}

	// Correct key
	rec, _ = doJSON(t, router, "GET", "/api/admin/stats", nil, adminHeaders())
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 with correct key, got %d", rec.Code)
	}
}

func TestLockBlocksCustomerEdits(t *testing.T) {
	router := newTestRouter(t)

	_, created := doJSON(t, router, "POST", "/api/inventory", nil, nil)
	token, _ := created["token"].(string)
	id, _ := created["id"].(string)

	rec, _ := doJSON(t, router, "POST", "/api/admin/inventories/"+id+"/lock", nil, adminHeaders())
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on lock, got %d: %s", rec.Code, rec.Body.String())
	}

	// Customer field edit is forbidden
	rec, _ = doJSON(t, router, "PATCH", "/api/inventory/"+token, map[string]interface{}{
		"customerName": "Jane",
	}, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 after lock, got %d", rec.Code)
	}

	// Submitting a locked inventory conflicts
	rec, _ = doJSON(t, router, "POST", "/api/inventory/"+token+"/submit", nil, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 after lock, got %d", rec.Code)
	}

	// Room creation is forbidden too
	rec, _ = doJSON(t, router, "POST", "/api/inventory/"+token+"/rooms", map[string]interface{}{
		"roomType": "kitchen",
	}, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for room create after lock, got %d", rec.Code)
	}
}

func TestItemOwnershipScopedByToken(t *testing.T) {
	router := newTestRouter(t)

	// Two separate inventories
	_, a := doJSON(t, router, "POST", "/api/inventory", nil, nil)
	_, b := doJSON(t, router, "POST", "/api/inventory", nil, nil)
	tokenA, _ := a["token"].(string)
	tokenB, _ := b["token"].(string)

	_, room := doJSON(t, router, "POST", "/api/inventory/"+tokenA+"/rooms", map[string]interface{}{
		"roomType": "office",
	}, nil)
	roomID, _ := room["id"].(string)

	_, item := doJSON(t, router, "POST", "/api/inventory/"+tokenA+"/rooms/"+roomID+"/items", map[string]interface{}{
		"name":     "Desk",
		"quantity": 1,
	}, nil)
	itemID, _ := item["id"].(string)

	// The other token cannot touch it
	rec, _ := doJSON(t, router, "PATCH", "/api/inventory/"+tokenB+"/items/"+itemID, map[string]interface{}{
		"quantity": 5,
	}, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for foreign item, got %d", rec.Code)
	}

	// The owning token can
	rec, _ = doJSON(t, router, "PATCH", "/api/inventory/"+tokenA+"/items/"+itemID, map[string]interface{}{
		"quantity": 5,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for own item, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminAuditLogs(t *testing.T) {
	router := newTestRouter(t)

	_, created := doJSON(t, router, "POST", "/api/inventory", map[string]interface{}{
		"customerName": "Jane Doe",
	}, nil)
	token, _ := created["token"].(string)
	id, _ := created["id"].(string)

	doJSON(t, router, "PATCH", "/api/inventory/"+token, map[string]interface{}{
		"customerEmail": "jane@example.com",
	}, nil)

	req := httptest.NewRequest("GET", "/api/admin/inventories/"+id+"/audit-logs", nil)
	req.Header.Set("x-admin-key", testAdminKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var logs []struct {
		Entry models.AuditLogEntry `json:"entry"`
		Info  audit.Description    `json:"info"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &logs); err != nil {
		t.Fatalf("Failed to decode logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(logs))
	}
	// Newest first
	if logs[0].Entry.Action != models.ActionInventoryUpdated {
		t.Errorf("Expected inventory_updated first, got %q", logs[0].Entry.Action)
	}
	if logs[0].Info.Description != "Email set to: jane@example.com" {
		t.Errorf("Unexpected description: %q", logs[0].Info.Description)
	}
}
