package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/movetrack/movetrackgo/internal/models"
	"github.com/movetrack/movetrackgo/internal/services/audit"
	"github.com/movetrack/movetrackgo/internal/services/printer"
)

type addNoteRequest struct {
	Note string `json:"note"`
}

type auditLogResponse struct {
	Entry models.AuditLogEntry `json:"entry"`
	Info  audit.Description    `json:"info"`
}

// getDashboardStats returns aggregate counts for the admin dashboard
func (r *Router) getDashboardStats(w http.ResponseWriter, req *http.Request) {
	stats, err := r.admin.GetDashboardStats(req.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// listInventories returns inventories newest first, optionally filtered by status
func (r *Router) listInventories(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	invs, err := r.inventory.FindAll(req.Context(), q.Get("status"), limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, invs)
}

// getInventorySummary returns per-room aggregates and specialty items
func (r *Router) getInventorySummary(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	summary, err := r.inventory.GetSummary(req.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// lockInventory freezes an inventory against further customer edits
func (r *Router) lockInventory(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	inv, err := r.inventory.Lock(req.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, inv)
}

// pushToGHL sends the inventory summary to the configured CRM webhook
func (r *Router) pushToGHL(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	summary, err := r.inventory.GetSummary(req.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	payload := r.ghl.BuildPayload(summary)
	if err := r.ghl.Push(req.Context(), id, payload); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"pushed": true})
}

// addInternalNote appends a timestamped admin-only note
func (r *Router) addInternalNote(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var body addNoteRequest
	if err := decodeJSON(req, &body); err != nil || body.Note == "" {
		respondError(w, http.StatusBadRequest, "Note text is required")
		return
	}

	if err := r.admin.AddInternalNote(req.Context(), id, body.Note); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"added": true})
}

// getAuditLogs returns recent audit entries with human-readable descriptions
func (r *Router) getAuditLogs(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	entries, err := r.inventory.Audit().List(req.Context(), id, limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := make([]auditLogResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, auditLogResponse{Entry: entry, Info: audit.Describe(entry)})
	}
	respondJSON(w, http.StatusOK, resp)
}

// getInventoryPDF renders the printable summary document
func (r *Router) getInventoryPDF(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	summary, err := r.inventory.GetSummary(req.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	accessURL := r.cfg.PublicWebURL + "/inventory/" + summary.Inventory.Token
	pdf, err := printer.GenerateSummaryPDF(summary, accessURL)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=inventory-summary.pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
