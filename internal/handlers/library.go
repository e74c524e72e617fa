package handlers

import "net/http"

// searchLibrary looks up catalog entries by text, category, or room type
func (r *Router) searchLibrary(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	results, err := r.items.SearchLibrary(req.Context(), q.Get("q"), q.Get("category"), q.Get("roomType"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

// getCategories lists the distinct catalog categories
func (r *Router) getCategories(w http.ResponseWriter, req *http.Request) {
	categories, err := r.items.GetCategories(req.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}
