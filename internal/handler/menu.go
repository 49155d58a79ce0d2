package handler

import (
	"net/http"

	"github.com/homegym/storefront/internal/domain/catalog"
)

// ListMenu returns every available menu item grouped by category.
func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListAvailable(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, toMenuItemDTOs(items), len(items))
}

// ListCategories returns all categories with available item counts.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, toCategoryDTOs(categories), len(categories))
}

// ListMenuByCategory returns the available items in one category. An empty
// category reads as not found.
func (h *Handler) ListMenuByCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.catalog.ListByCategory(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if len(items) == 0 {
		respondErrorMessage(w, http.StatusNotFound, "no menu items found in this category")
		return
	}
	respondList(w, toMenuItemDTOs(items), len(items))
}

// ListPopularMenu returns available items flagged as popular.
func (h *Handler) ListPopularMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListPopular(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, toMenuItemDTOs(items), len(items))
}

// SearchMenu matches available items by a free-text query of at least two
// characters.
func (h *Handler) SearchMenu(w http.ResponseWriter, r *http.Request) {
	query, err := catalog.NormalizeQuery(r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	items, err := h.catalog.Search(r.Context(), query, catalog.SearchLimit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	count := len(items)
	writeJSON(w, http.StatusOK, struct {
		Status string        `json:"status"`
		Query  string        `json:"query"`
		Data   []menuItemDTO `json:"data"`
		Count  int           `json:"count"`
	}{Status: "success", Query: query, Data: toMenuItemDTOs(items), Count: count})
}

// GetMenuItem returns a single available menu item by ID.
func (h *Handler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	mi, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !mi.IsAvailable {
		respondErrorMessage(w, http.StatusNotFound, catalog.ErrNotFound.Error())
		return
	}
	respondData(w, http.StatusOK, toMenuItemDTO(*mi))
}
