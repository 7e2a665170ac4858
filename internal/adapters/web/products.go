package web

import (
	"net/http"

	"parts-pos/internal/core"
)

// listProducts handles GET /api/products.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Products)
}

// listLowStockProducts handles GET /api/products/low-stock.
func (h *Handler) listLowStockProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListLowStockProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Products)
}

// getProduct handles GET /api/products/{id}.
func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Product")
	if !ok {
		return
	}
	product, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// createProduct handles POST /api/products.
func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in core.CreateProductInput
	if !decodeJSON(w, r, &in) {
		return
	}
	product, err := h.svc.CreateProduct(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// updateProduct handles PUT /api/products/{id}. Omitted fields are left unchanged.
func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Product")
	if !ok {
		return
	}
	var patch core.ProductPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	product, err := h.svc.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// deleteProduct handles DELETE /api/products/{id}.
func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Product")
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// toggleProductActive handles PUT /api/products/{id}/toggle-active.
func (h *Handler) toggleProductActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Product")
	if !ok {
		return
	}
	product, err := h.svc.ToggleProductActive(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}
