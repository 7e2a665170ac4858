package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"parts-pos/internal/app"
	"parts-pos/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, svc app.ApplicationService, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, "http://localhost:5173").ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	rec := do(t, &fakeService{}, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","database":"ok"}`, rec.Body.String())

	rec = do(t, &fakeService{pingErr: errors.New("down")}, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListProducts_MoneyAsNumbers(t *testing.T) {
	svc := &fakeService{products: []core.Product{
		{ID: 1, Name: "Brake Pad", SKU: "BP-001", Price: decimal.RequireFromString("45.99"), Quantity: 10, MinStock: 5},
	}}

	rec := do(t, svc, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 45.99, got[0]["price"])
	assert.Equal(t, "BP-001", got[0]["sku"])
}

func TestListLowStockProducts(t *testing.T) {
	svc := &fakeService{products: []core.Product{
		{ID: 1, Quantity: 10, MinStock: 5},
		{ID: 2, Quantity: 5, MinStock: 5},
	}}

	rec := do(t, svc, http.MethodGet, "/api/products/low-stock", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []core.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)
}

func TestGetProduct_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
		code   string
	}{
		{"not found", "/api/products/42", &core.Error{Kind: core.ErrNotFound, Message: "Product 42 not found"}, http.StatusNotFound, "NOT_FOUND"},
		{"non-numeric id", "/api/products/abc", nil, http.StatusNotFound, "NOT_FOUND"},
		{"infrastructure error", "/api/products/1", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, &fakeService{err: tt.err}, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.status, rec.Code)

			resp := decodeError(t, rec)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.RequestID)
			assert.NotContains(t, resp.Error, "connection reset")
		})
	}
}

func TestCreateProduct(t *testing.T) {
	svc := &fakeService{product: &core.Product{ID: 3, Name: "Spark Plug", SKU: "SP-1"}}

	rec := do(t, svc, http.MethodPost, "/api/products", `{"name":"Spark Plug","sku":"SP-1","price":4.5}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "SP-1", svc.gotProduct.SKU)
	require.NotNil(t, svc.gotProduct.Price)
	assert.True(t, svc.gotProduct.Price.Equal(decimal.RequireFromString("4.5")))
	assert.Nil(t, svc.gotProduct.MinStock)
}

func TestCreateProduct_Errors(t *testing.T) {
	rec := do(t, &fakeService{}, http.MethodPost, "/api/products", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", decodeError(t, rec).Code)

	svc := &fakeService{err: &core.Error{Kind: core.ErrValidation, Message: "sku is required"}}
	rec = do(t, svc, http.MethodPost, "/api/products", `{"name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	assert.Equal(t, "sku is required", resp.Error)
}

func TestCreateProduct_BodyTooLarge(t *testing.T) {
	body := `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	rec := do(t, &fakeService{}, http.MethodPost, "/api/products", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestUpdateProduct_PartialPatch(t *testing.T) {
	svc := &fakeService{product: &core.Product{ID: 9}}

	rec := do(t, svc, http.MethodPut, "/api/products/9", `{"quantity":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 9, svc.gotID)
	require.NotNil(t, svc.gotPatch.Quantity)
	assert.Equal(t, 3, *svc.gotPatch.Quantity)
	assert.Nil(t, svc.gotPatch.Name)
	assert.Nil(t, svc.gotPatch.Price)
}

func TestDeleteProduct(t *testing.T) {
	svc := &fakeService{}
	rec := do(t, svc, http.MethodDelete, "/api/products/4", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, svc.deleteCalls)

	msg := "Cannot delete product that has been sold. Consider marking it as inactive instead."
	svc = &fakeService{err: &core.Error{Kind: core.ErrConflict, Message: msg}}
	rec = do(t, svc, http.MethodDelete, "/api/products/4", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "CONFLICT", resp.Code)
	assert.Equal(t, msg, resp.Error)
}

func TestToggleProductActive(t *testing.T) {
	svc := &fakeService{product: &core.Product{ID: 2, Active: false}}
	rec := do(t, svc, http.MethodPut, "/api/products/2/toggle-active", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, svc.gotID)
	assert.Contains(t, rec.Body.String(), `"active":false`)
}

func TestCreateSale(t *testing.T) {
	svc := &fakeService{sale: &core.Sale{
		ID:            1,
		InvoiceNumber: "INV-00001",
		Total:         decimal.RequireFromString("157.5"),
		CreatedAt:     time.Now(),
	}}
	body := `{"customer_name":"Jane","discount":5,"tax":12.5,
		"items":[{"product_id":1,"quantity":2,"price":50},{"product_id":2,"quantity":1,"price":50}]}`

	rec := do(t, svc, http.MethodPost, "/api/sales", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, svc.gotSale.Items, 2)
	assert.Equal(t, 2, svc.gotSale.Items[0].Quantity)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "INV-00001", got["invoice_number"])
	assert.Equal(t, 157.5, got["total"])
}

func TestCreateSale_InsufficientStock(t *testing.T) {
	svc := &fakeService{err: &core.Error{Kind: core.ErrConflict, Message: "Insufficient stock for Brake Pad"}}
	rec := do(t, svc, http.MethodPost, "/api/sales", `{"items":[{"product_id":1,"quantity":99,"price":1}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Insufficient stock for Brake Pad", decodeError(t, rec).Error)
}

func TestDeleteSale(t *testing.T) {
	svc := &fakeService{}
	rec := do(t, svc, http.MethodDelete, "/api/sales/12", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 12, svc.gotID)
}

func TestDownloadInvoice(t *testing.T) {
	svc := &fakeService{invoice: &app.InvoiceDocument{
		Filename:    "INV-00003.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.3 test"),
	}}

	rec := do(t, svc, http.MethodGet, "/api/sales/3/invoice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, svc.gotID)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="INV-00003.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3 test", rec.Body.String())
}

func TestDownloadInvoice_MissingSale(t *testing.T) {
	svc := &fakeService{err: &core.Error{Kind: core.ErrNotFound, Message: "Sale 3 not found"}}
	rec := do(t, svc, http.MethodGet, "/api/sales/3/invoice", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardStats(t *testing.T) {
	svc := &fakeService{stats: &core.DashboardStats{
		TotalProducts: 4,
		LowStockCount: 1,
		TotalSales:    2,
		TotalRevenue:  decimal.RequireFromString("210.00"),
		RecentSales:   []core.Sale{},
	}}

	rec := do(t, svc, http.MethodGet, "/api/dashboard/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, core.DefaultRecentSales, svc.gotRecent)
	assert.JSONEq(t, `{"total_products":4,"low_stock_count":1,"total_sales":2,"total_revenue":210,"recent_sales":[]}`,
		rec.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	rec := do(t, &fakeService{}, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Code)
}
