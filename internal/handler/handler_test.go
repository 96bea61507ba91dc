package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tiendapos/internal/domain"
	"tiendapos/internal/handler"
	"tiendapos/internal/service"
	"tiendapos/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sampleView() *service.ReceptionView {
	return &service.ReceptionView{
		ReceptionSession: &domain.ReceptionSession{
			ID:    "rec-1",
			State: domain.ReceptionLoaded,
			Invoice: domain.ParsedInvoice{
				Header: domain.InvoiceHeader{SupplierName: "Distribuidora Andina", Folio: "FE-1001"},
			},
			Lines: []domain.ReconciledLine{
				{
					InvoiceLine: domain.InvoiceLine{
						Seq:         1,
						SupplierSKU: "A1",
						Description: "Arroz 500g",
						Quantity:    decimal.NewFromInt(5),
						UnitCost:    decimal.NewFromInt(110),
					},
					Status:      domain.LineStatusExisting,
					DisplayName: "Arroz 500g",
				},
			},
		},
	}
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestReceptionHandler_Create_Success(t *testing.T) {
	mockSvc := new(mocks.MockReceptionService)
	h := handler.NewReceptionHandler(mockSvc, 5)

	xml := []byte("<Invoice/>")
	mockSvc.On("Start", mock.Anything, service.StartReceptionInput{FileName: "fe1001.xml", Data: xml}).
		Return(sampleView(), nil)

	body, contentType := multipartBody(t, "fe1001.xml", xml)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/receptions", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	mockSvc.AssertExpectations(t)
}

func TestReceptionHandler_Create_UnsupportedFile(t *testing.T) {
	mockSvc := new(mocks.MockReceptionService)
	h := handler.NewReceptionHandler(mockSvc, 5)

	body, contentType := multipartBody(t, "notes.txt", []byte("hello"))
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/receptions", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "UNSUPPORTED_FILE_TYPE", resp.Error.Code)
	mockSvc.AssertNotCalled(t, "Start", mock.Anything, mock.Anything)
}

func TestReceptionHandler_Create_MissingFile(t *testing.T) {
	mockSvc := new(mocks.MockReceptionService)
	h := handler.NewReceptionHandler(mockSvc, 5)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/receptions", strings.NewReader(""))

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FILE", decodeResponse(t, w).Error.Code)
}

func TestReceptionHandler_Create_ParseError(t *testing.T) {
	mockSvc := new(mocks.MockReceptionService)
	h := handler.NewReceptionHandler(mockSvc, 5)

	mockSvc.On("Start", mock.Anything, mock.AnythingOfType("service.StartReceptionInput")).
		Return(nil, domain.ErrInvoiceParse)

	body, contentType := multipartBody(t, "broken.xml", []byte("<Invoice"))
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/receptions", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.Create(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVOICE_PARSE_ERROR", decodeResponse(t, w).Error.Code)
}

func TestReceptionHandler_SetReceived(t *testing.T) {
	mockSvc := new(mocks.MockReceptionService)
	h := handler.NewReceptionHandler(mockSvc, 5)

	mockSvc.On("SetReceived", mock.Anything, "rec-1", 1, mock.MatchedBy(func(q decimal.Decimal) bool {
		return q.Equal(decimal.RequireFromString("4.5"))
	})).Return(sampleView(), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "rec-1"}, {Key: "seq", Value: "1"}}
	c.Request, _ = http.NewRequest(http.MethodPut, "/api/v1/receptions/rec-1/lines/1", strings.NewReader(`{"received": 4.5}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.SetReceived(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestReceptionHandler_SetReceived_BadInput(t *testing.T) {
	tests := []struct {
		name string
		seq  string
		body string
		code string
	}{
		{"non-numeric seq", "x", `{"received": 1}`, "INVALID_SEQ"},
		{"zero seq", "0", `{"received": 1}`, "INVALID_SEQ"},
		{"missing received", "1", `{}`, "INVALID_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(mocks.MockReceptionService)
			h := handler.NewReceptionHandler(mockSvc, 5)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = gin.Params{{Key: "id", Value: "rec-1"}, {Key: "seq", Value: tt.seq}}
			c.Request, _ = http.NewRequest(http.MethodPut, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			h.SetReceived(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, decodeResponse(t, w).Error.Code)
			mockSvc.AssertNotCalled(t, "SetReceived", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestReceptionHandler_TransitionErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unknown session", domain.ErrSessionNotFound, http.StatusNotFound, "SESSION_NOT_FOUND"},
		{"wrong state", domain.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
		{"already applied", domain.ErrAlreadyApplied, http.StatusConflict, "ALREADY_APPLIED"},
		{"store busy", domain.ErrStoreBusy, http.StatusLocked, "STORE_BUSY"},
		{"partial write", &domain.StoreWriteError{Op: domain.StoreOpInsert, Err: errors.New("quota")}, http.StatusBadGateway, "STORE_WRITE_FAILED"},
		{"schema", &domain.SchemaMismatchError{Table: "Inventario", Column: "SKU_Proveedor"}, http.StatusConflict, "SCHEMA_MISMATCH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(mocks.MockReceptionService)
			h := handler.NewReceptionHandler(mockSvc, 5)
			mockSvc.On("Apply", mock.Anything, "rec-1").Return(nil, tt.err)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = gin.Params{{Key: "id", Value: "rec-1"}}
			c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/receptions/rec-1/apply", nil)

			h.Apply(c)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeResponse(t, w).Error.Code)
		})
	}
}

func TestReceptionHandler_Cancel(t *testing.T) {
	mockSvc := new(mocks.MockReceptionService)
	h := handler.NewReceptionHandler(mockSvc, 5)
	mockSvc.On("Cancel", mock.Anything, "rec-1").Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "rec-1"}}
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/v1/receptions/rec-1", nil)

	h.Cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestReceptionHandler_Report(t *testing.T) {
	mockSvc := new(mocks.MockReceptionService)
	h := handler.NewReceptionHandler(mockSvc, 5)
	mockSvc.On("Get", mock.Anything, "rec-1").Return(sampleView(), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "rec-1"}}
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/receptions/rec-1/report.csv", nil)

	h.Report(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "recepcion_Distribuidora_Andina_FE-1001_")
	assert.Contains(t, w.Body.String(), "SKU_Proveedor")
	assert.Contains(t, w.Body.String(), "Arroz 500g")
}

func TestReceptionHandler_Archive(t *testing.T) {
	mockSvc := new(mocks.MockReceptionService)
	h := handler.NewReceptionHandler(mockSvc, 5)
	mockSvc.On("ArchiveURL", mock.Anything, "rec-1").Return("https://example.test/signed", nil)
	mockSvc.On("ArchiveURL", mock.Anything, "rec-2").Return("", domain.ErrNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "rec-1"}}
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	h.Archive(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://example.test/signed")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "rec-2"}}
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	h.Archive(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSalesHandler_Checkout(t *testing.T) {
	mockSvc := new(mocks.MockSalesService)
	h := handler.NewSalesHandler(mockSvc)

	sale := &domain.Sale{ID: "s-1", CustomerRef: "Consumidor final", Total: decimal.NewFromInt(5000)}
	mockSvc.On("Checkout", mock.Anything, mock.MatchedBy(func(in service.CheckoutInput) bool {
		return len(in.Items) == 1 && in.Items[0].ProductID == "P-1" && in.Items[0].Quantity.Equal(decimal.NewFromInt(2))
	})).Return(sale, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/sales",
		strings.NewReader(`{"items":[{"product_id":"P-1","quantity":2}]}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Checkout(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
	mockSvc.AssertExpectations(t)
}

func TestSalesHandler_Checkout_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"insufficient stock", domain.ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"unknown product", domain.ErrProductNotFound, http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"no price", domain.ErrPriceNotSet, http.StatusUnprocessableEntity, "PRICE_NOT_SET"},
		{"empty cart", domain.ErrEmptyCart, http.StatusBadRequest, "EMPTY_CART"},
		{"append failed", &domain.StoreWriteError{Op: domain.StoreOpAppend, Err: errors.New("io")}, http.StatusBadGateway, "STORE_WRITE_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(mocks.MockSalesService)
			h := handler.NewSalesHandler(mockSvc)
			mockSvc.On("Checkout", mock.Anything, mock.AnythingOfType("service.CheckoutInput")).Return(nil, tt.err)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader(`{"items":[]}`))
			c.Request.Header.Set("Content-Type", "application/json")

			h.Checkout(c)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeResponse(t, w).Error.Code)
		})
	}
}

func TestInventoryHandler_List(t *testing.T) {
	repo := new(mocks.MockInventoryRepo)
	h := handler.NewInventoryHandler(repo)

	repo.On("ListRecords", mock.Anything).Return([]domain.InventoryRecord{
		{ProductID: "P-1", Name: "Arroz 500g", SupplierSKU: "A1"},
		{ProductID: "P-2", Name: "Frijol 1kg", SupplierSKU: "B9"},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/inventory?q=arroz", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool                     `json:"success"`
		Data    []domain.InventoryRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "P-1", resp.Data[0].ProductID)
}

func TestHealthHandler_Readiness(t *testing.T) {
	h := handler.NewHealthHandler(map[string]handler.Check{
		"store": func(_ context.Context) error { return nil },
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", nil)
	h.Readiness(c)
	assert.Equal(t, http.StatusOK, w.Code)

	h = handler.NewHealthHandler(map[string]handler.Check{
		"redis": func(_ context.Context) error { return errors.New("dial tcp: refused") },
	})
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", nil)
	h.Readiness(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis not reachable")
}
