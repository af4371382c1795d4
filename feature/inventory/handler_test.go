package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lv-inventory/core/procore"
	"lv-inventory/core/storage/mocks"
	"lv-inventory/feature/inventory/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T, api procore.API, exchanger TokenExchanger) (*fiber.App, *Service) {
	t.Helper()
	svc := NewService(api, newTestLocalStore(t), zap.NewNop())
	handler := NewHandler(svc, exchanger, zap.NewNop())

	app := fiber.New()
	handler.RegisterRoutes(app)
	return app, svc
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeRecord(t *testing.T, resp *http.Response) models.Record {
	t.Helper()
	var rec models.Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	return rec
}

func TestHandlerAddAndSearchItems(t *testing.T) {
	app, _ := newTestApp(t, new(mockAPI), nil)

	resp := doJSON(t, app, fiber.MethodPost, "/projects/proj-1/inventory/items", models.Record{
		Category:    models.CategoryCable,
		Description: "Cat6 Plenum 1000ft",
		PartNumber:  "CBL-100",
		Available:   12,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	created := decodeRecord(t, resp)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "proj-1", created.ProjectID)

	resp = doJSON(t, app, fiber.MethodGet, "/projects/proj-1/inventory/items?description=cat6", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var items []models.Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)

	// Other projects never see the record.
	resp = doJSON(t, app, fiber.MethodGet, "/projects/proj-2/inventory/items", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var other []models.Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&other))
	assert.Empty(t, other)
}

func TestHandlerUpdateItem(t *testing.T) {
	app, svc := newTestApp(t, new(mockAPI), nil)
	rec := svc.AddItem("proj-1", models.Record{Description: "Fiber patch panel"})

	location := "Rack B4"
	resp := doJSON(t, app, fiber.MethodPut, "/projects/proj-1/inventory/items/"+rec.ID,
		Patch{Location: &location})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Rack B4", decodeRecord(t, resp).Location)

	resp = doJSON(t, app, fiber.MethodPut, "/projects/proj-1/inventory/items/missing",
		Patch{Location: &location})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandlerDeleteItem(t *testing.T) {
	app, svc := newTestApp(t, new(mockAPI), nil)
	rec := svc.AddItem("proj-1", models.Record{Description: "Door strike"})

	resp := doJSON(t, app, fiber.MethodDelete, "/projects/proj-1/inventory/items/"+rec.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodDelete, "/projects/proj-1/inventory/items/"+rec.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandlerAdjustQuantity(t *testing.T) {
	app, svc := newTestApp(t, new(mockAPI), nil)
	rec := svc.AddItem("proj-1", models.Record{Description: "Cat6 Plenum", Available: 10})

	resp := doJSON(t, app, fiber.MethodPost,
		fmt.Sprintf("/projects/proj-1/inventory/items/%s/adjust", rec.ID),
		adjustRequest{Delta: 4, Mode: models.ModeAllocation})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	got := decodeRecord(t, resp)
	assert.Equal(t, 6.0, got.Available)
	assert.Equal(t, 4.0, got.Allocated)
}

func TestHandlerAdjustErrors(t *testing.T) {
	app, svc := newTestApp(t, new(mockAPI), nil)
	rec := svc.AddItem("proj-1", models.Record{Description: "RJ45 Jack", Available: 2})

	tests := []struct {
		name string
		path string
		body adjustRequest
		want int
	}{
		{
			name: "insufficient stock conflicts",
			path: fmt.Sprintf("/projects/proj-1/inventory/items/%s/adjust", rec.ID),
			body: adjustRequest{Delta: 5, Mode: models.ModeAllocation},
			want: fiber.StatusConflict,
		},
		{
			name: "unknown record",
			path: "/projects/proj-1/inventory/items/missing/adjust",
			body: adjustRequest{Delta: 1, Mode: models.ModeStock},
			want: fiber.StatusNotFound,
		},
		{
			name: "invalid mode",
			path: fmt.Sprintf("/projects/proj-1/inventory/items/%s/adjust", rec.ID),
			body: adjustRequest{Delta: 1, Mode: "transfer"},
			want: fiber.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, fiber.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestHandlerReorderAndReport(t *testing.T) {
	app, svc := newTestApp(t, new(mockAPI), nil)
	svc.AddItem("proj-1", models.Record{
		Category: models.CategoryCable, Description: "Cat6 Plenum",
		Available: 2, ReorderThreshold: 5, UnitCost: 100,
	})
	svc.AddItem("proj-1", models.Record{
		Category: models.CategoryDevices, Description: "Touch panel",
		Available: 9, ReorderThreshold: 1, UnitCost: 500,
	})

	resp := doJSON(t, app, fiber.MethodGet, "/projects/proj-1/inventory/reorder", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var low []models.Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&low))
	require.Len(t, low, 1)
	assert.Equal(t, "Cat6 Plenum", low[0].Description)

	resp = doJSON(t, app, fiber.MethodGet, "/projects/proj-1/inventory/report", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var report Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 2, report.TotalItems)
	assert.Equal(t, 4700.0, report.TotalValue)
}

func TestHandlerExportCSV(t *testing.T) {
	app, svc := newTestApp(t, new(mockAPI), nil)
	svc.AddItem("proj-1", models.Record{Description: "Cat6 Plenum", PartNumber: "CBL-100"})

	resp := doJSON(t, app, fiber.MethodGet, "/projects/proj-1/inventory/export.csv", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get(fiber.HeaderContentType))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "CBL-100")
}

func TestHandlerLoadMapsUpstreamErrors(t *testing.T) {
	api := new(mockAPI)
	api.On("GetInventory", mock.Anything, "proj-1").
		Return(nil, procore.ErrAuthenticationFailed)
	app, _ := newTestApp(t, api, nil)

	resp := doJSON(t, app, fiber.MethodPost, "/projects/proj-1/inventory/load", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHandlerReconcileMapsVendorOutage(t *testing.T) {
	api := new(mockAPI)
	api.On("ListPurchaseOrders", mock.Anything, "proj-1").
		Return(nil, procore.ErrUpstreamUnavailable)
	app, _ := newTestApp(t, api, nil)

	resp := doJSON(t, app, fiber.MethodPost, "/projects/proj-1/inventory/reconcile", nil)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestHandlerReconcileReturnsResult(t *testing.T) {
	api := new(mockAPI)
	api.On("ListPurchaseOrders", mock.Anything, "proj-1").Return([]procore.PurchaseOrder{
		{ID: 7, Title: "Data cabling", Status: procore.StatusApproved},
	}, nil)
	api.On("ListLineItems", mock.Anything, int64(7)).Return([]procore.LineItem{
		{Description: "Cat6 Plenum 1000ft", PartNumber: "CBL-100", Quantity: 3},
	}, nil)
	api.On("ReplaceInventory", mock.Anything, "proj-1", mock.Anything).Return(nil)
	app, _ := newTestApp(t, api, nil)

	resp := doJSON(t, app, fiber.MethodPost, "/projects/proj-1/inventory/reconcile", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		RecordsCreated int `json:"records_created"`
		RecordsTouched int `json:"records_touched"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 1, result.RecordsCreated)
	assert.Equal(t, 1, result.RecordsTouched)
}

func TestHandlerDownloadExportConfinedToProject(t *testing.T) {
	store := new(mocks.Client)
	store.On("GetObject", mock.Anything, "exports", "exports/proj-1/20260829T120000Z.csv", mock.Anything).
		Return(io.NopCloser(strings.NewReader("csv-data")), nil)

	svc := NewService(new(mockAPI), newTestLocalStore(t), zap.NewNop(),
		WithArchive(store, "exports"))
	handler := NewHandler(svc, nil, zap.NewNop())

	app := fiber.New()
	handler.RegisterRoutes(app)

	// A name under another project's prefix must be rejected before it
	// ever reaches storage.
	resp := doJSON(t, app, fiber.MethodGet,
		"/projects/proj-1/inventory/exports/download?name=exports/proj-2/20260829T120000Z.csv", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	store.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	resp = doJSON(t, app, fiber.MethodGet,
		"/projects/proj-1/inventory/exports/download?name=exports/proj-1/20260829T120000Z.csv", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "csv-data", string(body))
	store.AssertExpectations(t)
}

type fakeExchanger struct {
	code string
	err  error
}

func (f *fakeExchanger) Exchange(_ context.Context, code string) error {
	f.code = code
	return f.err
}

func TestHandlerOAuthCallback(t *testing.T) {
	ex := &fakeExchanger{}
	app, _ := newTestApp(t, new(mockAPI), ex)

	resp := doJSON(t, app, fiber.MethodGet, "/oauth/callback?code=abc123", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "abc123", ex.code)

	resp = doJSON(t, app, fiber.MethodGet, "/oauth/callback", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandlerOAuthCallbackFailure(t *testing.T) {
	ex := &fakeExchanger{err: fmt.Errorf("exchange rejected: %w", procore.ErrAuthenticationFailed)}
	app, _ := newTestApp(t, new(mockAPI), ex)

	resp := doJSON(t, app, fiber.MethodGet, "/oauth/callback?code=abc123", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHandlerOAuthRouteAbsentWithoutExchanger(t *testing.T) {
	app, _ := newTestApp(t, new(mockAPI), nil)

	resp := doJSON(t, app, fiber.MethodGet, "/oauth/callback?code=abc123", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
