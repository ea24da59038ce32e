package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"jibal-shipping/config"
	"jibal-shipping/database"
	"jibal-shipping/middleware"
	"jibal-shipping/models"
	"jibal-shipping/reports/xlsx"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type recordingArchiver struct {
	files []string
}

func (a *recordingArchiver) Archive(_ context.Context, fileName, _ string, _ []byte) (string, error) {
	a.files = append(a.files, fileName)
	return "mem://" + fileName, nil
}

type testServer struct {
	app      *fiber.App
	db       *gorm.DB
	archiver *recordingArchiver
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	prev := config.MAIN_ROUTES
	config.MAIN_ROUTES = "/api/v1"
	t.Cleanup(func() { config.MAIN_ROUTES = prev })

	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, database.RunSeeders(db))
	for _, name := range []string{"CAI", "GIZ"} {
		require.NoError(t, db.Create(&models.Governorate{Name: name}).Error)
	}
	require.NoError(t, db.Create(&models.CarrierCompany{Name: "Aramex"}).Error)

	archiver := &recordingArchiver{}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	Setup(app, db, archiver)
	return &testServer{app: app, db: db, archiver: archiver}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (s *testServer) json(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	resp := s.do(t, method, path, body)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func shipmentPayload(shopiny, date string) map[string]any {
	return map[string]any{
		"shopiny_number":      shopiny,
		"delivery_date":       date,
		"from_governorate_id": 1,
		"to_governorate_id":   2,
		"carrier_company_id":  1,
		"items": []map[string]any{
			{"shipment_type_id": 1, "department_id": 1, "quantity": 10, "cost": 5, "boxes_count": 2, "use_boxes": false},
			{"shipment_type_id": 2, "department_id": 2, "quantity": 10, "cost": 25, "boxes_count": 2, "use_boxes": true},
		},
	}
}

func TestShipmentLifecycle(t *testing.T) {
	s := newTestServer(t)

	status, body := s.json(t, fiber.MethodPost, "/shipments", shipmentPayload("SH-1", "2024-03-15"))
	require.Equal(t, fiber.StatusCreated, status, body)
	data := body["data"].(map[string]any)
	assert.Equal(t, "CAI24030001", data["receipt_number"])
	id := int(data["id"].(float64))

	status, body = s.json(t, fiber.MethodGet, fmt.Sprintf("/shipments/%d", id), nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(100), body["data"].(map[string]any)["total_sum"])

	status, body = s.json(t, fiber.MethodGet, "/shipments?filter_field=receipt_number&filter_value=2403", nil)
	require.Equal(t, fiber.StatusOK, status)
	rows := body["data"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "Aramex", rows[0].(map[string]any)["carrier_company"])
	assert.Equal(t, float64(100), rows[0].(map[string]any)["total_amount"])

	update := shipmentPayload("SH-1", "2024-03-20")
	update["items"] = []map[string]any{{"shipment_type_id": 1, "department_id": 1, "quantity": 1, "cost": 7, "boxes_count": 0}}
	status, _ = s.json(t, fiber.MethodPut, fmt.Sprintf("/shipments/%d", id), update)
	require.Equal(t, fiber.StatusOK, status)

	status, body = s.json(t, fiber.MethodGet, fmt.Sprintf("/shipments/%d", id), nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(7), body["data"].(map[string]any)["total_sum"])

	status, _ = s.json(t, fiber.MethodDelete, fmt.Sprintf("/shipments/%d", id), nil)
	require.Equal(t, fiber.StatusOK, status)

	status, body = s.json(t, fiber.MethodGet, fmt.Sprintf("/shipments/%d", id), nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["error"])
}

func TestCreateShipmentErrors(t *testing.T) {
	s := newTestServer(t)

	status, body := s.json(t, fiber.MethodPost, "/shipments", map[string]any{"shopiny_number": "SH-1"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_INPUT", body["error"])
	fields := body["details"].(map[string]any)["fields"].([]any)
	assert.Contains(t, fields, "delivery_date")
	assert.Contains(t, fields, "items")

	status, _ = s.json(t, fiber.MethodPost, "/shipments", shipmentPayload("SH-1", "2024-03-15"))
	require.Equal(t, fiber.StatusCreated, status)
	status, body = s.json(t, fiber.MethodPost, "/shipments", shipmentPayload("SH-1", "2024-03-16"))
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "DUPLICATE_KEY", body["error"])

	status, _ = s.json(t, fiber.MethodGet, "/shipments/abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestNextReceipt(t *testing.T) {
	s := newTestServer(t)

	status, body := s.json(t, fiber.MethodGet, "/receipts/next?governorate=CAI&delivery_date=2024-03-15", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "CAI24030001", body["receipt_number"])

	status, _ = s.json(t, fiber.MethodPost, "/shipments", shipmentPayload("SH-1", "2024-03-15"))
	require.Equal(t, fiber.StatusCreated, status)
	_, body = s.json(t, fiber.MethodGet, "/receipts/next?governorate=CAI&delivery_date=2024-03-28", nil)
	assert.Equal(t, "CAI24030002", body["receipt_number"])

	status, body = s.json(t, fiber.MethodGet, "/receipts/next?governorate=CAI&delivery_date=soon", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "", body["receipt_number"])

	_, body = s.json(t, fiber.MethodGet, "/receipts/next?delivery_date=2024-03-15", nil)
	assert.Equal(t, "", body["receipt_number"])
}

func TestReportsJSON(t *testing.T) {
	s := newTestServer(t)
	status, _ := s.json(t, fiber.MethodPost, "/shipments", shipmentPayload("SH-1", "2024-03-15"))
	require.Equal(t, fiber.StatusCreated, status)

	status, body := s.json(t, fiber.MethodGet, "/reports/monthly?from_date=2024-03-01&to_date=2024-03-31", nil)
	require.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "2024-03-01", data["from_date"])
	assert.Equal(t, float64(100), data["totals"].(map[string]any)["cost"])
	assert.Equal(t, float64(2), data["item_count"])

	// department 3 matches no item, so the filtered report drops the shipment
	status, body = s.json(t, fiber.MethodGet, "/reports/by?department=3", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["data"].(map[string]any)["shipments"])

	status, body = s.json(t, fiber.MethodGet, "/reports/monthly?department=3", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"].(map[string]any)["shipments"], 1)

	// the monthly report takes only the date range
	status, body = s.json(t, fiber.MethodGet, "/reports/monthly?carrier_company=DHL", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"].(map[string]any)["shipments"], 1)

	status, body = s.json(t, fiber.MethodGet, "/reports/by?carrier_company=DHL", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["data"].(map[string]any)["shipments"])
	assert.Equal(t, float64(0), body["data"].(map[string]any)["item_count"])

	status, body = s.json(t, fiber.MethodGet, "/reports/monthly?from_date=03/01/2024", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_INPUT", body["error"])
}

func TestReportExports(t *testing.T) {
	s := newTestServer(t)
	status, _ := s.json(t, fiber.MethodPost, "/shipments", shipmentPayload("SH-1", "2024-03-15"))
	require.Equal(t, fiber.StatusCreated, status)

	tests := []struct {
		path   string
		file   string
		sheets int
	}{
		{"/reports/monthly/export?from_date=2024-03-01", "monthly_report.xlsx", 1},
		{"/reports/by/export?shipment_type=1", "shipments_report.xlsx", 1},
		{"/reports/export-all", "all_data.xlsx", 6},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			resp := s.do(t, fiber.MethodGet, tt.path, nil)
			defer resp.Body.Close()
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, xlsx.ContentType, resp.Header.Get("Content-Type"))
			assert.Equal(t, fmt.Sprintf(`attachment; filename="%s"`, tt.file), resp.Header.Get("Content-Disposition"))

			f, err := excelize.OpenReader(resp.Body)
			require.NoError(t, err)
			defer f.Close()
			assert.Len(t, f.GetSheetList(), tt.sheets)
		})
	}
	assert.Equal(t, []string{"monthly_report.xlsx", "shipments_report.xlsx", "all_data.xlsx"}, s.archiver.files)
}

func TestReferenceRoutes(t *testing.T) {
	s := newTestServer(t)

	status, body := s.json(t, fiber.MethodGet, "/shipment-types", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 4)

	status, body = s.json(t, fiber.MethodPost, "/governorates", map[string]any{"name": "BGD"})
	require.Equal(t, fiber.StatusCreated, status)
	id := int(body["data"].(map[string]any)["id"].(float64))

	status, _ = s.json(t, fiber.MethodPost, "/governorates", map[string]any{"name": "BGD"})
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = s.json(t, fiber.MethodPut, fmt.Sprintf("/governorates/%d", id), map[string]any{"name": "Baghdad"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Baghdad", body["data"].(map[string]any)["name"])

	status, _ = s.json(t, fiber.MethodPost, "/shipments", shipmentPayload("SH-1", "2024-03-15"))
	require.Equal(t, fiber.StatusCreated, status)
	status, body = s.json(t, fiber.MethodDelete, "/carrier-companies/1", nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["error"])

	status, _ = s.json(t, fiber.MethodDelete, fmt.Sprintf("/governorates/%d", id), nil)
	assert.Equal(t, fiber.StatusOK, status)
}
