package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-inventory-api/internal/handler"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/service"
	"go-inventory-api/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	productRepo := repository.NewProductRepo(db)
	historyRepo := repository.NewHistoryRepo(db)
	svc := service.NewProductService(productRepo, historyRepo, db, nil, zap.NewNop())
	h := handler.NewProductHandler(svc)

	app := fiber.New()
	products := app.Group("/api/products")
	products.Get("/", h.ListProducts)
	products.Get("/search", h.SearchProducts)
	products.Get("/export", h.ExportProducts)
	products.Post("/import", h.ImportProducts)
	products.Post("/", h.CreateProduct)
	products.Get("/:id", h.GetProduct)
	products.Put("/:id", h.UpdateProduct)
	products.Delete("/:id", h.DeleteProduct)
	products.Get("/:id/history", h.GetHistory)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func productPayload(name string, stock int) map[string]interface{} {
	return map[string]interface{}{
		"name":     name,
		"unit":     "pc",
		"category": "Tools",
		"brand":    "Acme",
		"stock":    stock,
		"status":   "In Stock",
	}
}

func TestCreateProductEndpoint(t *testing.T) {
	app := setupApp(t)

	t.Run("201 on valid payload", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/products/", productPayload("Widget", 5))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		body := decode(t, resp)
		assert.Equal(t, "Widget", body["name"])
		assert.EqualValues(t, 5, body["stock"])
	})

	t.Run("409 on duplicate name", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/products/", productPayload("wIDGET", 1))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("400 with field messages", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/products/", map[string]interface{}{"name": "Bolt"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode(t, resp)
		errs, ok := body["errors"].([]interface{})
		require.True(t, ok)
		assert.NotEmpty(t, errs)
	})
}

func TestUpdateDeleteEndpoints(t *testing.T) {
	app := setupApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/products/", productPayload("Widget", 5))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode(t, resp)
	id := int(created["id"].(float64))

	t.Run("200 on update", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/products/%d", id), map[string]interface{}{"stock": 9})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode(t, resp)
		assert.EqualValues(t, 9, body["stock"])
	})

	t.Run("history reflects the change", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/products/%d/history", id), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode(t, resp)
		data := body["data"].([]interface{})
		require.Len(t, data, 1)
		rec := data[0].(map[string]interface{})
		assert.EqualValues(t, 5, rec["old_stock"])
		assert.EqualValues(t, 9, rec["new_stock"])
		assert.Equal(t, "admin", rec["changed_by"])
	})

	t.Run("404 on missing product", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/products/9999", map[string]interface{}{"stock": 1})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("400 on invalid id", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, "/api/products/abc", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("200 on delete then 404", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode(t, resp)
		assert.EqualValues(t, id, body["id"])

		resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestListEndpointPagination(t *testing.T) {
	app := setupApp(t)
	for i := 1; i <= 5; i++ {
		resp := doJSON(t, app, http.MethodPost, "/api/products/", productPayload(fmt.Sprintf("Item %d", i), i))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, app, http.MethodGet, "/api/products/?page=2&limit=2&sort=id&order=asc", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)

	data := body["data"].([]interface{})
	assert.Len(t, data, 2)

	pagination := body["pagination"].(map[string]interface{})
	assert.EqualValues(t, 2, pagination["page"])
	assert.EqualValues(t, 2, pagination["limit"])
	assert.EqualValues(t, 5, pagination["total"])
	assert.EqualValues(t, 3, pagination["pages"])
}

func TestSearchEndpoint(t *testing.T) {
	app := setupApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/products/", productPayload("Steel Hammer", 4))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("blank name returns empty data", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/products/search?name=", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode(t, resp)
		assert.Empty(t, body["data"])
	})

	t.Run("case-insensitive match", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/products/search?name=hammer", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode(t, resp)
		assert.Len(t, body["data"], 1)
	})
}

func TestImportEndpoint(t *testing.T) {
	app := setupApp(t)

	importCSV := func(t *testing.T, filename, content string) *http.Response {
		t.Helper()
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		part, err := writer.CreateFormFile("csvFile", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/products/import", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	t.Run("batch with duplicate", func(t *testing.T) {
		csvContent := "name,unit,category,brand,stock,status,image\n" +
			"Widget,pc,Tools,Acme,5,,\n" +
			"widget,pc,Tools,Acme,3,,\n" +
			",pc,Tools,Acme,1,,\n"
		resp := importCSV(t, "products.csv", csvContent)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode(t, resp)
		assert.EqualValues(t, 1, body["added"])
		assert.EqualValues(t, 2, body["skipped"])
		duplicates := body["duplicates"].([]interface{})
		require.Len(t, duplicates, 1)
	})

	t.Run("non-csv rejected", func(t *testing.T) {
		resp := importCSV(t, "products.txt", "whatever")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed csv rejected", func(t *testing.T) {
		resp := importCSV(t, "broken.csv", "name,unit\n\"unterminated")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing file rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/products/import", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestExportEndpoint(t *testing.T) {
	app := setupApp(t)

	t.Run("400 on empty store", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/products/export", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("csv attachment with fixed header", func(t *testing.T) {
		created := doJSON(t, app, http.MethodPost, "/api/products/", productPayload("Widget", 5))
		require.Equal(t, http.StatusCreated, created.StatusCode)

		resp := doJSON(t, app, http.MethodGet, "/api/products/export", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "ID,Name,Unit,Category,Brand,Stock,Status,Image", strings.TrimSpace(lines[0]))
		assert.Contains(t, lines[1], "Widget")
	})
}
