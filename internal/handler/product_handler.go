package handler

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

// Helper untuk parse product ID dari path param
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// respondError maps service errors onto the HTTP taxonomy:
// validation 400, duplicate 409, not found 404, anything else 500.
func respondError(c *fiber.Ctx, err error) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ve.Fields})
	case errors.Is(err, service.ErrDuplicateName):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Product name already exists"})
	case errors.Is(err, service.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	params := repository.ListParams{
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 10),
		Sort:     c.Query("sort", "id"),
		Order:    c.Query("order", "asc"),
		Category: c.Query("category"),
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 10
	}

	products, total, err := h.service.ListProducts(params)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": products,
		"pagination": model.Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
			Pages: int(math.Ceil(float64(total) / float64(params.Limit))),
		},
	})
}

func (h *ProductHandler) SearchProducts(c *fiber.Ctx) error {
	products, err := h.service.SearchProducts(c.Query("name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": products})
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	product, err := h.service.GetProduct(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) GetHistory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	records, err := h.service.GetHistory(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": records})
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req model.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	product, err := h.service.CreateProduct(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	var req model.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	product, err := h.service.UpdateProduct(id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	if err := h.service.DeleteProduct(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully", "id": id})
}

// ImportProducts reads a CSV upload (multipart field "csvFile") and hands
// the raw rows to the service. Only a parse failure aborts the batch.
func (h *ProductHandler) ImportProducts(c *fiber.Ctx) error {
	file, err := c.FormFile("csvFile")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file uploaded"})
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".csv") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only CSV files are allowed"})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Error parsing CSV file"})
	}
	defer src.Close()

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Error parsing CSV file"})
	}

	rows := rowsFromRecords(records)
	result, err := h.service.ImportProducts(rows)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"added":      result.Added,
		"skipped":    result.Skipped,
		"duplicates": result.Duplicates,
		"message":    fmt.Sprintf("Import complete: %d added, %d skipped", result.Added, result.Skipped),
	})
}

// rowsFromRecords maps CSV records to import rows using the header line
// (name, unit, category, brand, stock, status, image in any order).
func rowsFromRecords(records [][]string) []model.ImportRow {
	if len(records) < 2 {
		return nil
	}

	columns := map[string]int{}
	for i, name := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	rows := make([]model.ImportRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, model.ImportRow{
			Name:     field(record, "name"),
			Unit:     field(record, "unit"),
			Category: field(record, "category"),
			Brand:    field(record, "brand"),
			Stock:    field(record, "stock"),
			Status:   field(record, "status"),
			Image:    field(record, "image"),
		})
	}
	return rows
}

func (h *ProductHandler) ExportProducts(c *fiber.Ctx) error {
	products, err := h.service.ExportProducts()
	if err != nil {
		if errors.Is(err, service.ErrNoProducts) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No products to export"})
		}
		return respondError(c, err)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Write([]string{"ID", "Name", "Unit", "Category", "Brand", "Stock", "Status", "Image"})
	for _, p := range products {
		image := ""
		if p.Image != nil {
			image = *p.Image
		}
		writer.Write([]string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Name,
			p.Unit,
			p.Category,
			p.Brand,
			strconv.Itoa(p.Stock),
			p.Status,
			image,
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="products-%d.csv"`, time.Now().UnixMilli()))
	return c.Send(buf.Bytes())
}
