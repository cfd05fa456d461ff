package service

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/ws"
	"go-inventory-api/pkg/metrics"
	"go-inventory-api/pkg/validator"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProductService interface {
	CreateProduct(req *model.CreateProductRequest) (*model.Product, error)
	GetProduct(id uint) (*model.Product, error)
	UpdateProduct(id uint, req *model.UpdateProductRequest) (*model.Product, error)
	DeleteProduct(id uint) error
	ListProducts(params repository.ListParams) ([]model.Product, int64, error)
	SearchProducts(name string) ([]model.Product, error)
	GetHistory(productID uint) ([]model.HistoryRecord, error)
	ImportProducts(rows []model.ImportRow) (*model.ImportResult, error)
	ExportProducts() ([]model.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
	historyRepo repository.HistoryRepository
	db          *gorm.DB
	wsHub       *ws.Hub
	log         *zap.Logger
}

func NewProductService(pRepo repository.ProductRepository, hRepo repository.HistoryRepository, db *gorm.DB, hub *ws.Hub, log *zap.Logger) ProductService {
	return &productService{
		productRepo: pRepo,
		historyRepo: hRepo,
		db:          db,
		wsHub:       hub,
		log:         log,
	}
}

func (s *productService) CreateProduct(req *model.CreateProductRequest) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	// Cek duplikasi nama (case-insensitive)
	if _, err := s.productRepo.FindByNameCI(req.Name); err == nil {
		return nil, ErrDuplicateName
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	product := &model.Product{
		Name:     req.Name,
		Unit:     req.Unit,
		Category: req.Category,
		Brand:    req.Brand,
		Stock:    *req.Stock,
		Status:   req.Status,
		Image:    req.Image,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	metrics.RecordProductOperation("create")
	metrics.SetProductStock(product.ID, product.Category, product.Stock)
	s.broadcast(ws.StockEvent{
		Action:    "product_created",
		ProductID: product.ID,
		Name:      product.Name,
		OldStock:  0,
		NewStock:  product.Stock,
		ChangedBy: model.DefaultActor,
	})
	return product, nil
}

func (s *productService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return product, err
}

// UpdateProduct applies the supplied fields inside one transaction and,
// when the stock value actually changed, appends exactly one history
// record after the commit. The append is best-effort: a ledger failure is
// logged but never rolls back or fails the primary mutation.
func (s *productService) UpdateProduct(id uint, req *model.UpdateProductRequest) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	var updated model.Product
	var oldStock int

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		oldStock = existing.Stock

		if req.Name != nil {
			var dup model.Product
			err := tx.First(&dup, "LOWER(name) = LOWER(?) AND id <> ?", *req.Name, id).Error
			if err == nil {
				return ErrDuplicateName
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		// updated_at selalu direfresh, apapun field yang berubah
		fields := map[string]interface{}{"updated_at": time.Now()}
		if req.Name != nil {
			fields["name"] = *req.Name
		}
		if req.Unit != nil {
			fields["unit"] = *req.Unit
		}
		if req.Category != nil {
			fields["category"] = *req.Category
		}
		if req.Brand != nil {
			fields["brand"] = *req.Brand
		}
		if req.Stock != nil {
			fields["stock"] = *req.Stock
		}
		if req.Status != nil {
			fields["status"] = *req.Status
		}
		if req.Image != nil {
			fields["image"] = *req.Image
		}

		if err := s.productRepo.UpdateFields(tx, id, fields); err != nil {
			return err
		}
		return tx.First(&updated, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordProductOperation("update")
	metrics.SetProductStock(updated.ID, updated.Category, updated.Stock)

	if req.Stock != nil && *req.Stock != oldStock {
		record := &model.HistoryRecord{
			ProductID: id,
			OldStock:  oldStock,
			NewStock:  *req.Stock,
			ChangedBy: model.DefaultActor,
		}
		if err := s.historyRepo.Append(record); err != nil {
			s.log.Error("failed to append inventory history",
				zap.Uint("product_id", id),
				zap.Int("old_stock", oldStock),
				zap.Int("new_stock", *req.Stock),
				zap.Error(err))
		}
		s.broadcast(ws.StockEvent{
			Action:    "product_updated",
			ProductID: updated.ID,
			Name:      updated.Name,
			OldStock:  oldStock,
			NewStock:  updated.Stock,
			ChangedBy: model.DefaultActor,
		})
	}

	return &updated, nil
}

// DeleteProduct removes the product and its history rows in one
// transaction; the cascade is part of the same logical operation.
func (s *productService) DeleteProduct(id uint) error {
	var deleted model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&deleted, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if err := s.historyRepo.DeleteByProduct(tx, id); err != nil {
			return err
		}
		rows, err := s.productRepo.Delete(tx, id)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrProductNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecordProductOperation("delete")
	metrics.RemoveProductStock(deleted.ID, deleted.Category)
	s.broadcast(ws.StockEvent{
		Action:    "product_deleted",
		ProductID: deleted.ID,
		Name:      deleted.Name,
		OldStock:  deleted.Stock,
		NewStock:  0,
		ChangedBy: model.DefaultActor,
	})
	return nil
}

func (s *productService) ListProducts(params repository.ListParams) ([]model.Product, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 10
	}
	return s.productRepo.List(params)
}

// SearchProducts matches names case-insensitively. A blank query returns
// an empty result, not the whole store.
func (s *productService) SearchProducts(name string) ([]model.Product, error) {
	if strings.TrimSpace(name) == "" {
		return []model.Product{}, nil
	}
	return s.productRepo.Search(name)
}

func (s *productService) GetHistory(productID uint) ([]model.HistoryRecord, error) {
	return s.historyRepo.FindByProduct(productID)
}

// ImportProducts processes rows strictly in order so duplicate detection
// sees products created by earlier rows of the same batch.
func (s *productService) ImportProducts(rows []model.ImportRow) (*model.ImportResult, error) {
	result := &model.ImportResult{Duplicates: []model.DuplicateEntry{}}

	for _, row := range rows {
		if row.Name == "" || row.Unit == "" || row.Category == "" || row.Brand == "" {
			result.Skipped++
			continue
		}

		existing, err := s.productRepo.FindByNameCI(row.Name)
		if err == nil {
			result.Skipped++
			result.Duplicates = append(result.Duplicates, model.DuplicateEntry{
				Name:       row.Name,
				ExistingID: existing.ID,
			})
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		stock, err := strconv.Atoi(strings.TrimSpace(row.Stock))
		if err != nil || stock < 0 {
			stock = 0
		}
		status := row.Status
		if status == "" {
			if stock > 0 {
				status = "In Stock"
			} else {
				status = "Out of Stock"
			}
		}
		var image *string
		if row.Image != "" {
			image = &row.Image
		}

		product := &model.Product{
			Name:     row.Name,
			Unit:     row.Unit,
			Category: row.Category,
			Brand:    row.Brand,
			Stock:    stock,
			Status:   status,
			Image:    image,
		}
		if err := s.productRepo.Create(product); err != nil {
			s.log.Warn("import row insert failed", zap.String("name", row.Name), zap.Error(err))
			result.Skipped++
			continue
		}
		result.Added++
		metrics.SetProductStock(product.ID, product.Category, product.Stock)
	}

	metrics.RecordProductOperation("import")
	return result, nil
}

func (s *productService) ExportProducts() ([]model.Product, error) {
	products, err := s.productRepo.FindAllOrderedByID()
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNoProducts
	}
	metrics.RecordProductOperation("export")
	return products, nil
}

func (s *productService) broadcast(event ws.StockEvent) {
	if s.wsHub != nil {
		s.wsHub.BroadcastEvent(event)
	}
}
