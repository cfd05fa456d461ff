package repository

import (
	"strings"

	"go-inventory-api/internal/model"

	"gorm.io/gorm"
)

// ListParams carries pagination, sorting, and filtering for product listing.
type ListParams struct {
	Page     int
	Limit    int
	Sort     string
	Order    string
	Category string
}

// sortColumns is the allow-list of sortable fields. Caller-supplied sort
// values never reach the ORDER BY clause directly; anything not in this
// map falls back to id ascending.
var sortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"unit":       "unit",
	"category":   "category",
	"brand":      "brand",
	"stock":      "stock",
	"status":     "status",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindByNameCI(name string) (*model.Product, error)
	UpdateFields(tx *gorm.DB, id uint, fields map[string]interface{}) error
	Delete(tx *gorm.DB, id uint) (int64, error)
	List(params ListParams) ([]model.Product, int64, error)
	Search(name string) ([]model.Product, error)
	FindAllOrderedByID() ([]model.Product, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByNameCI matches a product name case-insensitively.
func (r *productRepo) FindByNameCI(name string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "LOWER(name) = LOWER(?)", name).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateFields menerima *gorm.DB (tx) agar bisa berjalan dalam transaksi
func (r *productRepo) UpdateFields(tx *gorm.DB, id uint, fields map[string]interface{}) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *productRepo) Delete(tx *gorm.DB, id uint) (int64, error) {
	res := tx.Delete(&model.Product{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *productRepo) List(params ListParams) ([]model.Product, int64, error) {
	filtered := func() *gorm.DB {
		q := r.db.Model(&model.Product{})
		if params.Category != "" {
			q = q.Where("category = ?", params.Category)
		}
		return q
	}

	// Total dihitung atas filter saja, tanpa pagination
	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[params.Sort]
	direction := "ASC"
	if !ok {
		column = "id"
	} else if strings.EqualFold(params.Order, "desc") {
		direction = "DESC"
	}

	var products []model.Product
	err := filtered().
		Order(column + " " + direction).
		Limit(params.Limit).
		Offset((params.Page - 1) * params.Limit).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) Search(name string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.
		Where("LOWER(name) LIKE LOWER(?)", "%"+name+"%").
		Order("name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) FindAllOrderedByID() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("id ASC").Find(&products).Error
	return products, err
}
