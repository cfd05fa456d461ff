package repository

import (
	"go-inventory-api/internal/model"

	"gorm.io/gorm"
)

type HistoryRepository interface {
	Append(record *model.HistoryRecord) error
	FindByProduct(productID uint) ([]model.HistoryRecord, error)
	DeleteByProduct(tx *gorm.DB, productID uint) error
}

type historyRepo struct {
	db *gorm.DB
}

func NewHistoryRepo(db *gorm.DB) HistoryRepository {
	return &historyRepo{db}
}

// Append is a pure insert; history rows are never updated.
func (r *historyRepo) Append(record *model.HistoryRecord) error {
	return r.db.Create(record).Error
}

func (r *historyRepo) FindByProduct(productID uint) ([]model.HistoryRecord, error) {
	var records []model.HistoryRecord
	err := r.db.
		Where("product_id = ?", productID).
		Order("timestamp DESC, id DESC").
		Find(&records).Error
	return records, err
}

// DeleteByProduct menerima *gorm.DB (tx) agar cascade berjalan dalam
// transaksi yang sama dengan penghapusan product.
func (r *historyRepo) DeleteByProduct(tx *gorm.DB, productID uint) error {
	return tx.Delete(&model.HistoryRecord{}, "product_id = ?", productID).Error
}
