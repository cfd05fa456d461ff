package model

import "time"

type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Unit      string    `gorm:"type:varchar(50);not null" json:"unit" validate:"required"`
	Category  string    `gorm:"type:varchar(100);not null" json:"category" validate:"required"`
	Brand     string    `gorm:"type:varchar(100);not null" json:"brand" validate:"required"`
	Stock     int       `gorm:"not null;default:0" json:"stock" validate:"gte=0"`
	Status    string    `gorm:"type:varchar(50);not null" json:"status" validate:"required"`
	Image     *string   `gorm:"type:text" json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relasi
	History []HistoryRecord `gorm:"foreignKey:ProductID" json:"history,omitempty"`
}
