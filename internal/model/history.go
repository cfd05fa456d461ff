package model

import "time"

// DefaultActor is recorded on history rows when no actor is supplied.
const DefaultActor = "admin"

// HistoryRecord is an immutable audit row capturing one stock transition.
// Rows are only ever appended, and removed together with their parent product.
type HistoryRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	OldStock  int       `json:"old_stock"`
	NewStock  int       `json:"new_stock"`
	ChangedBy string    `gorm:"type:varchar(100);not null" json:"changed_by"`
	Timestamp time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

func (HistoryRecord) TableName() string {
	return "inventory_history"
}
