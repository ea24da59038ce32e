package repositories

import (
	"jibal-shipping/models"
	"time"

	"gorm.io/gorm"
)

const (
	HistoryCreated = "created"
	HistoryUpdated = "updated"
	HistoryDeleted = "deleted"
)

// InsertTransactionHistory records one change to a shipment. Pass the transaction that
// carries the change so both commit or roll back together.
func InsertTransactionHistory(db *gorm.DB, refNo, status, detail string, actor int) error {
	history := models.TransactionHistory{
		RefNo:     refNo,
		Status:    status,
		Type:      "shipment",
		Detail:    detail,
		CreatedAt: time.Now(),
		CreatedBy: actor,
	}
	return db.Create(&history).Error
}

func HistoryFor(db *gorm.DB, refNo string) ([]models.TransactionHistory, error) {
	var out []models.TransactionHistory
	err := db.Where("ref_no = ?", refNo).Order("id ASC").Find(&out).Error
	return out, err
}
