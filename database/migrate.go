package database

import (
	"jibal-shipping/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Governorate{},
		&models.CarrierCompany{},
		&models.ShipmentType{},
		&models.Department{},
		&models.Shipment{},
		&models.ShipmentItem{},
		&models.TransactionHistory{},
	)
}
