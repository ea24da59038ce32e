package database

import (
	"errors"
	"jibal-shipping/logger"
	"jibal-shipping/models"

	"gorm.io/gorm"
)

var (
	defaultShipmentTypes = []string{"طرد", "صندوق", "كرتون", "كيس"}
	defaultDepartments   = []string{"المبيعات", "المخزن", "التوصيل", "خدمة العملاء"}
)

func RunSeeders(db *gorm.DB) error {
	if err := SeedShipmentTypes(db); err != nil {
		return err
	}
	return SeedDepartments(db)
}

func SeedShipmentTypes(db *gorm.DB) error {
	for _, name := range defaultShipmentTypes {
		var existing models.ShipmentType
		err := db.Where("name = ?", name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&models.ShipmentType{Name: name}).Error; err != nil {
			return err
		}
		logger.Debugw("seeded shipment type", "name", name)
	}
	return nil
}

func SeedDepartments(db *gorm.DB) error {
	for _, name := range defaultDepartments {
		var existing models.Department
		err := db.Where("name = ?", name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&models.Department{Name: name}).Error; err != nil {
			return err
		}
		logger.Debugw("seeded department", "name", name)
	}
	return nil
}
