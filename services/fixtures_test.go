package services

import (
	"testing"
	"time"

	"jibal-shipping/database"
	"jibal-shipping/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	cairo     uint
	giza      uint
	carrier   uint
	parcel    uint
	box       uint
	sales     uint
	warehouse uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f := &fixture{db: db}
	cairo := models.Governorate{Name: "CAI"}
	giza := models.Governorate{Name: "GIZ"}
	carrier := models.CarrierCompany{Name: "Aramex"}
	parcel := models.ShipmentType{Name: "طرد"}
	box := models.ShipmentType{Name: "صندوق"}
	sales := models.Department{Name: "المبيعات"}
	warehouse := models.Department{Name: "المخزن"}
	for _, row := range []interface{}{&cairo, &giza, &carrier, &parcel, &box, &sales, &warehouse} {
		require.NoError(t, db.Create(row).Error)
	}
	f.cairo, f.giza, f.carrier = cairo.ID, giza.ID, carrier.ID
	f.parcel, f.box = parcel.ID, box.ID
	f.sales, f.warehouse = sales.ID, warehouse.ID
	return f
}

func int64p(v int64) *int64 { return &v }

func (f *fixture) item(typeID, deptID uint, quantity, cost, boxes int64, useBoxes bool) ShipmentItemInput {
	return ShipmentItemInput{
		ShipmentTypeID: typeID,
		DepartmentID:   deptID,
		Quantity:       int64p(quantity),
		Cost:           int64p(cost),
		BoxesCount:     int64p(boxes),
		UseBoxes:       useBoxes,
	}
}

func (f *fixture) input(shopiny, date string, items ...ShipmentItemInput) ShipmentInput {
	return ShipmentInput{
		ShopinyNumber:     shopiny,
		DeliveryDate:      date,
		FromGovernorateID: f.cairo,
		ToGovernorateID:   f.giza,
		Items:             items,
	}
}

// insert writes a shipment row directly, bypassing the service.
func (f *fixture) insert(t *testing.T, shopiny, receipt string, date time.Time, carrier *uint, items ...models.ShipmentItem) models.Shipment {
	t.Helper()
	s := models.Shipment{
		ShopinyNumber:     shopiny,
		DeliveryDate:      date,
		FromGovernorateID: f.cairo,
		ToGovernorateID:   f.giza,
		CarrierCompanyID:  carrier,
		Items:             items,
	}
	if receipt != "" {
		s.ReceiptNumber = &receipt
	}
	require.NoError(t, f.db.Create(&s).Error)
	return s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
