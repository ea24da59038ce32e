package models

import (
	"time"
)

type Shipment struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	ShopinyNumber     string         `json:"shopiny_number" gorm:"size:50;not null;uniqueIndex"`
	ReceiptNumber     *string        `json:"receipt_number" gorm:"size:50;uniqueIndex"`
	OrderNumber       string         `json:"order_number" gorm:"size:50"`
	DeliveryDate      time.Time      `json:"delivery_date" gorm:"not null;index"`
	FromGovernorateID uint           `json:"from_governorate_id" gorm:"not null;index"`
	ToGovernorateID   uint           `json:"to_governorate_id" gorm:"not null;index"`
	CarrierCompanyID  *uint          `json:"carrier_company_id" gorm:"index"`
	Notes             string         `json:"notes"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	Items             []ShipmentItem `json:"items" gorm:"foreignKey:ShipmentID;references:ID;constraint:OnDelete:CASCADE"`
}

// ShipmentItem is owned by its shipment. Total is written from the item's own fields at
// save time; readers recompute it.
type ShipmentItem struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	ShipmentID     uint   `json:"shipment_id" gorm:"not null;index"`
	ShipmentTypeID uint   `json:"shipment_type_id" gorm:"not null;index"`
	DepartmentID   uint   `json:"department_id" gorm:"not null;index"`
	Quantity       int64  `json:"quantity" gorm:"not null"`
	Cost           int64  `json:"cost" gorm:"not null"`
	BoxesCount     int64  `json:"boxes_count" gorm:"not null"`
	UseBoxes       bool   `json:"use_boxes" gorm:"not null;default:false"`
	Total          int64  `json:"total" gorm:"not null"`
	Notes          string `json:"notes"`
}
