package models

import (
	"jibal-shipping/idgen"
	"jibal-shipping/types"
	"time"

	"gorm.io/gorm"
)

type TransactionHistory struct {
	ID        types.SnowflakeID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	RefNo     string            `json:"ref_no" gorm:"size:50;index"`
	Status    string            `json:"status" gorm:"size:20"`
	Type      string            `json:"type" gorm:"size:30"`
	Detail    string            `json:"detail"`
	CreatedAt time.Time         `json:"created_at"`
	CreatedBy int               `json:"created_by"`
}

func (h *TransactionHistory) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == 0 {
		h.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}
