package repositories

import (
	"context"
	"time"

	"jibal-shipping/models"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ShipmentRepository struct {
	db *gorm.DB
}

func NewShipmentRepository(db *gorm.DB) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *ShipmentRepository) WithTx(tx *gorm.DB) *ShipmentRepository {
	return &ShipmentRepository{db: tx}
}

// LastReceiptInScope returns the receipt number of the most recently inserted shipment
// leaving region with a delivery date in [from, to). Empty when there is none.
func (r *ShipmentRepository) LastReceiptInScope(ctx context.Context, region string, from, to time.Time) (string, error) {
	var receipts []string
	err := r.db.WithContext(ctx).
		Table("shipments AS s").
		Joins("JOIN governorates AS g ON g.id = s.from_governorate_id").
		Where("g.name = ?", region).
		Where("s.delivery_date >= ? AND s.delivery_date < ?", from, to).
		Where("s.receipt_number IS NOT NULL AND s.receipt_number <> ''").
		Order("s.id DESC").
		Limit(1).
		Pluck("s.receipt_number", &receipts).Error
	if err != nil || len(receipts) == 0 {
		return "", err
	}
	return receipts[0], nil
}

func (r *ShipmentRepository) ReceiptExists(ctx context.Context, code string) (bool, error) {
	return r.exists(ctx, "receipt_number", code, 0)
}

// ReceiptTaken is ReceiptExists ignoring the shipment being edited.
func (r *ShipmentRepository) ReceiptTaken(ctx context.Context, code string, excludeID uint) (bool, error) {
	return r.exists(ctx, "receipt_number", code, excludeID)
}

func (r *ShipmentRepository) ShopinyTaken(ctx context.Context, shopiny string, excludeID uint) (bool, error) {
	return r.exists(ctx, "shopiny_number", shopiny, excludeID)
}

func (r *ShipmentRepository) exists(ctx context.Context, column, value string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Shipment{}).Where(column+" = ?", value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the shipment together with its items.
func (r *ShipmentRepository) Create(ctx context.Context, shipment *models.Shipment) error {
	return r.db.WithContext(ctx).Create(shipment).Error
}

func (r *ShipmentRepository) GetByID(ctx context.Context, id uint) (*models.Shipment, error) {
	var shipment models.Shipment
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&shipment, id).Error
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

// UpdateScalars overwrites every scalar column of the shipment row.
func (r *ShipmentRepository) UpdateScalars(ctx context.Context, shipment *models.Shipment) error {
	return r.db.WithContext(ctx).
		Model(&models.Shipment{ID: shipment.ID}).
		Select("shopiny_number", "receipt_number", "order_number", "delivery_date",
			"from_governorate_id", "to_governorate_id", "carrier_company_id", "notes", "updated_at").
		Omit(clause.Associations).
		Updates(shipment).Error
}

// ReplaceItems deletes the shipment's items and inserts items in their place.
func (r *ShipmentRepository) ReplaceItems(ctx context.Context, shipmentID uint, items []models.ShipmentItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("shipment_id = ?", shipmentID).Delete(&models.ShipmentItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = 0
		items[i].ShipmentID = shipmentID
	}
	return db.Create(&items).Error
}

// Delete removes the shipment and its items. Items are deleted explicitly so drivers
// without enforced foreign keys behave the same.
func (r *ShipmentRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("shipment_id = ?", id).Delete(&models.ShipmentItem{}).Error; err != nil {
		return err
	}
	res := db.Delete(&models.Shipment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type ShipmentListFilter struct {
	FromGovernorateID uint
	ToGovernorateID   uint
	CarrierCompanyID  uint
	FilterField       string
	FilterValue       string
}

// searchableColumns are the only columns FilterField may name.
var searchableColumns = map[string]string{
	"shopiny_number": "s.shopiny_number",
	"receipt_number": "s.receipt_number",
	"order_number":   "s.order_number",
}

type ShipmentListRow struct {
	ID                uint      `json:"id"`
	ShopinyNumber     string    `json:"shopiny_number"`
	ReceiptNumber     string    `json:"receipt_number"`
	OrderNumber       string    `json:"order_number"`
	DeliveryDate      time.Time `json:"delivery_date"`
	FromGovernorateID uint      `json:"from_governorate_id"`
	FromGovernorate   string    `json:"from_governorate"`
	ToGovernorateID   uint      `json:"to_governorate_id"`
	ToGovernorate     string    `json:"to_governorate"`
	CarrierCompany    string    `json:"carrier_company"`
	Notes             string    `json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
}

// List returns shipments newest first with display names resolved.
func (r *ShipmentRepository) List(ctx context.Context, filter ShipmentListFilter) ([]ShipmentListRow, error) {
	q := sq.Select(
		"s.id", "s.shopiny_number", "COALESCE(s.receipt_number, '') AS receipt_number",
		"COALESCE(s.order_number, '') AS order_number", "s.delivery_date",
		"s.from_governorate_id", "COALESCE(g1.name, '') AS from_governorate",
		"s.to_governorate_id", "COALESCE(g2.name, '') AS to_governorate",
		"COALESCE(c.name, '') AS carrier_company", "COALESCE(s.notes, '') AS notes", "s.created_at",
	).
		From("shipments s").
		LeftJoin("governorates g1 ON g1.id = s.from_governorate_id").
		LeftJoin("governorates g2 ON g2.id = s.to_governorate_id").
		LeftJoin("carrier_companies c ON c.id = s.carrier_company_id").
		OrderBy("s.created_at DESC", "s.id DESC")

	if filter.FromGovernorateID != 0 {
		q = q.Where(sq.Eq{"s.from_governorate_id": filter.FromGovernorateID})
	}
	if filter.ToGovernorateID != 0 {
		q = q.Where(sq.Eq{"s.to_governorate_id": filter.ToGovernorateID})
	}
	if filter.CarrierCompanyID != 0 {
		q = q.Where(sq.Eq{"s.carrier_company_id": filter.CarrierCompanyID})
	}
	if column, ok := searchableColumns[filter.FilterField]; ok && filter.FilterValue != "" {
		q = q.Where(sq.Like{column: "%" + filter.FilterValue + "%"})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	var rows []ShipmentListRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ItemsFor returns the items of the given shipments ordered by insertion.
func (r *ShipmentRepository) ItemsFor(ctx context.Context, shipmentIDs []uint) ([]models.ShipmentItem, error) {
	var items []models.ShipmentItem
	if len(shipmentIDs) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).
		Where("shipment_id IN ?", shipmentIDs).
		Order("id ASC").
		Find(&items).Error
	return items, err
}
