package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ReferenceKind describes one lookup table and the columns that point at it.
type ReferenceKind struct {
	Table  string
	Entity string
	usages []referenceUsage
}

type referenceUsage struct {
	table  string
	column string
}

var (
	ShipmentTypes = ReferenceKind{
		Table:  "shipment_types",
		Entity: "shipment type",
		usages: []referenceUsage{{"shipment_items", "shipment_type_id"}},
	}
	Departments = ReferenceKind{
		Table:  "departments",
		Entity: "department",
		usages: []referenceUsage{{"shipment_items", "department_id"}},
	}
	CarrierCompanies = ReferenceKind{
		Table:  "carrier_companies",
		Entity: "carrier company",
		usages: []referenceUsage{{"shipments", "carrier_company_id"}},
	}
	Governorates = ReferenceKind{
		Table:  "governorates",
		Entity: "governorate",
		usages: []referenceUsage{
			{"shipments", "from_governorate_id"},
			{"shipments", "to_governorate_id"},
		},
	}
)

// ReferenceRow has the column set shared by every lookup table.
type ReferenceRow struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReferenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) List(ctx context.Context, kind ReferenceKind) ([]ReferenceRow, error) {
	var rows []ReferenceRow
	err := r.db.WithContext(ctx).Table(kind.Table).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *ReferenceRepository) Get(ctx context.Context, kind ReferenceKind, id uint) (*ReferenceRow, error) {
	var row ReferenceRow
	if err := r.db.WithContext(ctx).Table(kind.Table).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// NameTaken reports whether another row of kind already uses name.
func (r *ReferenceRepository) NameTaken(ctx context.Context, kind ReferenceKind, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Table(kind.Table).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MissingIDs returns the ids of kind that have no row.
func (r *ReferenceRepository) MissingIDs(ctx context.Context, kind ReferenceKind, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	if err := r.db.WithContext(ctx).Table(kind.Table).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	present := make(map[uint]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	var missing []uint
	for _, id := range ids {
		if !present[id] {
			missing = append(missing, id)
			present[id] = true
		}
	}
	return missing, nil
}

func (r *ReferenceRepository) Create(ctx context.Context, kind ReferenceKind, name string) (*ReferenceRow, error) {
	row := ReferenceRow{Name: name}
	if err := r.db.WithContext(ctx).Table(kind.Table).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *ReferenceRepository) Rename(ctx context.Context, kind ReferenceKind, id uint, name string) error {
	res := r.db.WithContext(ctx).Table(kind.Table).Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// InUse reports whether any shipment or item still points at the row.
func (r *ReferenceRepository) InUse(ctx context.Context, kind ReferenceKind, id uint) (bool, error) {
	for _, u := range kind.usages {
		var count int64
		if err := r.db.WithContext(ctx).Table(u.table).Where(u.column+" = ?", id).Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *ReferenceRepository) Delete(ctx context.Context, kind ReferenceKind, id uint) error {
	res := r.db.WithContext(ctx).Table(kind.Table).Where("id = ?", id).Delete(&ReferenceRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
