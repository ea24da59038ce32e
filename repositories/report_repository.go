package repositories

import (
	"context"
	"database/sql"
	"time"

	"jibal-shipping/models"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db}
}

// ReportShipmentQuery selects shipments by delivery day and carrier name. Zero values
// leave a bound open.
type ReportShipmentQuery struct {
	From    time.Time
	To      time.Time
	Carrier string
}

type ReportShipmentRow struct {
	ID              uint
	ShopinyNumber   string
	ReceiptNumber   string
	OrderNumber     string
	DeliveryDate    time.Time
	FromGovernorate string
	ToGovernorate   string
	CarrierCompany  string
	Notes           string
}

// ReportItemRow keeps numeric columns as the driver returned them so a malformed value
// affects only its own row.
type ReportItemRow struct {
	ID               uint
	ShipmentID       uint
	ShipmentTypeName string
	DepartmentName   string
	Quantity         string
	Cost             string
	BoxesCount       string
	UseBoxes         bool
	Notes            string
}

// Shipments returns matching shipments, oldest delivery first.
func (r *ReportRepository) Shipments(ctx context.Context, q ReportShipmentQuery) ([]ReportShipmentRow, error) {
	builder := sq.Select(
		"s.id", "s.shopiny_number", "COALESCE(s.receipt_number, '') AS receipt_number",
		"COALESCE(s.order_number, '') AS order_number", "s.delivery_date",
		"COALESCE(g1.name, '') AS from_governorate", "COALESCE(g2.name, '') AS to_governorate",
		"COALESCE(c.name, '') AS carrier_company", "COALESCE(s.notes, '') AS notes",
	).
		From("shipments s").
		LeftJoin("governorates g1 ON g1.id = s.from_governorate_id").
		LeftJoin("governorates g2 ON g2.id = s.to_governorate_id").
		LeftJoin("carrier_companies c ON c.id = s.carrier_company_id").
		OrderBy("s.delivery_date ASC", "s.id ASC")

	if !q.From.IsZero() {
		builder = builder.Where(sq.GtOrEq{"s.delivery_date": dayStart(q.From)})
	}
	if !q.To.IsZero() {
		builder = builder.Where(sq.Lt{"s.delivery_date": dayStart(q.To).AddDate(0, 0, 1)})
	}
	if q.Carrier != "" {
		builder = builder.Where(sq.Eq{"c.name": q.Carrier})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var rows []ReportShipmentRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Items returns the items of shipmentIDs in insertion order, optionally restricted to
// one shipment type and one department.
func (r *ReportRepository) Items(ctx context.Context, shipmentIDs []uint, shipmentTypeID, departmentID uint) ([]ReportItemRow, error) {
	if len(shipmentIDs) == 0 {
		return nil, nil
	}

	builder := sq.Select(
		"si.id", "si.shipment_id", "st.name", "d.name",
		"si.quantity", "si.cost", "si.boxes_count", "si.use_boxes", "si.notes",
	).
		From("shipment_items si").
		LeftJoin("shipment_types st ON st.id = si.shipment_type_id").
		LeftJoin("departments d ON d.id = si.department_id").
		Where(sq.Eq{"si.shipment_id": shipmentIDs}).
		OrderBy("si.id ASC")

	if shipmentTypeID != 0 {
		builder = builder.Where(sq.Eq{"si.shipment_type_id": shipmentTypeID})
	}
	if departmentID != 0 {
		builder = builder.Where(sq.Eq{"si.department_id": departmentID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ReportItemRow
	for rows.Next() {
		var (
			item                      ReportItemRow
			typeName, deptName, notes sql.NullString
			quantity, cost, boxes     sql.NullString
			useBoxes                  sql.NullBool
		)
		if err := rows.Scan(&item.ID, &item.ShipmentID, &typeName, &deptName,
			&quantity, &cost, &boxes, &useBoxes, &notes); err != nil {
			return nil, err
		}
		item.ShipmentTypeName = typeName.String
		item.DepartmentName = deptName.String
		item.Quantity = quantity.String
		item.Cost = cost.String
		item.BoxesCount = boxes.String
		item.UseBoxes = useBoxes.Bool
		item.Notes = notes.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// TableDump is every row of every table, for the full export.
type TableDump struct {
	Shipments        []models.Shipment
	ShipmentItems    []models.ShipmentItem
	ShipmentTypes    []models.ShipmentType
	Departments      []models.Department
	CarrierCompanies []models.CarrierCompany
	Governorates     []models.Governorate
}

func (r *ReportRepository) DumpTables(ctx context.Context) (*TableDump, error) {
	db := r.db.WithContext(ctx)
	dump := &TableDump{}
	for _, dest := range []interface{}{
		&dump.Shipments, &dump.ShipmentItems, &dump.ShipmentTypes,
		&dump.Departments, &dump.CarrierCompanies, &dump.Governorates,
	} {
		if err := db.Order("id ASC").Find(dest).Error; err != nil {
			return nil, err
		}
	}
	return dump, nil
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
