package reports

import (
	"time"

	"jibal-shipping/models"
	"jibal-shipping/repositories"
)

const timestampLayout = "2006-01-02 15:04:05"

func idCell(id uint) Cell {
	return Number(int64(id), StyleNone)
}

func optionalIDCell(id *uint) Cell {
	if id == nil {
		return Blank(StyleNone)
	}
	return idCell(*id)
}

func textCell(s string) Cell {
	return Text(s, StyleNone)
}

func timeCell(t time.Time) Cell {
	if t.IsZero() {
		return Blank(StyleNone)
	}
	return Text(t.UTC().Format(timestampLayout), StyleNone)
}

func boolCell(b bool) Cell {
	if b {
		return Number(1, StyleNone)
	}
	return Number(0, StyleNone)
}

var shipmentTableColumns = []Column[models.Shipment]{
	{Header: "id", Value: func(s models.Shipment) Cell { return idCell(s.ID) }},
	{Header: "shopiny_number", Width: 18, Value: func(s models.Shipment) Cell { return textCell(s.ShopinyNumber) }},
	{Header: "receipt_number", Width: 15, Value: func(s models.Shipment) Cell {
		if s.ReceiptNumber == nil {
			return Blank(StyleNone)
		}
		return textCell(*s.ReceiptNumber)
	}},
	{Header: "order_number", Width: 15, Value: func(s models.Shipment) Cell { return textCell(s.OrderNumber) }},
	{Header: "delivery_date", Width: 20, Value: func(s models.Shipment) Cell { return timeCell(s.DeliveryDate) }},
	{Header: "from_governorate_id", Value: func(s models.Shipment) Cell { return idCell(s.FromGovernorateID) }},
	{Header: "to_governorate_id", Value: func(s models.Shipment) Cell { return idCell(s.ToGovernorateID) }},
	{Header: "carrier_company_id", Value: func(s models.Shipment) Cell { return optionalIDCell(s.CarrierCompanyID) }},
	{Header: "notes", Width: 30, Value: func(s models.Shipment) Cell { return textCell(s.Notes) }},
	{Header: "created_at", Width: 20, Value: func(s models.Shipment) Cell { return timeCell(s.CreatedAt) }},
	{Header: "updated_at", Width: 20, Value: func(s models.Shipment) Cell { return timeCell(s.UpdatedAt) }},
}

var shipmentItemTableColumns = []Column[models.ShipmentItem]{
	{Header: "id", Value: func(i models.ShipmentItem) Cell { return idCell(i.ID) }},
	{Header: "shipment_id", Value: func(i models.ShipmentItem) Cell { return idCell(i.ShipmentID) }},
	{Header: "shipment_type_id", Value: func(i models.ShipmentItem) Cell { return idCell(i.ShipmentTypeID) }},
	{Header: "department_id", Value: func(i models.ShipmentItem) Cell { return idCell(i.DepartmentID) }},
	{Header: "quantity", Value: func(i models.ShipmentItem) Cell { return Number(i.Quantity, StyleNone) }},
	{Header: "cost", Value: func(i models.ShipmentItem) Cell { return Number(i.Cost, StyleNone) }},
	{Header: "boxes_count", Value: func(i models.ShipmentItem) Cell { return Number(i.BoxesCount, StyleNone) }},
	{Header: "use_boxes", Value: func(i models.ShipmentItem) Cell { return boolCell(i.UseBoxes) }},
	{Header: "total", Value: func(i models.ShipmentItem) Cell { return Number(i.Total, StyleNone) }},
	{Header: "notes", Width: 30, Value: func(i models.ShipmentItem) Cell { return textCell(i.Notes) }},
}

// referenceColumns builds the id/name/timestamps layout shared by every lookup table.
func referenceColumns[T any](id func(T) uint, name func(T) string, created, updated func(T) time.Time) []Column[T] {
	return []Column[T]{
		{Header: "id", Value: func(r T) Cell { return idCell(id(r)) }},
		{Header: "name", Width: 20, Value: func(r T) Cell { return textCell(name(r)) }},
		{Header: "created_at", Width: 20, Value: func(r T) Cell { return timeCell(created(r)) }},
		{Header: "updated_at", Width: 20, Value: func(r T) Cell { return timeCell(updated(r)) }},
	}
}

var (
	shipmentTypeTableColumns = referenceColumns(
		func(r models.ShipmentType) uint { return r.ID },
		func(r models.ShipmentType) string { return r.Name },
		func(r models.ShipmentType) time.Time { return r.CreatedAt },
		func(r models.ShipmentType) time.Time { return r.UpdatedAt },
	)
	departmentTableColumns = referenceColumns(
		func(r models.Department) uint { return r.ID },
		func(r models.Department) string { return r.Name },
		func(r models.Department) time.Time { return r.CreatedAt },
		func(r models.Department) time.Time { return r.UpdatedAt },
	)
	carrierCompanyTableColumns = referenceColumns(
		func(r models.CarrierCompany) uint { return r.ID },
		func(r models.CarrierCompany) string { return r.Name },
		func(r models.CarrierCompany) time.Time { return r.CreatedAt },
		func(r models.CarrierCompany) time.Time { return r.UpdatedAt },
	)
	governorateTableColumns = referenceColumns(
		func(r models.Governorate) uint { return r.ID },
		func(r models.Governorate) string { return r.Name },
		func(r models.Governorate) time.Time { return r.CreatedAt },
		func(r models.Governorate) time.Time { return r.UpdatedAt },
	)
)

// RenderTables dumps every table to its own sheet, headers first, rows by id.
func RenderTables(dump *repositories.TableDump) *Workbook {
	book := &Workbook{}
	add := func(name string, fill func(*Sheet)) {
		sheet := NewSheet(name)
		fill(sheet)
		book.Sheets = append(book.Sheets, sheet)
	}

	add("shipment", func(s *Sheet) { writeTable(s, shipmentTableColumns, dump.Shipments) })
	add("shipment_item", func(s *Sheet) { writeTable(s, shipmentItemTableColumns, dump.ShipmentItems) })
	add("shipment_type", func(s *Sheet) { writeTable(s, shipmentTypeTableColumns, dump.ShipmentTypes) })
	add("department", func(s *Sheet) { writeTable(s, departmentTableColumns, dump.Departments) })
	add("carrier_company", func(s *Sheet) { writeTable(s, carrierCompanyTableColumns, dump.CarrierCompanies) })
	add("governorate", func(s *Sheet) { writeTable(s, governorateTableColumns, dump.Governorates) })
	return book
}
