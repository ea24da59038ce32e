package reports

import (
	"fmt"

	"jibal-shipping/services"
)

// Variant selects one of the two shipment report layouts.
type Variant int

const (
	// Monthly lists every shipment in range and marks those without items.
	Monthly Variant = iota
	// Filtered lists only shipments that still have items after the item filters.
	Filtered
)

const (
	MonthlyFileName  = "monthly_report.xlsx"
	FilteredFileName = "shipments_report.xlsx"
	AllDataFileName  = "all_data.xlsx"
)

const (
	reportLastCol   = 14
	detailsFirstCol = 8
	totalsLabelEnd  = 9
	dataFirstRow    = 4

	detailsHeader = "تفاصيل الشحنة"
	noItemsMarker = "لا يوجد بنود"
)

func (v Variant) Title() string {
	if v == Filtered {
		return "تقرير الشحنات"
	}
	return "تقرير الشحنات الشهري"
}

func (v Variant) TotalLabel() string {
	if v == Filtered {
		return "مجموع تكلفة النقل الكلية:"
	}
	return "المجموع الكلي:"
}

func (v Variant) FileName() string {
	if v == Filtered {
		return FilteredFileName
	}
	return MonthlyFileName
}

// numberedShipment pairs a shipment with its 1-based position in the report.
type numberedShipment struct {
	Seq int
	services.ReportShipment
}

var shipmentColumns = []Column[numberedShipment]{
	{Header: "#", Width: 5, Value: func(s numberedShipment) Cell { return Number(int64(s.Seq), StyleCell) }},
	{Header: "رقم شحنة شركة النقل", Width: 18, Value: func(s numberedShipment) Cell { return Text(s.ShopinyNumber, StyleCell) }},
	{Header: "تاريخ تسليم الشحنة", Width: 15, Value: func(s numberedShipment) Cell { return Text(formatDay(s.DeliveryDate), StyleCell) }},
	{Header: "رقم وصل شحن جبال", Width: 15, Value: func(s numberedShipment) Cell { return Text(s.ReceiptNumber, StyleCell) }},
	{Header: "رقم الأوردر", Width: 15, Value: func(s numberedShipment) Cell { return Text(s.OrderNumber, StyleCell) }},
	{Header: "من", Width: 13, Value: func(s numberedShipment) Cell { return Text(s.FromGovernorate, StyleCell) }},
	{Header: "إلى", Width: 13, Value: func(s numberedShipment) Cell { return Text(s.ToGovernorate, StyleCell) }},
	{Header: "الشركة الناقلة", Width: 13, Value: func(s numberedShipment) Cell { return Text(s.CarrierCompany, StyleCell) }},
}

var itemColumns = []Column[services.ReportItem]{
	{Header: "صنف الشحنة", Width: 13, Value: func(i services.ReportItem) Cell { return Text(i.ShipmentTypeName, StyleCell) }},
	{Header: "القسم", Width: 13, Value: func(i services.ReportItem) Cell { return Text(i.DepartmentName, StyleCell) }},
	{Header: "الكمية", Width: 13, Value: func(i services.ReportItem) Cell { return Number(i.Quantity, StyleCell) }},
	{Header: "التكلفة", Width: 13, Value: func(i services.ReportItem) Cell { return Number(i.Cost, StyleCell) }},
	{Header: "عدد الكراتين", Width: 13, Value: func(i services.ReportItem) Cell { return Number(i.BoxesCount, StyleCell) }},
	{Header: "كلفة الشحنة", Width: 13, Value: func(i services.ReportItem) Cell { return Text(FormatThousands(i.Total), StyleCell) }},
	{Header: "ملاحظات الشحنة", Width: 13, Value: func(i services.ReportItem) Cell { return Text(i.Notes, StyleCell) }},
}

// RenderShipmentReport lays report out as one right-to-left sheet: a title band, two
// header rows, one block per shipment with its columns merged down across its items,
// and a totals row.
func RenderShipmentReport(report *services.Report, variant Variant) *Sheet {
	if variant == Filtered {
		report = report.DropEmpty()
	}

	sheet := NewSheet(variant.Title())
	sheet.RightToLeft = true

	sheet.MergeRange(0, 0, 0, reportLastCol, Text(variant.Title(), StyleTitle))
	dateRange := fmt.Sprintf("من: %s   إلى: %s", report.Filter.FromLabel(), report.Filter.ToLabel())
	sheet.MergeRange(1, 0, 1, reportLastCol, Text(dateRange, StyleDateRange))

	for col, c := range shipmentColumns {
		sheet.Set(2, col, Text(c.Header, StyleHeader))
		sheet.ColumnWidths[col] = c.Width
	}
	sheet.MergeRange(2, detailsFirstCol, 2, reportLastCol, Text(detailsHeader, StyleDetailsHeader))
	for i, c := range itemColumns {
		sheet.Set(3, detailsFirstCol+i, Text(c.Header, StyleDetailsHeader))
		sheet.ColumnWidths[detailsFirstCol+i] = c.Width
	}

	row := dataFirstRow
	for n, shipment := range report.Shipments {
		numbered := numberedShipment{Seq: n + 1, ReportShipment: shipment}
		span := len(shipment.Items)
		if span == 0 {
			span = 1
		}

		for col, c := range shipmentColumns {
			sheet.MergeRange(row, col, row+span-1, col, c.Value(numbered))
		}

		if len(shipment.Items) == 0 {
			sheet.MergeRange(row, detailsFirstCol, row, reportLastCol, Text(noItemsMarker, StyleCell))
		}
		for i, item := range shipment.Items {
			for j, c := range itemColumns {
				sheet.Set(row+i, detailsFirstCol+j, c.Value(item))
			}
		}
		row += span
	}

	sheet.MergeRange(row, 0, row, totalsLabelEnd, Text(variant.TotalLabel(), StyleTotalLabel))
	sheet.Set(row, 10, Text(FormatThousands(report.Totals.Quantity), StyleTotalValue))
	sheet.Set(row, 11, Blank(StyleTotalValue))
	sheet.Set(row, 12, Text(FormatThousands(report.Totals.Boxes), StyleTotalValue))
	sheet.Set(row, 13, Text(FormatThousands(report.Totals.Cost), StyleTotalValue))
	sheet.Set(row, 14, Blank(StyleTotalValue))

	return sheet
}
