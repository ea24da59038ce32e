package services

import (
	"context"
	"time"

	"jibal-shipping/logger"
	"jibal-shipping/repositories"
)

// ReportFilter selects what a report covers. A zero From or To leaves that side open;
// zero ids and an empty carrier mean no restriction.
type ReportFilter struct {
	From           time.Time
	To             time.Time
	Carrier        string
	ShipmentTypeID uint
	DepartmentID   uint
}

// DatesOnly keeps the date range and drops every other restriction.
func (f ReportFilter) DatesOnly() ReportFilter {
	return ReportFilter{From: f.From, To: f.To}
}

// FromLabel and ToLabel format the bounds for display, "-" when open.
func (f ReportFilter) FromLabel() string { return dateLabel(f.From) }
func (f ReportFilter) ToLabel() string { return dateLabel(f.To) }

func dateLabel(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(calendarDateLayout)
}

type ReportItem struct {
	ID               uint   `json:"id"`
	ShipmentTypeName string `json:"shipment_type_name"`
	DepartmentName   string `json:"department_name"`
	Quantity         int64  `json:"quantity"`
	Cost             int64  `json:"cost"`
	BoxesCount       int64  `json:"boxes_count"`
	UseBoxes         bool   `json:"use_boxes"`
	Total            int64  `json:"total"`
	Notes            string `json:"notes"`
}

type ReportShipment struct {
	ID              uint         `json:"id"`
	ShopinyNumber   string       `json:"shopiny_number"`
	ReceiptNumber   string       `json:"receipt_number"`
	OrderNumber     string       `json:"order_number"`
	DeliveryDate    time.Time    `json:"delivery_date"`
	FromGovernorate string       `json:"from_governorate"`
	ToGovernorate   string       `json:"to_governorate"`
	CarrierCompany  string       `json:"carrier_company"`
	Notes           string       `json:"notes"`
	Items           []ReportItem `json:"items"`
	TotalCost       int64        `json:"total_cost"`
}

type ReportTotals struct {
	Quantity int64 `json:"quantity"`
	Boxes    int64 `json:"boxes"`
	Cost     int64 `json:"cost"`
}

// SkippedItem is an item left out of a report because its numbers could not be read.
type SkippedItem struct {
	ItemID     uint   `json:"item_id"`
	ShipmentID uint   `json:"shipment_id"`
	Reason     string `json:"reason"`
}

type Report struct {
	Filter    ReportFilter     `json:"-"`
	Shipments []ReportShipment `json:"shipments"`
	Totals    ReportTotals     `json:"totals"`
	Skipped   []SkippedItem    `json:"skipped,omitempty"`
}

// DropEmpty returns a copy without shipments that have no items. Totals are unchanged
// since empty shipments contribute nothing.
func (r *Report) DropEmpty() *Report {
	out := *r
	out.Shipments = make([]ReportShipment, 0, len(r.Shipments))
	for _, s := range r.Shipments {
		if len(s.Items) > 0 {
			out.Shipments = append(out.Shipments, s)
		}
	}
	return &out
}

// ItemCount is the number of items across all shipments.
func (r *Report) ItemCount() int {
	n := 0
	for _, s := range r.Shipments {
		n += len(s.Items)
	}
	return n
}

type ReportService struct {
	repo *repositories.ReportRepository
}

func NewReportService(repo *repositories.ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

// Aggregate groups the items of every shipment matching filter under their shipment and
// totals them. Shipments come oldest delivery first; items keep insertion order.
func (s *ReportService) Aggregate(ctx context.Context, filter ReportFilter) (*Report, error) {
	rows, err := s.repo.Shipments(ctx, repositories.ReportShipmentQuery{
		From:    filter.From,
		To:      filter.To,
		Carrier: filter.Carrier,
	})
	if err != nil {
		return nil, err
	}

	report := &Report{Filter: filter, Shipments: make([]ReportShipment, 0, len(rows))}
	index := make(map[uint]int, len(rows))
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		if _, seen := index[row.ID]; seen {
			continue
		}
		index[row.ID] = len(report.Shipments)
		ids = append(ids, row.ID)
		report.Shipments = append(report.Shipments, ReportShipment{
			ID:              row.ID,
			ShopinyNumber:   row.ShopinyNumber,
			ReceiptNumber:   row.ReceiptNumber,
			OrderNumber:     row.OrderNumber,
			DeliveryDate:    row.DeliveryDate,
			FromGovernorate: row.FromGovernorate,
			ToGovernorate:   row.ToGovernorate,
			CarrierCompany:  row.CarrierCompany,
			Notes:           row.Notes,
			Items:           []ReportItem{},
		})
	}

	items, err := s.repo.Items(ctx, ids, filter.ShipmentTypeID, filter.DepartmentID)
	if err != nil {
		return nil, err
	}

	for _, row := range items {
		pos, ok := index[row.ShipmentID]
		if !ok {
			continue
		}
		line, err := ParseLineItem(row.Quantity, row.Cost, row.BoxesCount, row.UseBoxes)
		if err != nil {
			logger.Warnw("skipping malformed shipment item", "item_id", row.ID, "shipment_id", row.ShipmentID, "error", err)
			report.Skipped = append(report.Skipped, SkippedItem{ItemID: row.ID, ShipmentID: row.ShipmentID, Reason: err.Error()})
			continue
		}

		item := ReportItem{
			ID:               row.ID,
			ShipmentTypeName: row.ShipmentTypeName,
			DepartmentName:   row.DepartmentName,
			Quantity:         line.Quantity,
			Cost:             line.Cost,
			BoxesCount:       line.BoxesCount,
			UseBoxes:         line.UseBoxes,
			Total:            line.Total(),
			Notes:            row.Notes,
		}
		shipment := &report.Shipments[pos]
		shipment.Items = append(shipment.Items, item)
		shipment.TotalCost += item.Total

		report.Totals.Quantity += item.Quantity
		report.Totals.Boxes += item.BoxesCount
		report.Totals.Cost += item.Total
	}

	return report, nil
}

// DumpTables reads every table for the full export.
func (s *ReportService) DumpTables(ctx context.Context) (*repositories.TableDump, error) {
	return s.repo.DumpTables(ctx)
}
