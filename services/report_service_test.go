package services

import (
	"context"
	"testing"
	"time"

	"jibal-shipping/models"
	"jibal-shipping/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportService(f *fixture) *ReportService {
	return NewReportService(repositories.NewReportRepository(f.db))
}

func lineItem(typeID, deptID uint, quantity, cost, boxes int64, useBoxes bool) models.ShipmentItem {
	return models.ShipmentItem{
		ShipmentTypeID: typeID,
		DepartmentID:   deptID,
		Quantity:       quantity,
		Cost:           cost,
		BoxesCount:     boxes,
		UseBoxes:       useBoxes,
	}
}

func TestAggregateTwoShipments(t *testing.T) {
	f := newFixture(t)
	f.insert(t, "A", "CAI24030001", day(2024, time.March, 1), nil,
		lineItem(f.parcel, f.sales, 10, 5, 2, false))
	f.insert(t, "B", "CAI24030002", day(2024, time.March, 2), nil,
		lineItem(f.box, f.warehouse, 10, 25, 2, true))

	report, err := newReportService(f).Aggregate(context.Background(), ReportFilter{
		From: day(2024, time.March, 1),
		To:   day(2024, time.March, 31),
	})

	require.NoError(t, err)
	require.Len(t, report.Shipments, 2)
	assert.Equal(t, "A", report.Shipments[0].ShopinyNumber)
	assert.Equal(t, int64(50), report.Shipments[0].TotalCost)
	assert.Equal(t, int64(50), report.Shipments[1].TotalCost)
	assert.Equal(t, ReportTotals{Quantity: 20, Boxes: 4, Cost: 100}, report.Totals)
	assert.Equal(t, "طرد", report.Shipments[0].Items[0].ShipmentTypeName)
	assert.Equal(t, "CAI", report.Shipments[0].FromGovernorate)
}

func TestAggregateIgnoresPersistedTotal(t *testing.T) {
	f := newFixture(t)
	stale := lineItem(f.parcel, f.sales, 10, 5, 2, false)
	stale.Total = 999
	f.insert(t, "A", "", day(2024, time.March, 1), nil, stale)

	report, err := newReportService(f).Aggregate(context.Background(), ReportFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(50), report.Totals.Cost)
}

func TestAggregateOrdersByDeliveryDate(t *testing.T) {
	f := newFixture(t)
	f.insert(t, "late", "", day(2024, time.March, 20), nil)
	f.insert(t, "early", "", day(2024, time.March, 5), nil)
	f.insert(t, "same-day", "", day(2024, time.March, 20), nil)

	report, err := newReportService(f).Aggregate(context.Background(), ReportFilter{})

	require.NoError(t, err)
	var got []string
	for _, s := range report.Shipments {
		got = append(got, s.ShopinyNumber)
	}
	assert.Equal(t, []string{"early", "late", "same-day"}, got)
}

func TestAggregateDateBoundsAreInclusive(t *testing.T) {
	f := newFixture(t)
	f.insert(t, "before", "", day(2024, time.February, 29), nil)
	f.insert(t, "first", "", day(2024, time.March, 1), nil)
	f.insert(t, "last", "", time.Date(2024, time.March, 31, 18, 0, 0, 0, time.UTC), nil)
	f.insert(t, "after", "", day(2024, time.April, 1), nil)
	svc := newReportService(f)

	report, err := svc.Aggregate(context.Background(), ReportFilter{From: day(2024, time.March, 1), To: day(2024, time.March, 31)})
	require.NoError(t, err)
	require.Len(t, report.Shipments, 2)
	assert.Equal(t, "first", report.Shipments[0].ShopinyNumber)
	assert.Equal(t, "last", report.Shipments[1].ShopinyNumber)

	openStart, err := svc.Aggregate(context.Background(), ReportFilter{To: day(2024, time.March, 1)})
	require.NoError(t, err)
	assert.Len(t, openStart.Shipments, 2)
}

func TestAggregateFilters(t *testing.T) {
	f := newFixture(t)
	carrier := f.carrier
	f.insert(t, "carried", "", day(2024, time.March, 1), &carrier,
		lineItem(f.parcel, f.sales, 1, 10, 0, false),
		lineItem(f.box, f.warehouse, 2, 10, 0, false))
	f.insert(t, "plain", "", day(2024, time.March, 2), nil,
		lineItem(f.parcel, f.sales, 3, 10, 0, false))
	svc := newReportService(f)
	ctx := context.Background()

	byCarrier, err := svc.Aggregate(ctx, ReportFilter{Carrier: "Aramex"})
	require.NoError(t, err)
	require.Len(t, byCarrier.Shipments, 1)
	assert.Equal(t, "carried", byCarrier.Shipments[0].ShopinyNumber)
	assert.Equal(t, "Aramex", byCarrier.Shipments[0].CarrierCompany)

	byType, err := svc.Aggregate(ctx, ReportFilter{ShipmentTypeID: f.box})
	require.NoError(t, err)
	require.Len(t, byType.Shipments, 2)
	assert.Len(t, byType.Shipments[0].Items, 1)
	assert.Empty(t, byType.Shipments[1].Items)
	assert.Equal(t, ReportTotals{Quantity: 2, Cost: 20}, byType.Totals)

	filtered := byType.DropEmpty()
	require.Len(t, filtered.Shipments, 1)
	assert.Equal(t, "carried", filtered.Shipments[0].ShopinyNumber)
	assert.Equal(t, byType.Totals, filtered.Totals)
	assert.Len(t, byType.Shipments, 2, "DropEmpty must not modify its receiver")
}

func TestAggregateSkipsMalformedItems(t *testing.T) {
	f := newFixture(t)
	s := f.insert(t, "A", "", day(2024, time.March, 1), nil,
		lineItem(f.parcel, f.sales, 10, 5, 0, false),
		lineItem(f.box, f.sales, 4, 5, 0, false))
	bad := s.Items[1].ID
	require.NoError(t, f.db.Exec("UPDATE shipment_items SET quantity = 'lots' WHERE id = ?", bad).Error)

	report, err := newReportService(f).Aggregate(context.Background(), ReportFilter{})

	require.NoError(t, err)
	require.Len(t, report.Shipments[0].Items, 1)
	assert.Equal(t, int64(50), report.Totals.Cost)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, bad, report.Skipped[0].ItemID)
}

func TestReportFilterLabels(t *testing.T) {
	f := ReportFilter{From: day(2024, time.March, 1), Carrier: "X", DepartmentID: 3}

	assert.Equal(t, "2024-03-01", f.FromLabel())
	assert.Equal(t, "-", f.ToLabel())
	assert.Equal(t, ReportFilter{From: f.From}, f.DatesOnly())
}
