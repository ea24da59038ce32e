package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"jibal-shipping/apperror"
	"jibal-shipping/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceCreateAndRename(t *testing.T) {
	f := newFixture(t)
	svc := NewReferenceService(repositories.NewReferenceRepository(f.db))
	ctx := context.Background()

	row, err := svc.Create(ctx, repositories.CarrierCompanies, "  DHL ")
	require.NoError(t, err)
	assert.Equal(t, "DHL", row.Name)
	assert.NotZero(t, row.ID)

	_, err = svc.Create(ctx, repositories.CarrierCompanies, "Aramex")
	assert.True(t, errors.Is(err, apperror.ErrDuplicateKey))

	_, err = svc.Create(ctx, repositories.CarrierCompanies, " ")
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))

	renamed, err := svc.Rename(ctx, repositories.CarrierCompanies, row.ID, "DHL Express")
	require.NoError(t, err)
	assert.Equal(t, "DHL Express", renamed.Name)

	_, err = svc.Rename(ctx, repositories.CarrierCompanies, 999, "Nobody")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	rows, err := svc.List(ctx, repositories.CarrierCompanies)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestReferenceRenameShowsInReports(t *testing.T) {
	f := newFixture(t)
	svc := NewReferenceService(repositories.NewReferenceRepository(f.db))
	carrier := f.carrier
	f.insert(t, "A", "", day(2024, time.March, 1), &carrier)

	_, err := svc.Rename(context.Background(), repositories.CarrierCompanies, f.carrier, "Aramex Iraq")
	require.NoError(t, err)

	report, err := newReportService(f).Aggregate(context.Background(), ReportFilter{Carrier: "Aramex Iraq"})
	require.NoError(t, err)
	require.Len(t, report.Shipments, 1)
	assert.Equal(t, "Aramex Iraq", report.Shipments[0].CarrierCompany)
}

func TestReferenceDeleteRefusedWhileInUse(t *testing.T) {
	f := newFixture(t)
	svc := NewReferenceService(repositories.NewReferenceRepository(f.db))
	ctx := context.Background()
	f.insert(t, "A", "", day(2024, time.March, 1), nil, lineItem(f.parcel, f.sales, 1, 1, 0, false))

	assert.True(t, errors.Is(svc.Delete(ctx, repositories.Governorates, f.giza), apperror.ErrConflict))
	assert.True(t, errors.Is(svc.Delete(ctx, repositories.ShipmentTypes, f.parcel), apperror.ErrConflict))
	assert.True(t, errors.Is(svc.Delete(ctx, repositories.Departments, f.sales), apperror.ErrConflict))

	require.NoError(t, svc.Delete(ctx, repositories.ShipmentTypes, f.box))
	require.NoError(t, svc.Delete(ctx, repositories.CarrierCompanies, f.carrier))
	assert.True(t, errors.Is(svc.Delete(ctx, repositories.ShipmentTypes, f.box), apperror.ErrNotFound))
}
