package controllers

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"jibal-shipping/apperror"
	"jibal-shipping/archive"
	"jibal-shipping/logger"
	"jibal-shipping/reports"
	"jibal-shipping/reports/xlsx"
	"jibal-shipping/repositories"
	"jibal-shipping/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReportController struct {
	service  *services.ReportService
	archiver archive.Archiver
}

// NewReportController serves report data and exports. archiver may be nil, in which case
// exports are not archived.
func NewReportController(db *gorm.DB, archiver archive.Archiver) *ReportController {
	return &ReportController{
		service:  services.NewReportService(repositories.NewReportRepository(db)),
		archiver: archiver,
	}
}

func (c *ReportController) GetMonthlyReport(ctx *fiber.Ctx) error {
	return c.renderJSON(ctx, reports.Monthly)
}

func (c *ReportController) GetFilteredReport(ctx *fiber.Ctx) error {
	return c.renderJSON(ctx, reports.Filtered)
}

func (c *ReportController) ExportMonthlyReport(ctx *fiber.Ctx) error {
	return c.export(ctx, reports.Monthly)
}

func (c *ReportController) ExportFilteredReport(ctx *fiber.Ctx) error {
	return c.export(ctx, reports.Filtered)
}

// ExportAllData dumps every table into all_data.xlsx, one sheet per table.
func (c *ReportController) ExportAllData(ctx *fiber.Ctx) error {
	dump, err := c.service.DumpTables(ctx.UserContext())
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := xlsx.Write(&buf, reports.RenderTables(dump)); err != nil {
		return apperror.NewInternal(fmt.Errorf("write %s: %w", reports.AllDataFileName, err))
	}
	return c.sendWorkbook(ctx, reports.AllDataFileName, buf.Bytes())
}

func (c *ReportController) renderJSON(ctx *fiber.Ctx, variant reports.Variant) error {
	report, err := c.aggregate(ctx, variant)
	if err != nil {
		return err
	}
	if variant == reports.Filtered {
		report = report.DropEmpty()
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Report generated",
		"data": fiber.Map{
			"from_date":  report.Filter.FromLabel(),
			"to_date":    report.Filter.ToLabel(),
			"shipments":  report.Shipments,
			"totals":     report.Totals,
			"item_count": report.ItemCount(),
			"skipped":    report.Skipped,
		},
	})
}

func (c *ReportController) export(ctx *fiber.Ctx, variant reports.Variant) error {
	report, err := c.aggregate(ctx, variant)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := xlsx.WriteSheet(&buf, reports.RenderShipmentReport(report, variant)); err != nil {
		return apperror.NewInternal(fmt.Errorf("write %s: %w", variant.FileName(), err))
	}
	return c.sendWorkbook(ctx, variant.FileName(), buf.Bytes())
}

// aggregate runs the report for the query filters. The monthly report takes only the
// date range.
func (c *ReportController) aggregate(ctx *fiber.Ctx, variant reports.Variant) (*services.Report, error) {
	filter, err := reportFilterFromQuery(ctx)
	if err != nil {
		return nil, err
	}
	if variant == reports.Monthly {
		filter = filter.DatesOnly()
	}
	return c.service.Aggregate(ctx.UserContext(), filter)
}

func (c *ReportController) sendWorkbook(ctx *fiber.Ctx, fileName string, body []byte) error {
	if c.archiver != nil {
		location, err := c.archiver.Archive(ctx.UserContext(), fileName, xlsx.ContentType, body)
		if err != nil {
			logger.Warnw("report archive failed", "file", fileName, "error", err)
		} else {
			logger.Infow("report archived", "file", fileName, "location", location)
		}
	}

	ctx.Set(fiber.HeaderContentType, xlsx.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, fileName))
	return ctx.Status(fiber.StatusOK).Send(body)
}

func reportFilterFromQuery(ctx *fiber.Ctx) (services.ReportFilter, error) {
	from, err := optionalDate(ctx, "from_date")
	if err != nil {
		return services.ReportFilter{}, err
	}
	to, err := optionalDate(ctx, "to_date")
	if err != nil {
		return services.ReportFilter{}, err
	}

	return services.ReportFilter{
		From:           from,
		To:             to,
		Carrier:        strings.TrimSpace(ctx.Query("carrier_company")),
		ShipmentTypeID: uint(ctx.QueryInt("shipment_type")),
		DepartmentID:   uint(ctx.QueryInt("department")),
	}, nil
}

func optionalDate(ctx *fiber.Ctx, key string) (time.Time, error) {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return time.Time{}, nil
	}
	date, err := services.ParseCalendarDate(raw)
	if err != nil {
		return time.Time{}, apperror.NewInvalidInput(fmt.Sprintf("%s must be YYYY-MM-DD", key)).WithDetail("field", key)
	}
	return date, nil
}
