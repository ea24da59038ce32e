package routes

import (
	"jibal-shipping/archive"
	"jibal-shipping/config"
	"jibal-shipping/controllers"
	"jibal-shipping/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupReportRoutes(app *fiber.App, db *gorm.DB, archiver archive.Archiver) {
	reportController := controllers.NewReportController(db, archiver)
	api := app.Group(config.MAIN_ROUTES+"/reports", middleware.AuthMiddleware)

	api.Get("/monthly", reportController.GetMonthlyReport)
	api.Get("/monthly/export", reportController.ExportMonthlyReport)
	api.Get("/by", reportController.GetFilteredReport)
	api.Get("/by/export", reportController.ExportFilteredReport)
	api.Get("/export-all", reportController.ExportAllData)
}
