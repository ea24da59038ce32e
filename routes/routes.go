package routes

import (
	"jibal-shipping/archive"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup mounts every API group on app.
func Setup(app *fiber.App, db *gorm.DB, archiver archive.Archiver) {
	SetupShippingRoutes(app, db)
	SetupReceiptRoutes(app, db)
	SetupReportRoutes(app, db, archiver)
	SetupReferenceRoutes(app, db)
}
