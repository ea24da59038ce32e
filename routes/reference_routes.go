package routes

import (
	"jibal-shipping/config"
	"jibal-shipping/controllers"
	"jibal-shipping/middleware"
	"jibal-shipping/repositories"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupReferenceRoutes mounts list/create/rename/delete for every lookup table.
func SetupReferenceRoutes(app *fiber.App, db *gorm.DB) {
	tables := map[string]repositories.ReferenceKind{
		"/shipment-types":    repositories.ShipmentTypes,
		"/departments":       repositories.Departments,
		"/carrier-companies": repositories.CarrierCompanies,
		"/governorates":      repositories.Governorates,
	}

	for path, kind := range tables {
		controller := controllers.NewReferenceController(db, kind)
		api := app.Group(config.MAIN_ROUTES+path, middleware.AuthMiddleware)

		api.Get("/", controller.GetAll)
		api.Post("/", controller.Create)
		api.Put("/:id", controller.Update)
		api.Delete("/:id", controller.Delete)
	}
}
