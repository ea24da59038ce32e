package routes

import (
	"jibal-shipping/config"
	"jibal-shipping/controllers"
	"jibal-shipping/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupShippingRoutes(app *fiber.App, db *gorm.DB) {
	shippingController := controllers.NewShippingController(db)
	api := app.Group(config.MAIN_ROUTES+"/shipments", middleware.AuthMiddleware)

	api.Get("/", shippingController.GetAllShipments)
	api.Post("/", shippingController.CreateShipment)
	api.Get("/:id", shippingController.GetShipmentByID)
	api.Put("/:id", shippingController.UpdateShipment)
	api.Delete("/:id", shippingController.DeleteShipment)
}
