package routes

import (
	"jibal-shipping/config"
	"jibal-shipping/controllers"
	"jibal-shipping/middleware"
	"jibal-shipping/repositories"
	"jibal-shipping/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupReceiptRoutes(app *fiber.App, db *gorm.DB) {
	allocator := services.NewReceiptAllocator(repositories.NewShipmentRepository(db))
	receiptController := controllers.NewReceiptController(allocator)
	api := app.Group(config.MAIN_ROUTES+"/receipts", middleware.AuthMiddleware)

	api.Get("/next", receiptController.NextReceipt)
}
