package controllers

import (
	"jibal-shipping/apperror"
	"jibal-shipping/middleware"
	"jibal-shipping/repositories"
	"jibal-shipping/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ShippingController struct {
	service *services.ShipmentService
}

func NewShippingController(db *gorm.DB) *ShippingController {
	return &ShippingController{service: services.NewShipmentService(db)}
}

func (c *ShippingController) GetAllShipments(ctx *fiber.Ctx) error {
	filter := repositories.ShipmentListFilter{
		FromGovernorateID: uint(ctx.QueryInt("from_governorate_id")),
		ToGovernorateID:   uint(ctx.QueryInt("to_governorate_id")),
		CarrierCompanyID:  uint(ctx.QueryInt("carrier_company_id")),
		FilterField:       ctx.Query("filter_field"),
		FilterValue:       ctx.Query("filter_value"),
	}

	shipments, err := c.service.List(ctx.UserContext(), filter)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Shipments found", "data": shipments})
}

func (c *ShippingController) GetShipmentByID(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	shipment, err := c.service.Get(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Shipment found", "data": shipment})
}

func (c *ShippingController) CreateShipment(ctx *fiber.Ctx) error {
	var payload services.ShipmentInput
	if err := ctx.BodyParser(&payload); err != nil {
		return apperror.NewInvalidInput("Invalid payload").WithCause(err)
	}

	shipment, err := c.service.Create(ctx.UserContext(), payload, middleware.UserID(ctx))
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Shipment created successfully", "data": shipment})
}

func (c *ShippingController) UpdateShipment(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var payload services.ShipmentInput
	if err := ctx.BodyParser(&payload); err != nil {
		return apperror.NewInvalidInput("Invalid payload").WithCause(err)
	}

	shipment, err := c.service.Update(ctx.UserContext(), id, payload, middleware.UserID(ctx))
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Shipment updated successfully", "data": shipment})
}

func (c *ShippingController) DeleteShipment(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), id, middleware.UserID(ctx)); err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Shipment deleted successfully"})
}

// paramID reads the positive :id route parameter.
func paramID(ctx *fiber.Ctx) (uint, error) {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, apperror.NewInvalidInput("Invalid ID").WithDetail("field", "id")
	}
	return uint(id), nil
}
