package controllers

import (
	"jibal-shipping/logger"
	"jibal-shipping/services"

	"github.com/gofiber/fiber/v2"
)

type ReceiptController struct {
	allocator *services.ReceiptAllocator
}

func NewReceiptController(allocator *services.ReceiptAllocator) *ReceiptController {
	return &ReceiptController{allocator: allocator}
}

// NextReceipt suggests the receipt number a new shipment would get. Bad or missing input
// yields an empty suggestion instead of an error so the form can keep polling.
func (c *ReceiptController) NextReceipt(ctx *fiber.Ctx) error {
	region := ctx.Query("governorate")
	deliveryDate := ctx.Query("delivery_date")

	code, err := c.allocator.Allocate(ctx.UserContext(), region, deliveryDate)
	if err != nil {
		logger.Warnw("receipt suggestion unavailable", "governorate", region, "delivery_date", deliveryDate, "error", err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"receipt_number": code})
}
