package controllers

import (
	"jibal-shipping/apperror"
	"jibal-shipping/repositories"
	"jibal-shipping/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ReferenceController serves one lookup table (shipment types, departments, carriers or
// governorates).
type ReferenceController struct {
	kind    repositories.ReferenceKind
	service *services.ReferenceService
}

type referenceInput struct {
	Name string `json:"name"`
}

func NewReferenceController(db *gorm.DB, kind repositories.ReferenceKind) *ReferenceController {
	return &ReferenceController{
		kind:    kind,
		service: services.NewReferenceService(repositories.NewReferenceRepository(db)),
	}
}

func (c *ReferenceController) GetAll(ctx *fiber.Ctx) error {
	rows, err := c.service.List(ctx.UserContext(), c.kind)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": c.kind.Entity + " list", "data": rows})
}

func (c *ReferenceController) Create(ctx *fiber.Ctx) error {
	var payload referenceInput
	if err := ctx.BodyParser(&payload); err != nil {
		return apperror.NewInvalidInput("Invalid payload").WithCause(err)
	}

	row, err := c.service.Create(ctx.UserContext(), c.kind, payload.Name)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": c.kind.Entity + " created successfully", "data": row})
}

func (c *ReferenceController) Update(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var payload referenceInput
	if err := ctx.BodyParser(&payload); err != nil {
		return apperror.NewInvalidInput("Invalid payload").WithCause(err)
	}

	row, err := c.service.Rename(ctx.UserContext(), c.kind, id, payload.Name)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": c.kind.Entity + " updated successfully", "data": row})
}

func (c *ReferenceController) Delete(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), c.kind, id); err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": c.kind.Entity + " deleted successfully"})
}
