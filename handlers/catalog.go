package handlers

import (
	"errors"

	"bikebuilders/app"
	"bikebuilders/models"
	"bikebuilders/services"

	"github.com/gofiber/fiber/v2"
)

// GetCommonServices lists the reusable service catalog
func GetCommonServices(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		catalog, err := a.Catalog.List()
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch catalog", err)
		}

		return success(c, fiber.Map{"commonServices": catalog})
	}
}

// CreateCommonService adds a catalog entry
func CreateCommonService(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CommonServiceRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		entry, err := a.Catalog.Create(req.ServiceName, req.DefaultAmount)
		if err != nil {
			if errors.Is(err, services.ErrCatalogConflict) {
				return conflict(c, "A catalog entry with this name already exists")
			}
			return serverErrorWithDetails(c, "Failed to create catalog entry", err)
		}

		return created(c, fiber.Map{"commonService": entry})
	}
}

// UpdateCommonService renames or reprices a catalog entry
func UpdateCommonService(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		serviceID, err := parseID(c, "id")
		if err != nil {
			return badRequest(c, "invalid catalog entry ID")
		}

		var req models.CommonServiceRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		if err := a.Catalog.Update(serviceID, req.ServiceName, req.DefaultAmount); err != nil {
			switch {
			case errors.Is(err, services.ErrCatalogNotFound):
				return notFound(c, "Catalog entry not found")
			case errors.Is(err, services.ErrCatalogConflict):
				return conflict(c, "A catalog entry with this name already exists")
			default:
				return serverErrorWithDetails(c, "Failed to update catalog entry", err)
			}
		}

		return success(c, fiber.Map{"message": "Catalog entry updated"})
	}
}

// DeleteCommonService removes a catalog entry. Past services keep their
// copied line items.
func DeleteCommonService(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		serviceID, err := parseID(c, "id")
		if err != nil {
			return badRequest(c, "invalid catalog entry ID")
		}

		if err := a.Catalog.Delete(serviceID); err != nil {
			if errors.Is(err, services.ErrCatalogNotFound) {
				return notFound(c, "Catalog entry not found")
			}
			return serverErrorWithDetails(c, "Failed to delete catalog entry", err)
		}

		return success(c, fiber.Map{"message": "Catalog entry deleted"})
	}
}
