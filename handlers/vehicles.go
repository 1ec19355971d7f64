package handlers

import (
	"errors"
	"strconv"
	"time"

	"bikebuilders/app"
	"bikebuilders/models"
	"bikebuilders/services"

	"github.com/gofiber/fiber/v2"
)

// RegisterVehicle creates a vehicle and, when needed, its owner in one step
func RegisterVehicle(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.RegisterVehicleRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		vehicle, err := a.Vehicles.Register(&req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrVehicleExists):
				return conflict(c, "A vehicle with this registration number already exists")
			case errors.Is(err, services.ErrCustomerConflict):
				return conflict(c, "A customer with this phone or email already exists")
			default:
				return serverErrorWithDetails(c, "Failed to register vehicle", err)
			}
		}

		return created(c, fiber.Map{"vehicle": vehicle})
	}
}

// GetVehicle looks up a vehicle by registration number (case-insensitive)
func GetVehicle(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		regNumber := c.Params("reg")
		if regNumber == "" {
			return badRequest(c, "registration number is required")
		}

		vehicle, err := a.Vehicles.Find(regNumber)
		if err != nil {
			if errors.Is(err, services.ErrVehicleNotFound) {
				return notFound(c, "Vehicle not found")
			}
			return serverErrorWithDetails(c, "Failed to fetch vehicle", err)
		}

		return success(c, fiber.Map{"vehicle": vehicle})
	}
}

// SearchVehicles matches registration numbers containing the query fragment
func SearchVehicles(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return badRequest(c, "query parameter q is required")
		}

		vehicles, err := a.Vehicles.Search(query)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to search vehicles", err)
		}

		return success(c, fiber.Map{"vehicles": vehicles})
	}
}

// GetReminders lists vehicles whose service reminder window has elapsed
func GetReminders(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		asOf := time.Now()
		if raw := c.Query("asOf"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return badRequest(c, "asOf must be an RFC 3339 timestamp")
			}
			asOf = parsed
		}

		vehicles, err := a.Vehicles.DueForReminder(asOf)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch reminders", err)
		}

		return success(c, fiber.Map{"vehicles": vehicles})
	}
}

func parseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
