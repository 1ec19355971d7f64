package handlers

import (
	"errors"
	"time"

	"bikebuilders/app"
	"bikebuilders/models"
	"bikebuilders/services"

	"github.com/gofiber/fiber/v2"
)

// StartService opens a new in-progress service for a vehicle
func StartService(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.StartServiceRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		log, err := a.ServiceLogs.Start(&req, time.Now())
		if err != nil {
			if errors.Is(err, services.ErrVehicleNotFound) {
				return notFound(c, "Vehicle not found")
			}
			return serverErrorWithDetails(c, "Failed to start service", err)
		}

		return created(c, fiber.Map{"service": log})
	}
}

// RecordPayment updates the paid amount on a service and re-derives its
// payment status
func RecordPayment(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		serviceLogID, err := parseID(c, "id")
		if err != nil {
			return badRequest(c, "invalid service ID")
		}

		var req models.RecordPaymentRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		log, err := a.ServiceLogs.RecordPayment(serviceLogID, req.PaidAmount)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrServiceNotFound):
				return notFound(c, "Service not found")
			case errors.Is(err, services.ErrOverpayment):
				return badRequest(c, "Paid amount exceeds the service total")
			default:
				return serverErrorWithDetails(c, "Failed to record payment", err)
			}
		}

		return success(c, fiber.Map{"service": log})
	}
}

// CompleteService marks an in-progress service as completed and rolls the
// service date and odometer reading onto the vehicle
func CompleteService(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		serviceLogID, err := parseID(c, "id")
		if err != nil {
			return badRequest(c, "invalid service ID")
		}

		log, err := a.ServiceLogs.Complete(serviceLogID, time.Now())
		if err != nil {
			switch {
			case errors.Is(err, services.ErrServiceNotFound):
				return notFound(c, "Service not found")
			case errors.Is(err, services.ErrServiceCompleted):
				return badRequest(c, "Service is already completed")
			default:
				return serverErrorWithDetails(c, "Failed to complete service", err)
			}
		}

		return success(c, fiber.Map{"service": log})
	}
}

// AddServicePart appends a labour or part line to an in-progress service
func AddServicePart(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		serviceLogID, err := parseID(c, "id")
		if err != nil {
			return badRequest(c, "invalid service ID")
		}

		var req models.AddPartRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		if err := a.ServiceLogs.AddPart(serviceLogID, req.PartName, req.Amount); err != nil {
			switch {
			case errors.Is(err, services.ErrServiceNotFound):
				return notFound(c, "Service not found")
			case errors.Is(err, services.ErrServiceCompleted):
				return badRequest(c, "Cannot add parts to a completed service")
			default:
				return serverErrorWithDetails(c, "Failed to add part", err)
			}
		}

		return success(c, fiber.Map{"message": "Part added"})
	}
}

// GetInProgressServices lists every open service, newest first
func GetInProgressServices(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		logs, err := a.ServiceLogs.ListInProgress()
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch services", err)
		}

		return success(c, fiber.Map{"services": logs})
	}
}

// GetServiceHistory returns all services for a vehicle with their parts
func GetServiceHistory(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		regNumber := c.Params("reg")
		if regNumber == "" {
			return badRequest(c, "registration number is required")
		}

		logs, parts, err := a.ServiceLogs.History(regNumber)
		if err != nil {
			if errors.Is(err, services.ErrVehicleNotFound) {
				return notFound(c, "Vehicle not found")
			}
			return serverErrorWithDetails(c, "Failed to fetch service history", err)
		}

		return success(c, fiber.Map{"services": logs, "parts": parts})
	}
}

// GetServiceParts lists the line items of one service
func GetServiceParts(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		serviceLogID, err := parseID(c, "id")
		if err != nil {
			return badRequest(c, "invalid service ID")
		}

		parts, err := a.ServiceLogs.Parts(serviceLogID)
		if err != nil {
			if errors.Is(err, services.ErrServiceNotFound) {
				return notFound(c, "Service not found")
			}
			return serverErrorWithDetails(c, "Failed to fetch parts", err)
		}

		return success(c, fiber.Map{"parts": parts})
	}
}
