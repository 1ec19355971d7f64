package handlers

import (
	"bikebuilders/app"
	"bikebuilders/models"

	"github.com/gofiber/fiber/v2"
)

// GetUserInfo returns the garage profile singleton
func GetUserInfo(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		info, err := a.Profile.Get()
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch profile", err)
		}

		return success(c, fiber.Map{"userInfo": info})
	}
}

// UpdateUserInfo replaces the garage profile singleton
func UpdateUserInfo(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdateUserInfoRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		info := &models.UserInfo{
			Name:        req.Name,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
			GarageName:  req.GarageName,
			Address:     req.Address,
		}

		if err := a.Profile.Update(info); err != nil {
			return serverErrorWithDetails(c, "Failed to update profile", err)
		}

		return success(c, fiber.Map{"userInfo": info})
	}
}
