package handlers

import (
	"errors"
	"time"

	"bikebuilders/app"
	"bikebuilders/models"
	"bikebuilders/sync"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"
)

// SignIn opens a Drive sync session from a token obtained client-side
func SignIn(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.SignInRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		token := &oauth2.Token{
			AccessToken:  req.AccessToken,
			RefreshToken: req.RefreshToken,
		}
		if req.ExpiresIn > 0 {
			token.Expiry = time.Now().Add(time.Duration(req.ExpiresIn) * time.Second)
		}

		if err := a.Sync.SignIn(c.Context(), token); err != nil {
			if errors.Is(err, sync.ErrAuthFailed) {
				return unauthorized(c, "Google sign-in failed")
			}
			return serverErrorWithDetails(c, "Failed to sign in", err)
		}

		return success(c, fiber.Map{"status": a.Sync.Status()})
	}
}

// SignOut closes the sync session. Local data and sync preferences are kept.
func SignOut(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a.Sync.SignOut()
		return success(c, fiber.Map{"status": a.Sync.Status()})
	}
}

// SyncStatus reports session state, auto-sync preference, last sync time and
// the outcome of the most recent sync
func SyncStatus(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return success(c, fiber.Map{"status": a.Sync.Status()})
	}
}

// UploadBackupNow pushes the current dataset to Drive
func UploadBackupNow(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.Sync.UploadBackup(c.Context()); err != nil {
			switch {
			case errors.Is(err, sync.ErrNotSignedIn):
				return unauthorized(c, "Not signed in to Google Drive")
			case errors.Is(err, sync.ErrSyncBusy):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A sync is already in progress"})
			default:
				return serverErrorWithDetails(c, "Failed to upload backup", err)
			}
		}

		return success(c, fiber.Map{"ok": true, "status": a.Sync.Status()})
	}
}

// DownloadBackupNow restores the dataset from the Drive backup. A missing
// remote backup is reported as ok:false rather than an error.
func DownloadBackupNow(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.Sync.DownloadBackup(c.Context()); err != nil {
			switch {
			case errors.Is(err, sync.ErrNotSignedIn):
				return unauthorized(c, "Not signed in to Google Drive")
			case errors.Is(err, sync.ErrSyncBusy):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A sync is already in progress"})
			case errors.Is(err, sync.ErrBackupNotFound):
				return success(c, fiber.Map{"ok": false, "message": "No backup found in Google Drive"})
			default:
				return serverErrorWithDetails(c, "Failed to restore backup", err)
			}
		}

		return success(c, fiber.Map{"ok": true, "status": a.Sync.Status()})
	}
}

// SetAutoSync toggles the persisted auto-sync preference
func SetAutoSync(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Enabled bool `json:"enabled"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Sync.SetAutoSyncEnabled(req.Enabled); err != nil {
			return serverErrorWithDetails(c, "Failed to update auto-sync preference", err)
		}

		return success(c, fiber.Map{"auto_sync_enabled": req.Enabled})
	}
}
