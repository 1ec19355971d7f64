package handlers

import (
	"bytes"
	"errors"

	"bikebuilders/app"
	"bikebuilders/backup"

	"github.com/gofiber/fiber/v2"
)

// ExportBackup writes a timestamped snapshot file to the export directory
// and reports its path
func ExportBackup(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path, err := a.LocalBackup.Export()
		if err != nil {
			return serverErrorWithDetails(c, "Failed to export backup", err)
		}

		return success(c, fiber.Map{"path": path})
	}
}

// ImportBackup restores the whole dataset from an uploaded snapshot file.
// The upload may be a multipart "file" field or a raw JSON body. A request
// carrying no file at all is the user backing out of the picker, reported
// as ok:false rather than an error.
func ImportBackup(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := snapshotBody(c)
		if err != nil {
			return success(c, fiber.Map{"ok": false, "message": "No backup file selected"})
		}

		if err := a.LocalBackup.Import(bytes.NewReader(body)); err != nil {
			if errors.Is(err, backup.ErrInvalidFormat) {
				return badRequest(c, "File is not a valid backup")
			}
			return serverErrorWithDetails(c, "Failed to import backup", err)
		}

		return success(c, fiber.Map{"ok": true, "message": "Backup imported"})
	}
}

func snapshotBody(c *fiber.Ctx) ([]byte, error) {
	if fileHeader, err := c.FormFile("file"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()

		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(f); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	if len(c.Body()) == 0 {
		return nil, errors.New("empty body")
	}
	return c.Body(), nil
}
