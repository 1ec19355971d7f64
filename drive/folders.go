package drive

import (
	"fmt"

	"google.golang.org/api/drive/v3"
)

// EnsureFolder returns the ID of a named folder directly under the Drive
// root, creating it if absent. The find-then-create sequence is idempotent
// for a single caller; two racing callers can still each create one, which
// the orchestrator's sync mutex prevents in practice.
func (c *Client) EnsureFolder(name string) (string, error) {
	query := fmt.Sprintf(
		"name='%s' and mimeType='application/vnd.google-apps.folder' and trashed=false and 'root' in parents",
		name,
	)

	fileList, err := c.service.Files.List().
		Q(query).
		Fields("files(id, name)").
		Do()
	if err != nil {
		return "", err
	}

	if len(fileList.Files) > 0 {
		return fileList.Files[0].Id, nil
	}

	fileMetadata := &drive.File{
		Name:     name,
		MimeType: "application/vnd.google-apps.folder",
		Parents:  []string{"root"},
	}

	folder, err := c.service.Files.Create(fileMetadata).
		Fields("id").
		Do()
	if err != nil {
		return "", err
	}

	return folder.Id, nil
}
