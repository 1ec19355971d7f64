package drive

import (
	"fmt"
	"io"

	"google.golang.org/api/drive/v3"
)

// FindFile searches a folder for a file by exact name and returns its ID,
// or "" when no match exists.
func (c *Client) FindFile(name, parentID string) (string, error) {
	query := fmt.Sprintf("name='%s' and '%s' in parents and trashed=false", name, parentID)
	fileList, err := c.service.Files.List().
		Q(query).
		Fields("files(id, name, modifiedTime)").
		Do()
	if err != nil {
		return "", err
	}

	if len(fileList.Files) == 0 {
		return "", nil
	}
	return fileList.Files[0].Id, nil
}

// CreateFile uploads a new file (metadata plus content in one multipart
// request) into a folder and returns the new file's ID.
func (c *Client) CreateFile(name, parentID, mimeType string, content io.Reader) (string, error) {
	fileMetadata := &drive.File{
		Name:     name,
		Parents:  []string{parentID},
		MimeType: mimeType,
	}

	file, err := c.service.Files.Create(fileMetadata).
		Media(content).
		Fields("id").
		Do()
	if err != nil {
		return "", err
	}

	return file.Id, nil
}

// UpdateFile overwrites an existing file's content in place.
func (c *Client) UpdateFile(fileID string, content io.Reader) error {
	_, err := c.service.Files.Update(fileID, &drive.File{}).
		Media(content).
		Do()
	return err
}

// DownloadFile fetches a file's content by ID.
func (c *Client) DownloadFile(fileID string) ([]byte, error) {
	resp, err := c.service.Files.Get(fileID).Download()
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}
