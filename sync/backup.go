package sync

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"bikebuilders/models"
)

// UploadBackup captures a snapshot and creates or overwrites the fixed-name
// backup document. Last writer wins: there is no version check against the
// remote copy.
func (o *Orchestrator) UploadBackup(ctx context.Context) (err error) {
	defer func() { o.recordResult("upload", err) }()

	remote, err := o.currentRemote()
	if err != nil {
		return err
	}

	done, err := o.beginSync()
	if err != nil {
		return err
	}
	defer done()

	snap, err := o.store.CaptureSnapshot()
	if err != nil {
		return fmt.Errorf("capture snapshot: %w", err)
	}
	data, err := snap.Marshal()
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	folderID, err := o.resolveBackupContainer(remote)
	if err != nil {
		return fmt.Errorf("resolve backup folder: %w", err)
	}

	fileID, err := remote.FindFile(BackupFileName, folderID)
	if err != nil {
		return fmt.Errorf("locate backup document: %w", err)
	}

	if fileID == "" {
		if _, err = remote.CreateFile(BackupFileName, folderID, "application/json", bytes.NewReader(data)); err != nil {
			return fmt.Errorf("create backup document: %w", err)
		}
	} else {
		if err = remote.UpdateFile(fileID, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("overwrite backup document: %w", err)
		}
	}

	if err := o.state.SetLastSync(time.Now()); err != nil {
		o.logger.Warn("failed to persist last sync time", "error", err)
	}

	o.logger.Info("backup uploaded",
		"customers", len(snap.Customers),
		"vehicles", len(snap.Vehicles),
		"services", len(snap.Services),
	)
	return nil
}

// DownloadBackup fetches the fixed-name backup document and restores the
// local dataset from it. Fails with ErrBackupNotFound when the document
// does not exist.
func (o *Orchestrator) DownloadBackup(ctx context.Context) (err error) {
	defer func() { o.recordResult("download", err) }()

	remote, err := o.currentRemote()
	if err != nil {
		return err
	}

	done, err := o.beginSync()
	if err != nil {
		return err
	}
	defer done()

	folderID, err := o.resolveBackupContainer(remote)
	if err != nil {
		return fmt.Errorf("resolve backup folder: %w", err)
	}

	fileID, err := remote.FindFile(BackupFileName, folderID)
	if err != nil {
		return fmt.Errorf("locate backup document: %w", err)
	}
	if fileID == "" {
		return ErrBackupNotFound
	}

	data, err := remote.DownloadFile(fileID)
	if err != nil {
		return fmt.Errorf("download backup document: %w", err)
	}

	snap, err := models.ParseSnapshot(data)
	if err != nil {
		return err
	}

	if err := o.store.RestoreSnapshot(snap); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}

	o.logger.Info("backup restored",
		"customers", len(snap.Customers),
		"vehicles", len(snap.Vehicles),
		"services", len(snap.Services),
	)
	return nil
}
