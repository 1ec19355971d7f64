package services

import (
	"errors"

	"bikebuilders/database"
	"bikebuilders/models"
)

// CatalogService maintains the admin-managed list of common services used
// to pre-fill new service line items.
type CatalogService struct {
	repo     CatalogRepository
	autoSync AutoSyncer
}

func NewCatalogService(repo CatalogRepository, autoSync AutoSyncer) *CatalogService {
	return &CatalogService{repo: repo, autoSync: autoSync}
}

func (cs *CatalogService) List() ([]models.CommonService, error) {
	return cs.repo.ListCommonServices()
}

func (cs *CatalogService) Create(serviceName string, defaultAmount float64) (*models.CommonService, error) {
	id, err := cs.repo.CreateCommonService(serviceName, defaultAmount)
	if errors.Is(err, database.ErrConflict) {
		return nil, ErrCatalogConflict
	}
	if err != nil {
		return nil, err
	}

	if cs.autoSync != nil {
		cs.autoSync.AutoSyncAsync()
	}

	return &models.CommonService{ServiceID: id, ServiceName: serviceName, DefaultAmount: defaultAmount}, nil
}

func (cs *CatalogService) Update(serviceID int64, serviceName string, defaultAmount float64) error {
	err := cs.repo.UpdateCommonService(serviceID, serviceName, defaultAmount)
	if errors.Is(err, database.ErrNotFound) {
		return ErrCatalogNotFound
	}
	if errors.Is(err, database.ErrConflict) {
		return ErrCatalogConflict
	}
	if err != nil {
		return err
	}

	if cs.autoSync != nil {
		cs.autoSync.AutoSyncAsync()
	}
	return nil
}

// Delete removes a catalog entry unconditionally. Past services keep
// their own copies of the name and amount.
func (cs *CatalogService) Delete(serviceID int64) error {
	err := cs.repo.DeleteCommonService(serviceID)
	if errors.Is(err, database.ErrNotFound) {
		return ErrCatalogNotFound
	}
	if err != nil {
		return err
	}

	if cs.autoSync != nil {
		cs.autoSync.AutoSyncAsync()
	}
	return nil
}
