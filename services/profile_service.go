package services

import "bikebuilders/models"

// ProfileService manages the garage identity singleton used for display
// and reminder-message templating.
type ProfileService struct {
	repo     ProfileRepository
	autoSync AutoSyncer
}

func NewProfileService(repo ProfileRepository, autoSync AutoSyncer) *ProfileService {
	return &ProfileService{repo: repo, autoSync: autoSync}
}

func (ps *ProfileService) Get() (*models.UserInfo, error) {
	return ps.repo.GetUserInfo()
}

func (ps *ProfileService) Update(info *models.UserInfo) error {
	if err := ps.repo.UpdateUserInfo(info); err != nil {
		return err
	}

	if ps.autoSync != nil {
		ps.autoSync.AutoSyncAsync()
	}
	return nil
}
