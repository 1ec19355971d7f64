package services

import (
	"errors"
	"time"

	"bikebuilders/database"
	"bikebuilders/models"
)

// VehicleService handles vehicle registration, lookup, and reminders.
type VehicleService struct {
	repo     VehicleRepository
	autoSync AutoSyncer
}

func NewVehicleService(repo VehicleRepository, autoSync AutoSyncer) *VehicleService {
	return &VehicleService{repo: repo, autoSync: autoSync}
}

// Register creates a customer and their vehicle together on first
// registration. A known phone number attaches the vehicle to the existing
// customer instead of creating a duplicate.
func (vs *VehicleService) Register(req *models.RegisterVehicleRequest) (*models.Vehicle, error) {
	existing, err := vs.repo.GetVehicleByReg(req.RegNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrVehicleExists
	}

	var customerID int64
	owner, err := vs.repo.GetCustomerByPhone(req.Phone)
	if err != nil {
		return nil, err
	}
	if owner != nil {
		customerID = owner.CustomerID
	} else {
		customerID, err = vs.repo.CreateCustomer(req.OwnerName, req.Phone, req.Address, req.Email)
		if errors.Is(err, database.ErrConflict) {
			return nil, ErrCustomerConflict
		}
		if err != nil {
			return nil, err
		}
	}

	if err := vs.repo.CreateVehicle(req.RegNumber, customerID, req.VehicleName, req.ReminderDays); err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, ErrVehicleExists
		}
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	if vs.autoSync != nil {
		vs.autoSync.AutoSyncAsync()
	}

	return vs.repo.GetVehicleByReg(req.RegNumber)
}

// Find returns a vehicle with its owner joined in, or ErrVehicleNotFound.
func (vs *VehicleService) Find(regNumber string) (*models.Vehicle, error) {
	vehicle, err := vs.repo.GetVehicleByReg(regNumber)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrVehicleNotFound
	}
	return vehicle, nil
}

// Search matches registration numbers by case-insensitive substring.
func (vs *VehicleService) Search(fragment string) ([]models.Vehicle, error) {
	return vs.repo.SearchVehicles(fragment)
}

// DueForReminder lists vehicles whose reminder interval has lapsed as of
// the given time. Message composition and sending belong to the UI layer.
func (vs *VehicleService) DueForReminder(asOf time.Time) ([]models.Vehicle, error) {
	return vs.repo.ListVehiclesDueForReminder(asOf)
}
