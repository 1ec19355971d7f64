package services

import (
	"time"

	"bikebuilders/models"
)

// VehicleRepository defines the data access the vehicle service needs.
type VehicleRepository interface {
	CreateCustomer(name, phone, address, email string) (int64, error)
	GetCustomerByPhone(phone string) (*models.Customer, error)
	CreateVehicle(regNumber string, customerID int64, vehicleName string, reminderDays int) error
	GetVehicleByReg(regNumber string) (*models.Vehicle, error)
	SearchVehicles(fragment string) ([]models.Vehicle, error)
	ListVehiclesDueForReminder(asOf time.Time) ([]models.Vehicle, error)
}

// ServiceLogRepository defines the data access the service-log service needs.
type ServiceLogRepository interface {
	GetVehicleByReg(regNumber string) (*models.Vehicle, error)
	UpdateVehicleService(regNumber, lastServiceDate string, lastReading int64) error
	CreateServiceLog(regNumber string, currentReading int64, totalAmount float64, startedOn time.Time) (int64, error)
	GetServiceLog(serviceLogID int64) (*models.ServiceLog, error)
	UpdateServicePayment(serviceLogID int64, paidAmount float64, status, completedOn string, balance float64, paymentStatus string) error
	ListInProgressServices() ([]models.ServiceLog, error)
	ListServicesByReg(regNumber string) ([]models.ServiceLog, error)
	AddServicePart(serviceLogID int64, partName string, amount float64) error
	GetServiceParts(serviceLogID int64) ([]models.ServicePart, error)
}

// CatalogRepository defines the data access the catalog service needs.
type CatalogRepository interface {
	CreateCommonService(serviceName string, defaultAmount float64) (int64, error)
	UpdateCommonService(serviceID int64, serviceName string, defaultAmount float64) error
	DeleteCommonService(serviceID int64) error
	ListCommonServices() ([]models.CommonService, error)
}

// ProfileRepository defines the data access the profile service needs.
type ProfileRepository interface {
	GetUserInfo() (*models.UserInfo, error)
	UpdateUserInfo(info *models.UserInfo) error
}

// AutoSyncer triggers a best-effort background upload after a local
// mutation. Implementations never block and never surface failures to
// the triggering operation.
type AutoSyncer interface {
	AutoSyncAsync()
}
