package services

import "errors"

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrVehicleNotFound  = errors.New("vehicle not found")
	ErrVehicleExists    = errors.New("vehicle already registered")
	ErrCustomerConflict = errors.New("phone or email already belongs to another customer")
	ErrServiceNotFound  = errors.New("service not found")
	ErrServiceCompleted = errors.New("service is already completed")
	ErrCatalogNotFound  = errors.New("catalog entry not found")
	ErrCatalogConflict  = errors.New("catalog entry already exists")
	ErrOverpayment      = errors.New("paid amount exceeds total amount")
)
