package services

import (
	"time"

	"bikebuilders/models"
)

// ServiceLogService owns the service lifecycle: intake, line items,
// payment math, and the one-way completion transition.
type ServiceLogService struct {
	repo     ServiceLogRepository
	autoSync AutoSyncer
}

func NewServiceLogService(repo ServiceLogRepository, autoSync AutoSyncer) *ServiceLogService {
	return &ServiceLogService{repo: repo, autoSync: autoSync}
}

// paymentStatusFor derives the payment status from amounts: paid nothing
// is Pending, anything between is Partial, covering the total is Paid.
func paymentStatusFor(paid, total float64) string {
	switch {
	case paid <= 0:
		return models.PaymentPending
	case paid < total:
		return models.PaymentPartial
	default:
		return models.PaymentPaid
	}
}

// Start opens a service for a vehicle. The total is the sum of the line
// items, each recorded as an immutable part copy.
func (ss *ServiceLogService) Start(req *models.StartServiceRequest, startedAt time.Time) (*models.ServiceLog, error) {
	vehicle, err := ss.repo.GetVehicleByReg(req.RegNumber)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrVehicleNotFound
	}

	var total float64
	for _, item := range req.Items {
		total += item.Amount
	}

	id, err := ss.repo.CreateServiceLog(vehicle.RegNumber, req.CurrentReading, total, startedAt)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		if err := ss.repo.AddServicePart(id, item.PartName, item.Amount); err != nil {
			return nil, err
		}
	}

	if ss.autoSync != nil {
		ss.autoSync.AutoSyncAsync()
	}

	return ss.repo.GetServiceLog(id)
}

// RecordPayment applies a payment. The outstanding balance and payment
// status are computed here, per the invariant, before the single combined
// store mutation; lifecycle status and completion time are untouched.
func (ss *ServiceLogService) RecordPayment(serviceLogID int64, paid float64) (*models.ServiceLog, error) {
	svc, err := ss.repo.GetServiceLog(serviceLogID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	if paid > svc.TotalAmount {
		return nil, ErrOverpayment
	}

	balance := svc.TotalAmount - paid
	status := paymentStatusFor(paid, svc.TotalAmount)

	if err := ss.repo.UpdateServicePayment(serviceLogID, paid, svc.Status, svc.CompletedOn, balance, status); err != nil {
		return nil, err
	}

	if ss.autoSync != nil {
		ss.autoSync.AutoSyncAsync()
	}

	return ss.repo.GetServiceLog(serviceLogID)
}

// Complete transitions a service from in progress to completed and rolls
// the service date and odometer reading up onto the vehicle. The
// transition never runs backward.
func (ss *ServiceLogService) Complete(serviceLogID int64, completedAt time.Time) (*models.ServiceLog, error) {
	svc, err := ss.repo.GetServiceLog(serviceLogID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	if svc.Status == models.StatusCompleted {
		return nil, ErrServiceCompleted
	}

	completedOn := completedAt.UTC().Format(time.RFC3339)
	balance := svc.TotalAmount - svc.PaidAmount

	if err := ss.repo.UpdateServicePayment(
		serviceLogID, svc.PaidAmount, models.StatusCompleted, completedOn, balance, svc.PaymentStatus,
	); err != nil {
		return nil, err
	}

	if err := ss.repo.UpdateVehicleService(svc.RegNumber, completedOn, svc.CurrentReading); err != nil {
		return nil, err
	}

	if ss.autoSync != nil {
		ss.autoSync.AutoSyncAsync()
	}

	return ss.repo.GetServiceLog(serviceLogID)
}

// AddPart appends a line item to an open service. Parts are immutable
// once created; the quoted total stays as set at intake.
func (ss *ServiceLogService) AddPart(serviceLogID int64, partName string, amount float64) error {
	svc, err := ss.repo.GetServiceLog(serviceLogID)
	if err != nil {
		return err
	}
	if svc == nil {
		return ErrServiceNotFound
	}
	if svc.Status == models.StatusCompleted {
		return ErrServiceCompleted
	}

	if err := ss.repo.AddServicePart(serviceLogID, partName, amount); err != nil {
		return err
	}

	if ss.autoSync != nil {
		ss.autoSync.AutoSyncAsync()
	}
	return nil
}

// ListInProgress returns the working queue, newest first.
func (ss *ServiceLogService) ListInProgress() ([]models.ServiceLog, error) {
	return ss.repo.ListInProgressServices()
}

// History returns a vehicle's services, newest first, with parts attached.
func (ss *ServiceLogService) History(regNumber string) ([]models.ServiceLog, map[int64][]models.ServicePart, error) {
	vehicle, err := ss.repo.GetVehicleByReg(regNumber)
	if err != nil {
		return nil, nil, err
	}
	if vehicle == nil {
		return nil, nil, ErrVehicleNotFound
	}

	logs, err := ss.repo.ListServicesByReg(vehicle.RegNumber)
	if err != nil {
		return nil, nil, err
	}

	parts := make(map[int64][]models.ServicePart, len(logs))
	for _, svc := range logs {
		p, err := ss.repo.GetServiceParts(svc.ServiceLogID)
		if err != nil {
			return nil, nil, err
		}
		parts[svc.ServiceLogID] = p
	}
	return logs, parts, nil
}

// Parts returns the line items of one service.
func (ss *ServiceLogService) Parts(serviceLogID int64) ([]models.ServicePart, error) {
	svc, err := ss.repo.GetServiceLog(serviceLogID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	return ss.repo.GetServiceParts(serviceLogID)
}
