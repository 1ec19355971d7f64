package services

import (
	"testing"
	"time"

	"bikebuilders/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==================== MOCKS ====================

// MockServiceLogRepository is a mock implementation of ServiceLogRepository interface
type MockServiceLogRepository struct {
	mock.Mock
}

var _ ServiceLogRepository = (*MockServiceLogRepository)(nil)

func (m *MockServiceLogRepository) GetVehicleByReg(regNumber string) (*models.Vehicle, error) {
	args := m.Called(regNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockServiceLogRepository) UpdateVehicleService(regNumber, lastServiceDate string, lastReading int64) error {
	args := m.Called(regNumber, lastServiceDate, lastReading)
	return args.Error(0)
}

func (m *MockServiceLogRepository) CreateServiceLog(regNumber string, currentReading int64, totalAmount float64, startedOn time.Time) (int64, error) {
	args := m.Called(regNumber, currentReading, totalAmount, startedOn)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockServiceLogRepository) GetServiceLog(serviceLogID int64) (*models.ServiceLog, error) {
	args := m.Called(serviceLogID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceLog), args.Error(1)
}

func (m *MockServiceLogRepository) UpdateServicePayment(serviceLogID int64, paidAmount float64, status, completedOn string, balance float64, paymentStatus string) error {
	args := m.Called(serviceLogID, paidAmount, status, completedOn, balance, paymentStatus)
	return args.Error(0)
}

func (m *MockServiceLogRepository) ListInProgressServices() ([]models.ServiceLog, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ServiceLog), args.Error(1)
}

func (m *MockServiceLogRepository) ListServicesByReg(regNumber string) ([]models.ServiceLog, error) {
	args := m.Called(regNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ServiceLog), args.Error(1)
}

func (m *MockServiceLogRepository) AddServicePart(serviceLogID int64, partName string, amount float64) error {
	args := m.Called(serviceLogID, partName, amount)
	return args.Error(0)
}

func (m *MockServiceLogRepository) GetServiceParts(serviceLogID int64) ([]models.ServicePart, error) {
	args := m.Called(serviceLogID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ServicePart), args.Error(1)
}

// ==================== TESTS ====================

func TestPaymentStatusDerivation(t *testing.T) {
	tests := []struct {
		name  string
		paid  float64
		total float64
		want  string
	}{
		{"nothing paid", 0, 500, models.PaymentPending},
		{"partial payment", 200, 500, models.PaymentPartial},
		{"fully paid", 500, 500, models.PaymentPaid},
		{"zero total", 0, 0, models.PaymentPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paymentStatusFor(tt.paid, tt.total))
		})
	}
}

func TestStartServiceSumsLineItems(t *testing.T) {
	repo := new(MockServiceLogRepository)
	syncer := new(MockAutoSyncer)
	svc := NewServiceLogService(repo, syncer)

	startedAt := time.Now()
	req := &models.StartServiceRequest{
		RegNumber:      "KA01AB1234",
		CurrentReading: 12000,
		Items: []models.ServiceLineItem{
			{PartName: "Oil Change", Amount: 500},
			{PartName: "Brake Pad", Amount: 250},
		},
	}

	created := &models.ServiceLog{
		ServiceLogID: 3, RegNumber: "KA01AB1234", TotalAmount: 750,
		Status: models.StatusInProgress, PaymentStatus: models.PaymentPending,
	}

	repo.On("GetVehicleByReg", "KA01AB1234").Return(&models.Vehicle{RegNumber: "KA01AB1234"}, nil)
	repo.On("CreateServiceLog", "KA01AB1234", int64(12000), 750.0, startedAt).Return(int64(3), nil)
	repo.On("AddServicePart", int64(3), "Oil Change", 500.0).Return(nil)
	repo.On("AddServicePart", int64(3), "Brake Pad", 250.0).Return(nil)
	repo.On("GetServiceLog", int64(3)).Return(created, nil)
	syncer.On("AutoSyncAsync").Return()

	log, err := svc.Start(req, startedAt)

	require.NoError(t, err)
	assert.Equal(t, 750.0, log.TotalAmount)
	repo.AssertExpectations(t)
	syncer.AssertExpectations(t)
}

func TestStartServiceUnknownVehicle(t *testing.T) {
	repo := new(MockServiceLogRepository)
	svc := NewServiceLogService(repo, nil)

	repo.On("GetVehicleByReg", "ZZ99ZZ9999").Return(nil, nil)

	_, err := svc.Start(&models.StartServiceRequest{
		RegNumber: "ZZ99ZZ9999",
		Items:     []models.ServiceLineItem{{PartName: "Oil Change", Amount: 500}},
	}, time.Now())

	assert.ErrorIs(t, err, ErrVehicleNotFound)
	repo.AssertNotCalled(t, "CreateServiceLog", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordPaymentDerivesStatusAndBalance(t *testing.T) {
	repo := new(MockServiceLogRepository)
	syncer := new(MockAutoSyncer)
	svc := NewServiceLogService(repo, syncer)

	open := &models.ServiceLog{
		ServiceLogID: 3, RegNumber: "KA01AB1234", TotalAmount: 500,
		Status: models.StatusInProgress, PaymentStatus: models.PaymentPending,
	}

	repo.On("GetServiceLog", int64(3)).Return(open, nil)
	repo.On("UpdateServicePayment", int64(3), 200.0, models.StatusInProgress, "", 300.0, models.PaymentPartial).Return(nil)
	syncer.On("AutoSyncAsync").Return()

	_, err := svc.RecordPayment(3, 200)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRecordPaymentRejectsOverpayment(t *testing.T) {
	repo := new(MockServiceLogRepository)
	svc := NewServiceLogService(repo, nil)

	repo.On("GetServiceLog", int64(3)).Return(&models.ServiceLog{ServiceLogID: 3, TotalAmount: 500}, nil)

	_, err := svc.RecordPayment(3, 600)

	assert.ErrorIs(t, err, ErrOverpayment)
	repo.AssertNotCalled(t, "UpdateServicePayment",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordPaymentPreservesLifecycleStatus(t *testing.T) {
	repo := new(MockServiceLogRepository)
	svc := NewServiceLogService(repo, nil)

	completedOn := "2026-08-30T10:00:00Z"
	done := &models.ServiceLog{
		ServiceLogID: 3, TotalAmount: 500, PaidAmount: 200,
		Status: models.StatusCompleted, CompletedOn: completedOn,
		PaymentStatus: models.PaymentPartial,
	}

	repo.On("GetServiceLog", int64(3)).Return(done, nil)
	repo.On("UpdateServicePayment", int64(3), 500.0, models.StatusCompleted, completedOn, 0.0, models.PaymentPaid).Return(nil)

	_, err := svc.RecordPayment(3, 500)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCompleteServiceRollsUpOntoVehicle(t *testing.T) {
	repo := new(MockServiceLogRepository)
	syncer := new(MockAutoSyncer)
	svc := NewServiceLogService(repo, syncer)

	completedAt := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	completedOn := completedAt.Format(time.RFC3339)

	open := &models.ServiceLog{
		ServiceLogID: 3, RegNumber: "KA01AB1234", CurrentReading: 12000,
		TotalAmount: 500, PaidAmount: 500, PaymentStatus: models.PaymentPaid,
		Status: models.StatusInProgress,
	}

	repo.On("GetServiceLog", int64(3)).Return(open, nil)
	repo.On("UpdateServicePayment", int64(3), 500.0, models.StatusCompleted, completedOn, 0.0, models.PaymentPaid).Return(nil)
	repo.On("UpdateVehicleService", "KA01AB1234", completedOn, int64(12000)).Return(nil)
	syncer.On("AutoSyncAsync").Return()

	_, err := svc.Complete(3, completedAt)

	require.NoError(t, err)
	repo.AssertExpectations(t)
	syncer.AssertExpectations(t)
}

func TestCompleteServiceNeverRunsBackward(t *testing.T) {
	repo := new(MockServiceLogRepository)
	svc := NewServiceLogService(repo, nil)

	repo.On("GetServiceLog", int64(3)).Return(&models.ServiceLog{
		ServiceLogID: 3, Status: models.StatusCompleted,
	}, nil)

	_, err := svc.Complete(3, time.Now())

	assert.ErrorIs(t, err, ErrServiceCompleted)
	repo.AssertNotCalled(t, "UpdateVehicleService", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddPartToCompletedServiceRejected(t *testing.T) {
	repo := new(MockServiceLogRepository)
	svc := NewServiceLogService(repo, nil)

	repo.On("GetServiceLog", int64(3)).Return(&models.ServiceLog{
		ServiceLogID: 3, Status: models.StatusCompleted,
	}, nil)

	err := svc.AddPart(3, "Brake Pad", 250)

	assert.ErrorIs(t, err, ErrServiceCompleted)
	repo.AssertNotCalled(t, "AddServicePart", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddPartKeepsQuotedTotal(t *testing.T) {
	repo := new(MockServiceLogRepository)
	syncer := new(MockAutoSyncer)
	svc := NewServiceLogService(repo, syncer)

	repo.On("GetServiceLog", int64(3)).Return(&models.ServiceLog{
		ServiceLogID: 3, Status: models.StatusInProgress, TotalAmount: 500,
	}, nil)
	repo.On("AddServicePart", int64(3), "Brake Pad", 250.0).Return(nil)
	syncer.On("AutoSyncAsync").Return()

	err := svc.AddPart(3, "Brake Pad", 250)

	require.NoError(t, err)
	// The quoted total is fixed at intake; adding a part must not touch it.
	repo.AssertNotCalled(t, "UpdateServicePayment",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestHistoryAttachesParts(t *testing.T) {
	repo := new(MockServiceLogRepository)
	svc := NewServiceLogService(repo, nil)

	logs := []models.ServiceLog{
		{ServiceLogID: 2, RegNumber: "KA01AB1234"},
		{ServiceLogID: 1, RegNumber: "KA01AB1234"},
	}

	repo.On("GetVehicleByReg", "KA01AB1234").Return(&models.Vehicle{RegNumber: "KA01AB1234"}, nil)
	repo.On("ListServicesByReg", "KA01AB1234").Return(logs, nil)
	repo.On("GetServiceParts", int64(2)).Return([]models.ServicePart{{PartLogID: 9, ServiceLogID: 2, PartName: "Oil Change"}}, nil)
	repo.On("GetServiceParts", int64(1)).Return([]models.ServicePart{}, nil)

	got, parts, err := svc.History("KA01AB1234")

	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Len(t, parts[2], 1)
	assert.Empty(t, parts[1])
}
