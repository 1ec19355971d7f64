package database

import (
	"testing"
	"time"

	"bikebuilders/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedGarage(t *testing.T, repo *Repository) {
	t.Helper()

	customerID, err := repo.CreateCustomer("Asha", "9876543210", "12 Main St", "asha@example.com")
	require.NoError(t, err)
	require.NoError(t, repo.CreateVehicle("KA01AB1234", customerID, "Splendor", 90))

	serviceID, err := repo.CreateServiceLog("KA01AB1234", 12000, 500, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.AddServicePart(serviceID, "Oil Change", 500))

	_, err = repo.CreateCommonService("Oil Change", 500)
	require.NoError(t, err)

	info, err := repo.GetUserInfo()
	require.NoError(t, err)
	info.GarageName = "Bike Builders"
	require.NoError(t, repo.UpdateUserInfo(info))
}

func TestSnapshotRoundTrip(t *testing.T) {
	source := setupTestRepo(t)
	seedGarage(t, source)

	snap, err := source.CaptureSnapshot()
	require.NoError(t, err)
	assert.Equal(t, models.SnapshotVersion, snap.Version)
	require.Len(t, snap.Customers, 1)
	require.Len(t, snap.Vehicles, 1)
	require.Len(t, snap.Services, 1)
	require.Len(t, snap.ServiceParts, 1)

	target := setupTestRepo(t)
	require.NoError(t, target.RestoreSnapshot(snap))

	vehicle, err := target.GetVehicleByReg("KA01AB1234")
	require.NoError(t, err)
	require.NotNil(t, vehicle)
	assert.Equal(t, "Asha", vehicle.OwnerName)
	assert.Equal(t, "Splendor", vehicle.VehicleName)
	assert.Equal(t, 90, vehicle.ReminderDays)

	history, err := target.ListServicesByReg("KA01AB1234")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 500.0, history[0].TotalAmount)

	parts, err := target.GetServiceParts(history[0].ServiceLogID)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "Oil Change", parts[0].PartName)

	info, err := target.GetUserInfo()
	require.NoError(t, err)
	assert.Equal(t, "Bike Builders", info.GarageName)
}

func TestRestoreReplacesExistingData(t *testing.T) {
	repo := setupTestRepo(t)
	seedGarage(t, repo)

	snap, err := repo.CaptureSnapshot()
	require.NoError(t, err)

	// Mutate after the capture; restore must bring back the captured state.
	otherID, err := repo.CreateCustomer("Ravi", "9999999999", "", "")
	require.NoError(t, err)
	require.NoError(t, repo.CreateVehicle("MH12XYZ999", otherID, "", 0))

	require.NoError(t, repo.RestoreSnapshot(snap))

	gone, err := repo.GetVehicleByReg("MH12XYZ999")
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := repo.GetVehicleByReg("KA01AB1234")
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestRestoreRemapsServicePartLinks(t *testing.T) {
	repo := setupTestRepo(t)

	// Snapshot identities deliberately far from what a fresh store would
	// assign, so a restore that keeps raw IDs instead of remapping fails.
	snap := &models.Snapshot{
		Customers: []models.Customer{
			{CustomerID: 700, Name: "Asha", Phone: "9876543210"},
		},
		Vehicles: []models.Vehicle{
			{RegNumber: "KA01AB1234", CustomerID: 700},
		},
		Services: []models.ServiceLog{
			{
				ServiceLogID: 9000, RegNumber: "KA01AB1234", TimestampKey: 1,
				TotalAmount: 500, PaymentStatus: models.PaymentPending,
				Status: models.StatusInProgress, OutstandingBalance: 500,
			},
		},
		ServiceParts: []models.ServicePart{
			{PartLogID: 1, ServiceLogID: 9000, PartName: "Oil Change", Amount: 500},
			// Orphan from a legacy export; must be dropped, not fail the restore.
			{PartLogID: 2, ServiceLogID: 123456, PartName: "Ghost Part", Amount: 1},
		},
	}

	require.NoError(t, repo.RestoreSnapshot(snap))

	history, err := repo.ListServicesByReg("KA01AB1234")
	require.NoError(t, err)
	require.Len(t, history, 1)

	parts, err := repo.GetServiceParts(history[0].ServiceLogID)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "Oil Change", parts[0].PartName)
}

func TestRestoreFailureRollsBack(t *testing.T) {
	repo := setupTestRepo(t)
	seedGarage(t, repo)

	bad := &models.Snapshot{
		Customers: []models.Customer{{CustomerID: 1, Name: "Ravi"}},
		Vehicles: []models.Vehicle{
			// References a customer the snapshot doesn't carry.
			{RegNumber: "MH12XYZ999", CustomerID: 42},
		},
	}

	err := repo.RestoreSnapshot(bad)
	require.Error(t, err)

	// The prior dataset is intact.
	vehicle, err := repo.GetVehicleByReg("KA01AB1234")
	require.NoError(t, err)
	require.NotNil(t, vehicle)
	assert.Equal(t, "Asha", vehicle.OwnerName)
}
