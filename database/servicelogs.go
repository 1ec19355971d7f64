package database

import (
	"bikebuilders/models"
	"database/sql"
	"errors"
	"time"
)

// CreateServiceLog opens a service for a vehicle and returns its ID. The
// sort key is derived from creation time and bumped when two services are
// created inside the same millisecond, so ordering stays strict.
func (r *Repository) CreateServiceLog(regNumber string, currentReading int64, totalAmount float64, startedOn time.Time) (int64, error) {
	key := time.Now().UnixMilli()

	var lastKey sql.NullInt64
	if err := r.db.QueryRow(`SELECT MAX(TimestampKey) FROM Services`).Scan(&lastKey); err != nil {
		return 0, err
	}
	if lastKey.Valid && key <= lastKey.Int64 {
		key = lastKey.Int64 + 1
	}

	result, err := r.db.Exec(
		`INSERT INTO Services (RegNumber, TimestampKey, CurrentReading, TotalAmount, OutstandingBalance, StartedOn)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		regNumber, key, currentReading, totalAmount, totalAmount, startedOn.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, mapSQLiteError(err)
	}
	return result.LastInsertId()
}

func (r *Repository) GetServiceLog(serviceLogID int64) (*models.ServiceLog, error) {
	var s models.ServiceLog
	var completedOn, startedOn sql.NullString
	err := r.db.QueryRow(
		`SELECT ServiceLogID, RegNumber, TimestampKey, CurrentReading, TotalAmount,
		        PaymentStatus, PaidAmount, Status, CompletedOn, OutstandingBalance, StartedOn
		 FROM Services WHERE ServiceLogID = ?`,
		serviceLogID,
	).Scan(
		&s.ServiceLogID, &s.RegNumber, &s.TimestampKey, &s.CurrentReading, &s.TotalAmount,
		&s.PaymentStatus, &s.PaidAmount, &s.Status, &completedOn, &s.OutstandingBalance, &startedOn,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.CompletedOn = stringOrEmpty(completedOn)
	s.StartedOn = stringOrEmpty(startedOn)
	return &s, nil
}

// UpdateServicePayment applies the single combined payment/status
// mutation. Callers precompute balance and payment status; this operation
// does not recompute them.
func (r *Repository) UpdateServicePayment(serviceLogID int64, paidAmount float64, status, completedOn string, balance float64, paymentStatus string) error {
	result, err := r.db.Exec(
		`UPDATE Services SET PaidAmount = ?, Status = ?, CompletedOn = ?, OutstandingBalance = ?, PaymentStatus = ?
		 WHERE ServiceLogID = ?`,
		paidAmount, status, completedOn, balance, paymentStatus, serviceLogID,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ListInProgressServices returns the working queue, newest first.
func (r *Repository) ListInProgressServices() ([]models.ServiceLog, error) {
	rows, err := r.db.Query(
		`SELECT s.ServiceLogID, s.RegNumber, s.TimestampKey, s.CurrentReading, s.TotalAmount,
		        s.PaymentStatus, s.PaidAmount, s.Status, s.CompletedOn, s.OutstandingBalance, s.StartedOn,
		        c.Name
		 FROM Services s
		 JOIN Vehicles v ON s.RegNumber = v.RegNumber
		 JOIN Customers c ON v.CustomerID = c.CustomerID
		 WHERE s.Status = ?
		 ORDER BY s.TimestampKey DESC`,
		models.StatusInProgress,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanServiceLogs(rows, true)
}

// ListServicesByReg returns a vehicle's full service history, newest first.
func (r *Repository) ListServicesByReg(regNumber string) ([]models.ServiceLog, error) {
	rows, err := r.db.Query(
		`SELECT ServiceLogID, RegNumber, TimestampKey, CurrentReading, TotalAmount,
		        PaymentStatus, PaidAmount, Status, CompletedOn, OutstandingBalance, StartedOn
		 FROM Services WHERE RegNumber = ? ORDER BY TimestampKey DESC`,
		regNumber,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanServiceLogs(rows, false)
}

func scanServiceLogs(rows *sql.Rows, withOwner bool) ([]models.ServiceLog, error) {
	services := make([]models.ServiceLog, 0)
	for rows.Next() {
		var s models.ServiceLog
		var completedOn, startedOn sql.NullString
		dest := []any{
			&s.ServiceLogID, &s.RegNumber, &s.TimestampKey, &s.CurrentReading, &s.TotalAmount,
			&s.PaymentStatus, &s.PaidAmount, &s.Status, &completedOn, &s.OutstandingBalance, &startedOn,
		}
		if withOwner {
			dest = append(dest, &s.OwnerName)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		s.CompletedOn = stringOrEmpty(completedOn)
		s.StartedOn = stringOrEmpty(startedOn)
		services = append(services, s)
	}
	return services, rows.Err()
}

// AddServicePart appends an immutable line item to a service. There is no
// update or standalone delete for parts.
func (r *Repository) AddServicePart(serviceLogID int64, partName string, amount float64) error {
	svc, err := r.GetServiceLog(serviceLogID)
	if err != nil {
		return err
	}
	if svc == nil {
		return ErrNotFound
	}

	_, err = r.db.Exec(
		`INSERT INTO ServiceParts (ServiceLogID, PartName, Amount) VALUES (?, ?, ?)`,
		serviceLogID, partName, amount,
	)
	return mapSQLiteError(err)
}

func (r *Repository) GetServiceParts(serviceLogID int64) ([]models.ServicePart, error) {
	rows, err := r.db.Query(
		`SELECT PartLogID, ServiceLogID, PartName, Amount FROM ServiceParts WHERE ServiceLogID = ?`,
		serviceLogID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parts := make([]models.ServicePart, 0)
	for rows.Next() {
		var p models.ServicePart
		if err := rows.Scan(&p.PartLogID, &p.ServiceLogID, &p.PartName, &p.Amount); err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}
