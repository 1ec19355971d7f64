package database

import (
	"bikebuilders/models"
	"database/sql"
	"errors"
	"time"
)

// CreateVehicle inserts a vehicle for an existing customer. A missing
// customer returns ErrNotFound; a duplicate registration number
// (case-insensitive) returns ErrConflict.
func (r *Repository) CreateVehicle(regNumber string, customerID int64, vehicleName string, reminderDays int) error {
	owner, err := r.GetCustomer(customerID)
	if err != nil {
		return err
	}
	if owner == nil {
		return ErrNotFound
	}

	_, err = r.db.Exec(
		`INSERT INTO Vehicles (RegNumber, CustomerID, VehicleName, LastServiceDate, LastReading, ReminderDays)
		 VALUES (?, ?, ?, '', 0, ?)`,
		regNumber, customerID, vehicleName, reminderDays,
	)
	return mapSQLiteError(err)
}

// GetVehicleByReg finds a vehicle by exact registration number, ignoring
// case, with the owner's contact details joined in for display.
func (r *Repository) GetVehicleByReg(regNumber string) (*models.Vehicle, error) {
	var v models.Vehicle
	var lastService, phone, address, email sql.NullString
	err := r.db.QueryRow(
		`SELECT v.RegNumber, v.CustomerID, v.VehicleName, v.LastServiceDate, v.LastReading, v.ReminderDays,
		        c.Name, c.Phone, c.Address, c.Email
		 FROM Vehicles v
		 JOIN Customers c ON v.CustomerID = c.CustomerID
		 WHERE v.RegNumber = ?`,
		regNumber,
	).Scan(
		&v.RegNumber, &v.CustomerID, &v.VehicleName, &lastService, &v.LastReading, &v.ReminderDays,
		&v.OwnerName, &phone, &address, &email,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	v.LastServiceDate = stringOrEmpty(lastService)
	v.OwnerPhone = stringOrEmpty(phone)
	v.OwnerAddress = stringOrEmpty(address)
	v.OwnerEmail = stringOrEmpty(email)
	return &v, nil
}

// SearchVehicles matches registration numbers by case-insensitive
// substring. Results come back in store order.
func (r *Repository) SearchVehicles(fragment string) ([]models.Vehicle, error) {
	rows, err := r.db.Query(
		`SELECT v.RegNumber, v.CustomerID, v.VehicleName, v.LastServiceDate, v.LastReading, v.ReminderDays,
		        c.Name
		 FROM Vehicles v
		 JOIN Customers c ON v.CustomerID = c.CustomerID
		 WHERE v.RegNumber LIKE ?`,
		"%"+fragment+"%",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := make([]models.Vehicle, 0)
	for rows.Next() {
		var v models.Vehicle
		var lastService sql.NullString
		if err := rows.Scan(
			&v.RegNumber, &v.CustomerID, &v.VehicleName, &lastService, &v.LastReading, &v.ReminderDays,
			&v.OwnerName,
		); err != nil {
			return nil, err
		}
		v.LastServiceDate = stringOrEmpty(lastService)
		vehicles = append(vehicles, v)
	}

	return vehicles, rows.Err()
}

// UpdateVehicleService rolls a completed service up onto the vehicle.
func (r *Repository) UpdateVehicleService(regNumber, lastServiceDate string, lastReading int64) error {
	result, err := r.db.Exec(
		`UPDATE Vehicles SET LastServiceDate = ?, LastReading = ? WHERE RegNumber = ?`,
		lastServiceDate, lastReading, regNumber,
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

// ListVehiclesDueForReminder returns vehicles whose last service is at
// least their reminder interval behind asOf, joined with the owner's
// phone for the SMS collaborator. Vehicles never serviced, or with no
// reminder interval, are excluded.
func (r *Repository) ListVehiclesDueForReminder(asOf time.Time) ([]models.Vehicle, error) {
	rows, err := r.db.Query(
		`SELECT v.RegNumber, v.CustomerID, v.VehicleName, v.LastServiceDate, v.LastReading, v.ReminderDays,
		        c.Name, c.Phone
		 FROM Vehicles v
		 JOIN Customers c ON v.CustomerID = c.CustomerID
		 WHERE v.ReminderDays > 0
		   AND v.LastServiceDate != ''
		   AND datetime(v.LastServiceDate, '+' || v.ReminderDays || ' days') <= datetime(?)
		 ORDER BY v.LastServiceDate ASC`,
		asOf.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := make([]models.Vehicle, 0)
	for rows.Next() {
		var v models.Vehicle
		var lastService, phone sql.NullString
		if err := rows.Scan(
			&v.RegNumber, &v.CustomerID, &v.VehicleName, &lastService, &v.LastReading, &v.ReminderDays,
			&v.OwnerName, &phone,
		); err != nil {
			return nil, err
		}
		v.LastServiceDate = stringOrEmpty(lastService)
		v.OwnerPhone = stringOrEmpty(phone)
		vehicles = append(vehicles, v)
	}

	return vehicles, rows.Err()
}
