package database

import (
	"bikebuilders/models"
	"database/sql"
	"fmt"
)

// CaptureSnapshot reads every collection plus the profile in one pass.
// Reads are not wrapped in a transaction: the store is single-writer, so
// a concurrent mutation mid-capture is tolerated rather than locked out.
func (r *Repository) CaptureSnapshot() (*models.Snapshot, error) {
	customers, err := r.allCustomers()
	if err != nil {
		return nil, fmt.Errorf("capture customers: %w", err)
	}
	vehicles, err := r.allVehicles()
	if err != nil {
		return nil, fmt.Errorf("capture vehicles: %w", err)
	}
	services, err := r.allServices()
	if err != nil {
		return nil, fmt.Errorf("capture services: %w", err)
	}
	parts, err := r.allServiceParts()
	if err != nil {
		return nil, fmt.Errorf("capture service parts: %w", err)
	}
	catalog, err := r.ListCommonServices()
	if err != nil {
		return nil, fmt.Errorf("capture common services: %w", err)
	}
	info, err := r.GetUserInfo()
	if err != nil {
		return nil, fmt.Errorf("capture user info: %w", err)
	}

	return &models.Snapshot{
		Version:        models.SnapshotVersion,
		Customers:      customers,
		Vehicles:       vehicles,
		Services:       services,
		ServiceParts:   parts,
		CommonServices: catalog,
		UserInfo:       info,
	}, nil
}

// RestoreSnapshot destructively replaces the whole dataset inside one
// transaction; a failure partway rolls back to the prior dataset.
//
// Re-inserted rows get fresh store identities. Customer IDs are remapped
// onto vehicles through each vehicle's CustomerID, and service IDs are
// remapped onto parts through an old-to-new table built during insertion.
// Parts whose service is absent from the snapshot are skipped.
func (r *Repository) RestoreSnapshot(snap *models.Snapshot) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Children before parents.
	for _, table := range []string{"ServiceParts", "Services", "Vehicles", "Customers", "CommonServices"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("restore: clear %s: %w", table, err)
		}
	}

	customerIDs := make(map[int64]int64, len(snap.Customers))
	for _, c := range snap.Customers {
		result, err := tx.Exec(
			`INSERT INTO Customers (Name, Phone, Address, Email) VALUES (?, ?, ?, ?)`,
			c.Name, nullable(c.Phone), c.Address, nullable(c.Email),
		)
		if err != nil {
			return fmt.Errorf("restore: customer %q: %w", c.Name, mapSQLiteError(err))
		}
		newID, err := result.LastInsertId()
		if err != nil {
			return err
		}
		customerIDs[c.CustomerID] = newID
	}

	for _, v := range snap.Vehicles {
		ownerID, ok := customerIDs[v.CustomerID]
		if !ok {
			return fmt.Errorf("restore: vehicle %s references missing customer %d: %w", v.RegNumber, v.CustomerID, ErrNotFound)
		}
		if _, err := tx.Exec(
			`INSERT INTO Vehicles (RegNumber, CustomerID, VehicleName, LastServiceDate, LastReading, ReminderDays)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			v.RegNumber, ownerID, v.VehicleName, v.LastServiceDate, v.LastReading, v.ReminderDays,
		); err != nil {
			return fmt.Errorf("restore: vehicle %s: %w", v.RegNumber, mapSQLiteError(err))
		}
	}

	serviceIDs := make(map[int64]int64, len(snap.Services))
	for _, s := range snap.Services {
		result, err := tx.Exec(
			`INSERT INTO Services (RegNumber, TimestampKey, CurrentReading, TotalAmount,
			                       PaymentStatus, PaidAmount, Status, CompletedOn, OutstandingBalance, StartedOn)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.RegNumber, s.TimestampKey, s.CurrentReading, s.TotalAmount,
			s.PaymentStatus, s.PaidAmount, s.Status, s.CompletedOn, s.OutstandingBalance, s.StartedOn,
		)
		if err != nil {
			return fmt.Errorf("restore: service for %s: %w", s.RegNumber, mapSQLiteError(err))
		}
		newID, err := result.LastInsertId()
		if err != nil {
			return err
		}
		serviceIDs[s.ServiceLogID] = newID
	}

	for _, p := range snap.ServiceParts {
		newID, ok := serviceIDs[p.ServiceLogID]
		if !ok {
			// Legacy exports can carry parts whose service was lost to the
			// pre-remap identity bug. Dropping them beats dangling FKs.
			continue
		}
		if _, err := tx.Exec(
			`INSERT INTO ServiceParts (ServiceLogID, PartName, Amount) VALUES (?, ?, ?)`,
			newID, p.PartName, p.Amount,
		); err != nil {
			return fmt.Errorf("restore: part %q: %w", p.PartName, mapSQLiteError(err))
		}
	}

	for _, cs := range snap.CommonServices {
		if _, err := tx.Exec(
			`INSERT INTO CommonServices (ServiceName, DefaultAmount) VALUES (?, ?)`,
			cs.ServiceName, cs.DefaultAmount,
		); err != nil {
			return fmt.Errorf("restore: common service %q: %w", cs.ServiceName, mapSQLiteError(err))
		}
	}

	if snap.UserInfo != nil {
		if _, err := tx.Exec(
			`UPDATE UserInfo SET Name = ?, Email = ?, PhoneNumber = ?, GarageName = ?, Address = ? WHERE UserID = 1`,
			snap.UserInfo.Name, snap.UserInfo.Email, snap.UserInfo.PhoneNumber,
			snap.UserInfo.GarageName, snap.UserInfo.Address,
		); err != nil {
			return fmt.Errorf("restore: user info: %w", err)
		}
	}

	return tx.Commit()
}

func (r *Repository) allCustomers() ([]models.Customer, error) {
	rows, err := r.db.Query(`SELECT CustomerID, Name, Phone, Address, Email FROM Customers ORDER BY CustomerID`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]models.Customer, 0)
	for rows.Next() {
		var c models.Customer
		var phone, address, email sql.NullString
		if err := rows.Scan(&c.CustomerID, &c.Name, &phone, &address, &email); err != nil {
			return nil, err
		}
		c.Phone = stringOrEmpty(phone)
		c.Address = stringOrEmpty(address)
		c.Email = stringOrEmpty(email)
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *Repository) allVehicles() ([]models.Vehicle, error) {
	rows, err := r.db.Query(
		`SELECT RegNumber, CustomerID, VehicleName, LastServiceDate, LastReading, ReminderDays
		 FROM Vehicles ORDER BY RegNumber`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := make([]models.Vehicle, 0)
	for rows.Next() {
		var v models.Vehicle
		var lastService sql.NullString
		if err := rows.Scan(&v.RegNumber, &v.CustomerID, &v.VehicleName, &lastService, &v.LastReading, &v.ReminderDays); err != nil {
			return nil, err
		}
		v.LastServiceDate = stringOrEmpty(lastService)
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *Repository) allServices() ([]models.ServiceLog, error) {
	rows, err := r.db.Query(
		`SELECT ServiceLogID, RegNumber, TimestampKey, CurrentReading, TotalAmount,
		        PaymentStatus, PaidAmount, Status, CompletedOn, OutstandingBalance, StartedOn
		 FROM Services ORDER BY TimestampKey`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanServiceLogs(rows, false)
}

func (r *Repository) allServiceParts() ([]models.ServicePart, error) {
	rows, err := r.db.Query(`SELECT PartLogID, ServiceLogID, PartName, Amount FROM ServiceParts ORDER BY PartLogID`)
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
