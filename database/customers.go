package database

import (
	"bikebuilders/models"
	"database/sql"
	"errors"
)

// CreateCustomer inserts a customer and returns its store-assigned ID.
// Colliding phone or email returns ErrConflict.
func (r *Repository) CreateCustomer(name, phone, address, email string) (int64, error) {
	result, err := r.db.Exec(
		`INSERT INTO Customers (Name, Phone, Address, Email) VALUES (?, ?, ?, ?)`,
		name, nullable(phone), address, nullable(email),
	)
	if err != nil {
		return 0, mapSQLiteError(err)
	}
	return result.LastInsertId()
}

func (r *Repository) GetCustomer(customerID int64) (*models.Customer, error) {
	var c models.Customer
	var phone, address, email sql.NullString
	err := r.db.QueryRow(
		`SELECT CustomerID, Name, Phone, Address, Email FROM Customers WHERE CustomerID = ?`,
		customerID,
	).Scan(&c.CustomerID, &c.Name, &phone, &address, &email)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.Phone = stringOrEmpty(phone)
	c.Address = stringOrEmpty(address)
	c.Email = stringOrEmpty(email)
	return &c, nil
}

// GetCustomerByPhone looks a customer up by their phone number, the natural
// key used when registering a second vehicle for a known owner.
func (r *Repository) GetCustomerByPhone(phone string) (*models.Customer, error) {
	if phone == "" {
		return nil, nil
	}
	var c models.Customer
	var p, address, email sql.NullString
	err := r.db.QueryRow(
		`SELECT CustomerID, Name, Phone, Address, Email FROM Customers WHERE Phone = ?`,
		phone,
	).Scan(&c.CustomerID, &c.Name, &p, &address, &email)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.Phone = stringOrEmpty(p)
	c.Address = stringOrEmpty(address)
	c.Email = stringOrEmpty(email)
	return &c, nil
}

func (r *Repository) UpdateCustomer(customerID int64, name, phone, address, email string) error {
	result, err := r.db.Exec(
		`UPDATE Customers SET Name = ?, Phone = ?, Address = ?, Email = ? WHERE CustomerID = ?`,
		name, nullable(phone), address, nullable(email), customerID,
	)
	if err != nil {
		return mapSQLiteError(err)
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
