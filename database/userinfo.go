package database

import (
	"bikebuilders/models"
	"database/sql"
)

// GetUserInfo returns the garage profile singleton. The row is seeded at
// migration time, so this never reports a missing row in normal operation.
func (r *Repository) GetUserInfo() (*models.UserInfo, error) {
	var u models.UserInfo
	var name, email, phone, garage, address sql.NullString
	err := r.db.QueryRow(
		`SELECT Name, Email, PhoneNumber, GarageName, Address FROM UserInfo WHERE UserID = 1`,
	).Scan(&name, &email, &phone, &garage, &address)
	if err != nil {
		return nil, err
	}

	u.Name = stringOrEmpty(name)
	u.Email = stringOrEmpty(email)
	u.PhoneNumber = stringOrEmpty(phone)
	u.GarageName = stringOrEmpty(garage)
	u.Address = stringOrEmpty(address)
	return &u, nil
}

func (r *Repository) UpdateUserInfo(info *models.UserInfo) error {
	_, err := r.db.Exec(
		`UPDATE UserInfo SET Name = ?, Email = ?, PhoneNumber = ?, GarageName = ?, Address = ? WHERE UserID = 1`,
		info.Name, info.Email, info.PhoneNumber, info.GarageName, info.Address,
	)
	return err
}
