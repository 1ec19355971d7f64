package database

import "bikebuilders/models"

// CreateCommonService adds a catalog entry. Duplicate names return
// ErrConflict.
func (r *Repository) CreateCommonService(serviceName string, defaultAmount float64) (int64, error) {
	result, err := r.db.Exec(
		`INSERT INTO CommonServices (ServiceName, DefaultAmount) VALUES (?, ?)`,
		serviceName, defaultAmount,
	)
	if err != nil {
		return 0, mapSQLiteError(err)
	}
	return result.LastInsertId()
}

func (r *Repository) UpdateCommonService(serviceID int64, serviceName string, defaultAmount float64) error {
	result, err := r.db.Exec(
		`UPDATE CommonServices SET ServiceName = ?, DefaultAmount = ? WHERE ServiceID = ?`,
		serviceName, defaultAmount, serviceID,
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

// DeleteCommonService removes a catalog entry unconditionally. Service
// parts hold copies of the name and amount, never references, so no
// cascade check is needed.
func (r *Repository) DeleteCommonService(serviceID int64) error {
	result, err := r.db.Exec(`DELETE FROM CommonServices WHERE ServiceID = ?`, serviceID)
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

func (r *Repository) ListCommonServices() ([]models.CommonService, error) {
	rows, err := r.db.Query(
		`SELECT ServiceID, ServiceName, DefaultAmount FROM CommonServices ORDER BY ServiceName`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	catalog := make([]models.CommonService, 0)
	for rows.Next() {
		var cs models.CommonService
		if err := rows.Scan(&cs.ServiceID, &cs.ServiceName, &cs.DefaultAmount); err != nil {
			return nil, err
		}
		catalog = append(catalog, cs)
	}
	return catalog, rows.Err()
}
