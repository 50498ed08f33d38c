package repository

import (
	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

const locationColumns = `id, name, min_staff, max_staff, priority, is_active, version`

func scanLocation(row interface{ Scan(...any) error }) (*domain.Location, error) {
	var loc domain.Location
	dst := []any{
		&loc.ID,
		&loc.Name,
		&loc.MinStaff,
		&loc.MaxStaff,
		&loc.Priority,
		&loc.IsActive,
		&loc.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *Repository) CreateLocation(loc *domain.Location) error {
	query := `
		INSERT INTO locations (name, min_staff, max_staff, priority, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{loc.Name, loc.MinStaff, loc.MaxStaff, loc.Priority, loc.IsActive}
	dst := []any{&loc.ID, &loc.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetLocationByID(id int64) (*domain.Location, error) {
	query := `
		SELECT ` + locationColumns + `
		FROM locations
		WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	return scanLocation(r.dbpool.QueryRowContext(ctx, query, id))
}

// GetActiveLocations returns open locations ordered by priority, highest
// first, which is also the order the generator staffs them in.
func (r *Repository) GetActiveLocations() ([]*domain.Location, error) {
	query := `
		SELECT ` + locationColumns + `
		FROM locations
		WHERE is_active = TRUE
		ORDER BY priority DESC, name
	`
	return r.queryLocations(query)
}

func (r *Repository) GetAllLocations() ([]*domain.Location, error) {
	query := `
		SELECT ` + locationColumns + `
		FROM locations
		ORDER BY priority DESC, name
	`
	return r.queryLocations(query)
}

func (r *Repository) queryLocations(query string, args ...any) ([]*domain.Location, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := []*domain.Location{}
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return locations, nil
}

func (r *Repository) UpdateLocation(loc *domain.Location) error {
	query := `
		UPDATE locations
		SET name = $1, min_staff = $2, max_staff = $3, priority = $4, is_active = $5, version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{loc.Name, loc.MinStaff, loc.MaxStaff, loc.Priority, loc.IsActive, loc.ID, loc.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&loc.Version); err != nil {
		return err
	}

	return nil
}
