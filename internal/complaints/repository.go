package complaints

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dhanushsit/smart-canteen-system/internal/domain"
)

var ErrComplaintNotFound = errors.New("complaint not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]domain.Complaint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, contact, message, photo, created_at, status
		FROM complaints
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var complaints []domain.Complaint
	for rows.Next() {
		var c domain.Complaint
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Contact, &c.Message, &c.Photo, &c.Date, &c.Status); err != nil {
			return nil, err
		}
		complaints = append(complaints, c)
	}

	return complaints, rows.Err()
}

func (r *Repository) Create(ctx context.Context, c *domain.Complaint) error {
	c.ID = fmt.Sprintf("COMP-%d", c.Date.UnixMilli())

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO complaints (id, name, email, contact, message, photo, created_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.Name, c.Email, c.Contact, c.Message, c.Photo, c.Date, c.Status)
	return err
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrComplaintNotFound
	}
	return nil
}
