package settings

import (
	"context"
	"database/sql"

	"github.com/dhanushsit/smart-canteen-system/internal/domain"
)

// The settings table holds a single row (id = 1), seeded by the migrations
// with every meal enabled.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(ctx context.Context) (domain.MealTimings, error) {
	var t domain.MealTimings
	err := r.db.QueryRowContext(ctx, `
		SELECT breakfast, lunch, dinner, snacks
		FROM settings
		WHERE id = 1
	`).Scan(&t.Breakfast, &t.Lunch, &t.Dinner, &t.Snacks)
	return t, err
}

func (r *Repository) Save(ctx context.Context, t domain.MealTimings) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE settings
		SET breakfast = $1, lunch = $2, dinner = $3, snacks = $4
		WHERE id = 1
	`, t.Breakfast, t.Lunch, t.Dinner, t.Snacks)
	return err
}
