package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/heybori/cashflow/internal/models"
)

// PostgresRepository implements EntryRepository against the entries table
// created by db.InitPostgres. It is selected when a database DSN is
// configured; the JSON snapshot store remains the default backend.
type PostgresRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresRepository creates a PostgresRepository with the given database
// connection. db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

// List fetches all stored entries, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Entry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, type, amount, category, note, date, team, league, program, created_at, updated_at
		  FROM entries
		 ORDER BY date DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(&e.ID, &e.Type, &e.Amount, &e.Category, &e.Note,
			&e.Date, &e.Team, &e.League, &e.Program, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Append inserts one new entry.
func (r *PostgresRepository) Append(ctx context.Context, e models.Entry) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO entries (id, type, amount, category, note, date, team, league, program, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, e.ID, e.Type, e.Amount, e.Category, e.Note, e.Date, e.Team, e.League, e.Program, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// Delete removes an entry by id, reporting whether a row was removed.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete entry: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
