package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"items-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const itemColumns = "id, name, description, is_active, created_at, updated_at"

type pgItemRepository struct {
	db *pgxpool.Pool
}

// NewPgItemRepository creates a new instance of ItemRepository backed by PostgreSQL.
func NewPgItemRepository(db *pgxpool.Pool) domain.ItemRepository {
	return &pgItemRepository{db: db}
}

// withTx runs fn inside its own transaction: commit on success, rollback on
// any error. One transaction scope per repository operation; no automatic
// retries.
func (r *pgItemRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op once committed

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	item := &domain.Item{}
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.IsActive,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Get retrieves a single item by its ID. Absence is reported as (nil, nil),
// never as an error; the service layer decides whether to escalate.
func (r *pgItemRepository) Get(ctx context.Context, id string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	var item *domain.Item
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		found, err := scanItem(tx.QueryRow(ctx, query, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("failed to get item by ID '%s': %w", id, err)
		}
		item = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// List retrieves a pagination window of items, ordered by creation time then
// ID so the order is stable for a fixed store state.
func (r *pgItemRepository) List(ctx context.Context, skip, limit int) ([]*domain.Item, error) {
	query := `
        SELECT ` + itemColumns + `
        FROM items
        ORDER BY created_at, id
        LIMIT $1 OFFSET $2`

	var items []*domain.Item
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, limit, skip)
		if err != nil {
			return fmt.Errorf("failed to list items: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			item, err := scanItem(rows)
			if err != nil {
				return fmt.Errorf("failed to scan item row: %w", err)
			}
			items = append(items, item)
		}
		if err = rows.Err(); err != nil {
			return fmt.Errorf("error iterating item rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Count returns the total number of items irrespective of pagination.
func (r *pgItemRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM items`).Scan(&total); err != nil {
			return fmt.Errorf("failed to count items: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Create inserts a new item under the given ID. Timestamps and is_active are
// assigned by the database. An ID collision surfaces as a Conflict error via
// the primary-key constraint.
func (r *pgItemRepository) Create(ctx context.Context, id string, data *domain.CreateItemRequest) (*domain.Item, error) {
	query := `
        INSERT INTO items (id, name, description)
        VALUES ($1, $2, $3)
        RETURNING ` + itemColumns

	var item *domain.Item
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		created, err := scanItem(tx.QueryRow(ctx, query, id, data.Name, data.Description))
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
				return domain.NewConflict(fmt.Sprintf("item with id '%s' already exists", id)).WithErr(err)
			}
			return fmt.Errorf("failed to create item: %w", err)
		}
		item = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Update mutates only the fields supplied in data and always refreshes
// updated_at. Returns (nil, nil) if the ID is unknown.
func (r *pgItemRepository) Update(ctx context.Context, id string, data *domain.UpdateItemRequest) (*domain.Item, error) {
	setClauses := []string{}
	args := []interface{}{}
	argID := 1

	if data.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argID))
		args = append(args, *data.Name)
		argID++
	}
	if data.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argID))
		args = append(args, *data.Description)
		argID++
	}
	if data.IsActive != nil {
		setClauses = append(setClauses, fmt.Sprintf("is_active = $%d", argID))
		args = append(args, *data.IsActive)
		argID++
	}

	// updated_at refreshes on every mutation, including an empty payload.
	// clock_timestamp() rather than now() so it moves within a transaction.
	setClauses = append(setClauses, "updated_at = clock_timestamp()")
	args = append(args, id)

	query := fmt.Sprintf(`
        UPDATE items
        SET %s
        WHERE id = $%d
        RETURNING `+itemColumns,
		strings.Join(setClauses, ", "), argID)

	var item *domain.Item
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		updated, err := scanItem(tx.QueryRow(ctx, query, args...))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("failed to update item '%s': %w", id, err)
		}
		item = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item by its ID. Returns true if a row was removed,
// false if the ID was unknown.
func (r *pgItemRepository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		commandTag, err := tx.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete item '%s': %w", id, err)
		}
		deleted = commandTag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
