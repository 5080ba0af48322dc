package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

// MaxVersionAttempts bounds the read-mutate-write loop in UpdateVersioned.
const MaxVersionAttempts = 3

// Versioned is a row guarded by a row_version column. T is a pointer type,
// so the zero value means "not found".
type Versioned interface {
	comparable
	GetRowVersion() int64
	SetRowVersion(int64)
}

type LoadFunc[T Versioned] func(ctx context.Context, id uuid.UUID) (T, error)

// ConditionalUpdateFunc writes entity only if its stored row_version still
// equals expected, and bumps the version in the same statement.
type ConditionalUpdateFunc[T Versioned] func(ctx context.Context, entity T, expected int64) (pgconn.CommandTag, error)

// UpdateVersioned re-reads the row and re-applies mutate until a
// conditional write lands. A mutate error aborts the loop and is returned
// unchanged; a missing row yields pgx.ErrNoRows.
func UpdateVersioned[T Versioned](
	ctx context.Context,
	id uuid.UUID,
	load LoadFunc[T],
	update ConditionalUpdateFunc[T],
	mutate func(T) error,
) error {
	var zero T
	for attempt := 1; attempt <= MaxVersionAttempts; attempt++ {
		current, err := load(ctx, id)
		if err != nil {
			return err
		}
		if current == zero {
			return pgx.ErrNoRows
		}

		seen := current.GetRowVersion()
		if err := mutate(current); err != nil {
			return err
		}

		tag, err := update(ctx, current, seen)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 1 {
			current.SetRowVersion(seen + 1)
			return nil
		}
		utils.Logger.Debugf("row_version %d of %s is stale (attempt %d)", seen, id, attempt)
	}
	return fmt.Errorf("updating %s: %w", id, utils.ErrRowVersionConflict)
}
