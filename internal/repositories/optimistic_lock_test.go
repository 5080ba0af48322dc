package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

// racingStore bumps the stored version behind the caller's back for the
// first `races` loads, simulating a concurrent writer.
type racingStore struct {
	unit   models.Unit
	races  int
	loads  int
	writes int
}

func (s *racingStore) load(_ context.Context, id uuid.UUID) (*models.Unit, error) {
	s.loads++
	if id != s.unit.ID {
		return nil, nil
	}
	cp := s.unit
	if s.races > 0 {
		s.races--
		s.unit.RowVersion++
	}
	return &cp, nil
}

func (s *racingStore) update(_ context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error) {
	if s.unit.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	s.writes++
	s.unit = *u
	s.unit.RowVersion = expected + 1
	return pgconn.CommandTag("UPDATE 1"), nil
}

func newRacingStore(races int) *racingStore {
	s := &racingStore{races: races}
	s.unit.ID = uuid.New()
	s.unit.Status = models.UnitStatusVacant
	s.unit.RowVersion = 1
	return s
}

func TestUpdateVersioned(t *testing.T) {
	utils.SilenceLogger()
	ctx := context.Background()
	tenant := uuid.New()
	occupy := func(u *models.Unit) error { return u.Occupy(tenant) }

	t.Run("lands after a lost race", func(t *testing.T) {
		s := newRacingStore(1)
		require.NoError(t, UpdateVersioned(ctx, s.unit.ID, s.load, s.update, occupy))
		assert.Equal(t, 2, s.loads)
		assert.Equal(t, 1, s.writes)
		assert.Equal(t, models.UnitStatusOccupied, s.unit.Status)
		assert.Equal(t, int64(3), s.unit.RowVersion)
	})

	t.Run("gives up under constant contention", func(t *testing.T) {
		s := newRacingStore(MaxVersionAttempts)
		err := UpdateVersioned(ctx, s.unit.ID, s.load, s.update, occupy)
		assert.ErrorIs(t, err, utils.ErrRowVersionConflict)
		assert.Equal(t, MaxVersionAttempts, s.loads)
		assert.Zero(t, s.writes)
	})

	t.Run("missing row", func(t *testing.T) {
		s := newRacingStore(0)
		err := UpdateVersioned(ctx, uuid.New(), s.load, s.update, occupy)
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})

	t.Run("mutate error aborts", func(t *testing.T) {
		s := newRacingStore(0)
		boom := errors.New("boom")
		err := UpdateVersioned(ctx, s.unit.ID, s.load, s.update, func(*models.Unit) error { return boom })
		assert.Same(t, boom, err)
		assert.Zero(t, s.writes)
	})
}
