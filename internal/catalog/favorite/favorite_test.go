// Copyright (c) 2026 Fermata. All rights reserved.

package favorite_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fermata-app/fermata/internal/catalog/favorite"
	"github.com/fermata-app/fermata/internal/platform/apperr"
)

// memoryRepository reproduces the unique-pair semantics of the real store:
// one row per (user, piece) for the whole lifetime of the bookmark.
type memoryRepository struct {
	rows   map[int]*favorite.Favorite
	nextID int

	// insertConflicts simulates losing the unique-index race N times.
	insertConflicts int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: map[int]*favorite.Favorite{}, nextID: 1}
}

func (m *memoryRepository) FindByUserAndPiece(ctx context.Context, userID, pieceID int) (*favorite.Favorite, error) {
	for _, row := range m.rows {
		if row.UserID == userID && row.PieceID == pieceID {
			return row, nil
		}
	}
	return nil, apperr.NotFound("Favorite")
}

func (m *memoryRepository) Insert(ctx context.Context, f *favorite.Favorite) error {
	if m.insertConflicts > 0 {
		m.insertConflicts--
		m.seed(f.UserID, f.PieceID, false)
		return apperr.Conflict("Resource already exists")
	}
	f.ID = m.nextID
	m.nextID++
	f.CreatedAt = time.Now()
	m.rows[f.ID] = f
	return nil
}

func (m *memoryRepository) Reactivate(ctx context.Context, id int) error {
	row, ok := m.rows[id]
	if !ok {
		return apperr.NotFound("Favorite")
	}
	row.DeletedAt = nil
	return nil
}

func (m *memoryRepository) SoftDelete(ctx context.Context, id int) error {
	row, ok := m.rows[id]
	if !ok {
		return apperr.NotFound("Favorite")
	}
	now := time.Now()
	row.DeletedAt = &now
	return nil
}

func (m *memoryRepository) CountByPiece(ctx context.Context, pieceID int) (int, error) {
	count := 0
	for _, row := range m.rows {
		if row.PieceID == pieceID && row.IsActive() {
			count++
		}
	}
	return count, nil
}

func (m *memoryRepository) ListByUser(ctx context.Context, userID int) ([]*favorite.Favorite, error) {
	var out []*favorite.Favorite
	for _, row := range m.rows {
		if row.UserID == userID && row.IsActive() {
			out = append(out, row)
		}
	}
	return out, nil
}

// seed plants a row directly, bypassing the service.
func (m *memoryRepository) seed(userID, pieceID int, deleted bool) *favorite.Favorite {
	row := &favorite.Favorite{ID: m.nextID, UserID: userID, PieceID: pieceID, CreatedAt: time.Now()}
	m.nextID++
	if deleted {
		now := time.Now()
		row.DeletedAt = &now
	}
	m.rows[row.ID] = row
	return row
}

func testService(repo favorite.Repository) *favorite.Service {
	return favorite.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestService_Add_InsertsFirstTime creates a fresh row for an unseen pair.
*/
func TestService_Add_InsertsFirstTime(t *testing.T) {
	repo := newMemoryRepository()

	added, err := testService(repo).Add(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.True(t, added.IsActive())

	count, err := repo.CountByPiece(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

/*
TestService_Add_Idempotent returns the existing active row unchanged on a
repeated add.
*/
func TestService_Add_Idempotent(t *testing.T) {
	repo := newMemoryRepository()
	service := testService(repo)

	first, err := service.Add(context.Background(), 1, 10)
	require.NoError(t, err)

	second, err := service.Add(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	count, err := repo.CountByPiece(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

/*
TestService_Toggle_KeepsRowIdentity reactivates the soft-deleted row instead
of inserting a second one, so the row id stays stable across toggles.
*/
func TestService_Toggle_KeepsRowIdentity(t *testing.T) {
	repo := newMemoryRepository()
	service := testService(repo)

	added, err := service.Add(context.Background(), 1, 10)
	require.NoError(t, err)

	require.NoError(t, service.Remove(context.Background(), 1, 10))
	count, err := repo.CountByPiece(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	again, err := service.Add(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, added.ID, again.ID)
	assert.True(t, again.IsActive())
	assert.Len(t, repo.rows, 1)
}

/*
TestService_Remove_AbsentIsNoop treats removing a missing or already removed
favorite as success.
*/
func TestService_Remove_AbsentIsNoop(t *testing.T) {
	repo := newMemoryRepository()
	service := testService(repo)

	require.NoError(t, service.Remove(context.Background(), 1, 10))

	repo.seed(1, 20, true)
	require.NoError(t, service.Remove(context.Background(), 1, 20))
}

/*
TestService_Add_RetriesAfterLostRace resolves a concurrent duplicate insert
by reactivating the row the winner created.
*/
func TestService_Add_RetriesAfterLostRace(t *testing.T) {
	repo := newMemoryRepository()
	repo.insertConflicts = 1

	added, err := testService(repo).Add(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.True(t, added.IsActive())
	assert.Len(t, repo.rows, 1)
}

/*
TestService_ListByUser only surfaces active favorites.
*/
func TestService_ListByUser(t *testing.T) {
	repo := newMemoryRepository()
	repo.seed(1, 10, false)
	repo.seed(1, 20, true)
	repo.seed(2, 10, false)

	mine, err := testService(repo).ListByUser(context.Background(), 1)

	require.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, 10, mine[0].PieceID)
}
