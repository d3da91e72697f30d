package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostlake/snowgate/internal/domain"
	"github.com/frostlake/snowgate/pkg/database"
	apperrors "github.com/frostlake/snowgate/pkg/errors"
)

var userColumns = []string{"id", "email", "name", "time_to_live", "date_added"}

func TestUpsert_InsertsAndReturnsStoredRow(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	added := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	user := &domain.User{
		ID:         "8c2f0a1e-1111-2222-3333-444455556666",
		Email:      "alice@frostlake.io",
		Name:       "Alice",
		TimeToLive: "2026-03-01 11:00:00",
	}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.ID, user.Email, user.Name, user.TimeToLive).
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(user.ID, user.Email, user.Name, user.TimeToLive, added))

	stored, err := repo.Upsert(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, user.Email, stored.Email)
	assert.Equal(t, added, stored.DateAdded)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_ConflictRefreshesExistingRow(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	originalAdded := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

	user := &domain.User{
		ID:         "new-candidate-id",
		Email:      "alice@frostlake.io",
		Name:       "Alice B",
		TimeToLive: "2026-03-02 11:00:00",
	}

	// Existing row keeps its id and date_added; name and ttl are refreshed.
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.ID, user.Email, user.Name, user.TimeToLive).
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow("original-id", user.Email, "Alice B", user.TimeToLive, originalAdded))

	stored, err := repo.Upsert(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "original-id", stored.ID)
	assert.Equal(t, "Alice B", stored.Name)
	assert.Equal(t, originalAdded, stored.DateAdded)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail_NotFound(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery("SELECT id, email, name, time_to_live, date_added").
		WithArgs("ghost@frostlake.io").
		WillReturnRows(pgxmock.NewRows(userColumns))

	_, err = repo.FindByEmail(context.Background(), "ghost@frostlake.io")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFindByEmail_ReturnsUser(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	added := time.Date(2026, 2, 1, 8, 30, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, email, name, time_to_live, date_added").
		WithArgs("bob@frostlake.io").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow("bob-id", "bob@frostlake.io", "Bob", "2026-02-01 09:30:00", added))

	user, err := repo.FindByEmail(context.Background(), "bob@frostlake.io")
	require.NoError(t, err)
	assert.Equal(t, "Bob", user.Name)
	assert.Equal(t, "2026-02-01 09:30:00", user.TimeToLive)
}

func TestListAll_OrderedOldestFirst(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, email, name, time_to_live, date_added").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow("a", "a@frostlake.io", "A", "2026-01-01 01:00:00", t1).
			AddRow("b", "b@frostlake.io", "B", "2026-02-01 01:00:00", t2))

	users, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "a@frostlake.io", users[0].Email)
	assert.Equal(t, "b@frostlake.io", users[1].Email)
}

func TestListAll_EmptyDirectory(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery("SELECT id, email, name, time_to_live, date_added").
		WillReturnRows(pgxmock.NewRows(userColumns))

	users, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestDeleteByEmail_RemovesRow(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectExec("DELETE FROM users").
		WithArgs("alice@frostlake.io").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err = repo.DeleteByEmail(context.Background(), "alice@frostlake.io")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByEmail_UnknownEmail(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectExec("DELETE FROM users").
		WithArgs("ghost@frostlake.io").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = repo.DeleteByEmail(context.Background(), "ghost@frostlake.io")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteByEmail_DatabaseError(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectExec("DELETE FROM users").
		WithArgs("alice@frostlake.io").
		WillReturnError(errors.New("connection reset"))

	err = repo.DeleteByEmail(context.Background(), "alice@frostlake.io")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}
