// Package postgres implements the repository contracts on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/frostlake/snowgate/internal/domain"
	"github.com/frostlake/snowgate/pkg/database"
	apperrors "github.com/frostlake/snowgate/pkg/errors"
)

// UserRepository stores users in PostgreSQL.
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a PostgreSQL-backed user repository.
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert inserts or refreshes a user keyed by email in a single statement, so
// concurrent registrations for the same address cannot race.
func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (id, email, name, time_to_live)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name, time_to_live = EXCLUDED.time_to_live
		RETURNING id, email, name, time_to_live, date_added`

	var stored domain.User
	err := r.db.QueryRow(ctx, query, user.ID, user.Email, user.Name, user.TimeToLive).
		Scan(&stored.ID, &stored.Email, &stored.Name, &stored.TimeToLive, &stored.DateAdded)
	if err != nil {
		return nil, apperrors.Wrap(err, "upsert user")
	}

	return &stored, nil
}

// FindByEmail returns the user for the given address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, name, time_to_live, date_added
		FROM users
		WHERE email = $1`

	var user domain.User
	err := r.db.QueryRow(ctx, query, email).
		Scan(&user.ID, &user.Email, &user.Name, &user.TimeToLive, &user.DateAdded)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user", email)
		}
		return nil, apperrors.Wrap(err, "find user by email")
	}

	return &user, nil
}

// ListAll returns every registered user, oldest registration first.
func (r *UserRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT id, email, name, time_to_live, date_added
		FROM users
		ORDER BY date_added, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "list users")
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.TimeToLive, &user.DateAdded); err != nil {
			return nil, apperrors.Wrap(err, "scan user row")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "iterate user rows")
	}

	return users, nil
}

// DeleteByEmail removes the user for the given address.
func (r *UserRepository) DeleteByEmail(ctx context.Context, email string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE email = $1`, email)
	if err != nil {
		return apperrors.Wrap(err, fmt.Sprintf("delete user %s", email))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("user", email)
	}
	return nil
}
