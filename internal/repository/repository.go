// Package repository defines persistence contracts for the gateway.
package repository

import (
	"context"

	"github.com/frostlake/snowgate/internal/domain"
)

// UserRepository persists the registered-user directory.
type UserRepository interface {
	// Upsert inserts the user, or refreshes name and time_to_live when the
	// email is already registered. Returns the stored row either way.
	Upsert(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
	DeleteByEmail(ctx context.Context, email string) error
}
