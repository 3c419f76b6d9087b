// Package repository defines the interfaces for the storage layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"accountsvc/internal/domain/entity"
)

// ErrAccountNotFound is returned when no record exists for the requested user_id.
var ErrAccountNotFound = errors.New("account not found")

// ErrAccountExists is returned by Create when the user_id is already taken.
var ErrAccountExists = errors.New("account already exists")

// AccountRepository defines the standard operations for account storage.
// The application layer depends on this interface, not the concrete implementation.
type AccountRepository interface {
	// FindByID retrieves a single account by its user_id.
	FindByID(ctx context.Context, userID string) (*entity.Account, error)

	// Create stores a new account. The existence check and the insert are a
	// single atomic step so concurrent signups for one user_id cannot both win.
	Create(ctx context.Context, account *entity.Account) error

	// UpdateProfile overwrites the nickname and comment of an existing account.
	UpdateProfile(ctx context.Context, userID, nickname, comment string) (*entity.Account, error)

	// Delete removes the account for the given user_id.
	Delete(ctx context.Context, userID string) error
}
