// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"accountsvc/internal/domain/entity"
)

// --- Input DTOs ---

// SignupInput defines the data required to create a new account.
// Nickname and Comment are optional and stored verbatim when supplied.
type SignupInput struct {
	UserID   string
	Password string
	Nickname *string
	Comment  *string
}

// ProfileField carries the three-way state of one update payload field:
// absent, present as a JSON string, or present with a non-string value.
type ProfileField struct {
	Present  bool
	IsString bool
	Value    string
}

// StringField builds a present string-valued ProfileField.
func StringField(value string) ProfileField {
	return ProfileField{Present: true, IsString: true, Value: value}
}

// UpdateProfileInput defines the parsed update payload. HasUserID and
// HasPassword record key presence regardless of the key's value.
type UpdateProfileInput struct {
	HasUserID   bool
	HasPassword bool
	Nickname    ProfileField
	Comment     ProfileField
}

// --- Output DTOs ---

// SignupOutput returns the newly created account.
type SignupOutput struct {
	Account *entity.Account
}

// AccountUsecase defines the interface for account lifecycle operations.
// This is the contract that the delivery layer (HTTP handlers) depends on.
type AccountUsecase interface {
	// Signup validates and creates a new account.
	Signup(ctx context.Context, input *SignupInput) (*SignupOutput, error)

	// Authenticate resolves Basic credentials to an account. Any failure,
	// including an unknown user_id, yields the same authentication error.
	Authenticate(ctx context.Context, userID, password string) (*entity.Account, error)

	// GetAccount returns the record for targetID. Any authenticated principal
	// may read any record.
	GetAccount(ctx context.Context, targetID string) (*entity.Account, error)

	// UpdateProfile applies a partial profile update of the principal's own
	// record and returns the updated account.
	UpdateProfile(ctx context.Context, principal *entity.Account, targetID string, input *UpdateProfileInput) (*entity.Account, error)

	// Close deletes the principal's own record.
	Close(ctx context.Context, principal *entity.Account) error

	// EnsureSeedAccount (re)creates the configured seed record when absent.
	EnsureSeedAccount(ctx context.Context) error
}
