// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"regexp"
	"unicode/utf8"

	"accountsvc/config"
	deliverycontext "accountsvc/internal/delivery/context"
	"accountsvc/internal/domain/entity"
	domainerrors "accountsvc/internal/domain/errors"
	"accountsvc/internal/domain/repository"
	"accountsvc/internal/domain/service"
	"accountsvc/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	userIDMinLen   = 6
	userIDMaxLen   = 20
	passwordMinLen = 8
	passwordMaxLen = 20
	nicknameMaxLen = 30
	commentMaxLen  = 100
)

var (
	userIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{6,20}$`)
	// Printable ASCII excluding space.
	passwordPattern = regexp.MustCompile(`^[\x21-\x7E]{8,20}$`)
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	accountRepo repository.AccountRepository
	hasher      service.PasswordHasher
	seed        *config.SeedConfig
	logger      *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	AccountRepo repository.AccountRepository
	Hasher      service.PasswordHasher
	Config      *config.Config
	Logger      *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		accountRepo: params.AccountRepo,
		hasher:      params.Hasher,
		seed:        params.Config.Seed,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup validates the input in rule order and creates the account. The first
// failing rule determines the reported cause.
func (srv *accountService) Signup(ctx context.Context, input *usecase.SignupInput) (*usecase.SignupOutput, error) {
	if input.UserID == "" || input.Password == "" {
		return nil, domainerrors.ErrSignupCredentialsRequired
	}
	if l := len(input.UserID); l < userIDMinLen || l > userIDMaxLen {
		return nil, domainerrors.ErrSignupInputLength
	}
	if l := len(input.Password); l < passwordMinLen || l > passwordMaxLen {
		return nil, domainerrors.ErrSignupInputLength
	}
	if !userIDPattern.MatchString(input.UserID) || !passwordPattern.MatchString(input.Password) {
		return nil, domainerrors.ErrSignupInvalidPattern
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during signup", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during signup")
	}

	account := &entity.Account{
		UserID:       input.UserID,
		PasswordHash: hash,
	}
	if input.Nickname != nil {
		account.Nickname = *input.Nickname
	}
	if input.Comment != nil {
		account.Comment = *input.Comment
	}

	// Create is atomic with the duplicate check; a racing signup for the same
	// user_id surfaces here as ErrAccountExists.
	if err := srv.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrAccountExists) {
			return nil, domainerrors.ErrSignupDuplicateID
		}

		return nil, errors.Wrap(err, "failed to create account during signup")
	}

	srv.log(ctx).Info("Account created", slog.String("userID", account.UserID))

	return &usecase.SignupOutput{Account: account}, nil
}

// Authenticate looks up the account and verifies the password. An unknown
// user_id and a wrong password are indistinguishable to the caller.
func (srv *accountService) Authenticate(ctx context.Context, userID, password string) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAuthenticationFailed
		}

		return nil, errors.Wrap(err, "failed to look up account for authentication")
	}

	if !srv.hasher.Check(password, account.PasswordHash) {
		srv.log(ctx).Warn("Password mismatch", slog.String("userID", userID))

		return nil, domainerrors.ErrAuthenticationFailed
	}

	return account, nil
}

// GetAccount returns the record for targetID; no ownership check applies to reads.
func (srv *accountService) GetAccount(ctx context.Context, targetID string) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find account")
	}

	return account, nil
}

// UpdateProfile applies a partial update to the principal's own record.
// The target existence check runs before the ownership check.
func (srv *accountService) UpdateProfile(ctx context.Context, principal *entity.Account, targetID string, input *usecase.UpdateProfileInput) (*entity.Account, error) {
	target, err := srv.accountRepo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find account for update")
	}

	if principal.UserID != target.UserID {
		srv.log(ctx).Warn("Update denied for foreign account",
			slog.String("principal", principal.UserID),
			slog.String("target", target.UserID),
		)

		return nil, domainerrors.ErrNoPermission
	}

	// user_id and password may never appear in an update payload, whatever
	// their values.
	if input.HasUserID || input.HasPassword {
		return nil, domainerrors.ErrUpdateForbiddenFields
	}

	if !input.Nickname.Present && !input.Comment.Present {
		return nil, domainerrors.ErrUpdateFieldsRequired
	}

	if err := validateProfileField(input.Nickname, nicknameMaxLen); err != nil {
		return nil, err
	}
	if err := validateProfileField(input.Comment, commentMaxLen); err != nil {
		return nil, err
	}

	// Absent fields keep their stored value; an empty nickname resets the
	// record to its user_id presentation, an empty comment clears it.
	nickname := target.Nickname
	if input.Nickname.Present {
		nickname = input.Nickname.Value
	}
	comment := target.Comment
	if input.Comment.Present {
		comment = input.Comment.Value
	}

	updated, err := srv.accountRepo.UpdateProfile(ctx, target.UserID, nickname, comment)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to update profile")
	}

	srv.log(ctx).Info("Profile updated", slog.String("userID", updated.UserID))

	return updated, nil
}

// Close deletes the principal's own record. Authentication already proved the
// record exists; losing a race with another deletion degrades to the same
// authentication failure the API reports for missing accounts.
func (srv *accountService) Close(ctx context.Context, principal *entity.Account) error {
	if err := srv.accountRepo.Delete(ctx, principal.UserID); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domainerrors.ErrAuthenticationFailed
		}

		return errors.Wrap(err, "failed to delete account")
	}

	srv.log(ctx).Info("Account closed", slog.String("userID", principal.UserID))

	return nil
}

// EnsureSeedAccount (re)creates the configured seed record when absent.
func (srv *accountService) EnsureSeedAccount(ctx context.Context) error {
	if srv.seed == nil || !srv.seed.Enabled {
		return nil
	}

	if _, err := srv.accountRepo.FindByID(ctx, srv.seed.UserID); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrAccountNotFound) {
		return errors.Wrap(err, "failed to check seed account")
	}

	hash, err := srv.hasher.Hash(srv.seed.Password)
	if err != nil {
		return errors.Wrap(err, "failed to hash seed password")
	}

	account := &entity.Account{
		UserID:       srv.seed.UserID,
		PasswordHash: hash,
		Nickname:     srv.seed.Nickname,
		Comment:      srv.seed.Comment,
	}
	if err := srv.accountRepo.Create(ctx, account); err != nil && !errors.Is(err, repository.ErrAccountExists) {
		return errors.Wrap(err, "failed to create seed account")
	}

	srv.logger.Info("Seed account ready", slog.String("userID", srv.seed.UserID))

	return nil
}

// validateProfileField enforces the shared profile constraints: string typed,
// free of ASCII control characters, and within the rune length limit.
func validateProfileField(field usecase.ProfileField, maxLen int) error {
	if !field.Present {
		return nil
	}
	if !field.IsString {
		return domainerrors.ErrUpdateInvalidProfile
	}
	if utf8.RuneCountInString(field.Value) > maxLen {
		return domainerrors.ErrUpdateInvalidProfile
	}
	if containsControl(field.Value) {
		return domainerrors.ErrUpdateInvalidProfile
	}

	return nil
}

func containsControl(s string) bool {
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			return true
		}
	}

	return false
}
