package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"accountsvc/config"
	"accountsvc/internal/domain/entity"
	domainerrors "accountsvc/internal/domain/errors"
	"accountsvc/internal/domain/repository"
	"accountsvc/internal/infra/auth"
	"accountsvc/internal/infra/persistence/memory"
	"accountsvc/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service usecase.AccountUsecase
	repo    repository.AccountRepository
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	t.Helper()

	repo := memory.NewAccountRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Seed: &config.SeedConfig{
			Enabled:  true,
			UserID:   "TaroYamada",
			Password: "PaSSwd4TY",
			Nickname: "たろー",
			Comment:  "僕は元気です",
		},
	}

	service := NewAccountService(AccountServiceParams{
		AccountRepo: repo,
		Hasher:      auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		Config:      cfg,
		Logger:      logger,
	})

	return accountServiceFixtures{service: service, repo: repo}
}

func strPtr(s string) *string {
	return &s
}

func signupAccount(t *testing.T, fx accountServiceFixtures, userID, password string) *entity.Account {
	t.Helper()

	output, err := fx.service.Signup(context.Background(), &usecase.SignupInput{
		UserID:   userID,
		Password: password,
	})
	require.NoError(t, err)

	return output.Account
}

func TestAccountService_Signup_Success(t *testing.T) {
	fx := createTestAccountService(t)

	output, err := fx.service.Signup(context.Background(), &usecase.SignupInput{
		UserID:   "validUser1",
		Password: "Passw0rd!",
		Nickname: strPtr("Bob"),
		Comment:  strPtr("hello"),
	})

	require.NoError(t, err)
	assert.Equal(t, "validUser1", output.Account.UserID)
	assert.Equal(t, "Bob", output.Account.Nickname)
	assert.Equal(t, "hello", output.Account.Comment)
	assert.NotEmpty(t, output.Account.PasswordHash)
	assert.NotEqual(t, "Passw0rd!", output.Account.PasswordHash)

	stored, err := fx.repo.FindByID(context.Background(), "validUser1")
	require.NoError(t, err)
	assert.Equal(t, "Bob", stored.Nickname)
}

func TestAccountService_Signup_ValidationOrder(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		password string
		wantErr  error
	}{
		{name: "missing user_id", userID: "", password: "Passw0rd!", wantErr: domainerrors.ErrSignupCredentialsRequired},
		{name: "missing password", userID: "validUser1", password: "", wantErr: domainerrors.ErrSignupCredentialsRequired},
		{name: "user_id too short", userID: "abc12", password: "Passw0rd!", wantErr: domainerrors.ErrSignupInputLength},
		{name: "user_id too long", userID: "a23456789012345678901", password: "Passw0rd!", wantErr: domainerrors.ErrSignupInputLength},
		{name: "password too short", userID: "validUser1", password: "Pass12!", wantErr: domainerrors.ErrSignupInputLength},
		{name: "password too long", userID: "validUser1", password: "Passw0rd!Passw0rd!xy1", wantErr: domainerrors.ErrSignupInputLength},
		{name: "user_id with space", userID: "abc 123456", password: "Passw0rd!", wantErr: domainerrors.ErrSignupInvalidPattern},
		{name: "user_id with symbol", userID: "user_name1", password: "Passw0rd!", wantErr: domainerrors.ErrSignupInvalidPattern},
		{name: "password with space", userID: "validUser1", password: "Pass w0rd!", wantErr: domainerrors.ErrSignupInvalidPattern},
		{name: "length checked before pattern", userID: "ab 12", password: "Passw0rd!", wantErr: domainerrors.ErrSignupInputLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAccountService(t)

			_, err := fx.service.Signup(context.Background(), &usecase.SignupInput{
				UserID:   tt.userID,
				Password: tt.password,
			})

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAccountService_Signup_DuplicateUserID(t *testing.T) {
	fx := createTestAccountService(t)
	signupAccount(t, fx, "validUser1", "Passw0rd!")

	_, err := fx.service.Signup(context.Background(), &usecase.SignupInput{
		UserID:   "validUser1",
		Password: "0therPass!",
	})

	assert.ErrorIs(t, err, domainerrors.ErrSignupDuplicateID)
}

func TestAccountService_Authenticate(t *testing.T) {
	fx := createTestAccountService(t)
	signupAccount(t, fx, "validUser1", "Passw0rd!")

	account, err := fx.service.Authenticate(context.Background(), "validUser1", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "validUser1", account.UserID)

	_, err = fx.service.Authenticate(context.Background(), "validUser1", "WrongPass1!")
	assert.ErrorIs(t, err, domainerrors.ErrAuthenticationFailed)

	// Unknown user_id is indistinguishable from a wrong password.
	_, err = fx.service.Authenticate(context.Background(), "missingUser", "Passw0rd!")
	assert.ErrorIs(t, err, domainerrors.ErrAuthenticationFailed)
}

func TestAccountService_GetAccount(t *testing.T) {
	fx := createTestAccountService(t)
	signupAccount(t, fx, "validUser1", "Passw0rd!")

	account, err := fx.service.GetAccount(context.Background(), "validUser1")
	require.NoError(t, err)
	assert.Equal(t, "validUser1", account.UserID)

	_, err = fx.service.GetAccount(context.Background(), "missingUser")
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestAccountService_UpdateProfile_TargetMissingBeforeOwnership(t *testing.T) {
	fx := createTestAccountService(t)
	principal := signupAccount(t, fx, "validUser1", "Passw0rd!")

	// The existence check runs first: a missing target is 404 even though the
	// principal would not own it either.
	_, err := fx.service.UpdateProfile(context.Background(), principal, "missingUser", &usecase.UpdateProfileInput{
		Nickname: usecase.StringField("Bob"),
	})

	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestAccountService_UpdateProfile_ForeignAccount(t *testing.T) {
	fx := createTestAccountService(t)
	principal := signupAccount(t, fx, "validUser1", "Passw0rd!")
	signupAccount(t, fx, "otherUser1", "Passw0rd!")

	_, err := fx.service.UpdateProfile(context.Background(), principal, "otherUser1", &usecase.UpdateProfileInput{
		Nickname: usecase.StringField("Bob"),
	})

	assert.ErrorIs(t, err, domainerrors.ErrNoPermission)
}

func TestAccountService_UpdateProfile_ForbiddenKeys(t *testing.T) {
	fx := createTestAccountService(t)
	principal := signupAccount(t, fx, "validUser1", "Passw0rd!")

	_, err := fx.service.UpdateProfile(context.Background(), principal, "validUser1", &usecase.UpdateProfileInput{
		HasUserID: true,
		Nickname:  usecase.StringField("Bob"),
	})
	assert.ErrorIs(t, err, domainerrors.ErrUpdateForbiddenFields)

	_, err = fx.service.UpdateProfile(context.Background(), principal, "validUser1", &usecase.UpdateProfileInput{
		HasPassword: true,
	})
	assert.ErrorIs(t, err, domainerrors.ErrUpdateForbiddenFields)
}

func TestAccountService_UpdateProfile_FieldsRequired(t *testing.T) {
	fx := createTestAccountService(t)
	principal := signupAccount(t, fx, "validUser1", "Passw0rd!")

	_, err := fx.service.UpdateProfile(context.Background(), principal, "validUser1", &usecase.UpdateProfileInput{})

	assert.ErrorIs(t, err, domainerrors.ErrUpdateFieldsRequired)
}

func TestAccountService_UpdateProfile_Constraints(t *testing.T) {
	longNickname := make([]byte, 31)
	longComment := make([]byte, 101)
	for i := range longNickname {
		longNickname[i] = 'a'
	}
	for i := range longComment {
		longComment[i] = 'a'
	}

	tests := []struct {
		name  string
		input *usecase.UpdateProfileInput
	}{
		{name: "non-string nickname", input: &usecase.UpdateProfileInput{Nickname: usecase.ProfileField{Present: true}}},
		{name: "non-string comment", input: &usecase.UpdateProfileInput{Comment: usecase.ProfileField{Present: true}}},
		{name: "nickname over 30 runes", input: &usecase.UpdateProfileInput{Nickname: usecase.StringField(string(longNickname))}},
		{name: "comment over 100 runes", input: &usecase.UpdateProfileInput{Comment: usecase.StringField(string(longComment))}},
		{name: "nickname with control char", input: &usecase.UpdateProfileInput{Nickname: usecase.StringField("Bob\x00")}},
		{name: "comment with DEL", input: &usecase.UpdateProfileInput{Comment: usecase.StringField("fine\x7f")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAccountService(t)
			principal := signupAccount(t, fx, "validUser1", "Passw0rd!")

			_, err := fx.service.UpdateProfile(context.Background(), principal, "validUser1", tt.input)

			assert.ErrorIs(t, err, domainerrors.ErrUpdateInvalidProfile)
		})
	}
}

func TestAccountService_UpdateProfile_ThreeWaySemantics(t *testing.T) {
	fx := createTestAccountService(t)
	principal := signupAccount(t, fx, "validUser1", "Passw0rd!")

	// Set both fields.
	updated, err := fx.service.UpdateProfile(context.Background(), principal, "validUser1", &usecase.UpdateProfileInput{
		Nickname: usecase.StringField("Bob"),
		Comment:  usecase.StringField("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Bob", updated.Nickname)
	assert.Equal(t, "hello", updated.Comment)

	// Absent nickname keeps its value; empty comment clears.
	updated, err = fx.service.UpdateProfile(context.Background(), principal, "validUser1", &usecase.UpdateProfileInput{
		Comment: usecase.StringField(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Bob", updated.Nickname)
	assert.Empty(t, updated.Comment)

	// Empty nickname resets the presentation to user_id.
	updated, err = fx.service.UpdateProfile(context.Background(), principal, "validUser1", &usecase.UpdateProfileInput{
		Nickname: usecase.StringField(""),
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Nickname)
	assert.Equal(t, "validUser1", updated.EffectiveNickname())
}

func TestAccountService_Close(t *testing.T) {
	fx := createTestAccountService(t)
	principal := signupAccount(t, fx, "validUser1", "Passw0rd!")

	require.NoError(t, fx.service.Close(context.Background(), principal))

	// The credentials no longer resolve once the record is gone.
	_, err := fx.service.Authenticate(context.Background(), "validUser1", "Passw0rd!")
	assert.ErrorIs(t, err, domainerrors.ErrAuthenticationFailed)

	// A second close degrades to the same authentication failure.
	assert.ErrorIs(t, fx.service.Close(context.Background(), principal), domainerrors.ErrAuthenticationFailed)
}

func TestAccountService_EnsureSeedAccount(t *testing.T) {
	fx := createTestAccountService(t)

	require.NoError(t, fx.service.EnsureSeedAccount(context.Background()))

	account, err := fx.service.Authenticate(context.Background(), "TaroYamada", "PaSSwd4TY")
	require.NoError(t, err)
	assert.Equal(t, "たろー", account.Nickname)
	assert.Equal(t, "僕は元気です", account.Comment)

	// Re-running must not touch the existing record.
	_, err = fx.service.UpdateProfile(context.Background(), account, "TaroYamada", &usecase.UpdateProfileInput{
		Nickname: usecase.StringField("changed"),
	})
	require.NoError(t, err)
	require.NoError(t, fx.service.EnsureSeedAccount(context.Background()))

	refreshed, err := fx.service.GetAccount(context.Background(), "TaroYamada")
	require.NoError(t, err)
	assert.Equal(t, "changed", refreshed.Nickname)
}
