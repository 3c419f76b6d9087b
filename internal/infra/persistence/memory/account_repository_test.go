package memory

import (
	"context"
	"sync"
	"testing"

	"accountsvc/internal/domain/entity"
	"accountsvc/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_CreateAndFind(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	account := &entity.Account{UserID: "validUser1", PasswordHash: "hash", Nickname: "Bob"}
	require.NoError(t, repo.Create(ctx, account))

	found, err := repo.FindByID(ctx, "validUser1")
	require.NoError(t, err)
	assert.Equal(t, "validUser1", found.UserID)
	assert.Equal(t, "Bob", found.Nickname)

	_, err = repo.FindByID(ctx, "missingUser")
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}

func TestAccountRepository_CreateDuplicate(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Account{UserID: "validUser1"}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Account{UserID: "validUser1"}), repository.ErrAccountExists)
}

func TestAccountRepository_ReturnsClones(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	original := &entity.Account{UserID: "validUser1", Nickname: "Bob"}
	require.NoError(t, repo.Create(ctx, original))

	// Mutating either the input or a returned record must not leak into the store.
	original.Nickname = "changed"
	found, err := repo.FindByID(ctx, "validUser1")
	require.NoError(t, err)
	assert.Equal(t, "Bob", found.Nickname)

	found.Nickname = "changed again"
	refound, err := repo.FindByID(ctx, "validUser1")
	require.NoError(t, err)
	assert.Equal(t, "Bob", refound.Nickname)
}

func TestAccountRepository_UpdateProfile(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Account{UserID: "validUser1", PasswordHash: "hash"}))

	updated, err := repo.UpdateProfile(ctx, "validUser1", "Bob", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Bob", updated.Nickname)
	assert.Equal(t, "hello", updated.Comment)
	assert.Equal(t, "hash", updated.PasswordHash)

	_, err = repo.UpdateProfile(ctx, "missingUser", "Bob", "")
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}

func TestAccountRepository_Delete(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Account{UserID: "validUser1"}))
	require.NoError(t, repo.Delete(ctx, "validUser1"))

	_, err := repo.FindByID(ctx, "validUser1")
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "validUser1"), repository.ErrAccountNotFound)
}

func TestAccountRepository_ConcurrentCreateSingleWinner(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	const racers = 16
	var wg sync.WaitGroup
	results := make(chan error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.Create(ctx, &entity.Account{UserID: "validUser1"})
		}()
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, repository.ErrAccountExists)
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, racers-1, losses)
}
