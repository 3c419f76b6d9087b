// Package memory contains the concrete implementation of the storage layer as
// a process-lifetime in-memory map. Contents are lost on restart.
package memory

import (
	"context"
	"sync"

	"accountsvc/internal/domain/entity"
	"accountsvc/internal/domain/repository"
)

// accountRepository implements repository.AccountRepository with a map guarded
// by a mutex. Handlers run on parallel goroutines, so every check-then-act
// sequence holds the write lock for its whole critical section.
type accountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*entity.Account
}

// NewAccountRepository is the constructor for accountRepository.
// It returns the implementation as a repository.AccountRepository interface.
func NewAccountRepository() repository.AccountRepository {
	return &accountRepository{
		accounts: make(map[string]*entity.Account),
	}
}

// clone copies a record so callers never alias the store's memory.
func clone(account *entity.Account) *entity.Account {
	if account == nil {
		return nil
	}
	copied := *account

	return &copied
}

// FindByID retrieves a single account by its user_id.
func (repo *accountRepository) FindByID(_ context.Context, userID string) (*entity.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	account, ok := repo.accounts[userID]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return clone(account), nil
}

// Create stores a new account. The existence check and insert share one lock,
// so a racing signup for the same user_id loses with ErrAccountExists.
func (repo *accountRepository) Create(_ context.Context, account *entity.Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.accounts[account.UserID]; exists {
		return repository.ErrAccountExists
	}
	repo.accounts[account.UserID] = clone(account)

	return nil
}

// UpdateProfile overwrites the nickname and comment of an existing account and
// returns the updated record.
func (repo *accountRepository) UpdateProfile(_ context.Context, userID, nickname, comment string) (*entity.Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	account, ok := repo.accounts[userID]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	account.Nickname = nickname
	account.Comment = comment

	return clone(account), nil
}

// Delete removes the account for the given user_id.
func (repo *accountRepository) Delete(_ context.Context, userID string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.accounts[userID]; !ok {
		return repository.ErrAccountNotFound
	}
	delete(repo.accounts, userID)

	return nil
}
