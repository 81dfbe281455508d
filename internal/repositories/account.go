package repositories

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/reelx/internal/models"
)

// AccountRepository stores registered accounts under "users" and the session under "currentUser".
type AccountRepository struct {
	store  Store
	logger *log.Logger
	mu     sync.Mutex
}

// NewAccountRepository creates an [AccountRepository] over store.
func NewAccountRepository(store Store, logger *log.Logger) *AccountRepository {
	return &AccountRepository{store: store, logger: orDefault(logger)}
}

// List returns every registered account, or none when the record is absent or unreadable.
func (r *AccountRepository) List() []models.Account {
	var accounts []models.Account
	if !getJSON(r.store, r.logger, KeyUsers, &accounts) {
		return []models.Account{}
	}
	return accounts
}

// FindByEmail returns the account registered with email (exact match).
func (r *AccountRepository) FindByEmail(email string) (*models.Account, bool) {
	for _, a := range r.List() {
		if a.Email == email {
			return &a, true
		}
	}
	return nil, false
}

// Create appends account to the list and persists it. It returns false if the email is taken or the write failed.
func (r *AccountRepository) Create(account models.Account) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts := r.List()
	for _, a := range accounts {
		if a.Email == account.Email {
			return false
		}
	}
	return setJSON(r.store, r.logger, KeyUsers, append(accounts, account))
}

// Session returns the persisted session verbatim, without checking it against the account list.
func (r *AccountRepository) Session() (*models.Session, bool) {
	var s models.Session
	if !getJSON(r.store, r.logger, KeyCurrentUser, &s) {
		return nil, false
	}
	return &s, true
}

// SaveSession persists s as the current user.
func (r *AccountRepository) SaveSession(s models.Session) bool {
	return setJSON(r.store, r.logger, KeyCurrentUser, s)
}

// ClearSession removes the current user record.
func (r *AccountRepository) ClearSession() bool {
	return deleteKey(r.store, r.logger, KeyCurrentUser)
}
