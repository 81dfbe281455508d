package tasks

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
)

// AccountStore persists accounts and the current session.
type AccountStore interface {
	FindByEmail(email string) (*models.Account, bool)
	Create(account models.Account) bool
	Session() (*models.Session, bool)
	SaveSession(s models.Session) bool
	ClearSession() bool
}

// SessionManager owns the current user.
type SessionManager struct {
	accounts AccountStore
	logger   *log.Logger

	mu      sync.RWMutex
	current *models.Session
}

// NewSessionManager creates a SessionManager with no current user. Call [SessionManager.Restore] to load a
// persisted session.
func NewSessionManager(accounts AccountStore, logger *log.Logger) *SessionManager {
	if logger == nil {
		logger = log.Default()
	}
	return &SessionManager{accounts: accounts, logger: logger}
}

// Register creates an account and makes it the current user.
func (m *SessionManager) Register(email, password, name string) (*models.Account, error) {
	account := models.Account{
		Email:    strings.TrimSpace(email),
		Password: password,
		Name:     strings.TrimSpace(name),
	}
	if err := account.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	if _, exists := m.accounts.FindByEmail(account.Email); exists {
		return nil, fmt.Errorf("%w: %s", shared.ErrDuplicateUser, account.Email)
	}

	account.ID = shared.GenerateID()
	if !m.accounts.Create(account) {
		if _, exists := m.accounts.FindByEmail(account.Email); exists {
			return nil, fmt.Errorf("%w: %s", shared.ErrDuplicateUser, account.Email)
		}
		return nil, fmt.Errorf("%w: failed to persist account", shared.ErrStorage)
	}

	m.establish(account.Session())
	m.logger.Info("registered account", "email", account.Email)
	return &account, nil
}

// Login makes the account matching both email and password the current user.
func (m *SessionManager) Login(email, password string) (*models.Account, error) {
	account, ok := m.accounts.FindByEmail(strings.TrimSpace(email))
	if !ok || account.Password != password {
		return nil, shared.ErrInvalidCredentials
	}

	m.establish(account.Session())
	m.logger.Info("logged in", "email", account.Email)
	return account, nil
}

// Logout clears the current user. It always succeeds.
func (m *SessionManager) Logout() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	m.accounts.ClearSession()
}

// Restore loads the persisted session verbatim and reports whether one existed.
func (m *SessionManager) Restore() bool {
	s, ok := m.accounts.Session()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = s
	return ok
}

// Current returns a copy of the current session, or nil when logged out.
func (m *SessionManager) Current() *models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	s := *m.current
	return &s
}

// Authenticated reports whether a user is logged in.
func (m *SessionManager) Authenticated() bool {
	return m.Current() != nil
}

// RequireSession returns the current session or [shared.ErrNotAuthenticated].
func (m *SessionManager) RequireSession() (*models.Session, error) {
	s := m.Current()
	if s == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return s, nil
}

func (m *SessionManager) establish(s models.Session) {
	m.mu.Lock()
	m.current = &s
	m.mu.Unlock()
	m.accounts.SaveSession(s)
}
