package models

import (
	"fmt"
	"net/mail"
	"strings"
)

// Account is a registered user as persisted under the "users" key.
//
// Passwords are stored and compared in plaintext.
type Account struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Session is the current user without credentials.
type Session struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session returns the redacted projection of the account.
func (a Account) Session() Session {
	return Session{ID: a.ID, Email: a.Email, Name: a.Name}
}

// Validate checks the fields required to register.
func (a Account) Validate() error {
	if strings.TrimSpace(a.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(a.Email); err != nil {
		return fmt.Errorf("invalid email address: %s", a.Email)
	}
	if a.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}
