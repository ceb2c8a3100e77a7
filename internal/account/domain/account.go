package domain

import "time"

type ID string

type Account struct {
	ID           ID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity is the resolved owner of a request. Services take it explicitly;
// it is never read from ambient state or from client-supplied fields.
type Identity struct {
	AccountID ID
	Email     string
}
