package customers

import (
	"errors"
	"regexp"
	"time"
)

var (
	ErrBadPhone = errors.New("customers: phone must match +?1?XXXXXXXXX (9-15 digits)")
	ErrNotFound = errors.New("customers: not found")
)

var phoneRe = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// Profile is immutable once created; corrections go through re-creation.
type Profile struct {
	ID        int64
	FirstName string
	LastName  string
	Phone     string
	Address   string
	Location  string
	CreatedAt time.Time
}

func ValidatePhone(phone string) error {
	if !phoneRe.MatchString(phone) {
		return ErrBadPhone
	}
	return nil
}

// Scope is the identity context the collaborator resolves for a request.
// Staff sees everything; customers see only their own records.
type Scope struct {
	CustomerID int64
	Staff      bool
}

func (s Scope) CanSee(customerID int64) bool {
	return s.Staff || s.CustomerID == customerID
}
