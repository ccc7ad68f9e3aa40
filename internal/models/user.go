package models

import (
	"errors"
	"strings"

	"golang.org/x/text/currency"
	"gorm.io/gorm"
)

// User is the tenant for all other resources in Kassenwart, every other
// resource references it directly or transitively.
type User struct {
	DefaultModel
	Name     string
	Note     string
	Currency string // ISO 4217 currency code used for all amounts of this user
}

var ErrUserCurrencyInvalid = errors.New("the currency must be a valid ISO 4217 code")

// BeforeSave trims whitespace, defaults the currency to EUR and verifies
// that it is a valid ISO 4217 code.
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Note = strings.TrimSpace(u.Note)
	u.Currency = strings.ToUpper(strings.TrimSpace(u.Currency))

	if u.Currency == "" {
		u.Currency = currency.EUR.String()
	}

	if _, err := currency.ParseISO(u.Currency); err != nil {
		return ErrUserCurrencyInvalid
	}

	return nil
}
