package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Receipt represents a recorded inflow of money, optionally tied to an
// income source.
type Receipt struct {
	DefaultModel
	User           User      `json:"-"`
	UserID         uuid.UUID
	IncomeSource   IncomeSource `json:"-"`
	IncomeSourceID *uuid.UUID
	Date           time.Time       // Time of day is currently only used for sorting
	Amount         decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Note           string
}

var ErrReceiptAmountNotPositive = errors.New("receipt amounts must be larger than zero")

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000. Yes, this is different.
//
// We already store them in UTC, but somehow reading
// them from the database returns them as +0000.
func (r *Receipt) AfterFind(tx *gorm.DB) (err error) {
	err = r.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	r.Date = r.Date.In(time.UTC)
	return nil
}

// BeforeSave
//   - sets the timezone for the Date to UTC
//   - normalizes an unset income source to a real nil
//   - trims whitespace from string fields
func (r *Receipt) BeforeSave(_ *gorm.DB) error {
	r.Note = strings.TrimSpace(r.Note)

	// Ensure that the income source ID is nil and not a pointer to a nil
	// UUID when it is unset
	if r.IncomeSourceID != nil && *r.IncomeSourceID == uuid.Nil {
		r.IncomeSourceID = nil
	}

	if r.Date.IsZero() {
		r.Date = time.Now().In(time.UTC)
	} else {
		r.Date = r.Date.In(time.UTC)
	}

	if !r.Amount.IsPositive() {
		return ErrReceiptAmountNotPositive
	}

	return nil
}

func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	_ = r.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Receipt)
	err := r.checkIntegrity(tx, *toSave)
	if err != nil {
		return err
	}

	// Receipts without an income source are attributed via match rules
	if r.IncomeSourceID == nil {
		sourceID, err := matchIncomeSource(tx, r.UserID, r.Note)
		if err != nil {
			return err
		}
		r.IncomeSourceID = sourceID
	}

	return nil
}

// BeforeUpdate verifies the state of the receipt before committing an
// update to the database.
//
// When the amount or the income source of a receipt changes, its existing
// fund distributions no longer reflect the rules that were applied, so they
// are deleted. The money becomes unallocated again until the next
// distribution run.
func (r *Receipt) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(Receipt)

	if tx.Statement.Changed("UserID") {
		err := tx.First(&User{}, toSave.UserID).Error
		if err != nil {
			return err
		}
	}

	if tx.Statement.Changed("IncomeSourceID") && toSave.IncomeSourceID != nil && *toSave.IncomeSourceID != uuid.Nil {
		err := tx.First(&IncomeSource{}, *toSave.IncomeSourceID).Error
		if err != nil {
			return err
		}
	}

	if tx.Statement.Changed("Amount") || tx.Statement.Changed("IncomeSourceID") {
		err := tx.Where(&FundDistribution{ReceiptID: r.ID}).Delete(&FundDistribution{}).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// AfterDelete cleans up the fund distributions of the receipt.
func (r *Receipt) AfterDelete(tx *gorm.DB) error {
	return tx.Where(&FundDistribution{ReceiptID: r.ID}).Delete(&FundDistribution{}).Error
}

// checkIntegrity verifies references to other resources
func (r *Receipt) checkIntegrity(tx *gorm.DB, toSave Receipt) error {
	err := tx.First(&User{}, toSave.UserID).Error
	if err != nil {
		return err
	}

	if toSave.IncomeSourceID != nil && *toSave.IncomeSourceID != uuid.Nil {
		return tx.First(&IncomeSource{}, *toSave.IncomeSourceID).Error
	}

	return nil
}
