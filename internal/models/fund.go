package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Fund represents a named bucket of money, e.g. a reserve for repairs.
//
// The balance of a fund is never stored, it is always derived from the
// transactions that reference the fund, see Balance.
type Fund struct {
	DefaultModel
	User           User      `json:"-"`
	UserID         uuid.UUID `gorm:"uniqueIndex:fund_name_user_id"`
	Name           string    `gorm:"uniqueIndex:fund_name_user_id"`
	Note           string
	InitialBalance decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // Balance of the fund before any transactions were recorded
	Archived       bool
}

var ErrFundNameNotUnique = errors.New("the fund name must be unique for the user")

// BeforeSave trims whitespace from all strings
func (f *Fund) BeforeSave(_ *gorm.DB) error {
	f.Name = strings.TrimSpace(f.Name)
	f.Note = strings.TrimSpace(f.Note)

	return nil
}

func (f *Fund) BeforeCreate(tx *gorm.DB) error {
	_ = f.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Fund)
	return f.checkIntegrity(tx, *toSave)
}

// BeforeUpdate verifies the state of the fund before
// committing an update to the database.
func (f *Fund) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(Fund)
	if tx.Statement.Changed("UserID") {
		return f.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (f *Fund) checkIntegrity(tx *gorm.DB, toSave Fund) error {
	return tx.First(&User{}, toSave.UserID).Error
}

// Balance computes the current balance of the fund.
//
// It is a pure fold over all contributing transactions, summed in a fixed
// order for determinism and auditability:
//
//  1. the initial balance of the fund
//  2. plus all fund distributions routed in via income source rules
//  3. plus all manual distributions
//  4. plus transfers into, minus transfers out of the fund
//  5. minus all costs debited against the fund
//
// The balance is recomputed from scratch on every call so that it can never
// diverge from the transaction log.
func (f Fund) Balance(db *gorm.DB) (decimal.Decimal, error) {
	balance := f.InitialBalance

	distributed, err := sumAmount(db, &FundDistribution{}, &FundDistribution{FundID: f.ID})
	if err != nil {
		return decimal.Zero, err
	}
	balance = balance.Add(distributed)

	manual, err := sumAmount(db, &ManualDistribution{}, &ManualDistribution{FundID: f.ID})
	if err != nil {
		return decimal.Zero, err
	}
	balance = balance.Add(manual)

	transfersIn, err := sumAmount(db, &FundTransfer{}, &FundTransfer{DestinationFundID: f.ID})
	if err != nil {
		return decimal.Zero, err
	}
	balance = balance.Add(transfersIn)

	transfersOut, err := sumAmount(db, &FundTransfer{}, &FundTransfer{SourceFundID: f.ID})
	if err != nil {
		return decimal.Zero, err
	}
	balance = balance.Sub(transfersOut)

	costs, err := sumAmount(db, &Cost{}, &Cost{FundID: f.ID})
	if err != nil {
		return decimal.Zero, err
	}
	balance = balance.Sub(costs)

	return balance, nil
}
