package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cost is an outflow of money debited against a specific fund.
//
// Creating or updating a cost is the only operation that is checked against
// the derived fund balance: a cost may never overdraw the fund it is
// debited from.
type Cost struct {
	DefaultModel
	User       User      `json:"-"`
	UserID     uuid.UUID
	Fund       Fund      `json:"-"`
	FundID     uuid.UUID
	Category   Category   `json:"-"`
	CategoryID *uuid.UUID
	Date       time.Time
	Amount     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Note       string
}

var (
	ErrCostAmountNotPositive = errors.New("cost amounts must be larger than zero")
	ErrFundBalanceTooLow     = errors.New("the fund balance is too low")
)

func (c *Cost) AfterFind(tx *gorm.DB) (err error) {
	err = c.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	c.Date = c.Date.In(time.UTC)
	return nil
}

func (c *Cost) BeforeSave(_ *gorm.DB) error {
	c.Note = strings.TrimSpace(c.Note)

	// Normalize an unset category to a real nil
	if c.CategoryID != nil && *c.CategoryID == uuid.Nil {
		c.CategoryID = nil
	}

	if c.Date.IsZero() {
		c.Date = time.Now().In(time.UTC)
	} else {
		c.Date = c.Date.In(time.UTC)
	}

	if !c.Amount.IsPositive() {
		return ErrCostAmountNotPositive
	}

	return nil
}

func (c *Cost) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Cost)
	err := c.checkIntegrity(tx, *toSave)
	if err != nil {
		return err
	}

	// The hook runs inside the transaction of the create, so the guard and
	// the insert are one atomic unit.
	return checkFundBalance(tx, toSave.FundID, toSave.Amount, decimal.Zero)
}

// BeforeUpdate re-runs the overdraft guard.
//
// When only the amount changes, the old amount is added back to the
// available balance first, so that adjusting a cost that already debited
// the fund does not reject amounts the fund can actually cover.
//
// On a partial update the Dest struct only carries the changed fields, so
// references are verified one by one and unchanged values are read from
// the loaded cost.
func (c *Cost) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(Cost)

	if tx.Statement.Changed("UserID") {
		err := tx.First(&User{}, toSave.UserID).Error
		if err != nil {
			return err
		}
	}

	if tx.Statement.Changed("FundID") {
		err := tx.First(&Fund{}, toSave.FundID).Error
		if err != nil {
			return err
		}
	}

	if tx.Statement.Changed("CategoryID") && toSave.CategoryID != nil && *toSave.CategoryID != uuid.Nil {
		err := tx.First(&Category{}, *toSave.CategoryID).Error
		if err != nil {
			return err
		}
	}

	if tx.Statement.Changed("FundID") {
		amount := c.Amount
		if tx.Statement.Changed("Amount") {
			amount = toSave.Amount
		}

		return checkFundBalance(tx, toSave.FundID, amount, decimal.Zero)
	}

	if tx.Statement.Changed("Amount") {
		return checkFundBalance(tx, c.FundID, toSave.Amount, c.Amount)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (c *Cost) checkIntegrity(tx *gorm.DB, toSave Cost) error {
	err := tx.First(&User{}, toSave.UserID).Error
	if err != nil {
		return err
	}

	err = tx.First(&Fund{}, toSave.FundID).Error
	if err != nil {
		return err
	}

	if toSave.CategoryID != nil && *toSave.CategoryID != uuid.Nil {
		return tx.First(&Category{}, *toSave.CategoryID).Error
	}

	return nil
}

// checkFundBalance rejects the requested amount when the fund cannot cover
// it. addBack is the amount of a previous version of the cost that is being
// replaced and therefore available again.
func checkFundBalance(tx *gorm.DB, fundID uuid.UUID, requested, addBack decimal.Decimal) error {
	var fund Fund
	err := tx.First(&fund, fundID).Error
	if err != nil {
		return err
	}

	balance, err := fund.Balance(tx)
	if err != nil {
		return err
	}

	available := balance.Add(addBack)
	if available.LessThan(requested) {
		return fmt.Errorf("%w: fund %q has a balance of %s, but %s was requested", ErrFundBalanceTooLow, fund.Name, available, requested)
	}

	return nil
}
