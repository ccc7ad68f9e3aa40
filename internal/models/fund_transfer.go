package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FundTransfer moves money directly from one fund to another, independent
// of receipts.
//
// Transfers are accepted unconditionally, even if they drive the source
// fund negative. The balance is informational except at the point of
// spending, see Cost.
type FundTransfer struct {
	DefaultModel
	User              User      `json:"-"`
	UserID            uuid.UUID
	SourceFund        Fund      `json:"-"`
	SourceFundID      uuid.UUID `gorm:"check:source_destination_different,source_fund_id != destination_fund_id"`
	DestinationFund   Fund      `json:"-"`
	DestinationFundID uuid.UUID
	Date              time.Time
	Amount            decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Note              string
}

var (
	ErrTransferSourceEqualsDestination = errors.New("a transfer must use two different funds")
	ErrTransferAmountNotPositive       = errors.New("transfer amounts must be larger than zero")
)

func (t *FundTransfer) AfterFind(tx *gorm.DB) (err error) {
	err = t.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	t.Date = t.Date.In(time.UTC)
	return nil
}

func (t *FundTransfer) BeforeSave(_ *gorm.DB) error {
	t.Note = strings.TrimSpace(t.Note)

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	if !t.Amount.IsPositive() {
		return ErrTransferAmountNotPositive
	}

	return nil
}

func (t *FundTransfer) BeforeCreate(tx *gorm.DB) error {
	_ = t.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*FundTransfer)
	return t.checkIntegrity(tx, *toSave)
}

// BeforeUpdate verifies only the references that change. The Dest struct
// is sparse on partial updates, so unchanged references must not be read
// from it.
func (t *FundTransfer) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(FundTransfer)

	if tx.Statement.Changed("UserID") {
		err := tx.First(&User{}, toSave.UserID).Error
		if err != nil {
			return err
		}
	}

	if tx.Statement.Changed("SourceFundID") {
		err := tx.First(&Fund{}, toSave.SourceFundID).Error
		if err != nil {
			return err
		}
	}

	if tx.Statement.Changed("DestinationFundID") {
		return tx.First(&Fund{}, toSave.DestinationFundID).Error
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (t *FundTransfer) checkIntegrity(tx *gorm.DB, toSave FundTransfer) error {
	err := tx.First(&User{}, toSave.UserID).Error
	if err != nil {
		return err
	}

	err = tx.First(&Fund{}, toSave.SourceFundID).Error
	if err != nil {
		return err
	}

	return tx.First(&Fund{}, toSave.DestinationFundID).Error
}
