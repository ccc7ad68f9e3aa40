package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ManualDistribution is a direct credit to a fund, entered by an operator
// without going through the income source percentage rules.
type ManualDistribution struct {
	DefaultModel
	User       User      `json:"-"`
	UserID     uuid.UUID
	Fund       Fund      `json:"-"`
	FundID     uuid.UUID
	Date       time.Time
	Amount     decimal.Decimal  `gorm:"type:DECIMAL(20,8)"`
	Percentage *decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // Optional note of the share this credit represents
	Note       string
}

var ErrManualDistributionAmountNotPositive = errors.New("manual distribution amounts must be larger than zero")

func (m *ManualDistribution) AfterFind(tx *gorm.DB) (err error) {
	err = m.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	m.Date = m.Date.In(time.UTC)
	return nil
}

func (m *ManualDistribution) BeforeSave(_ *gorm.DB) error {
	m.Note = strings.TrimSpace(m.Note)

	if m.Date.IsZero() {
		m.Date = time.Now().In(time.UTC)
	} else {
		m.Date = m.Date.In(time.UTC)
	}

	if !m.Amount.IsPositive() {
		return ErrManualDistributionAmountNotPositive
	}

	return nil
}

func (m *ManualDistribution) BeforeCreate(tx *gorm.DB) error {
	_ = m.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*ManualDistribution)
	return m.checkIntegrity(tx, *toSave)
}

// BeforeUpdate verifies only the references that change. The Dest struct
// is sparse on partial updates, so unchanged references must not be read
// from it.
func (m *ManualDistribution) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(ManualDistribution)

	if tx.Statement.Changed("UserID") {
		err := tx.First(&User{}, toSave.UserID).Error
		if err != nil {
			return err
		}
	}

	if tx.Statement.Changed("FundID") {
		return tx.First(&Fund{}, toSave.FundID).Error
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (m *ManualDistribution) checkIntegrity(tx *gorm.DB, toSave ManualDistribution) error {
	err := tx.First(&User{}, toSave.UserID).Error
	if err != nil {
		return err
	}

	return tx.First(&Fund{}, toSave.FundID).Error
}
