package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SourceDistribution is a percentage rule that routes a share of every
// receipt of an income source into a fund.
//
// The rules of one income source do not need to sum to 100, the remainder
// of a receipt stays unallocated. They must never sum to more than 100.
type SourceDistribution struct {
	DefaultModel
	IncomeSource   IncomeSource `json:"-"`
	IncomeSourceID uuid.UUID    `gorm:"uniqueIndex:source_distribution_source_fund"`
	Fund           Fund         `json:"-"`
	FundID         uuid.UUID    `gorm:"uniqueIndex:source_distribution_source_fund"`
	Percentage     decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // Percentage of each receipt routed into the fund, in (0, 100]
}

var (
	ErrSourceDistributionFundNotUnique = errors.New("a fund can only appear once in the rules of an income source")
	ErrPercentageOutOfRange            = errors.New("the percentage must be larger than 0 and at most 100")
	ErrPercentageTotalExceeded         = errors.New("the percentages for this income source must not exceed 100 in total")
)

var oneHundred = decimal.NewFromInt(100)

func (s *SourceDistribution) BeforeCreate(tx *gorm.DB) error {
	_ = s.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*SourceDistribution)
	err := s.checkIntegrity(tx, *toSave)
	if err != nil {
		return err
	}

	return checkPercentage(tx, toSave.IncomeSourceID, s.ID, toSave.Percentage)
}

// BeforeUpdate verifies changed references and re-runs the percentage
// check. Unchanged values are read from the loaded rule because the Dest
// struct is sparse on partial updates.
func (s *SourceDistribution) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(SourceDistribution)

	if tx.Statement.Changed("IncomeSourceID") {
		err := tx.First(&IncomeSource{}, toSave.IncomeSourceID).Error
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

	// Moving a rule to another income source counts against that source's
	// total, so the check runs when either the source or the percentage
	// changes, always against the source the rule ends up in.
	if tx.Statement.Changed("IncomeSourceID") || tx.Statement.Changed("Percentage") {
		sourceID := s.IncomeSourceID
		if tx.Statement.Changed("IncomeSourceID") {
			sourceID = toSave.IncomeSourceID
		}

		percentage := s.Percentage
		if tx.Statement.Changed("Percentage") {
			percentage = toSave.Percentage
		}

		return checkPercentage(tx, sourceID, s.ID, percentage)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (s *SourceDistribution) checkIntegrity(tx *gorm.DB, toSave SourceDistribution) error {
	err := tx.First(&IncomeSource{}, toSave.IncomeSourceID).Error
	if err != nil {
		return err
	}

	return tx.First(&Fund{}, toSave.FundID).Error
}

// checkPercentage verifies that the percentage is in (0, 100] and that the
// rules for the income source stay at or below a total of 100 with it.
func checkPercentage(tx *gorm.DB, incomeSourceID, exclude uuid.UUID, percentage decimal.Decimal) error {
	if !percentage.IsPositive() || percentage.GreaterThan(oneHundred) {
		return ErrPercentageOutOfRange
	}

	var total decimal.NullDecimal
	err := tx.Model(&SourceDistribution{}).
		Where(&SourceDistribution{IncomeSourceID: incomeSourceID}).
		Where("source_distributions.id != ?", exclude).
		Select("SUM(percentage)").
		Row().
		Scan(&total)
	if err != nil {
		return fmt.Errorf("getting the percentage total for income source %s failed: %w", incomeSourceID, err)
	}

	if total.Decimal.Add(percentage).GreaterThan(oneHundred) {
		return ErrPercentageTotalExceeded
	}

	return nil
}
