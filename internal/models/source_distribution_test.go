package models_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/kassenwart/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestSourceDistributionPercentageRange() {
	user := suite.createTestUser(models.User{})
	source := suite.createTestIncomeSource(models.IncomeSource{UserID: user.ID})

	tests := []struct {
		name       string
		percentage decimal.Decimal
		err        error
	}{
		{"zero", decimal.Zero, models.ErrPercentageOutOfRange},
		{"negative", decimal.NewFromFloat(-10), models.ErrPercentageOutOfRange},
		{"above 100", decimal.NewFromFloat(100.01), models.ErrPercentageOutOfRange},
		{"exactly 100", decimal.NewFromFloat(100), nil},
		{"fraction", decimal.NewFromFloat(0.5), nil},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			rule := models.SourceDistribution{
				IncomeSourceID: source.ID,
				FundID:         suite.createTestFund(models.Fund{UserID: user.ID}).ID,
				Percentage:     tt.percentage,
			}

			err := models.DB.Create(&rule).Error
			assert.ErrorIs(t, err, tt.err)

			// Clean up so the total check does not interfere with the
			// next case
			if err == nil {
				models.DB.Delete(&rule)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestSourceDistributionPercentageTotal() {
	user := suite.createTestUser(models.User{})
	source := suite.createTestIncomeSource(models.IncomeSource{UserID: user.ID})

	_ = suite.createTestSourceDistribution(models.SourceDistribution{
		IncomeSourceID: source.ID,
		FundID:         suite.createTestFund(models.Fund{UserID: user.ID}).ID,
		Percentage:     decimal.NewFromFloat(60),
	})

	// 60 + 41 > 100
	err := models.DB.Create(&models.SourceDistribution{
		IncomeSourceID: source.ID,
		FundID:         suite.createTestFund(models.Fund{UserID: user.ID}).ID,
		Percentage:     decimal.NewFromFloat(41),
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrPercentageTotalExceeded)

	// 60 + 40 is exactly 100 and fine
	err = models.DB.Create(&models.SourceDistribution{
		IncomeSourceID: source.ID,
		FundID:         suite.createTestFund(models.Fund{UserID: user.ID}).ID,
		Percentage:     decimal.NewFromFloat(40),
	}).Error
	assert.Nil(suite.T(), err)

	// Another income source starts at 0 again
	otherSource := suite.createTestIncomeSource(models.IncomeSource{UserID: user.ID})
	err = models.DB.Create(&models.SourceDistribution{
		IncomeSourceID: otherSource.ID,
		FundID:         suite.createTestFund(models.Fund{UserID: user.ID}).ID,
		Percentage:     decimal.NewFromFloat(100),
	}).Error
	assert.Nil(suite.T(), err)
}

// The total check must not count the rule that is being updated, otherwise
// raising a percentage within the allowed total would be rejected.
func (suite *TestSuiteStandard) TestSourceDistributionPercentageUpdate() {
	user := suite.createTestUser(models.User{})
	source := suite.createTestIncomeSource(models.IncomeSource{UserID: user.ID})

	rule := suite.createTestSourceDistribution(models.SourceDistribution{
		IncomeSourceID: source.ID,
		FundID:         suite.createTestFund(models.Fund{UserID: user.ID}).ID,
		Percentage:     decimal.NewFromFloat(60),
	})

	_ = suite.createTestSourceDistribution(models.SourceDistribution{
		IncomeSourceID: source.ID,
		FundID:         suite.createTestFund(models.Fund{UserID: user.ID}).ID,
		Percentage:     decimal.NewFromFloat(30),
	})

	// 70 + 30 = 100 is allowed since the rule's own 60 is excluded
	err := models.DB.Model(&rule).Select("Percentage").Updates(models.SourceDistribution{Percentage: decimal.NewFromFloat(70)}).Error
	assert.Nil(suite.T(), err)

	// 71 + 30 is not
	err = models.DB.Model(&rule).Select("Percentage").Updates(models.SourceDistribution{Percentage: decimal.NewFromFloat(71)}).Error
	assert.ErrorIs(suite.T(), err, models.ErrPercentageTotalExceeded)
}

func (suite *TestSuiteStandard) TestSourceDistributionFundUnique() {
	user := suite.createTestUser(models.User{})
	source := suite.createTestIncomeSource(models.IncomeSource{UserID: user.ID})
	fund := suite.createTestFund(models.Fund{UserID: user.ID})

	_ = suite.createTestSourceDistribution(models.SourceDistribution{
		IncomeSourceID: source.ID,
		FundID:         fund.ID,
		Percentage:     decimal.NewFromFloat(10),
	})

	err := models.DB.Create(&models.SourceDistribution{
		IncomeSourceID: source.ID,
		FundID:         fund.ID,
		Percentage:     decimal.NewFromFloat(20),
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrSourceDistributionFundNotUnique)
}

func (suite *TestSuiteStandard) TestSourceDistributionIntegrity() {
	user := suite.createTestUser(models.User{})
	source := suite.createTestIncomeSource(models.IncomeSource{UserID: user.ID})
	fund := suite.createTestFund(models.Fund{UserID: user.ID})

	tests := []struct {
		name           string
		incomeSourceID uuid.UUID
		fundID         uuid.UUID
		err            error
	}{
		{"both exist", source.ID, fund.ID, nil},
		{"no such income source", uuid.New(), fund.ID, models.ErrResourceNotFound},
		{"no such fund", source.ID, uuid.New(), models.ErrResourceNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			err := models.DB.Create(&models.SourceDistribution{
				IncomeSourceID: tt.incomeSourceID,
				FundID:         tt.fundID,
				Percentage:     decimal.NewFromFloat(5),
			}).Error
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

// Moving a rule to another income source counts against that source's
// total, even when the percentage itself does not change.
func (suite *TestSuiteStandard) TestSourceDistributionUpdateIncomeSource() {
	user := suite.createTestUser(models.User{})
	source := suite.createTestIncomeSource(models.IncomeSource{UserID: user.ID})
	crowded := suite.createTestIncomeSource(models.IncomeSource{UserID: user.ID})
	open := suite.createTestIncomeSource(models.IncomeSource{UserID: user.ID})

	rule := suite.createTestSourceDistribution(models.SourceDistribution{
		IncomeSourceID: source.ID,
		FundID:         suite.createTestFund(models.Fund{UserID: user.ID}).ID,
		Percentage:     decimal.NewFromFloat(60),
	})

	_ = suite.createTestSourceDistribution(models.SourceDistribution{
		IncomeSourceID: crowded.ID,
		FundID:         suite.createTestFund(models.Fund{UserID: user.ID}).ID,
		Percentage:     decimal.NewFromFloat(80),
	})

	// 80 + 60 exceeds 100
	err := models.DB.Model(&rule).Select("IncomeSourceID").Updates(models.SourceDistribution{IncomeSourceID: crowded.ID}).Error
	assert.ErrorIs(suite.T(), err, models.ErrPercentageTotalExceeded)

	// An income source without rules can take the full 60
	err = models.DB.Model(&rule).Select("IncomeSourceID").Updates(models.SourceDistribution{IncomeSourceID: open.ID}).Error
	assert.Nil(suite.T(), err)

	// When source and percentage change together, the check runs against
	// the new source
	err = models.DB.Model(&rule).Select("IncomeSourceID", "Percentage").Updates(models.SourceDistribution{
		IncomeSourceID: crowded.ID,
		Percentage:     decimal.NewFromFloat(20),
	}).Error
	assert.Nil(suite.T(), err)

	err = models.DB.Model(&rule).Select("IncomeSourceID", "Percentage").Updates(models.SourceDistribution{
		IncomeSourceID: source.ID,
		Percentage:     decimal.NewFromFloat(100.5),
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrPercentageOutOfRange)
}
