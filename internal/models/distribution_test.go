package models_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/kassenwart/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestUnallocatedFunds() {
	user := suite.createTestUser(models.User{})
	fund := suite.createTestFund(models.Fund{UserID: user.ID})

	// No receipts at all
	unallocated, err := models.UnallocatedFunds(models.DB, user.ID)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), unallocated.IsZero(), "unallocated is %s, should be 0", unallocated)

	_ = suite.createTestReceipt(models.Receipt{
		UserID: user.ID,
		Amount: decimal.NewFromFloat(500),
	})

	unallocated, err = models.UnallocatedFunds(models.DB, user.ID)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), unallocated.Equal(decimal.NewFromFloat(500)), "unallocated is %s, should be 500", unallocated)

	// Manual distributions reduce the unallocated amount
	_ = suite.createTestManualDistribution(models.ManualDistribution{
		UserID: user.ID,
		FundID: fund.ID,
		Amount: decimal.NewFromFloat(120),
	})

	unallocated, err = models.UnallocatedFunds(models.DB, user.ID)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), unallocated.Equal(decimal.NewFromFloat(380)), "unallocated is %s, should be 380", unallocated)

	// Another user's receipts do not leak in
	otherUser := suite.createTestUser(models.User{})
	_ = suite.createTestReceipt(models.Receipt{
		UserID: otherUser.ID,
		Amount: decimal.NewFromFloat(1000),
	})

	unallocated, err = models.UnallocatedFunds(models.DB, user.ID)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), unallocated.Equal(decimal.NewFromFloat(380)), "unallocated is %s, should be 380", unallocated)
}

func (suite *TestSuiteStandard) TestDistributeReceipt() {
	user := suite.createTestUser(models.User{})
	source := suite.createTestIncomeSource(models.IncomeSource{UserID: user.ID})
	reserve := suite.createTestFund(models.Fund{UserID: user.ID, Name: "Reserve"})
	dues := suite.createTestFund(models.Fund{UserID: user.ID, Name: "Dues"})

	_ = suite.createTestSourceDistribution(models.SourceDistribution{
		IncomeSourceID: source.ID,
		FundID:         reserve.ID,
		Percentage:     decimal.NewFromFloat(40),
	})
	_ = suite.createTestSourceDistribution(models.SourceDistribution{
		IncomeSourceID: source.ID,
		FundID:         dues.ID,
		Percentage:     decimal.NewFromFloat(40),
	})

	receipt := suite.createTestReceipt(models.Receipt{
		UserID:         user.ID,
		IncomeSourceID: &source.ID,
		Amount:         decimal.NewFromFloat(500),
	})

	distributions, err := models.DistributeReceipt(models.DB, receipt)
	assert.Nil(suite.T(), err)
	assert.Len(suite.T(), distributions, 2)

	for _, distribution := range distributions {
		assert.True(suite.T(), distribution.Amount.Equal(decimal.NewFromFloat(200)), "distribution amount is %s, should be 200", distribution.Amount)
		assert.True(suite.T(), distribution.Percentage.Equal(decimal.NewFromFloat(40)), "distribution percentage is %s, should be 40", distribution.Percentage)
	}

	// 40% + 40% leaves 20% of the receipt unallocated
	unallocated, err := models.UnallocatedFunds(models.DB, user.ID)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), unallocated.Equal(decimal.NewFromFloat(100)), "unallocated is %s, should be 100", unallocated)

	balance, err := reserve.Balance(models.DB)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), balance.Equal(decimal.NewFromFloat(200)), "balance is %s, should be 200", balance)
}

// Distributing twice must not double the fund distributions.
func (suite *TestSuiteStandard) TestDistributeReceiptIdempotent() {
	user := suite.createTestUser(models.User{})
	source := suite.createTestIncomeSource(models.IncomeSource{UserID: user.ID})
	fund := suite.createTestFund(models.Fund{UserID: user.ID})

	_ = suite.createTestSourceDistribution(models.SourceDistribution{
		IncomeSourceID: source.ID,
		FundID:         fund.ID,
		Percentage:     decimal.NewFromFloat(50),
	})

	receipt := suite.createTestReceipt(models.Receipt{
		UserID:         user.ID,
		IncomeSourceID: &source.ID,
		Amount:         decimal.NewFromFloat(100),
	})

	_, err := models.DistributeReceipt(models.DB, receipt)
	assert.Nil(suite.T(), err)
	_, err = models.DistributeReceipt(models.DB, receipt)
	assert.Nil(suite.T(), err)

	var count int64
	models.DB.Model(&models.FundDistribution{}).Where(&models.FundDistribution{ReceiptID: receipt.ID}).Count(&count)
	assert.Equal(suite.T(), int64(1), count)

	balance, err := fund.Balance(models.DB)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), balance.Equal(decimal.NewFromFloat(50)), "balance is %s, should be 50", balance)
}

func (suite *TestSuiteStandard) TestDistributeReceiptWithoutSource() {
	user := suite.createTestUser(models.User{})

	receipt := suite.createTestReceipt(models.Receipt{
		UserID: user.ID,
		Amount: decimal.NewFromFloat(100),
	})

	distributions, err := models.DistributeReceipt(models.DB, receipt)
	assert.Nil(suite.T(), err)
	assert.Len(suite.T(), distributions, 0)
}

func (suite *TestSuiteStandard) TestDistributeUnallocatedEmpty() {
	user := suite.createTestUser(models.User{})

	batch, err := models.DistributeUnallocated(models.DB, user.ID)
	assert.Nil(suite.T(), err)
	assert.Nil(suite.T(), batch, "a no-op run must not create a history entry")

	var count int64
	models.DB.Model(&models.DistributionHistory{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// Receipts without rules contribute nothing, so no history is written even
// though money is unallocated.
func (suite *TestSuiteStandard) TestDistributeUnallocatedNoRules() {
	user := suite.createTestUser(models.User{})
	source := suite.createTestIncomeSource(models.IncomeSource{UserID: user.ID})

	_ = suite.createTestReceipt(models.Receipt{
		UserID:         user.ID,
		IncomeSourceID: &source.ID,
		Amount:         decimal.NewFromFloat(100),
	})

	batch, err := models.DistributeUnallocated(models.DB, user.ID)
	assert.Nil(suite.T(), err)
	assert.Nil(suite.T(), batch)

	var count int64
	models.DB.Model(&models.DistributionHistory{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

func (suite *TestSuiteStandard) TestDistributeUnallocated() {
	user := suite.createTestUser(models.User{})
	source := suite.createTestIncomeSource(models.IncomeSource{UserID: user.ID})
	reserve := suite.createTestFund(models.Fund{UserID: user.ID, Name: "Reserve"})
	dues := suite.createTestFund(models.Fund{UserID: user.ID, Name: "Dues"})

	_ = suite.createTestSourceDistribution(models.SourceDistribution{
		IncomeSourceID: source.ID,
		FundID:         reserve.ID,
		Percentage:     decimal.NewFromFloat(60),
	})
	_ = suite.createTestSourceDistribution(models.SourceDistribution{
		IncomeSourceID: source.ID,
		FundID:         dues.ID,
		Percentage:     decimal.NewFromFloat(20),
	})

	_ = suite.createTestReceipt(models.Receipt{
		UserID:         user.ID,
		IncomeSourceID: &source.ID,
		Date:           time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Amount:         decimal.NewFromFloat(100),
	})
	_ = suite.createTestReceipt(models.Receipt{
		UserID:         user.ID,
		IncomeSourceID: &source.ID,
		Date:           time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		Amount:         decimal.NewFromFloat(300),
	})

	batch, err := models.DistributeUnallocated(models.DB, user.ID)
	assert.Nil(suite.T(), err)
	if !assert.NotNil(suite.T(), batch) {
		return
	}

	// 60% + 20% of 400
	assert.True(suite.T(), batch.TotalAmount.Equal(decimal.NewFromFloat(320)), "batch total is %s, should be 320", batch.TotalAmount)
	assert.Equal(suite.T(), user.ID, batch.UserID)

	items, err := batch.Items(models.DB)
	assert.Nil(suite.T(), err)
	if assert.Len(suite.T(), items, 2) {
		for _, item := range items {
			switch item.FundID {
			case reserve.ID:
				assert.True(suite.T(), item.Amount.Equal(decimal.NewFromFloat(240)), "reserve item amount is %s, should be 240", item.Amount)
				assert.True(suite.T(), item.Percentage.Equal(decimal.NewFromFloat(75)), "reserve item percentage is %s, should be 75", item.Percentage)
			case dues.ID:
				assert.True(suite.T(), item.Amount.Equal(decimal.NewFromFloat(80)), "dues item amount is %s, should be 80", item.Amount)
				assert.True(suite.T(), item.Percentage.Equal(decimal.NewFromFloat(25)), "dues item percentage is %s, should be 25", item.Percentage)
			default:
				assert.Fail(suite.T(), "item references an unexpected fund", "Fund ID: %s", item.FundID)
			}
		}
	}

	// All fund distributions of the batch carry its ID
	var count int64
	models.DB.Model(&models.FundDistribution{}).Where("history_id = ?", batch.ID).Count(&count)
	assert.Equal(suite.T(), int64(4), count)

	// The 20% remainder of each receipt stays unallocated
	unallocated, err := models.UnallocatedFunds(models.DB, user.ID)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), unallocated.Equal(decimal.NewFromFloat(80)), "unallocated is %s, should be 80", unallocated)

	// A second run finds nothing new
	batch, err = models.DistributeUnallocated(models.DB, user.ID)
	assert.Nil(suite.T(), err)
	assert.Nil(suite.T(), batch, "a second run must not distribute again")
}

// A receipt that already has fund distributions is not picked up by a batch
// run, even when its rules left a remainder.
func (suite *TestSuiteStandard) TestDistributeUnallocatedSkipsDistributed() {
	user := suite.createTestUser(models.User{})
	source := suite.createTestIncomeSource(models.IncomeSource{UserID: user.ID})
	fund := suite.createTestFund(models.Fund{UserID: user.ID})

	_ = suite.createTestSourceDistribution(models.SourceDistribution{
		IncomeSourceID: source.ID,
		FundID:         fund.ID,
		Percentage:     decimal.NewFromFloat(50),
	})

	distributed := suite.createTestReceipt(models.Receipt{
		UserID:         user.ID,
		IncomeSourceID: &source.ID,
		Amount:         decimal.NewFromFloat(100),
	})
	_, err := models.DistributeReceipt(models.DB, distributed)
	assert.Nil(suite.T(), err)

	_ = suite.createTestReceipt(models.Receipt{
		UserID:         user.ID,
		IncomeSourceID: &source.ID,
		Amount:         decimal.NewFromFloat(60),
	})

	batch, err := models.DistributeUnallocated(models.DB, user.ID)
	assert.Nil(suite.T(), err)
	if !assert.NotNil(suite.T(), batch) {
		return
	}

	// Only the second receipt contributes: 50% of 60
	assert.True(suite.T(), batch.TotalAmount.Equal(decimal.NewFromFloat(30)), "batch total is %s, should be 30", batch.TotalAmount)
}

func (suite *TestSuiteStandard) TestDeleteDistributionHistory() {
	user := suite.createTestUser(models.User{})
	source := suite.createTestIncomeSource(models.IncomeSource{UserID: user.ID})
	fund := suite.createTestFund(models.Fund{UserID: user.ID})

	_ = suite.createTestSourceDistribution(models.SourceDistribution{
		IncomeSourceID: source.ID,
		FundID:         fund.ID,
		Percentage:     decimal.NewFromFloat(50),
	})

	_ = suite.createTestReceipt(models.Receipt{
		UserID:         user.ID,
		IncomeSourceID: &source.ID,
		Amount:         decimal.NewFromFloat(100),
	})

	batch, err := models.DistributeUnallocated(models.DB, user.ID)
	assert.Nil(suite.T(), err)
	if !assert.NotNil(suite.T(), batch) {
		return
	}

	unallocated, err := models.UnallocatedFunds(models.DB, user.ID)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), unallocated.Equal(decimal.NewFromFloat(50)), "unallocated is %s, should be 50", unallocated)

	err = models.DeleteDistributionHistory(models.DB, batch.ID, user.ID)
	assert.Nil(suite.T(), err)

	// The reversal restores the unallocated amount and empties the fund
	unallocated, err = models.UnallocatedFunds(models.DB, user.ID)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), unallocated.Equal(decimal.NewFromFloat(100)), "unallocated is %s, should be 100", unallocated)

	balance, err := fund.Balance(models.DB)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), balance.IsZero(), "balance is %s, should be 0", balance)

	var count int64
	models.DB.Model(&models.DistributionHistory{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
	models.DB.Model(&models.DistributionHistoryItem{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

func (suite *TestSuiteStandard) TestDeleteDistributionHistoryWrongUser() {
	user := suite.createTestUser(models.User{})
	source := suite.createTestIncomeSource(models.IncomeSource{UserID: user.ID})
	fund := suite.createTestFund(models.Fund{UserID: user.ID})

	_ = suite.createTestSourceDistribution(models.SourceDistribution{
		IncomeSourceID: source.ID,
		FundID:         fund.ID,
		Percentage:     decimal.NewFromFloat(50),
	})
	_ = suite.createTestReceipt(models.Receipt{
		UserID:         user.ID,
		IncomeSourceID: &source.ID,
		Amount:         decimal.NewFromFloat(100),
	})

	batch, err := models.DistributeUnallocated(models.DB, user.ID)
	assert.Nil(suite.T(), err)
	if !assert.NotNil(suite.T(), batch) {
		return
	}

	otherUser := suite.createTestUser(models.User{})
	err = models.DeleteDistributionHistory(models.DB, batch.ID, otherUser.ID)
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)

	err = models.DeleteDistributionHistory(models.DB, uuid.New(), user.ID)
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}
