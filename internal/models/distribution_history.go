package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DistributionHistory is the immutable audit record of one batch
// distribution run. It is only ever created by DistributeUnallocated and
// deleted as a unit together with its items and the fund distributions
// that carry its ID.
type DistributionHistory struct {
	DefaultModel
	User             User      `json:"-"`
	UserID           uuid.UUID
	TotalAmount      decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // The amount that was actually distributed in this batch
	DistributionDate time.Time
}

// DistributionHistoryItem records how much of a batch went into one fund.
//
// The percentage is the share of this batch, not the rule percentage: a
// fund can aggregate contributions from multiple receipts at different
// rates within one batch.
type DistributionHistoryItem struct {
	DefaultModel
	History    DistributionHistory `json:"-" gorm:"foreignKey:HistoryID"`
	HistoryID  uuid.UUID           `gorm:"index"`
	Fund       Fund                `json:"-"`
	FundID     uuid.UUID
	Amount     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Percentage decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

func (h *DistributionHistory) AfterFind(tx *gorm.DB) (err error) {
	err = h.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	h.DistributionDate = h.DistributionDate.In(time.UTC)
	return nil
}

// Items returns all items of this batch.
func (h DistributionHistory) Items(db *gorm.DB) ([]DistributionHistoryItem, error) {
	items := make([]DistributionHistoryItem, 0)
	err := db.Where(&DistributionHistoryItem{HistoryID: h.ID}).Find(&items).Error
	return items, err
}
