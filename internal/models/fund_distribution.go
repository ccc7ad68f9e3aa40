package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FundDistribution is one share of a receipt that was routed into a fund.
//
// The percentage is a snapshot of the source distribution rule at the time
// the receipt was distributed, so later rule edits do not change the audit
// trail.
//
// HistoryID links the row to the distribution batch that created it. It is
// nil for rows created by distributing a single receipt directly.
type FundDistribution struct {
	DefaultModel
	Receipt    Receipt   `json:"-"`
	ReceiptID  uuid.UUID
	Fund       Fund      `json:"-"`
	FundID     uuid.UUID
	HistoryID  *uuid.UUID `gorm:"index"`
	Amount     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Percentage decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}
