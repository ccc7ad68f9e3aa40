package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UnallocatedFunds computes the amount of money the user has received but
// not yet routed into any fund: the sum of all receipts, minus everything
// distributed from them, minus all manual distributions.
//
// The value can only be negative when the data is corrupted. This is logged
// as a consistency warning, the value is still returned so that callers can
// surface it.
func UnallocatedFunds(db *gorm.DB, userID uuid.UUID) (decimal.Decimal, error) {
	receipts, err := sumAmount(db, &Receipt{}, &Receipt{UserID: userID})
	if err != nil {
		return decimal.Zero, err
	}

	var distributed decimal.NullDecimal
	err = db.Model(&FundDistribution{}).
		Joins("JOIN receipts ON receipts.id = fund_distributions.receipt_id").
		Where("receipts.user_id = ?", userID).
		Select("SUM(fund_distributions.amount)").
		Row().
		Scan(&distributed)
	if err != nil {
		return decimal.Zero, err
	}

	manual, err := sumAmount(db, &ManualDistribution{}, &ManualDistribution{UserID: userID})
	if err != nil {
		return decimal.Zero, err
	}

	unallocated := receipts.Sub(distributed.Decimal).Sub(manual)
	if unallocated.IsNegative() {
		log.Warn().
			Str("user", userID.String()).
			Str("unallocated", unallocated.String()).
			Msg("unallocated funds are negative, this indicates corrupted data")
	}

	return unallocated, nil
}

// DistributeReceipt applies the percentage rules of the receipt's income
// source to the receipt.
//
// Any fund distributions that already exist for the receipt are deleted
// first, so the operation is an idempotent reset: calling it twice yields
// the same rows as calling it once. This also handles receipts whose amount
// or income source was edited after a previous distribution.
//
// A receipt without an income source, or an income source without rules,
// leaves the receipt fully undistributed. Rules that sum to less than 100
// leave a remainder unallocated, which is an accepted state, not an error.
func DistributeReceipt(db *gorm.DB, receipt Receipt) ([]FundDistribution, error) {
	var distributions []FundDistribution

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		distributions, err = distributeReceipt(tx, receipt)
		return err
	})
	if err != nil {
		return nil, err
	}

	return distributions, nil
}

func distributeReceipt(tx *gorm.DB, receipt Receipt) ([]FundDistribution, error) {
	// Idempotent reset
	err := tx.Where(&FundDistribution{ReceiptID: receipt.ID}).Delete(&FundDistribution{}).Error
	if err != nil {
		return nil, err
	}

	if receipt.IncomeSourceID == nil {
		return nil, nil
	}

	var rules []SourceDistribution
	err = tx.
		Where(&SourceDistribution{IncomeSourceID: *receipt.IncomeSourceID}).
		Order("datetime(source_distributions.created_at) ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}

	distributions := make([]FundDistribution, 0, len(rules))
	for _, rule := range rules {
		distribution := FundDistribution{
			ReceiptID:  receipt.ID,
			FundID:     rule.FundID,
			Amount:     receipt.Amount.Mul(rule.Percentage).Div(oneHundred),
			Percentage: rule.Percentage,
		}

		err = tx.Create(&distribution).Error
		if err != nil {
			return nil, err
		}

		distributions = append(distributions, distribution)
	}

	return distributions, nil
}

// DistributeUnallocated distributes all undistributed receipts of the user
// according to their income source rules, in one atomic batch.
//
// Receipts count as undistributed when they have no fund distributions at
// all. A receipt that was partially distributed, because its rules sum to
// less than 100, is not picked up again.
//
// When money was distributed, one DistributionHistory entry with one item
// per receiving fund is written in the same transaction, so a reader can
// never observe the history without its distributions. The item percentage
// is the fund's share of this batch, recomputed from the batch totals.
//
// When there is nothing to distribute the call is a no-op and returns nil.
func DistributeUnallocated(db *gorm.DB, userID uuid.UUID) (*DistributionHistory, error) {
	var history *DistributionHistory

	err := db.Transaction(func(tx *gorm.DB) error {
		unallocated, err := UnallocatedFunds(tx, userID)
		if err != nil {
			return err
		}

		if !unallocated.IsPositive() {
			return nil
		}

		// All receipts of the user that have no fund distributions yet
		var receipts []Receipt
		err = tx.
			Where(&Receipt{UserID: userID}).
			Where("receipts.id NOT IN (?)", tx.Model(&FundDistribution{}).Select("receipt_id")).
			Where("receipts.income_source_id IS NOT NULL").
			Order("datetime(receipts.date) ASC, datetime(receipts.created_at) ASC").
			Find(&receipts).Error
		if err != nil {
			return err
		}

		var created []uuid.UUID
		fundTotals := make(map[uuid.UUID]decimal.Decimal)
		fundOrder := make([]uuid.UUID, 0)
		total := decimal.Zero

		for _, receipt := range receipts {
			distributions, err := distributeReceipt(tx, receipt)
			if err != nil {
				return err
			}

			for _, distribution := range distributions {
				if _, ok := fundTotals[distribution.FundID]; !ok {
					fundOrder = append(fundOrder, distribution.FundID)
				}

				fundTotals[distribution.FundID] = fundTotals[distribution.FundID].Add(distribution.Amount)
				total = total.Add(distribution.Amount)
				created = append(created, distribution.ID)
			}
		}

		// No receipt had applicable rules, so there is nothing to audit
		if !total.IsPositive() {
			return nil
		}

		batch := DistributionHistory{
			UserID:           userID,
			TotalAmount:      total,
			DistributionDate: time.Now().In(time.UTC),
		}
		err = tx.Create(&batch).Error
		if err != nil {
			return err
		}

		// Link the distributions of this batch to the history entry so
		// that a deletion of the batch can reverse exactly these rows
		err = tx.Model(&FundDistribution{}).
			Where("id IN ?", created).
			Update("history_id", batch.ID).Error
		if err != nil {
			return err
		}

		for _, fundID := range fundOrder {
			item := DistributionHistoryItem{
				HistoryID:  batch.ID,
				FundID:     fundID,
				Amount:     fundTotals[fundID],
				Percentage: fundTotals[fundID].Div(total).Mul(oneHundred),
			}

			err = tx.Create(&item).Error
			if err != nil {
				return err
			}
		}

		history = &batch
		return nil
	})
	if err != nil {
		return nil, err
	}

	return history, nil
}

// DeleteDistributionHistory reverses one batch distribution: it deletes the
// history entry, its items, and the fund distributions created by the
// batch.
//
// A batch whose deletion matches no fund distributions is logged as a
// consistency warning and the deletion of the history entry proceeds.
func DeleteDistributionHistory(db *gorm.DB, id, userID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var history DistributionHistory
		err := tx.Where("user_id = ?", userID).First(&history, id).Error
		if err != nil {
			return err
		}

		res := tx.Where("history_id = ?", history.ID).Delete(&FundDistribution{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			log.Warn().
				Str("history", history.ID.String()).
				Msg("distribution reversal matched no fund distributions")
		}

		err = tx.Where(&DistributionHistoryItem{HistoryID: history.ID}).Delete(&DistributionHistoryItem{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&history).Error
	})
}
