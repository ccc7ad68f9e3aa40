package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// sumAmount returns the sum of the Amount column over all rows of the model
// matching the query.
//
// SUM() returns NULL when no rows match, so the result is scanned into a
// NullDecimal and the zero value is used in that case.
func sumAmount(db *gorm.DB, model, query any) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	err := db.Model(model).Where(query).Select("SUM(amount)").Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("getting the sum for %T with attributes %v failed: %w", model, query, err)
	}

	return sum.Decimal, nil
}
