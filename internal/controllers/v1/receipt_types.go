package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kassenwart/backend/internal/models"
	kw_uuid "github.com/kassenwart/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptEditable represents all user configurable parameters
type ReceiptEditable struct {
	UserID         uuid.UUID       `json:"userId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                   // ID of the user the receipt belongs to
	IncomeSourceID *uuid.UUID      `json:"incomeSourceId" example:"d1bee6e6-d376-4feb-b6ee-f15dee4032cf" default:"null"` // ID of the income source. Attributed by match rules when empty
	Date           time.Time       `json:"date" example:"2026-02-28T00:00:00Z"`                                     // Date the money was received
	Amount         decimal.Decimal `json:"amount" example:"500" minimum:"0.00000001" multipleOf:"0.00000001"`       // The amount received
	Note           string          `json:"note" example:"Payroll February" default:""`                              // A longer description
}

func (editable ReceiptEditable) model() models.Receipt {
	return models.Receipt{
		UserID:         editable.UserID,
		IncomeSourceID: editable.IncomeSourceID,
		Date:           editable.Date,
		Amount:         editable.Amount,
		Note:           editable.Note,
	}
}

type ReceiptLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/receipts/d9e4ee0d-b0b5-4f14-9ec4-0ee6d74b04cf"` // The receipt itself
	IncomeSource string `json:"incomeSource" example:"https://example.com/api/v1/income-sources/d1bee6e6-d376-4feb-b6ee-f15dee4032cf"` // The income source, empty when unattributed
}

type Receipt struct {
	models.DefaultModel
	ReceiptEditable
	Links ReceiptLinks `json:"links"`
}

func newReceipt(c *gin.Context, model models.Receipt) Receipt {
	url := c.GetString(string(models.DBContextURL))

	receipt := Receipt{
		DefaultModel: model.DefaultModel,
		ReceiptEditable: ReceiptEditable{
			UserID:         model.UserID,
			IncomeSourceID: model.IncomeSourceID,
			Date:           model.Date,
			Amount:         model.Amount,
			Note:           model.Note,
		},
		Links: ReceiptLinks{
			Self: fmt.Sprintf("%s/v1/receipts/%s", url, model.ID),
		},
	}

	if model.IncomeSourceID != nil {
		receipt.Links.IncomeSource = fmt.Sprintf("%s/v1/income-sources/%s", url, *model.IncomeSourceID)
	}

	return receipt
}

type ReceiptListResponse struct {
	Data       []Receipt   `json:"data"`                                                          // List of Receipts
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type ReceiptCreateResponse struct {
	Data  []ReceiptResponse `json:"data"`                                                          // List of the created Receipts or their respective error
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *ReceiptCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, ReceiptResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ReceiptResponse struct {
	Data  *Receipt `json:"data"`                                                          // Data for the Receipt
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ReceiptQueryFilter struct {
	UserID         kw_uuid.UUID `form:"user"`                              // By ID of the user
	IncomeSourceID kw_uuid.UUID `form:"incomeSource"`                      // By ID of the income source
	Note           string       `form:"note" filterField:"false"`          // By note
	Undistributed  bool         `form:"undistributed" filterField:"false"` // Only receipts without fund distributions
	Offset         uint         `form:"offset" filterField:"false"`        // The offset of the first Receipt returned. Defaults to 0.
	Limit          int          `form:"limit" filterField:"false"`         // Maximum number of Receipts to return. Defaults to 50.
}

func (f ReceiptQueryFilter) model() (models.Receipt, error) {
	filter := models.Receipt{
		UserID: f.UserID.UUID,
	}

	if f.IncomeSourceID != kw_uuid.Nil {
		id := f.IncomeSourceID.UUID
		filter.IncomeSourceID = &id
	}

	return filter, nil
}
