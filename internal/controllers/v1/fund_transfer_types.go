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

// FundTransferEditable represents all user configurable parameters
type FundTransferEditable struct {
	UserID            uuid.UUID       `json:"userId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`             // ID of the user the transfer belongs to
	SourceFundID      uuid.UUID       `json:"sourceFundId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`       // ID of the fund the money is taken from
	DestinationFundID uuid.UUID       `json:"destinationFundId" example:"cccfaa3d-dd9d-41b0-9b32-96dcd2ff672b"`  // ID of the fund the money is moved to
	Date              time.Time       `json:"date" example:"2026-02-28T00:00:00Z"`                               // Date of the transfer
	Amount            decimal.Decimal `json:"amount" example:"50" minimum:"0.00000001" multipleOf:"0.00000001"`  // The amount moved between the funds
	Note              string          `json:"note" example:"Topping up the car fund" default:""`                 // A longer description
}

func (editable FundTransferEditable) model() models.FundTransfer {
	return models.FundTransfer{
		UserID:            editable.UserID,
		SourceFundID:      editable.SourceFundID,
		DestinationFundID: editable.DestinationFundID,
		Date:              editable.Date,
		Amount:            editable.Amount,
		Note:              editable.Note,
	}
}

type FundTransferLinks struct {
	Self            string `json:"self" example:"https://example.com/api/v1/transfers/aa38eb2b-9c17-4fc1-9d4c-4a5f32cca0f5"`        // The transfer itself
	SourceFund      string `json:"sourceFund" example:"https://example.com/api/v1/funds/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`      // The fund the money is taken from
	DestinationFund string `json:"destinationFund" example:"https://example.com/api/v1/funds/cccfaa3d-dd9d-41b0-9b32-96dcd2ff672b"` // The fund the money is moved to
}

type FundTransfer struct {
	models.DefaultModel
	FundTransferEditable
	Links FundTransferLinks `json:"links"`
}

func newFundTransfer(c *gin.Context, model models.FundTransfer) FundTransfer {
	url := c.GetString(string(models.DBContextURL))

	return FundTransfer{
		DefaultModel: model.DefaultModel,
		FundTransferEditable: FundTransferEditable{
			UserID:            model.UserID,
			SourceFundID:      model.SourceFundID,
			DestinationFundID: model.DestinationFundID,
			Date:              model.Date,
			Amount:            model.Amount,
			Note:              model.Note,
		},
		Links: FundTransferLinks{
			Self:            fmt.Sprintf("%s/v1/transfers/%s", url, model.ID),
			SourceFund:      fmt.Sprintf("%s/v1/funds/%s", url, model.SourceFundID),
			DestinationFund: fmt.Sprintf("%s/v1/funds/%s", url, model.DestinationFundID),
		},
	}
}

type FundTransferListResponse struct {
	Data       []FundTransfer `json:"data"`                                                          // List of FundTransfers
	Error      *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination    `json:"pagination"`                                                    // Pagination information
}

type FundTransferCreateResponse struct {
	Data  []FundTransferResponse `json:"data"`                                                          // List of the created FundTransfers or their respective error
	Error *string                `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (f *FundTransferCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	f.Data = append(f.Data, FundTransferResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type FundTransferResponse struct {
	Data  *FundTransfer `json:"data"`                                                          // Data for the FundTransfer
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type FundTransferQueryFilter struct {
	UserID            kw_uuid.UUID `form:"user"`                       // By ID of the user
	SourceFundID      kw_uuid.UUID `form:"sourceFund"`                 // By ID of the source fund
	DestinationFundID kw_uuid.UUID `form:"destinationFund"`            // By ID of the destination fund
	Note              string       `form:"note" filterField:"false"`   // By note
	Offset            uint         `form:"offset" filterField:"false"` // The offset of the first FundTransfer returned. Defaults to 0.
	Limit             int          `form:"limit" filterField:"false"`  // Maximum number of FundTransfers to return. Defaults to 50.
}

func (f FundTransferQueryFilter) model() (models.FundTransfer, error) {
	return models.FundTransfer{
		UserID:            f.UserID.UUID,
		SourceFundID:      f.SourceFundID.UUID,
		DestinationFundID: f.DestinationFundID.UUID,
	}, nil
}
