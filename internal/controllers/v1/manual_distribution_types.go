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

// ManualDistributionEditable represents all user configurable parameters
type ManualDistributionEditable struct {
	UserID     uuid.UUID        `json:"userId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`             // ID of the user the distribution belongs to
	FundID     uuid.UUID        `json:"fundId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`             // ID of the fund being credited
	Date       time.Time        `json:"date" example:"2026-02-28T00:00:00Z"`                               // Date of the credit
	Amount     decimal.Decimal  `json:"amount" example:"100" minimum:"0.00000001" multipleOf:"0.00000001"` // The amount credited to the fund
	Percentage *decimal.Decimal `json:"percentage" example:"20" default:"null"`                            // Optional note of the share this credit represents
	Note       string           `json:"note" example:"Birthday money" default:""`                          // A longer description
}

func (editable ManualDistributionEditable) model() models.ManualDistribution {
	return models.ManualDistribution{
		UserID:     editable.UserID,
		FundID:     editable.FundID,
		Date:       editable.Date,
		Amount:     editable.Amount,
		Percentage: editable.Percentage,
		Note:       editable.Note,
	}
}

type ManualDistributionLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/manual-distributions/7e25bc01-2824-4227-9c39-b55e4dcf1efc"` // The manual distribution itself
	Fund string `json:"fund" example:"https://example.com/api/v1/funds/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`                // The fund being credited
}

type ManualDistribution struct {
	models.DefaultModel
	ManualDistributionEditable
	Links ManualDistributionLinks `json:"links"`
}

func newManualDistribution(c *gin.Context, model models.ManualDistribution) ManualDistribution {
	url := c.GetString(string(models.DBContextURL))

	return ManualDistribution{
		DefaultModel: model.DefaultModel,
		ManualDistributionEditable: ManualDistributionEditable{
			UserID:     model.UserID,
			FundID:     model.FundID,
			Date:       model.Date,
			Amount:     model.Amount,
			Percentage: model.Percentage,
			Note:       model.Note,
		},
		Links: ManualDistributionLinks{
			Self: fmt.Sprintf("%s/v1/manual-distributions/%s", url, model.ID),
			Fund: fmt.Sprintf("%s/v1/funds/%s", url, model.FundID),
		},
	}
}

type ManualDistributionListResponse struct {
	Data       []ManualDistribution `json:"data"`                                                          // List of ManualDistributions
	Error      *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination          `json:"pagination"`                                                    // Pagination information
}

type ManualDistributionCreateResponse struct {
	Data  []ManualDistributionResponse `json:"data"`                                                          // List of the created ManualDistributions or their respective error
	Error *string                      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (m *ManualDistributionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	m.Data = append(m.Data, ManualDistributionResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ManualDistributionResponse struct {
	Data  *ManualDistribution `json:"data"`                                                          // Data for the ManualDistribution
	Error *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ManualDistributionQueryFilter struct {
	UserID kw_uuid.UUID `form:"user"`                       // By ID of the user
	FundID kw_uuid.UUID `form:"fund"`                       // By ID of the fund
	Note   string       `form:"note" filterField:"false"`   // By note
	Offset uint         `form:"offset" filterField:"false"` // The offset of the first ManualDistribution returned. Defaults to 0.
	Limit  int          `form:"limit" filterField:"false"`  // Maximum number of ManualDistributions to return. Defaults to 50.
}

func (f ManualDistributionQueryFilter) model() (models.ManualDistribution, error) {
	return models.ManualDistribution{
		UserID: f.UserID.UUID,
		FundID: f.FundID.UUID,
	}, nil
}
