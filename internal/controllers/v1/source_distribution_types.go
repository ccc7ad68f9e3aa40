package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kassenwart/backend/internal/models"
	kw_uuid "github.com/kassenwart/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

// SourceDistributionEditable represents all user configurable parameters
type SourceDistributionEditable struct {
	IncomeSourceID uuid.UUID       `json:"incomeSourceId" example:"d1bee6e6-d376-4feb-b6ee-f15dee4032cf"` // ID of the income source the rule belongs to
	FundID         uuid.UUID       `json:"fundId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`         // ID of the fund receiving the share
	Percentage     decimal.Decimal `json:"percentage" example:"40" minimum:"0" maximum:"100"`             // Percentage of each receipt routed into the fund, in (0, 100]
}

func (editable SourceDistributionEditable) model() models.SourceDistribution {
	return models.SourceDistribution{
		IncomeSourceID: editable.IncomeSourceID,
		FundID:         editable.FundID,
		Percentage:     editable.Percentage,
	}
}

type SourceDistributionLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/source-distributions/2c0ba509-e074-4b60-a48f-6e7cbea4a9a5"` // The rule itself
	IncomeSource string `json:"incomeSource" example:"https://example.com/api/v1/income-sources/d1bee6e6-d376-4feb-b6ee-f15dee4032cf"` // The income source the rule belongs to
	Fund         string `json:"fund" example:"https://example.com/api/v1/funds/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`               // The fund receiving the share
}

type SourceDistribution struct {
	models.DefaultModel
	SourceDistributionEditable
	Links SourceDistributionLinks `json:"links"`
}

func newSourceDistribution(c *gin.Context, model models.SourceDistribution) SourceDistribution {
	url := c.GetString(string(models.DBContextURL))

	return SourceDistribution{
		DefaultModel: model.DefaultModel,
		SourceDistributionEditable: SourceDistributionEditable{
			IncomeSourceID: model.IncomeSourceID,
			FundID:         model.FundID,
			Percentage:     model.Percentage,
		},
		Links: SourceDistributionLinks{
			Self:         fmt.Sprintf("%s/v1/source-distributions/%s", url, model.ID),
			IncomeSource: fmt.Sprintf("%s/v1/income-sources/%s", url, model.IncomeSourceID),
			Fund:         fmt.Sprintf("%s/v1/funds/%s", url, model.FundID),
		},
	}
}

type SourceDistributionListResponse struct {
	Data       []SourceDistribution `json:"data"`                                                          // List of SourceDistributions
	Error      *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination          `json:"pagination"`                                                    // Pagination information
}

type SourceDistributionCreateResponse struct {
	Data  []SourceDistributionResponse `json:"data"`                                                          // List of the created SourceDistributions or their respective error
	Error *string                      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (s *SourceDistributionCreateResponse) appendError(err error, currentStatus int) int {
	e := err.Error()
	s.Data = append(s.Data, SourceDistributionResponse{Error: &e})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type SourceDistributionResponse struct {
	Data  *SourceDistribution `json:"data"`                                                          // Data for the SourceDistribution
	Error *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type SourceDistributionQueryFilter struct {
	IncomeSourceID kw_uuid.UUID `form:"incomeSource"`               // By ID of the income source
	FundID         kw_uuid.UUID `form:"fund"`                       // By ID of the fund
	UserID         kw_uuid.UUID `form:"user" filterField:"false"`   // By ID of the user owning the income source
	Offset         uint         `form:"offset" filterField:"false"` // The offset of the first SourceDistribution returned. Defaults to 0.
	Limit          int          `form:"limit" filterField:"false"`  // Maximum number of SourceDistributions to return. Defaults to 50.
}

func (f SourceDistributionQueryFilter) model() (models.SourceDistribution, error) {
	return models.SourceDistribution{
		IncomeSourceID: f.IncomeSourceID.UUID,
		FundID:         f.FundID.UUID,
	}, nil
}
