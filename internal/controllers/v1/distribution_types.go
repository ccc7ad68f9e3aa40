package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kassenwart/backend/internal/models"
	kw_uuid "github.com/kassenwart/backend/internal/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DistributionRequest selects the user whose unallocated money is distributed
type DistributionRequest struct {
	UserID uuid.UUID `json:"userId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the user to run the distribution for
}

type DistributionItem struct {
	FundID     uuid.UUID       `json:"fundId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // ID of the fund that was credited
	Amount     decimal.Decimal `json:"amount" example:"200"`                                  // The amount credited to the fund in this batch
	Percentage decimal.Decimal `json:"percentage" example:"40"`                               // The share of the batch total that went into the fund
}

type DistributionLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/distributions/eb6eaba8-238d-41a4-8a4b-7e3a81bcb6a7"` // The distribution batch itself
}

type Distribution struct {
	models.DefaultModel
	UserID           uuid.UUID          `json:"userId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the user the batch belongs to
	TotalAmount      decimal.Decimal    `json:"totalAmount" example:"500"`                             // The amount that was distributed in this batch
	DistributionDate time.Time          `json:"distributionDate" example:"2026-02-28T18:43:00.271152Z"` // When the batch was executed
	Items            []DistributionItem `json:"items"`                                                 // Per fund breakdown of the batch
	Links            DistributionLinks  `json:"links"`
}

func newDistribution(c *gin.Context, db *gorm.DB, model models.DistributionHistory) (Distribution, error) {
	url := c.GetString(string(models.DBContextURL))

	distribution := Distribution{
		DefaultModel:     model.DefaultModel,
		UserID:           model.UserID,
		TotalAmount:      model.TotalAmount,
		DistributionDate: model.DistributionDate,
		Items:            make([]DistributionItem, 0),
		Links: DistributionLinks{
			Self: fmt.Sprintf("%s/v1/distributions/%s", url, model.ID),
		},
	}

	items, err := model.Items(db)
	if err != nil {
		return Distribution{}, err
	}

	for _, item := range items {
		distribution.Items = append(distribution.Items, DistributionItem{
			FundID:     item.FundID,
			Amount:     item.Amount,
			Percentage: item.Percentage,
		})
	}

	return distribution, nil
}

type DistributionListResponse struct {
	Data       []Distribution `json:"data"`                                                          // List of distribution batches
	Error      *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination    `json:"pagination"`                                                    // Pagination information
}

type DistributionResponse struct {
	Data  *Distribution `json:"data"`                                                          // Data for the distribution batch
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type UnallocatedAmount struct {
	UserID      uuid.UUID       `json:"userId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the user
	Unallocated decimal.Decimal `json:"unallocated" example:"300"`                             // Money received but not yet routed into any fund
}

type UnallocatedResponse struct {
	Data  *UnallocatedAmount `json:"data"`                                           // The unallocated amount for the user
	Error *string            `json:"error" example:"the user query parameter must be set"` // The error, if any occurred
}

type DistributionQueryFilter struct {
	UserID kw_uuid.UUID `form:"user"`                       // By ID of the user
	Offset uint         `form:"offset" filterField:"false"` // The offset of the first batch returned. Defaults to 0.
	Limit  int          `form:"limit" filterField:"false"`  // Maximum number of batches to return. Defaults to 50.
}

func (f DistributionQueryFilter) model() (models.DistributionHistory, error) {
	return models.DistributionHistory{
		UserID: f.UserID.UUID,
	}, nil
}
