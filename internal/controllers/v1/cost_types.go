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

// CostEditable represents all user configurable parameters
type CostEditable struct {
	UserID     uuid.UUID       `json:"userId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`               // ID of the user the cost belongs to
	FundID     uuid.UUID       `json:"fundId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`               // ID of the fund the cost is paid from
	CategoryID *uuid.UUID      `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f" default:"null"` // Optional ID of the category
	Date       time.Time       `json:"date" example:"2026-02-28T00:00:00Z"`                                 // Date the money was spent
	Amount     decimal.Decimal `json:"amount" example:"14.99" minimum:"0.00000001" multipleOf:"0.00000001"` // The amount spent
	Note       string          `json:"note" example:"Weekly groceries" default:""`                          // A longer description
}

func (editable CostEditable) model() models.Cost {
	return models.Cost{
		UserID:     editable.UserID,
		FundID:     editable.FundID,
		CategoryID: editable.CategoryID,
		Date:       editable.Date,
		Amount:     editable.Amount,
		Note:       editable.Note,
	}
}

type CostLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/costs/d16a1e6a-f590-4e24-9fa9-5a2d175e1e41"`  // The cost itself
	Fund     string `json:"fund" example:"https://example.com/api/v1/funds/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`  // The fund the cost is paid from
	Category string `json:"category" example:"https://example.com/api/v1/categories/3b1ea324-d438-4419-882a-2fc91d71772f"` // The category, empty when uncategorized
}

type Cost struct {
	models.DefaultModel
	CostEditable
	Links CostLinks `json:"links"`
}

func newCost(c *gin.Context, model models.Cost) Cost {
	url := c.GetString(string(models.DBContextURL))

	cost := Cost{
		DefaultModel: model.DefaultModel,
		CostEditable: CostEditable{
			UserID:     model.UserID,
			FundID:     model.FundID,
			CategoryID: model.CategoryID,
			Date:       model.Date,
			Amount:     model.Amount,
			Note:       model.Note,
		},
		Links: CostLinks{
			Self: fmt.Sprintf("%s/v1/costs/%s", url, model.ID),
			Fund: fmt.Sprintf("%s/v1/funds/%s", url, model.FundID),
		},
	}

	if model.CategoryID != nil {
		cost.Links.Category = fmt.Sprintf("%s/v1/categories/%s", url, *model.CategoryID)
	}

	return cost
}

type CostListResponse struct {
	Data       []Cost      `json:"data"`                                                          // List of Costs
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type CostCreateResponse struct {
	Data  []CostResponse `json:"data"`                                                          // List of the created Costs or their respective error
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (co *CostCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	co.Data = append(co.Data, CostResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type CostResponse struct {
	Data  *Cost   `json:"data"`                                                          // Data for the Cost
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type CostQueryFilter struct {
	UserID     kw_uuid.UUID `form:"user"`                       // By ID of the user
	FundID     kw_uuid.UUID `form:"fund"`                       // By ID of the fund
	CategoryID kw_uuid.UUID `form:"category"`                   // By ID of the category
	Note       string       `form:"note" filterField:"false"`   // By note
	Offset     uint         `form:"offset" filterField:"false"` // The offset of the first Cost returned. Defaults to 0.
	Limit      int          `form:"limit" filterField:"false"`  // Maximum number of Costs to return. Defaults to 50.
}

func (f CostQueryFilter) model() (models.Cost, error) {
	filter := models.Cost{
		UserID: f.UserID.UUID,
		FundID: f.FundID.UUID,
	}

	if f.CategoryID != kw_uuid.Nil {
		id := f.CategoryID.UUID
		filter.CategoryID = &id
	}

	return filter, nil
}
