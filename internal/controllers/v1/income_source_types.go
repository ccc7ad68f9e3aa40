package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kassenwart/backend/internal/models"
	kw_uuid "github.com/kassenwart/backend/internal/uuid"
)

// IncomeSourceEditable represents all user configurable parameters
type IncomeSourceEditable struct {
	UserID   uuid.UUID `json:"userId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the user the income source belongs to
	Name     string    `json:"name" example:"Salary" default:""`                      // Name of the income source
	Note     string    `json:"note" example:"Paid on the 28th" default:""`            // A longer description
	Archived bool      `json:"archived" example:"true" default:"false"`               // Is the income source archived?
}

func (editable IncomeSourceEditable) model() models.IncomeSource {
	return models.IncomeSource{
		UserID:   editable.UserID,
		Name:     editable.Name,
		Note:     editable.Note,
		Archived: editable.Archived,
	}
}

type IncomeSourceLinks struct {
	Self                string `json:"self" example:"https://example.com/api/v1/income-sources/d1bee6e6-d376-4feb-b6ee-f15dee4032cf"`                               // The income source itself
	Receipts            string `json:"receipts" example:"https://example.com/api/v1/receipts?incomeSource=d1bee6e6-d376-4feb-b6ee-f15dee4032cf"`                    // Receipts attributed to this income source
	SourceDistributions string `json:"sourceDistributions" example:"https://example.com/api/v1/source-distributions?incomeSource=d1bee6e6-d376-4feb-b6ee-f15dee4032cf"` // Distribution rules of this income source
	MatchRules          string `json:"matchRules" example:"https://example.com/api/v1/match-rules?incomeSource=d1bee6e6-d376-4feb-b6ee-f15dee4032cf"`               // Match rules targeting this income source
}

type IncomeSource struct {
	models.DefaultModel
	IncomeSourceEditable
	Links IncomeSourceLinks `json:"links"`
}

func newIncomeSource(c *gin.Context, model models.IncomeSource) IncomeSource {
	url := c.GetString(string(models.DBContextURL))

	return IncomeSource{
		DefaultModel: model.DefaultModel,
		IncomeSourceEditable: IncomeSourceEditable{
			UserID:   model.UserID,
			Name:     model.Name,
			Note:     model.Note,
			Archived: model.Archived,
		},
		Links: IncomeSourceLinks{
			Self:                fmt.Sprintf("%s/v1/income-sources/%s", url, model.ID),
			Receipts:            fmt.Sprintf("%s/v1/receipts?incomeSource=%s", url, model.ID),
			SourceDistributions: fmt.Sprintf("%s/v1/source-distributions?incomeSource=%s", url, model.ID),
			MatchRules:          fmt.Sprintf("%s/v1/match-rules?incomeSource=%s", url, model.ID),
		},
	}
}

type IncomeSourceListResponse struct {
	Data       []IncomeSource `json:"data"`                                                          // List of IncomeSources
	Error      *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination    `json:"pagination"`                                                    // Pagination information
}

type IncomeSourceCreateResponse struct {
	Data  []IncomeSourceResponse `json:"data"`                                                          // List of the created IncomeSources or their respective error
	Error *string                `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (i *IncomeSourceCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	i.Data = append(i.Data, IncomeSourceResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type IncomeSourceResponse struct {
	Data  *IncomeSource `json:"data"`                                                          // Data for the IncomeSource
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type IncomeSourceQueryFilter struct {
	UserID   kw_uuid.UUID `form:"user"`                       // By ID of the user
	Name     string       `form:"name" filterField:"false"`   // By name
	Note     string       `form:"note" filterField:"false"`   // By note
	Archived bool         `form:"archived"`                   // Is the IncomeSource archived?
	Search   string       `form:"search" filterField:"false"` // By string in name or note
	Offset   uint         `form:"offset" filterField:"false"` // The offset of the first IncomeSource returned. Defaults to 0.
	Limit    int          `form:"limit" filterField:"false"`  // Maximum number of IncomeSources to return. Defaults to 50.
}

func (f IncomeSourceQueryFilter) model() (models.IncomeSource, error) {
	return models.IncomeSource{
		UserID:   f.UserID.UUID,
		Archived: f.Archived,
	}, nil
}
