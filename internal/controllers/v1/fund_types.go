package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kassenwart/backend/internal/models"
	kw_uuid "github.com/kassenwart/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

// FundEditable represents all user configurable parameters
type FundEditable struct {
	UserID         uuid.UUID       `json:"userId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`        // ID of the user the fund belongs to
	Name           string          `json:"name" example:"Vacation" default:""`                           // Name of the fund
	Note           string          `json:"note" example:"Saving for the summer trip" default:""`         // A longer description
	InitialBalance decimal.Decimal `json:"initialBalance" example:"180.29" default:"0"`                  // Balance of the fund before any distributions or costs were recorded
	Archived       bool            `json:"archived" example:"true" default:"false"`                      // Is the fund archived?
}

func (editable FundEditable) model() models.Fund {
	return models.Fund{
		UserID:         editable.UserID,
		Name:           editable.Name,
		Note:           editable.Note,
		InitialBalance: editable.InitialBalance,
		Archived:       editable.Archived,
	}
}

type FundLinks struct {
	Self      string `json:"self" example:"https://example.com/api/v1/funds/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`        // The fund itself
	Computed  string `json:"computed" example:"https://example.com/api/v1/funds/computed"`                                // Computed balance data for funds
	Costs     string `json:"costs" example:"https://example.com/api/v1/costs?fund=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`  // Costs paid from this fund
}

type Fund struct {
	models.DefaultModel
	FundEditable
	Links FundLinks `json:"links"`
}

func newFund(c *gin.Context, model models.Fund) Fund {
	url := c.GetString(string(models.DBContextURL))

	return Fund{
		DefaultModel: model.DefaultModel,
		FundEditable: FundEditable{
			UserID:         model.UserID,
			Name:           model.Name,
			Note:           model.Note,
			InitialBalance: model.InitialBalance,
			Archived:       model.Archived,
		},
		Links: FundLinks{
			Self:     fmt.Sprintf("%s/v1/funds/%s", url, model.ID),
			Computed: fmt.Sprintf("%s/v1/funds/computed", url),
			Costs:    fmt.Sprintf("%s/v1/costs?fund=%s", url, model.ID),
		},
	}
}

type FundListResponse struct {
	Data       []Fund      `json:"data"`                                                          // List of Funds
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type FundCreateResponse struct {
	Data  []FundResponse `json:"data"`                                                          // List of the created Funds or their respective error
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (f *FundCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	f.Data = append(f.Data, FundResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type FundResponse struct {
	Data  *Fund   `json:"data"`                                                          // Data for the Fund
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type FundComputedRequest struct {
	IDs  []string `json:"ids"`  // A list of UUIDs for the funds
	User string   `json:"user"` // UUID of a user. When set, data for all funds of this user is returned
}

type FundComputedData struct {
	ID      uuid.UUID       `json:"id" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // ID of the fund
	Balance decimal.Decimal `json:"balance" example:"735.17"`                          // Current balance of the fund, including all credits and costs
}

type FundComputedDataResponse struct {
	Data  []FundComputedData `json:"data"`
	Error *string            `json:"error"`
}

type FundQueryFilter struct {
	UserID   kw_uuid.UUID `form:"user"`                       // By ID of the user
	Name     string       `form:"name" filterField:"false"`   // By name
	Note     string       `form:"note" filterField:"false"`   // By note
	Archived bool         `form:"archived"`                   // Is the Fund archived?
	Search   string       `form:"search" filterField:"false"` // By string in name or note
	Offset   uint         `form:"offset" filterField:"false"` // The offset of the first Fund returned. Defaults to 0.
	Limit    int          `form:"limit" filterField:"false"`  // Maximum number of Funds to return. Defaults to 50.
}

func (f FundQueryFilter) model() (models.Fund, error) {
	return models.Fund{
		UserID:   f.UserID.UUID,
		Archived: f.Archived,
	}, nil
}
