package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/kassenwart/backend/internal/models"
)

// UserEditable represents all user configurable parameters
type UserEditable struct {
	Name     string `json:"name" example:"Morre" default:""`                        // Name of the user
	Note     string `json:"note" example:"A note for this user" default:""`         // A longer description
	Currency string `json:"currency" example:"EUR" default:"EUR" minLength:"3" maxLength:"3"` // ISO 4217 currency code for all amounts of this user
}

func (editable UserEditable) model() models.User {
	return models.User{
		Name:     editable.Name,
		Note:     editable.Note,
		Currency: editable.Currency,
	}
}

type UserLinks struct {
	Self                string `json:"self" example:"https://example.com/api/v1/users/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                               // The user itself
	Funds               string `json:"funds" example:"https://example.com/api/v1/funds?user=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                        // Funds for this user
	IncomeSources       string `json:"incomeSources" example:"https://example.com/api/v1/income-sources?user=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`       // Income sources for this user
	Receipts            string `json:"receipts" example:"https://example.com/api/v1/receipts?user=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                  // Receipts for this user
	ManualDistributions string `json:"manualDistributions" example:"https://example.com/api/v1/manual-distributions?user=550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // Manual distributions for this user
	Transfers           string `json:"transfers" example:"https://example.com/api/v1/transfers?user=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                // Fund transfers for this user
	Categories          string `json:"categories" example:"https://example.com/api/v1/categories?user=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`              // Categories for this user
	Costs               string `json:"costs" example:"https://example.com/api/v1/costs?user=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                        // Costs for this user
	MatchRules          string `json:"matchRules" example:"https://example.com/api/v1/match-rules?user=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`             // Match rules for this user
	Distributions       string `json:"distributions" example:"https://example.com/api/v1/distributions?user=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`        // Distribution history for this user
}

type User struct {
	models.DefaultModel
	UserEditable
	Links UserLinks `json:"links"`
}

func newUser(c *gin.Context, model models.User) User {
	url := c.GetString(string(models.DBContextURL))

	return User{
		DefaultModel: model.DefaultModel,
		UserEditable: UserEditable{
			Name:     model.Name,
			Note:     model.Note,
			Currency: model.Currency,
		},
		Links: UserLinks{
			Self:                fmt.Sprintf("%s/v1/users/%s", url, model.ID),
			Funds:               fmt.Sprintf("%s/v1/funds?user=%s", url, model.ID),
			IncomeSources:       fmt.Sprintf("%s/v1/income-sources?user=%s", url, model.ID),
			Receipts:            fmt.Sprintf("%s/v1/receipts?user=%s", url, model.ID),
			ManualDistributions: fmt.Sprintf("%s/v1/manual-distributions?user=%s", url, model.ID),
			Transfers:           fmt.Sprintf("%s/v1/transfers?user=%s", url, model.ID),
			Categories:          fmt.Sprintf("%s/v1/categories?user=%s", url, model.ID),
			Costs:               fmt.Sprintf("%s/v1/costs?user=%s", url, model.ID),
			MatchRules:          fmt.Sprintf("%s/v1/match-rules?user=%s", url, model.ID),
			Distributions:       fmt.Sprintf("%s/v1/distributions?user=%s", url, model.ID),
		},
	}
}

type UserListResponse struct {
	Data       []User      `json:"data"`                                                          // List of Users
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type UserCreateResponse struct {
	Data  []UserResponse `json:"data"`                                                          // List of the created Users or their respective error
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (u *UserCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	u.Data = append(u.Data, UserResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type UserResponse struct {
	Data  *User   `json:"data"`                                                          // Data for the User
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type UserQueryFilter struct {
	Name     string `form:"name" filterField:"false"`   // By name
	Note     string `form:"note" filterField:"false"`   // By note
	Currency string `form:"currency"`                   // By currency code
	Search   string `form:"search" filterField:"false"` // By string in name or note
	Offset   uint   `form:"offset" filterField:"false"` // The offset of the first User returned. Defaults to 0.
	Limit    int    `form:"limit" filterField:"false"`  // Maximum number of Users to return. Defaults to 50.
}

func (f UserQueryFilter) model() (models.User, error) {
	return models.User{
		Currency: f.Currency,
	}, nil
}
