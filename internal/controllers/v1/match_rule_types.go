package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kassenwart/backend/internal/models"
	kw_uuid "github.com/kassenwart/backend/internal/uuid"
)

// MatchRuleEditable represents all user configurable parameters
type MatchRuleEditable struct {
	UserID         uuid.UUID `json:"userId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`         // ID of the user the rule belongs to
	IncomeSourceID uuid.UUID `json:"incomeSourceId" example:"d1bee6e6-d376-4feb-b6ee-f15dee4032cf"` // ID of the income source receipts are attributed to
	Priority       uint      `json:"priority" example:"3"`                                          // The priority of the match rule
	Match          string    `json:"match" example:"Payroll*"`                                      // Glob pattern matched against receipt notes. Without wildcards, this is a direct match.
}

func (editable MatchRuleEditable) model() models.MatchRule {
	return models.MatchRule{
		UserID:         editable.UserID,
		IncomeSourceID: editable.IncomeSourceID,
		Priority:       editable.Priority,
		Match:          editable.Match,
	}
}

type MatchRuleLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/match-rules/95685c82-53c6-455d-b235-f49960b73b21"` // The match rule itself
	IncomeSource string `json:"incomeSource" example:"https://example.com/api/v1/income-sources/d1bee6e6-d376-4feb-b6ee-f15dee4032cf"` // The income source receipts are attributed to
}

type MatchRule struct {
	models.DefaultModel
	MatchRuleEditable
	Links MatchRuleLinks `json:"links"`
}

func newMatchRule(c *gin.Context, model models.MatchRule) MatchRule {
	url := c.GetString(string(models.DBContextURL))

	return MatchRule{
		DefaultModel: model.DefaultModel,
		MatchRuleEditable: MatchRuleEditable{
			UserID:         model.UserID,
			IncomeSourceID: model.IncomeSourceID,
			Priority:       model.Priority,
			Match:          model.Match,
		},
		Links: MatchRuleLinks{
			Self:         fmt.Sprintf("%s/v1/match-rules/%s", url, model.ID),
			IncomeSource: fmt.Sprintf("%s/v1/income-sources/%s", url, model.IncomeSourceID),
		},
	}
}

type MatchRuleListResponse struct {
	Data       []MatchRule `json:"data"`                                                          // List of MatchRules
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type MatchRuleCreateResponse struct {
	Data  []MatchRuleResponse `json:"data"`                                                          // List of the created MatchRules or their respective error
	Error *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (m *MatchRuleCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	m.Data = append(m.Data, MatchRuleResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type MatchRuleResponse struct {
	Data  *MatchRule `json:"data"`                                                          // Data for the MatchRule
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type MatchRuleQueryFilter struct {
	UserID         kw_uuid.UUID `form:"user"`                       // By ID of the user
	IncomeSourceID kw_uuid.UUID `form:"incomeSource"`               // By ID of the income source
	Priority       uint         `form:"priority"`                   // By priority
	Match          string       `form:"match" filterField:"false"`  // By match pattern
	Offset         uint         `form:"offset" filterField:"false"` // The offset of the first MatchRule returned. Defaults to 0.
	Limit          int          `form:"limit" filterField:"false"`  // Maximum number of MatchRules to return. Defaults to 50.
}

func (f MatchRuleQueryFilter) model() (models.MatchRule, error) {
	return models.MatchRule{
		UserID:         f.UserID.UUID,
		IncomeSourceID: f.IncomeSourceID.UUID,
		Priority:       f.Priority,
	}, nil
}
