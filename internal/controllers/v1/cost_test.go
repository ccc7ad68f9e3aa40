package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	v1 "github.com/kassenwart/backend/internal/controllers/v1"
	"github.com/kassenwart/backend/internal/models"
	"github.com/kassenwart/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func createTestCost(t *testing.T, c v1.CostEditable, expectedStatus ...int) v1.CostResponse {
	if c.UserID == uuid.Nil {
		c.UserID = createTestUser(t, v1.UserEditable{}).Data.ID
	}

	if c.FundID == uuid.Nil {
		c.FundID = createTestFund(t, v1.FundEditable{
			UserID:         c.UserID,
			InitialBalance: decimal.NewFromFloat(1000),
		}).Data.ID
	}

	if c.Amount.IsZero() {
		c.Amount = decimal.NewFromFloat(10)
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.CostEditable{c}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/costs", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.CostCreateResponse
	test.DecodeResponse(t, &r, &response)

	if r.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.CostResponse{}
}

// TestCostsOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestCostsOptions() {
	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No Cost with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Cost exists", createTestCost(suite.T(), v1.CostEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/costs", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

// TestCostsCreateOverdraft verifies that the overdraft guard is surfaced
// with the full error message.
func (suite *TestSuiteStandard) TestCostsCreateOverdraft() {
	fund := createTestFund(suite.T(), v1.FundEditable{
		Name:           "Reserve",
		InitialBalance: decimal.NewFromFloat(100),
	})

	body := []v1.CostEditable{
		{
			UserID: fund.Data.UserID,
			FundID: fund.Data.ID,
			Amount: decimal.NewFromFloat(150),
		},
	}

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/costs", body)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.CostCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)

	if assert.Len(suite.T(), response.Data, 1) && assert.NotNil(suite.T(), response.Data[0].Error) {
		assert.Contains(suite.T(), *response.Data[0].Error, models.ErrFundBalanceTooLow.Error())
		assert.Contains(suite.T(), *response.Data[0].Error, "Reserve")
	}
}

func (suite *TestSuiteStandard) TestCostsCreateFails() {
	u := createTestUser(suite.T(), v1.UserEditable{})

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Broken Body", `[{ "amount": "invalid" }]`, http.StatusBadRequest},
		{"No body", "", http.StatusBadRequest},
		{"No User", `[{ "amount": 10 }]`, http.StatusNotFound},
		{
			"No Fund",
			fmt.Sprintf(`[{ "userId": "%s", "amount": 10 }]`, u.Data.ID),
			http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/costs", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestCostsGetFilter() {
	fund := createTestFund(suite.T(), v1.FundEditable{InitialBalance: decimal.NewFromFloat(1000)})
	u := fund.Data.UserID
	category := createTestCategory(suite.T(), v1.CategoryEditable{UserID: u})

	_ = createTestCost(suite.T(), v1.CostEditable{
		UserID:     u,
		FundID:     fund.Data.ID,
		CategoryID: &category.Data.ID,
		Amount:     decimal.NewFromFloat(20),
		Note:       "New lawn mower",
	})

	_ = createTestCost(suite.T(), v1.CostEditable{
		UserID: u,
		FundID: fund.Data.ID,
		Amount: decimal.NewFromFloat(30),
	})

	_ = createTestCost(suite.T(), v1.CostEditable{})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 3},
		{"User", fmt.Sprintf("user=%s", u), 2},
		{"Fund", fmt.Sprintf("fund=%s", fund.Data.ID), 2},
		{"Category", fmt.Sprintf("category=%s", category.Data.ID), 1},
		{"Note", "note=lawn", 1},
		{"Limit 2", "limit=2", 2},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var response v1.CostListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/costs?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)
			test.DecodeResponse(t, &r, &response)

			assert.Equal(t, tt.len, len(response.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

func (suite *TestSuiteStandard) TestCostsUpdate() {
	cost := createTestCost(suite.T(), v1.CostEditable{Note: "Before update"})

	r := test.Request(suite.T(), http.MethodPatch, cost.Data.Links.Self, map[string]any{
		"note": "After update",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.CostResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	assert.Equal(suite.T(), "After update", updated.Data.Note)
}

// Raising the amount beyond the fund balance fails, raising it within the
// balance succeeds.
func (suite *TestSuiteStandard) TestCostsUpdateOverdraft() {
	fund := createTestFund(suite.T(), v1.FundEditable{
		InitialBalance: decimal.NewFromFloat(100),
	})

	cost := createTestCost(suite.T(), v1.CostEditable{
		UserID: fund.Data.UserID,
		FundID: fund.Data.ID,
		Amount: decimal.NewFromFloat(60),
	})

	r := test.Request(suite.T(), http.MethodPatch, cost.Data.Links.Self, map[string]any{
		"amount": 100,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.T(), http.MethodPatch, cost.Data.Links.Self, map[string]any{
		"amount": 150,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCostsDelete() {
	cost := createTestCost(suite.T(), v1.CostEditable{})

	r := test.Request(suite.T(), http.MethodDelete, cost.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, cost.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
