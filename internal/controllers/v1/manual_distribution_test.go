package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	v1 "github.com/kassenwart/backend/internal/controllers/v1"
	"github.com/kassenwart/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func createTestManualDistribution(t *testing.T, m v1.ManualDistributionEditable, expectedStatus ...int) v1.ManualDistributionResponse {
	if m.UserID == uuid.Nil {
		m.UserID = createTestUser(t, v1.UserEditable{}).Data.ID
	}

	if m.FundID == uuid.Nil {
		m.FundID = createTestFund(t, v1.FundEditable{UserID: m.UserID}).Data.ID
	}

	if m.Amount.IsZero() {
		m.Amount = decimal.NewFromFloat(10)
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.ManualDistributionEditable{m}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/manual-distributions", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.ManualDistributionCreateResponse
	test.DecodeResponse(t, &r, &response)

	if r.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.ManualDistributionResponse{}
}

// TestManualDistributionsOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestManualDistributionsOptions() {
	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No ManualDistribution with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"ManualDistribution exists", createTestManualDistribution(suite.T(), v1.ManualDistributionEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/manual-distributions", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestManualDistributionsCreateFails() {
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
			r := test.Request(t, http.MethodPost, "http://example.com/v1/manual-distributions", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestManualDistributionsGetFilter() {
	fund := createTestFund(suite.T(), v1.FundEditable{})
	u := fund.Data.UserID

	percentage := decimal.NewFromFloat(20)
	_ = createTestManualDistribution(suite.T(), v1.ManualDistributionEditable{
		UserID:     u,
		FundID:     fund.Data.ID,
		Amount:     decimal.NewFromFloat(100),
		Percentage: &percentage,
		Note:       "Buffer top up",
	})

	_ = createTestManualDistribution(suite.T(), v1.ManualDistributionEditable{
		UserID: u,
		FundID: createTestFund(suite.T(), v1.FundEditable{UserID: u}).Data.ID,
		Amount: decimal.NewFromFloat(50),
	})

	_ = createTestManualDistribution(suite.T(), v1.ManualDistributionEditable{})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 3},
		{"User", fmt.Sprintf("user=%s", u), 2},
		{"Fund", fmt.Sprintf("fund=%s", fund.Data.ID), 1},
		{"Note", "note=top up", 1},
		{"Limit 1", "limit=1", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var response v1.ManualDistributionListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/manual-distributions?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)
			test.DecodeResponse(t, &r, &response)

			assert.Equal(t, tt.len, len(response.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

func (suite *TestSuiteStandard) TestManualDistributionsUpdate() {
	m := createTestManualDistribution(suite.T(), v1.ManualDistributionEditable{Note: "Before update"})

	r := test.Request(suite.T(), http.MethodPatch, m.Data.Links.Self, map[string]any{
		"note": "After update",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.ManualDistributionResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	assert.Equal(suite.T(), "After update", updated.Data.Note)
}

func (suite *TestSuiteStandard) TestManualDistributionsDelete() {
	m := createTestManualDistribution(suite.T(), v1.ManualDistributionEditable{})

	r := test.Request(suite.T(), http.MethodDelete, m.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, m.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
