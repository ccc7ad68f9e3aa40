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

func createTestSourceDistribution(t *testing.T, s v1.SourceDistributionEditable, expectedStatus ...int) v1.SourceDistributionResponse {
	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.SourceDistributionEditable{s}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/source-distributions", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.SourceDistributionCreateResponse
	test.DecodeResponse(t, &r, &response)

	if r.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.SourceDistributionResponse{}
}

// TestSourceDistributionsOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestSourceDistributionsOptions() {
	source := createTestIncomeSource(suite.T(), v1.IncomeSourceEditable{})
	fund := createTestFund(suite.T(), v1.FundEditable{UserID: source.Data.UserID})

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No SourceDistribution with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{
			"SourceDistribution exists",
			createTestSourceDistribution(suite.T(), v1.SourceDistributionEditable{
				IncomeSourceID: source.Data.ID,
				FundID:         fund.Data.ID,
				Percentage:     decimal.NewFromFloat(40),
			}).Data.ID.String(),
			http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/source-distributions", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestSourceDistributionsCreateFails() {
	source := createTestIncomeSource(suite.T(), v1.IncomeSourceEditable{})
	fund := createTestFund(suite.T(), v1.FundEditable{UserID: source.Data.UserID})

	_ = createTestSourceDistribution(suite.T(), v1.SourceDistributionEditable{
		IncomeSourceID: source.Data.ID,
		FundID:         fund.Data.ID,
		Percentage:     decimal.NewFromFloat(60),
	})

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Broken Body", `[{ "percentage": "invalid" }]`, http.StatusBadRequest},
		{"No body", "", http.StatusBadRequest},
		{"No income source", `[{ "percentage": 10 }]`, http.StatusNotFound},
		{
			"Percentage zero",
			[]v1.SourceDistributionEditable{
				{
					IncomeSourceID: source.Data.ID,
					FundID:         createTestFund(suite.T(), v1.FundEditable{UserID: source.Data.UserID}).Data.ID,
				},
			},
			http.StatusBadRequest,
		},
		{
			"Percentage total exceeded",
			[]v1.SourceDistributionEditable{
				{
					IncomeSourceID: source.Data.ID,
					FundID:         createTestFund(suite.T(), v1.FundEditable{UserID: source.Data.UserID}).Data.ID,
					Percentage:     decimal.NewFromFloat(50),
				},
			},
			http.StatusBadRequest,
		},
		{
			"Duplicate fund for income source",
			[]v1.SourceDistributionEditable{
				{
					IncomeSourceID: source.Data.ID,
					FundID:         fund.Data.ID,
					Percentage:     decimal.NewFromFloat(10),
				},
			},
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/source-distributions", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestSourceDistributionsGetFilter() {
	source := createTestIncomeSource(suite.T(), v1.IncomeSourceEditable{})
	otherSource := createTestIncomeSource(suite.T(), v1.IncomeSourceEditable{})
	fund := createTestFund(suite.T(), v1.FundEditable{UserID: source.Data.UserID})
	otherFund := createTestFund(suite.T(), v1.FundEditable{UserID: otherSource.Data.UserID})

	_ = createTestSourceDistribution(suite.T(), v1.SourceDistributionEditable{
		IncomeSourceID: source.Data.ID,
		FundID:         fund.Data.ID,
		Percentage:     decimal.NewFromFloat(40),
	})

	_ = createTestSourceDistribution(suite.T(), v1.SourceDistributionEditable{
		IncomeSourceID: otherSource.Data.ID,
		FundID:         otherFund.Data.ID,
		Percentage:     decimal.NewFromFloat(25),
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 2},
		{"Income source", fmt.Sprintf("incomeSource=%s", source.Data.ID), 1},
		{"Fund", fmt.Sprintf("fund=%s", otherFund.Data.ID), 1},
		{"User", fmt.Sprintf("user=%s", source.Data.UserID), 1},
		{"User Not Existing", "user=c9e4ee7a-e702-4f92-b168-11a95b22c7aa", 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var response v1.SourceDistributionListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/source-distributions?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)
			test.DecodeResponse(t, &r, &response)

			assert.Equal(t, tt.len, len(response.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

// The list is sorted by percentage, largest share first.
func (suite *TestSuiteStandard) TestSourceDistributionsSorted() {
	source := createTestIncomeSource(suite.T(), v1.IncomeSourceEditable{})

	_ = createTestSourceDistribution(suite.T(), v1.SourceDistributionEditable{
		IncomeSourceID: source.Data.ID,
		FundID:         createTestFund(suite.T(), v1.FundEditable{UserID: source.Data.UserID}).Data.ID,
		Percentage:     decimal.NewFromFloat(20),
	})
	_ = createTestSourceDistribution(suite.T(), v1.SourceDistributionEditable{
		IncomeSourceID: source.Data.ID,
		FundID:         createTestFund(suite.T(), v1.FundEditable{UserID: source.Data.UserID}).Data.ID,
		Percentage:     decimal.NewFromFloat(50),
	})

	var response v1.SourceDistributionListResponse
	r := test.Request(suite.T(), http.MethodGet, "/v1/source-distributions", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)

	if assert.Len(suite.T(), response.Data, 2) {
		assert.True(suite.T(), response.Data[0].Percentage.Equal(decimal.NewFromFloat(50)), "percentage is %s, should be 50", response.Data[0].Percentage)
	}
}

func (suite *TestSuiteStandard) TestSourceDistributionsUpdate() {
	source := createTestIncomeSource(suite.T(), v1.IncomeSourceEditable{})

	s := createTestSourceDistribution(suite.T(), v1.SourceDistributionEditable{
		IncomeSourceID: source.Data.ID,
		FundID:         createTestFund(suite.T(), v1.FundEditable{UserID: source.Data.UserID}).Data.ID,
		Percentage:     decimal.NewFromFloat(40),
	})

	r := test.Request(suite.T(), http.MethodPatch, s.Data.Links.Self, map[string]any{
		"percentage": 70,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.SourceDistributionResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	assert.True(suite.T(), updated.Data.Percentage.Equal(decimal.NewFromFloat(70)), "percentage is %s, should be 70", updated.Data.Percentage)

	// Raising it beyond 100 fails
	r = test.Request(suite.T(), http.MethodPatch, s.Data.Links.Self, map[string]any{
		"percentage": 101,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestSourceDistributionsDelete() {
	source := createTestIncomeSource(suite.T(), v1.IncomeSourceEditable{})

	s := createTestSourceDistribution(suite.T(), v1.SourceDistributionEditable{
		IncomeSourceID: source.Data.ID,
		FundID:         createTestFund(suite.T(), v1.FundEditable{UserID: source.Data.UserID}).Data.ID,
		Percentage:     decimal.NewFromFloat(40),
	})

	r := test.Request(suite.T(), http.MethodDelete, s.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, s.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
