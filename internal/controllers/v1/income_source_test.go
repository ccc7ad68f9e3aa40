package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	v1 "github.com/kassenwart/backend/internal/controllers/v1"
	"github.com/kassenwart/backend/test"
	"github.com/stretchr/testify/assert"
)

func createTestIncomeSource(t *testing.T, s v1.IncomeSourceEditable, expectedStatus ...int) v1.IncomeSourceResponse {
	if s.UserID == uuid.Nil {
		s.UserID = createTestUser(t, v1.UserEditable{}).Data.ID
	}

	if s.Name == "" {
		s.Name = uuid.NewString()
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.IncomeSourceEditable{s}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/income-sources", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.IncomeSourceCreateResponse
	test.DecodeResponse(t, &r, &response)

	if r.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.IncomeSourceResponse{}
}

// TestIncomeSourcesOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestIncomeSourcesOptions() {
	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No IncomeSource with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"IncomeSource exists", createTestIncomeSource(suite.T(), v1.IncomeSourceEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/income-sources", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestIncomeSourcesCreateFails() {
	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Broken Body", `[{ "note": 2 }]`, http.StatusBadRequest},
		{"No body", "", http.StatusBadRequest},
		{"No User", `[{ "note": "Some text" }]`, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/income-sources", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestIncomeSourcesGetFilter() {
	u1 := createTestUser(suite.T(), v1.UserEditable{})
	u2 := createTestUser(suite.T(), v1.UserEditable{})

	_ = createTestIncomeSource(suite.T(), v1.IncomeSourceEditable{
		Name:     "Member dues",
		Note:     "Monthly dues",
		UserID:   u1.Data.ID,
		Archived: true,
	})

	_ = createTestIncomeSource(suite.T(), v1.IncomeSourceEditable{
		Name:   "Donations",
		UserID: u2.Data.ID,
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"User 1", fmt.Sprintf("user=%s", u1.Data.ID), 1},
		{"Name", "name=Member dues", 1},
		{"Fuzzy name", "name=o", 1},
		{"Archived", "archived=true", 1},
		{"Search", "search=monthly", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var response v1.IncomeSourceListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/income-sources?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)
			test.DecodeResponse(t, &r, &response)

			assert.Equal(t, tt.len, len(response.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

func (suite *TestSuiteStandard) TestIncomeSourcesUpdate() {
	s := createTestIncomeSource(suite.T(), v1.IncomeSourceEditable{Name: "Before update"})

	r := test.Request(suite.T(), http.MethodPatch, s.Data.Links.Self, map[string]any{
		"name": "After update",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.IncomeSourceResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	assert.Equal(suite.T(), "After update", updated.Data.Name)
}

func (suite *TestSuiteStandard) TestIncomeSourcesDelete() {
	s := createTestIncomeSource(suite.T(), v1.IncomeSourceEditable{})

	r := test.Request(suite.T(), http.MethodDelete, s.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, s.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
