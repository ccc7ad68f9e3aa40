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

func createTestCategory(t *testing.T, c v1.CategoryEditable, expectedStatus ...int) v1.CategoryResponse {
	if c.UserID == uuid.Nil {
		c.UserID = createTestUser(t, v1.UserEditable{}).Data.ID
	}

	if c.Name == "" {
		c.Name = uuid.NewString()
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.CategoryEditable{c}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/categories", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.CategoryCreateResponse
	test.DecodeResponse(t, &r, &response)

	if r.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.CategoryResponse{}
}

// TestCategoriesOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestCategoriesOptions() {
	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No Category with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Category exists", createTestCategory(suite.T(), v1.CategoryEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/categories", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestCategoriesCreateFails() {
	c := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Unique Category Name"})

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Broken Body", `[{ "note": 2 }]`, http.StatusBadRequest},
		{"No body", "", http.StatusBadRequest},
		{"No User", `[{ "note": "Some text" }]`, http.StatusNotFound},
		{
			"Duplicate name for user",
			[]v1.CategoryEditable{
				{
					UserID: c.Data.UserID,
					Name:   c.Data.Name,
				},
			},
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/categories", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestCategoriesGetFilter() {
	u1 := createTestUser(suite.T(), v1.UserEditable{})
	u2 := createTestUser(suite.T(), v1.UserEditable{})

	_ = createTestCategory(suite.T(), v1.CategoryEditable{
		Name:   "Maintenance",
		Note:   "Repairs and upkeep",
		UserID: u1.Data.ID,
	})

	_ = createTestCategory(suite.T(), v1.CategoryEditable{
		Name:   "Events",
		UserID: u2.Data.ID,
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"User 1", fmt.Sprintf("user=%s", u1.Data.ID), 1},
		{"Name", "name=Events", 1},
		{"Note", "note=upkeep", 1},
		{"Search", "search=repairs", 1},
		{"No match", "name=Nonexisting", 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var response v1.CategoryListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/categories?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)
			test.DecodeResponse(t, &r, &response)

			assert.Equal(t, tt.len, len(response.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

func (suite *TestSuiteStandard) TestCategoriesUpdate() {
	c := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Before update"})

	r := test.Request(suite.T(), http.MethodPatch, c.Data.Links.Self, map[string]any{
		"name": "After update",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.CategoryResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	assert.Equal(suite.T(), "After update", updated.Data.Name)
}

func (suite *TestSuiteStandard) TestCategoriesDelete() {
	c := createTestCategory(suite.T(), v1.CategoryEditable{})

	r := test.Request(suite.T(), http.MethodDelete, c.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, c.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
