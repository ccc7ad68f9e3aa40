package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kassenwart/backend/internal/models"
	kw_uuid "github.com/kassenwart/backend/internal/uuid"
)

// CategoryEditable represents all user configurable parameters
type CategoryEditable struct {
	UserID uuid.UUID `json:"userId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the user the category belongs to
	Name   string    `json:"name" example:"Groceries" default:""`                   // Name of the category
	Note   string    `json:"note" example:"Everything eatable" default:""`          // A longer description
}

func (editable CategoryEditable) model() models.Category {
	return models.Category{
		UserID: editable.UserID,
		Name:   editable.Name,
		Note:   editable.Note,
	}
}

type CategoryLinks struct {
	Self  string `json:"self" example:"https://example.com/api/v1/categories/3b1ea324-d438-4419-882a-2fc91d71772f"`       // The category itself
	Costs string `json:"costs" example:"https://example.com/api/v1/costs?category=3b1ea324-d438-4419-882a-2fc91d71772f"` // Costs for this category
}

type Category struct {
	models.DefaultModel
	CategoryEditable
	Links CategoryLinks `json:"links"`
}

func newCategory(c *gin.Context, model models.Category) Category {
	url := c.GetString(string(models.DBContextURL))

	return Category{
		DefaultModel: model.DefaultModel,
		CategoryEditable: CategoryEditable{
			UserID: model.UserID,
			Name:   model.Name,
			Note:   model.Note,
		},
		Links: CategoryLinks{
			Self:  fmt.Sprintf("%s/v1/categories/%s", url, model.ID),
			Costs: fmt.Sprintf("%s/v1/costs?category=%s", url, model.ID),
		},
	}
}

type CategoryListResponse struct {
	Data       []Category  `json:"data"`                                                          // List of Categories
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type CategoryCreateResponse struct {
	Data  []CategoryResponse `json:"data"`                                                          // List of the created Categories or their respective error
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (c *CategoryCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	c.Data = append(c.Data, CategoryResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type CategoryResponse struct {
	Data  *Category `json:"data"`                                                          // Data for the Category
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type CategoryQueryFilter struct {
	UserID kw_uuid.UUID `form:"user"`                       // By ID of the user
	Name   string       `form:"name" filterField:"false"`   // By name
	Note   string       `form:"note" filterField:"false"`   // By note
	Search string       `form:"search" filterField:"false"` // By string in name or note
	Offset uint         `form:"offset" filterField:"false"` // The offset of the first Category returned. Defaults to 0.
	Limit  int          `form:"limit" filterField:"false"`  // Maximum number of Categories to return. Defaults to 50.
}

func (f CategoryQueryFilter) model() (models.Category, error) {
	return models.Category{
		UserID: f.UserID.UUID,
	}, nil
}
