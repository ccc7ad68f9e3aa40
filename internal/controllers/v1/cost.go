package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kassenwart/backend/internal/httputil"
	"github.com/kassenwart/backend/internal/models"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterCostRoutes registers the routes for costs with
// the RouterGroup that is passed.
func RegisterCostRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsCostList)
		r.GET("", GetCosts)
		r.POST("", CreateCosts)
	}

	// Cost with ID
	{
		r.OPTIONS("/:id", OptionsCostDetail)
		r.GET("/:id", GetCost)
		r.PATCH("/:id", UpdateCost)
		r.DELETE("/:id", DeleteCost)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Costs
// @Success		204
// @Router			/v1/costs [options]
func OptionsCostList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Costs
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/costs/{id} [options]
func OptionsCostDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Cost{})
}

// @Summary		Create cost
// @Description	Creates a new cost. Fails when the fund balance does not cover the amount.
// @Tags			Costs
// @Produce		json
// @Success		201		{object}	CostCreateResponse
// @Failure		400		{object}	CostCreateResponse
// @Failure		404		{object}	CostCreateResponse
// @Failure		500		{object}	CostCreateResponse
// @Param			costs	body		[]CostEditable	true	"Costs"
// @Router			/v1/costs [post]
func CreateCosts(c *gin.Context) {
	var editables []CostEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CostCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := CostCreateResponse{}

	for _, editable := range editables {
		cost := editable.model()

		// The transaction keeps the balance check and the write together,
		// with the single write connection nothing can get in between
		err = models.DB.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&cost).Error
		})
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newCost(c, cost)
		r.Data = append(r.Data, CostResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get costs
// @Description	Returns a list of costs
// @Tags			Costs
// @Produce		json
// @Success		200	{object}	CostListResponse
// @Failure		400	{object}	CostListResponse
// @Failure		500	{object}	CostListResponse
// @Router			/v1/costs [get]
// @Param			user		query	string	false	"Filter by user ID"
// @Param			fund		query	string	false	"Filter by fund ID"
// @Param			category	query	string	false	"Filter by category ID"
// @Param			note		query	string	false	"Filter by note"
// @Param			offset		query	uint	false	"The offset of the first Cost returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Costs to return. Defaults to 50."
func GetCosts(c *gin.Context) {
	var filter CostQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("datetime(date) DESC, datetime(created_at) DESC").
		Where(&filterModel, queryFields...)

	// Filter for note containing the query string or explicitly empty one
	if filter.Note != "" {
		q = q.Where("note LIKE ?", fmt.Sprintf("%%%s%%", filter.Note))
	} else if slices.Contains(setFields, "Note") {
		q = q.Where("note = ''")
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Costs and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var costs []models.Cost
	err = q.Find(&costs).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CostListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Cost, 0)
	for _, cost := range costs {
		data = append(data, newCost(c, cost))
	}

	c.JSON(http.StatusOK, CostListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get cost
// @Description	Returns a specific cost
// @Tags			Costs
// @Produce		json
// @Success		200	{object}	CostResponse
// @Failure		400	{object}	CostResponse
// @Failure		404	{object}	CostResponse
// @Failure		500	{object}	CostResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/costs/{id} [get]
func GetCost(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostResponse{
			Error: &s,
		})
		return
	}

	var cost models.Cost
	err = models.DB.First(&cost, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostResponse{
			Error: &s,
		})
		return
	}

	data := newCost(c, cost)
	c.JSON(http.StatusOK, CostResponse{Data: &data})
}

// @Summary		Update cost
// @Description	Update an existing cost. Only values to be updated need to be specified. Raising the amount or moving the cost to another fund re-runs the balance check.
// @Tags			Costs
// @Accept			json
// @Produce		json
// @Success		200		{object}	CostResponse
// @Failure		400		{object}	CostResponse
// @Failure		404		{object}	CostResponse
// @Failure		500		{object}	CostResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			cost	body		CostEditable	true	"Cost"
// @Router			/v1/costs/{id} [patch]
func UpdateCost(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostResponse{
			Error: &s,
		})
		return
	}

	var cost models.Cost
	err = models.DB.First(&cost, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, CostEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostResponse{
			Error: &s,
		})
		return
	}

	var data CostEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&cost).Select("", updateFields...).Updates(data.model()).Error
	})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostResponse{
			Error: &s,
		})
		return
	}

	r := newCost(c, cost)
	c.JSON(http.StatusOK, CostResponse{Data: &r})
}

// @Summary		Delete cost
// @Description	Deletes a cost
// @Tags			Costs
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/costs/{id} [delete]
func DeleteCost(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var cost models.Cost
	err = models.DB.First(&cost, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&cost).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
