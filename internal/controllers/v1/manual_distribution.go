package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kassenwart/backend/internal/httputil"
	"github.com/kassenwart/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterManualDistributionRoutes registers the routes for manual
// distributions with the RouterGroup that is passed.
func RegisterManualDistributionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsManualDistributionList)
		r.GET("", GetManualDistributions)
		r.POST("", CreateManualDistributions)
	}

	// ManualDistribution with ID
	{
		r.OPTIONS("/:id", OptionsManualDistributionDetail)
		r.GET("/:id", GetManualDistribution)
		r.PATCH("/:id", UpdateManualDistribution)
		r.DELETE("/:id", DeleteManualDistribution)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			ManualDistributions
// @Success		204
// @Router			/v1/manual-distributions [options]
func OptionsManualDistributionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			ManualDistributions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/manual-distributions/{id} [options]
func OptionsManualDistributionDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.ManualDistribution{})
}

// @Summary		Create manual distribution
// @Description	Credits a fund directly, outside of the percentage rules
// @Tags			ManualDistributions
// @Produce		json
// @Success		201						{object}	ManualDistributionCreateResponse
// @Failure		400						{object}	ManualDistributionCreateResponse
// @Failure		404						{object}	ManualDistributionCreateResponse
// @Failure		500						{object}	ManualDistributionCreateResponse
// @Param			manualDistributions	body		[]ManualDistributionEditable	true	"ManualDistributions"
// @Router			/v1/manual-distributions [post]
func CreateManualDistributions(c *gin.Context) {
	var editables []ManualDistributionEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ManualDistributionCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := ManualDistributionCreateResponse{}

	for _, editable := range editables {
		distribution := editable.model()

		err = models.DB.Create(&distribution).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newManualDistribution(c, distribution)
		r.Data = append(r.Data, ManualDistributionResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get manual distributions
// @Description	Returns a list of manual distributions
// @Tags			ManualDistributions
// @Produce		json
// @Success		200	{object}	ManualDistributionListResponse
// @Failure		400	{object}	ManualDistributionListResponse
// @Failure		500	{object}	ManualDistributionListResponse
// @Router			/v1/manual-distributions [get]
// @Param			user	query	string	false	"Filter by user ID"
// @Param			fund	query	string	false	"Filter by fund ID"
// @Param			note	query	string	false	"Filter by note"
// @Param			offset	query	uint	false	"The offset of the first ManualDistribution returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of ManualDistributions to return. Defaults to 50."
func GetManualDistributions(c *gin.Context) {
	var filter ManualDistributionQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ManualDistributionListResponse{
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

	// Default to 50 ManualDistributions and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var distributions []models.ManualDistribution
	err = q.Find(&distributions).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ManualDistributionListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ManualDistributionListResponse{
			Error: &e,
		})
		return
	}

	data := make([]ManualDistribution, 0)
	for _, distribution := range distributions {
		data = append(data, newManualDistribution(c, distribution))
	}

	c.JSON(http.StatusOK, ManualDistributionListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get manual distribution
// @Description	Returns a specific manual distribution
// @Tags			ManualDistributions
// @Produce		json
// @Success		200	{object}	ManualDistributionResponse
// @Failure		400	{object}	ManualDistributionResponse
// @Failure		404	{object}	ManualDistributionResponse
// @Failure		500	{object}	ManualDistributionResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/manual-distributions/{id} [get]
func GetManualDistribution(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ManualDistributionResponse{
			Error: &s,
		})
		return
	}

	var distribution models.ManualDistribution
	err = models.DB.First(&distribution, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ManualDistributionResponse{
			Error: &s,
		})
		return
	}

	data := newManualDistribution(c, distribution)
	c.JSON(http.StatusOK, ManualDistributionResponse{Data: &data})
}

// @Summary		Update manual distribution
// @Description	Update an existing manual distribution. Only values to be updated need to be specified.
// @Tags			ManualDistributions
// @Accept			json
// @Produce		json
// @Success		200					{object}	ManualDistributionResponse
// @Failure		400					{object}	ManualDistributionResponse
// @Failure		404					{object}	ManualDistributionResponse
// @Failure		500					{object}	ManualDistributionResponse
// @Param			id					path		URIID						true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			manualDistribution	body		ManualDistributionEditable	true	"ManualDistribution"
// @Router			/v1/manual-distributions/{id} [patch]
func UpdateManualDistribution(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ManualDistributionResponse{
			Error: &s,
		})
		return
	}

	var distribution models.ManualDistribution
	err = models.DB.First(&distribution, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ManualDistributionResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ManualDistributionEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ManualDistributionResponse{
			Error: &s,
		})
		return
	}

	var data ManualDistributionEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ManualDistributionResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&distribution).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ManualDistributionResponse{
			Error: &s,
		})
		return
	}

	r := newManualDistribution(c, distribution)
	c.JSON(http.StatusOK, ManualDistributionResponse{Data: &r})
}

// @Summary		Delete manual distribution
// @Description	Deletes a manual distribution
// @Tags			ManualDistributions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/manual-distributions/{id} [delete]
func DeleteManualDistribution(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var distribution models.ManualDistribution
	err = models.DB.First(&distribution, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&distribution).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
