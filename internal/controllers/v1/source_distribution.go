package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kassenwart/backend/internal/httputil"
	"github.com/kassenwart/backend/internal/models"
	kw_uuid "github.com/kassenwart/backend/internal/uuid"
	"golang.org/x/exp/slices"
)

// RegisterSourceDistributionRoutes registers the routes for source
// distribution rules with the RouterGroup that is passed.
func RegisterSourceDistributionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsSourceDistributionList)
		r.GET("", GetSourceDistributions)
		r.POST("", CreateSourceDistributions)
	}

	// SourceDistribution with ID
	{
		r.OPTIONS("/:id", OptionsSourceDistributionDetail)
		r.GET("/:id", GetSourceDistribution)
		r.PATCH("/:id", UpdateSourceDistribution)
		r.DELETE("/:id", DeleteSourceDistribution)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			SourceDistributions
// @Success		204
// @Router			/v1/source-distributions [options]
func OptionsSourceDistributionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			SourceDistributions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/source-distributions/{id} [options]
func OptionsSourceDistributionDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.SourceDistribution{})
}

// @Summary		Create source distribution
// @Description	Creates a new percentage rule for an income source
// @Tags			SourceDistributions
// @Produce		json
// @Success		201						{object}	SourceDistributionCreateResponse
// @Failure		400						{object}	SourceDistributionCreateResponse
// @Failure		404						{object}	SourceDistributionCreateResponse
// @Failure		500						{object}	SourceDistributionCreateResponse
// @Param			sourceDistributions	body		[]SourceDistributionEditable	true	"SourceDistributions"
// @Router			/v1/source-distributions [post]
func CreateSourceDistributions(c *gin.Context) {
	var editables []SourceDistributionEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SourceDistributionCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := SourceDistributionCreateResponse{}

	for _, editable := range editables {
		rule := editable.model()

		err = models.DB.Create(&rule).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newSourceDistribution(c, rule)
		r.Data = append(r.Data, SourceDistributionResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get source distributions
// @Description	Returns a list of percentage rules
// @Tags			SourceDistributions
// @Produce		json
// @Success		200	{object}	SourceDistributionListResponse
// @Failure		400	{object}	SourceDistributionListResponse
// @Failure		500	{object}	SourceDistributionListResponse
// @Router			/v1/source-distributions [get]
// @Param			incomeSource	query	string	false	"Filter by income source ID"
// @Param			fund			query	string	false	"Filter by fund ID"
// @Param			user			query	string	false	"Filter by user ID"
// @Param			offset			query	uint	false	"The offset of the first SourceDistribution returned. Defaults to 0."
// @Param			limit			query	int		false	"Maximum number of SourceDistributions to return. Defaults to 50."
func GetSourceDistributions(c *gin.Context) {
	var filter SourceDistributionQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SourceDistributionListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("percentage DESC").
		Where(&filterModel, queryFields...)

	if filter.UserID != kw_uuid.Nil {
		q = q.
			Joins("JOIN income_sources on income_sources.id = source_distributions.income_source_id").
			Where("income_sources.user_id = ?", filter.UserID.UUID)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 SourceDistributions and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var rules []models.SourceDistribution
	err = q.Find(&rules).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SourceDistributionListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SourceDistributionListResponse{
			Error: &e,
		})
		return
	}

	data := make([]SourceDistribution, 0)
	for _, rule := range rules {
		data = append(data, newSourceDistribution(c, rule))
	}

	c.JSON(http.StatusOK, SourceDistributionListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get source distribution
// @Description	Returns a specific percentage rule
// @Tags			SourceDistributions
// @Produce		json
// @Success		200	{object}	SourceDistributionResponse
// @Failure		400	{object}	SourceDistributionResponse
// @Failure		404	{object}	SourceDistributionResponse
// @Failure		500	{object}	SourceDistributionResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/source-distributions/{id} [get]
func GetSourceDistribution(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SourceDistributionResponse{
			Error: &s,
		})
		return
	}

	var rule models.SourceDistribution
	err = models.DB.First(&rule, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SourceDistributionResponse{
			Error: &s,
		})
		return
	}

	data := newSourceDistribution(c, rule)
	c.JSON(http.StatusOK, SourceDistributionResponse{Data: &data})
}

// @Summary		Update source distribution
// @Description	Update an existing percentage rule. Only values to be updated need to be specified.
// @Tags			SourceDistributions
// @Accept			json
// @Produce		json
// @Success		200					{object}	SourceDistributionResponse
// @Failure		400					{object}	SourceDistributionResponse
// @Failure		404					{object}	SourceDistributionResponse
// @Failure		500					{object}	SourceDistributionResponse
// @Param			id					path		URIID						true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			sourceDistribution	body		SourceDistributionEditable	true	"SourceDistribution"
// @Router			/v1/source-distributions/{id} [patch]
func UpdateSourceDistribution(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SourceDistributionResponse{
			Error: &s,
		})
		return
	}

	var rule models.SourceDistribution
	err = models.DB.First(&rule, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SourceDistributionResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, SourceDistributionEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SourceDistributionResponse{
			Error: &s,
		})
		return
	}

	var data SourceDistributionEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SourceDistributionResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&rule).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SourceDistributionResponse{
			Error: &s,
		})
		return
	}

	r := newSourceDistribution(c, rule)
	c.JSON(http.StatusOK, SourceDistributionResponse{Data: &r})
}

// @Summary		Delete source distribution
// @Description	Deletes a percentage rule
// @Tags			SourceDistributions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/source-distributions/{id} [delete]
func DeleteSourceDistribution(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var rule models.SourceDistribution
	err = models.DB.First(&rule, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&rule).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
