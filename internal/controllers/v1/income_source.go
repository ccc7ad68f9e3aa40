package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kassenwart/backend/internal/httputil"
	"github.com/kassenwart/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterIncomeSourceRoutes registers the routes for income sources with
// the RouterGroup that is passed.
func RegisterIncomeSourceRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsIncomeSourceList)
		r.GET("", GetIncomeSources)
		r.POST("", CreateIncomeSources)
	}

	// IncomeSource with ID
	{
		r.OPTIONS("/:id", OptionsIncomeSourceDetail)
		r.GET("/:id", GetIncomeSource)
		r.PATCH("/:id", UpdateIncomeSource)
		r.DELETE("/:id", DeleteIncomeSource)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			IncomeSources
// @Success		204
// @Router			/v1/income-sources [options]
func OptionsIncomeSourceList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			IncomeSources
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/income-sources/{id} [options]
func OptionsIncomeSourceDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.IncomeSource{})
}

// @Summary		Create income source
// @Description	Creates a new income source
// @Tags			IncomeSources
// @Produce		json
// @Success		201				{object}	IncomeSourceCreateResponse
// @Failure		400				{object}	IncomeSourceCreateResponse
// @Failure		404				{object}	IncomeSourceCreateResponse
// @Failure		500				{object}	IncomeSourceCreateResponse
// @Param			incomeSources	body		[]IncomeSourceEditable	true	"IncomeSources"
// @Router			/v1/income-sources [post]
func CreateIncomeSources(c *gin.Context) {
	var editables []IncomeSourceEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeSourceCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := IncomeSourceCreateResponse{}

	for _, editable := range editables {
		source := editable.model()

		err = models.DB.Create(&source).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newIncomeSource(c, source)
		r.Data = append(r.Data, IncomeSourceResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get income sources
// @Description	Returns a list of income sources
// @Tags			IncomeSources
// @Produce		json
// @Success		200	{object}	IncomeSourceListResponse
// @Failure		400	{object}	IncomeSourceListResponse
// @Failure		500	{object}	IncomeSourceListResponse
// @Router			/v1/income-sources [get]
// @Param			user		query	string	false	"Filter by user ID"
// @Param			name		query	string	false	"Filter by name"
// @Param			note		query	string	false	"Filter by note"
// @Param			archived	query	bool	false	"Is the income source archived?"
// @Param			search		query	string	false	"Search for this text in name and note"
// @Param			offset		query	uint	false	"The offset of the first IncomeSource returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of IncomeSources to return. Defaults to 50."
func GetIncomeSources(c *gin.Context) {
	var filter IncomeSourceQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeSourceListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("name ASC").
		Where(&filterModel, queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 IncomeSources and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var sources []models.IncomeSource
	err = q.Find(&sources).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeSourceListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeSourceListResponse{
			Error: &e,
		})
		return
	}

	data := make([]IncomeSource, 0)
	for _, source := range sources {
		data = append(data, newIncomeSource(c, source))
	}

	c.JSON(http.StatusOK, IncomeSourceListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get income source
// @Description	Returns a specific income source
// @Tags			IncomeSources
// @Produce		json
// @Success		200	{object}	IncomeSourceResponse
// @Failure		400	{object}	IncomeSourceResponse
// @Failure		404	{object}	IncomeSourceResponse
// @Failure		500	{object}	IncomeSourceResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/income-sources/{id} [get]
func GetIncomeSource(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeSourceResponse{
			Error: &s,
		})
		return
	}

	var source models.IncomeSource
	err = models.DB.First(&source, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeSourceResponse{
			Error: &s,
		})
		return
	}

	data := newIncomeSource(c, source)
	c.JSON(http.StatusOK, IncomeSourceResponse{Data: &data})
}

// @Summary		Update income source
// @Description	Update an existing income source. Only values to be updated need to be specified.
// @Tags			IncomeSources
// @Accept			json
// @Produce		json
// @Success		200				{object}	IncomeSourceResponse
// @Failure		400				{object}	IncomeSourceResponse
// @Failure		404				{object}	IncomeSourceResponse
// @Failure		500				{object}	IncomeSourceResponse
// @Param			id				path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			incomeSource	body		IncomeSourceEditable	true	"IncomeSource"
// @Router			/v1/income-sources/{id} [patch]
func UpdateIncomeSource(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeSourceResponse{
			Error: &s,
		})
		return
	}

	var source models.IncomeSource
	err = models.DB.First(&source, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeSourceResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, IncomeSourceEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeSourceResponse{
			Error: &s,
		})
		return
	}

	var data IncomeSourceEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeSourceResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&source).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), IncomeSourceResponse{
			Error: &s,
		})
		return
	}

	r := newIncomeSource(c, source)
	c.JSON(http.StatusOK, IncomeSourceResponse{Data: &r})
}

// @Summary		Delete income source
// @Description	Deletes an income source
// @Tags			IncomeSources
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/income-sources/{id} [delete]
func DeleteIncomeSource(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var source models.IncomeSource
	err = models.DB.First(&source, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&source).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
