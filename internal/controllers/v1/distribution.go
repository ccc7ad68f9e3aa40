package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kassenwart/backend/internal/events"
	"github.com/kassenwart/backend/internal/httputil"
	"github.com/kassenwart/backend/internal/models"
	kw_uuid "github.com/kassenwart/backend/internal/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// Events publishes distribution lifecycle messages. A nil publisher
// drops them, which is the default when no broker is configured.
var Events *events.Publisher

// RegisterDistributionRoutes registers the routes for distribution
// batches with the RouterGroup that is passed.
func RegisterDistributionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsDistributionList)
		r.GET("", GetDistributions)
		r.POST("", CreateDistribution)
	}

	// Unallocated money
	{
		r.OPTIONS("/unallocated", OptionsUnallocated)
		r.GET("/unallocated", GetUnallocated)
	}

	// Distribution batch with ID
	{
		r.OPTIONS("/:id", OptionsDistributionDetail)
		r.GET("/:id", GetDistribution)
		r.DELETE("/:id", DeleteDistribution)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Distributions
// @Success		204
// @Router			/v1/distributions [options]
func OptionsDistributionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Distributions
// @Success		204
// @Router			/v1/distributions/unallocated [options]
func OptionsUnallocated(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Distributions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/distributions/{id} [options]
func OptionsDistributionDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.DistributionHistory{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetDelete(c)
}

// @Summary		Execute distribution
// @Description	Distributes all unallocated receipts of the user into their funds following the income source percentages. Returns 204 when there is nothing to distribute.
// @Tags			Distributions
// @Produce		json
// @Success		201		{object}	DistributionResponse
// @Success		204
// @Failure		400		{object}	DistributionResponse
// @Failure		404		{object}	DistributionResponse
// @Failure		500		{object}	DistributionResponse
// @Param			request	body		DistributionRequest	true	"User to distribute for"
// @Router			/v1/distributions [post]
func CreateDistribution(c *gin.Context) {
	var request DistributionRequest

	// Bind data and return error if not possible
	err := httputil.BindData(c, &request)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DistributionResponse{
			Error: &e,
		})
		return
	}

	// The user has to exist
	var user models.User
	err = models.DB.First(&user, request.UserID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DistributionResponse{
			Error: &s,
		})
		return
	}

	batch, err := models.DistributeUnallocated(models.DB, user.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DistributionResponse{
			Error: &s,
		})
		return
	}

	// Nothing to distribute
	if batch == nil {
		c.JSON(http.StatusNoContent, nil)
		return
	}

	err = Events.PublishDistributionCompleted(c.Request.Context(), batch.ID, user.ID, batch.TotalAmount)
	if err != nil {
		log.Error().Err(err).Str("historyId", batch.ID.String()).Msg("distribution message not published")
	}

	data, err := newDistribution(c, models.DB, *batch)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DistributionResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusCreated, DistributionResponse{Data: &data})
}

// @Summary		Get distributions
// @Description	Returns a list of distribution batches with their per fund breakdown
// @Tags			Distributions
// @Produce		json
// @Success		200	{object}	DistributionListResponse
// @Failure		400	{object}	DistributionListResponse
// @Failure		500	{object}	DistributionListResponse
// @Router			/v1/distributions [get]
// @Param			user	query	string	false	"Filter by user ID"
// @Param			offset	query	uint	false	"The offset of the first batch returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of batches to return. Defaults to 50."
func GetDistributions(c *gin.Context) {
	var filter DistributionQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DistributionListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("datetime(distribution_date) DESC").
		Where(&filterModel, queryFields...)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 batches and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var batches []models.DistributionHistory
	err = q.Find(&batches).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DistributionListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DistributionListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Distribution, 0)
	for _, batch := range batches {
		distribution, err := newDistribution(c, models.DB, batch)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), DistributionListResponse{
				Error: &s,
			})
			return
		}
		data = append(data, distribution)
	}

	c.JSON(http.StatusOK, DistributionListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get unallocated money
// @Description	Returns the amount the user has received but not yet routed into any fund
// @Tags			Distributions
// @Produce		json
// @Success		200		{object}	UnallocatedResponse
// @Failure		400		{object}	UnallocatedResponse
// @Failure		404		{object}	UnallocatedResponse
// @Failure		500		{object}	UnallocatedResponse
// @Param			user	query		string	true	"ID of the user"
// @Router			/v1/distributions/unallocated [get]
func GetUnallocated(c *gin.Context) {
	var userID kw_uuid.UUID
	err := userID.UnmarshalParam(c.Query("user"))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UnallocatedResponse{
			Error: &s,
		})
		return
	}

	if userID == kw_uuid.Nil {
		s := errUserIDParameter.Error()
		c.JSON(http.StatusBadRequest, UnallocatedResponse{
			Error: &s,
		})
		return
	}

	var user models.User
	err = models.DB.First(&user, userID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UnallocatedResponse{
			Error: &s,
		})
		return
	}

	unallocated, err := models.UnallocatedFunds(models.DB, user.ID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UnallocatedResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, UnallocatedResponse{
		Data: &UnallocatedAmount{
			UserID:      user.ID,
			Unallocated: unallocated,
		},
	})
}

// @Summary		Get distribution
// @Description	Returns a specific distribution batch with its per fund breakdown
// @Tags			Distributions
// @Produce		json
// @Success		200	{object}	DistributionResponse
// @Failure		400	{object}	DistributionResponse
// @Failure		404	{object}	DistributionResponse
// @Failure		500	{object}	DistributionResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/distributions/{id} [get]
func GetDistribution(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DistributionResponse{
			Error: &s,
		})
		return
	}

	var batch models.DistributionHistory
	err = models.DB.First(&batch, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DistributionResponse{
			Error: &s,
		})
		return
	}

	data, err := newDistribution(c, models.DB, batch)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DistributionResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, DistributionResponse{Data: &data})
}

// @Summary		Delete distribution
// @Description	Reverses a distribution batch. The fund distributions created by the batch are deleted together with the audit record, the money counts as unallocated again.
// @Tags			Distributions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id		path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			user	query	string	false	"ID of the user the batch must belong to"
// @Router			/v1/distributions/{id} [delete]
func DeleteDistribution(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var batch models.DistributionHistory
	err = models.DB.First(&batch, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	// Callers that know their user can scope the reversal to it, a batch
	// of another user is then reported as not found
	userID := batch.UserID
	if param := c.Query("user"); param != "" {
		var id kw_uuid.UUID
		err := id.UnmarshalParam(param)
		if err != nil {
			c.JSON(status(err), httpError{
				Error: err.Error(),
			})
			return
		}
		userID = id.UUID
	}

	err = models.DeleteDistributionHistory(models.DB, batch.ID, userID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = Events.PublishDistributionReversed(c.Request.Context(), batch.ID, batch.UserID, batch.TotalAmount)
	if err != nil {
		log.Error().Err(err).Str("historyId", batch.ID.String()).Msg("distribution message not published")
	}

	c.JSON(http.StatusNoContent, nil)
}
