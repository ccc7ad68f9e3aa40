package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kassenwart/backend/internal/httputil"
	"github.com/kassenwart/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterFundTransferRoutes registers the routes for fund transfers with
// the RouterGroup that is passed.
func RegisterFundTransferRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsFundTransferList)
		r.GET("", GetFundTransfers)
		r.POST("", CreateFundTransfers)
	}

	// FundTransfer with ID
	{
		r.OPTIONS("/:id", OptionsFundTransferDetail)
		r.GET("/:id", GetFundTransfer)
		r.PATCH("/:id", UpdateFundTransfer)
		r.DELETE("/:id", DeleteFundTransfer)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transfers
// @Success		204
// @Router			/v1/transfers [options]
func OptionsFundTransferList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transfers
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transfers/{id} [options]
func OptionsFundTransferDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.FundTransfer{})
}

// @Summary		Create transfer
// @Description	Moves money between two funds of the same user
// @Tags			Transfers
// @Produce		json
// @Success		201			{object}	FundTransferCreateResponse
// @Failure		400			{object}	FundTransferCreateResponse
// @Failure		404			{object}	FundTransferCreateResponse
// @Failure		500			{object}	FundTransferCreateResponse
// @Param			transfers	body		[]FundTransferEditable	true	"Transfers"
// @Router			/v1/transfers [post]
func CreateFundTransfers(c *gin.Context) {
	var editables []FundTransferEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), FundTransferCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := FundTransferCreateResponse{}

	for _, editable := range editables {
		transfer := editable.model()

		err = models.DB.Create(&transfer).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newFundTransfer(c, transfer)
		r.Data = append(r.Data, FundTransferResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get transfers
// @Description	Returns a list of fund transfers
// @Tags			Transfers
// @Produce		json
// @Success		200	{object}	FundTransferListResponse
// @Failure		400	{object}	FundTransferListResponse
// @Failure		500	{object}	FundTransferListResponse
// @Router			/v1/transfers [get]
// @Param			user			query	string	false	"Filter by user ID"
// @Param			sourceFund		query	string	false	"Filter by source fund ID"
// @Param			destinationFund	query	string	false	"Filter by destination fund ID"
// @Param			note			query	string	false	"Filter by note"
// @Param			offset			query	uint	false	"The offset of the first FundTransfer returned. Defaults to 0."
// @Param			limit			query	int		false	"Maximum number of FundTransfers to return. Defaults to 50."
func GetFundTransfers(c *gin.Context) {
	var filter FundTransferQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FundTransferListResponse{
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

	// Default to 50 FundTransfers and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var transfers []models.FundTransfer
	err = q.Find(&transfers).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FundTransferListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), FundTransferListResponse{
			Error: &e,
		})
		return
	}

	data := make([]FundTransfer, 0)
	for _, transfer := range transfers {
		data = append(data, newFundTransfer(c, transfer))
	}

	c.JSON(http.StatusOK, FundTransferListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get transfer
// @Description	Returns a specific fund transfer
// @Tags			Transfers
// @Produce		json
// @Success		200	{object}	FundTransferResponse
// @Failure		400	{object}	FundTransferResponse
// @Failure		404	{object}	FundTransferResponse
// @Failure		500	{object}	FundTransferResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transfers/{id} [get]
func GetFundTransfer(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FundTransferResponse{
			Error: &s,
		})
		return
	}

	var transfer models.FundTransfer
	err = models.DB.First(&transfer, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FundTransferResponse{
			Error: &s,
		})
		return
	}

	data := newFundTransfer(c, transfer)
	c.JSON(http.StatusOK, FundTransferResponse{Data: &data})
}

// @Summary		Update transfer
// @Description	Update an existing fund transfer. Only values to be updated need to be specified.
// @Tags			Transfers
// @Accept			json
// @Produce		json
// @Success		200			{object}	FundTransferResponse
// @Failure		400			{object}	FundTransferResponse
// @Failure		404			{object}	FundTransferResponse
// @Failure		500			{object}	FundTransferResponse
// @Param			id			path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			transfer	body		FundTransferEditable	true	"Transfer"
// @Router			/v1/transfers/{id} [patch]
func UpdateFundTransfer(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FundTransferResponse{
			Error: &s,
		})
		return
	}

	var transfer models.FundTransfer
	err = models.DB.First(&transfer, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FundTransferResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, FundTransferEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FundTransferResponse{
			Error: &s,
		})
		return
	}

	var data FundTransferEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FundTransferResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&transfer).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FundTransferResponse{
			Error: &s,
		})
		return
	}

	r := newFundTransfer(c, transfer)
	c.JSON(http.StatusOK, FundTransferResponse{Data: &r})
}

// @Summary		Delete transfer
// @Description	Deletes a fund transfer
// @Tags			Transfers
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transfers/{id} [delete]
func DeleteFundTransfer(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var transfer models.FundTransfer
	err = models.DB.First(&transfer, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&transfer).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
