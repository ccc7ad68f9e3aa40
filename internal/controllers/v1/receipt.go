package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kassenwart/backend/internal/httputil"
	"github.com/kassenwart/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterReceiptRoutes registers the routes for receipts with
// the RouterGroup that is passed.
func RegisterReceiptRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsReceiptList)
		r.GET("", GetReceipts)
		r.POST("", CreateReceipts)
	}

	// Receipt with ID
	{
		r.OPTIONS("/:id", OptionsReceiptDetail)
		r.GET("/:id", GetReceipt)
		r.PATCH("/:id", UpdateReceipt)
		r.DELETE("/:id", DeleteReceipt)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Receipts
// @Success		204
// @Router			/v1/receipts [options]
func OptionsReceiptList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Receipts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/receipts/{id} [options]
func OptionsReceiptDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Receipt{})
}

// @Summary		Create receipt
// @Description	Creates a new receipt. Receipts without an income source are attributed by the user's match rules.
// @Tags			Receipts
// @Produce		json
// @Success		201			{object}	ReceiptCreateResponse
// @Failure		400			{object}	ReceiptCreateResponse
// @Failure		404			{object}	ReceiptCreateResponse
// @Failure		500			{object}	ReceiptCreateResponse
// @Param			receipts	body		[]ReceiptEditable	true	"Receipts"
// @Router			/v1/receipts [post]
func CreateReceipts(c *gin.Context) {
	var editables []ReceiptEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ReceiptCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := ReceiptCreateResponse{}

	for _, editable := range editables {
		receipt := editable.model()

		err = models.DB.Create(&receipt).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newReceipt(c, receipt)
		r.Data = append(r.Data, ReceiptResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get receipts
// @Description	Returns a list of receipts
// @Tags			Receipts
// @Produce		json
// @Success		200	{object}	ReceiptListResponse
// @Failure		400	{object}	ReceiptListResponse
// @Failure		500	{object}	ReceiptListResponse
// @Router			/v1/receipts [get]
// @Param			user			query	string	false	"Filter by user ID"
// @Param			incomeSource	query	string	false	"Filter by income source ID"
// @Param			note			query	string	false	"Filter by note"
// @Param			undistributed	query	bool	false	"Only receipts without fund distributions"
// @Param			offset			query	uint	false	"The offset of the first Receipt returned. Defaults to 0."
// @Param			limit			query	int		false	"Maximum number of Receipts to return. Defaults to 50."
func GetReceipts(c *gin.Context) {
	var filter ReceiptQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ReceiptListResponse{
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

	if filter.Undistributed {
		q = q.Where("receipts.id NOT IN (SELECT receipt_id FROM fund_distributions WHERE deleted_at IS NULL)")
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Receipts and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var receipts []models.Receipt
	err = q.Find(&receipts).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ReceiptListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ReceiptListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Receipt, 0)
	for _, receipt := range receipts {
		data = append(data, newReceipt(c, receipt))
	}

	c.JSON(http.StatusOK, ReceiptListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get receipt
// @Description	Returns a specific receipt
// @Tags			Receipts
// @Produce		json
// @Success		200	{object}	ReceiptResponse
// @Failure		400	{object}	ReceiptResponse
// @Failure		404	{object}	ReceiptResponse
// @Failure		500	{object}	ReceiptResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/receipts/{id} [get]
func GetReceipt(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ReceiptResponse{
			Error: &s,
		})
		return
	}

	var receipt models.Receipt
	err = models.DB.First(&receipt, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ReceiptResponse{
			Error: &s,
		})
		return
	}

	data := newReceipt(c, receipt)
	c.JSON(http.StatusOK, ReceiptResponse{Data: &data})
}

// @Summary		Update receipt
// @Description	Update an existing receipt. Only values to be updated need to be specified. Changing the amount or the income source deletes the receipt's fund distributions, the next distribution run recreates them.
// @Tags			Receipts
// @Accept			json
// @Produce		json
// @Success		200		{object}	ReceiptResponse
// @Failure		400		{object}	ReceiptResponse
// @Failure		404		{object}	ReceiptResponse
// @Failure		500		{object}	ReceiptResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			receipt	body		ReceiptEditable	true	"Receipt"
// @Router			/v1/receipts/{id} [patch]
func UpdateReceipt(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ReceiptResponse{
			Error: &s,
		})
		return
	}

	var receipt models.Receipt
	err = models.DB.First(&receipt, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ReceiptResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ReceiptEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ReceiptResponse{
			Error: &s,
		})
		return
	}

	var data ReceiptEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ReceiptResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&receipt).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ReceiptResponse{
			Error: &s,
		})
		return
	}

	r := newReceipt(c, receipt)
	c.JSON(http.StatusOK, ReceiptResponse{Data: &r})
}

// @Summary		Delete receipt
// @Description	Deletes a receipt together with its fund distributions
// @Tags			Receipts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/receipts/{id} [delete]
func DeleteReceipt(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var receipt models.Receipt
	err = models.DB.First(&receipt, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&receipt).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
