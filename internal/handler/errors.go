package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/promo_api/internal/utils"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{utils.ErrPromotionNotFound, http.StatusNotFound},
	{utils.ErrProductNotFound, http.StatusNotFound},
	{utils.ErrItemNotFound, http.StatusNotFound},
	{utils.ErrRuleNotFound, http.StatusNotFound},
	{utils.ErrPromotionNotEditable, http.StatusConflict},
	{utils.ErrInvalidDateRange, http.StatusBadRequest},
	{utils.ErrInvalidDiscountRule, http.StatusBadRequest},
	{utils.ErrInvalidPrice, http.StatusBadRequest},
	{utils.ErrInvalidProduct, http.StatusBadRequest},
	{utils.ErrInvalidPromotion, http.StatusBadRequest},
	{utils.ErrInvalidSalesLog, http.StatusBadRequest},
	{utils.ErrInvalidRule, http.StatusBadRequest},
	{utils.ErrInvalidCSV, http.StatusBadRequest},
	{utils.ErrExportDisabled, http.StatusServiceUnavailable},
	{utils.ErrInvalidCredentials, http.StatusUnauthorized},
	{utils.ErrAccountInactive, http.StatusForbidden},
}

// respondError maps a service error to the standard error envelope. The
// error code is the sentinel's name; unknown errors become a 500 and are
// logged.
func respondError(c *gin.Context, err error) {
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			utils.Error(c, m.status, m.err.Error(), err.Error())
			return
		}
	}
	log.Error().Err(err).
		Str("request_id", c.GetString("request_id")).
		Str("path", c.FullPath()).
		Msg("Unhandled error")
	utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

func badRequest(c *gin.Context, message string) {
	utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", message)
}

// pageParams reads page and limit query parameters, keeping the defaults for
// missing or invalid values.
func pageParams(c *gin.Context) (page, limit int) {
	page, limit = 1, 50
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return page, limit
}
