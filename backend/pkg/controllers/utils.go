package controllers

import (
	"errors"

	"github.com/geotrackio/geotrack/core/pkg/errs"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/gin-gonic/gin"
)

func respondWithError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrValidateBadRequest):
		ctx.JSON(400, gin.H{"err": err.Error()})
	case errors.Is(err, errs.ErrDeviceNotFound), errors.Is(err, errs.ErrUserNotFound):
		ctx.JSON(404, gin.H{"err": err.Error()})
	case errors.Is(err, errs.ErrUserAlreadyExists):
		ctx.JSON(409, gin.H{"err": err.Error()})
	case errors.Is(err, errs.ErrUserProtected):
		ctx.JSON(403, gin.H{"err": err.Error()})
	default:
		ctx.JSON(500, gin.H{"err": err.Error()})
	}
}

type deviceUriParams struct {
	ID string `uri:"id" binding:"required"`
}

// parseTimeframe reads the timeframe query parameter. Missing or unknown
// values fall back to 24h.
func parseTimeframe(ctx *gin.Context) models.Timeframe {
	switch tf := models.Timeframe(ctx.Query("timeframe")); tf {
	case models.Timeframe1h, models.Timeframe6h, models.Timeframe24h, models.Timeframe7d:
		return tf
	default:
		return models.Timeframe24h
	}
}
