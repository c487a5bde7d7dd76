package controllers

import (
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/geotrackio/geotrack/core/pkg/resources"
	"github.com/geotrackio/geotrack/core/pkg/services"
	"github.com/gin-gonic/gin"
)

type locationsHttpRoutes struct {
	svc services.LocationService
}

func NewLocationsHttpRoutes(svc services.LocationService) *locationsHttpRoutes {
	return &locationsHttpRoutes{
		svc: svc,
	}
}

func (r *locationsHttpRoutes) IngestLocation(ctx *gin.Context) {
	var requestBody resources.IngestLocationBody
	if err := ctx.ShouldBindJSON(&requestBody); err != nil {
		ctx.JSON(400, gin.H{"err": err.Error()})
		return
	}

	location, err := r.svc.IngestLocation(ctx.Request.Context(), services.IngestLocationInput{
		UserID:    string(requestBody.UserID),
		Username:  requestBody.Username,
		DeviceID:  requestBody.DeviceID,
		Latitude:  requestBody.Latitude,
		Longitude: requestBody.Longitude,
		Accuracy:  requestBody.Accuracy,
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(200, resources.IngestLocationResponse{
		Success:   true,
		Timestamp: location.Timestamp,
	})
}

func (r *locationsHttpRoutes) GetLatestLocations(ctx *gin.Context) {
	locations, err := r.svc.GetLatestLocations(ctx.Request.Context(), services.GetLatestLocationsInput{
		Timeframe: parseTimeframe(ctx),
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	if locations == nil {
		locations = []models.Location{}
	}

	ctx.JSON(200, resources.GetLocationsResponse{
		Locations: locations,
	})
}

func (r *locationsHttpRoutes) GetActiveUsers(ctx *gin.Context) {
	users, err := r.svc.GetActiveUsers(ctx.Request.Context(), services.GetActiveUsersInput{})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	if users == nil {
		users = []models.ActiveUser{}
	}

	ctx.JSON(200, resources.GetActiveUsersResponse{
		Users: users,
	})
}
