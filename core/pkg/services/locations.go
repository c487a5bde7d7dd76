package services

import (
	"context"
	"time"

	"github.com/geotrackio/geotrack/core/pkg/models"
)

type LocationService interface {
	IngestLocation(ctx context.Context, input IngestLocationInput) (*models.Location, error)
	GetLatestLocations(ctx context.Context, input GetLatestLocationsInput) ([]models.Location, error)
	GetActiveUsers(ctx context.Context, input GetActiveUsersInput) ([]models.ActiveUser, error)
}

type IngestLocationInput struct {
	UserID    string `validate:"required"`
	Username  string `validate:"required"`
	DeviceID  string
	Latitude  *float64 `validate:"required,gte=-90,lte=90"`
	Longitude *float64 `validate:"required,gte=-180,lte=180"`
	Accuracy  *float64 `validate:"omitempty,gte=0"`
}

type GetLatestLocationsInput struct {
	Timeframe models.Timeframe
}

type GetActiveUsersInput struct {
	Within time.Duration `validate:"gte=0"`
}
