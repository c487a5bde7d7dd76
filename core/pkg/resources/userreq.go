package resources

import "github.com/geotrackio/geotrack/core/pkg/models"

type CreateUserBody struct {
	Username string          `json:"username"`
	Role     models.UserRole `json:"role"`
}

type UpdateUserTrackingBody struct {
	TrackingEnabled *bool `json:"tracking_enabled" binding:"required"`
}
