package services

import (
	"context"

	"github.com/geotrackio/geotrack/core/pkg/models"
)

// UserService manages the users devices and locations are reported for.
type UserService interface {
	GetUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error)
	GetUserDetails(ctx context.Context, input GetUserDetailsInput) (*models.UserDetails, error)
	// GetTrackingStatus reports whether tracking is enabled for a user,
	// creating the user on first contact.
	GetTrackingStatus(ctx context.Context, input GetTrackingStatusInput) (*models.TrackingStatus, error)
	UpdateUserTracking(ctx context.Context, input UpdateUserTrackingInput) (*models.User, error)
	DeleteUser(ctx context.Context, input DeleteUserInput) error
}

type CreateUserInput struct {
	Username string          `validate:"required"`
	Role     models.UserRole `validate:"omitempty,oneof=admin user"`
}

type GetUserDetailsInput struct {
	Username string `validate:"required"`
}

type GetTrackingStatusInput struct {
	Username string `validate:"required"`
}

type UpdateUserTrackingInput struct {
	ID              int64 `validate:"required"`
	TrackingEnabled bool
}

type DeleteUserInput struct {
	ID int64 `validate:"required"`
}
