package resources

import "github.com/geotrackio/geotrack/core/pkg/models"

type GetUsersResponse struct {
	Users []models.User `json:"users"`
}

type UserResponse struct {
	Success bool        `json:"success"`
	User    models.User `json:"user"`
}

type DeleteUserResponse struct {
	Success bool `json:"success"`
}
