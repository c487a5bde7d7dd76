package controllers

import (
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/geotrackio/geotrack/core/pkg/resources"
	"github.com/geotrackio/geotrack/core/pkg/services"
	"github.com/gin-gonic/gin"
)

type usersHttpRoutes struct {
	svc services.UserService
}

func NewUsersHttpRoutes(svc services.UserService) *usersHttpRoutes {
	return &usersHttpRoutes{
		svc: svc,
	}
}

type userIDUriParams struct {
	ID int64 `uri:"id" binding:"required"`
}

func (r *usersHttpRoutes) GetUsers(ctx *gin.Context) {
	users, err := r.svc.GetUsers(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	if users == nil {
		users = []models.User{}
	}

	ctx.JSON(200, resources.GetUsersResponse{
		Users: users,
	})
}

func (r *usersHttpRoutes) CreateUser(ctx *gin.Context) {
	var requestBody resources.CreateUserBody
	if err := ctx.ShouldBindJSON(&requestBody); err != nil {
		ctx.JSON(400, gin.H{"err": err.Error()})
		return
	}

	user, err := r.svc.CreateUser(ctx.Request.Context(), services.CreateUserInput{
		Username: requestBody.Username,
		Role:     requestBody.Role,
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(201, resources.UserResponse{
		Success: true,
		User:    *user,
	})
}

func (r *usersHttpRoutes) GetUserDetails(ctx *gin.Context) {
	type uriParams struct {
		Username string `uri:"username" binding:"required"`
	}

	var params uriParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(400, gin.H{"err": err.Error()})
		return
	}

	details, err := r.svc.GetUserDetails(ctx.Request.Context(), services.GetUserDetailsInput{
		Username: params.Username,
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(200, details)
}

func (r *usersHttpRoutes) GetTrackingStatus(ctx *gin.Context) {
	status, err := r.svc.GetTrackingStatus(ctx.Request.Context(), services.GetTrackingStatusInput{
		Username: ctx.Query("username"),
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(200, status)
}

func (r *usersHttpRoutes) UpdateUserTracking(ctx *gin.Context) {
	var params userIDUriParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(400, gin.H{"err": err.Error()})
		return
	}

	var requestBody resources.UpdateUserTrackingBody
	if err := ctx.ShouldBindJSON(&requestBody); err != nil {
		ctx.JSON(400, gin.H{"err": err.Error()})
		return
	}

	user, err := r.svc.UpdateUserTracking(ctx.Request.Context(), services.UpdateUserTrackingInput{
		ID:              params.ID,
		TrackingEnabled: *requestBody.TrackingEnabled,
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(200, resources.UserResponse{
		Success: true,
		User:    *user,
	})
}

func (r *usersHttpRoutes) DeleteUser(ctx *gin.Context) {
	var params userIDUriParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(400, gin.H{"err": err.Error()})
		return
	}

	err := r.svc.DeleteUser(ctx.Request.Context(), services.DeleteUserInput{
		ID: params.ID,
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(200, resources.DeleteUserResponse{
		Success: true,
	})
}
