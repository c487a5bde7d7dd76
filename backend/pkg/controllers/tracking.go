package controllers

import (
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/geotrackio/geotrack/core/pkg/resources"
	"github.com/geotrackio/geotrack/core/pkg/services"
	"github.com/gin-gonic/gin"
)

type trackingHttpRoutes struct {
	svc services.TrackingService
}

func NewTrackingHttpRoutes(svc services.TrackingService) *trackingHttpRoutes {
	return &trackingHttpRoutes{
		svc: svc,
	}
}

func (r *trackingHttpRoutes) RegisterDevice(ctx *gin.Context) {
	var requestBody resources.RegisterDeviceBody
	if err := ctx.ShouldBindJSON(&requestBody); err != nil {
		ctx.JSON(400, gin.H{"err": err.Error()})
		return
	}

	session, err := r.svc.RegisterDevice(ctx.Request.Context(), services.RegisterDeviceInput{
		DeviceID:  requestBody.DeviceID,
		Username:  requestBody.Username,
		UserAgent: requestBody.UserAgent,
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(200, resources.RegisterDeviceResponse{
		Success: true,
		Device:  *session,
	})
}

func (r *trackingHttpRoutes) PollCommands(ctx *gin.Context) {
	var params deviceUriParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(400, gin.H{"err": err.Error()})
		return
	}

	commands, err := r.svc.PollCommands(ctx.Request.Context(), services.PollCommandsInput{
		DeviceID: params.ID,
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	if commands == nil {
		commands = []models.Command{}
	}

	ctx.JSON(200, resources.PollCommandsResponse{
		Commands: commands,
	})
}

func (r *trackingHttpRoutes) AcknowledgeCommand(ctx *gin.Context) {
	type uriParams struct {
		ID        string `uri:"id" binding:"required"`
		CommandID string `uri:"commandId" binding:"required"`
	}

	var params uriParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(400, gin.H{"err": err.Error()})
		return
	}

	acknowledged, err := r.svc.AcknowledgeCommand(ctx.Request.Context(), services.AcknowledgeCommandInput{
		DeviceID:  params.ID,
		CommandID: params.CommandID,
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(200, resources.AcknowledgeCommandResponse{
		Success:      true,
		Acknowledged: acknowledged,
	})
}

func (r *trackingHttpRoutes) GetDeviceStatus(ctx *gin.Context) {
	var params deviceUriParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(400, gin.H{"err": err.Error()})
		return
	}

	session, err := r.svc.GetDeviceByID(ctx.Request.Context(), services.GetDeviceByIDInput{
		DeviceID: params.ID,
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(200, resources.DeviceStatusResponse{
		Exists:        true,
		DeviceSession: *session,
	})
}

func (r *trackingHttpRoutes) GetDevices(ctx *gin.Context) {
	devices, err := r.svc.GetDevices(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	if devices == nil {
		devices = []models.DeviceSession{}
	}

	ctx.JSON(200, resources.GetDevicesResponse{
		Devices: devices,
	})
}

func (r *trackingHttpRoutes) IssueCommand(ctx *gin.Context) {
	var params deviceUriParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(400, gin.H{"err": err.Error()})
		return
	}

	var requestBody resources.IssueCommandBody
	if err := ctx.ShouldBindJSON(&requestBody); err != nil {
		ctx.JSON(400, gin.H{"err": err.Error()})
		return
	}

	command, err := r.svc.IssueCommand(ctx.Request.Context(), services.IssueCommandInput{
		DeviceID: params.ID,
		Action:   requestBody.Action,
		Interval: requestBody.Interval,
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(200, resources.IssueCommandResponse{
		Success:   true,
		CommandID: command.ID,
	})
}

func (r *trackingHttpRoutes) BroadcastCommand(ctx *gin.Context) {
	var requestBody resources.IssueCommandBody
	if err := ctx.ShouldBindJSON(&requestBody); err != nil {
		ctx.JSON(400, gin.H{"err": err.Error()})
		return
	}

	count, err := r.svc.BroadcastCommand(ctx.Request.Context(), services.BroadcastCommandInput{
		Action:   requestBody.Action,
		Interval: requestBody.Interval,
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(200, resources.BroadcastCommandResponse{
		Success:      true,
		DevicesCount: count,
	})
}

func (r *trackingHttpRoutes) RemoveDevice(ctx *gin.Context) {
	var params deviceUriParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(400, gin.H{"err": err.Error()})
		return
	}

	err := r.svc.RemoveDevice(ctx.Request.Context(), services.RemoveDeviceInput{
		DeviceID: params.ID,
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(200, gin.H{"success": true})
}
