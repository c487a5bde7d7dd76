package routes

import (
	"time"

	"github.com/geotrackio/geotrack/backend/pkg/controllers"
	"github.com/geotrackio/geotrack/backend/pkg/routes/middlewares/authz"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/geotrackio/geotrack/core/pkg/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type TrackingHTTPLayerBuilder struct {
	TrackingService services.TrackingService
	LocationService services.LocationService
	UserService     services.UserService
	EventStream     controllers.EventStream
	// StreamWriteTimeout bounds each write to an event stream subscriber.
	StreamWriteTimeout time.Duration
	EnforceAuthz       bool
	Logger             *logrus.Entry
}

func NewTrackingHTTPLayer(router *gin.RouterGroup, builder TrackingHTTPLayerBuilder) {
	trackingRoutes := controllers.NewTrackingHttpRoutes(builder.TrackingService)
	locationRoutes := controllers.NewLocationsHttpRoutes(builder.LocationService)
	userRoutes := controllers.NewUsersHttpRoutes(builder.UserService)
	eventRoutes := controllers.NewEventsHttpRoutes(builder.EventStream, builder.StreamWriteTimeout, builder.Logger)

	authzMw := authz.NewAuthorizationMiddleware(builder.Logger, builder.EnforceAuthz)

	rv1 := router.Group("/v1")

	rv1.POST("/devices/register", trackingRoutes.RegisterDevice)
	rv1.GET("/devices/:id/commands", trackingRoutes.PollCommands)
	rv1.POST("/devices/:id/commands/:commandId/ack", trackingRoutes.AcknowledgeCommand)
	rv1.GET("/devices/:id/status", trackingRoutes.GetDeviceStatus)
	rv1.POST("/locations", locationRoutes.IngestLocation)
	rv1.GET("/users/tracking-status", userRoutes.GetTrackingStatus)

	admin := rv1.Group("/admin", authzMw.Use(models.ActorAdmin))
	{
		admin.GET("/devices", trackingRoutes.GetDevices)
		admin.POST("/devices/commands", trackingRoutes.BroadcastCommand)
		admin.POST("/devices/:id/commands", trackingRoutes.IssueCommand)
		admin.DELETE("/devices/:id", trackingRoutes.RemoveDevice)
		admin.GET("/locations", locationRoutes.GetLatestLocations)
		admin.GET("/active-users", locationRoutes.GetActiveUsers)
		admin.GET("/users", userRoutes.GetUsers)
		admin.POST("/users", userRoutes.CreateUser)
		admin.GET("/users/:username/details", userRoutes.GetUserDetails)
		admin.PATCH("/users/:id", userRoutes.UpdateUserTracking)
		admin.DELETE("/users/:id", userRoutes.DeleteUser)
		admin.GET("/events", eventRoutes.Stream)
	}
}
