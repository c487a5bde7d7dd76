package assemblers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/geotrackio/geotrack/backend/pkg/config"
	"github.com/geotrackio/geotrack/backend/pkg/eventbus"
	"github.com/geotrackio/geotrack/backend/pkg/jobs"
	"github.com/geotrackio/geotrack/backend/pkg/metrics"
	"github.com/geotrackio/geotrack/backend/pkg/middlewares/eventpub"
	"github.com/geotrackio/geotrack/backend/pkg/notify"
	"github.com/geotrackio/geotrack/backend/pkg/routes"
	lservices "github.com/geotrackio/geotrack/backend/pkg/services"
	"github.com/geotrackio/geotrack/backend/pkg/storage/builder"
	"github.com/geotrackio/geotrack/backend/pkg/stream"
	"github.com/geotrackio/geotrack/core/pkg/engines/storage"
	"github.com/geotrackio/geotrack/core/pkg/helpers"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/geotrackio/geotrack/core/pkg/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	serviceID   = "geotrack"
	serviceName = "Geotrack"
)

// TrackingApp holds the assembled services and the background machinery
// that has to be stopped on shutdown.
type TrackingApp struct {
	TrackingService services.TrackingService
	LocationService services.LocationService
	UserService     services.UserService
	Hub             *stream.Hub
	Scheduler       *jobs.JobScheduler
	Metrics         *prometheus.Registry
	Storage         storage.StorageEngine

	closers []func() error
	logger  *logrus.Entry
}

func AssembleTrackingServiceWithHTTPServer(conf config.TrackingConfig, serviceInfo models.APIServiceInfo) (*TrackingApp, int, error) {
	app, err := AssembleTrackingService(conf)
	if err != nil {
		return nil, -1, fmt.Errorf("could not assemble Tracking Service. Exiting: %s", err)
	}

	lHttp := helpers.SetupLogger(conf.Server.LogLevel, serviceName, "HTTP Server")

	httpEngine := routes.NewGinEngine(lHttp, conf.Server.Authorization)
	routes.NewTrackingHTTPLayer(httpEngine.Group("/api"), routes.TrackingHTTPLayerBuilder{
		TrackingService:    app.TrackingService,
		LocationService:    app.LocationService,
		UserService:        app.UserService,
		EventStream:        app.Hub,
		StreamWriteTimeout: conf.Stream.WriteTimeout,
		EnforceAuthz:       conf.Server.Authorization.Enforce,
		Logger:             lHttp,
	})

	extraHandlers := map[string]http.Handler{}
	if conf.Metrics.Enabled {
		extraHandlers[conf.Metrics.Path] = promhttp.HandlerFor(app.Metrics, promhttp.HandlerOpts{})
	}

	port, server, err := routes.RunHttpRouter(lHttp, httpEngine, conf.Server, serviceInfo, extraHandlers)
	if err != nil {
		app.Close()
		return nil, -1, fmt.Errorf("could not run Tracking http server: %s", err)
	}

	app.closers = append([]func() error{func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	}}, app.closers...)

	return app, port, nil
}

func AssembleTrackingService(conf config.TrackingConfig) (*TrackingApp, error) {
	lSvc := helpers.SetupLogger(conf.Logs.Level, serviceName, "Service")
	lStorage := helpers.SetupLogger(conf.Storage.LogLevel, serviceName, "Storage")
	lStream := helpers.SetupLogger(conf.Stream.LogLevel, serviceName, "Event Stream")

	app := &TrackingApp{logger: lSvc}

	engine, err := createStorageInstance(lStorage, conf)
	if err != nil {
		return nil, err
	}
	app.Storage = engine
	if closer, ok := engine.(interface{ Close() error }); ok {
		app.closers = append(app.closers, closer.Close)
	}

	fail := func(err error) (*TrackingApp, error) {
		app.Close()
		return nil, err
	}

	usersStorage, err := engine.GetUserStorage()
	if err != nil {
		return fail(fmt.Errorf("could not get user storage: %s", err))
	}
	devicesStorage, err := engine.GetDeviceStorage()
	if err != nil {
		return fail(fmt.Errorf("could not get device storage: %s", err))
	}
	locationsStorage, err := engine.GetLocationStorage()
	if err != nil {
		return fail(fmt.Errorf("could not get location storage: %s", err))
	}
	activeUsersStorage, err := engine.GetActiveUserStorage()
	if err != nil {
		return fail(fmt.Errorf("could not get active user storage: %s", err))
	}

	if err := seedUsers(context.Background(), lStorage, usersStorage, conf.SeedUsers); err != nil {
		return fail(err)
	}

	collector := metrics.NewCollector()
	app.Metrics = prometheus.NewRegistry()
	app.Metrics.MustRegister(collector, collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app.Hub = stream.NewHub(stream.HubBuilder{
		Logger:   lStream,
		Observer: collector,
	})
	app.closers = append(app.closers, func() error {
		app.Hub.Close()
		return nil
	})

	notifier, err := createCommandNotifier(conf.CommandPush, app)
	if err != nil {
		return fail(err)
	}

	trackingBackend := lservices.NewTrackingService(lservices.TrackingServiceBuilder{
		Logger:         lSvc,
		UsersStorage:   usersStorage,
		DevicesStorage: devicesStorage,
		Stream:         app.Hub,
		Notifier:       notifier,
		Metrics:        collector,
	})

	locationBackend := lservices.NewLocationService(lservices.LocationServiceBuilder{
		Logger:             lSvc,
		LocationsStorage:   locationsStorage,
		ActiveUsersStorage: activeUsersStorage,
		Devices:            trackingBackend,
		Stream:             app.Hub,
		Metrics:            collector,
	})

	userBackend := lservices.NewUserService(lservices.UserServiceBuilder{
		Logger:           lSvc,
		UsersStorage:     usersStorage,
		DevicesStorage:   devicesStorage,
		LocationsStorage: locationsStorage,
	})

	var trackingSvc services.TrackingService = trackingBackend
	var locationSvc services.LocationService = locationBackend
	var userSvc services.UserService = userBackend

	if conf.PublisherEventBus.Enabled {
		lMessaging := helpers.SetupLogger(conf.PublisherEventBus.LogLevel, serviceName, "Event Bus")
		lMessaging.Infof("Publisher Event Bus is enabled")

		pub, err := eventbus.NewEventBusPublisher(conf.PublisherEventBus, serviceID, lMessaging)
		if err != nil {
			return fail(fmt.Errorf("could not create Event Bus publisher: %s", err))
		}
		app.closers = append(app.closers, pub.Close)

		trackingSvc, locationSvc, userSvc = withEventPublishing(pub, lMessaging, trackingSvc, locationSvc, userSvc)
		userBackend.SetService(userSvc)
	}

	app.TrackingService = trackingSvc
	app.LocationService = locationSvc
	app.UserService = userSvc

	if err := scheduleJobs(conf, app, trackingSvc); err != nil {
		return fail(err)
	}

	return app, nil
}

// Close stops the background jobs, the event stream and every connection
// opened while assembling.
func (app *TrackingApp) Close() {
	if app.Scheduler != nil {
		app.Scheduler.Stop()
	}

	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Warnf("error while shutting down: %s", err)
		}
	}
	app.closers = nil
}

func withEventPublishing(pub message.Publisher, logger *logrus.Entry, trackingSvc services.TrackingService, locationSvc services.LocationService, userSvc services.UserService) (services.TrackingService, services.LocationService, services.UserService) {
	cloudPublisher := &eventpub.CloudEventPublisher{
		Publisher: pub,
		ServiceID: serviceID,
		Logger:    logger,
	}

	return eventpub.NewTrackingEventPublisher(cloudPublisher)(trackingSvc),
		eventpub.NewLocationEventPublisher(cloudPublisher)(locationSvc),
		eventpub.NewUserEventPublisher(cloudPublisher)(userSvc)
}

func createStorageInstance(logger *logrus.Entry, conf config.TrackingConfig) (storage.StorageEngine, error) {
	engine, err := builder.BuildStorageEngine(logger, conf.Storage)
	if err != nil {
		return nil, fmt.Errorf("could not create storage engine: %s", err)
	}

	return engine, nil
}

func createCommandNotifier(conf config.CommandPushConfig, app *TrackingApp) (notify.CommandNotifier, error) {
	if !conf.Enabled {
		return notify.NoopNotifier{}, nil
	}

	lPush := helpers.SetupLogger(conf.LogLevel, serviceName, "Command Push")
	notifier, client, err := notify.NewMQTTNotifier(conf, lPush)
	if err != nil {
		return nil, fmt.Errorf("could not create MQTT command notifier: %s", err)
	}

	app.closers = append(app.closers, func() error {
		client.Disconnect(250)
		return nil
	})

	return notifier, nil
}

func scheduleJobs(conf config.TrackingConfig, app *TrackingApp, trackingSvc services.TrackingService) error {
	lJobs := helpers.SetupLogger(conf.Logs.Level, serviceName, "Jobs")
	scheduler := jobs.NewJobScheduler(lJobs)

	if conf.Stream.HeartbeatInterval > 0 {
		heartbeat := jobs.NewStreamHeartbeatJob(app.Hub, lJobs.WithField("job", "heartbeat"))
		if err := scheduler.Schedule("stream-heartbeat", jobs.Every(conf.Stream.HeartbeatInterval), heartbeat); err != nil {
			return fmt.Errorf("could not schedule stream heartbeat: %s", err)
		}
	}

	if conf.Monitoring.Enabled {
		report := jobs.NewStaleDevicesReportJob(trackingSvc, conf.Monitoring.StaleAfter, lJobs.WithField("job", "stale-devices"))
		if err := scheduler.Schedule("stale-devices", conf.Monitoring.Frequency, report); err != nil {
			return fmt.Errorf("could not schedule stale devices report: %s", err)
		}
	}

	scheduler.Start()
	app.Scheduler = scheduler
	return nil
}

func seedUsers(ctx context.Context, logger *logrus.Entry, usersStorage storage.UserRepo, users []config.SeedUser) error {
	for _, seed := range users {
		exists, _, err := usersStorage.SelectByUsername(ctx, seed.Username)
		if err != nil {
			return fmt.Errorf("could not check user '%s': %s", seed.Username, err)
		}

		if exists {
			logger.Debugf("user '%s' already exists", seed.Username)
			continue
		}

		role := seed.Role
		if role == "" {
			role = models.UserRoleUser
		}

		if _, err := usersStorage.Insert(ctx, &models.User{
			Username:  seed.Username,
			Role:      role,
			CreatedAt: time.Now(),
		}); err != nil {
			return fmt.Errorf("could not create user '%s': %s", seed.Username, err)
		}

		logger.Infof("created %s user '%s'", role, seed.Username)
	}

	return nil
}
