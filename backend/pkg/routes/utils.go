package routes

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	headerextractors "github.com/geotrackio/geotrack/backend/pkg/routes/middlewares/basic-header-extractors"
	basiclogger "github.com/geotrackio/geotrack/backend/pkg/routes/middlewares/basic-logger"
	identityextractors "github.com/geotrackio/geotrack/backend/pkg/routes/middlewares/identity-extractors"
	cconfig "github.com/geotrackio/geotrack/core/pkg/config"
	"github.com/geotrackio/geotrack/core/pkg/controllers"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func NewGinEngine(logger *logrus.Entry, authConf cconfig.HttpServerAuthorization) *gin.Engine {
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
		logger.Debugf("Endpoint: %-6s %s", httpMethod, absolutePath)
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"*"}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		cors.New(corsConfig),
		headerextractors.RequestMetadataToContextMiddleware(logger),
		identityextractors.RequestMetadataToContextMiddleware(logger, authConf),
		basiclogger.UseLogger(logger),
	)

	return router
}

// RunHttpRouter serves routerEngine together with the health check and any
// extra handlers keyed by path. It returns the port actually bound.
func RunHttpRouter(logger *logrus.Entry, routerEngine http.Handler, httpServerCfg cconfig.HttpServer, apiInfo models.APIServiceInfo, extraHandlers map[string]http.Handler) (int, *http.Server, error) {
	hCheckRoute := controllers.NewHealthCheckRoute(apiInfo)
	mainLogger := logger
	if !httpServerCfg.HealthCheckLogging {
		nooutLogger := logrus.New()
		nooutLogger.Out = io.Discard

		mainLogger = nooutLogger.WithField("", "")
	}

	healthEngine := NewGinEngine(mainLogger, httpServerCfg.Authorization)
	healthEngine.GET("/health", hCheckRoute.HealthCheck)

	mainEngine := http.NewServeMux()
	mainEngine.Handle("/", routerEngine)
	mainEngine.Handle("/health", healthEngine)
	for path, handler := range extraHandlers {
		mainEngine.Handle(path, handler)
	}

	addr := fmt.Sprintf("%s:%d", httpServerCfg.ListenAddress, httpServerCfg.Port)

	// no server wide WriteTimeout: event streams stay open and bound each
	// write themselves
	server := &http.Server{
		Addr:              addr,
		Handler:           mainEngine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return -1, nil, err
	}

	usedPort := listener.Addr().(*net.TCPAddr).Port

	wg := new(sync.WaitGroup)
	wg.Add(1)
	startLaunching := func() {
		wg.Done()
	}

	httpErrChan := make(chan error, 1)

	if strings.HasSuffix(addr, ":0") {
		addr = strings.ReplaceAll(addr, ":0", "")
	}

	go func() {
		var err error
		if httpServerCfg.Protocol == cconfig.HTTPS {
			logger.Infof("HTTPS server listening on %s:%d", addr, usedPort)
			startLaunching()
			err = server.ServeTLS(listener, httpServerCfg.CertFile, httpServerCfg.KeyFile)
		} else {
			logger.Infof("HTTP server listening on %s:%d", addr, usedPort)
			startLaunching()
			err = server.Serve(listener)
		}

		if err != nil && err != http.ErrServerClosed {
			logger.Errorf("could not start http server: %s", err)
			httpErrChan <- err
		}
	}()

	// if no error shows up within 3 seconds the server is considered running
	ctxTimeout, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	wg.Wait()

	select {
	case <-ctxTimeout.Done():
		logger.Info("HTTP server ready to accept requests")
	case err := <-httpErrChan:
		return -1, nil, err
	}

	return usedPort, server, nil
}
