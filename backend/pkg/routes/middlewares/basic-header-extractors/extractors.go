package headerextractors

import (
	"context"
	"net/http"

	"github.com/geotrackio/geotrack/core"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func updateContextWithRequestID(ctx *gin.Context, headers http.Header) {
	reqID := headers.Get(models.HttpRequestIDHeader)
	if reqID == "" {
		return
	}

	ctx.Set(core.GeotrackContextKeyRequestID, reqID)
	ctx.Request = ctx.Request.WithContext(context.WithValue(ctx.Request.Context(), core.GeotrackContextKeyRequestID, reqID))
}

func updateContextWithSource(ctx *gin.Context, headers http.Header) {
	source := headers.Get(models.HttpSourceHeader)
	if source == "" {
		return
	}

	ctx.Set(core.GeotrackContextKeySource, source)
	ctx.Request = ctx.Request.WithContext(context.WithValue(ctx.Request.Context(), core.GeotrackContextKeySource, source))
}

// RequestMetadataToContextMiddleware copies the request id and source headers
// into both the gin context and the request context handed to services.
func RequestMetadataToContextMiddleware(logger *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		updateContextWithRequestID(c, c.Request.Header)
		updateContextWithSource(c, c.Request.Header)

		c.Next()
	}
}
