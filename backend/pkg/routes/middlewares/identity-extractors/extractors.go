package identityextractors

import (
	"context"
	"strings"

	"github.com/geotrackio/geotrack/core"
	cconfig "github.com/geotrackio/geotrack/core/pkg/config"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ActorHeaderExtractor reads the caller identity asserted by the fronting
// authentication proxy. The headers are trusted as is.
type ActorHeaderExtractor struct {
	logger     *logrus.Entry
	roleHeader string
	idHeader   string
}

func NewActorHeaderExtractor(logger *logrus.Entry, conf cconfig.HttpServerAuthorization) ActorHeaderExtractor {
	roleHeader := conf.RoleHeader
	if roleHeader == "" {
		roleHeader = models.HttpActorRoleHeader
	}

	idHeader := conf.IDHeader
	if idHeader == "" {
		idHeader = models.HttpActorIDHeader
	}

	return ActorHeaderExtractor{
		logger:     logger,
		roleHeader: roleHeader,
		idHeader:   idHeader,
	}
}

func (extractor ActorHeaderExtractor) ExtractActor(ctx *gin.Context) {
	reqCtx := ctx.Request.Context()

	role := strings.ToLower(strings.TrimSpace(ctx.GetHeader(extractor.roleHeader)))
	if role != "" {
		ctx.Set(core.GeotrackContextKeyActorRole, role)
		reqCtx = context.WithValue(reqCtx, core.GeotrackContextKeyActorRole, role)
	}

	actorID := strings.TrimSpace(ctx.GetHeader(extractor.idHeader))
	if actorID != "" {
		ctx.Set(core.GeotrackContextKeyActorID, actorID)
		reqCtx = context.WithValue(reqCtx, core.GeotrackContextKeyActorID, actorID)
	}

	if role != "" || actorID != "" {
		extractor.logger.Tracef("request made by actor '%s' with role '%s'", actorID, role)
	}

	ctx.Request = ctx.Request.WithContext(reqCtx)
}

func RequestMetadataToContextMiddleware(logger *logrus.Entry, conf cconfig.HttpServerAuthorization) gin.HandlerFunc {
	extractor := NewActorHeaderExtractor(logger, conf)
	return func(c *gin.Context) {
		extractor.ExtractActor(c)
		c.Next()
	}
}

// ActorRoleFromContext returns the role stored by the extractor, if any.
func ActorRoleFromContext(ctx *gin.Context) (models.ActorRole, bool) {
	role := ctx.GetString(core.GeotrackContextKeyActorRole)
	if role == "" {
		return "", false
	}

	return models.ActorRole(role), true
}
