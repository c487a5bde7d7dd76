package authz

import (
	"slices"

	identityextractors "github.com/geotrackio/geotrack/backend/pkg/routes/middlewares/identity-extractors"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type GeotrackAuthorizationMiddleware struct {
	logger  *logrus.Entry
	enforce bool
}

func NewAuthorizationMiddleware(logger *logrus.Entry, enforce bool) GeotrackAuthorizationMiddleware {
	if !enforce {
		logger.Warn("authorization is not enforced: admin routes are reachable by any caller")
	}

	return GeotrackAuthorizationMiddleware{
		logger:  logger,
		enforce: enforce,
	}
}

// Use only lets through requests whose actor role is one of allowedRoles.
// Requests without a role are rejected with 401, any other role with 403.
func (mw GeotrackAuthorizationMiddleware) Use(allowedRoles ...models.ActorRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !mw.enforce {
			c.Next()
			return
		}

		role, ok := identityextractors.ActorRoleFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(401, gin.H{"err": "no actor role found in request"})
			return
		}

		if !slices.Contains(allowedRoles, role) {
			mw.logger.Debugf("actor role '%s' not allowed on %s %s", role, c.Request.Method, c.FullPath())
			c.AbortWithStatusJSON(403, gin.H{"err": "forbidden"})
			return
		}

		c.Next()
	}
}
