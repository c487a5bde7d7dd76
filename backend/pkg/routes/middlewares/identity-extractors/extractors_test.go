package identityextractors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geotrackio/geotrack/core"
	cconfig "github.com/geotrackio/geotrack/core/pkg/config"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestContext(headers map[string]string) *gin.Context {
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		ctx.Request.Header.Set(k, v)
	}

	return ctx
}

func TestExtractActorDefaultHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	extractor := NewActorHeaderExtractor(logrus.NewEntry(logrus.New()), cconfig.HttpServerAuthorization{})

	ctx := newTestContext(map[string]string{
		"X-Geotrack-Actor-Role": " Admin ",
		"X-Geotrack-Actor-Id":   "ops-1",
	})
	extractor.ExtractActor(ctx)

	role, ok := ActorRoleFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, models.ActorAdmin, role)
	assert.Equal(t, "ops-1", ctx.GetString(core.GeotrackContextKeyActorID))

	assert.Equal(t, "admin", ctx.Request.Context().Value(core.GeotrackContextKeyActorRole))
	assert.Equal(t, "ops-1", ctx.Request.Context().Value(core.GeotrackContextKeyActorID))
}

func TestExtractActorCustomHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	extractor := NewActorHeaderExtractor(logrus.NewEntry(logrus.New()), cconfig.HttpServerAuthorization{
		RoleHeader: "X-Role",
		IDHeader:   "X-Subject",
	})

	ctx := newTestContext(map[string]string{
		"X-Role":                "device",
		"X-Subject":             "d1",
		"X-Geotrack-Actor-Role": "admin",
	})
	extractor.ExtractActor(ctx)

	role, ok := ActorRoleFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, models.ActorDevice, role)
	assert.Equal(t, "d1", ctx.GetString(core.GeotrackContextKeyActorID))
}

func TestExtractActorWithoutHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	extractor := NewActorHeaderExtractor(logrus.NewEntry(logrus.New()), cconfig.HttpServerAuthorization{})

	ctx := newTestContext(nil)
	extractor.ExtractActor(ctx)

	_, ok := ActorRoleFromContext(ctx)
	assert.False(t, ok)
	assert.Nil(t, ctx.Request.Context().Value(core.GeotrackContextKeyActorID))
}
