package controllers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/geotrackio/geotrack/core/pkg/errs"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/geotrackio/geotrack/core/pkg/services"
	svcmock "github.com/geotrackio/geotrack/core/pkg/services/mock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newLocationsRouter(svc services.LocationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	routes := NewLocationsHttpRoutes(svc)

	router := gin.New()
	router.POST("/locations", routes.IngestLocation)
	router.GET("/admin/locations", routes.GetLatestLocations)
	router.GET("/admin/active-users", routes.GetActiveUsers)

	return router
}

func TestIngestLocationController(t *testing.T) {
	testCases := []struct {
		name           string
		body           string
		expectedUserID string
	}{
		{
			name:           "NumericUserID",
			body:           `{"user_id":42,"username":"alice","device_id":"d1","latitude":6.2,"longitude":-75.5,"accuracy":5}`,
			expectedUserID: "42",
		},
		{
			name:           "StringUserID",
			body:           `{"user_id":"42","username":"alice","device_id":"d1","latitude":6.2,"longitude":-75.5,"accuracy":5}`,
			expectedUserID: "42",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(svcmock.MockLocationService)
			router := newLocationsRouter(svc)

			svc.On("IngestLocation", mock.Anything, mock.MatchedBy(func(input services.IngestLocationInput) bool {
				return input.UserID == tc.expectedUserID &&
					input.Username == "alice" &&
					input.DeviceID == "d1" &&
					*input.Latitude == 6.2 &&
					*input.Longitude == -75.5 &&
					*input.Accuracy == 5
			})).Return(&models.Location{UserID: tc.expectedUserID, Timestamp: 1700000000123}, nil)

			w := doRequest(router, http.MethodPost, "/locations", tc.body)

			assert.Equal(t, 200, w.Code)
			assert.JSONEq(t, `{"success":true,"timestamp":1700000000123}`, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestIngestLocationControllerMissingCoordinates(t *testing.T) {
	svc := new(svcmock.MockLocationService)
	router := newLocationsRouter(svc)

	svc.On("IngestLocation", mock.Anything, mock.MatchedBy(func(input services.IngestLocationInput) bool {
		return input.Latitude == nil
	})).Return((*models.Location)(nil), errs.ErrValidateBadRequest)

	w := doRequest(router, http.MethodPost, "/locations", `{"user_id":1,"username":"alice","longitude":1}`)

	assert.Equal(t, 400, w.Code)
}

func TestIngestLocationControllerInvalidUserID(t *testing.T) {
	svc := new(svcmock.MockLocationService)
	router := newLocationsRouter(svc)

	w := doRequest(router, http.MethodPost, "/locations", `{"user_id":{"id":1},"username":"alice","latitude":1,"longitude":1}`)

	assert.Equal(t, 400, w.Code)
	svc.AssertNotCalled(t, "IngestLocation", mock.Anything, mock.Anything)
}

func TestIngestLocationControllerPersistenceError(t *testing.T) {
	svc := new(svcmock.MockLocationService)
	router := newLocationsRouter(svc)

	svc.On("IngestLocation", mock.Anything, mock.Anything).Return((*models.Location)(nil), errs.ErrPersistence)

	w := doRequest(router, http.MethodPost, "/locations", `{"user_id":1,"username":"alice","latitude":1,"longitude":1}`)

	assert.Equal(t, 500, w.Code)
}

func TestGetLatestLocationsControllerTimeframes(t *testing.T) {
	testCases := []struct {
		query    string
		expected models.Timeframe
	}{
		{query: "", expected: models.Timeframe24h},
		{query: "?timeframe=1h", expected: models.Timeframe1h},
		{query: "?timeframe=6h", expected: models.Timeframe6h},
		{query: "?timeframe=7d", expected: models.Timeframe7d},
		{query: "?timeframe=1y", expected: models.Timeframe24h},
	}

	for _, tc := range testCases {
		t.Run(string(tc.expected)+tc.query, func(t *testing.T) {
			svc := new(svcmock.MockLocationService)
			router := newLocationsRouter(svc)

			svc.On("GetLatestLocations", mock.Anything, services.GetLatestLocationsInput{Timeframe: tc.expected}).Return([]models.Location{
				{UserID: "1", Username: "alice", Latitude: 1, Longitude: 2, Timestamp: 10},
			}, nil)

			w := doRequest(router, http.MethodGet, "/admin/locations"+tc.query, "")

			assert.Equal(t, 200, w.Code)
			assert.Len(t, decodeBody(t, w)["locations"], 1)
			svc.AssertExpectations(t)
		})
	}
}

func TestGetLatestLocationsControllerError(t *testing.T) {
	svc := new(svcmock.MockLocationService)
	router := newLocationsRouter(svc)

	svc.On("GetLatestLocations", mock.Anything, mock.Anything).Return([]models.Location(nil), errors.New("database is locked"))

	w := doRequest(router, http.MethodGet, "/admin/locations", "")

	assert.Equal(t, 500, w.Code)
}

func TestGetActiveUsersController(t *testing.T) {
	svc := new(svcmock.MockLocationService)
	router := newLocationsRouter(svc)

	svc.On("GetActiveUsers", mock.Anything, services.GetActiveUsersInput{}).Return([]models.ActiveUser(nil), nil)

	w := doRequest(router, http.MethodGet, "/admin/active-users", "")

	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"users":[]}`, w.Body.String())
}
