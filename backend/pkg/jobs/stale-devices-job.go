package jobs

import (
	"sort"
	"time"

	"github.com/geotrackio/geotrack/core/pkg/helpers"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/geotrackio/geotrack/core/pkg/services"
	"github.com/sirupsen/logrus"
)

// StaleDevicesReport logs the devices that stopped contacting the server.
// Stale devices are only reported: expiring them is an administrative action.
type StaleDevicesReport struct {
	logger     *logrus.Entry
	service    services.TrackingService
	staleAfter time.Duration
	now        func() time.Time
}

func NewStaleDevicesReportJob(service services.TrackingService, staleAfter time.Duration, logger *logrus.Entry) *StaleDevicesReport {
	return &StaleDevicesReport{
		service:    service,
		staleAfter: staleAfter,
		logger:     logger,
		now:        time.Now,
	}
}

func (job *StaleDevicesReport) Run() {
	job.Report()
}

// Report returns the live sessions whose last contact is older than the stale
// threshold, oldest first.
func (job *StaleDevicesReport) Report() []models.DeviceSession {
	ctx := helpers.InitContext()
	lFunc := helpers.ConfigureLogger(ctx, job.logger)

	devices, err := job.service.GetDevices(ctx)
	if err != nil {
		lFunc.Errorf("could not list devices: %s", err)
		return nil
	}

	now := job.now()
	stale := []models.DeviceSession{}
	for _, device := range devices {
		if now.Sub(device.LastSeen) > job.staleAfter {
			stale = append(stale, device)
		}
	}

	sort.Slice(stale, func(i, j int) bool {
		return stale[i].LastSeen.Before(stale[j].LastSeen)
	})

	for _, device := range stale {
		lFunc.Warnf("device %s of user %s has not been seen for %s", device.DeviceID, device.OwnerUsername, now.Sub(device.LastSeen).Truncate(time.Second))
	}

	lFunc.Debugf("%d of %d devices are stale", len(stale), len(devices))
	return stale
}
