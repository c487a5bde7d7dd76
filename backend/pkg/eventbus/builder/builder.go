package builder

import (
	"github.com/geotrackio/geotrack/core/pkg/engines/eventbus"
	"github.com/geotrackio/geotrack/engines/eventbus/amqp"
	"github.com/geotrackio/geotrack/engines/eventbus/channel"
	"github.com/sirupsen/logrus"
)

func BuildEventBusEngine(provider string, config interface{}, serviceId string, logger *logrus.Entry) (eventbus.EventBusEngine, error) {
	return eventbus.GetEventBusEngine(provider, config, serviceId, logger)
}

func init() {
	amqp.Register()
	channel.Register()
}
