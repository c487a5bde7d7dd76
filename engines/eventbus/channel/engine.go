package channel

import (
	"github.com/ThreeDotsLabs/watermill/message"
	cconfig "github.com/geotrackio/geotrack/core/pkg/config"
	"github.com/geotrackio/geotrack/core/pkg/engines/eventbus"
	"github.com/sirupsen/logrus"
)

func Register() {
	eventbus.RegisterEventBusEngine(string(cconfig.Channel), func(eventBusProvider string, config interface{}, serviceId string, logger *logrus.Entry) (eventbus.EventBusEngine, error) {
		return NewChannelEngine(config, serviceId, logger)
	})
}

// ChannelEngine keeps events inside the process. Publisher and subscriber
// share the same gochannel, so it only fits single-instance deployments.
type ChannelEngine struct {
	logger     *logrus.Entry
	serviceID  string
	subscriber message.Subscriber
	publisher  message.Publisher
}

func NewChannelEngine(conf interface{}, serviceId string, logger *logrus.Entry) (eventbus.EventBusEngine, error) {
	channelConf, err := cconfig.DecodeStruct[ChannelConfig](conf)
	if err != nil {
		logger.Errorf("could not decode channel event bus config: %s", err)
		return nil, err
	}

	pub, sub := NewGoChannelPubSub(channelConf, logger)

	return &ChannelEngine{
		logger:     logger,
		serviceID:  serviceId,
		publisher:  pub,
		subscriber: sub,
	}, nil
}

func (e *ChannelEngine) Subscriber() (message.Subscriber, error) {
	return e.subscriber, nil
}

func (e *ChannelEngine) Publisher() (message.Publisher, error) {
	return e.publisher, nil
}
