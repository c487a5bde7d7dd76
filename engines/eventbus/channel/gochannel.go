package channel

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/geotrackio/geotrack/core/pkg/engines/eventbus"
	"github.com/sirupsen/logrus"
)

type ChannelConfig struct {
	OutputChannelBuffer int64 `mapstructure:"output_channel_buffer"`
	// Persistent replays past messages to late subscribers.
	Persistent bool `mapstructure:"persistent"`
}

func NewGoChannelPubSub(conf ChannelConfig, logger *logrus.Entry) (message.Publisher, message.Subscriber) {
	lEventBus := eventbus.NewLoggerAdapter(logger.WithField("subsystem-provider", "GoChannel - PubSub"))
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: conf.OutputChannelBuffer,
		Persistent:          conf.Persistent,
	}, lEventBus)

	return pubSub, pubSub
}
