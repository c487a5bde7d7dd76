package amqp

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/ThreeDotsLabs/watermill-amqp/v2/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/geotrackio/geotrack/core/pkg/engines/eventbus"
	"github.com/geotrackio/geotrack/engines/eventbus/amqp/config"
	"github.com/sirupsen/logrus"
)

func connectionURI(conf config.AMQPConnection) string {
	userInfo := ""
	if conf.BasicAuth.Enabled {
		userInfo = fmt.Sprintf("%s:%s@", url.PathEscape(conf.BasicAuth.Username), url.PathEscape(string(conf.BasicAuth.Password)))
	}

	return fmt.Sprintf("%s://%s%s:%d", conf.Protocol, userInfo, conf.Hostname, conf.Port)
}

func tlsConfig(conf config.AMQPConnection, logger *logrus.Entry) (*tls.Config, error) {
	certPool, err := x509.SystemCertPool()
	if err != nil {
		certPool = x509.NewCertPool()
	}

	if conf.CACertificateFile != "" {
		caPEM, err := os.ReadFile(conf.CACertificateFile)
		if err != nil {
			return nil, fmt.Errorf("could not read AMQP CA certificate: %w", err)
		}

		if !certPool.AppendCertsFromPEM(caPEM) {
			return nil, fmt.Errorf("no certificates found in %s", conf.CACertificateFile)
		}
	}

	amqpTlsConfig := &tls.Config{RootCAs: certPool}
	if conf.InsecureSkipVerify {
		logger.Debugf("tls InsecureSkipVerify set")
		amqpTlsConfig.InsecureSkipVerify = true
	}

	if conf.ClientTLSAuth.Enabled {
		logger.Debugf("tls loading mTLS client auth")
		clientTLSCerts, err := tls.LoadX509KeyPair(conf.ClientTLSAuth.CertFile, conf.ClientTLSAuth.KeyFile)
		if err != nil {
			logger.Errorf("could not load AMQP client TLS certificate or key: %s", err)
			return nil, err
		}

		amqpTlsConfig.Certificates = append(amqpTlsConfig.Certificates, clientTLSCerts)
	}

	return amqpTlsConfig, nil
}

// amqpConfig declares one durable queue per service bound to a topic
// exchange, so each service receives every event once.
func amqpConfig(conf config.AMQPConnection, serviceID string, logger *logrus.Entry) (*amqp.Config, error) {
	amqpConfig := amqp.NewDurablePubSubConfig(connectionURI(conf), amqp.GenerateQueueNameTopicNameWithSuffix(serviceID))

	if conf.Protocol == config.AMQPS {
		tlsConf, err := tlsConfig(conf, logger)
		if err != nil {
			return nil, err
		}
		amqpConfig.Connection.TLSConfig = tlsConf
	}

	exchange := conf.Exchange
	if exchange == "" {
		exchange = config.DefaultExchange
	}

	amqpConfig.Exchange = amqp.ExchangeConfig{
		GenerateName: func(topic string) string {
			return exchange
		},
		Type:    "topic",
		Durable: true,
	}

	amqpConfig.QueueBind = amqp.QueueBindConfig{
		GenerateRoutingKey: func(topic string) string {
			return strings.TrimSuffix(topic, "_"+serviceID)
		},
	}

	amqpConfig.Publish = amqp.PublishConfig{
		GenerateRoutingKey: func(topic string) string {
			return topic
		},
	}

	return &amqpConfig, nil
}

func NewAMQPPub(conf config.AMQPConnection, serviceID string, logger *logrus.Entry) (message.Publisher, error) {
	amqpConfig, err := amqpConfig(conf, serviceID, logger)
	if err != nil {
		return nil, err
	}

	lEventBusPub := eventbus.NewLoggerAdapter(logger.WithField("subsystem-provider", "AMQP - Publisher"))
	publisher, err := amqp.NewPublisher(*amqpConfig, lEventBusPub)
	if err != nil {
		return nil, fmt.Errorf("could not create publisher: %w", err)
	}

	return publisher, nil
}

func NewAMQPSub(conf config.AMQPConnection, serviceID string, logger *logrus.Entry) (message.Subscriber, error) {
	amqpConfig, err := amqpConfig(conf, serviceID, logger)
	if err != nil {
		return nil, err
	}

	lEventBusSub := eventbus.NewLoggerAdapter(logger.WithField("subsystem-provider", "AMQP - Subscriber"))
	subscriber, err := amqp.NewSubscriber(*amqpConfig, lEventBusSub)
	if err != nil {
		return nil, fmt.Errorf("could not create subscriber: %w", err)
	}

	return subscriber, nil
}
