package notify

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/geotrackio/geotrack/backend/pkg/config"
	chelpers "github.com/geotrackio/geotrack/core/pkg/helpers"
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/sirupsen/logrus"
)

type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTNotifier publishes every queued command to the device command topic
// '<prefix>/devices/<device id>/commands'.
type MQTTNotifier struct {
	client      publisher
	topicPrefix string
	qos         byte
	timeout     time.Duration
	logger      *logrus.Entry
}

func NewMQTTNotifier(conf config.CommandPushConfig, logger *logrus.Entry) (*MQTTNotifier, mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(conf.Broker)
	opts.SetClientID(conf.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	if conf.Username != "" {
		opts.SetUsername(conf.Username)
		opts.SetPassword(string(conf.Password))
	}

	if strings.HasPrefix(conf.Broker, "ssl://") || strings.HasPrefix(conf.Broker, "tls://") || strings.HasPrefix(conf.Broker, "mqtts://") {
		tlsConfig, err := buildTLSConfig(conf)
		if err != nil {
			return nil, nil, err
		}
		opts.SetTLSConfig(tlsConfig)
	}

	opts.OnConnect = func(c mqtt.Client) {
		logger.Infof("connected to MQTT broker %s", conf.Broker)
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		logger.Warnf("connection to MQTT broker lost: %s", err)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(defaultPublishTimeout) {
		logger.Warnf("MQTT broker %s not reachable yet. Will keep retrying in the background", conf.Broker)
	} else if err := token.Error(); err != nil {
		logger.Errorf("could not connect to MQTT broker %s: %s", conf.Broker, err)
		return nil, nil, err
	}

	return newMQTTNotifier(client, conf, logger), client, nil
}

const defaultPublishTimeout = 5 * time.Second

func newMQTTNotifier(client publisher, conf config.CommandPushConfig, logger *logrus.Entry) *MQTTNotifier {
	timeout := conf.PublishTimeout
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}

	return &MQTTNotifier{
		client:      client,
		topicPrefix: strings.TrimSuffix(conf.TopicPrefix, "/"),
		qos:         conf.QoS,
		timeout:     timeout,
		logger:      logger,
	}
}

func (n *MQTTNotifier) CommandTopic(deviceID string) string {
	return fmt.Sprintf("%s/devices/%s/commands", n.topicPrefix, deviceID)
}

func (n *MQTTNotifier) NotifyCommand(ctx context.Context, deviceID string, command models.Command) error {
	lFunc := chelpers.ConfigureLogger(ctx, n.logger)

	payload, err := json.Marshal(command)
	if err != nil {
		return fmt.Errorf("could not encode command %s: %w", command.ID, err)
	}

	topic := n.CommandTopic(deviceID)
	token := n.client.Publish(topic, n.qos, false, payload)

	select {
	case <-token.Done():
	case <-time.After(n.timeout):
		lFunc.Warnf("publishing command %s to %s timed out after %s", command.ID, topic, n.timeout)
		return fmt.Errorf("publish to %s timed out", topic)
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := token.Error(); err != nil {
		lFunc.Warnf("could not publish command %s to %s: %s", command.ID, topic, err)
		return err
	}

	lFunc.Debugf("command %s pushed to %s", command.ID, topic)
	return nil
}

func buildTLSConfig(conf config.CommandPushConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: conf.InsecureSkipVerify,
	}

	if conf.CACertificateFile != "" {
		caPEM, err := os.ReadFile(conf.CACertificateFile)
		if err != nil {
			return nil, fmt.Errorf("could not read MQTT CA certificate: %w", err)
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, fmt.Errorf("no certificates found in %s", conf.CACertificateFile)
		}
		tlsConfig.RootCAs = pool
	}

	return tlsConfig, nil
}
