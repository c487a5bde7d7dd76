package metrics

import (
	"github.com/geotrackio/geotrack/core/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "geotrack"

// Collector is a prometheus.Collector exposing the live tracking state: stream
// subscribers, queued commands, ingested locations and registered devices.
type Collector struct {
	streamSubscribers prometheus.Gauge
	streamEvents      *prometheus.CounterVec
	streamEvictions   prometheus.Counter
	commandsEnqueued  *prometheus.CounterVec
	locationsIngested prometheus.Counter
	registeredDevices prometheus.Gauge
}

func NewCollector() *Collector {
	return &Collector{
		streamSubscribers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "stream_subscribers",
				Help:      "The number of consoles subscribed to the event stream.",
			},
		),
		streamEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "stream_events_total",
				Help:      "The number of events published to the event stream.",
			}, []string{"type"},
		),
		streamEvictions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "stream_evictions_total",
				Help:      "The number of subscribers evicted after a failed delivery.",
			},
		),
		commandsEnqueued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "commands_enqueued_total",
				Help:      "The number of commands queued for devices.",
			}, []string{"action"},
		),
		locationsIngested: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "locations_ingested_total",
				Help:      "The number of location fixes stored.",
			},
		),
		registeredDevices: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "registered_devices",
				Help:      "The number of devices with a live session.",
			},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.streamSubscribers.Describe(ch)
	c.streamEvents.Describe(ch)
	c.streamEvictions.Describe(ch)
	c.commandsEnqueued.Describe(ch)
	c.locationsIngested.Describe(ch)
	c.registeredDevices.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.streamSubscribers.Collect(ch)
	c.streamEvents.Collect(ch)
	c.streamEvictions.Collect(ch)
	c.commandsEnqueued.Collect(ch)
	c.locationsIngested.Collect(ch)
	c.registeredDevices.Collect(ch)
}

func (c *Collector) SubscribersChanged(count int) {
	c.streamSubscribers.Set(float64(count))
}

func (c *Collector) EventPublished(eventType models.StreamEventType) {
	c.streamEvents.WithLabelValues(string(eventType)).Inc()
}

func (c *Collector) SubscriberEvicted() {
	c.streamEvictions.Inc()
}

func (c *Collector) CommandEnqueued(action models.CommandAction) {
	c.commandsEnqueued.WithLabelValues(string(action)).Inc()
}

func (c *Collector) LocationIngested() {
	c.locationsIngested.Inc()
}

func (c *Collector) DevicesChanged(count int) {
	c.registeredDevices.Set(float64(count))
}
