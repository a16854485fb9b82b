package mqtt

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nugget/econet-bridge/internal/metrics"
)

// discoveryPrefix is the HA discovery topic root. HA's default; the
// state topic prefix is configurable but this one is part of the
// discovery protocol contract.
const discoveryPrefix = "homeassistant"

// Discovery publishes one retained HA registration message per metric,
// derived from the metric table. It runs once at startup, after the
// broker connection is up and before the first poll cycle, so the
// registrations exist before state values arrive.
type Discovery struct {
	broker            Broker
	table             []metrics.Spec
	device            DeviceInfo
	topicPrefix       string
	availabilityTopic string
	expireAfterSec    int
	logger            *slog.Logger
}

// NewDiscovery creates a Discovery publisher. expireAfterSec is the
// expiry window applied to "sensor" components (typically a small
// multiple of the poll interval); binary sensors are never time-expired
// — the availability channel covers stale state for them.
func NewDiscovery(broker Broker, table []metrics.Spec, device DeviceInfo, topicPrefix, availabilityTopic string, expireAfterSec int, logger *slog.Logger) *Discovery {
	return &Discovery{
		broker:            broker,
		table:             table,
		device:            device,
		topicPrefix:       topicPrefix,
		availabilityTopic: availabilityTopic,
		expireAfterSec:    expireAfterSec,
		logger:            logger,
	}
}

// PublishAll registers every metric. A failure on one registration is
// logged and does not block the remaining metrics.
func (d *Discovery) PublishAll(ctx context.Context) {
	d.logger.Info("publishing discovery registrations", "metrics", len(d.table))

	for _, spec := range d.table {
		component := spec.Discovery.Component()
		cfg := d.sensorConfig(spec, component)
		topic := discoveryPrefix + "/" + component + "/" + cfg.UniqueID + "/config"

		payload, err := json.Marshal(cfg)
		if err != nil {
			d.logger.Error("discovery payload marshal failed", "metric", spec.Name, "error", err)
			continue
		}

		if err := d.broker.Publish(ctx, topic, payload, true); err != nil {
			d.logger.Error("discovery publish failed",
				"metric", spec.Name, "topic", topic, "error", err)
			continue
		}
		d.logger.Debug("discovery published", "metric", spec.Name, "topic", topic)
	}

	d.logger.Info("discovery registrations published")
}

// sensorConfig builds the discovery payload for one metric.
func (d *Discovery) sensorConfig(spec metrics.Spec, component string) SensorConfig {
	m := spec.Discovery

	icon := m.Icon
	if icon == "" {
		icon = "mdi:gauge"
	}

	cfg := SensorConfig{
		Name:                m.DisplayName,
		UniqueID:            "econet_" + spec.Name,
		StateTopic:          d.topicPrefix + spec.Name,
		Device:              d.device,
		Icon:                icon,
		AvailabilityTopic:   d.availabilityTopic,
		PayloadAvailable:    PayloadOnline,
		PayloadNotAvailable: PayloadOffline,
		DeviceClass:         m.DeviceClass,
		UnitOfMeasurement:   m.Unit,
		StateClass:          m.StateClass,
	}

	if component == "sensor" {
		cfg.ExpireAfter = d.expireAfterSec
	} else {
		cfg.PayloadOn = m.PayloadOn
		cfg.PayloadOff = m.PayloadOff
	}

	if m.DeviceClass == "enum" {
		cfg.Options = m.Options
	}

	return cfg
}
