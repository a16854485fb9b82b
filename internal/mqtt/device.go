package mqtt

import "github.com/nugget/econet-bridge/internal/buildinfo"

// deviceID is the fixed Home Assistant device identifier shared by
// every entity this bridge registers. It is deliberately stable so HA
// entity history survives restarts and renames of the display name.
const deviceID = "econet_mqtt_publisher"

// DeviceInfo holds the HA device registry fields shared across all
// discovery payloads. Every entity references the same device block so
// HA groups the metrics under a single device page.
type DeviceInfo struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Model        string   `json:"model"`
	Manufacturer string   `json:"manufacturer"`
	ViaDevice    string   `json:"via_device,omitempty"`
	SWVersion    string   `json:"sw_version,omitempty"`
}

// NewDeviceInfo creates the shared device descriptor. displayName is
// the user-facing name from configuration; identity fields are fixed.
func NewDeviceInfo(displayName string) DeviceInfo {
	return DeviceInfo{
		Identifiers:  []string{deviceID},
		Name:         displayName,
		Model:        "Heat Pump Controller",
		Manufacturer: "Econet",
		ViaDevice:    deviceID,
		SWVersion:    buildinfo.Version,
	}
}

// SensorConfig is the JSON payload for an HA MQTT discovery message,
// published retained to homeassistant/{component}/{unique_id}/config.
// Field presence follows the HA schema: expire_after only applies to
// "sensor" components, payload_on/payload_off only to binary sensors,
// and options only to enum-class sensors.
type SensorConfig struct {
	Name                string     `json:"name"`
	UniqueID            string     `json:"unique_id"`
	StateTopic          string     `json:"state_topic"`
	Device              DeviceInfo `json:"device"`
	Icon                string     `json:"icon"`
	AvailabilityTopic   string     `json:"availability_topic"`
	PayloadAvailable    string     `json:"payload_available"`
	PayloadNotAvailable string     `json:"payload_not_available"`
	ExpireAfter         int        `json:"expire_after,omitempty"`
	DeviceClass         string     `json:"device_class,omitempty"`
	UnitOfMeasurement   string     `json:"unit_of_measurement,omitempty"`
	StateClass          string     `json:"state_class,omitempty"`
	PayloadOn           string     `json:"payload_on,omitempty"`
	PayloadOff          string     `json:"payload_off,omitempty"`
	Options             []string   `json:"options,omitempty"`
}
