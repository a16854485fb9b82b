// Package mqtt publishes heat-pump telemetry to an MQTT broker as flat
// topics, registers each metric with Home Assistant's MQTT discovery
// protocol, and maintains the retained availability channel.
//
// The connection uses Eclipse Paho v2's [autopaho] package for
// connection management with automatic reconnection. A will message
// registered at connect time ensures the availability topic transitions
// to "offline" if the process dies without a clean shutdown; the
// graceful path publishes "offline" explicitly before disconnecting.
//
// Components that publish ([Publisher], [Discovery], [Availability])
// depend only on the narrow [Broker] interface, so tests drive them
// against an in-memory fake instead of a live connection.
package mqtt
