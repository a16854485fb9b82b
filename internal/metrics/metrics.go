// Package metrics defines the fixed table of heat-pump metrics the
// bridge republishes: for each metric, the extraction path into the
// regParams document, the Home Assistant discovery metadata, and the
// payload rendering rules.
package metrics

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/nugget/econet-bridge/internal/econet"
)

// Spec describes one published metric. Name doubles as the state topic
// suffix and must be unique across the table.
type Spec struct {
	Name      string
	Path      econet.Path
	Discovery Meta
}

// Meta is the Home Assistant discovery metadata for a metric.
type Meta struct {
	DisplayName string
	DeviceClass string
	StateClass  string
	Unit        string
	Icon        string
	Options     []string
	PayloadOn   string
	PayloadOff  string
}

// Component returns the HA discovery component kind: "binary_sensor"
// for metrics declaring a running device class or an on/off payload
// pair, "sensor" otherwise.
func (m Meta) Component() string {
	if m.DeviceClass == "running" || m.PayloadOn != "" {
		return "binary_sensor"
	}
	return "sensor"
}

// Transform converts a default-rendered payload into its wire form.
// Transforms are keyed by metric name; most metrics have none.
type Transform func(s string) string

var transforms = map[string]Transform{
	"three_way_valve_state": decodeValveState,
}

// decodeValveState maps the controller's numeric valve codes onto the
// circuit they select. Unknown codes pass through verbatim.
func decodeValveState(s string) string {
	switch s {
	case "0":
		return "CH"
	case "3":
		return "DHW"
	default:
		return s
	}
}

// Render produces the wire payload string for a metric's extracted
// value. The default rendering keeps the value's natural textual form
// (json.Number verbatim, so no float re-formatting); a per-metric
// transform, when registered, is applied on top. Render is pure: the
// same (name, value) pair always yields the same string.
func Render(name string, value any) string {
	s := renderScalar(value)
	if t, ok := transforms[name]; ok {
		return t(s)
	}
	return s
}

func renderScalar(v any) string {
	switch t := v.(type) {
	case json.Number:
		return t.String()
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		// Documents decoded without UseNumber land here.
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
