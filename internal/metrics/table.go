package metrics

import "github.com/nugget/econet-bridge/internal/econet"

// Default returns the complete metric table. The table is the sole
// source of truth for both state publishing and discovery; sweeps run
// in table order.
//
// Flat registers live under the "curr" object. Values only exposed on
// the UI tile feed are addressed through tilesParams, whose innermost
// arrays carry the value at position 0 (the terminal-array unwrap in
// [econet.Resolve] reads that slot).
func Default() []Spec {
	return []Spec{
		{
			Name: "ashp_ambient_air_temp",
			Path: econet.Path{econet.Key("curr"), econet.Key("AxenOutdoorTemp")},
			Discovery: Meta{
				DisplayName: "ASHP Ambient Air Temperature",
				DeviceClass: "temperature",
				StateClass:  "measurement",
				Unit:        "°C",
				Icon:        "mdi:thermometer",
			},
		},
		{
			Name: "ashp_circuit1_calculated_set_temp",
			Path: econet.Path{econet.Key("tilesParams"), econet.Index(29), econet.Index(0), econet.Index(0)},
			Discovery: Meta{
				DisplayName: "ASHP Circuit 1 Calculated Set Temperature",
				DeviceClass: "temperature",
				StateClass:  "measurement",
				Unit:        "°C",
				Icon:        "mdi:thermometer",
			},
		},
		{
			Name: "ashp_compressor_freq",
			Path: econet.Path{econet.Key("curr"), econet.Key("AxenCompressorFreq")},
			Discovery: Meta{
				DisplayName: "ASHP Compressor Frequency",
				DeviceClass: "frequency",
				StateClass:  "measurement",
				Unit:        "Hz",
				Icon:        "mdi:sine-wave",
			},
		},
		{
			Name: "ashp_fan_speed",
			Path: econet.Path{econet.Key("tilesParams"), econet.Index(3), econet.Index(0), econet.Index(0)},
			Discovery: Meta{
				DisplayName: "ASHP Fan Speed",
				StateClass:  "measurement",
				Unit:        "rpm",
				Icon:        "mdi:fan",
			},
		},
		{
			Name: "ashp_flow_temp",
			Path: econet.Path{econet.Key("curr"), econet.Key("AxenOutgoingTemp")},
			Discovery: Meta{
				DisplayName: "ASHP Flow Temperature",
				DeviceClass: "temperature",
				StateClass:  "measurement",
				Unit:        "°C",
				Icon:        "mdi:thermometer-chevron-up",
			},
		},
		{
			Name: "ashp_outlet_water_pressure",
			Path: econet.Path{econet.Key("tilesParams"), econet.Index(76), econet.Index(0), econet.Index(0)},
			Discovery: Meta{
				DisplayName: "ASHP Outlet Water Pressure",
				DeviceClass: "pressure",
				StateClass:  "measurement",
				Unit:        "bar",
				Icon:        "mdi:gauge",
			},
		},
		{
			Name: "ashp_pump_active",
			Path: econet.Path{econet.Key("curr"), econet.Key("AxenUpperPump")},
			Discovery: Meta{
				DisplayName: "ASHP Pump",
				DeviceClass: "running",
				StateClass:  "measurement",
				Icon:        "mdi:pump",
				PayloadOn:   "1",
				PayloadOff:  "0",
			},
		},
		{
			Name: "ashp_return_temp",
			Path: econet.Path{econet.Key("curr"), econet.Key("AxenReturnTemp")},
			Discovery: Meta{
				DisplayName: "ASHP Return Temperature",
				DeviceClass: "temperature",
				StateClass:  "measurement",
				Unit:        "°C",
				Icon:        "mdi:thermometer-chevron-down",
			},
		},
		{
			Name: "ashp_target_temp",
			Path: econet.Path{econet.Key("curr"), econet.Key("HeatSourceCalcPresetTemp")},
			Discovery: Meta{
				DisplayName: "ASHP Target Temperature",
				DeviceClass: "temperature",
				StateClass:  "measurement",
				Unit:        "°C",
				Icon:        "mdi:thermometer",
			},
		},
		{
			Name: "ashp_work_state",
			Path: econet.Path{econet.Key("curr"), econet.Key("AxenWorkState")},
			Discovery: Meta{
				DisplayName: "ASHP Work State",
				DeviceClass: "running",
				StateClass:  "measurement",
				Icon:        "mdi:state-machine",
				PayloadOn:   "1",
				PayloadOff:  "0",
			},
		},
		{
			Name: "circuit1_thermostat",
			Path: econet.Path{econet.Key("curr"), econet.Key("Circuit1thermostat")},
			Discovery: Meta{
				DisplayName: "Circuit 1 Thermostat Temperature",
				DeviceClass: "temperature",
				StateClass:  "measurement",
				Unit:        "°C",
				Icon:        "mdi:thermostat",
			},
		},
		{
			Name: "dhw_temp",
			Path: econet.Path{econet.Key("curr"), econet.Key("TempCWU")},
			Discovery: Meta{
				DisplayName: "Cylinder Temperature",
				DeviceClass: "temperature",
				StateClass:  "measurement",
				Unit:        "°C",
				Icon:        "mdi:water-thermometer",
			},
		},
		{
			Name: "outdoor_temp",
			Path: econet.Path{econet.Key("curr"), econet.Key("TempWthr")},
			Discovery: Meta{
				DisplayName: "Outdoor Sensor Temperature",
				DeviceClass: "temperature",
				StateClass:  "measurement",
				Unit:        "°C",
				Icon:        "mdi:thermometer",
			},
		},
		{
			Name: "three_way_valve_state",
			Path: econet.Path{econet.Key("curr"), econet.Key("flapValveStates")},
			Discovery: Meta{
				DisplayName: "Three Way Valve State",
				DeviceClass: "enum",
				Icon:        "mdi:valve",
				Options:     []string{"CH", "DHW"},
			},
		},
	}
}
