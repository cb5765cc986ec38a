package collector

// Device selects the emulated device profile for a mission.
type Device string

const (
	DeviceDesktop Device = "desktop"
	DeviceMobile  Device = "mobile"
	DeviceTablet  Device = "tablet"
)

// ParseDevice maps a raw string to a Device. Unknown values resolve to
// desktop — the API surface only admits the three enum values, this is
// the safe default for the looser MCP and config paths.
func ParseDevice(s string) Device {
	switch Device(s) {
	case DeviceMobile:
		return DeviceMobile
	case DeviceTablet:
		return DeviceTablet
	default:
		return DeviceDesktop
	}
}

// viewport describes the emulation parameters for a device profile.
type viewport struct {
	width  int
	height int
	scale  float64
	mobile bool
}

func (d Device) viewport() viewport {
	switch d {
	case DeviceMobile:
		return viewport{width: 390, height: 844, scale: 3, mobile: true}
	case DeviceTablet:
		return viewport{width: 820, height: 1180, scale: 2, mobile: true}
	default:
		return viewport{width: 1920, height: 1080, scale: 1, mobile: false}
	}
}
