package catalog

import "strings"

// DeviceKind is the closed set of device families the editor understands.
type DeviceKind int

const (
	KindUnknown DeviceKind = iota
	KindComputer
	KindMonitor
	KindHub
	KindMouse
	KindKeyboard
)

var kindNames = map[DeviceKind]string{
	KindComputer: "computer",
	KindMonitor:  "monitor",
	KindHub:      "hub",
	KindMouse:    "mouse",
	KindKeyboard: "keyboard",
}

// ParseDeviceKind maps a catalog device type name to its kind.
func ParseDeviceKind(name string) DeviceKind {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k
		}
	}
	return KindUnknown
}

func (k DeviceKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// RequiresCatalogProduct reports whether nodes of this kind are completed by
// picking a catalog product rather than typing a free-text name.
func (k DeviceKind) RequiresCatalogProduct() bool {
	return k == KindComputer || k == KindMonitor
}

// PortCode identifies a connector family.
type PortCode string

const (
	PortHDMI        PortCode = "HDMI"
	PortDisplayPort PortCode = "DisplayPort"
	PortMiniDP      PortCode = "Mini-DP"
	PortUSBC        PortCode = "USB-C"
	PortUSBCDongle  PortCode = "USB-C-Dongle"
	PortUSBA        PortCode = "USB-A"
	PortUSBADongle  PortCode = "USB-A-Dongle"
	PortWireless    PortCode = "Wireless"
)

// PreferredPortOrder is the order port options are offered in. Wireless is
// deliberately absent: it is only ever set by the dongle rule.
var PreferredPortOrder = []PortCode{
	PortHDMI,
	PortDisplayPort,
	PortMiniDP,
	PortUSBC,
	PortUSBCDongle,
	PortUSBA,
	PortUSBADongle,
}

// Older catalog rows used short upper-case codes.
var portAliases = map[string]PortCode{
	"HDMI":         PortHDMI,
	"DP":           PortDisplayPort,
	"DISPLAYPORT":  PortDisplayPort,
	"MINIDP":       PortMiniDP,
	"MINI-DP":      PortMiniDP,
	"TYPE_C":       PortUSBC,
	"USB-C":        PortUSBC,
	"USBC":         PortUSBC,
	"USB-C-DONGLE": PortUSBCDongle,
	"TYPE_A":       PortUSBA,
	"USB-A":        PortUSBA,
	"USBA":         PortUSBA,
	"USB-A-DONGLE": PortUSBADongle,
	"WIRELESS":     PortWireless,
}

// NormalizePortCode returns the canonical code for s, or s unchanged when it
// is not a known family.
func NormalizePortCode(s string) PortCode {
	if c, ok := portAliases[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return c
	}
	return PortCode(s)
}

// IsDongle reports whether the code is a dongle variant, which implies the
// opposite end of the cable is a wireless receiver.
func (c PortCode) IsDongle() bool {
	return c == PortUSBCDongle || c == PortUSBADongle
}

func (c PortCode) IsWireless() bool {
	return c == PortWireless
}

// rank returns the position of c in PreferredPortOrder, or len(order) if absent.
func (c PortCode) rank() int {
	for i, p := range PreferredPortOrder {
		if p == c {
			return i
		}
	}
	return len(PreferredPortOrder)
}
