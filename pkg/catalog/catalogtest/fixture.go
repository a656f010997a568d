// Package catalogtest provides a small reference catalog for tests.
package catalogtest

import (
	"github.com/restynation/buythatworks/pkg/catalog"
	"github.com/restynation/buythatworks/pkg/models"
)

const (
	ComputerTypeID = 1
	MonitorTypeID  = 2
	HubTypeID      = 3
	MouseTypeID    = 4
	KeyboardTypeID = 5
)

const (
	PortHDMI = iota + 1
	PortDisplayPort
	PortMiniDP
	PortUSBC
	PortUSBCDongle
	PortUSBA
	PortUSBADongle
	PortWireless
)

const (
	MacBookPro = iota + 1
	MacMini
	DellU2723
	LG27UK850
	StudioDisplay
)

// Data returns the fixture catalog in wire form.
func Data() models.CatalogData {
	return models.CatalogData{
		DeviceTypes: []models.DeviceType{
			{ID: ComputerTypeID, Name: "computer"},
			{ID: MonitorTypeID, Name: "monitor"},
			{ID: HubTypeID, Name: "hub"},
			{ID: MouseTypeID, Name: "mouse"},
			{ID: KeyboardTypeID, Name: "keyboard"},
		},
		// Listed out of preferred order on purpose.
		PortTypes: []models.PortType{
			{ID: PortUSBA, Code: "USB-A"},
			{ID: PortWireless, Code: "Wireless"},
			{ID: PortHDMI, Code: "HDMI"},
			{ID: PortUSBADongle, Code: "USB-A-Dongle"},
			{ID: PortDisplayPort, Code: "DisplayPort"},
			{ID: PortUSBCDongle, Code: "USB-C-Dongle"},
			{ID: PortMiniDP, Code: "Mini-DP"},
			{ID: PortUSBC, Code: "USB-C"},
		},
		Products: []models.Product{
			{ID: MacBookPro, DeviceTypeID: ComputerTypeID, Brand: "Apple", Model: "MacBook Pro 14", IsBuiltinDisplay: true},
			{ID: MacMini, DeviceTypeID: ComputerTypeID, Brand: "Apple", Model: "Mac mini"},
			{ID: DellU2723, DeviceTypeID: MonitorTypeID, Brand: "Dell", Model: "U2723QE"},
			{ID: LG27UK850, DeviceTypeID: MonitorTypeID, Brand: "LG", Model: "27UK850"},
			{ID: StudioDisplay, DeviceTypeID: MonitorTypeID, Brand: "Apple", Model: "Studio Display"},
		},
	}
}

// New returns the fixture as an indexed catalog.
func New() *catalog.Catalog {
	return catalog.New(Data())
}
