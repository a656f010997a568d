package models

import "time"

// DeviceType is a catalog entry naming a family of devices (computer, monitor, ...).
type DeviceType struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// PortType is a catalog entry identifying a connector family by code.
type PortType struct {
	ID   int    `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
}

type Product struct {
	ID               int       `db:"id" json:"id"`
	DeviceTypeID     int       `db:"device_type_id" json:"device_type_id"`
	Brand            string    `db:"brand" json:"brand"`
	Model            string    `db:"model" json:"model"`
	ImageURL         *string   `db:"image_url" json:"image_url,omitempty"`
	IsBuiltinDisplay bool      `db:"is_builtin_display" json:"is_builtin_display"`
	Created          time.Time `db:"created_at" json:"created_at"`
}

// GetDisplayName returns the "{brand} {model}" label used wherever a product is rendered.
func (p *Product) GetDisplayName() string {
	return p.Brand + " " + p.Model
}

// CatalogData is the full reference catalog as served by GET /api/catalog.
type CatalogData struct {
	DeviceTypes []DeviceType `json:"device_types"`
	PortTypes   []PortType   `json:"port_types"`
	Products    []Product    `json:"products"`
}
