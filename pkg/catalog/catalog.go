package catalog

import (
	"sort"
	"strings"

	"github.com/restynation/buythatworks/pkg/models"
)

// DeviceType is a catalog device type with its kind resolved once at load time.
type DeviceType struct {
	models.DeviceType
	Kind DeviceKind
}

// RequiresCatalogProduct is shorthand for Kind.RequiresCatalogProduct.
func (d DeviceType) RequiresCatalogProduct() bool {
	return d.Kind.RequiresCatalogProduct()
}

// PortType is a catalog port type with a normalized code.
type PortType struct {
	models.PortType
	Normalized PortCode
}

// Catalog is the read-only reference data for one editing session.
type Catalog struct {
	deviceTypes []DeviceType
	portTypes   []PortType
	products    []models.Product

	deviceByID  map[int]DeviceType
	portByID    map[int]PortType
	productByID map[int]models.Product
}

// New indexes the given reference data. Products keep the order they are
// passed in; the store returns them sorted by brand and model.
func New(data models.CatalogData) *Catalog {
	c := &Catalog{
		deviceByID:  make(map[int]DeviceType, len(data.DeviceTypes)),
		portByID:    make(map[int]PortType, len(data.PortTypes)),
		productByID: make(map[int]models.Product, len(data.Products)),
	}
	for _, dt := range data.DeviceTypes {
		t := DeviceType{DeviceType: dt, Kind: ParseDeviceKind(dt.Name)}
		c.deviceTypes = append(c.deviceTypes, t)
		c.deviceByID[dt.ID] = t
	}
	for _, pt := range data.PortTypes {
		p := PortType{PortType: pt, Normalized: NormalizePortCode(pt.Code)}
		c.portTypes = append(c.portTypes, p)
		c.portByID[pt.ID] = p
	}
	for _, p := range data.Products {
		c.products = append(c.products, p)
		c.productByID[p.ID] = p
	}
	return c
}

// Data returns the catalog in its wire form.
func (c *Catalog) Data() models.CatalogData {
	data := models.CatalogData{
		DeviceTypes: make([]models.DeviceType, 0, len(c.deviceTypes)),
		PortTypes:   make([]models.PortType, 0, len(c.portTypes)),
		Products:    append([]models.Product{}, c.products...),
	}
	for _, dt := range c.deviceTypes {
		data.DeviceTypes = append(data.DeviceTypes, dt.DeviceType)
	}
	for _, pt := range c.portTypes {
		data.PortTypes = append(data.PortTypes, pt.PortType)
	}
	return data
}

// IsEmpty reports whether the catalog offers nothing to build with.
func (c *Catalog) IsEmpty() bool {
	return len(c.deviceTypes) == 0
}

func (c *Catalog) DeviceTypes() []DeviceType {
	return append([]DeviceType{}, c.deviceTypes...)
}

func (c *Catalog) DeviceType(id int) (DeviceType, bool) {
	dt, ok := c.deviceByID[id]
	return dt, ok
}

// DeviceTypeByKind returns the first device type of the given kind.
func (c *Catalog) DeviceTypeByKind(kind DeviceKind) (DeviceType, bool) {
	for _, dt := range c.deviceTypes {
		if dt.Kind == kind {
			return dt, true
		}
	}
	return DeviceType{}, false
}

func (c *Catalog) PortTypes() []PortType {
	return append([]PortType{}, c.portTypes...)
}

func (c *Catalog) PortType(id int) (PortType, bool) {
	pt, ok := c.portByID[id]
	return pt, ok
}

func (c *Catalog) PortTypeByCode(code PortCode) (PortType, bool) {
	for _, pt := range c.portTypes {
		if pt.Normalized == code {
			return pt, true
		}
	}
	return PortType{}, false
}

// SelectablePortTypes returns the port types a user may pick for a cable end:
// everything except Wireless, in PreferredPortOrder. Codes outside that order
// follow, sorted by id.
func (c *Catalog) SelectablePortTypes() []PortType {
	out := make([]PortType, 0, len(c.portTypes))
	for _, pt := range c.portTypes {
		if pt.Normalized.IsWireless() {
			continue
		}
		out = append(out, pt)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Normalized.rank(), out[j].Normalized.rank()
		if ri != rj {
			return ri < rj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (c *Catalog) Product(id int) (models.Product, bool) {
	p, ok := c.productByID[id]
	return p, ok
}

// ProductsFor returns the products of one device type.
func (c *Catalog) ProductsFor(deviceTypeID int) []models.Product {
	var out []models.Product
	for _, p := range c.products {
		if p.DeviceTypeID == deviceTypeID {
			out = append(out, p)
		}
	}
	return out
}

// SearchProducts returns the products of one device type whose brand, model
// or "brand model" contains the query, ignoring case. An empty query matches all.
func (c *Catalog) SearchProducts(deviceTypeID int, query string) []models.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.Product
	for _, p := range c.ProductsFor(deviceTypeID) {
		if q == "" || matchesProduct(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func matchesProduct(p models.Product, q string) bool {
	brand := strings.ToLower(p.Brand)
	model := strings.ToLower(p.Model)
	return strings.Contains(brand, q) ||
		strings.Contains(model, q) ||
		strings.Contains(brand+" "+model, q)
}
