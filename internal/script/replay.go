package script

import (
	"fmt"
	"strings"

	"github.com/restynation/buythatworks/pkg/catalog"
	"github.com/restynation/buythatworks/pkg/editor"
	"github.com/restynation/buythatworks/pkg/graph"
	"github.com/restynation/buythatworks/pkg/models"
)

// Replay builds the script's devices and cables on c. The first computer in
// the script takes over the canvas's seeded computer. It returns the node id
// given to each script device.
func Replay(c *editor.Canvas, s *Script) (map[string]graph.NodeID, error) {
	cat := c.Catalog()
	ids := make(map[string]graph.NodeID, len(s.Devices))
	seeded, haveSeed := c.Graph().Computer()

	for _, d := range s.Devices {
		dt, ok := lookupDeviceType(cat, d.Type)
		if !ok {
			return ids, fmt.Errorf("device %q: unknown type %q", d.ID, d.Type)
		}

		var id graph.NodeID
		if dt.Kind == catalog.KindComputer && haveSeed {
			id = seeded.ID
			haveSeed = false
			if _, err := c.Dispatch(editor.MoveNode{NodeID: id, Position: d.At}); err != nil {
				return ids, err
			}
		} else {
			out, err := c.Dispatch(editor.AddNode{DeviceTypeID: dt.ID, Position: d.At})
			if err != nil {
				return ids, fmt.Errorf("device %q: %w", d.ID, err)
			}
			id = out.NodeID
		}
		ids[d.ID] = id

		if err := assign(c, id, d); err != nil {
			return ids, fmt.Errorf("device %q: %w", d.ID, err)
		}
	}

	for i, conn := range s.Connections {
		out, err := c.Connect(ids[conn.From], conn.FromHandle, ids[conn.To], conn.ToHandle)
		if err != nil {
			return ids, fmt.Errorf("connection %d: %w", i+1, err)
		}
		if !out.Applied {
			return ids, fmt.Errorf("connection %d from %q to %q was refused", i+1, conn.From, conn.To)
		}
		ee, err := editor.NewEdgeEditor(c, out.EdgeID)
		if err != nil {
			return ids, err
		}
		for _, p := range []struct {
			end  editor.End
			code string
		}{{editor.SourceEnd, conn.SourcePort}, {editor.TargetEnd, conn.TargetPort}} {
			if p.code == "" || ee.State() == editor.Completed {
				continue
			}
			pt, ok := cat.PortTypeByCode(catalog.NormalizePortCode(p.code))
			if !ok {
				return ids, fmt.Errorf("connection %d: unknown port %q", i+1, p.code)
			}
			if err := ee.SelectPort(p.end, pt.ID); err != nil {
				return ids, fmt.Errorf("connection %d: %w", i+1, err)
			}
		}
	}
	return ids, nil
}

func lookupDeviceType(cat *catalog.Catalog, name string) (catalog.DeviceType, bool) {
	kind := catalog.ParseDeviceKind(name)
	if kind != catalog.KindUnknown {
		return cat.DeviceTypeByKind(kind)
	}
	for _, dt := range cat.DeviceTypes() {
		if strings.EqualFold(dt.Name, name) {
			return dt, true
		}
	}
	return catalog.DeviceType{}, false
}

func assign(c *editor.Canvas, id graph.NodeID, d Device) error {
	ne, err := editor.NewNodeEditor(c, id)
	if err != nil {
		return err
	}
	switch ne.Mode() {
	case editor.ProductPicker:
		if d.ProductID == 0 && d.Product == "" {
			return nil
		}
		productID := d.ProductID
		if productID == 0 {
			p, err := findProduct(ne, d.Product)
			if err != nil {
				return err
			}
			productID = p.ID
		}
		return ne.SelectProduct(productID)
	default:
		if d.Name == "" {
			return nil
		}
		ne.SetDraft(d.Name)
		return ne.CommitName()
	}
}

// findProduct searches like the product dropdown does and prefers an exact
// "brand model" match over a single partial one.
func findProduct(ne *editor.NodeEditor, query string) (models.Product, error) {
	ne.SetQuery(query)
	defer ne.SetQuery("")
	options := ne.Options()
	for _, p := range options {
		if strings.EqualFold(p.GetDisplayName(), strings.TrimSpace(query)) {
			return p, nil
		}
	}
	switch len(options) {
	case 0:
		return models.Product{}, fmt.Errorf("no product matches %q", query)
	case 1:
		return options[0], nil
	}
	return models.Product{}, fmt.Errorf("%q matches %d products", query, len(options))
}
