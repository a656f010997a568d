package graph

import (
	"strings"

	"github.com/restynation/buythatworks/pkg/catalog"
)

type NodeID string

type EdgeID string

// Position is a point in canvas space. For nodes it is the node center.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Assignment is what completes a node: a catalog product, a free-text label,
// or nothing yet. At most one of ProductID and Label is set.
type Assignment struct {
	ProductID int    `json:"product_id,omitempty"`
	Label     string `json:"label,omitempty"`
}

type AssignmentKind int

const (
	Unassigned AssignmentKind = iota
	ProductAssigned
	CustomNamed
)

func ProductAssignment(productID int) Assignment {
	return Assignment{ProductID: productID}
}

func CustomNameAssignment(label string) Assignment {
	return Assignment{Label: label}
}

// Kind classifies the assignment. A blank label counts as unassigned.
func (a Assignment) Kind() AssignmentKind {
	switch {
	case a.ProductID > 0:
		return ProductAssigned
	case strings.TrimSpace(a.Label) != "":
		return CustomNamed
	default:
		return Unassigned
	}
}

// normalized drops whichever field the assignment's kind does not use, so
// switching between product and custom name clears the other.
func (a Assignment) normalized() Assignment {
	switch a.Kind() {
	case ProductAssigned:
		return Assignment{ProductID: a.ProductID}
	case CustomNamed:
		return Assignment{Label: a.Label}
	default:
		return Assignment{}
	}
}

// DeviceNode is one device placed on the canvas.
type DeviceNode struct {
	ID           NodeID             `json:"id"`
	DeviceTypeID int                `json:"device_type_id"`
	Kind         catalog.DeviceKind `json:"-"`
	Position     Position           `json:"position"`
	Assignment   Assignment         `json:"assignment"`
}

func (n DeviceNode) IsComputer() bool {
	return n.Kind == catalog.KindComputer
}

// ConnectionEdge is a cable between two node handles. Port type ids are 0
// until chosen; Completed is set once both are chosen.
type ConnectionEdge struct {
	ID               EdgeID `json:"id"`
	Source           NodeID `json:"source"`
	Target           NodeID `json:"target"`
	SourceHandle     Handle `json:"source_handle"`
	TargetHandle     Handle `json:"target_handle"`
	SourcePortTypeID int    `json:"source_port_type_id,omitempty"`
	TargetPortTypeID int    `json:"target_port_type_id,omitempty"`
	Completed        bool   `json:"completed"`
}

// Touches reports whether id is one of the edge's endpoints.
func (e ConnectionEdge) Touches(id NodeID) bool {
	return e.Source == id || e.Target == id
}

// PortPatch selects port types for one or both cable ends. Nil leaves an end alone.
type PortPatch struct {
	Source *int
	Target *int
}
