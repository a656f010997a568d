// Package graph holds the device nodes and cable edges of one setup being
// edited, and enforces the structural rules every mutation must keep.
package graph

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rs/xid"

	"github.com/restynation/buythatworks/pkg/catalog"
)

var (
	ErrUnknownDeviceType = errors.New("unknown device type")
	ErrNoComputerType    = errors.New("catalog has no computer device type")
)

// Graph is the nodes and edges of one setup-in-progress. It is owned by a
// single editing session and is not safe for concurrent use.
type Graph struct {
	catalog *catalog.Catalog
	nodes   []DeviceNode
	edges   []ConnectionEdge
	newID   func(prefix string) string
	log     *slog.Logger
}

type Option func(*Graph)

// WithIDGenerator replaces the xid-based id generator.
func WithIDGenerator(fn func(prefix string) string) Option {
	return func(g *Graph) {
		g.newID = fn
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) {
		g.log = l
	}
}

// New returns an empty graph. Most callers want a session from the editor
// package, which seeds the computer node.
func New(cat *catalog.Catalog, opts ...Option) *Graph {
	g := &Graph{
		catalog: cat,
		newID: func(prefix string) string {
			return prefix + "-" + xid.New().String()
		},
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Graph) Catalog() *catalog.Catalog {
	return g.catalog
}

// Nodes returns a copy of the nodes in insertion order.
func (g *Graph) Nodes() []DeviceNode {
	return append([]DeviceNode{}, g.nodes...)
}

// Edges returns a copy of the edges in insertion order.
func (g *Graph) Edges() []ConnectionEdge {
	return append([]ConnectionEdge{}, g.edges...)
}

func (g *Graph) Node(id NodeID) (DeviceNode, bool) {
	if i := g.nodeIndex(id); i >= 0 {
		return g.nodes[i], true
	}
	return DeviceNode{}, false
}

func (g *Graph) Edge(id EdgeID) (ConnectionEdge, bool) {
	if i := g.edgeIndex(id); i >= 0 {
		return g.edges[i], true
	}
	return ConnectionEdge{}, false
}

func (g *Graph) nodeIndex(id NodeID) int {
	for i := range g.nodes {
		if g.nodes[i].ID == id {
			return i
		}
	}
	return -1
}

func (g *Graph) edgeIndex(id EdgeID) int {
	for i := range g.edges {
		if g.edges[i].ID == id {
			return i
		}
	}
	return -1
}

// ComputerCount returns the number of computer nodes.
func (g *Graph) ComputerCount() int {
	n := 0
	for _, node := range g.nodes {
		if node.IsComputer() {
			n++
		}
	}
	return n
}

// Computer returns the first computer node.
func (g *Graph) Computer() (DeviceNode, bool) {
	for _, node := range g.nodes {
		if node.IsComputer() {
			return node, true
		}
	}
	return DeviceNode{}, false
}

// CanRemoveNode reports whether removing id would keep at least one computer.
func (g *Graph) CanRemoveNode(id NodeID) bool {
	node, ok := g.Node(id)
	if !ok {
		return false
	}
	return !node.IsComputer() || g.ComputerCount() > 1
}

// Degree returns the number of edges touching id.
func (g *Graph) Degree(id NodeID) int {
	n := 0
	for _, e := range g.edges {
		if e.Touches(id) {
			n++
		}
	}
	return n
}

// AddNode places a new unassigned node of the given device type.
func (g *Graph) AddNode(deviceTypeID int, pos Position) (DeviceNode, error) {
	dt, ok := g.catalog.DeviceType(deviceTypeID)
	if !ok {
		return DeviceNode{}, fmt.Errorf("%w: %d", ErrUnknownDeviceType, deviceTypeID)
	}
	node := DeviceNode{
		ID:           NodeID(g.newID("node")),
		DeviceTypeID: dt.ID,
		Kind:         dt.Kind,
		Position:     pos,
	}
	g.nodes = append(g.nodes, node)
	g.log.Debug("node added", "node_id", node.ID, "device_type", dt.Kind)
	return node, nil
}

// SeedComputer adds the initial computer node at pos.
func (g *Graph) SeedComputer(pos Position) (DeviceNode, error) {
	dt, ok := g.catalog.DeviceTypeByKind(catalog.KindComputer)
	if !ok {
		return DeviceNode{}, ErrNoComputerType
	}
	return g.AddNode(dt.ID, pos)
}

// UpdateNode replaces a node's assignment. Setting a product clears any
// custom name and vice versa. Returns false if the node does not exist.
func (g *Graph) UpdateNode(id NodeID, a Assignment) bool {
	i := g.nodeIndex(id)
	if i < 0 {
		return false
	}
	g.nodes[i].Assignment = a.normalized()
	return true
}

// MoveNode updates a node's position after a drag.
func (g *Graph) MoveNode(id NodeID, pos Position) bool {
	i := g.nodeIndex(id)
	if i < 0 {
		return false
	}
	g.nodes[i].Position = pos
	return true
}

// RemoveNode deletes a node and every edge touching it. The last computer
// node cannot be removed.
func (g *Graph) RemoveNode(id NodeID) bool {
	if !g.CanRemoveNode(id) {
		return false
	}
	i := g.nodeIndex(id)
	g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)

	kept := g.edges[:0]
	for _, e := range g.edges {
		if !e.Touches(id) {
			kept = append(kept, e)
		}
	}
	removed := len(g.edges) - len(kept)
	g.edges = kept
	g.log.Debug("node removed", "node_id", id, "edges_removed", removed)
	return true
}

// AddEdge appends a pending edge. Self-loops and edges to unknown nodes are
// rejected. Missing or invalid handles are inferred from node positions.
func (g *Graph) AddEdge(e ConnectionEdge) (ConnectionEdge, bool) {
	if e.Source == e.Target {
		return ConnectionEdge{}, false
	}
	src, ok := g.Node(e.Source)
	if !ok {
		return ConnectionEdge{}, false
	}
	dst, ok := g.Node(e.Target)
	if !ok {
		return ConnectionEdge{}, false
	}
	if e.ID == "" || g.edgeIndex(e.ID) >= 0 {
		e.ID = EdgeID(g.newID("edge"))
	}
	if !e.SourceHandle.Valid() || !e.TargetHandle.Valid() {
		e.SourceHandle, e.TargetHandle = NearestHandles(src.Position, dst.Position)
	}
	e.SourcePortTypeID = 0
	e.TargetPortTypeID = 0
	e.Completed = false
	g.edges = append(g.edges, e)
	g.log.Debug("edge added", "edge_id", e.ID, "source", e.Source, "target", e.Target)
	return e, true
}

// UpdateEdgePorts merges port selections into an edge. A dongle chosen for
// one end forces the other end to Wireless. When both ends of one patch are
// dongles the source end wins. A patch naming a port type the catalog does
// not have is refused whole.
func (g *Graph) UpdateEdgePorts(id EdgeID, patch PortPatch) bool {
	i := g.edgeIndex(id)
	if i < 0 {
		return false
	}
	for _, p := range []*int{patch.Source, patch.Target} {
		if p == nil {
			continue
		}
		if _, ok := g.catalog.PortType(*p); !ok {
			g.log.Debug("unknown port type refused", "edge_id", id, "port_type_id", *p)
			return false
		}
	}
	e := &g.edges[i]
	if patch.Source != nil {
		e.SourcePortTypeID = *patch.Source
	}
	if patch.Target != nil {
		e.TargetPortTypeID = *patch.Target
	}

	switch {
	case patch.Source != nil && g.isDongle(*patch.Source):
		if w, ok := g.wirelessID(); ok {
			e.TargetPortTypeID = w
		}
	case patch.Target != nil && g.isDongle(*patch.Target):
		if w, ok := g.wirelessID(); ok {
			e.SourcePortTypeID = w
		}
	}

	e.Completed = e.SourcePortTypeID != 0 && e.TargetPortTypeID != 0
	return true
}

func (g *Graph) isDongle(portTypeID int) bool {
	pt, ok := g.catalog.PortType(portTypeID)
	return ok && pt.Normalized.IsDongle()
}

func (g *Graph) wirelessID() (int, bool) {
	pt, ok := g.catalog.PortTypeByCode(catalog.PortWireless)
	if !ok {
		g.log.Warn("dongle selected but catalog has no Wireless port type")
		return 0, false
	}
	return pt.ID, true
}

// RemoveEdge deletes an edge if present.
func (g *Graph) RemoveEdge(id EdgeID) bool {
	i := g.edgeIndex(id)
	if i < 0 {
		return false
	}
	g.edges = append(g.edges[:i], g.edges[i+1:]...)
	return true
}

// Replace swaps in a whole graph, e.g. one loaded from storage. Edges keep
// their port types; self-loops and dangling edges are dropped.
func (g *Graph) Replace(nodes []DeviceNode, edges []ConnectionEdge) {
	g.nodes = append([]DeviceNode{}, nodes...)
	for i := range g.nodes {
		if dt, ok := g.catalog.DeviceType(g.nodes[i].DeviceTypeID); ok {
			g.nodes[i].Kind = dt.Kind
		}
	}
	g.edges = nil
	for _, e := range edges {
		added, ok := g.AddEdge(e)
		if !ok {
			g.log.Warn("dropping invalid edge", "edge_id", e.ID, "source", e.Source, "target", e.Target)
			continue
		}
		i := g.edgeIndex(added.ID)
		g.edges[i].SourcePortTypeID = e.SourcePortTypeID
		g.edges[i].TargetPortTypeID = e.TargetPortTypeID
		g.edges[i].Completed = e.SourcePortTypeID != 0 && e.TargetPortTypeID != 0
	}
}
