// Package editor turns pointer, keyboard and form interactions on the setup
// canvas into graph mutations.
package editor

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/restynation/buythatworks/pkg/catalog"
	"github.com/restynation/buythatworks/pkg/graph"
	"github.com/restynation/buythatworks/pkg/models"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrMenuClosed     = errors.New("context menu is not open")
	ErrSelfConnection = errors.New("cannot connect a device to itself")
)

// Origin is where the seeded computer node is placed.
var Origin = graph.Position{X: 0, Y: 0}

// Session is what node and edge editors need from the canvas: read access
// to the graph and catalog, and a way to emit commands.
type Session interface {
	Dispatch(cmd Command) (Outcome, error)
	Graph() *graph.Graph
	Catalog() *catalog.Catalog
}

// Viewport maps screen coordinates to canvas coordinates.
type Viewport struct {
	X    float64
	Y    float64
	Zoom float64
}

// ToCanvas converts a screen point to canvas space.
func (v Viewport) ToCanvas(screen graph.Position) graph.Position {
	zoom := v.Zoom
	if zoom == 0 {
		zoom = 1
	}
	return graph.Position{
		X: (screen.X - v.X) / zoom,
		Y: (screen.Y - v.Y) / zoom,
	}
}

// ContextMenu is the "add device" menu state.
type ContextMenu struct {
	Open bool
	At   graph.Position
}

// Canvas owns placement, connection drawing, selection and deletion for one
// single-user editing session.
type Canvas struct {
	graph      *graph.Graph
	catalog    *catalog.Catalog
	viewport   Viewport
	menu       ContextMenu
	suppressor *Suppressor
	window     time.Duration
	log        *slog.Logger

	selectedNodes []graph.NodeID
	selectedEdges []graph.EdgeID
}

type config struct {
	now       func() time.Time
	window    time.Duration
	log       *slog.Logger
	graphOpts []graph.Option
}

type Option func(*config)

// WithClock sets the time source used by the context-menu suppressor.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

func WithSuppressWindow(d time.Duration) Option {
	return func(c *config) { c.window = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.log = l }
}

func WithGraphOptions(opts ...graph.Option) Option {
	return func(c *config) { c.graphOpts = append(c.graphOpts, opts...) }
}

// NewCanvas starts a session over cat with one unassigned computer at Origin.
// It fails when the catalog has no computer type, which means the reference
// data did not load.
func NewCanvas(cat *catalog.Catalog, opts ...Option) (*Canvas, error) {
	cfg := config{window: DefaultSuppressWindow, log: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.log.With("component", "canvas")
	g := graph.New(cat, append([]graph.Option{graph.WithLogger(log)}, cfg.graphOpts...)...)
	if _, err := g.SeedComputer(Origin); err != nil {
		return nil, fmt.Errorf("starting editor: %w", err)
	}
	return &Canvas{
		graph:      g,
		catalog:    cat,
		viewport:   Viewport{Zoom: 1},
		suppressor: NewSuppressor(cfg.now),
		window:     cfg.window,
		log:        log,
	}, nil
}

func (c *Canvas) Graph() *graph.Graph {
	return c.graph
}

func (c *Canvas) Catalog() *catalog.Catalog {
	return c.catalog
}

func (c *Canvas) Suppressor() *Suppressor {
	return c.suppressor
}

// Dispatch applies one command to the graph.
func (c *Canvas) Dispatch(cmd Command) (Outcome, error) {
	switch cmd := cmd.(type) {
	case AddNode:
		node, err := c.graph.AddNode(cmd.DeviceTypeID, cmd.Position)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: true, NodeID: node.ID}, nil

	case UpdateNode:
		return Outcome{Applied: c.graph.UpdateNode(cmd.NodeID, cmd.Assignment), NodeID: cmd.NodeID}, nil

	case MoveNode:
		return Outcome{Applied: c.graph.MoveNode(cmd.NodeID, cmd.Position), NodeID: cmd.NodeID}, nil

	case RemoveNode:
		edges := c.graph.Edges()
		if !c.graph.RemoveNode(cmd.NodeID) {
			c.log.Debug("node removal refused", "node_id", cmd.NodeID)
			return Outcome{NodeID: cmd.NodeID}, nil
		}
		c.deselectNode(cmd.NodeID)
		for _, e := range edges {
			if e.Touches(cmd.NodeID) {
				c.deselectEdge(e.ID)
			}
		}
		return Outcome{Applied: true, NodeID: cmd.NodeID}, nil

	case AddEdge:
		if cmd.Source == cmd.Target {
			return Outcome{}, ErrSelfConnection
		}
		e, ok := c.graph.AddEdge(graph.ConnectionEdge{
			Source:       cmd.Source,
			Target:       cmd.Target,
			SourceHandle: cmd.SourceHandle,
			TargetHandle: cmd.TargetHandle,
		})
		return Outcome{Applied: ok, EdgeID: e.ID}, nil

	case UpdateEdgePorts:
		return Outcome{Applied: c.graph.UpdateEdgePorts(cmd.EdgeID, cmd.Ports), EdgeID: cmd.EdgeID}, nil

	case RemoveEdge:
		ok := c.graph.RemoveEdge(cmd.EdgeID)
		if ok {
			c.deselectEdge(cmd.EdgeID)
		}
		return Outcome{Applied: ok, EdgeID: cmd.EdgeID}, nil

	case DropdownClosed:
		c.suppressor.Suppress(c.window)
		return Outcome{Applied: true}, nil
	}
	return Outcome{}, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
}

func (c *Canvas) SetViewport(v Viewport) {
	c.viewport = v
}

func (c *Canvas) Viewport() Viewport {
	return c.viewport
}

// OpenContextMenu opens the "add device" menu at a screen point unless the
// triggering click belonged to another interaction.
func (c *Canvas) OpenContextMenu(screen graph.Position) bool {
	if c.suppressor.Active() {
		c.log.Debug("context menu suppressed", "until", c.suppressor.Until())
		return false
	}
	c.menu = ContextMenu{Open: true, At: c.viewport.ToCanvas(screen)}
	return true
}

func (c *Canvas) CloseContextMenu() {
	c.menu = ContextMenu{}
}

func (c *Canvas) Menu() ContextMenu {
	return c.menu
}

// MenuItems lists the device types the context menu offers. Computers are
// left out: the session already has its one computer.
func (c *Canvas) MenuItems() []catalog.DeviceType {
	var items []catalog.DeviceType
	for _, dt := range c.catalog.DeviceTypes() {
		if dt.Kind != catalog.KindComputer && dt.Kind != catalog.KindUnknown {
			items = append(items, dt)
		}
	}
	return items
}

// AddFromMenu places a node of the chosen type where the menu was opened.
func (c *Canvas) AddFromMenu(deviceTypeID int) (Outcome, error) {
	if !c.menu.Open {
		return Outcome{}, ErrMenuClosed
	}
	at := c.menu.At
	c.CloseContextMenu()
	return c.Dispatch(AddNode{DeviceTypeID: deviceTypeID, Position: at})
}

// Connect completes a drag from one node handle to another.
func (c *Canvas) Connect(source graph.NodeID, sourceHandle graph.Handle, target graph.NodeID, targetHandle graph.Handle) (Outcome, error) {
	out, err := c.Dispatch(AddEdge{
		Source:       source,
		Target:       target,
		SourceHandle: sourceHandle,
		TargetHandle: targetHandle,
	})
	c.suppressor.Suppress(c.window)
	return out, err
}

// PaneClick handles a click on empty canvas. It closes the menu and clears
// any selection; clearing a selection suppresses the context menu briefly.
func (c *Canvas) PaneClick() {
	c.CloseContextMenu()
	c.ClearSelection()
}

// SelectNode selects a node, replacing the selection unless additive.
func (c *Canvas) SelectNode(id graph.NodeID, additive bool) bool {
	if _, ok := c.graph.Node(id); !ok {
		return false
	}
	if !additive {
		c.selectedNodes, c.selectedEdges = nil, nil
	}
	if !slices.Contains(c.selectedNodes, id) {
		c.selectedNodes = append(c.selectedNodes, id)
	}
	return true
}

// SelectEdge selects an edge, replacing the selection unless additive.
func (c *Canvas) SelectEdge(id graph.EdgeID, additive bool) bool {
	if _, ok := c.graph.Edge(id); !ok {
		return false
	}
	if !additive {
		c.selectedNodes, c.selectedEdges = nil, nil
	}
	if !slices.Contains(c.selectedEdges, id) {
		c.selectedEdges = append(c.selectedEdges, id)
	}
	return true
}

// ClearSelection deselects everything.
func (c *Canvas) ClearSelection() {
	if len(c.selectedNodes) == 0 && len(c.selectedEdges) == 0 {
		return
	}
	c.selectedNodes, c.selectedEdges = nil, nil
	c.suppressor.Suppress(c.window)
}

func (c *Canvas) Selection() ([]graph.NodeID, []graph.EdgeID) {
	return slices.Clone(c.selectedNodes), slices.Clone(c.selectedEdges)
}

func (c *Canvas) deselectNode(id graph.NodeID) {
	c.selectedNodes = slices.DeleteFunc(c.selectedNodes, func(n graph.NodeID) bool { return n == id })
}

func (c *Canvas) deselectEdge(id graph.EdgeID) {
	c.selectedEdges = slices.DeleteFunc(c.selectedEdges, func(e graph.EdgeID) bool { return e == id })
}

// KeyDown handles keyboard shortcuts. Delete and Backspace remove the
// selected edges and nodes; it returns how many were removed.
func (c *Canvas) KeyDown(key string) int {
	if key != "Delete" && key != "Backspace" {
		return 0
	}
	removed := 0
	nodes, edges := c.Selection()
	for _, id := range edges {
		if out, _ := c.Dispatch(RemoveEdge{EdgeID: id}); out.Applied {
			removed++
		}
	}
	for _, id := range nodes {
		if out, _ := c.Dispatch(RemoveNode{NodeID: id}); out.Applied {
			removed++
		}
	}
	return removed
}

// Load replaces the session graph with a stored setup. Stored edges carry no
// handle metadata, so handles are inferred from block positions.
func (c *Canvas) Load(sg models.SetupGraph) {
	nodes := make([]graph.DeviceNode, 0, len(sg.Blocks))
	for _, b := range sg.Blocks {
		var a graph.Assignment
		switch {
		case b.ProductID != nil:
			a = graph.ProductAssignment(*b.ProductID)
		case b.CustomName != nil:
			a = graph.CustomNameAssignment(*b.CustomName)
		}
		nodes = append(nodes, graph.DeviceNode{
			ID:           graph.NodeID(b.ID),
			DeviceTypeID: b.DeviceTypeID,
			Position:     graph.Position{X: b.PositionX, Y: b.PositionY},
			Assignment:   a,
		})
	}
	edges := make([]graph.ConnectionEdge, 0, len(sg.Edges))
	for _, e := range sg.Edges {
		edges = append(edges, graph.ConnectionEdge{
			ID:               graph.EdgeID(e.ID),
			Source:           graph.NodeID(e.SourceBlockID),
			Target:           graph.NodeID(e.TargetBlockID),
			SourcePortTypeID: e.SourcePortTypeID,
			TargetPortTypeID: e.TargetPortTypeID,
		})
	}
	c.graph.Replace(nodes, edges)
	if c.graph.ComputerCount() == 0 {
		c.log.Warn("stored setup has no computer, seeding one", "setup_id", sg.Setup.ID)
		if _, err := c.graph.SeedComputer(Origin); err != nil {
			c.log.Error("unable to seed computer", "error", err)
		}
	}
	c.selectedNodes, c.selectedEdges = nil, nil
	c.CloseContextMenu()
	c.log.Info("setup loaded", "setup_id", sg.Setup.ID, "blocks", len(nodes), "edges", len(edges))
}
