package editor

import "github.com/restynation/buythatworks/pkg/graph"

// Command is a graph mutation or interaction emitted by an editor. Node and
// edge editors never hold mutators directly; they hand commands to the canvas.
type Command interface {
	command()
}

type AddNode struct {
	DeviceTypeID int
	Position     graph.Position
}

type UpdateNode struct {
	NodeID     graph.NodeID
	Assignment graph.Assignment
}

type MoveNode struct {
	NodeID   graph.NodeID
	Position graph.Position
}

type RemoveNode struct {
	NodeID graph.NodeID
}

// AddEdge connects two nodes. Empty handles are inferred from positions.
type AddEdge struct {
	Source       graph.NodeID
	Target       graph.NodeID
	SourceHandle graph.Handle
	TargetHandle graph.Handle
}

type UpdateEdgePorts struct {
	EdgeID graph.EdgeID
	Ports  graph.PortPatch
}

type RemoveEdge struct {
	EdgeID graph.EdgeID
}

// DropdownClosed tells the canvas a dropdown just closed, so the click that
// closed it must not open the context menu.
type DropdownClosed struct{}

func (AddNode) command()         {}
func (UpdateNode) command()      {}
func (MoveNode) command()        {}
func (RemoveNode) command()      {}
func (AddEdge) command()         {}
func (UpdateEdgePorts) command() {}
func (RemoveEdge) command()      {}
func (DropdownClosed) command()  {}

// Outcome reports what a dispatched command did. Applied is false for
// commands the graph rejected as no-ops.
type Outcome struct {
	Applied bool
	NodeID  graph.NodeID
	EdgeID  graph.EdgeID
}
