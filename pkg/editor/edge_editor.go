package editor

import (
	"errors"
	"fmt"

	"github.com/restynation/buythatworks/pkg/catalog"
	"github.com/restynation/buythatworks/pkg/graph"
)

var (
	ErrEdgeNotFound      = errors.New("edge not found")
	ErrReadOnly          = errors.New("edge is read-only")
	ErrEdgeCompleted     = errors.New("edge ports are already chosen")
	ErrPortNotSelectable = errors.New("port type cannot be selected")
)

// EdgeState is where an edge is in port selection.
type EdgeState int

const (
	Pending EdgeState = iota
	PendingPartial
	Completed
)

func (s EdgeState) String() string {
	switch s {
	case Pending:
		return "pending"
	case PendingPartial:
		return "pending-partial"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// Cable end.
type End int

const (
	SourceEnd End = iota
	TargetEnd
)

// EdgeEditor lets the user pick a port type for each end of a pending edge
// and renders completed edges as "SRC ↔ DST".
type EdgeEditor struct {
	session  Session
	id       graph.EdgeID
	readOnly bool
}

type EdgeEditorOption func(*EdgeEditor)

// ReadOnly disables port selection and deletion, as on detail views.
func ReadOnly() EdgeEditorOption {
	return func(e *EdgeEditor) { e.readOnly = true }
}

func NewEdgeEditor(s Session, id graph.EdgeID, opts ...EdgeEditorOption) (*EdgeEditor, error) {
	if _, ok := s.Graph().Edge(id); !ok {
		return nil, fmt.Errorf("%w: %s", ErrEdgeNotFound, id)
	}
	e := &EdgeEditor{session: s, id: id}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *EdgeEditor) edge() (graph.ConnectionEdge, error) {
	edge, ok := e.session.Graph().Edge(e.id)
	if !ok {
		return graph.ConnectionEdge{}, fmt.Errorf("%w: %s", ErrEdgeNotFound, e.id)
	}
	return edge, nil
}

func (e *EdgeEditor) State() EdgeState {
	edge, err := e.edge()
	if err != nil {
		return Pending
	}
	switch {
	case edge.Completed:
		return Completed
	case edge.SourcePortTypeID != 0 || edge.TargetPortTypeID != 0:
		return PendingPartial
	}
	return Pending
}

// Editable reports whether the port dropdowns are shown.
func (e *EdgeEditor) Editable() bool {
	return !e.readOnly && e.State() != Completed
}

// Options returns the port types offered in each dropdown.
func (e *EdgeEditor) Options() []catalog.PortType {
	return e.session.Catalog().SelectablePortTypes()
}

// SelectPort chooses the port type for one end of the edge.
func (e *EdgeEditor) SelectPort(end End, portTypeID int) error {
	if e.readOnly {
		return ErrReadOnly
	}
	if _, err := e.edge(); err != nil {
		return err
	}
	if e.State() == Completed {
		return ErrEdgeCompleted
	}
	pt, ok := e.session.Catalog().PortType(portTypeID)
	if !ok || pt.Normalized.IsWireless() {
		return fmt.Errorf("%w: %d", ErrPortNotSelectable, portTypeID)
	}

	var patch graph.PortPatch
	if end == SourceEnd {
		patch.Source = &portTypeID
	} else {
		patch.Target = &portTypeID
	}
	_, err := e.session.Dispatch(UpdateEdgePorts{EdgeID: e.id, Ports: patch})
	return err
}

// Ports returns the chosen codes for each end, empty when unset.
func (e *EdgeEditor) Ports() (source, target string) {
	edge, err := e.edge()
	if err != nil {
		return "", ""
	}
	return e.portCode(edge.SourcePortTypeID), e.portCode(edge.TargetPortTypeID)
}

func (e *EdgeEditor) portCode(id int) string {
	if pt, ok := e.session.Catalog().PortType(id); ok {
		return pt.Code
	}
	return ""
}

// Label is the read-only rendering of a completed edge.
func (e *EdgeEditor) Label() string {
	if e.State() != Completed {
		return ""
	}
	src, dst := e.Ports()
	return src + " ↔ " + dst
}

func (e *EdgeEditor) CanDelete() bool {
	return !e.readOnly
}

func (e *EdgeEditor) Delete() error {
	if e.readOnly {
		return ErrReadOnly
	}
	out, err := e.session.Dispatch(RemoveEdge{EdgeID: e.id})
	if err != nil {
		return err
	}
	if !out.Applied {
		return fmt.Errorf("%w: %s", ErrEdgeNotFound, e.id)
	}
	return nil
}
