package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/restynation/buythatworks/pkg/graph"
	"github.com/restynation/buythatworks/pkg/models"
)

var (
	ErrNodeNotFound    = errors.New("node not found")
	ErrWrongNodeMode   = errors.New("operation does not apply to this device type")
	ErrProductMismatch = errors.New("product does not belong to this device type")
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrLastComputer    = errors.New("the last computer cannot be deleted")
)

// NodeMode is how a node is completed.
type NodeMode int

const (
	// ProductPicker nodes choose from a searchable list of catalog products.
	ProductPicker NodeMode = iota
	// FreeText nodes take a typed name.
	FreeText
)

// NodeEditor resolves one node's assignment through user interaction.
type NodeEditor struct {
	session Session
	id      graph.NodeID

	dropdownOpen bool
	query        string
	draft        string
}

// NewNodeEditor returns an editor for node id. The draft starts from the
// node's current custom name.
func NewNodeEditor(s Session, id graph.NodeID) (*NodeEditor, error) {
	n, ok := s.Graph().Node(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return &NodeEditor{session: s, id: id, draft: n.Assignment.Label}, nil
}

func (e *NodeEditor) node() (graph.DeviceNode, error) {
	n, ok := e.session.Graph().Node(e.id)
	if !ok {
		return graph.DeviceNode{}, fmt.Errorf("%w: %s", ErrNodeNotFound, e.id)
	}
	return n, nil
}

func (e *NodeEditor) Mode() NodeMode {
	n, _ := e.node()
	if n.Kind.RequiresCatalogProduct() {
		return ProductPicker
	}
	return FreeText
}

// DisplayName is the label the node renders with.
func (e *NodeEditor) DisplayName() string {
	n, err := e.node()
	if err != nil {
		return ""
	}
	return e.session.Graph().DisplayName(n)
}

// IsConfigured reports whether the node has the assignment its type needs.
func (e *NodeEditor) IsConfigured() bool {
	n, err := e.node()
	if err != nil {
		return false
	}
	if n.Kind.RequiresCatalogProduct() {
		return n.Assignment.Kind() == graph.ProductAssigned
	}
	return n.Assignment.Kind() == graph.CustomNamed
}

func (e *NodeEditor) DropdownOpen() bool {
	return e.dropdownOpen
}

// ToggleDropdown opens or closes the product list.
func (e *NodeEditor) ToggleDropdown() {
	if e.dropdownOpen {
		e.CloseDropdown()
		return
	}
	e.dropdownOpen = true
}

// CloseDropdown closes the product list and tells the canvas, so the click
// that closed it does not open the context menu.
func (e *NodeEditor) CloseDropdown() {
	if !e.dropdownOpen {
		return
	}
	e.dropdownOpen = false
	e.session.Dispatch(DropdownClosed{})
}

func (e *NodeEditor) SetQuery(q string) {
	e.query = q
}

func (e *NodeEditor) Query() string {
	return e.query
}

// Options returns the products matching the current search for this node's
// device type. FreeText nodes have no options.
func (e *NodeEditor) Options() []models.Product {
	n, err := e.node()
	if err != nil || !n.Kind.RequiresCatalogProduct() {
		return nil
	}
	return e.session.Catalog().SearchProducts(n.DeviceTypeID, e.query)
}

// SelectProduct assigns a catalog product, clears the search and closes the
// dropdown.
func (e *NodeEditor) SelectProduct(productID int) error {
	n, err := e.node()
	if err != nil {
		return err
	}
	if !n.Kind.RequiresCatalogProduct() {
		return ErrWrongNodeMode
	}
	p, ok := e.session.Catalog().Product(productID)
	if !ok || p.DeviceTypeID != n.DeviceTypeID {
		return fmt.Errorf("%w: product %d", ErrProductMismatch, productID)
	}
	if _, err := e.session.Dispatch(UpdateNode{NodeID: e.id, Assignment: graph.ProductAssignment(productID)}); err != nil {
		return err
	}
	e.query = ""
	e.CloseDropdown()
	return nil
}

func (e *NodeEditor) SetDraft(text string) {
	e.draft = text
}

func (e *NodeEditor) Draft() string {
	return e.draft
}

// CommitName assigns the trimmed draft as the node's custom name.
func (e *NodeEditor) CommitName() error {
	n, err := e.node()
	if err != nil {
		return err
	}
	if n.Kind.RequiresCatalogProduct() {
		return ErrWrongNodeMode
	}
	name := strings.TrimSpace(e.draft)
	if name == "" {
		return ErrEmptyName
	}
	e.draft = name
	_, err = e.session.Dispatch(UpdateNode{NodeID: e.id, Assignment: graph.CustomNameAssignment(name)})
	return err
}

// CanDelete is false only for the last remaining computer.
func (e *NodeEditor) CanDelete() bool {
	return e.session.Graph().CanRemoveNode(e.id)
}

// Delete removes the node and its edges.
func (e *NodeEditor) Delete() error {
	if _, err := e.node(); err != nil {
		return err
	}
	if !e.CanDelete() {
		return ErrLastComputer
	}
	_, err := e.session.Dispatch(RemoveNode{NodeID: e.id})
	return err
}
