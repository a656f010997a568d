package graph

import (
	"fmt"
	"strings"

	"github.com/restynation/buythatworks/pkg/catalog"
)

// DisplayName is the label a node renders with: "{brand} {model}" for a
// product, the custom name, or "Select {device type}".
func (g *Graph) DisplayName(n DeviceNode) string {
	switch n.Assignment.Kind() {
	case ProductAssigned:
		if p, ok := g.catalog.Product(n.Assignment.ProductID); ok {
			return p.GetDisplayName()
		}
	case CustomNamed:
		return strings.TrimSpace(n.Assignment.Label)
	}
	return "Select " + n.Kind.String()
}

// ValidationResult lists every structural violation found in one pass.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// StructuralError carries the messages of a failed validation.
type StructuralError struct {
	Violations []string
}

func (e *StructuralError) Error() string {
	return "setup is not valid: " + strings.Join(e.Violations, "; ")
}

// Err returns nil for a valid result, or a *StructuralError.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &StructuralError{Violations: r.Errors}
}

// Validate checks the rules a setup must satisfy before it is submitted:
// exactly one computer, every device connected, and every device completed
// (product for computers and monitors, a name for everything else).
// Violations accumulate.
func Validate(g *Graph) ValidationResult {
	errs := []string{}

	switch n := g.ComputerCount(); {
	case n == 0:
		errs = append(errs, "Setup must have exactly one computer")
	case n > 1:
		errs = append(errs, "Setup can only have one computer")
	}

	for _, node := range g.nodes {
		if g.Degree(node.ID) == 0 {
			errs = append(errs, fmt.Sprintf("Device %q must be connected", g.DisplayName(node)))
		}
	}

	for _, node := range g.nodes {
		if node.Kind.RequiresCatalogProduct() {
			if _, ok := g.catalog.Product(node.Assignment.ProductID); node.Assignment.Kind() != ProductAssigned || !ok {
				errs = append(errs, fmt.Sprintf("%s must have a product selected", node.Kind))
			}
			continue
		}
		if node.Assignment.Kind() != CustomNamed {
			errs = append(errs, fmt.Sprintf("%s must have a name", node.Kind))
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// DaisyChain reports whether any edge joins two monitors.
func DaisyChain(g *Graph) bool {
	for _, e := range g.edges {
		src, ok1 := g.Node(e.Source)
		dst, ok2 := g.Node(e.Target)
		if ok1 && ok2 && src.Kind == catalog.KindMonitor && dst.Kind == catalog.KindMonitor {
			return true
		}
	}
	return false
}

// IncompleteEdges returns the edges still missing a port type on either end.
func (g *Graph) IncompleteEdges() []ConnectionEdge {
	var out []ConnectionEdge
	for _, e := range g.edges {
		if !e.Completed {
			out = append(out, e)
		}
	}
	return out
}
