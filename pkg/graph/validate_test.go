package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restynation/buythatworks/pkg/catalog/catalogtest"
)

func TestValidateReportsEveryViolation(t *testing.T) {
	g, computer := newTestGraph(t)
	monitor, _ := g.AddNode(catalogtest.MonitorTypeID, Position{X: 300})
	mouse, _ := g.AddNode(catalogtest.MouseTypeID, Position{Y: 300})
	g.UpdateNode(monitor.ID, ProductAssignment(catalogtest.DellU2723))
	g.UpdateNode(mouse.ID, CustomNameAssignment("MX Master 3"))
	g.AddEdge(ConnectionEdge{Source: computer.ID, Target: monitor.ID})

	result := Validate(g)

	assert.False(t, result.Valid)
	assert.ElementsMatch(t, []string{
		"computer must have a product selected",
		`Device "MX Master 3" must be connected`,
	}, result.Errors)

	var structural *StructuralError
	require.ErrorAs(t, result.Err(), &structural)
	assert.Len(t, structural.Violations, 2)
}

func TestValidateScenario(t *testing.T) {
	g, computer := newTestGraph(t)
	monitor, err := g.AddNode(catalogtest.MonitorTypeID, Position{X: 300})
	require.NoError(t, err)
	g.UpdateNode(computer.ID, ProductAssignment(catalogtest.MacBookPro))
	g.UpdateNode(monitor.ID, ProductAssignment(catalogtest.DellU2723))
	e, ok := g.AddEdge(ConnectionEdge{Source: computer.ID, Target: monitor.ID})
	require.True(t, ok)
	g.UpdateEdgePorts(e.ID, PortPatch{Source: intPtr(catalogtest.PortHDMI), Target: intPtr(catalogtest.PortHDMI)})

	result := Validate(g)
	assert.Equal(t, ValidationResult{Valid: true, Errors: []string{}}, result)
	assert.NoError(t, result.Err())
}

func TestValidateComputerCount(t *testing.T) {
	g, first := newTestGraph(t)
	second, _ := g.AddNode(catalogtest.ComputerTypeID, Position{X: 300})
	g.UpdateNode(first.ID, ProductAssignment(catalogtest.MacMini))
	g.UpdateNode(second.ID, ProductAssignment(catalogtest.MacBookPro))
	g.AddEdge(ConnectionEdge{Source: first.ID, Target: second.ID})

	result := Validate(g)
	assert.Equal(t, []string{"Setup can only have one computer"}, result.Errors)

	empty := New(catalogtest.New())
	assert.Equal(t, []string{"Setup must have exactly one computer"}, Validate(empty).Errors)
}

func TestValidateNames(t *testing.T) {
	g, computer := newTestGraph(t)
	g.UpdateNode(computer.ID, ProductAssignment(catalogtest.MacMini))
	hub, _ := g.AddNode(catalogtest.HubTypeID, Position{X: 300})
	kb, _ := g.AddNode(catalogtest.KeyboardTypeID, Position{Y: 300})
	g.UpdateNode(kb.ID, CustomNameAssignment("   "))
	g.AddEdge(ConnectionEdge{Source: computer.ID, Target: hub.ID})
	g.AddEdge(ConnectionEdge{Source: hub.ID, Target: kb.ID})

	result := Validate(g)
	assert.ElementsMatch(t, []string{"hub must have a name", "keyboard must have a name"}, result.Errors)
}

func TestDisplayName(t *testing.T) {
	g, computer := newTestGraph(t)
	mouse, _ := g.AddNode(catalogtest.MouseTypeID, Position{})

	n, _ := g.Node(computer.ID)
	assert.Equal(t, "Select computer", g.DisplayName(n))

	g.UpdateNode(computer.ID, ProductAssignment(catalogtest.MacBookPro))
	n, _ = g.Node(computer.ID)
	assert.Equal(t, "Apple MacBook Pro 14", g.DisplayName(n))

	g.UpdateNode(mouse.ID, CustomNameAssignment(" Magic Mouse "))
	n, _ = g.Node(mouse.ID)
	assert.Equal(t, "Magic Mouse", g.DisplayName(n))
}

func TestDaisyChain(t *testing.T) {
	g, computer := newTestGraph(t)
	m1, _ := g.AddNode(catalogtest.MonitorTypeID, Position{X: 300})
	m2, _ := g.AddNode(catalogtest.MonitorTypeID, Position{X: 600})
	g.AddEdge(ConnectionEdge{Source: computer.ID, Target: m1.ID})
	g.AddEdge(ConnectionEdge{Source: computer.ID, Target: m2.ID})
	assert.False(t, DaisyChain(g))

	g.AddEdge(ConnectionEdge{Source: m1.ID, Target: m2.ID})
	assert.True(t, DaisyChain(g))
}
