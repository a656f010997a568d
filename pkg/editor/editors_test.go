package editor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restynation/buythatworks/pkg/catalog/catalogtest"
	"github.com/restynation/buythatworks/pkg/graph"
)

func TestNodeEditorModes(t *testing.T) {
	c, _ := newTestCanvas(t)
	computer, err := NewNodeEditor(c, computerID(t, c))
	require.NoError(t, err)
	assert.Equal(t, ProductPicker, computer.Mode())
	assert.Equal(t, "Select computer", computer.DisplayName())
	assert.False(t, computer.IsConfigured())

	hub, err := NewNodeEditor(c, addNode(t, c, catalogtest.HubTypeID, graph.Position{X: 200}))
	require.NoError(t, err)
	assert.Equal(t, FreeText, hub.Mode())
	assert.Nil(t, hub.Options())

	_, err = NewNodeEditor(c, "missing")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestNodeEditorSelectProduct(t *testing.T) {
	c, _ := newTestCanvas(t)
	ne, err := NewNodeEditor(c, computerID(t, c))
	require.NoError(t, err)

	ne.ToggleDropdown()
	ne.SetQuery("apple")
	var ids []int
	for _, p := range ne.Options() {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []int{catalogtest.MacBookPro, catalogtest.MacMini}, ids)

	err = ne.SelectProduct(catalogtest.DellU2723)
	assert.ErrorIs(t, err, ErrProductMismatch)

	require.NoError(t, ne.SelectProduct(catalogtest.MacMini))
	assert.True(t, ne.IsConfigured())
	assert.Equal(t, "Apple Mac mini", ne.DisplayName())
	assert.Empty(t, ne.Query())
	assert.False(t, ne.DropdownOpen())
	assert.True(t, c.Suppressor().Active())

	assert.ErrorIs(t, ne.CommitName(), ErrWrongNodeMode)
}

func TestNodeEditorCommitName(t *testing.T) {
	c, _ := newTestCanvas(t)
	ne, err := NewNodeEditor(c, addNode(t, c, catalogtest.MouseTypeID, graph.Position{Y: 200}))
	require.NoError(t, err)

	ne.SetDraft("   ")
	assert.ErrorIs(t, ne.CommitName(), ErrEmptyName)
	assert.False(t, ne.IsConfigured())

	ne.SetDraft("  MX Master 3 ")
	require.NoError(t, ne.CommitName())
	assert.Equal(t, "MX Master 3", ne.DisplayName())
	assert.Equal(t, "MX Master 3", ne.Draft())
	assert.True(t, ne.IsConfigured())

	assert.ErrorIs(t, ne.SelectProduct(catalogtest.MacMini), ErrWrongNodeMode)
}

func TestNodeEditorDelete(t *testing.T) {
	c, _ := newTestCanvas(t)
	ce, err := NewNodeEditor(c, computerID(t, c))
	require.NoError(t, err)
	assert.False(t, ce.CanDelete())
	assert.ErrorIs(t, ce.Delete(), ErrLastComputer)

	kb, err := NewNodeEditor(c, addNode(t, c, catalogtest.KeyboardTypeID, graph.Position{Y: 200}))
	require.NoError(t, err)
	assert.True(t, kb.CanDelete())
	require.NoError(t, kb.Delete())
	assert.Len(t, c.Graph().Nodes(), 1)
	assert.ErrorIs(t, kb.Delete(), ErrNodeNotFound)
}

func TestEdgeEditorOptions(t *testing.T) {
	c, _ := newTestCanvas(t)
	monitor := addNode(t, c, catalogtest.MonitorTypeID, graph.Position{X: 300})
	out, err := c.Connect(computerID(t, c), "", monitor, "")
	require.NoError(t, err)

	ee, err := NewEdgeEditor(c, out.EdgeID)
	require.NoError(t, err)
	assert.Equal(t, Pending, ee.State())
	assert.True(t, ee.Editable())
	assert.Empty(t, ee.Label())

	var codes []string
	for _, pt := range ee.Options() {
		codes = append(codes, pt.Code)
	}
	assert.Equal(t, []string{"HDMI", "DisplayPort", "Mini-DP", "USB-C", "USB-C-Dongle", "USB-A", "USB-A-Dongle"}, codes)

	err = ee.SelectPort(SourceEnd, catalogtest.PortWireless)
	assert.ErrorIs(t, err, ErrPortNotSelectable)
	assert.Equal(t, Pending, ee.State())
}

func TestEdgeEditorDongle(t *testing.T) {
	c, _ := newTestCanvas(t)
	mouse := addNode(t, c, catalogtest.MouseTypeID, graph.Position{Y: 300})
	out, err := c.Connect(computerID(t, c), "", mouse, "")
	require.NoError(t, err)

	ee, err := NewEdgeEditor(c, out.EdgeID)
	require.NoError(t, err)
	require.NoError(t, ee.SelectPort(SourceEnd, catalogtest.PortUSBADongle))

	assert.Equal(t, Completed, ee.State())
	assert.False(t, ee.Editable())
	assert.Equal(t, "USB-A-Dongle ↔ Wireless", ee.Label())
	assert.ErrorIs(t, ee.SelectPort(TargetEnd, catalogtest.PortUSBA), ErrEdgeCompleted)
}

func TestEdgeEditorReadOnly(t *testing.T) {
	c, _ := newTestCanvas(t)
	monitor := addNode(t, c, catalogtest.MonitorTypeID, graph.Position{X: 300})
	out, err := c.Connect(computerID(t, c), "", monitor, "")
	require.NoError(t, err)

	ee, err := NewEdgeEditor(c, out.EdgeID, ReadOnly())
	require.NoError(t, err)
	assert.False(t, ee.Editable())
	assert.False(t, ee.CanDelete())
	assert.ErrorIs(t, ee.SelectPort(SourceEnd, catalogtest.PortHDMI), ErrReadOnly)
	assert.ErrorIs(t, ee.Delete(), ErrReadOnly)
	assert.Len(t, c.Graph().Edges(), 1)

	rw, err := NewEdgeEditor(c, out.EdgeID)
	require.NoError(t, err)
	require.NoError(t, rw.Delete())
	assert.Empty(t, c.Graph().Edges())
	assert.ErrorIs(t, rw.Delete(), ErrEdgeNotFound)

	_, err = NewEdgeEditor(c, out.EdgeID)
	assert.ErrorIs(t, err, ErrEdgeNotFound)
}

func TestSuppressorKeepsLongerWindow(t *testing.T) {
	clock := &fakeClock{}
	s := NewSuppressor(clock.Now)
	assert.False(t, s.Active())

	s.Suppress(time.Second)
	s.Suppress(10 * time.Millisecond)
	clock.Advance(500 * time.Millisecond)
	assert.True(t, s.Active())

	s.Clear()
	assert.False(t, s.Active())
}
