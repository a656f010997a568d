package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restynation/buythatworks/pkg/catalog"
	"github.com/restynation/buythatworks/pkg/catalog/catalogtest"
	"github.com/restynation/buythatworks/pkg/models"
)

func TestParseDeviceKind(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected catalog.DeviceKind
		product  bool
	}{
		{"computer", "computer", catalog.KindComputer, true},
		{"monitor mixed case", " Monitor ", catalog.KindMonitor, true},
		{"hub", "hub", catalog.KindHub, false},
		{"mouse", "mouse", catalog.KindMouse, false},
		{"keyboard", "keyboard", catalog.KindKeyboard, false},
		{"unknown", "toaster", catalog.KindUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := catalog.ParseDeviceKind(tt.input)
			assert.Equal(t, tt.expected, k)
			assert.Equal(t, tt.product, k.RequiresCatalogProduct())
		})
	}
}

func TestNormalizePortCode(t *testing.T) {
	assert.Equal(t, catalog.PortDisplayPort, catalog.NormalizePortCode("DP"))
	assert.Equal(t, catalog.PortMiniDP, catalog.NormalizePortCode("MINIDP"))
	assert.Equal(t, catalog.PortUSBC, catalog.NormalizePortCode("TYPE_C"))
	assert.Equal(t, catalog.PortUSBCDongle, catalog.NormalizePortCode("usb-c-dongle"))
	assert.Equal(t, catalog.PortCode("Thunderbolt"), catalog.NormalizePortCode("Thunderbolt"))

	assert.True(t, catalog.PortUSBADongle.IsDongle())
	assert.False(t, catalog.PortUSBA.IsDongle())
}

func TestSelectablePortTypes(t *testing.T) {
	c := catalogtest.New()

	var codes []catalog.PortCode
	for _, pt := range c.SelectablePortTypes() {
		codes = append(codes, pt.Normalized)
	}
	assert.Equal(t, catalog.PreferredPortOrder, codes)
}

func TestSelectablePortTypes_UnknownCodesLast(t *testing.T) {
	data := catalogtest.Data()
	data.PortTypes = append(data.PortTypes,
		models.PortType{ID: 20, Code: "Thunderbolt"},
		models.PortType{ID: 10, Code: "Lightning"},
	)
	opts := catalog.New(data).SelectablePortTypes()
	require.Len(t, opts, len(catalog.PreferredPortOrder)+2)
	assert.Equal(t, 10, opts[len(opts)-2].ID)
	assert.Equal(t, 20, opts[len(opts)-1].ID)
}

func TestSearchProducts(t *testing.T) {
	c := catalogtest.New()

	tests := []struct {
		name     string
		typeID   int
		query    string
		expected []int
	}{
		{"empty query lists all of type", catalogtest.MonitorTypeID, "", []int{catalogtest.DellU2723, catalogtest.LG27UK850, catalogtest.StudioDisplay}},
		{"brand match", catalogtest.MonitorTypeID, "apple", []int{catalogtest.StudioDisplay}},
		{"model match ignores case", catalogtest.MonitorTypeID, "u2723", []int{catalogtest.DellU2723}},
		{"brand and model", catalogtest.ComputerTypeID, "Apple Mac mini", []int{catalogtest.MacMini}},
		{"filtered by type", catalogtest.ComputerTypeID, "studio", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []int
			for _, p := range c.SearchProducts(tt.typeID, tt.query) {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

type countingSource struct {
	calls int
	err   error
}

func (s *countingSource) LoadCatalog(context.Context) (models.CatalogData, error) {
	s.calls++
	if s.err != nil {
		return models.CatalogData{}, s.err
	}
	return catalogtest.Data(), nil
}

func TestLoaderCaches(t *testing.T) {
	src := &countingSource{}
	l := catalog.NewLoader(src, time.Minute)
	defer l.Stop()

	c1, err := l.Load(context.Background())
	require.NoError(t, err)
	c2, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, c1, c2)
	assert.Equal(t, 1, src.calls)

	l.Invalidate()
	_, err = l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestLoaderFailure(t *testing.T) {
	boom := errors.New("connection refused")
	l := catalog.NewLoader(&countingSource{err: boom}, time.Minute)
	defer l.Stop()

	_, err := l.Load(context.Background())
	require.Error(t, err)

	var loadErr *catalog.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, boom)
}
