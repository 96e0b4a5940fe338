package network_test

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/streetnet/geometry"
	"github.com/katalvlaran/streetnet/network"
)

// TestRecordRoundTrip encodes a graph with mixed attributes through JSON and
// rebuilds an identical one.
func TestRecordRoundTrip(t *testing.T) {
	g := squareGraph(t)
	require.NoError(t, g.SetAttr(key("A", "B", "ab"), network.AttrDirection, network.Forward))
	require.NoError(t, g.SetAttr(key("B", "C", "bc"), network.AttrRoundabout, true))
	require.NoError(t, g.SetAttr(key("C", "D", "cd"), "name", "Mill Lane"))

	rec := g.Record()
	require.Len(t, rec.Routing, 7)
	rec.Index = &network.IndexRecord{CellSize: 5, Extent: [4]float64{0, 0, 10, 10}}

	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	var decoded network.Record[string]
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, rec.Index, decoded.Index)

	back, err := network.FromRecord(decoded)
	require.NoError(t, err)
	again := back.Record()
	again.Index = rec.Index
	assert.Equal(t, rec, again)
}

func TestRecordAttrTypes(t *testing.T) {
	g := squareGraph(t)
	require.NoError(t, g.SetAttr(key("A", "B", "ab"), "lanes", 2))

	back, err := network.FromRecord(g.Record())
	require.NoError(t, err)
	e, err := back.Edge(key("A", "B", "ab"))
	require.NoError(t, err)
	assert.Equal(t, 2, e.Attrs["lanes"])

	raw, err := json.Marshal(g.Record())
	require.NoError(t, err)
	var decoded network.Record[string]
	require.NoError(t, json.Unmarshal(raw, &decoded))
	back, err = network.FromRecord(decoded)
	require.NoError(t, err)
	e, err = back.Edge(key("A", "B", "ab"))
	require.NoError(t, err)
	assert.Equal(t, float64(2), e.Attrs["lanes"], "JSON numbers decode as float64")
}

// TestRecordRejectsForeignRouting checks tampered routing arcs are caught.
func TestRecordRejectsForeignRouting(t *testing.T) {
	rec := squareGraph(t).Record()
	rec.Routing = rec.Routing[1:]

	_, err := network.FromRecord(rec)
	assert.ErrorIs(t, err, network.ErrRecordMismatch)

	rec = squareGraph(t).Record()
	rec.Edges[0].Length = 11
	_, err = network.FromRecord(rec)
	assert.ErrorIs(t, err, network.ErrLengthMismatch)
}

func TestGeoJSONExport(t *testing.T) {
	g := squareGraph(t)
	fc := g.GeoJSON(nil)
	require.Len(t, fc.Features, 8, "4 edges + 4 nodes")
	first := fc.Features[0]
	assert.Equal(t, "ab", first.Properties[network.PropID])
	assert.Equal(t, network.TwoWay, first.Properties[network.AttrDirection])
	assert.Equal(t, orb.LineString{{0, 0}, {10, 0}}, first.Geometry)

	region := geometry.NewRegion(orb.Polygon{orb.Ring{{3, -1}, {7, -1}, {7, 1}, {3, 1}, {3, -1}}}, 0)
	fc = g.GeoJSON(&region)
	assert.Len(t, fc.Features, 3, "ab + A + B")

	_, err := fc.MarshalJSON()
	assert.NoError(t, err)
}
