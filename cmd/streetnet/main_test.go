package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/streetnet/logs"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { _ = logs.Init("info", logs.FormatText, "", nil) })

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()

	return out.String(), err
}

// squareFile writes the 10×10 square A(0,0) B(10,0) C(10,10) D(0,10).
func squareFile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "square.json")
	out, err := run(t, "generate", "square", path, "--ids", "symbol")
	require.NoError(t, err)
	assert.Equal(t, "4 nodes, 4 edges\n", out)

	return path
}

const westHalf = `{"type":"Polygon","coordinates":[[[-1,-1],[5,-1],[5,11],[-1,11],[-1,-1]]]}`

func TestGenerateAndInfo(t *testing.T) {
	dir := t.TempDir()
	grid := filepath.Join(dir, "grid.json")
	out, err := run(t, "generate", "grid", grid, "--rows", "3", "--cols", "3")
	require.NoError(t, err)
	assert.Equal(t, "9 nodes, 12 edges\n", out)

	out, err = run(t, "info", squareFile(t, dir))
	require.NoError(t, err)
	assert.Equal(t, "nodes 4\nedges 4\narcs 8\nextent 0 0 10 10\n", out)

	_, err = run(t, "generate", "hexagon", grid)
	assert.Error(t, err)
	_, err = run(t, "generate", "path", grid, "--n", "1")
	assert.Error(t, err)
}

func TestSnapAndRoute(t *testing.T) {
	dir := t.TempDir()
	square := squareFile(t, dir)
	prom := filepath.Join(dir, "metrics.prom")

	out, err := run(t, "snap", square, "5", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "side-0")
	assert.Contains(t, out, "1.000")

	out, err = run(t, "snap", square, "500", "500", "--no-index")
	require.NoError(t, err)
	assert.Equal(t, "no edge within radius\n", out)

	out, err = run(t, "--metrics-file", prom, "route", square, "5", "1", "5", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "length 20.000\n")

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), `streetnet_routes_total{found="true",mode="undirected"} 1`)

	out, err = run(t, "route", square, "5", "1", "5", "9", "--directed", "--method", "single-source")
	require.NoError(t, err)
	assert.Contains(t, out, "length 20.000\n")

	_, err = run(t, "route", square, "5", "1", "5", "9", "--method", "astar")
	assert.Error(t, err)
}

func TestClipLabelExport(t *testing.T) {
	dir := t.TempDir()
	square := squareFile(t, dir)
	area := filepath.Join(dir, "area.geojson")
	require.NoError(t, os.WriteFile(area, []byte(westHalf), 0o600))

	part := filepath.Join(dir, "part.json")
	out, err := run(t, "clip", square, area, part)
	require.NoError(t, err)
	assert.Equal(t, "kept 1, clipped 2, whole 0, dropped 1, boundary nodes 2\n", out)
	out, err = run(t, "info", part)
	require.NoError(t, err)
	assert.Contains(t, out, "nodes 4\nedges 3\n")

	labelled := filepath.Join(dir, "labelled.json")
	out, err = run(t, "label", square, area, "west", labelled)
	require.NoError(t, err)
	assert.Equal(t, "1 of 4 edges within\n", out)
	data, err := os.ReadFile(labelled)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"west": true`)

	geo := filepath.Join(dir, "square.geojson")
	out, err = run(t, "export", square, geo)
	require.NoError(t, err)
	assert.Equal(t, "8 features\n", out)
	data, err = os.ReadFile(geo)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"FeatureCollection"`)
}

func TestUnify(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "path.json")
	_, err := run(t, "generate", "path", path, "--n", "5")
	require.NoError(t, err)

	merged := filepath.Join(dir, "merged.json")
	out, err := run(t, "unify", path, merged)
	require.NoError(t, err)
	assert.Equal(t, "chains 1, nodes removed 3, edges 4 -> 1\n", out)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	square := squareFile(t, dir)
	cfg := filepath.Join(dir, "streetnet.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("snap:\n  radius: 0.5\n"), 0o600))

	out, err := run(t, "--config", cfg, "snap", square, "5", "1")
	require.NoError(t, err)
	assert.Equal(t, "no edge within radius\n", out)

	require.NoError(t, os.WriteFile(cfg, []byte("routing:\n  mode: sideways\n"), 0o600))
	_, err = run(t, "--config", cfg, "info", square)
	assert.Error(t, err)
}
