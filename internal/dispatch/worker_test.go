package dispatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cammini/internal/graph"
	"cammini/pkg/cache"
	"cammini/pkg/logger"
)

func init() {
	logger.Init("error")
}

func testTable() *graph.Table {
	path := filepath.Join("..", "graph", "testdata", "names.txt")
	table, err := graph.BuildTable(path)
	if err != nil {
		panic(err)
	}
	return table
}

func TestDispatcher_WriteOutputFile_Found(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(cwd)

	table := testTable()
	d := &Dispatcher{table: table}

	outcome := requestOutcome{
		Found: true,
		Path: []graph.Node{
			*table.Lookup(1),
			*table.Lookup(2),
		},
	}
	req := Request{StartCode: 1, EndCode: 2}

	require.NoError(t, d.writeOutputFile(req, outcome))

	data, err := os.ReadFile("1.2")
	require.NoError(t, err)
	assert.Contains(t, string(data), "Alice")
	assert.Contains(t, string(data), "Bob")
}

func TestDispatcher_WriteOutputFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(cwd)

	d := &Dispatcher{table: testTable()}
	outcome := requestOutcome{Invalid: true, InvalidCode: 999}
	req := Request{StartCode: 999, EndCode: 2}

	require.NoError(t, d.writeOutputFile(req, outcome))

	data, err := os.ReadFile("999.2")
	require.NoError(t, err)
	assert.Equal(t, "codice 999 non valido\n", string(data))
}

func TestDispatcher_WriteOutputFile_NoPath(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(cwd)

	d := &Dispatcher{table: testTable()}
	outcome := requestOutcome{Found: false}
	req := Request{StartCode: 1, EndCode: 4}

	require.NoError(t, d.writeOutputFile(req, outcome))

	data, err := os.ReadFile("1.4")
	require.NoError(t, err)
	assert.Equal(t, "non esistono cammini da 1 a 4\n", string(data))
}

func TestDispatcher_Resolve_NoCacheRunsBFS(t *testing.T) {
	table := testTable()
	d := &Dispatcher{table: table}

	outcome, hit, err := d.resolve(context.Background(), Request{StartCode: 1, EndCode: 1})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.True(t, outcome.Found)
	assert.Len(t, outcome.Path, 1)
}

func TestOutcomeToCacheAndBack_RoundTrip(t *testing.T) {
	table := testTable()
	outcome := requestOutcome{
		Found: true,
		Path: []graph.Node{
			*table.Lookup(1),
			*table.Lookup(2),
		},
	}

	cached := outcomeToCache(outcome)
	assert.True(t, cached.Found)
	assert.Equal(t, []int32{1, 2}, cached.Path)
	assert.Equal(t, 1, cached.Length)

	restored := outcomeFromCache(table, cached)
	assert.True(t, restored.Found)
	require.Len(t, restored.Path, 2)
	assert.Equal(t, int32(1), restored.Path[0].Code)
	assert.Equal(t, int32(2), restored.Path[1].Code)
}

func TestOutcomeFromCache_NotFound(t *testing.T) {
	cached := &cache.CachedPathResult{Found: false}
	restored := outcomeFromCache(testTable(), cached)
	assert.False(t, restored.Found)
	assert.Empty(t, restored.Path)
}
