package graph

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cammini/pkg/logger"
)

func init() {
	logger.Init("error")
}

func TestIngest_PopulatesAdjacency(t *testing.T) {
	table, err := BuildTable("testdata/names.txt")
	require.NoError(t, err)

	stats, err := Ingest(context.Background(), table, "testdata/graph.txt", 2, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.LinesConsumed)
	assert.Equal(t, 0, stats.LinesSkipped)

	node1 := table.Lookup(1)
	require.NotNil(t, node1)
	assert.Equal(t, []int32{2}, node1.Neighbors)

	node2 := table.Lookup(2)
	require.NotNil(t, node2)
	assert.Equal(t, []int32{1, 3}, node2.Neighbors)

	node4 := table.Lookup(4)
	require.NotNil(t, node4)
	assert.Empty(t, node4.Neighbors)
}

func TestIngest_SkipsUnknownHeadCode(t *testing.T) {
	dir := t.TempDir()
	namesPath := dir + "/names.txt"
	graphPath := dir + "/graph.txt"
	writeTestFile(t, namesPath, "1\tAlice\t1970\n")
	writeTestFile(t, graphPath, "1 2\n999 1\n")

	table, err := BuildTable(namesPath)
	require.NoError(t, err)

	stats, err := Ingest(context.Background(), table, graphPath, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.LinesConsumed)
	assert.Equal(t, 1, stats.LinesSkipped)
}

func TestIngest_SingleConsumer(t *testing.T) {
	table, err := BuildTable("testdata/names.txt")
	require.NoError(t, err)

	_, err = Ingest(context.Background(), table, "testdata/graph.txt", 1, 4)
	require.NoError(t, err)

	node3 := table.Lookup(3)
	require.NotNil(t, node3)
	assert.Equal(t, []int32{2}, node3.Neighbors)
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
