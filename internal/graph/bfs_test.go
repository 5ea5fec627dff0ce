package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestTable(t *testing.T) *Table {
	t.Helper()
	table := &Table{nodes: []Node{
		{Code: 1, Name: "Alice", Year: 1970, Neighbors: []int32{2}},
		{Code: 2, Name: "Bob", Year: 1971, Neighbors: []int32{1, 3}},
		{Code: 3, Name: "Carol", Year: 1972, Neighbors: []int32{2}},
		{Code: 4, Name: "Dave", Year: 1973}, // isolated
	}}
	return table
}

func TestBFS_DirectEdge(t *testing.T) {
	table := buildTestTable(t)
	result, err := BFS(table, 1, 2)
	require.NoError(t, err)
	require.True(t, result.Found)
	assert.Equal(t, 1, result.Length)
	require.Len(t, result.Path, 2)
	assert.Equal(t, int32(1), result.Path[0].Code)
	assert.Equal(t, int32(2), result.Path[1].Code)
}

func TestBFS_TwoHop(t *testing.T) {
	table := buildTestTable(t)
	result, err := BFS(table, 1, 3)
	require.NoError(t, err)
	require.True(t, result.Found)
	assert.Equal(t, 2, result.Length)
	require.Len(t, result.Path, 3)
	assert.Equal(t, []int32{1, 2, 3}, codesOf(result.Path))
}

func TestBFS_SelfRequest(t *testing.T) {
	table := buildTestTable(t)
	result, err := BFS(table, 1, 1)
	require.NoError(t, err)
	require.True(t, result.Found)
	assert.Equal(t, 0, result.Length)
	require.Len(t, result.Path, 1)
	assert.Equal(t, int32(1), result.Path[0].Code)
}

func TestBFS_NoPath(t *testing.T) {
	table := buildTestTable(t)
	result, err := BFS(table, 1, 4)
	require.NoError(t, err)
	assert.False(t, result.Found)
}

func TestBFS_InvalidStart(t *testing.T) {
	table := buildTestTable(t)
	result, err := BFS(table, 99, 1)
	require.NoError(t, err)
	assert.True(t, result.Invalid)
	assert.Equal(t, int32(99), result.InvalidCode)
}

func TestBFS_InvalidEnd(t *testing.T) {
	table := buildTestTable(t)
	result, err := BFS(table, 1, 99)
	require.NoError(t, err)
	assert.True(t, result.Invalid)
	assert.Equal(t, int32(99), result.InvalidCode)
}

func TestBFS_PathValidity(t *testing.T) {
	table := buildTestTable(t)
	result, err := BFS(table, 1, 3)
	require.NoError(t, err)
	require.True(t, result.Found)

	for i := 0; i < len(result.Path)-1; i++ {
		u, v := result.Path[i], result.Path[i+1]
		assert.Contains(t, u.Neighbors, v.Code)
	}
}

func codesOf(nodes []Node) []int32 {
	codes := make([]int32, len(nodes))
	for i, n := range nodes {
		codes[i] = n.Code
	}
	return codes
}
