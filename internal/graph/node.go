// Package graph implements the co-appearance graph: its immutable sorted node
// table, the bounded-buffer ingest pipeline that populates adjacency lists,
// and the BFS worker that answers shortest-path queries over it.
package graph

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"cammini/pkg/apperror"
)

// Node is one actor record: a unique code, its name and release year, and the
// ordered list of co-starring neighbor codes filled in during ingest.
type Node struct {
	Code      int32
	Name      string
	Year      int
	Neighbors []int32
}

// Table is the sorted, immutable-after-construction array of Node records.
// Lookup is a binary search on Code; once ingest finishes, every consumer
// goroutine has returned and the table is read-only for the lifetime of the
// serving phase.
type Table struct {
	nodes []Node
}

// Len returns the number of node records in the table.
func (t *Table) Len() int {
	return len(t.nodes)
}

// Lookup returns the node with the given code, or nil if absent. O(log n).
func (t *Table) Lookup(code int32) *Node {
	i := sort.Search(len(t.nodes), func(i int) bool { return t.nodes[i].Code >= code })
	if i < len(t.nodes) && t.nodes[i].Code == code {
		return &t.nodes[i]
	}
	return nil
}

// index returns the slice position of code, or -1.
func (t *Table) index(code int32) int {
	i := sort.Search(len(t.nodes), func(i int) bool { return t.nodes[i].Code >= code })
	if i < len(t.nodes) && t.nodes[i].Code == code {
		return i
	}
	return -1
}

// nodeAt returns a pointer into the backing array so ingest consumers can
// write a record's Neighbors in place without copying the whole Node.
func (t *Table) nodeAt(i int) *Node {
	return &t.nodes[i]
}

// BuildTable reads the names file and returns a Table sorted by Code
// ascending. Lines are TAB-separated code/name/year; empty lines are
// skipped. Duplicate codes: the last occurrence in the file wins.
func BuildTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInvalidNamesFile, "failed to open names file").WithField(path)
	}
	defer f.Close()

	byCode := make(map[int32]int) // code -> index into nodes, for last-wins dedup
	var nodes []Node

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			continue
		}
		code, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 32)
		if err != nil {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			continue
		}
		node := Node{Code: int32(code), Name: fields[1], Year: year}
		if i, ok := byCode[node.Code]; ok {
			nodes[i] = node
		} else {
			byCode[node.Code] = len(nodes)
			nodes = append(nodes, node)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInvalidNamesFile, "failed reading names file")
	}
	if len(nodes) == 0 {
		return nil, apperror.ErrEmptyGraph
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Code < nodes[j].Code })

	return &Table{nodes: nodes}, nil
}

// String renders a node as the "code<TAB>name<TAB>year" line used both in
// per-request output files and in test fixtures.
func (n Node) String() string {
	return fmt.Sprintf("%d\t%s\t%d", n.Code, n.Name, n.Year)
}
