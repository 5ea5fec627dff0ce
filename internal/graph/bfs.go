package graph

import "cammini/pkg/apperror"

// Result is the outcome of one BFS query: either a list of nodes from start
// to end inclusive, a definitive "no path", or an invalid endpoint.
type Result struct {
	Found       bool
	Path        []Node // start first, end last
	Length      int    // number of edges; 0 iff start == end
	InvalidCode int32  // set when an endpoint code doesn't exist in the table
	Invalid     bool
}

// BFS computes the shortest path between startCode and endCode over table.
// It returns apperror-wrapped errors only for the path-reconstruction
// corruption safeguard (§4.4); a missing endpoint or an exhausted frontier
// are reported through Result, not error, matching the per-request-only
// failure policy of the dispatcher.
func BFS(table *Table, startCode, endCode int32) (Result, error) {
	startNode := table.Lookup(startCode)
	if startNode == nil {
		return Result{Invalid: true, InvalidCode: startCode}, nil
	}
	endNode := table.Lookup(endCode)
	if endNode == nil {
		return Result{Invalid: true, InvalidCode: endCode}, nil
	}

	front := newFrontier()
	idx := newExplored()

	front.enqueue(startCode)
	idx.insert(startCode, -1)

	found := false
	for !front.empty() {
		code, _ := front.dequeue()
		if code == endCode {
			found = true
			break
		}

		node := table.Lookup(code)
		if node == nil {
			continue
		}
		for _, neighbor := range node.Neighbors {
			if !idx.has(neighbor) {
				idx.insert(neighbor, code)
				front.enqueue(neighbor)
			}
		}
	}

	if !found {
		return Result{Found: false}, nil
	}

	path, err := reconstructPath(table, idx, startCode, endCode)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Found:  true,
		Path:   path,
		Length: len(path) - 1,
	}, nil
}

// reconstructPath walks the explored/parent index from endCode back to
// startCode (parent == -1) and reverses the chain into start-to-end order.
// A chain longer than the total node count is treated as corruption: it is
// impossible by construction of a BFS, but is guarded against regardless.
func reconstructPath(table *Table, idx *explored, startCode, endCode int32) ([]Node, error) {
	maxLen := table.Len()
	var reversed []int32

	code := endCode
	for {
		if len(reversed) > maxLen {
			return nil, apperror.New(apperror.CodeCorruptPath, "reconstructed path exceeds total node count")
		}
		reversed = append(reversed, code)
		if code == startCode {
			break
		}
		parent, ok := idx.parentOf(code)
		if !ok {
			return nil, apperror.New(apperror.CodeCorruptPath, "parent chain broken during path reconstruction")
		}
		if parent == -1 {
			break
		}
		code = parent
	}

	path := make([]Node, len(reversed))
	for i, c := range reversed {
		n := table.Lookup(c)
		if n == nil {
			return nil, apperror.New(apperror.CodeCorruptPath, "path node missing from table during reconstruction")
		}
		path[len(reversed)-1-i] = *n
	}
	return path, nil
}
