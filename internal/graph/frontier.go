package graph

// frontierNode is one link in the FIFO frontier's linked list.
type frontierNode struct {
	code int32
	next *frontierNode
}

// frontier is the single-threaded FIFO queue of node codes driving one BFS
// worker's traversal. Created empty, discarded when the worker returns.
type frontier struct {
	head, tail *frontierNode
}

func newFrontier() *frontier {
	return &frontier{}
}

func (f *frontier) enqueue(code int32) {
	n := &frontierNode{code: code}
	if f.tail == nil {
		f.head, f.tail = n, n
		return
	}
	f.tail.next = n
	f.tail = n
}

// dequeue removes and returns the code at the head of the frontier. The
// second return value is false when the frontier is empty.
func (f *frontier) dequeue() (int32, bool) {
	if f.head == nil {
		return 0, false
	}
	n := f.head
	f.head = n.next
	if f.head == nil {
		f.tail = nil
	}
	return n.code, true
}

func (f *frontier) empty() bool {
	return f.head == nil
}
