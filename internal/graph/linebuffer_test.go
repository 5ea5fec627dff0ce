package graph

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLineBuffer_PutGet(t *testing.T) {
	lb := newLineBuffer(4)

	dropped := lb.put("a")
	assert.False(t, dropped)
	dropped = lb.put("b")
	assert.False(t, dropped)

	line, ok := lb.get()
	assert.True(t, ok)
	assert.Equal(t, "a", line)

	line, ok = lb.get()
	assert.True(t, ok)
	assert.Equal(t, "b", line)
}

func TestLineBuffer_GetBlocksUntilDone(t *testing.T) {
	lb := newLineBuffer(2)

	done := make(chan struct{})
	var result string
	var ok bool
	go func() {
		result, ok = lb.get()
		close(done)
	}()

	time.Sleep(20 * time.Millisecond) // give the goroutine a chance to block
	lb.markDone()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("get() did not unblock after markDone")
	}
	assert.False(t, ok)
	assert.Empty(t, result)
}

func TestLineBuffer_DrainsBeforeDoneSignal(t *testing.T) {
	lb := newLineBuffer(2)
	lb.put("only")
	lb.markDone()

	line, ok := lb.get()
	assert.True(t, ok)
	assert.Equal(t, "only", line)

	_, ok = lb.get()
	assert.False(t, ok)
}

func TestLineBuffer_ConcurrentProducerConsumers(t *testing.T) {
	lb := newLineBuffer(8)
	const n = 200

	var wg sync.WaitGroup
	received := make(chan string, n)
	for c := 0; c < 4; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				line, ok := lb.get()
				if !ok {
					return
				}
				received <- line
			}
		}()
	}

	for i := 0; i < n; i++ {
		lb.put("line")
	}
	lb.markDone()
	wg.Wait()
	close(received)

	count := 0
	for range received {
		count++
	}
	assert.Equal(t, n, count)
}
