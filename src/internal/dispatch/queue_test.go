// FILE: logfan/src/internal/dispatch/queue_test.go
package dispatch

import (
	"fmt"
	"testing"
	"time"

	"logfan/src/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryItem(msg string) queueItem {
	return queueItem{entry: &core.Entry{Time: time.Now(), Message: msg}}
}

func TestQueueFIFO(t *testing.T) {
	q := newQueue()

	for i := 0; i < 10; i++ {
		require.True(t, q.push(entryItem(fmt.Sprintf("msg-%d", i))))
	}
	assert.Equal(t, 10, q.size())

	for i := 0; i < 10; i++ {
		it, ok := q.pop()
		require.True(t, ok)
		require.NotNil(t, it.entry)
		assert.Equal(t, fmt.Sprintf("msg-%d", i), it.entry.Message)
	}
	assert.Equal(t, 0, q.size())
}

func TestQueueBlockingPop(t *testing.T) {
	q := newQueue()

	got := make(chan string, 1)
	go func() {
		it, ok := q.pop()
		if ok && it.entry != nil {
			got <- it.entry.Message
		}
	}()

	// The consumer must be parked before the push arrives
	time.Sleep(20 * time.Millisecond)
	require.True(t, q.push(entryItem("wakeup")))

	select {
	case msg := <-got:
		assert.Equal(t, "wakeup", msg)
	case <-time.After(2 * time.Second):
		t.Fatal("pop did not wake on push")
	}
}

func TestQueueClose(t *testing.T) {
	t.Run("PushAfterCloseRejected", func(t *testing.T) {
		q := newQueue()
		q.close()
		assert.False(t, q.push(entryItem("late")))
	})

	t.Run("DrainsRemainingItems", func(t *testing.T) {
		q := newQueue()
		require.True(t, q.push(entryItem("a")))
		require.True(t, q.push(entryItem("b")))
		q.close()

		it, ok := q.pop()
		require.True(t, ok)
		assert.Equal(t, "a", it.entry.Message)

		it, ok = q.pop()
		require.True(t, ok)
		assert.Equal(t, "b", it.entry.Message)

		_, ok = q.pop()
		assert.False(t, ok)
	})

	t.Run("WakesBlockedConsumer", func(t *testing.T) {
		q := newQueue()
		done := make(chan bool, 1)
		go func() {
			_, ok := q.pop()
			done <- ok
		}()

		time.Sleep(20 * time.Millisecond)
		q.close()

		select {
		case ok := <-done:
			assert.False(t, ok)
		case <-time.After(2 * time.Second):
			t.Fatal("pop did not wake on close")
		}
	})
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := newQueue()
	const producers = 8
	const perProducer = 200

	for p := 0; p < producers; p++ {
		go func(p int) {
			for i := 0; i < perProducer; i++ {
				q.push(entryItem(fmt.Sprintf("p%d-%d", p, i)))
			}
		}(p)
	}

	seen := 0
	deadline := time.After(5 * time.Second)
	for seen < producers*perProducer {
		select {
		case <-deadline:
			t.Fatalf("only %d of %d items received", seen, producers*perProducer)
		default:
		}
		if _, ok := q.pop(); ok {
			seen++
		}
	}
	assert.Equal(t, 0, q.size())
}
