// FILE: logfan/src/internal/dispatch/dispatcher_test.go
package dispatch

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"logfan/src/internal/core"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingAppender captures delivered entries for assertions. failWith
// makes Log return an error; panicOn makes Log panic on a matching
// message, simulating a fault escaping into the worker loop.
type recordingAppender struct {
	mu       sync.Mutex
	name     string
	entries  []core.Entry
	flushes  int
	failWith error
	panicOn  string
}

func newRecordingAppender(name string) *recordingAppender {
	return &recordingAppender{name: name}
}

func (r *recordingAppender) Name() string {
	return r.name
}

func (r *recordingAppender) Log(entry core.Entry) error {
	if r.panicOn != "" && entry.Message == r.panicOn {
		panic("injected fault: " + entry.Message)
	}
	if r.failWith != nil {
		return r.failWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingAppender) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushes++
	return nil
}

func (r *recordingAppender) Close() error {
	return nil
}

func (r *recordingAppender) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Message
	}
	return out
}

func (r *recordingAppender) flushCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushes
}

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	d := New(Config{}, log.NewLogger())
	t.Cleanup(d.Shutdown)
	return d
}

func testEntry(msg string) core.Entry {
	return core.Entry{Time: time.Now(), Level: "INFO", Source: "test", Message: msg}
}

func TestDispatcherLazyStart(t *testing.T) {
	d := newTestDispatcher(t)
	assert.False(t, d.Running())

	d.Dispatch(testEntry("first"))
	assert.True(t, d.Running())
}

func TestDispatcherOrdering(t *testing.T) {
	d := newTestDispatcher(t)
	a := newRecordingAppender("a")
	b := newRecordingAppender("b")
	d.AddAppender(a)
	d.AddAppender(b)

	var want []string
	for i := 0; i < 100; i++ {
		msg := fmt.Sprintf("entry-%03d", i)
		want = append(want, msg)
		d.Dispatch(testEntry(msg))
	}
	require.True(t, d.Flush())

	assert.Equal(t, want, a.messages())
	assert.Equal(t, want, b.messages())
}

func TestDispatcherTotalOrderAcrossProducers(t *testing.T) {
	d := newTestDispatcher(t)
	a := newRecordingAppender("a")
	b := newRecordingAppender("b")
	d.AddAppender(a)
	d.AddAppender(b)

	const producers = 8
	const perProducer = 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				d.Dispatch(testEntry(fmt.Sprintf("p%d-%d", p, i)))
			}
		}(p)
	}
	wg.Wait()
	require.True(t, d.Flush())

	got := a.messages()
	require.Len(t, got, producers*perProducer)

	// Every appender observes the same total order
	assert.Equal(t, got, b.messages())

	// Within one producer, enqueue order is preserved
	perIndex := make(map[int]int)
	for _, msg := range got {
		var p, i int
		_, err := fmt.Sscanf(msg, "p%d-%d", &p, &i)
		require.NoError(t, err)
		assert.Equal(t, perIndex[p], i, "producer %d out of order", p)
		perIndex[p]++
	}
}

func TestDispatcherIsolation(t *testing.T) {
	d := newTestDispatcher(t)
	failing := newRecordingAppender("failing")
	failing.failWith = errors.New("sink down")
	healthy := newRecordingAppender("healthy")
	d.AddAppender(failing)
	d.AddAppender(healthy)

	var want []string
	for i := 0; i < 20; i++ {
		msg := fmt.Sprintf("entry-%d", i)
		want = append(want, msg)
		d.Dispatch(testEntry(msg))
	}
	require.True(t, d.Flush())

	assert.Equal(t, want, healthy.messages())
	assert.Empty(t, failing.messages())
	assert.True(t, d.Running())

	stats := d.GetStats()
	assert.Equal(t, uint64(20), stats["appender_errors"])
	assert.Equal(t, uint64(20), stats["total_delivered"])
}

func TestDispatcherFlushCompleteness(t *testing.T) {
	d := newTestDispatcher(t)
	a := newRecordingAppender("a")
	d.AddAppender(a)

	for i := 0; i < 50; i++ {
		d.Dispatch(testEntry(fmt.Sprintf("entry-%d", i)))
	}
	require.True(t, d.Flush())

	assert.Len(t, a.messages(), 50)
	assert.GreaterOrEqual(t, a.flushCount(), 1)
}

func TestDispatcherFlushWithoutWorker(t *testing.T) {
	t.Run("BeforeStart", func(t *testing.T) {
		d := newTestDispatcher(t)
		assert.False(t, d.Flush())
	})

	t.Run("AfterShutdown", func(t *testing.T) {
		d := New(Config{}, log.NewLogger())
		d.Dispatch(testEntry("one"))
		d.Shutdown()
		assert.False(t, d.Flush())
	})
}

func TestDispatcherSelfHealing(t *testing.T) {
	d := newTestDispatcher(t)
	a := newRecordingAppender("a")
	a.panicOn = "poison"
	d.AddAppender(a)

	d.Dispatch(testEntry("before"))
	d.Dispatch(testEntry("poison"))
	d.Dispatch(testEntry("after"))
	require.True(t, d.Flush())

	assert.Equal(t, []string{"before", "after"}, a.messages())
	assert.True(t, d.Running())
	assert.Equal(t, uint64(1), d.WorkerRestarts())
}

func TestDispatcherLagWarning(t *testing.T) {
	d := newTestDispatcher(t)
	d.AddAppender(newRecordingAppender("a"))
	d.SetLagCheckInterval(2)
	d.SetLagThreshold(0)

	aged := time.Now().Add(-time.Minute)
	for i := 0; i < 3; i++ {
		d.Dispatch(core.Entry{Time: aged, Level: "INFO", Source: "test", Message: fmt.Sprintf("old-%d", i)})
	}
	require.True(t, d.Flush())

	// The counter reaches the interval at the 2nd entry and resets on
	// the triggered warning, so the 3rd entry does not check again.
	assert.Equal(t, uint64(1), d.LagWarnings())
}

func TestDispatcherLagSettings(t *testing.T) {
	d := newTestDispatcher(t)

	assert.Equal(t, int64(core.DefaultLagCheckInterval), d.LagCheckInterval())
	assert.Equal(t, core.DefaultLagThreshold, d.LagThreshold())

	d.SetLagCheckInterval(0)
	assert.Equal(t, int64(1), d.LagCheckInterval())

	d.SetLagThreshold(-time.Second)
	assert.Equal(t, time.Duration(0), d.LagThreshold())

	d.SetLagCheckInterval(100)
	d.SetLagThreshold(5 * time.Second)
	assert.Equal(t, int64(100), d.LagCheckInterval())
	assert.Equal(t, 5*time.Second, d.LagThreshold())
}

func TestDispatcherDuplicateRegistration(t *testing.T) {
	d := newTestDispatcher(t)
	a := newRecordingAppender("dup")
	d.AddAppender(a)
	d.AddAppender(a)

	d.Dispatch(testEntry("e1"))
	d.Dispatch(testEntry("e2"))
	require.True(t, d.Flush())

	assert.Equal(t, []string{"e1", "e1", "e2", "e2"}, a.messages())
}

func TestDispatcherConcurrentFlush(t *testing.T) {
	d := newTestDispatcher(t)
	a := newRecordingAppender("a")
	d.AddAppender(a)

	for i := 0; i < 10; i++ {
		d.Dispatch(testEntry(fmt.Sprintf("entry-%d", i)))
	}

	results := make(chan bool, 2)
	for i := 0; i < 2; i++ {
		go func() {
			results <- d.Flush()
		}()
	}

	for i := 0; i < 2; i++ {
		select {
		case ok := <-results:
			assert.True(t, ok)
		case <-time.After(5 * time.Second):
			t.Fatal("flush did not complete")
		}
	}
	assert.GreaterOrEqual(t, a.flushCount(), 2)
}

func TestDispatcherUnknownControlIgnored(t *testing.T) {
	d := newTestDispatcher(t)
	a := newRecordingAppender("a")
	d.AddAppender(a)

	require.NoError(t, d.Start())
	require.True(t, d.queue.push(queueItem{ctrl: &control{kind: controlKind(99)}}))

	d.Dispatch(testEntry("still alive"))
	require.True(t, d.Flush())

	assert.Equal(t, []string{"still alive"}, a.messages())
	assert.True(t, d.Running())
}

func TestDispatcherShutdownDrains(t *testing.T) {
	d := New(Config{}, log.NewLogger())
	a := newRecordingAppender("a")
	d.AddAppender(a)

	for i := 0; i < 500; i++ {
		d.Dispatch(testEntry(fmt.Sprintf("entry-%d", i)))
	}
	d.Shutdown()

	assert.Len(t, a.messages(), 500)
	assert.False(t, d.Running())
}

func TestDispatcherDispatchAfterShutdown(t *testing.T) {
	d := New(Config{}, log.NewLogger())
	a := newRecordingAppender("a")
	d.AddAppender(a)

	d.Dispatch(testEntry("delivered"))
	d.Shutdown()

	d.Dispatch(testEntry("dropped"))
	assert.Equal(t, []string{"delivered"}, a.messages())

	stats := d.GetStats()
	assert.Equal(t, uint64(1), stats["total_dropped"])
	assert.ErrorIs(t, d.Start(), ErrStopped)
}

func TestDispatcherShutdownIdempotent(t *testing.T) {
	d := New(Config{}, log.NewLogger())
	d.Dispatch(testEntry("one"))
	d.Shutdown()
	d.Shutdown()
}

func TestDispatcherRegistryMutationWhileRunning(t *testing.T) {
	d := newTestDispatcher(t)
	a := newRecordingAppender("a")
	d.AddAppender(a)

	d.Dispatch(testEntry("only-a"))
	require.True(t, d.Flush())

	b := newRecordingAppender("b")
	d.AddAppender(b)
	d.Dispatch(testEntry("both"))
	require.True(t, d.Flush())

	d.RemoveAppender(a)
	d.Dispatch(testEntry("only-b"))
	require.True(t, d.Flush())

	assert.Equal(t, []string{"only-a", "both"}, a.messages())
	assert.Equal(t, []string{"both", "only-b"}, b.messages())
}

func TestDispatcherStats(t *testing.T) {
	d := newTestDispatcher(t)
	d.AddAppender(newRecordingAppender("a"))

	d.Dispatch(testEntry("one"))
	require.True(t, d.Flush())

	stats := d.GetStats()
	assert.Equal(t, true, stats["running"])
	assert.Equal(t, 1, stats["appender_count"])
	assert.Equal(t, uint64(1), stats["total_delivered"])
	assert.Equal(t, uint64(1), stats["flushes_served"])
	assert.Equal(t, uint64(0), stats["worker_restarts"])
}
