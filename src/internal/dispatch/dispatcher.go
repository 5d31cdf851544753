// FILE: logfan/src/internal/dispatch/dispatcher.go
package dispatch

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"logfan/src/internal/appender"
	"logfan/src/internal/core"

	"github.com/lixenwraith/log"
	"golang.org/x/time/rate"
)

// ErrStopped is returned when delivery is requested after Shutdown.
var ErrStopped = errors.New("dispatcher stopped")

// Config holds dispatcher tuning. Zero values select the defaults in
// the core package.
type Config struct {
	// LagCheckInterval is the number of delivered entries between lag
	// checks.
	LagCheckInterval int64

	// LagThreshold is the delivery delay above which a backlog warning
	// is emitted.
	LagThreshold time.Duration

	// FailureLogPerSecond and FailureLogBurst bound the rate of
	// per-appender failure reports to the operational logger.
	FailureLogPerSecond float64
	FailureLogBurst     int
}

// Dispatcher fans entries out to an ordered list of appenders from a
// single background worker. Producers never block: Dispatch appends to
// an unbounded queue and returns. The worker is started lazily on the
// first Dispatch and survives failures in its own loop body.
type Dispatcher struct {
	queue    *queue
	registry *registry
	logger   *log.Logger

	mu      sync.Mutex // guards worker start
	running atomic.Bool
	stopped atomic.Bool
	done    chan struct{}

	lagCheckInterval atomic.Int64
	lagThreshold     atomic.Int64 // nanoseconds

	failureLimiter *rate.Limiter

	// Statistics
	startTime      time.Time
	totalDelivered atomic.Uint64
	totalDropped   atomic.Uint64
	appenderErrors atomic.Uint64
	workerRestarts atomic.Uint64
	lagWarnings    atomic.Uint64
	flushesServed  atomic.Uint64
}

// New creates a dispatcher. The logger receives the dispatcher's own
// operational messages (appender failures, lag warnings, lifecycle
// notices); it is never routed through the dispatch queue, so a failing
// appender cannot feed back into itself.
func New(cfg Config, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.NewLogger()
	}
	if cfg.LagCheckInterval < 1 {
		cfg.LagCheckInterval = core.DefaultLagCheckInterval
	}
	if cfg.LagThreshold <= 0 {
		cfg.LagThreshold = core.DefaultLagThreshold
	}
	if cfg.FailureLogPerSecond <= 0 {
		cfg.FailureLogPerSecond = core.DefaultFailureLogPerSecond
	}
	if cfg.FailureLogBurst < 1 {
		cfg.FailureLogBurst = core.DefaultFailureLogBurst
	}

	d := &Dispatcher{
		queue:          newQueue(),
		registry:       &registry{},
		logger:         logger,
		failureLimiter: rate.NewLimiter(rate.Limit(cfg.FailureLogPerSecond), cfg.FailureLogBurst),
		startTime:      time.Now(),
	}
	d.lagCheckInterval.Store(cfg.LagCheckInterval)
	d.lagThreshold.Store(int64(cfg.LagThreshold))
	return d
}

// AddAppender registers a at the end of the delivery order. Safe to call
// while the worker is delivering; the running pass keeps its snapshot.
func (d *Dispatcher) AddAppender(a appender.Appender) {
	d.registry.add(a)
}

// RemoveAppender drops the first registration of a.
func (d *Dispatcher) RemoveAppender(a appender.Appender) bool {
	return d.registry.remove(a)
}

// Appenders returns the current delivery order.
func (d *Dispatcher) Appenders() []appender.Appender {
	return d.registry.snapshot()
}

// Dispatch queues an entry for delivery, starting the worker if needed.
// It never blocks. After Shutdown the entry is dropped and counted.
func (d *Dispatcher) Dispatch(entry core.Entry) {
	if err := d.Start(); err != nil {
		d.totalDropped.Add(1)
		return
	}
	if !d.queue.push(queueItem{entry: &entry}) {
		d.totalDropped.Add(1)
	}
}

// Start launches the worker if it is not already running. Callers that
// want eager startup invoke it directly; Dispatch calls it lazily.
func (d *Dispatcher) Start() error {
	if d.stopped.Load() {
		return ErrStopped
	}
	if d.running.Load() {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped.Load() {
		return ErrStopped
	}
	if d.running.Load() {
		return nil
	}

	d.done = make(chan struct{})
	d.running.Store(true)
	go d.run(d.done)

	d.logger.Info("msg", "Dispatch worker started",
		"component", "dispatcher")
	return nil
}

// Running reports whether the worker goroutine is alive.
func (d *Dispatcher) Running() bool {
	return d.running.Load()
}

// Flush blocks until every entry queued before the call has been handed
// to every appender and each appender's Flush has been invoked. Returns
// false without blocking when no worker is running. Concurrent flushes
// are served strictly in request order, each on its own reply channel.
func (d *Dispatcher) Flush() bool {
	if !d.running.Load() {
		return false
	}

	reply := make(chan bool, 1)
	if !d.queue.push(queueItem{ctrl: &control{kind: controlFlush, reply: reply}}) {
		return false
	}
	return <-reply
}

// QueueSize returns the current backlog of undelivered items.
func (d *Dispatcher) QueueSize() int {
	return d.queue.size()
}

// LagCheckInterval returns the number of delivered entries between lag
// checks.
func (d *Dispatcher) LagCheckInterval() int64 {
	return d.lagCheckInterval.Load()
}

// SetLagCheckInterval changes the check cadence. Takes effect on the
// next delivery.
func (d *Dispatcher) SetLagCheckInterval(n int64) {
	if n < 1 {
		n = 1
	}
	d.lagCheckInterval.Store(n)
}

// LagThreshold returns the delivery delay above which a backlog warning
// is emitted.
func (d *Dispatcher) LagThreshold() time.Duration {
	return time.Duration(d.lagThreshold.Load())
}

// SetLagThreshold changes the warning threshold. Takes effect on the
// next check.
func (d *Dispatcher) SetLagThreshold(threshold time.Duration) {
	if threshold < 0 {
		threshold = 0
	}
	d.lagThreshold.Store(int64(threshold))
}

// Shutdown stops accepting entries, lets the worker drain everything
// already queued, and waits for it to exit. Appenders are not closed;
// they belong to the host. Hosts that must not lose buffered appender
// state should call Flush before Shutdown.
func (d *Dispatcher) Shutdown() {
	if !d.stopped.CompareAndSwap(false, true) {
		return
	}

	d.mu.Lock()
	done := d.done
	d.mu.Unlock()

	d.queue.close()
	if done != nil {
		<-done
	}

	d.logger.Info("msg", "Dispatcher stopped",
		"component", "dispatcher",
		"delivered", d.totalDelivered.Load(),
		"dropped", d.totalDropped.Load())
}

// GetStats returns dispatcher statistics.
func (d *Dispatcher) GetStats() map[string]any {
	return map[string]any{
		"running":         d.running.Load(),
		"queue_size":      d.queue.size(),
		"appender_count":  d.registry.size(),
		"uptime_seconds":  int(time.Since(d.startTime).Seconds()),
		"total_delivered": d.totalDelivered.Load(),
		"total_dropped":   d.totalDropped.Load(),
		"appender_errors": d.appenderErrors.Load(),
		"worker_restarts": d.workerRestarts.Load(),
		"lag_warnings":    d.lagWarnings.Load(),
		"flushes_served":  d.flushesServed.Load(),
	}
}

// LagWarnings returns how many backlog warnings have been emitted.
func (d *Dispatcher) LagWarnings() uint64 {
	return d.lagWarnings.Load()
}

// WorkerRestarts returns how many times the worker recovered from a
// failure in its own loop body.
func (d *Dispatcher) WorkerRestarts() uint64 {
	return d.workerRestarts.Load()
}

// run is the worker loop: the sole consumer of the queue. It exits only
// when the queue is closed and drained; any other failure is recovered
// inside process and the loop resumes with the next item.
func (d *Dispatcher) run(done chan struct{}) {
	defer func() {
		d.running.Store(false)
		close(done)
	}()

	// Lag bookkeeping is worker-owned; resets only when a check fires
	// a warning.
	var deliveredSinceCheck int64

	for {
		it, ok := d.queue.pop()
		if !ok {
			return
		}
		d.process(it, &deliveredSinceCheck)
	}
}

// process handles one dequeued item. A panic escaping the item handling
// (a dispatch bug or a misbehaving appender blowing past its error
// return) is caught here so the worker never dies mid-stream; a stranded
// flush caller is released before the loop retries.
func (d *Dispatcher) process(it queueItem, deliveredSinceCheck *int64) {
	defer func() {
		if r := recover(); r != nil {
			d.workerRestarts.Add(1)
			d.logger.Error("msg", "Dispatch loop failure, restarting",
				"component", "dispatcher",
				"panic", r)
			if it.ctrl != nil && it.ctrl.reply != nil {
				select {
				case it.ctrl.reply <- true:
				default:
				}
			}
		}
	}()

	switch {
	case it.entry != nil:
		d.deliver(*it.entry)
		*deliveredSinceCheck++
		if *deliveredSinceCheck >= d.lagCheckInterval.Load() {
			if d.checkLag(it.entry.Time) {
				*deliveredSinceCheck = 0
			}
		}
	case it.ctrl != nil:
		d.handleControl(it.ctrl)
	}
}

// deliver writes one entry to every appender in registration order. A
// single appender's failure is reported and delivery continues with the
// rest.
func (d *Dispatcher) deliver(entry core.Entry) {
	for _, a := range d.registry.snapshot() {
		if err := a.Log(entry); err != nil {
			d.appenderErrors.Add(1)
			if d.failureLimiter.Allow() {
				d.logger.Error("msg", "Appender write failed",
					"component", "dispatcher",
					"appender", a.Name(),
					"error", err)
			}
		}
	}
	d.totalDelivered.Add(1)
}

// handleControl executes a control message. Unknown kinds are logged and
// ignored.
func (d *Dispatcher) handleControl(c *control) {
	switch c.kind {
	case controlFlush:
		for _, a := range d.registry.snapshot() {
			if err := a.Flush(); err != nil {
				d.appenderErrors.Add(1)
				if d.failureLimiter.Allow() {
					d.logger.Error("msg", "Appender flush failed",
						"component", "dispatcher",
						"appender", a.Name(),
						"error", err)
				}
			}
		}
		d.flushesServed.Add(1)
		select {
		case c.reply <- true:
		default:
		}
	default:
		d.logger.Warn("msg", "Unknown control message ignored",
			"component", "dispatcher",
			"kind", c.kind)
	}
}

// checkLag compares the just-delivered entry's age against the
// threshold. Returns true when a warning was emitted.
func (d *Dispatcher) checkLag(entryTime time.Time) bool {
	lag := time.Since(entryTime)
	if lag < time.Duration(d.lagThreshold.Load()) {
		return false
	}

	d.lagWarnings.Add(1)
	d.logger.Warn("msg", "Delivery falling behind",
		"component", "dispatcher",
		"lag", lag.String(),
		"queue_size", d.queue.size())
	return true
}
