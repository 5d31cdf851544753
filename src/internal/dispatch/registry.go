// FILE: logfan/src/internal/dispatch/registry.go
package dispatch

import (
	"sync"

	"logfan/src/internal/appender"
)

// registry is the ordered set of appenders. Callers mutate it while the
// worker iterates, so each delivery pass works on a copied snapshot.
// Registration order is delivery order. Duplicates are allowed: adding
// the same appender twice delivers every entry to it twice.
type registry struct {
	mu        sync.RWMutex
	appenders []appender.Appender
}

func (r *registry) add(a appender.Appender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appenders = append(r.appenders, a)
}

// remove drops the first registration of a, matched by identity.
// Returns false if a was not registered.
func (r *registry) remove(a appender.Appender) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, reg := range r.appenders {
		if reg == a {
			r.appenders = append(r.appenders[:i:i], r.appenders[i+1:]...)
			return true
		}
	}
	return false
}

// snapshot returns a copy safe to iterate without holding the lock.
// Mutations made after the snapshot do not affect an in-flight pass.
func (r *registry) snapshot() []appender.Appender {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.appenders) == 0 {
		return nil
	}
	out := make([]appender.Appender, len(r.appenders))
	copy(out, r.appenders)
	return out
}

func (r *registry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.appenders)
}
