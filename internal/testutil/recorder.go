// recorder.go - Recording listener for store subscribers in tests
package testutil

import (
	"sync"

	"github.com/electroride/configurator/internal/models"
)

// Recorder collects every configuration it is notified with.
type Recorder struct {
	mu    sync.Mutex
	calls []models.Configuration
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Listen is the callback to pass to a store's Subscribe.
func (r *Recorder) Listen(c models.Configuration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

// Count returns how many notifications arrived.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// Calls returns a copy of every notification in arrival order.
func (r *Recorder) Calls() []models.Configuration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Configuration, len(r.calls))
	copy(out, r.calls)
	return out
}

// Last returns the most recent notification.
func (r *Recorder) Last() (models.Configuration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return models.Configuration{}, false
	}
	return r.calls[len(r.calls)-1], true
}
