// Package configstore holds the current configuration of one session and
// notifies subscribers whenever it changes.
package configstore

import (
	"sync"

	"github.com/electroride/configurator/internal/catalog"
	"github.com/electroride/configurator/internal/models"
)

// Listener receives the full snapshot produced by one Set.
type Listener func(models.Configuration)

// Store is the single source of truth for a configuration.
//
// Set calls are serialized: the merged snapshot is published, and every
// listener has been called with it, before the next Set starts. Listeners
// may call Get, but must not call Set or Reset from inside the callback.
type Store struct {
	setMu sync.Mutex // serializes Set and the notification round that follows

	mu        sync.RWMutex
	current   models.Configuration
	initial   models.Configuration
	revision  uint64
	listeners map[uint64]Listener
	nextID    uint64
}

// New returns a store holding initial. Reset restores initial.
func New(initial models.Configuration) *Store {
	return &Store{
		current:   initial,
		initial:   initial,
		listeners: make(map[uint64]Listener),
	}
}

// NewDefault returns a store starting from models.DefaultConfiguration.
func NewDefault() *Store {
	return New(models.DefaultConfiguration())
}

// Get returns the current snapshot.
func (s *Store) Get() models.Configuration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Revision counts completed Set calls.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Snapshot returns the current configuration and its revision together.
func (s *Store) Snapshot() (models.Configuration, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.revision
}

// Set merges p into the current configuration and notifies every listener
// once with the merged snapshot, which it also returns.
func (s *Store) Set(p models.Patch) models.Configuration {
	cfg, _ := s.Apply(p)
	return cfg
}

// Apply is Set, also returning the revision the merged snapshot was stored
// at. Later writes from other callers do not affect either result.
func (s *Store) Apply(p models.Patch) (models.Configuration, uint64) {
	s.setMu.Lock()
	defer s.setMu.Unlock()

	s.mu.Lock()
	next := p.Apply(s.current)
	s.current = next
	s.revision++
	revision := s.revision
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return next, revision
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Reset restores every field to its initial value in a single Set.
func (s *Store) Reset() models.Configuration {
	cfg, _ := s.Restore()
	return cfg
}

// Restore is Reset, also returning the revision it was stored at.
func (s *Store) Restore() (models.Configuration, uint64) {
	return s.Apply(models.PatchFrom(s.initial))
}

// SetFrameColor changes only the frame color.
func (s *Store) SetFrameColor(c catalog.Color) models.Configuration {
	return s.Set(models.Patch{FrameColor: &c})
}

// SetWheelColor changes only the wheel color.
func (s *Store) SetWheelColor(c catalog.Color) models.Configuration {
	return s.Set(models.Patch{WheelColor: &c})
}

// SetHandlebarColor changes only the handlebar color.
func (s *Store) SetHandlebarColor(c catalog.Color) models.Configuration {
	return s.Set(models.Patch{HandlebarColor: &c})
}

// SetSeatColor changes only the saddle color.
func (s *Store) SetSeatColor(c catalog.Color) models.Configuration {
	return s.Set(models.Patch{SeatColor: &c})
}

// SetBatteryColor changes only the battery color.
func (s *Store) SetBatteryColor(c catalog.Color) models.Configuration {
	return s.Set(models.Patch{BatteryColor: &c})
}

// SetMotorColor changes only the motor color.
func (s *Store) SetMotorColor(c catalog.Color) models.Configuration {
	return s.Set(models.Patch{MotorColor: &c})
}

// SetWheelSize changes only the wheel diameter in inches.
func (s *Store) SetWheelSize(size catalog.WheelSize) models.Configuration {
	return s.Set(models.Patch{WheelSize: &size})
}

// SetFrameType changes only the frame style.
func (s *Store) SetFrameType(t catalog.FrameType) models.Configuration {
	return s.Set(models.Patch{FrameType: &t})
}

// SetHandlebarType changes only the handlebar style.
func (s *Store) SetHandlebarType(t catalog.HandlebarType) models.Configuration {
	return s.Set(models.Patch{HandlebarType: &t})
}

// SetSeatType changes only the saddle style.
func (s *Store) SetSeatType(t catalog.SeatType) models.Configuration {
	return s.Set(models.Patch{SeatType: &t})
}

// SetBatteryType changes only the battery mount.
func (s *Store) SetBatteryType(t catalog.BatteryType) models.Configuration {
	return s.Set(models.Patch{BatteryType: &t})
}

// SetMotorPower changes only the motor rating in watts.
func (s *Store) SetMotorPower(p catalog.MotorPower) models.Configuration {
	return s.Set(models.Patch{MotorPower: &p})
}

// SetRangeKm changes only the advertised range.
func (s *Store) SetRangeKm(r catalog.RangeKm) models.Configuration {
	return s.Set(models.Patch{RangeKm: &r})
}

// SetCameraPosition overwrites the camera pose, e.g. from a preset.
func (s *Store) SetCameraPosition(pos models.Vec3) models.Configuration {
	return s.Set(models.Patch{CameraPosition: &pos})
}
