// internal/application/form-state/state.go
package formstate

import (
	"sync"

	"candidate-intake/internal/models"
)

// Observer receives the record snapshot produced by a change and the
// fields that changed.
type Observer func(snapshot models.Record, changed []string)

// State holds the current application record. Every mutation replaces the
// record with a new snapshot and notifies observers synchronously, in
// subscription order, outside the lock.
type State struct {
	mu        sync.RWMutex
	record    models.Record
	observers map[int]Observer
	order     []int
	nextID    int
}

func New(initial models.Record) *State {
	if initial == nil {
		initial = models.Record{}
	}
	return &State{
		record:    initial.Clone(),
		observers: make(map[int]Observer),
	}
}

// Snapshot returns a copy callers may keep or mutate freely.
func (s *State) Snapshot() models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record.Clone()
}

func (s *State) Get(field string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.record[field]
	return v, ok
}

func (s *State) Set(field string, value interface{}) {
	s.SetMany(models.Record{field: value})
}

// SetMany applies values as one change.
func (s *State) SetMany(values models.Record) {
	if len(values) == 0 {
		return
	}
	s.mu.Lock()
	next := s.record.Clone()
	changed := make([]string, 0, len(values))
	for k, v := range values {
		next[k] = v
		changed = append(changed, k)
	}
	s.record = next
	observers := s.observersLocked()
	s.mu.Unlock()

	notify(observers, next, changed)
}

func (s *State) Delete(fields ...string) {
	s.mu.Lock()
	next := s.record.Clone()
	changed := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := next[f]; ok {
			delete(next, f)
			changed = append(changed, f)
		}
	}
	if len(changed) == 0 {
		s.mu.Unlock()
		return
	}
	s.record = next
	observers := s.observersLocked()
	s.mu.Unlock()

	notify(observers, next, changed)
}

// Subscribe registers fn and returns a function that removes it.
func (s *State) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.observers, id)
			for i, oid := range s.order {
				if oid == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *State) observersLocked() []Observer {
	out := make([]Observer, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.observers[id])
	}
	return out
}

func notify(observers []Observer, snapshot models.Record, changed []string) {
	for _, fn := range observers {
		fn(snapshot.Clone(), changed)
	}
}
