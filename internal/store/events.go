package store

// EventType names a change to the store.
type EventType string

const (
	EventAdded          EventType = "added"
	EventUpdated        EventType = "updated"
	EventDeleted        EventType = "deleted"
	EventToggled        EventType = "toggled"
	EventReordered      EventType = "reordered"
	EventImported       EventType = "imported"
	EventReloaded       EventType = "reloaded"
	EventFiltersChanged EventType = "filters_changed"
)

// Event describes a committed change. TaskID is empty for collection-wide events.
type Event struct {
	Type   EventType
	TaskID string
}

// Subscribe registers fn to be called after every committed change.
// Callbacks run synchronously on the mutating goroutine, after the store's
// lock is released, so they may read the store. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) emit(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
