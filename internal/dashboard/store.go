package dashboard

// Listener is notified after every dispatched action.
type Listener func(prev, next State)

// Store owns the current dashboard state and notifies listeners on change.
// It is not safe for concurrent use; all dispatches come from the UI loop.
type Store struct {
	state     State
	listeners map[int]Listener
	nextID    int
}

// NewStore returns a store holding initial.
func NewStore(initial State) *Store {
	return &Store{state: initial, listeners: map[int]Listener{}}
}

// State returns the current state.
func (s *Store) State() State {
	return s.state
}

// Dispatch reduces action into the current state and notifies listeners.
func (s *Store) Dispatch(action Action) State {
	prev := s.state
	s.state = Reduce(prev, action)
	for id := 0; id < s.nextID; id++ {
		if l, ok := s.listeners[id]; ok {
			l(prev, s.state)
		}
	}
	return s.state
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		delete(s.listeners, id)
	}
}
