package editor

// EventKind names a notification channel.
type EventKind string

const (
	// EventStateChanged fires after any change to module, clipboard or
	// validation state.
	EventStateChanged EventKind = "state-changed"
	// EventModuleChanged fires when the current module is replaced or
	// mutated.
	EventModuleChanged EventKind = "module-changed"
	// EventFieldSelected fires when the selected field changes, including
	// when a selection is cleared.
	EventFieldSelected EventKind = "field-selected"
	// EventViewChanged fires when the view mode changes.
	EventViewChanged EventKind = "view-changed"
)

// Event describes a notification. Op names the operation that triggered it
// (add, delete, undo, ...).
type Event struct {
	Kind      EventKind
	Op        string
	SessionID string
	FieldID   string
	View      ViewMode
}

// Observer receives editor notifications synchronously, in emission order.
type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a function into an Observer.
type ObserverFunc func(Event)

// Notify delegates to the underlying function.
func (fn ObserverFunc) Notify(event Event) {
	fn(event)
}

type subscription struct {
	id       int
	observer Observer
}

// Subscribe registers observer and returns a function that removes it.
func (s *State) Subscribe(observer Observer) (cancel func()) {
	if observer == nil {
		return func() {}
	}
	s.nextSubscription++
	id := s.nextSubscription
	s.observers = append(s.observers, subscription{id: id, observer: observer})
	return func() {
		for i, sub := range s.observers {
			if sub.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *State) emit(op string, kinds ...EventKind) {
	if len(s.observers) == 0 {
		return
	}
	observers := append([]subscription(nil), s.observers...)
	for _, kind := range kinds {
		event := Event{
			Kind:      kind,
			Op:        op,
			SessionID: s.sessionID,
			FieldID:   s.selected,
			View:      s.view,
		}
		for _, sub := range observers {
			sub.observer.Notify(event)
		}
	}
}
