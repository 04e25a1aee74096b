package engine

// ListenerID identifies a subscription so it can be removed later.
type ListenerID uint64

type listener[T any] struct {
	id ListenerID
	fn func(T)
}

// Event is a multi-cast event with one argument. Listeners run in
// subscription order.
type Event[T any] struct {
	listeners []listener[T]
	nextID    ListenerID
}

// AddListener subscribes fn and returns an id for RemoveListener. Nil
// callbacks are ignored and get the zero id.
func (e *Event[T]) AddListener(fn func(T)) ListenerID {
	if fn == nil {
		return 0
	}
	e.nextID++
	e.listeners = append(e.listeners, listener[T]{id: e.nextID, fn: fn})
	return e.nextID
}

func (e *Event[T]) RemoveListener(id ListenerID) bool {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Event[T]) RemoveAllListeners() {
	e.listeners = nil
}

// Invoke calls every listener. Listeners added during Invoke run from the next call.
func (e *Event[T]) Invoke(arg T) {
	snapshot := append([]listener[T](nil), e.listeners...)
	for _, l := range snapshot {
		l.fn(arg)
	}
}

func (e *Event[T]) ListenerCount() int {
	return len(e.listeners)
}
