package board

import "critter-board/internal/maps"

// EventType names an outbound board event.
type EventType string

const (
	HoverOver      EventType = "hoverOver"
	FieldClicked   EventType = "fieldClicked"
	FieldExploded  EventType = "fieldExploded"
	FieldsRendered EventType = "fieldsRendered"
	LevelLoaded    EventType = "levelLoaded"
)

// Event is a notification from the controller. Only the fields relevant to
// the event type are set.
type Event struct {
	Type   EventType    `json:"type"`
	X      int          `json:"x"`
	Y      int          `json:"y"`
	Tool   Tool         `json:"tool,omitempty"`
	Points []maps.Point `json:"points,omitempty"`
	Level  string       `json:"level,omitempty"`
	Width  int          `json:"width,omitempty"`
	Height int          `json:"height,omitempty"`
}

// Listener receives dispatched events.
type Listener interface {
	OnEvent(ev Event)
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(ev Event)

// OnEvent calls f(ev).
func (f ListenerFunc) OnEvent(ev Event) { f(ev) }

// Subscription identifies a registered listener.
type Subscription uint64

type subscriber struct {
	id Subscription
	l  Listener
}

// Dispatcher fans events out to subscribers in subscription order.
// It is not safe for concurrent use; the controller owns it.
type Dispatcher struct {
	nextID    Subscription
	listeners map[EventType][]subscriber
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[EventType][]subscriber),
	}
}

// Subscribe registers l for events of type t.
func (d *Dispatcher) Subscribe(t EventType, l Listener) Subscription {
	d.nextID++
	d.listeners[t] = append(d.listeners[t], subscriber{id: d.nextID, l: l})
	return d.nextID
}

// Unsubscribe removes a listener. Unknown subscriptions are ignored.
func (d *Dispatcher) Unsubscribe(s Subscription) {
	for t, subs := range d.listeners {
		for i, sub := range subs {
			if sub.id == s {
				d.listeners[t] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Dispatch sends ev to every listener subscribed to its type.
func (d *Dispatcher) Dispatch(ev Event) {
	for _, sub := range d.listeners[ev.Type] {
		sub.l.OnEvent(ev)
	}
}
