package dom

import (
	"golang.org/x/net/html"
)

// Event is a DOM event in flight.
// See https://dom.spec.whatwg.org/#interface-event
//
// Only the bubbling phase is modelled: listeners run at the target first
// and then at every ancestor, up to the document node.
type Event struct {
	Type          string
	Target        *html.Node  // node the event has been dispatched to
	CurrentTarget *html.Node  // node whose listeners are currently running
	Bubbles       bool        // propagate to ancestors of the target?
	Detail        interface{} // client data, as with CustomEvent.detail

	stopped          bool
	stoppedImmediate bool
	defaultPrevented bool
}

// NewEvent creates a bubbling event.
func NewEvent(eventType string, detail interface{}) *Event {
	return &Event{
		Type:    eventType,
		Bubbles: true,
		Detail:  detail,
	}
}

// StopPropagation prevents the event from reaching further nodes. Listeners
// of the current node still run.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// StopImmediatePropagation prevents any further listener from running,
// including the remaining listeners of the current node.
func (e *Event) StopImmediatePropagation() {
	e.stopped = true
	e.stoppedImmediate = true
}

// PreventDefault flags the event as canceled.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented is true if a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// --- Listeners -------------------------------------------------------------

// Listener is an event handler with identity. this is the node the listener
// is attached to (or, for delegated handlers, the matched node).
type Listener struct {
	fn func(this *html.Node, ev *Event)
}

// NewListener wraps fn into a listener. Every call creates a distinct
// listener, even for the same fn.
func NewListener(fn func(this *html.Node, ev *Event)) *Listener {
	return &Listener{fn: fn}
}

// HandleEvent calls the wrapped function. A nil listener does nothing.
func (l *Listener) HandleEvent(this *html.Node, ev *Event) {
	if l == nil || l.fn == nil {
		return
	}
	l.fn(this, ev)
}

// AddEventListener attaches l to node for events of type eventType.
// Adding a listener which is already attached is a no-op.
func (d *Document) AddEventListener(node *html.Node, eventType string, l *Listener) {
	if node == nil || l == nil {
		return
	}
	table := d.listeners[node]
	if table == nil {
		table = make(map[string][]*Listener)
		d.listeners[node] = table
	}
	for _, existing := range table[eventType] {
		if existing == l {
			return
		}
	}
	table[eventType] = append(table[eventType], l)
}

// RemoveEventListener detaches l from node. Removing a listener which has
// never been attached is a no-op.
func (d *Document) RemoveEventListener(node *html.Node, eventType string, l *Listener) {
	table := d.listeners[node]
	if table == nil {
		return
	}
	ls := table[eventType]
	for i, existing := range ls {
		if existing == l {
			rest := make([]*Listener, 0, len(ls)-1)
			rest = append(rest, ls[:i]...)
			table[eventType] = append(rest, ls[i+1:]...)
			break
		}
	}
	if len(table[eventType]) == 0 {
		delete(table, eventType)
	}
	if len(table) == 0 {
		delete(d.listeners, node)
	}
}

// ForgetListeners detaches every listener from n and its descendants.
func (d *Document) ForgetListeners(n *html.Node) {
	if n == nil {
		return
	}
	for node := range d.listeners {
		if Contains(n, node) {
			delete(d.listeners, node)
		}
	}
}

// ListenerCount returns the number of listeners attached to node for
// eventType.
func (d *Document) ListenerCount(node *html.Node, eventType string) int {
	return len(d.listeners[node][eventType])
}

// Dispatch delivers ev to target and, if the event bubbles, to all of
// target's ancestors. It returns false if a listener canceled the event.
//
// Listeners attached during dispatch do not run in the current node's
// listener round. Listeners removed during dispatch do not run anymore,
// even if they were part of the round. A panicking listener is reported and
// dispatch goes on with the next listener.
func (d *Document) Dispatch(target *html.Node, ev *Event) bool {
	if target == nil || ev == nil {
		return true
	}
	ev.Target = target
	for n := target; n != nil; n = n.Parent {
		ls := d.listeners[n][ev.Type]
		if len(ls) > 0 {
			round := make([]*Listener, len(ls))
			copy(round, ls)
			ev.CurrentTarget = n
			for _, l := range round {
				if !d.attached(n, ev.Type, l) {
					continue
				}
				d.invoke(l, n, ev)
				if ev.stoppedImmediate {
					break
				}
			}
		}
		if ev.stopped || !ev.Bubbles {
			break
		}
	}
	ev.CurrentTarget = nil
	return !ev.defaultPrevented
}

// attached reports wether l is currently attached to node for eventType.
func (d *Document) attached(node *html.Node, eventType string, l *Listener) bool {
	for _, existing := range d.listeners[node][eventType] {
		if existing == l {
			return true
		}
	}
	return false
}

func (d *Document) invoke(l *Listener, this *html.Node, ev *Event) {
	defer func() {
		if r := recover(); r != nil {
			d.Tracer().Errorf("event listener for '%s' panicked: %v", ev.Type, r)
		}
	}()
	l.HandleEvent(this, ev)
}
