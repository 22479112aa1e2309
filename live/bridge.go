/*
Package live connects a page to a WebSocket peer.

A Bridge reads messages of the form

    {"selector": "#cart", "event": "refresh", "detail": {...}}

from the peer and triggers the event on all nodes of the page matching the
selector. In the other direction, Forward reports delegated events of the
page back to the peer as

    {"selector": "button", "event": "click", "target": "#fq-…"}

The bridge never touches the page from its reading goroutine: every incoming
message is handed over to the page's event loop with Loop.Post. Clients
therefore have to drive the loop (dom.Loop.Run) for messages to take effect.
Posting never blocks the reader; messages queue up in the loop until it is
driven.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package live

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/npillmayer/fquery"
	"github.com/npillmayer/fquery/dom"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// tracer traces with key 'fquery.live'.
func tracer() tracing.Trace {
	return tracing.Select("fquery.live")
}

// Message is the wire format of the bridge, in both directions.
type Message struct {
	Selector string      `json:"selector"`
	Event    string      `json:"event"`
	Detail   interface{} `json:"detail,omitempty"`
	Target   string      `json:"target,omitempty"`
}

// ErrClosed is returned for writes after the bridge has been closed.
var ErrClosed = errors.New("bridge is closed")

// Bridge couples a page and a WebSocket connection.
type Bridge struct {
	page    *fquery.Page
	conn    *websocket.Conn
	writeMu sync.Mutex // gorilla connections support one concurrent writer
	closeMu sync.Mutex
	closed  bool
}

// New creates a bridge for an established connection.
func New(page *fquery.Page, conn *websocket.Conn) *Bridge {
	return &Bridge{page: page, conn: conn}
}

// Dial connects to a WebSocket server at url and creates a bridge for page.
func Dial(ctx context.Context, url string, page *fquery.Page) (*Bridge, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot connect to %s", url)
	}
	tracer().Infof("live bridge connected to %s", url)
	return New(page, conn), nil
}

// Serve reads messages until ctx is done or the peer closes the connection.
// Each message is posted to the page's loop, where it triggers its event on
// the nodes matching its selector.
//
// Reading does not stall if the loop is not driven: posted messages queue
// up until the loop runs them.
//
// Serve returns ctx.Err() if the context ended, nil if the peer closed the
// connection normally, and the transport error otherwise. The connection is
// closed when Serve returns.
func (b *Bridge) Serve(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			b.Close()
		case <-done:
		}
	}()
	defer b.Close()
	for {
		var msg Message
		if err := b.conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				tracer().Infof("live bridge closed by peer")
				return nil
			}
			return errors.Wrap(err, "live bridge read")
		}
		if msg.Selector == "" || msg.Event == "" {
			tracer().Infof("dropping incomplete message %+v", msg)
			continue
		}
		tracer().Debugf("received %s for %q", msg.Event, msg.Selector)
		b.page.Loop().Post(func() {
			b.page.Q(fquery.Selector(msg.Selector)).Trigger(msg.Event, msg.Detail)
		})
	}
}

// Forward reports events of eventType on nodes matching selector to the
// peer. Elements without an id are given one, so the peer can address
// them in later messages. The returned listener removes the forwarding
// when handed to Unforward.
//
// Forward must be called on the goroutine driving the page's loop.
func (b *Bridge) Forward(eventType, selector string) *dom.Listener {
	h := fquery.Handler(func(this *html.Node, ev *dom.Event) {
		id := b.page.Q(fquery.Node(this)).UniqueID().Attr("id")
		msg := Message{Selector: selector, Event: eventType, Target: "#" + id}
		if err := b.Send(msg); err != nil {
			tracer().Errorf("cannot forward %s: %v", eventType, err)
		}
	})
	b.page.Q(fquery.Node(b.page.Document().Root())).On(eventType, selector, h)
	return h
}

// Unforward stops forwarding installed by Forward.
func (b *Bridge) Unforward(eventType, selector string, h *dom.Listener) {
	b.page.Q(fquery.Node(b.page.Document().Root())).Off(eventType, selector, h)
}

// Send writes a message to the peer. It is safe for concurrent use.
func (b *Bridge) Send(msg Message) error {
	b.closeMu.Lock()
	closed := b.closed
	b.closeMu.Unlock()
	if closed {
		return ErrClosed
	}
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	if err := b.conn.WriteJSON(msg); err != nil {
		return errors.Wrap(err, "live bridge write")
	}
	return nil
}

// Close sends a close frame and closes the connection. Calling Close more
// than once is harmless.
func (b *Bridge) Close() error {
	b.closeMu.Lock()
	if b.closed {
		b.closeMu.Unlock()
		return nil
	}
	b.closed = true
	b.closeMu.Unlock()
	b.writeMu.Lock()
	_ = b.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	b.writeMu.Unlock()
	return b.conn.Close()
}
