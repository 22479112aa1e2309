package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/npillmayer/fquery"
	"github.com/npillmayer/fquery/dom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

// echoServer sends msg to every client and reports everything it reads.
func echoServer(t *testing.T, msg Message, received chan<- Message) *httptest.Server {
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		if err := conn.WriteJSON(msg); err != nil {
			t.Errorf("write: %v", err)
			return
		}
		for {
			var in Message
			if err := conn.ReadJSON(&in); err != nil {
				return
			}
			received <- in
		}
	}))
}

func TestBridgeRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery.live")
	defer teardown()
	//
	doc, err := dom.ParseString(`<html><body><div id="box"><button>go</button></div></body></html>`)
	require.NoError(t, err)
	doc.Load()
	page := fquery.NewPage(doc)
	defer page.Close()
	//
	received := make(chan Message, 4)
	srv := echoServer(t, Message{Selector: "button", Event: "click", Detail: "remote"}, received)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	//
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	b, err := Dial(ctx, url, page)
	require.NoError(t, err)
	//
	var details []interface{}
	page.Q(fquery.Selector("button")).On("click", "", fquery.Handler(func(_ *html.Node, ev *dom.Event) {
		details = append(details, ev.Detail)
	}))
	b.Forward("click", "button")
	//
	serveErr := make(chan error, 1)
	go func() { serveErr <- b.Serve(ctx) }()
	var got Message
	go func() {
		select {
		case got = <-received:
		case <-ctx.Done():
		}
		cancel()
	}()
	err = page.Loop().Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, <-serveErr, context.Canceled)
	//
	assert.Equal(t, []interface{}{"remote"}, details)
	assert.Equal(t, "click", got.Event)
	assert.Equal(t, "button", got.Selector)
	assert.True(t, strings.HasPrefix(got.Target, "#fq-"), "target is %q", got.Target)
	assert.Equal(t, strings.TrimPrefix(got.Target, "#"), page.Q(fquery.Selector("button")).Attr("id"))
}

func TestSendAfterClose(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery.live")
	defer teardown()
	//
	received := make(chan Message, 1)
	srv := echoServer(t, Message{Selector: "p", Event: "noop"}, received)
	defer srv.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	b, err := Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), fquery.NewPage(nil))
	require.NoError(t, err)
	require.NoError(t, b.Close())
	assert.NoError(t, b.Close())
	assert.ErrorIs(t, b.Send(Message{Selector: "p", Event: "x"}), ErrClosed)
}

func TestDialError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery.live")
	defer teardown()
	//
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := Dial(ctx, "ws://127.0.0.1:1/none", fquery.NewPage(nil))
	assert.Error(t, err)
}
