package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/eventbus"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/middleware"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

const (
	realtimeBufferSize   = 64
	realtimeWriteTimeout = 10 * time.Second
)

// Subscriber is implemented by *eventbus.Bus.
type Subscriber interface {
	Subscribe(name string, h eventbus.Handler) (unsubscribe func())
}

// RealtimeController streams row-change events over a WebSocket so open
// dashboards can re-fetch. Non-admin sessions only see events that carry
// no tenant or their own tenant id.
type RealtimeController struct {
	bus            Subscriber
	originPatterns []string
}

func NewRealtimeController(bus Subscriber, originPatterns []string) *RealtimeController {
	return &RealtimeController{bus: bus, originPatterns: originPatterns}
}

type subscription struct {
	table string
	event eventbus.EventType
}

type realtimeClient struct {
	session *middleware.Session
	out     chan eventbus.ChangeEvent

	mu   sync.Mutex
	subs map[subscription]struct{}
}

func (c *realtimeClient) HandleEvent(_ context.Context, evt eventbus.ChangeEvent) error {
	if !c.visible(evt) || !c.wants(evt) {
		return nil
	}
	select {
	case c.out <- evt:
	default:
		utils.Logger.Debugf("realtime: subscriber %s is slow, dropping %s %s", c.session.UserID, evt.Table, evt.Event)
	}
	return nil
}

func (c *realtimeClient) visible(evt eventbus.ChangeEvent) bool {
	if c.session.IsAdmin() || evt.TenantID == nil {
		return true
	}
	return *evt.TenantID == c.session.UserID
}

func (c *realtimeClient) wants(evt eventbus.ChangeEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for s := range c.subs {
		if eventbus.Matches(evt, s.table, s.event) {
			return true
		}
	}
	return false
}

func (c *realtimeClient) set(s subscription, on bool) {
	c.mu.Lock()
	if on {
		c.subs[s] = struct{}{}
	} else {
		delete(c.subs, s)
	}
	c.mu.Unlock()
}

// ServeHTTP -> GET /api/v1/realtime
func (c *RealtimeController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: c.originPatterns,
	})
	if err != nil {
		utils.Logger.WithError(err).Warn("realtime: websocket accept failed")
		return
	}
	defer conn.CloseNow()

	client := &realtimeClient{
		session: sess,
		out:     make(chan eventbus.ChangeEvent, realtimeBufferSize),
		subs:    make(map[subscription]struct{}),
	}
	unsubscribe := c.bus.Subscribe("realtime:"+sess.UserID.String(), client)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		defer cancel()
		for {
			var msg dtos.RealtimeClientMessage
			if err := wsjson.Read(ctx, conn, &msg); err != nil {
				if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
					utils.Logger.WithError(err).Debug("realtime: read failed")
				}
				return
			}
			reply := c.apply(client, msg)
			if err := write(ctx, conn, reply); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case evt := <-client.out:
			change := evt
			if err := write(ctx, conn, dtos.RealtimeServerMessage{Type: dtos.RealtimeChange, Change: &change}); err != nil {
				return
			}
		}
	}
}

func (c *RealtimeController) apply(client *realtimeClient, msg dtos.RealtimeClientMessage) dtos.RealtimeServerMessage {
	s := subscription{table: msg.Table, event: msg.Event}
	switch msg.Type {
	case dtos.RealtimeSubscribe:
		client.set(s, true)
		return dtos.RealtimeServerMessage{Type: dtos.RealtimeSubscribed, Table: msg.Table, Event: msg.Event}
	case dtos.RealtimeUnsubscribe:
		client.set(s, false)
		return dtos.RealtimeServerMessage{Type: dtos.RealtimeUnsubscribe, Table: msg.Table, Event: msg.Event}
	default:
		return dtos.RealtimeServerMessage{Type: dtos.RealtimeError, Error: "unknown message type: " + msg.Type}
	}
}

func write(ctx context.Context, conn *websocket.Conn, msg dtos.RealtimeServerMessage) error {
	wctx, cancel := context.WithTimeout(ctx, realtimeWriteTimeout)
	defer cancel()
	return wsjson.Write(wctx, conn, msg)
}
