package feed

import (
	"context"
	"time"
)

type EventType string

const (
	EvtRoundStarted EventType = "round_started"
	EvtWordPlayed   EventType = "word_played"
	EvtRoundWon     EventType = "round_won"
)

// Event is one broadcast round update.
type Event struct {
	Type     EventType `json:"type"`
	RoundID  string    `json:"roundId"`
	Player   string    `json:"player,omitempty"`
	Word     string    `json:"word,omitempty"`
	NextWord string    `json:"nextWord,omitempty"`
	Score    int       `json:"score,omitempty"`
	At       time.Time `json:"at"`
}

type Msg interface{ isFeedMsg() }

type Subscribe struct {
	ClientID string
	Outbox   chan Event // where this client wants to receive events
}

type Unsubscribe struct{ ClientID string }

type Publish struct{ Event Event }

// NumClients is answered with the current subscriber count.
// Reply should be buffered; the hub waits on an unread Reply until it stops.
type NumClients struct{ Reply chan int }

type Shutdown struct{}

func (Subscribe) isFeedMsg()   {}
func (Unsubscribe) isFeedMsg() {}
func (Publish) isFeedMsg()     {}
func (NumClients) isFeedMsg()  {}
func (Shutdown) isFeedMsg()    {}

// Hub fans events out to subscribers. One goroutine owns the client map.
type Hub struct {
	inbox   chan Msg
	clients map[string]chan Event
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewHub(parent context.Context) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan Msg, 64),
		clients: make(map[string]chan Event),
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

// Inbox exposes the hub's message channel.
func (h *Hub) Inbox() chan<- Msg { return h.inbox }

// Done is closed once the hub has stopped.
func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

// Publish, Subscribe and Unsubscribe are no-ops once the hub has stopped.
func (h *Hub) Publish(ev Event) { h.send(Publish{Event: ev}) }

func (h *Hub) Subscribe(clientID string, outbox chan Event) {
	h.send(Subscribe{ClientID: clientID, Outbox: outbox})
}

func (h *Hub) Unsubscribe(clientID string) { h.send(Unsubscribe{ClientID: clientID}) }

// Close stops the hub and closes every subscriber outbox.
func (h *Hub) Close() { h.send(Shutdown{}) }

func (h *Hub) send(m Msg) {
	select {
	case h.inbox <- m:
	case <-h.ctx.Done():
	}
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Subscribe:
				h.clients[msg.ClientID] = msg.Outbox

			case Unsubscribe:
				if ch, ok := h.clients[msg.ClientID]; ok {
					close(ch)
					delete(h.clients, msg.ClientID)
				}

			case Publish:
				h.broadcast(msg.Event)

			case NumClients:
				select {
				case msg.Reply <- len(h.clients):
				case <-h.ctx.Done():
					h.shutdown()
					return
				}

			case Shutdown:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for id, ch := range h.clients {
		close(ch) // no more events
		delete(h.clients, id)
	}
	h.cancel()
}

func (h *Hub) broadcast(ev Event) {
	for id, ch := range h.clients {
		select {
		case ch <- ev:
		default:
			// Slow client with a full outbox: drop it.
			close(ch)
			delete(h.clients, id)
		}
	}
}
