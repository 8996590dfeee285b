package httpserver

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/antakshari/internal/feed"
)

// handleFeed streams feed events over a websocket.
// ?roundId= limits the stream to one round.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	roundID := r.URL.Query().Get("roundId")

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(s.origin),
	})
	if err != nil {
		log.Debug().Err(err).Msg("websocket accept")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	out := make(chan feed.Event, 16)
	clientID := uuid.NewString()
	s.feed.Subscribe(clientID, out)
	defer s.feed.Unsubscribe(clientID)

	// Clients only listen; CloseRead discards input and cancels ctx on close.
	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-out:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "feed closed")
				return
			}
			if roundID != "" && ev.RoundID != roundID {
				continue
			}
			wctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := wsjson.Write(wctx, conn, ev)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// originPatterns converts the CORS origin into websocket host patterns.
func originPatterns(origin string) []string {
	if origin == "*" {
		return []string{"*"}
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{u.Host}
}
