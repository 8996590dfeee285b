// internal/httpserver/server.go
//
// HTTP server wiring for the word-chain backend.
// Responsibilities:
//   - Router + middleware (request IDs, access log, panic recovery, timeouts,
//     JSON content type, CORS).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints: GET /start, POST /rounds, POST /play, GET /leaderboard.
//   - Live feed: GET /ws (see ws.go).
//
// Notes:
//   - Rejected words are a 200 with {"valid":false}; only malformed bodies,
//     missing rounds and infrastructure faults are HTTP errors.
//   - /ws is mounted outside the Timeout middleware so streams stay open.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/antakshari/internal/feed"
	"github.com/robalobadob/antakshari/internal/game"
)

// maxBodyBytes bounds request bodies read by handlers.
const maxBodyBytes = 64 << 10

// WordCounter reports the dictionary size for /debug/words.
type WordCounter interface {
	Count(ctx context.Context) (int, error)
}

// Options configures a Server.
type Options struct {
	ClientOrigin   string        // CORS origin; "*" allows any.
	RequestTimeout time.Duration // per-request bound for non-streaming routes.
}

// Server bundles the router, the game engine and the live feed.
type Server struct {
	r      *chi.Mux
	engine *game.Engine
	words  WordCounter
	feed   *feed.Hub
	origin string
}

// New constructs a Server, installs middleware, and registers routes.
func New(eng *game.Engine, words WordCounter, hub *feed.Hub, opts Options) *Server {
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "*"
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	s := &Server{r: chi.NewRouter(), engine: eng, words: words, feed: hub, origin: opts.ClientOrigin}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)   // zerolog access log
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(cors(s.origin))  // CORS for browser clients

	s.r.Get("/ws", s.handleFeed)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(opts.RequestTimeout))
		r.Use(jsonContentType)

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"service":   "antakshari",
				"endpoints": []string{"/health", "GET /start", "POST /rounds", "POST /play", "GET /leaderboard", "GET /ws"},
			})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
		r.Get("/debug/words", s.handleWordStats)

		// --- game ---
		r.Get("/start", s.handleStart)
		r.Post("/rounds", s.handleNewRound)
		r.Post("/play", s.handlePlay)
		r.Get("/leaderboard", s.handleLeaderboard)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.r }

// ------------------------------ GAME ---------------------------------------

// startRes is returned by GET /start and POST /rounds.
type startRes struct {
	Word    string `json:"word"`
	RoundID string `json:"roundId"`
}

// handleStart (re)starts a round. Without ?roundId= it resets the shared round.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.startRound(w, r, r.URL.Query().Get("roundId"))
}

// handleNewRound starts a private round under a fresh UUID.
func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	s.startRound(w, r, uuid.NewString())
}

func (s *Server) startRound(w http.ResponseWriter, r *http.Request, roundID string) {
	round, err := s.engine.StartRound(r.Context(), roundID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.feed.Publish(feed.Event{
		Type:    feed.EvtRoundStarted,
		RoundID: round.ID,
		Word:    round.CurrentWord,
		At:      round.StartedAt,
	})
	writeJSON(w, http.StatusOK, startRes{Word: round.CurrentWord, RoundID: round.ID})
}

// playRes is returned by POST /play.
//
//	invalid:    {"valid":false,"message":...}
//	continuing: {"valid":true,"nextWord":...,"score":N}
//	final word: {"valid":true,"won":true,"message":...,"score":N}
type playRes struct {
	Valid    bool   `json:"valid"`
	Won      bool   `json:"won,omitempty"`
	Message  string `json:"message,omitempty"`
	NextWord string `json:"nextWord,omitempty"`
	Score    int    `json:"score,omitempty"`
}

// handlePlay validates the body, submits the word, and broadcasts valid plays.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_request"})
		return
	}
	req, err := game.ParsePlayRequest(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_request", "detail": err.Error()})
		return
	}

	res, err := s.engine.SubmitWord(r.Context(), req.RoundID, req.PlayerName, req.Word)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if res.Valid {
		roundID := req.RoundID
		if roundID == "" {
			roundID = game.DefaultRoundID
		}
		ev := feed.Event{
			Type:     feed.EvtWordPlayed,
			RoundID:  roundID,
			Player:   req.PlayerName,
			Word:     game.Lower(req.Word),
			NextWord: res.NextWord,
			Score:    res.Score,
			At:       time.Now().UTC(),
		}
		if res.Won {
			ev.Type = feed.EvtRoundWon
		}
		s.feed.Publish(ev)
	}

	writeJSON(w, http.StatusOK, playRes{
		Valid:    res.Valid,
		Won:      res.Won,
		Message:  res.Message,
		NextWord: res.NextWord,
		Score:    res.Score,
	})
}

// handleLeaderboard returns the top players, highest score first.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	top, err := s.engine.Leaderboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if top == nil {
		top = []game.PlayerRecord{}
	}
	writeJSON(w, http.StatusOK, top)
}

// handleWordStats reports the dictionary size.
func (s *Server) handleWordStats(w http.ResponseWriter, r *http.Request) {
	n, err := s.words.Count(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"words": n})
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors allows browser clients from origin. "*" allows any origin without
// credentials; a concrete origin is credentials-enabled.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if origin == "*" {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Vary", "Origin")
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger writes one zerolog line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Info().
				Str("requestId", chimw.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps engine and store errors to HTTP responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, game.ErrNoActiveRound):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no_active_round"})
	case errors.Is(err, game.ErrEmptyDictionary):
		log.Error().Err(err).Str("path", r.URL.Path).Msg("dictionary is empty")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "empty_dictionary"})
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "server_error"})
	}
}
