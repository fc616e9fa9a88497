// internal/httpserver/server.go
//
// HTTP server wiring for the Assembly: Endgame backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, request logging, panic
//     recovery, CORS, timeouts on the JSON API).
//   - Public endpoints: "/" (HTML page), "/health", "/debug/words", "/static/*".
//   - Game endpoints: POST /game/new, then token-protected /game/{id}/*.
//   - Daily endpoints: mounted under /daily.
//
// Notes:
//   - A game token binds a browser to one game; it travels as a cookie for the
//     page and websocket, or as a Bearer header for API clients.
//   - The websocket route is outside the timeout group; its lifetime is the
//     connection's.

package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/assembly-endgame/assets"
	"github.com/robalobadob/assembly-endgame/internal/session"
)

// WordStats reports catalog sizes for /debug/words.
type WordStats interface {
	Len() int
	Stats() map[string]int
}

// Options configure a Server.
type Options struct {
	ClientOrigin string // credentialed CORS origin; empty disables CORS
	JWTSecret    string
	TokenTTL     time.Duration
	SecureCookie bool
	Logger       zerolog.Logger
}

// Server bundles router, session hub and word stats.
type Server struct {
	r     *chi.Mux
	hub   *session.Hub
	words WordStats
	opts  Options
	log   zerolog.Logger
}

// New constructs a Server, installs middleware, and registers routes.
func New(hub *session.Hub, ws WordStats, opts Options) *Server {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	s := &Server{r: chi.NewRouter(), hub: hub, words: ws, opts: opts, log: opts.Logger}

	// --- middleware ---
	s.r.Use(chimw.RequestID)         // add X-Request-ID
	s.r.Use(chimw.RealIP)            // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(s.log))  // request-scoped logger
	s.r.Use(accessLog())             // one line per request
	s.r.Use(chimw.Recoverer)         // recover from panics
	s.r.Use(cors(opts.ClientOrigin)) // credentials-friendly CORS

	// --- page + assets ---
	s.r.Get("/", s.handleIndex)
	s.r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(assets.Static())))

	// --- JSON API ---
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		// Debug: word list counts
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"total": s.words.Len(), "categories": s.words.Stats()})
		})
		r.Post("/game/new", s.handleNewGame)
		s.mountDaily(r)
	})

	s.r.Route("/game/{id}", func(r chi.Router) {
		r.Use(s.requireGameToken)
		r.Get("/ws", s.handleWS)
		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(10 * time.Second))
			r.Use(jsonContentType)
			r.Get("/", s.handleGet)
			r.Post("/guess", s.handleGuess)
			r.Post("/restart", s.handleRestart)
			r.Post("/focus", s.handleFocus)
			r.Get("/board", s.handleBoard)
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.r }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if origin == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog logs method, path, status and latency through the request logger.
func accessLog() func(http.Handler) http.Handler {
	return hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		ev := hlog.FromRequest(r).Info()
		if status >= http.StatusInternalServerError {
			ev = hlog.FromRequest(r).Error()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Str("reqId", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// ------------------------------ helpers ------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": code}.
func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, "{\"error\":%q}\n", code)
}
