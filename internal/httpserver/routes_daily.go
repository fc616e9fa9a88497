// internal/httpserver/routes_daily.go
//
// HTTP routes for the "daily" mode.
// Exposes two endpoints under /daily:
//   - GET  /daily     → today's date key (UTC), the day the daily word belongs to
//   - POST /daily/new → start a game on today's word; same response as POST /game/new
//
// Every daily game started on the same UTC date plays the same word
// (deterministic selection from date + salt, see internal/daily). Daily games
// are ordinary sessions afterwards; nothing about results is recorded.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/assembly-endgame/internal/daily"
	"github.com/robalobadob/assembly-endgame/internal/session"
)

// dailyRes is returned by GET /daily.
type dailyRes struct {
	Date string `json:"date"`
	Mode string `json:"mode"`
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, dailyRes{Date: daily.DateKey(time.Now()), Mode: session.ModeDaily})
		})
		r.Post("/new", func(w http.ResponseWriter, r *http.Request) {
			s.respondNewGame(w, r, session.ModeDaily)
		})
	})
}
