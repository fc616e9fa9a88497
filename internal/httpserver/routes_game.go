// internal/httpserver/routes_game.go
//
// Game routes. Every response that changes or reads a game carries the full
// snapshot, so clients never derive state themselves.
//   - GET  /                      → HTML page for the browser's game (created on demand)
//   - POST /game/new              → {gameId, token}, sets the game cookie
//   - GET  /game/{id}             → snapshot
//   - POST /game/{id}/guess       → {letter} → snapshot
//   - POST /game/{id}/restart     → snapshot of a fresh word (409 until the game is over)
//   - POST /game/{id}/focus       → {focused} → snapshot
//   - GET  /game/{id}/board       → HTML fragment

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/assembly-endgame/internal/game"
	"github.com/robalobadob/assembly-endgame/internal/session"
	"github.com/robalobadob/assembly-endgame/internal/view"
)

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode string `json:"mode"` // "random" (default) | "daily"
}
type newGameRes struct {
	GameID string `json:"gameId"`
	Token  string `json:"token"`
}

type guessReq struct {
	Letter string `json:"letter"`
}

type focusReq struct {
	Focused bool `json:"focused"`
}

// handleIndex serves the page for the game named by the browser's token,
// starting a new game when there is none.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var sess *session.Session
	if tok := bearerOrCookie(r); tok != "" {
		if gid, err := s.parseToken(tok); err == nil {
			var err error
			if sess, err = s.hub.Get(ctx, gid); err != nil && !errors.Is(err, session.ErrNotFound) {
				hlog.FromRequest(r).Warn().Err(err).Str("gameId", gid).Msg("resume game failed, starting a new one")
			}
		}
	}
	if sess == nil {
		var err error
		if sess, _, err = s.startGame(ctx, w, session.ModeRandom); err != nil {
			s.writeSessionError(w, r, err)
			return
		}
	}
	snap, err := sess.Snapshot(ctx)
	if err != nil {
		s.writeSessionError(w, r, err)
		return
	}
	templ.Handler(view.Page(view.PageData{Snapshot: snap})).ServeHTTP(w, r)
}

// handleNewGame creates a game and hands out its token.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	// an empty body means the default mode
	_ = json.NewDecoder(r.Body).Decode(&req)
	s.respondNewGame(w, r, req.Mode)
}

func (s *Server) respondNewGame(w http.ResponseWriter, r *http.Request, mode string) {
	sess, tok, err := s.startGame(r.Context(), w, mode)
	if err != nil {
		s.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameRes{GameID: sess.ID(), Token: tok})
}

// startGame creates a game, signs its token and sets the cookie.
func (s *Server) startGame(ctx context.Context, w http.ResponseWriter, mode string) (*session.Session, string, error) {
	sess, err := s.hub.Create(ctx, mode)
	if err != nil {
		return nil, "", err
	}
	tok, exp, err := s.signToken(sess.ID())
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	s.setGameCookie(w, tok, exp)
	return sess, tok, nil
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(ctx context.Context, sess *session.Session) (game.Snapshot, error) {
		return sess.Snapshot(ctx)
	})
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if utf8.RuneCountInString(req.Letter) != 1 {
		writeError(w, http.StatusBadRequest, "invalid_letter")
		return
	}
	letter, _ := utf8.DecodeRuneInString(req.Letter)
	s.withSession(w, r, func(ctx context.Context, sess *session.Session) (game.Snapshot, error) {
		return sess.Guess(ctx, letter)
	})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(ctx context.Context, sess *session.Session) (game.Snapshot, error) {
		return sess.NewGame(ctx)
	})
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	var req focusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.withSession(w, r, func(ctx context.Context, sess *session.Session) (game.Snapshot, error) {
		return sess.SetFocus(ctx, session.APIClient, req.Focused)
	})
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	snap, err := s.call(r, func(ctx context.Context, sess *session.Session) (game.Snapshot, error) {
		return sess.Snapshot(ctx)
	})
	if err != nil {
		s.writeSessionError(w, r, err)
		return
	}
	templ.Handler(view.Board(snap)).ServeHTTP(w, r)
}

// withSession runs fn against the route's session and writes the snapshot.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(context.Context, *session.Session) (game.Snapshot, error)) {
	snap, err := s.call(r, fn)
	if err != nil {
		s.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// call looks the session up and runs fn, retrying once if the session was
// evicted in between (the hub then restores it from the store).
func (s *Server) call(r *http.Request, fn func(context.Context, *session.Session) (game.Snapshot, error)) (game.Snapshot, error) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	for attempt := 0; ; attempt++ {
		sess, err := s.hub.Get(ctx, id)
		if err != nil {
			return game.Snapshot{}, err
		}
		snap, err := fn(ctx, sess)
		if errors.Is(err, session.ErrClosed) && attempt == 0 {
			continue
		}
		return snap, err
	}
}

// writeSessionError maps domain errors to status codes.
func (s *Server) writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidLetter):
		writeError(w, http.StatusBadRequest, "invalid_letter")
	case errors.Is(err, session.ErrInvalidMode):
		writeError(w, http.StatusBadRequest, "invalid_mode")
	case errors.Is(err, game.ErrGameOver):
		writeError(w, http.StatusConflict, "game_over")
	case errors.Is(err, session.ErrGameInProgress):
		writeError(w, http.StatusConflict, "game_in_progress")
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "timeout")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("game request failed")
		writeError(w, http.StatusInternalServerError, "internal")
	}
}
