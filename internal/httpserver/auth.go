// internal/httpserver/auth.go
//
// Game tokens: an HS256 JWT whose "gid" claim names the one game the bearer
// may play. Tokens are issued by POST /game/new (and by "/" for a new
// browser) and checked on every /game/{id} route.

package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/hlog"
)

const cookieName = "endgame_token"

var errInvalidToken = errors.New("invalid token")

// gameClaims are the claims of a game token.
type gameClaims struct {
	GameID string `json:"gid"`
	jwt.RegisteredClaims
}

// signToken creates a token for gameID expiring after TokenTTL.
func (s *Server) signToken(gameID string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.opts.TokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, gameClaims{
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	ss, err := t.SignedString([]byte(s.opts.JWTSecret))
	return ss, exp, err
}

// parseToken validates tok and returns its game ID.
func (s *Server) parseToken(tok string) (string, error) {
	var claims gameClaims
	t, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid || claims.GameID == "" {
		return "", errInvalidToken
	}
	return claims.GameID, nil
}

// setGameCookie writes the token cookie with appropriate security attributes.
func (s *Server) setGameCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.opts.SecureCookie {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a token from the Authorization header, the cookie,
// or the "token" query parameter (websocket clients that cannot set headers).
func bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return r.URL.Query().Get("token")
}

// requireGameToken enforces a valid token for the {id} in the route.
func (s *Server) requireGameToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerOrCookie(r)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		gid, err := s.parseToken(tok)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		if gid != chi.URLParam(r, "id") {
			hlog.FromRequest(r).Debug().Str("tokenGame", gid).Msg("token for another game")
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
