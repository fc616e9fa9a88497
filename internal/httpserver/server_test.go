package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/assembly-endgame/internal/game"
	"github.com/robalobadob/assembly-endgame/internal/session"
	"github.com/robalobadob/assembly-endgame/internal/store"
	"github.com/robalobadob/assembly-endgame/internal/words"
)

const testSecret = "test_secret"

// idleClock hands out tickers that never fire, so snapshots only change
// when a test acts.
type idleClock struct{}

func (idleClock) NewTicker(time.Duration) game.Ticker { return idleTicker{} }

type idleTicker struct{}

func (idleTicker) C() <-chan time.Time { return nil }
func (idleTicker) Stop()               {}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cat, err := words.Parse("[HTML]\ngo\n")
	if err != nil {
		t.Fatalf("words.Parse() = %v", err)
	}
	hub := session.NewHub(cat, session.HubOptions{Store: store.NewMemoryStore(), Clock: idleClock{}, DailySalt: "salt"})
	t.Cleanup(hub.Close)
	return New(hub, cat, Options{JWTSecret: testSecret, TokenTTL: time.Hour, Logger: zerolog.Nop()})
}

func do(t *testing.T, s *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func newGame(t *testing.T, s *Server, body string) newGameRes {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/game/new", "", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /game/new = %d %s", rec.Code, rec.Body)
	}
	var res newGameRes
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.GameID == "" || res.Token == "" {
		t.Fatalf("incomplete response %+v", res)
	}
	return res
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) game.Snapshot {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d %s", rec.Code, rec.Body)
	}
	var snap game.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

func errorCodeOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Fatalf("GET /health = %d %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("content type %q", ct)
	}
}

func TestDebugWords(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/debug/words", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"total":1`) {
		t.Fatalf("GET /debug/words = %d %s", rec.Code, rec.Body)
	}
}

func TestGuessFlow(t *testing.T) {
	s := newTestServer(t)
	g := newGame(t, s, `{"mode":"random"}`)
	base := "/game/" + g.GameID

	snap := decodeSnapshot(t, do(t, s, http.MethodGet, base, g.Token, ""))
	if snap.ID != g.GameID || snap.TimeLeft != game.RoundSeconds || snap.Answer != "" {
		t.Fatalf("fresh snapshot = %+v", snap)
	}
	if !snap.Paused || snap.Timer != game.TimerPaused {
		t.Fatalf("new web game should wait for focus: timer=%v", snap.Timer)
	}

	snap = decodeSnapshot(t, do(t, s, http.MethodPost, base+"/guess", g.Token, `{"letter":"x"}`))
	if snap.WrongGuessCount != 1 || snap.Status.Kind != game.StatusFarewell || !snap.Chips[0].Eliminated {
		t.Fatalf("after wrong guess: %+v", snap)
	}

	rec := do(t, s, http.MethodPost, base+"/guess", g.Token, `{"letter":"7"}`)
	if rec.Code != http.StatusBadRequest || errorCodeOf(t, rec) != "invalid_letter" {
		t.Fatalf("guess 7 = %d", rec.Code)
	}
	rec = do(t, s, http.MethodPost, base+"/guess", g.Token, `{"letter":"ab"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("guess ab = %d", rec.Code)
	}

	decodeSnapshot(t, do(t, s, http.MethodPost, base+"/guess", g.Token, `{"letter":"G"}`))
	snap = decodeSnapshot(t, do(t, s, http.MethodPost, base+"/guess", g.Token, `{"letter":"o"}`))
	if !snap.Won || snap.Answer != "go" || snap.Celebration == nil || snap.Celebration.Pieces != game.CelebrationPieces {
		t.Fatalf("after win: %+v", snap)
	}

	rec = do(t, s, http.MethodPost, base+"/guess", g.Token, `{"letter":"z"}`)
	if rec.Code != http.StatusConflict || errorCodeOf(t, rec) != "game_over" {
		t.Fatalf("guess after win = %d", rec.Code)
	}

	snap = decodeSnapshot(t, do(t, s, http.MethodPost, base+"/restart", g.Token, ""))
	if snap.Over || snap.LastGuess != "" || snap.TimeLeft != game.RoundSeconds {
		t.Fatalf("after restart: %+v", snap)
	}
}

func TestFocusStartsTimer(t *testing.T) {
	s := newTestServer(t)
	g := newGame(t, s, "")
	snap := decodeSnapshot(t, do(t, s, http.MethodPost, "/game/"+g.GameID+"/focus", g.Token, `{"focused":true}`))
	if snap.Timer != game.TimerRunning || snap.Paused {
		t.Fatalf("after focus: timer=%v paused=%v", snap.Timer, snap.Paused)
	}
	snap = decodeSnapshot(t, do(t, s, http.MethodPost, "/game/"+g.GameID+"/focus", g.Token, `{"focused":false}`))
	if snap.Timer != game.TimerPaused || !snap.Paused {
		t.Fatalf("after blur: timer=%v paused=%v", snap.Timer, snap.Paused)
	}
	rec := do(t, s, http.MethodPost, "/game/"+g.GameID+"/focus", g.Token, `nope`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad focus body = %d", rec.Code)
	}
}

func TestTokenRequired(t *testing.T) {
	s := newTestServer(t)
	a := newGame(t, s, "")
	b := newGame(t, s, "")

	cases := []struct {
		name, token string
	}{
		{"missing", ""},
		{"garbage", "not.a.jwt"},
		{"other game", b.Token},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/game/"+a.GameID, tc.token, "")
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}

	other := New(nil, nil, Options{JWTSecret: "another_secret"})
	forged, _, err := other.signToken(a.GameID)
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	if rec := do(t, s, http.MethodGet, "/game/"+a.GameID, forged, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("forged token = %d, want 401", rec.Code)
	}
}

func TestUnknownGame(t *testing.T) {
	s := newTestServer(t)
	tok, _, err := s.signToken("missing")
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	rec := do(t, s, http.MethodGet, "/game/missing", tok, "")
	if rec.Code != http.StatusNotFound || errorCodeOf(t, rec) != "not_found" {
		t.Fatalf("unknown game = %d", rec.Code)
	}
}

func TestInvalidMode(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/game/new", "", `{"mode":"hard"}`)
	if rec.Code != http.StatusBadRequest || errorCodeOf(t, rec) != "invalid_mode" {
		t.Fatalf("mode hard = %d", rec.Code)
	}
}

func TestBoardFragment(t *testing.T) {
	s := newTestServer(t)
	g := newGame(t, s, "")
	rec := do(t, s, http.MethodGet, "/game/"+g.GameID+"/board", g.Token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET board = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("board content type %q", ct)
	}
	if body := rec.Body.String(); !strings.HasPrefix(body, `<main id="board"`) || !strings.Contains(body, g.GameID) {
		t.Fatalf("board body = %s", body)
	}
}

func TestIndexCreatesAndResumesGame(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<!doctype html>") {
		t.Fatalf("GET / = %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != cookieName || !cookies[0].HttpOnly {
		t.Fatalf("cookies = %+v", cookies)
	}
	gid, err := s.parseToken(cookies[0].Value)
	if err != nil {
		t.Fatalf("cookie token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	again := httptest.NewRecorder()
	s.Handler().ServeHTTP(again, req)
	if len(again.Result().Cookies()) != 0 {
		t.Fatal("returning browser got a new game")
	}
	if !strings.Contains(again.Body.String(), `data-game-id="`+gid+`"`) {
		t.Fatal("page does not show the cookie's game")
	}
}

// brokenStore fails every lookup.
type brokenStore struct{ store.Store }

func (brokenStore) Get(context.Context, string) (store.Record, error) {
	return store.Record{}, errors.New("disk unavailable")
}

func TestIndexLogsResumeFailure(t *testing.T) {
	cat, err := words.Parse("[HTML]\ngo\n")
	if err != nil {
		t.Fatalf("words.Parse() = %v", err)
	}
	hub := session.NewHub(cat, session.HubOptions{Store: brokenStore{store.NewMemoryStore()}, Clock: idleClock{}})
	t.Cleanup(hub.Close)
	var logs bytes.Buffer
	s := New(hub, cat, Options{JWTSecret: testSecret, TokenTTL: time.Hour, Logger: zerolog.New(&logs)})

	tok, _, err := s.signToken("evicted-game")
	if err != nil {
		t.Fatalf("signToken() = %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: tok})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || len(rec.Result().Cookies()) != 1 {
		t.Fatalf("GET / = %d, cookies %d", rec.Code, len(rec.Result().Cookies()))
	}
	if !strings.Contains(logs.String(), "resume game failed") || !strings.Contains(logs.String(), "disk unavailable") {
		t.Fatalf("resume failure not logged:\n%s", logs.String())
	}
}

func TestRestartRefusedMidGame(t *testing.T) {
	s := newTestServer(t)
	g := newGame(t, s, "")
	base := "/game/" + g.GameID
	decodeSnapshot(t, do(t, s, http.MethodPost, base+"/guess", g.Token, `{"letter":"x"}`))

	rec := do(t, s, http.MethodPost, base+"/restart", g.Token, "")
	if rec.Code != http.StatusConflict || errorCodeOf(t, rec) != "game_in_progress" {
		t.Fatalf("restart mid-game = %d", rec.Code)
	}
	snap := decodeSnapshot(t, do(t, s, http.MethodGet, base, g.Token, ""))
	if snap.WrongGuessCount != 1 {
		t.Fatalf("restart mid-game reset the game: %+v", snap)
	}
}

func TestDailyRoutes(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/daily", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /daily = %d", rec.Code)
	}
	var d dailyRes
	if err := json.NewDecoder(rec.Body).Decode(&d); err != nil || len(d.Date) != len("2006-01-02") || d.Mode != session.ModeDaily {
		t.Fatalf("daily = %+v, %v", d, err)
	}

	rec = do(t, s, http.MethodPost, "/daily/new", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /daily/new = %d", rec.Code)
	}
	var g newGameRes
	if err := json.NewDecoder(rec.Body).Decode(&g); err != nil {
		t.Fatalf("decode: %v", err)
	}
	snap := decodeSnapshot(t, do(t, s, http.MethodGet, "/game/"+g.GameID, g.Token, ""))
	if len(snap.Cells) != 2 {
		t.Fatalf("daily word has %d letters, want 2", len(snap.Cells))
	}
}

func TestStaticAssets(t *testing.T) {
	s := newTestServer(t)
	for _, p := range []string{"/static/app.css", "/static/app.js"} {
		if rec := do(t, s, http.MethodGet, p, "", ""); rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d", p, rec.Code)
		}
	}
}

func TestNotFoundIsJSON(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/nowhere", "", "")
	if rec.Code != http.StatusNotFound || errorCodeOf(t, rec) != "not_found" {
		t.Fatalf("GET /nowhere = %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	cat, _ := words.Parse("[HTML]\ngo\n")
	hub := session.NewHub(cat, session.HubOptions{})
	t.Cleanup(hub.Close)
	s := New(hub, cat, Options{JWTSecret: testSecret, ClientOrigin: "http://localhost:5173", Logger: zerolog.Nop()})

	rec := do(t, s, http.MethodOptions, "/game/new", "", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow origin = %q", got)
	}
}
