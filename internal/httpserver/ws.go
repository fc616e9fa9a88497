// internal/httpserver/ws.go
//
// GET /game/{id}/ws: live snapshots for one game.
//
// Server → client: {"type":"snapshot","payload":<Snapshot>,"html":<board fragment>}
//                  {"type":"error","payload":{"code":"game_over"}}
//                  {"type":"pong"}
// Client → server: {"type":"guess","letter":"a"} | {"type":"focus"} | {"type":"blur"}
//                  {"type":"new_game"} | {"type":"ping"}
//
// Each connection runs a read pump (commands into the session) and a write
// pump (session subscription out to the socket, plus keepalive pings).
// Each connection reports focus under its own client ID; disconnecting
// withdraws only that connection's focus.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/assembly-endgame/internal/game"
	"github.com/robalobadob/assembly-endgame/internal/session"
	"github.com/robalobadob/assembly-endgame/internal/view"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Time allowed for one session command
	commandWait = 5 * time.Second
)

// Message types.
const (
	msgSnapshot = "snapshot"
	msgError    = "error"
	msgPong     = "pong"
	msgGuess    = "guess"
	msgFocus    = "focus"
	msgBlur     = "blur"
	msgNewGame  = "new_game"
	msgPing     = "ping"
)

type serverMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
	HTML    string `json:"html,omitempty"`
}

type clientMessage struct {
	Type   string `json:"type"`
	Letter string `json:"letter,omitempty"`
}

type errorPayload struct {
	Code string `json:"code"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || origin == s.opts.ClientOrigin {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && u.Host == r.Host
		},
	}
}

// handleWS upgrades the connection and streams the game.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess, err := s.hub.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeSessionError(w, r, err)
		return
	}
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		hlog.FromRequest(r).Debug().Err(err).Msg("websocket upgrade")
		return
	}
	logger := hlog.FromRequest(r).With().Str("gameId", sess.ID()).Logger()

	// The request context ends when the handler returns; the connection
	// outlives that, so the subscription gets its own.
	snaps, cancel, err := sess.Subscribe(context.Background())
	if err != nil {
		_ = conn.Close()
		return
	}
	c := newWSClient(conn, sess, logger)
	go c.writePump(snaps)
	c.readPump()
	cancel()
	c.close()
	logger.Debug().Msg("websocket closed")
}

type wsClient struct {
	id      string // focus key within the session
	conn    *websocket.Conn
	sess    *session.Session
	replies chan serverMessage
	done    chan struct{}
	log     zerolog.Logger
	once    sync.Once
}

func newWSClient(conn *websocket.Conn, sess *session.Session, log zerolog.Logger) *wsClient {
	return &wsClient{
		id:      uuid.NewString(),
		conn:    conn,
		sess:    sess,
		replies: make(chan serverMessage, 16),
		done:    make(chan struct{}),
		log:     log,
	}
}

func (c *wsClient) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// reply queues a direct message, dropping it if the buffer is full.
func (c *wsClient) reply(m serverMessage) {
	select {
	case c.replies <- m:
	default:
		c.log.Warn().Str("type", m.Type).Msg("send buffer full, message dropped")
	}
}

// readPump pumps commands from the connection into the session.
func (c *wsClient) readPump() {
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), commandWait)
		defer cancel()
		_, _ = c.sess.SetFocus(ctx, c.id, false)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug().Err(err).Msg("websocket read error")
			}
			return
		}
		c.handleMessage(data)
	}
}

func (c *wsClient) handleMessage(data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.reply(serverMessage{Type: msgError, Payload: errorPayload{Code: "bad_json"}})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandWait)
	defer cancel()

	var err error
	switch msg.Type {
	case msgGuess:
		if utf8.RuneCountInString(msg.Letter) != 1 {
			err = game.ErrInvalidLetter
			break
		}
		l, _ := utf8.DecodeRuneInString(msg.Letter)
		_, err = c.sess.Guess(ctx, l)
	case msgFocus:
		_, err = c.sess.SetFocus(ctx, c.id, true)
	case msgBlur:
		_, err = c.sess.SetFocus(ctx, c.id, false)
	case msgNewGame:
		_, err = c.sess.NewGame(ctx)
	case msgPing:
		c.reply(serverMessage{Type: msgPong})
	default:
		c.reply(serverMessage{Type: msgError, Payload: errorPayload{Code: "unknown_type"}})
	}
	if err != nil {
		c.reply(serverMessage{Type: msgError, Payload: errorPayload{Code: errorCode(err)}})
	}
}

// writePump pumps snapshots and replies to the connection.
func (c *wsClient) writePump(snaps <-chan game.Snapshot) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return
		case snap, ok := <-snaps:
			if !ok {
				// session closed
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "game closed"))
				return
			}
			html, err := view.RenderString(context.Background(), view.Board(snap))
			if err != nil {
				c.log.Error().Err(err).Msg("render board")
			}
			if err := c.write(serverMessage{Type: msgSnapshot, Payload: snap, HTML: html}); err != nil {
				return
			}
		case m := <-c.replies:
			if err := c.write(m); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *wsClient) write(m serverMessage) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(m)
}

// errorCode names err for clients, matching the JSON API's codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrInvalidLetter):
		return "invalid_letter"
	case errors.Is(err, game.ErrGameOver):
		return "game_over"
	case errors.Is(err, session.ErrGameInProgress):
		return "game_in_progress"
	case errors.Is(err, session.ErrClosed):
		return "closed"
	default:
		return "internal"
	}
}
