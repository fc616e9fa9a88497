// internal/session/session.go
//
// A Session hosts one game and its countdown.
//
// All state lives in a single goroutine (run) that selects on three things:
// commands from callers, the timer channel, and the close signal. Guesses,
// new games, focus changes and ticks are therefore applied one at a time and
// no lock guards the game. After every change the timer is re-synced and a
// fresh Snapshot goes to every subscriber.

package session

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/assembly-endgame/internal/game"
	"github.com/robalobadob/assembly-endgame/internal/store"
)

var (
	// ErrClosed is returned by calls on a closed session.
	ErrClosed = errors.New("session closed")
	// ErrGameInProgress is returned by NewGame before the game is over.
	ErrGameInProgress = errors.New("session: game in progress")
)

// Modes a game can be created in.
const (
	ModeRandom = "random"
	ModeDaily  = "daily"
)

// APIClient is the focus key for callers without a connection of their own
// (the JSON API and Options.Focused).
const APIClient = ""

const subscriberBuffer = 8

// Options configure a Session.
type Options struct {
	// Clock drives the countdown; nil means the wall clock.
	Clock game.Clock
	// Focused is the initial window focus. Browsers report focus once the
	// page loads, so the server starts sessions unfocused.
	Focused bool
	// Mode is recorded with the game for persistence.
	Mode string
	// OnChange is called from the session loop after every change.
	OnChange func(store.Record)
	Logger  zerolog.Logger
}

// Session is one live game.
type Session struct {
	id      string
	mode    string
	game    *game.Game
	timer   *game.Timer
	persist func(store.Record)
	log     zerolog.Logger

	cmds chan command
	done chan struct{}
	exit chan struct{}

	subs    map[int]chan game.Snapshot
	nextSub int
	// focus holds the clients currently reporting focus; the game counts
	// as focused while any of them does.
	focus map[string]struct{}

	lastActive  atomic.Int64 // unix nanos of the last caller interaction
	subscribers atomic.Int32
}

type command struct {
	// fn runs inside the loop and reports whether state changed.
	fn    func() (bool, error)
	reply chan result
}

type result struct {
	snap game.Snapshot
	err  error
}

// New starts the session loop for g.
func New(id string, g *game.Game, opts Options) *Session {
	mode := opts.Mode
	if mode == "" {
		mode = ModeRandom
	}
	s := &Session{
		id:      id,
		mode:    mode,
		game:    g,
		timer:   game.NewTimer(opts.Clock),
		persist: opts.OnChange,
		log:     opts.Logger.With().Str("gameId", id).Logger(),
		cmds:    make(chan command),
		done:    make(chan struct{}),
		exit:    make(chan struct{}),
		subs:    make(map[int]chan game.Snapshot),
		focus:   make(map[string]struct{}),
	}
	if opts.Focused {
		s.focus[APIClient] = struct{}{}
	}
	s.touch()
	s.timer.Sync(g.IsGameOver(), s.focused())
	go s.run()
	return s
}

// ID returns the game identifier.
func (s *Session) ID() string { return s.id }

// Mode returns the mode the game was created in.
func (s *Session) Mode() string { return s.mode }

// LastActive returns when a caller last interacted with the session.
func (s *Session) LastActive() time.Time { return time.Unix(0, s.lastActive.Load()) }

// Subscribers returns the number of open subscriptions.
func (s *Session) Subscribers() int { return int(s.subscribers.Load()) }

func (s *Session) touch() { s.lastActive.Store(time.Now().UnixNano()) }

// Guess applies a letter guess. A repeated letter is a no-op.
func (s *Session) Guess(ctx context.Context, letter rune) (game.Snapshot, error) {
	return s.do(ctx, func() (bool, error) {
		changed, err := s.game.AddGuessedLetter(letter)
		if err == nil && changed {
			s.log.Debug().Str("letter", string(letter)).Msg("guess")
		}
		return changed, err
	})
}

// NewGame replaces the word, clears guesses and restarts the clock. It is
// only allowed once the current game is over.
func (s *Session) NewGame(ctx context.Context) (game.Snapshot, error) {
	return s.do(ctx, func() (bool, error) {
		if !s.game.IsGameOver() {
			return false, ErrGameInProgress
		}
		s.game.StartNewGame()
		s.mode = ModeRandom
		s.log.Debug().Msg("new game")
		return true, nil
	})
}

// SetFocus records a window focus or blur signal from client. Each client
// keeps its own vote; blurring one client leaves the others focused.
func (s *Session) SetFocus(ctx context.Context, client string, focused bool) (game.Snapshot, error) {
	return s.do(ctx, func() (bool, error) {
		before := s.focused()
		if focused {
			s.focus[client] = struct{}{}
		} else {
			delete(s.focus, client)
		}
		if s.focused() == before {
			return false, nil
		}
		s.log.Debug().Str("client", client).Bool("focused", s.focused()).Msg("focus")
		return true, nil
	})
}

func (s *Session) focused() bool { return len(s.focus) > 0 }

// Snapshot returns the current state.
func (s *Session) Snapshot(ctx context.Context) (game.Snapshot, error) {
	return s.do(ctx, func() (bool, error) { return false, nil })
}

// Subscribe returns a channel receiving a snapshot after every change,
// starting with the current state. The channel is closed by cancel or when
// the session closes. Slow readers lose older snapshots, never the latest.
func (s *Session) Subscribe(ctx context.Context) (<-chan game.Snapshot, func(), error) {
	ch := make(chan game.Snapshot, subscriberBuffer)
	var id int
	_, err := s.do(ctx, func() (bool, error) {
		id = s.nextSub
		s.nextSub++
		s.subs[id] = ch
		s.subscribers.Add(1)
		offer(ch, s.snapshot())
		return false, nil
	})
	if err != nil {
		return nil, nil, err
	}
	cancel := func() {
		reply := make(chan result, 1)
		select {
		case s.cmds <- command{fn: func() (bool, error) { s.unsubscribe(id); return false, nil }, reply: reply}:
			<-reply
		case <-s.exit:
		}
	}
	return ch, cancel, nil
}

// Close stops the loop, the timer and every subscription. It is safe to
// call more than once.
func (s *Session) Close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	<-s.exit
}

func (s *Session) do(ctx context.Context, fn func() (bool, error)) (game.Snapshot, error) {
	s.touch()
	cmd := command{fn: fn, reply: make(chan result, 1)}
	select {
	case s.cmds <- cmd:
	case <-s.exit:
		return game.Snapshot{}, ErrClosed
	case <-ctx.Done():
		return game.Snapshot{}, ctx.Err()
	}
	// The loop always answers a command it accepted.
	r := <-cmd.reply
	return r.snap, r.err
}

func (s *Session) run() {
	defer close(s.exit)
	defer s.shutdown()
	for {
		select {
		case <-s.done:
			return
		case cmd := <-s.cmds:
			changed, err := cmd.fn()
			if changed {
				s.changed()
			}
			cmd.reply <- result{snap: s.snapshot(), err: err}
		case <-s.timer.C():
			if s.game.Tick() {
				s.changed()
			}
		}
	}
}

// changed re-syncs the timer, persists and broadcasts.
func (s *Session) changed() {
	before := s.timer.State()
	after := s.timer.Sync(s.game.IsGameOver(), s.focused())
	if before != after {
		s.log.Debug().Stringer("from", before).Stringer("to", after).Msg("timer")
	}
	if s.persist != nil {
		s.persist(s.Record())
	}
	snap := s.snapshot()
	for _, ch := range s.subs {
		offer(ch, snap)
	}
}

// Record returns the persistable state. Only call it from the loop or
// before the session started serving callers.
func (s *Session) Record() store.Record { return newRecord(s.id, s.mode, s.game) }

func newRecord(id, mode string, g *game.Game) store.Record {
	return store.Record{
		ID:        id,
		Mode:      mode,
		Word:      g.Word(),
		Category:  g.Category(),
		Guessed:   g.Guessed(),
		TimeLeft:  g.TimeLeft(),
		UpdatedAt: time.Now().UTC(),
	}
}

func (s *Session) snapshot() game.Snapshot { return game.NewSnapshot(s.id, s.game, s.timer) }

func (s *Session) unsubscribe(id int) {
	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		s.subscribers.Add(-1)
		close(ch)
	}
}

func (s *Session) shutdown() {
	s.timer.Close()
	for id := range s.subs {
		s.unsubscribe(id)
	}
}

// offer delivers snap, dropping the oldest queued snapshot if ch is full.
// Only the session loop sends, so the retry cannot race another writer.
func offer(ch chan game.Snapshot, snap game.Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}
