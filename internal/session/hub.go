// internal/session/hub.go
//
// Hub owns the live sessions of a server process.
// Responsibilities:
//   - Creating games in "random" or "daily" mode under fresh UUIDs.
//   - Looking sessions up by ID, restoring them from the Store when the
//     process no longer has them in memory.
//   - Persisting every change through the Store.
//   - Evicting sessions nobody touched for IdleTTL. Unfinished games stay in
//     the Store; finished ones are deleted.
//   - Deleting stored games not updated for RecordTTL (their tokens have
//     expired, so nobody can reach them).

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/robalobadob/assembly-endgame/internal/daily"
	"github.com/robalobadob/assembly-endgame/internal/game"
	"github.com/robalobadob/assembly-endgame/internal/store"
)

var (
	// ErrNotFound is returned for game IDs that are neither live nor stored.
	ErrNotFound = errors.New("session: game not found")
	// ErrInvalidMode is returned by Create for unknown modes.
	ErrInvalidMode = errors.New("session: invalid mode")
)

// WordSource supplies both random and indexed words.
type WordSource interface {
	game.Source
	daily.Catalog
}

// HubOptions configure a Hub. Zero values are usable.
type HubOptions struct {
	Store     store.Store   // defaults to an in-memory store
	Clock     game.Clock    // countdown clock for every session
	IdleTTL   time.Duration // 0 disables eviction
	RecordTTL time.Duration // 0 keeps stored games forever
	DailySalt string
	// Focused is the initial focus of new and restored sessions.
	Focused bool
	Now     func() time.Time
	Logger  zerolog.Logger
}

// Hub is safe for concurrent use.
type Hub struct {
	src  WordSource
	opts HubOptions
	log  zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*Session

	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewHub returns a Hub and starts its janitor when IdleTTL is set.
func NewHub(src WordSource, opts HubOptions) *Hub {
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	h := &Hub{
		src:      src,
		opts:     opts,
		log:      opts.Logger.With().Str("component", "hub").Logger(),
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}
	if opts.IdleTTL > 0 || opts.RecordTTL > 0 {
		h.wg.Add(1)
		go h.janitor()
	}
	return h
}

// Create starts a new game. An empty mode means ModeRandom.
func (h *Hub) Create(ctx context.Context, mode string) (*Session, error) {
	var (
		g   *game.Game
		err error
	)
	switch mode {
	case "", ModeRandom:
		mode = ModeRandom
		g, err = game.New(h.src)
	case ModeDaily:
		word, cat := daily.Word(h.src, h.opts.Now(), h.opts.DailySalt)
		g, err = game.NewWithWord(h.src, word, cat)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}

	id := uuid.NewString()
	if err := h.opts.Store.Save(ctx, newRecord(id, mode, g)); err != nil {
		return nil, fmt.Errorf("save game: %w", err)
	}
	s := h.start(id, mode, g)
	h.log.Info().Str("gameId", id).Str("mode", mode).Msg("game created")
	return s, nil
}

// Get returns the live session for id, restoring it from the Store if needed.
func (h *Hub) Get(ctx context.Context, id string) (*Session, error) {
	h.mu.Lock()
	s, ok := h.sessions[id]
	h.mu.Unlock()
	if ok {
		return s, nil
	}

	rec, err := h.opts.Store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game: %w", err)
	}
	g, err := game.Restore(h.src, rec.Word, rec.Category, rec.Guessed, rec.TimeLeft)
	if err != nil {
		return nil, fmt.Errorf("restore game %s: %w", id, err)
	}

	h.mu.Lock()
	if s, ok := h.sessions[id]; ok {
		// lost a race with another restore
		h.mu.Unlock()
		return s, nil
	}
	s = h.newSession(id, rec.Mode, g)
	h.sessions[id] = s
	h.mu.Unlock()
	h.log.Debug().Str("gameId", id).Msg("game restored")
	return s, nil
}

// Len returns the number of live sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Sweep closes sessions idle since before now-IdleTTL that have no
// subscribers, and returns how many it closed. Finished games are removed
// from the Store as well; there is nothing left to resume.
func (h *Hub) Sweep(now time.Time) int {
	if h.opts.IdleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-h.opts.IdleTTL)
	var idle []*Session
	h.mu.Lock()
	for id, s := range h.sessions {
		if s.Subscribers() == 0 && s.LastActive().Before(cutoff) {
			idle = append(idle, s)
			delete(h.sessions, id)
		}
	}
	h.mu.Unlock()
	finished := 0
	for _, s := range idle {
		s.Close()
		// the loop has exited, so the game is safe to read here
		if !s.game.IsGameOver() {
			continue
		}
		finished++
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := h.opts.Store.Delete(ctx, s.ID()); err != nil {
			h.log.Warn().Err(err).Str("gameId", s.ID()).Msg("delete finished game")
		}
		cancel()
	}
	if len(idle) > 0 {
		h.log.Debug().Int("evicted", len(idle)).Int("finished", finished).Msg("idle sessions closed")
	}
	return len(idle)
}

// Purge deletes stored games not updated since now-RecordTTL.
func (h *Hub) Purge(ctx context.Context, now time.Time) (int, error) {
	if h.opts.RecordTTL <= 0 {
		return 0, nil
	}
	n, err := h.opts.Store.DeleteBefore(ctx, now.Add(-h.opts.RecordTTL))
	if err != nil {
		return 0, fmt.Errorf("purge games: %w", err)
	}
	if n > 0 {
		h.log.Info().Int("deleted", n).Msg("stale games purged")
	}
	return n, nil
}

// Close stops the janitor and every live session.
func (h *Hub) Close() {
	h.once.Do(func() {
		close(h.done)
		h.wg.Wait()
		h.mu.Lock()
		all := h.sessions
		h.sessions = make(map[string]*Session)
		h.mu.Unlock()
		for _, s := range all {
			s.Close()
		}
	})
}

func (h *Hub) start(id, mode string, g *game.Game) *Session {
	s := h.newSession(id, mode, g)
	h.mu.Lock()
	h.sessions[id] = s
	h.mu.Unlock()
	return s
}

func (h *Hub) newSession(id, mode string, g *game.Game) *Session {
	return New(id, g, Options{
		Clock:    h.opts.Clock,
		Focused:  h.opts.Focused,
		Mode:     mode,
		OnChange: h.persist,
		Logger:   h.opts.Logger,
	})
}

// persist runs on the session loop.
func (h *Hub) persist(r store.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.opts.Store.Save(ctx, r); err != nil {
		h.log.Warn().Err(err).Str("gameId", r.ID).Msg("persist game")
	}
}

func (h *Hub) janitor() {
	defer h.wg.Done()
	interval := time.Minute
	for _, ttl := range []time.Duration{h.opts.IdleTTL, h.opts.RecordTTL} {
		if ttl > 0 && ttl/2 < interval {
			interval = ttl / 2
		}
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-h.done:
			return
		case <-t.C:
			now := h.opts.Now()
			h.Sweep(now)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if _, err := h.Purge(ctx, now); err != nil {
				h.log.Warn().Err(err).Msg("purge")
			}
			cancel()
		}
	}
}
