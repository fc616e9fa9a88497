// internal/tui/tui.go
//
// Terminal client for the game.
//
// One goroutine (Run) owns the Game, its Timer and the screen. Terminal events
// arrive on a channel fed by a PollEvent goroutine; the loop selects on
// events, the countdown ticker and, while confetti is falling, an animation
// ticker. Every wake-up ends with a full redraw.
//
// Keys:
//   - a–z         guess a letter
//   - Enter       start a new game once the current one is over
//   - Esc, Ctrl-C quit
//
// Terminal focus reports (EventFocus) pause and resume the countdown the same
// way tab focus does in the browser. The client starts focused.

package tui

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/robalobadob/assembly-endgame/internal/game"
)

// frameInterval paces the confetti animation.
const frameInterval = 33 * time.Millisecond

// Celebrator plays the win effect. It is called once per won game.
type Celebrator interface {
	Celebrate(c game.Celebration)
}

// Options configures an App. Zero values fall back to the wall clock, no
// sound and a discarding logger.
type Options struct {
	Clock      game.Clock
	Celebrator Celebrator
	Logger     zerolog.Logger
	Rand       *rand.Rand
}

// App is the terminal game.
type App struct {
	screen tcell.Screen
	game   *game.Game
	timer  *game.Timer
	celeb  Celebrator
	log    zerolog.Logger
	rng    *rand.Rand

	focused    bool
	celebrated bool
	confetti   *confetti
	anim       *time.Ticker
}

// New starts a game on src and binds it to screen. The screen must already
// be initialized; the caller owns Fini.
func New(screen tcell.Screen, src game.Source, opts Options) (*App, error) {
	if screen == nil {
		return nil, errors.New("tui: nil screen")
	}
	g, err := game.New(src)
	if err != nil {
		return nil, err
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	a := &App{
		screen:  screen,
		game:    g,
		timer:   game.NewTimer(opts.Clock),
		celeb:   opts.Celebrator,
		log:     opts.Logger,
		rng:     rng,
		focused: true,
	}
	screen.EnableFocus()
	a.sync()
	return a, nil
}

// Run drives the game until the player quits or ctx ends.
func (a *App) Run(ctx context.Context) error {
	defer a.timer.Close()
	defer a.stopAnimation()

	quit := make(chan struct{})
	defer close(quit)
	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-quit:
				return
			}
		}
	}()

	a.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-eventChan:
			if !a.handleEvent(ev) {
				return nil
			}
		case <-a.timer.C():
			if a.game.Tick() {
				a.sync()
			}
		case <-a.frames():
			a.stepConfetti()
		}
		a.draw()
	}
}

// handleEvent applies one terminal event. It returns false to quit.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyEnter:
			a.newGame()
		case tcell.KeyRune:
			a.guess(ev.Rune())
		}
	case *tcell.EventFocus:
		a.focused = ev.Focused
		state := a.timer.SetFocused(ev.Focused)
		a.log.Debug().Bool("focused", ev.Focused).Stringer("timer", state).Msg("focus changed")
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) guess(r rune) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	changed, err := a.game.AddGuessedLetter(r)
	if err != nil {
		// stray keys and late guesses are ignored
		a.log.Debug().Err(err).Str("key", string(r)).Msg("guess ignored")
		return
	}
	if changed {
		a.sync()
	}
}

func (a *App) newGame() {
	if !a.game.IsGameOver() {
		return
	}
	a.game.StartNewGame()
	a.celebrated = false
	a.confetti = nil
	a.stopAnimation()
	a.log.Info().Str("category", a.game.Categories()[a.game.Category()].Name).Msg("new game")
	a.sync()
}

// sync re-derives the timer state and fires the win effect on the first
// observation of a won game.
func (a *App) sync() {
	prev := a.timer.State()
	state := a.timer.Sync(a.game.IsGameOver(), a.focused)
	if state != prev && state == game.TimerStopped {
		a.log.Info().
			Bool("won", a.game.IsGameWon()).
			Bool("timedOut", a.game.IsTimedOut()).
			Int("wrong", a.game.WrongGuessCount()).
			Msg("game over")
	}
	if c := a.game.Celebration(); c != nil && !a.celebrated {
		a.celebrated = true
		a.celebrate(*c)
	}
}

func (a *App) celebrate(c game.Celebration) {
	c.Width, c.Height = a.screen.Size()
	a.confetti = newConfetti(c, a.rng)
	a.anim = time.NewTicker(frameInterval)
	if a.celeb != nil {
		a.celeb.Celebrate(c)
	}
}

func (a *App) stepConfetti() {
	if a.confetti == nil {
		return
	}
	if !a.confetti.step(frameInterval.Seconds()) {
		a.confetti = nil
		a.stopAnimation()
	}
}

// frames returns the animation channel, or nil when nothing is falling.
func (a *App) frames() <-chan time.Time {
	if a.anim == nil {
		return nil
	}
	return a.anim.C
}

func (a *App) stopAnimation() {
	if a.anim != nil {
		a.anim.Stop()
		a.anim = nil
	}
}

// Snapshot returns the current derived state.
func (a *App) Snapshot() game.Snapshot {
	return game.NewSnapshot("", a.game, a.timer)
}
