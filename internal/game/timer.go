// internal/game/timer.go
//
// Timer controller for the one-second countdown.
//
// States:
//   - Running: the game is not over and the window has focus; one live ticker.
//   - Paused:  the game is not over but the window lost focus; no ticker.
//   - Stopped: the game is over (or the timer was closed); no ticker.
//
// Sync is the only transition function. Leaving Running always stops the
// ticker before anything else happens, and entering Running always creates a
// fresh one, so there is never more than one live ticker and time spent
// paused is never charged to the player.

package game

import (
	"fmt"
	"time"
)

// TickPeriod is the countdown resolution.
const TickPeriod = time.Second

// TimerState is the state of the countdown.
type TimerState int

const (
	TimerPaused TimerState = iota
	TimerRunning
	TimerStopped
)

func (s TimerState) String() string {
	switch s {
	case TimerRunning:
		return "running"
	case TimerStopped:
		return "stopped"
	default:
		return "paused"
	}
}

// MarshalText renders the state as its name in JSON.
func (s TimerState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses a state name.
func (s *TimerState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "paused":
		*s = TimerPaused
	case "running":
		*s = TimerRunning
	case "stopped":
		*s = TimerStopped
	default:
		return fmt.Errorf("unknown timer state %q", b)
	}
	return nil
}

// Ticker is a scoped periodic timer handle.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers; tests substitute a manual one.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) NewTicker(d time.Duration) Ticker { return systemTicker{time.NewTicker(d)} }

type systemTicker struct{ t *time.Ticker }

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }

// Timer drives Game.Tick. It is not safe for concurrent use; the owner
// (a session loop or the terminal client) serializes all calls.
type Timer struct {
	clock   Clock
	state   TimerState
	focused bool
	over    bool
	ticker  Ticker
	closed  bool
}

// NewTimer returns a paused timer. Call Sync to start it.
func NewTimer(clock Clock) *Timer {
	if clock == nil {
		clock = SystemClock
	}
	return &Timer{clock: clock, state: TimerPaused}
}

// Sync moves the timer to the state implied by the game being over and the
// window having focus, and returns the new state.
func (t *Timer) Sync(over, focused bool) TimerState {
	t.focused = focused
	t.over = over
	next := TimerPaused
	switch {
	case t.closed || over:
		next = TimerStopped
	case focused:
		next = TimerRunning
	}
	if next == t.state {
		return t.state
	}
	if t.ticker != nil {
		t.ticker.Stop()
		t.ticker = nil
	}
	if next == TimerRunning {
		t.ticker = t.clock.NewTicker(TickPeriod)
	}
	t.state = next
	return t.state
}

// SetFocused records a focus signal and re-syncs against the game state
// last passed to Sync.
func (t *Timer) SetFocused(focused bool) TimerState { return t.Sync(t.over, focused) }

// C returns the live ticker channel, or nil when no ticks are scheduled.
// A nil channel never fires in a select.
func (t *Timer) C() <-chan time.Time {
	if t.ticker == nil {
		return nil
	}
	return t.ticker.C()
}

// State returns the current state.
func (t *Timer) State() TimerState { return t.state }

// Focused returns the last focus signal passed to Sync.
func (t *Timer) Focused() bool { return t.focused }

// Close stops the ticker for good; later Syncs keep it Stopped.
func (t *Timer) Close() {
	t.closed = true
	t.Sync(true, t.focused)
}
