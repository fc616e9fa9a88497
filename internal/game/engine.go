// internal/game/engine.go
//
// Core game engine: the state store for a single game.
// Responsibilities:
//   - Create new games from a Source (random word + category list).
//   - Apply letter guesses (idempotent, ordered, rejected once the game is over).
//   - Count the clock down one second per Tick, floored at zero.
//   - Replace word, guesses and time atomically on StartNewGame.
//
// Derived flags (won/lost/over, wrong guesses, ...) live in derive.go.

package game

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidLetter is returned for guesses outside a–z.
	ErrInvalidLetter = errors.New("invalid letter")
	// ErrGameOver is returned for guesses after the game was won or lost.
	ErrGameOver = errors.New("game over")
	// ErrInvalidState is returned when restoring a game that breaks an invariant.
	ErrInvalidState = errors.New("invalid game state")
)

// New starts a game with a random word from src.
func New(src Source) (*Game, error) {
	word, cat := src.RandomWord()
	return NewWithWord(src, word, cat)
}

// NewWithWord starts a game with a fixed word (daily mode, tests).
func NewWithWord(src Source, word string, category int) (*Game, error) {
	return Restore(src, word, category, "", RoundSeconds)
}

// Restore rebuilds a game from persisted state, validating every invariant.
func Restore(src Source, word string, category int, guessed string, timeLeft int) (*Game, error) {
	cats := src.Categories()
	if len(cats) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 categories, have %d", ErrInvalidState, len(cats))
	}
	if !isAlpha(word) {
		return nil, fmt.Errorf("%w: word %q", ErrInvalidState, word)
	}
	if category < 0 || category >= len(cats) {
		return nil, fmt.Errorf("%w: category %d", ErrInvalidState, category)
	}
	if timeLeft < 0 || timeLeft > RoundSeconds {
		return nil, fmt.Errorf("%w: time left %d", ErrInvalidState, timeLeft)
	}
	g := &Game{src: src, categories: cats, word: word, category: category, timeLeft: timeLeft}
	for i := 0; i < len(guessed); i++ {
		l := guessed[i]
		if !inAlphabet(l) || g.hasGuessed(l) {
			return nil, fmt.Errorf("%w: guessed letters %q", ErrInvalidState, guessed)
		}
		g.guessed = append(g.guessed, l)
	}
	if g.WrongGuessCount() > g.NumOfGuessesLeft() {
		return nil, fmt.Errorf("%w: %d wrong guesses", ErrInvalidState, g.WrongGuessCount())
	}
	return g, nil
}

// AddGuessedLetter records a guess. It reports whether state changed:
// guessing an already guessed letter is a no-op, not an error.
// Upper-case letters are folded to lower case.
func (g *Game) AddGuessedLetter(letter rune) (bool, error) {
	if letter >= 'A' && letter <= 'Z' {
		letter += 'a' - 'A'
	}
	if letter > 0x7f || !inAlphabet(byte(letter)) {
		return false, ErrInvalidLetter
	}
	if g.IsGameOver() {
		return false, ErrGameOver
	}
	l := byte(letter)
	if g.hasGuessed(l) {
		return false, nil
	}
	g.guessed = append(g.guessed, l)
	return true, nil
}

// StartNewGame replaces the word, clears guesses and resets the clock.
func (g *Game) StartNewGame() {
	word, cat := g.src.RandomWord()
	g.word = word
	g.category = cat
	g.guessed = nil
	g.timeLeft = RoundSeconds
}

// Tick removes one second from the clock. It reports whether state changed;
// a finished game or an empty clock is left untouched.
func (g *Game) Tick() bool {
	if g.IsGameOver() || g.timeLeft <= 0 {
		return false
	}
	g.timeLeft--
	return true
}

// Word returns the secret word.
func (g *Game) Word() string { return g.word }

// Category returns the index of the word's language.
func (g *Game) Category() int { return g.category }

// Categories returns the category list the game was created with.
func (g *Game) Categories() []Category { return g.categories }

// Guessed returns the guessed letters in guess order.
func (g *Game) Guessed() string { return string(g.guessed) }

// TimeLeft returns the remaining seconds.
func (g *Game) TimeLeft() int { return g.timeLeft }

func (g *Game) hasGuessed(l byte) bool {
	for _, x := range g.guessed {
		if x == l {
			return true
		}
	}
	return false
}

func (g *Game) inWord(l byte) bool { return strings.IndexByte(g.word, l) >= 0 }

func inAlphabet(l byte) bool { return l >= 'a' && l <= 'z' }

// isAlpha checks that a string is non-empty and only lowercase a–z.
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !inAlphabet(s[i]) {
			return false
		}
	}
	return true
}
