// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - Source: the external word/category/farewell collaborator.
//   - Game:   state for a single in-progress or finished game.
//   - The view types produced by the derivation layer (Chip, Cell, Key, Status).

package game

import "github.com/robalobadob/assembly-endgame/internal/words"

const (
	// RoundSeconds is the starting value of TimeLeft.
	RoundSeconds = 60

	// Alphabet is the fixed keyboard; guesses outside it are rejected.
	Alphabet = "abcdefghijklmnopqrstuvwxyz"

	// CelebrationPieces is the confetti particle count fired on a win.
	CelebrationPieces = 1000
)

// Category is a language in the category list.
type Category = words.Category

// Source supplies the category list, random words and farewell lines.
// words.Catalog is the production implementation.
type Source interface {
	Categories() []Category
	RandomWord() (word string, category int)
	FarewellText(category string) string
}

// Game holds the state of a single game. Word, guessed letters and time left
// are created and replaced together; use the methods to mutate.
type Game struct {
	src        Source
	categories []words.Category

	word     string // lowercase a–z, never mutated after selection
	category int    // index into categories of the word's language
	guessed  []byte // guessed letters in guess order, no duplicates
	timeLeft int    // seconds, always in [0, RoundSeconds]
}

// Chip is one language in the category strip.
type Chip struct {
	Name       string `json:"name"`
	Background string `json:"backgroundColor"`
	Color      string `json:"color"`
	Eliminated bool   `json:"eliminated"`
}

// Cell is one position of the secret word.
type Cell struct {
	Letter   string `json:"letter,omitempty"` // empty while hidden
	Revealed bool   `json:"revealed"`
	Missed   bool   `json:"missed"` // revealed only because the game was lost
}

// Key is one letter control of the keyboard.
type Key struct {
	Letter   string `json:"letter"`
	Guessed  bool   `json:"guessed"`
	Correct  bool   `json:"correct"`
	Wrong    bool   `json:"wrong"`
	Disabled bool   `json:"disabled"`
}

// StatusKind selects which status panel is shown.
type StatusKind string

const (
	StatusNone     StatusKind = ""
	StatusFarewell StatusKind = "farewell"
	StatusWon      StatusKind = "won"
	StatusLost     StatusKind = "lost"
)

// Status is the live status region.
type Status struct {
	Kind    StatusKind `json:"kind"`
	Title   string     `json:"title,omitempty"`
	Message string     `json:"message,omitempty"`
}

// Announcement is the text read by assistive technology.
type Announcement struct {
	Guess string `json:"guess"`
	Word  string `json:"word"`
}

// Celebration parameterizes the one-shot win effect. Width and Height are
// filled in by the frontend from its viewport.
type Celebration struct {
	Pieces  int  `json:"pieces"`
	Recycle bool `json:"recycle"`
	Width   int  `json:"width,omitempty"`
	Height  int  `json:"height,omitempty"`
}
