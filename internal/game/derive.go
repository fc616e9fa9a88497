package game

import (
	"fmt"
	"strings"
)

// Derived state. Everything here is recomputed from the store on each call;
// nothing is cached.

// NumOfGuessesLeft is the number of wrong guesses that loses the game.
func (g *Game) NumOfGuessesLeft() int { return len(g.categories) - 1 }

// WrongGuessCount counts guessed letters that are not in the word.
func (g *Game) WrongGuessCount() int {
	n := 0
	for _, l := range g.guessed {
		if !g.inWord(l) {
			n++
		}
	}
	return n
}

// AttemptsLeft is how many more wrong guesses the player can afford.
func (g *Game) AttemptsLeft() int {
	if n := g.NumOfGuessesLeft() - g.WrongGuessCount(); n > 0 {
		return n
	}
	return 0
}

// IsGameWon reports whether every letter of the word has been guessed.
func (g *Game) IsGameWon() bool {
	for i := 0; i < len(g.word); i++ {
		if !g.hasGuessed(g.word[i]) {
			return false
		}
	}
	return true
}

// IsGameLost reports whether the wrong guesses or the clock ran out.
func (g *Game) IsGameLost() bool {
	return g.WrongGuessCount() >= g.NumOfGuessesLeft() || g.timeLeft <= 0
}

// IsGameOver reports whether the game was won or lost.
func (g *Game) IsGameOver() bool { return g.IsGameWon() || g.IsGameLost() }

// IsTimedOut reports a loss caused by the clock.
func (g *Game) IsTimedOut() bool { return g.IsGameLost() && g.timeLeft <= 0 }

// LastGuessedLetter returns the most recent guess; ok is false before the
// first guess.
func (g *Game) LastGuessedLetter() (letter byte, ok bool) {
	if len(g.guessed) == 0 {
		return 0, false
	}
	return g.guessed[len(g.guessed)-1], true
}

// IsLastGuessIncorrect reports whether there is a last guess and it missed.
func (g *Game) IsLastGuessIncorrect() bool {
	l, ok := g.LastGuessedLetter()
	return ok && !g.inWord(l)
}

// Chips returns the category strip; the first WrongGuessCount are eliminated.
func (g *Game) Chips() []Chip {
	wrong := g.WrongGuessCount()
	out := make([]Chip, len(g.categories))
	for i, c := range g.categories {
		out[i] = Chip{
			Name:       c.Name,
			Background: c.Background,
			Color:      c.Color,
			Eliminated: i < wrong,
		}
	}
	return out
}

// Cells returns one cell per word position. A lost game reveals every
// position; letters the player never found are marked Missed.
func (g *Game) Cells() []Cell {
	lost := g.IsGameLost()
	out := make([]Cell, len(g.word))
	for i := 0; i < len(g.word); i++ {
		l := g.word[i]
		guessed := g.hasGuessed(l)
		if lost || guessed {
			out[i] = Cell{Letter: strings.ToUpper(string(l)), Revealed: true, Missed: lost && !guessed}
		}
	}
	return out
}

// Keys returns the 26 keyboard controls.
func (g *Game) Keys() []Key {
	over := g.IsGameOver()
	out := make([]Key, len(Alphabet))
	for i := 0; i < len(Alphabet); i++ {
		l := Alphabet[i]
		guessed := g.hasGuessed(l)
		out[i] = Key{
			Letter:   string(l),
			Guessed:  guessed,
			Correct:  guessed && g.inWord(l),
			Wrong:    guessed && !g.inWord(l),
			Disabled: over || guessed,
		}
	}
	return out
}

// Status returns the status panel. A wrong last guess in a running game
// shows the farewell for the language it eliminated; it yields to the
// won/lost panels once the game is over.
func (g *Game) Status() Status {
	over := g.IsGameOver()
	if !over && g.IsLastGuessIncorrect() {
		// wrong >= 1 here and, since the game is not over, wrong < len(categories)-1.
		name := g.categories[g.WrongGuessCount()-1].Name
		return Status{Kind: StatusFarewell, Message: g.src.FarewellText(name)}
	}
	if g.IsGameWon() {
		return Status{Kind: StatusWon, Title: "You win", Message: "Well done! 🎉"}
	}
	if g.IsGameLost() {
		msg := "Assembly has taken over. Try again!"
		if g.timeLeft <= 0 {
			msg = "Time’s up! Assembly has taken over. Try again!"
		}
		return Status{Kind: StatusLost, Title: "Game Over 💀", Message: msg}
	}
	return Status{Kind: StatusNone}
}

// Announcement composes the screen-reader text. Before the first guess it
// reads a neutral prompt instead of commenting on a guess.
func (g *Game) Announcement() Announcement {
	var guess string
	if l, ok := g.LastGuessedLetter(); ok {
		if g.inWord(l) {
			guess = fmt.Sprintf("Correct! The letter %c is in the word.", l)
		} else {
			guess = fmt.Sprintf("Sorry, the letter %c is not in the word.", l)
		}
	} else {
		guess = "Guess a letter to begin."
	}
	guess += fmt.Sprintf(" You have %d attempts left.", g.AttemptsLeft())

	parts := make([]string, len(g.word))
	for i := 0; i < len(g.word); i++ {
		if g.hasGuessed(g.word[i]) {
			parts[i] = string(g.word[i]) + "."
		} else {
			parts[i] = "blank"
		}
	}
	return Announcement{Guess: guess, Word: "Current word: " + strings.Join(parts, " ")}
}

// Celebration returns the win effect parameters, or nil unless the game is won.
func (g *Game) Celebration() *Celebration {
	if !g.IsGameWon() {
		return nil
	}
	return &Celebration{Pieces: CelebrationPieces, Recycle: false}
}
