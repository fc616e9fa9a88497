package game

// Snapshot is everything a frontend needs to render one frame. The secret
// word is only included once the game is over.
type Snapshot struct {
	ID              string       `json:"gameId,omitempty"`
	Hint            string       `json:"hint"`
	TimeLeft        int          `json:"timeLeft"`
	Timer           TimerState   `json:"timer"`
	Focused         bool         `json:"focused"`
	Paused          bool         `json:"paused"` // show the "timer paused" banner
	GuessesAllowed  int          `json:"guessesAllowed"`
	WrongGuessCount int          `json:"wrongGuessCount"`
	AttemptsLeft    int          `json:"attemptsLeft"`
	LastGuess       string       `json:"lastGuess,omitempty"`
	Won             bool         `json:"won"`
	Lost            bool         `json:"lost"`
	Over            bool         `json:"over"`
	Answer          string       `json:"answer,omitempty"`
	Status          Status       `json:"status"`
	Chips           []Chip       `json:"chips"`
	Cells           []Cell       `json:"cells"`
	Keys            []Key        `json:"keys"`
	Announcement    Announcement `json:"announcement"`
	Celebration     *Celebration `json:"celebration,omitempty"`
}

// NewSnapshot derives a snapshot from the game and its timer.
func NewSnapshot(id string, g *Game, t *Timer) Snapshot {
	over := g.IsGameOver()
	s := Snapshot{
		ID:              id,
		Hint:            g.categories[g.category].Name,
		TimeLeft:        g.timeLeft,
		Timer:           t.State(),
		Focused:         t.Focused(),
		Paused:          !t.Focused() && !over,
		GuessesAllowed:  g.NumOfGuessesLeft(),
		WrongGuessCount: g.WrongGuessCount(),
		AttemptsLeft:    g.AttemptsLeft(),
		Won:             g.IsGameWon(),
		Lost:            g.IsGameLost(),
		Over:            over,
		Status:          g.Status(),
		Chips:           g.Chips(),
		Cells:           g.Cells(),
		Keys:            g.Keys(),
		Announcement:    g.Announcement(),
		Celebration:     g.Celebration(),
	}
	if l, ok := g.LastGuessedLetter(); ok {
		s.LastGuess = string(l)
	}
	if over {
		s.Answer = g.word
	}
	return s
}
