package game

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakeSource hands out words in order and n numbered categories.
type fakeSource struct {
	cats  []Category
	words []string
	next  int
}

func newFakeSource(n int, words ...string) *fakeSource {
	cats := make([]Category, n)
	for i := range cats {
		cats[i] = Category{Name: fmt.Sprintf("Lang%d", i)}
	}
	return &fakeSource{cats: cats, words: words}
}

func (f *fakeSource) Categories() []Category { return f.cats }

func (f *fakeSource) RandomWord() (string, int) {
	w := f.words[f.next%len(f.words)]
	f.next++
	return w, 0
}

func (f *fakeSource) FarewellText(name string) string { return "bye " + name }

func mustNew(t *testing.T, n int, words ...string) *Game {
	t.Helper()
	g, err := New(newFakeSource(n, words...))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return g
}

func guessAll(t *testing.T, g *Game, letters string) {
	t.Helper()
	for _, l := range letters {
		if _, err := g.AddGuessedLetter(l); err != nil {
			t.Fatalf("AddGuessedLetter(%q) = %v", l, err)
		}
	}
}

func TestNewGameStartsFresh(t *testing.T) {
	g := mustNew(t, 9, "rust")
	if g.Word() != "rust" || g.TimeLeft() != RoundSeconds || g.Guessed() != "" {
		t.Fatalf("unexpected fresh game: word=%q time=%d guessed=%q", g.Word(), g.TimeLeft(), g.Guessed())
	}
	if g.IsGameOver() {
		t.Fatal("fresh game must not be over")
	}
	if g.NumOfGuessesLeft() != 8 {
		t.Fatalf("NumOfGuessesLeft() = %d, want 8", g.NumOfGuessesLeft())
	}
}

func TestNewRejectsBadSource(t *testing.T) {
	if _, err := New(newFakeSource(1, "go")); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("New with 1 category = %v, want ErrInvalidState", err)
	}
	if _, err := New(newFakeSource(5, "Go!")); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("New with bad word = %v, want ErrInvalidState", err)
	}
}

func TestAddGuessedLetterIsIdempotent(t *testing.T) {
	g := mustNew(t, 9, "rust")
	changed, err := g.AddGuessedLetter('x')
	if err != nil || !changed {
		t.Fatalf("first guess = %v, %v", changed, err)
	}
	changed, err = g.AddGuessedLetter('x')
	if err != nil || changed {
		t.Fatalf("repeat guess = %v, %v; want no-op", changed, err)
	}
	if g.Guessed() != "x" || g.WrongGuessCount() != 1 {
		t.Fatalf("guessed=%q wrong=%d after repeat", g.Guessed(), g.WrongGuessCount())
	}
}

func TestAddGuessedLetterFoldsCaseAndRejectsOthers(t *testing.T) {
	g := mustNew(t, 9, "rust")
	if _, err := g.AddGuessedLetter('R'); err != nil {
		t.Fatalf("upper-case guess = %v", err)
	}
	if g.Guessed() != "r" {
		t.Fatalf("Guessed() = %q, want r", g.Guessed())
	}
	for _, r := range []rune{'1', ' ', 'é', '[', 0} {
		if _, err := g.AddGuessedLetter(r); !errors.Is(err, ErrInvalidLetter) {
			t.Fatalf("AddGuessedLetter(%q) = %v, want ErrInvalidLetter", r, err)
		}
	}
}

func TestGuessOrderIsPreserved(t *testing.T) {
	g := mustNew(t, 9, "rust")
	guessAll(t, g, "zqar")
	if g.Guessed() != "zqar" {
		t.Fatalf("Guessed() = %q, want zqar", g.Guessed())
	}
	if l, ok := g.LastGuessedLetter(); !ok || l != 'r' {
		t.Fatalf("LastGuessedLetter() = %q, %v", l, ok)
	}
}

func TestWrongGuessCountIsMonotonic(t *testing.T) {
	g := mustNew(t, 20, "gopher")
	prev := 0
	for i, l := range "zgxoqpyh" {
		guessAll(t, g, string(l))
		got := g.WrongGuessCount()
		want := 0
		for _, x := range g.Guessed() {
			if !strings.ContainsRune("gopher", x) {
				want++
			}
		}
		if got != want {
			t.Fatalf("step %d: WrongGuessCount() = %d, want %d", i, got, want)
		}
		if got < prev {
			t.Fatalf("step %d: WrongGuessCount decreased %d -> %d", i, prev, got)
		}
		prev = got
	}
}

func TestWinScenario(t *testing.T) {
	// 5 categories: 4 wrong guesses allowed.
	g := mustNew(t, 5, "go")
	guessAll(t, g, "g")
	guessAll(t, g, "x")
	if g.WrongGuessCount() != 1 {
		t.Fatalf("WrongGuessCount() = %d, want 1", g.WrongGuessCount())
	}
	if st := g.Status(); st.Kind != StatusFarewell || st.Message != "bye Lang0" {
		t.Fatalf("Status() after wrong guess = %+v, want farewell for Lang0", st)
	}
	guessAll(t, g, "o")
	if !g.IsGameWon() || g.IsGameLost() || !g.IsGameOver() {
		t.Fatalf("won=%v lost=%v over=%v", g.IsGameWon(), g.IsGameLost(), g.IsGameOver())
	}
	if st := g.Status(); st.Kind != StatusWon {
		t.Fatalf("Status() = %+v, want won", st)
	}
	if c := g.Celebration(); c == nil || c.Pieces != CelebrationPieces || c.Recycle {
		t.Fatalf("Celebration() = %+v", c)
	}
}

func TestWinInAnyOrder(t *testing.T) {
	for _, order := range []string{"rust", "tsur", "urts"} {
		g := mustNew(t, 9, "rust")
		guessAll(t, g, order)
		if !g.IsGameWon() || g.IsGameLost() {
			t.Fatalf("order %q: won=%v lost=%v", order, g.IsGameWon(), g.IsGameLost())
		}
	}
}

func TestLoseOnWrongGuesses(t *testing.T) {
	g := mustNew(t, 9, "rust")
	misses := "abcdefgh"
	for i, l := range misses {
		if g.IsGameLost() {
			t.Fatalf("lost early after %d wrong guesses", i)
		}
		guessAll(t, g, string(l))
	}
	if !g.IsGameLost() || !g.IsGameOver() {
		t.Fatal("expected lost after 8 wrong guesses")
	}
	if g.WrongGuessCount() != g.NumOfGuessesLeft() {
		t.Fatalf("WrongGuessCount()=%d NumOfGuessesLeft()=%d", g.WrongGuessCount(), g.NumOfGuessesLeft())
	}
	if g.TimeLeft() != RoundSeconds {
		t.Fatalf("TimeLeft() = %d; loss must not depend on the clock", g.TimeLeft())
	}
	if st := g.Status(); st.Kind != StatusLost || st.Message != "Assembly has taken over. Try again!" {
		t.Fatalf("Status() = %+v", st)
	}
	if _, err := g.AddGuessedLetter('r'); !errors.Is(err, ErrGameOver) {
		t.Fatalf("guess after loss = %v, want ErrGameOver", err)
	}
	if g.Guessed() != misses {
		t.Fatalf("Guessed() changed after game over: %q", g.Guessed())
	}
}

func TestLoseOnTimeout(t *testing.T) {
	g := mustNew(t, 9, "rust")
	guessAll(t, g, "r")
	for i := 0; i < RoundSeconds; i++ {
		if !g.Tick() {
			t.Fatalf("Tick() %d made no change", i)
		}
	}
	if g.TimeLeft() != 0 {
		t.Fatalf("TimeLeft() = %d, want 0", g.TimeLeft())
	}
	if !g.IsGameLost() || !g.IsGameOver() || g.WrongGuessCount() != 0 {
		t.Fatalf("lost=%v over=%v wrong=%d", g.IsGameLost(), g.IsGameOver(), g.WrongGuessCount())
	}
	if g.Tick() || g.TimeLeft() != 0 {
		t.Fatalf("Tick() after timeout changed state, TimeLeft()=%d", g.TimeLeft())
	}
	if st := g.Status(); st.Message != "Time’s up! Assembly has taken over. Try again!" {
		t.Fatalf("Status().Message = %q", st.Message)
	}
	if !g.IsTimedOut() {
		t.Fatal("IsTimedOut() = false")
	}
}

func TestTickFrozenAfterWin(t *testing.T) {
	g := mustNew(t, 9, "go")
	guessAll(t, g, "go")
	if g.Tick() || g.TimeLeft() != RoundSeconds {
		t.Fatalf("Tick() after win changed TimeLeft to %d", g.TimeLeft())
	}
}

func TestStartNewGameResetsEverything(t *testing.T) {
	src := newFakeSource(9, "rust", "go")
	g, err := New(src)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	guessAll(t, g, "abcdefgh")
	g.Tick()
	g.StartNewGame()
	if g.Word() != "go" || g.Guessed() != "" || g.TimeLeft() != RoundSeconds {
		t.Fatalf("after StartNewGame: word=%q guessed=%q time=%d", g.Word(), g.Guessed(), g.TimeLeft())
	}
	if g.IsGameOver() {
		t.Fatal("new game must not be over")
	}
}

func TestRestoreValidates(t *testing.T) {
	src := newFakeSource(5, "go")
	cases := []struct {
		name     string
		word     string
		cat      int
		guessed  string
		timeLeft int
		ok       bool
	}{
		{"valid", "go", 0, "gx", 30, true},
		{"empty word", "", 0, "", 60, false},
		{"category out of range", "go", 5, "", 60, false},
		{"negative time", "go", 0, "", -1, false},
		{"too much time", "go", 0, "", 61, false},
		{"duplicate guess", "go", 0, "gg", 60, false},
		{"non letter guess", "go", 0, "g1", 60, false},
		{"too many wrong", "go", 0, "abcde", 60, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := Restore(src, tc.word, tc.cat, tc.guessed, tc.timeLeft)
			if tc.ok {
				if err != nil {
					t.Fatalf("Restore() = %v", err)
				}
				if g.Guessed() != tc.guessed || g.TimeLeft() != tc.timeLeft {
					t.Fatalf("restored guessed=%q time=%d", g.Guessed(), g.TimeLeft())
				}
				return
			}
			if !errors.Is(err, ErrInvalidState) {
				t.Fatalf("Restore() = %v, want ErrInvalidState", err)
			}
		})
	}
}

func TestChipsEliminatedByWrongGuesses(t *testing.T) {
	g := mustNew(t, 9, "rust")
	guessAll(t, g, "rab")
	chips := g.Chips()
	for i, c := range chips {
		if want := i < 2; c.Eliminated != want {
			t.Fatalf("chip %d eliminated=%v, want %v", i, c.Eliminated, want)
		}
	}
}

func TestCellsRevealOnGuessOrLoss(t *testing.T) {
	g := mustNew(t, 3, "rust")
	guessAll(t, g, "u")
	cells := g.Cells()
	if cells[0].Revealed || !cells[1].Revealed || cells[1].Letter != "U" || cells[1].Missed {
		t.Fatalf("cells while playing = %+v", cells)
	}
	guessAll(t, g, "ab")
	cells = g.Cells()
	for i, c := range cells {
		if !c.Revealed {
			t.Fatalf("cell %d hidden after loss", i)
		}
		if want := i != 1; c.Missed != want {
			t.Fatalf("cell %d missed=%v, want %v", i, c.Missed, want)
		}
	}
}

func TestKeys(t *testing.T) {
	g := mustNew(t, 9, "rust")
	guessAll(t, g, "rx")
	keys := g.Keys()
	if len(keys) != 26 {
		t.Fatalf("len(Keys()) = %d", len(keys))
	}
	byLetter := map[string]Key{}
	for _, k := range keys {
		byLetter[k.Letter] = k
	}
	if k := byLetter["r"]; !k.Correct || k.Wrong || !k.Disabled {
		t.Fatalf("key r = %+v", k)
	}
	if k := byLetter["x"]; k.Correct || !k.Wrong || !k.Disabled {
		t.Fatalf("key x = %+v", k)
	}
	if k := byLetter["s"]; k.Guessed || k.Disabled {
		t.Fatalf("key s = %+v", k)
	}
	guessAll(t, g, "ust")
	for _, k := range g.Keys() {
		if !k.Disabled {
			t.Fatalf("key %s enabled after game over", k.Letter)
		}
	}
}

func TestAnnouncementBeforeFirstGuess(t *testing.T) {
	g := mustNew(t, 9, "go")
	a := g.Announcement()
	if a.Guess != "Guess a letter to begin. You have 8 attempts left." {
		t.Fatalf("Announcement().Guess = %q", a.Guess)
	}
	if a.Word != "Current word: blank blank" {
		t.Fatalf("Announcement().Word = %q", a.Word)
	}
	if g.IsLastGuessIncorrect() {
		t.Fatal("IsLastGuessIncorrect() with no guesses")
	}
	if st := g.Status(); st.Kind != StatusNone {
		t.Fatalf("Status() = %+v, want none", st)
	}
}

func TestAnnouncementAfterGuesses(t *testing.T) {
	g := mustNew(t, 9, "go")
	guessAll(t, g, "g")
	if a := g.Announcement(); a.Guess != "Correct! The letter g is in the word. You have 8 attempts left." || a.Word != "Current word: g. blank" {
		t.Fatalf("Announcement() = %+v", a)
	}
	guessAll(t, g, "z")
	if a := g.Announcement(); a.Guess != "Sorry, the letter z is not in the word. You have 7 attempts left." {
		t.Fatalf("Announcement().Guess = %q", a.Guess)
	}
}

func TestSnapshotHidesAnswerUntilOver(t *testing.T) {
	g := mustNew(t, 9, "go")
	tm := NewTimer(newManualClock())
	tm.Sync(g.IsGameOver(), false)
	s := NewSnapshot("id1", g, tm)
	if s.Answer != "" || !s.Paused || s.Timer != TimerPaused || s.Hint != "Lang0" {
		t.Fatalf("snapshot = %+v", s)
	}
	guessAll(t, g, "go")
	tm.Sync(g.IsGameOver(), false)
	s = NewSnapshot("id1", g, tm)
	if s.Answer != "go" || s.Paused || s.Timer != TimerStopped || !s.Won || s.Celebration == nil {
		t.Fatalf("snapshot after win = %+v", s)
	}
}

func TestTimerStateJSONName(t *testing.T) {
	b, _ := TimerRunning.MarshalText()
	if string(b) != "running" {
		t.Fatalf("MarshalText() = %q", b)
	}
}
