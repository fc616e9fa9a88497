// internal/view/view.go
//
// HTML rendering of a game snapshot as templ components.
//   - Page: the full document served at "/".
//   - Board: the game fragment, also pushed over the websocket and served at
//     /game/{id}/board so the page can swap it in place.
//
// Components are plain templ.ComponentFunc values; every dynamic string goes
// through templ.EscapeString.

package view

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/robalobadob/assembly-endgame/internal/game"
)

// Title is the document and header title.
const Title = "Assembly: Endgame"

// PageData feeds Page.
type PageData struct {
	Snapshot game.Snapshot
	// AssetPrefix is where app.css and app.js are served from.
	AssetPrefix string
}

// Page renders the full HTML document around the board.
func Page(p PageData) templ.Component {
	prefix := p.AssetPrefix
	if prefix == "" {
		prefix = "/static"
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.raw(`<title>`)
		hw.text(Title)
		hw.raw(`</title><link rel="stylesheet" href="`)
		hw.text(prefix + "/app.css")
		hw.raw(`"></head><body><canvas id="confetti" aria-hidden="true"></canvas>`)
		if hw.err != nil {
			return hw.err
		}
		if err := Board(p.Snapshot).Render(ctx, w); err != nil {
			return err
		}
		hw.raw(`<script src="`)
		hw.text(prefix + "/app.js")
		hw.raw(`" defer></script></body></html>`)
		return hw.err
	})
}

// Board renders one frame of the game.
func Board(s game.Snapshot) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<main id="board"`)
		hw.attr("data-game-id", s.ID)
		hw.attr("data-timer", s.Timer.String())
		hw.attr("data-over", strconv.FormatBool(s.Over))
		if c := s.Celebration; c != nil {
			hw.attr("data-celebration-pieces", strconv.Itoa(c.Pieces))
			hw.attr("data-celebration-recycle", strconv.FormatBool(c.Recycle))
		}
		hw.raw(`>`)

		header(hw, s)
		status(hw, s.Status)
		chips(hw, s.Chips)
		cells(hw, s.Cells)
		announcement(hw, s.Announcement)
		keyboard(hw, s.Keys)

		if s.Over {
			hw.raw(`<button type="button" class="new-game" data-action="new-game">New Game</button>`)
		}
		hw.raw(`</main>`)
		return hw.err
	})
}

func header(hw *htmlWriter, s game.Snapshot) {
	hw.raw(`<header><h1>`)
	hw.text(Title)
	hw.raw(`</h1><p>Guess the word within `)
	hw.text(strconv.Itoa(s.GuessesAllowed))
	hw.raw(` attempts to keep the programming world safe from Assembly</p>`)
	hw.raw(`<p class="timer">Time Left: <span data-role="time-left">`)
	hw.text(strconv.Itoa(s.TimeLeft))
	hw.raw(`</span> seconds</p>`)
	if s.Paused {
		hw.raw(`<p class="paused-status">Timer paused — tab not active</p>`)
	}
	hw.raw(`</header>`)
}

func status(hw *htmlWriter, st game.Status) {
	class := templ.Classes("game-status",
		templ.KV("won", st.Kind == game.StatusWon),
		templ.KV("lost", st.Kind == game.StatusLost),
		templ.KV("farewell", st.Kind == game.StatusFarewell),
	)
	hw.raw(`<section aria-live="polite" role="status"`)
	hw.attr("class", class.String())
	hw.raw(`>`)
	switch st.Kind {
	case game.StatusFarewell:
		hw.raw(`<p class="farewell-message">`)
		hw.text(st.Message)
		hw.raw(`</p>`)
	case game.StatusWon, game.StatusLost:
		hw.raw(`<h2>`)
		hw.text(st.Title)
		hw.raw(`</h2><p>`)
		hw.text(st.Message)
		hw.raw(`</p>`)
	}
	hw.raw(`</section>`)
}

func chips(hw *htmlWriter, cs []game.Chip) {
	hw.raw(`<section class="language-chips">`)
	for _, c := range cs {
		hw.raw(`<span`)
		hw.attr("class", templ.Classes("chip", templ.KV("lost", c.Eliminated)).String())
		hw.attr("style", "background-color: "+c.Background+"; color: "+c.Color+";")
		hw.raw(`>`)
		hw.text(c.Name)
		hw.raw(`</span>`)
	}
	hw.raw(`</section>`)
}

func cells(hw *htmlWriter, cs []game.Cell) {
	hw.raw(`<section class="letters">`)
	for _, c := range cs {
		hw.raw(`<span`)
		if c.Missed {
			hw.attr("class", "missed-letter")
		}
		hw.raw(`>`)
		if c.Revealed {
			hw.text(c.Letter)
		} else {
			hw.raw(" ")
		}
		hw.raw(`</span>`)
	}
	hw.raw(`</section>`)
}

func announcement(hw *htmlWriter, a game.Announcement) {
	hw.raw(`<section class="sr-only" aria-live="polite" role="status"><p>`)
	hw.text(a.Guess)
	hw.raw(`</p><p>`)
	hw.text(a.Word)
	hw.raw(`</p></section>`)
}

func keyboard(hw *htmlWriter, ks []game.Key) {
	hw.raw(`<section class="keyboard">`)
	for _, k := range ks {
		hw.raw(`<button type="button"`)
		if cls := templ.Classes(templ.KV("correct", k.Correct), templ.KV("wrong", k.Wrong)).String(); cls != "" {
			hw.attr("class", cls)
		}
		hw.attr("data-letter", k.Letter)
		hw.attr("aria-label", "Letter "+k.Letter)
		hw.attr("aria-disabled", strconv.FormatBool(k.Guessed))
		if k.Disabled {
			hw.raw(` disabled`)
		}
		hw.raw(`>`)
		hw.text(strings.ToUpper(k.Letter))
		hw.raw(`</button>`)
	}
	hw.raw(`</section>`)
}

// RenderString renders c to a string.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// htmlWriter keeps the first write error so components can write freely
// and check once.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err == nil {
		_, hw.err = io.WriteString(hw.w, s)
	}
}

func (hw *htmlWriter) text(s string) { hw.raw(templ.EscapeString(s)) }

func (hw *htmlWriter) attr(name, value string) {
	hw.raw(" " + name + `="`)
	hw.text(value)
	hw.raw(`"`)
}
