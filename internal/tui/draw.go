// internal/tui/draw.go
//
// Screen layout, top to bottom:
//
//	Assembly: Endgame
//	Guess the word within 8 attempts ...
//	Time Left: 60 seconds   [Timer paused (terminal not focused)]
//	<status panel, two lines>
//	<language chips>
//	<word cells>
//	<keyboard, two rows of 13>
//	<New Game hint when over>
//
// Everything is centred horizontally; rows that do not fit are clipped.

package tui

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/robalobadob/assembly-endgame/internal/game"
)

const (
	Title = "Assembly: Endgame"

	keysPerRow = 13
)

var (
	colorBackground = tcell.NewRGBColor(0x28, 0x28, 0x26)
	colorText       = tcell.NewRGBColor(0xD9, 0xD9, 0xD9)
	colorMuted      = tcell.NewRGBColor(0x8E, 0x8E, 0x8E)
	colorCell       = tcell.NewRGBColor(0x32, 0x32, 0x32)
	colorKey        = tcell.NewRGBColor(0xFC, 0xBA, 0x29)
	colorCorrect    = tcell.NewRGBColor(0x10, 0xA9, 0x5B)
	colorWrong      = tcell.NewRGBColor(0xEC, 0x5D, 0x49)
	colorWon        = tcell.NewRGBColor(0x10, 0xA9, 0x5B)
	colorLost       = tcell.NewRGBColor(0xBA, 0x2A, 0x2A)
	colorFarewell   = tcell.NewRGBColor(0x7A, 0x5E, 0xA7)
	colorPaused     = tcell.NewRGBColor(0xF4, 0xEB, 0x13)
	colorInk        = tcell.NewRGBColor(0x1E, 0x1E, 0x1E)

	styleBase = tcell.StyleDefault.Background(colorBackground).Foreground(colorText)
)

func (a *App) draw() {
	a.screen.SetStyle(styleBase)
	a.screen.Clear()
	w, _ := a.screen.Size()
	s := a.Snapshot()

	y := 1
	drawCentered(a.screen, w, y, Title, styleBase.Bold(true))
	y++
	drawCentered(a.screen, w, y, "Guess the word within "+strconv.Itoa(s.GuessesAllowed)+
		" attempts to keep the programming world safe from Assembly", styleBase.Foreground(colorMuted))
	y += 2

	timer := "Time Left: " + strconv.Itoa(s.TimeLeft) + " seconds"
	drawCentered(a.screen, w, y, timer, styleBase.Bold(s.TimeLeft <= 10 && !s.Over))
	y++
	if s.Paused {
		drawCentered(a.screen, w, y, "Timer paused (terminal not focused)", styleBase.Foreground(colorPaused))
	}
	y += 2

	y = drawStatus(a.screen, w, y, s.Status)
	y = drawChips(a.screen, w, y, s.Chips)
	y++
	drawCells(a.screen, w, y, s.Cells)
	y += 2
	y = drawKeys(a.screen, w, y, s.Keys)
	y++
	if s.Over {
		drawCentered(a.screen, w, y, "Press Enter for a New Game · Esc to quit", styleBase.Bold(true))
	}

	if a.confetti != nil {
		a.confetti.draw(a.screen)
	}
	a.screen.Show()
}

// drawStatus renders the status panel and returns the next free row.
func drawStatus(s tcell.Screen, w, y int, st game.Status) int {
	var style tcell.Style
	switch st.Kind {
	case game.StatusWon:
		style = styleBase.Background(colorWon).Foreground(colorText)
	case game.StatusLost:
		style = styleBase.Background(colorLost).Foreground(colorText)
	case game.StatusFarewell:
		style = styleBase.Background(colorFarewell).Foreground(colorText).Italic(true)
	default:
		return y + 3
	}
	lines := []string{st.Title, st.Message}
	if st.Title == "" {
		lines = []string{st.Message}
	}
	width := 0
	for _, l := range lines {
		width = max(width, runewidth.StringWidth(l))
	}
	width += 4
	for i, l := range lines {
		x := (w - width) / 2
		fill(s, x, y+i, width, style)
		drawCentered(s, w, y+i, l, style.Bold(i == 0 && st.Title != ""))
	}
	return y + 3
}

func drawChips(s tcell.Screen, w, y int, chips []game.Chip) int {
	// chips wrap onto as many rows as the width needs
	var rows [][]game.Chip
	var row []game.Chip
	rowWidth := 0
	for _, c := range chips {
		cw := runewidth.StringWidth(c.Name) + 3
		if rowWidth+cw > w && len(row) > 0 {
			rows = append(rows, row)
			row, rowWidth = nil, 0
		}
		row = append(row, c)
		rowWidth += cw
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	for _, row := range rows {
		total := -1
		for _, c := range row {
			total += runewidth.StringWidth(c.Name) + 3
		}
		x := (w - total) / 2
		for _, c := range row {
			style := styleBase.Background(tcell.GetColor(c.Background)).Foreground(tcell.GetColor(c.Color))
			if c.Eliminated {
				style = styleBase.Background(colorCell).Foreground(colorMuted).StrikeThrough(true)
			}
			x = drawText(s, x, y, " "+c.Name+" ", style) + 1
		}
		y++
	}
	return y
}

func drawCells(s tcell.Screen, w, y int, cells []game.Cell) {
	x := (w - len(cells)*4 + 1) / 2
	for _, c := range cells {
		style := styleBase.Background(colorCell).Underline(true)
		if c.Missed {
			style = style.Foreground(colorWrong)
		}
		letter := " "
		if c.Revealed {
			letter = strings.ToUpper(c.Letter)
		}
		drawText(s, x, y, " "+letter+" ", style)
		x += 4
	}
}

// drawKeys renders the keyboard and returns the next free row.
func drawKeys(s tcell.Screen, w, y int, keys []game.Key) int {
	for start := 0; start < len(keys); start += keysPerRow {
		end := min(start+keysPerRow, len(keys))
		x := (w - (end-start)*4 + 1) / 2
		for _, k := range keys[start:end] {
			style := styleBase.Background(colorKey).Foreground(colorInk).Bold(true)
			switch {
			case k.Correct:
				style = style.Background(colorCorrect)
			case k.Wrong:
				style = style.Background(colorWrong)
			}
			if k.Disabled {
				style = style.Dim(true)
			}
			drawText(s, x, y, " "+strings.ToUpper(k.Letter)+" ", style)
			x += 4
		}
		y += 2
	}
	return y
}

func drawCentered(s tcell.Screen, w, y int, text string, style tcell.Style) {
	drawText(s, (w-runewidth.StringWidth(text))/2, y, text, style)
}

// drawText writes text from (x, y) and returns the column after it.
func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) int {
	w, h := s.Size()
	if y < 0 || y >= h {
		return x + runewidth.StringWidth(text)
	}
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if x >= 0 && x+rw <= w {
			s.SetContent(x, y, r, nil, style)
		}
		x += rw
	}
	return x
}

func fill(s tcell.Screen, x, y, n int, style tcell.Style) {
	for i := 0; i < n; i++ {
		s.SetContent(x+i, y, ' ', nil, style)
	}
}
